package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/numkit/internal/binding"
	"github.com/agbru/numkit/internal/format"
	"github.com/agbru/numkit/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Timeout is the maximum duration of each command.
	Timeout time.Duration
	// Verbose prints the duration of each call.
	Verbose bool
}

// REPL is an interactive session over a binding module. Calculators created
// in the session are numbered in creation order; one of them is current and
// receives inc, value and repr.
type REPL struct {
	config  REPLConfig
	module  *binding.Module
	handles []binding.Handle
	current int
	in      io.Reader
	out     io.Writer
}

// NewREPL creates a new REPL instance reading stdin and writing stdout.
func NewREPL(m *binding.Module, config REPLConfig) *REPL {
	return &REPL{
		config:  config,
		module:  m,
		current: -1,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start runs the session until exit, end of input or ctx is done. Objects
// created during the session are released on return.
func (r *REPL) Start(ctx context.Context) {
	defer r.releaseAll()

	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for ctx.Err() == nil {
		fmt.Fprint(r.out, ui.ColorGreen()+"numkit> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(ctx, line) {
				return
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s\n", ui.Title("numkit interactive session"))
	fmt.Fprintf(r.out, "%s\n\n", ui.Dim("module "+r.module.Name()+": "+strings.Join(r.module.Functions(), ", ")+", "+strings.Join(r.module.Classes(), ", ")))
}

func (r *REPL) printHelp() {
	cmd := func(name, desc string) {
		fmt.Fprintf(r.out, "  %s%-14s%s - %s\n", ui.ColorYellow(), name, ui.ColorReset(), desc)
	}
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	cmd("add <a> <b>", "add_numbers(a, b)")
	cmd("fib <n>", "fibonacci(n); a bare number does the same")
	cmd("sort <n>...", "sort_numbers([n, ...])")
	cmd("new <n>", "create Calculator(n) and make it current")
	cmd("inc <n>", "current calculator: add(n)")
	cmd("value", "current calculator: get_value()")
	cmd("repr", "current calculator: __repr__()")
	cmd("use <i>", "make calculator #i current")
	cmd("free", "release the current calculator")
	cmd("list", "list calculators in this session")
	cmd("symbols", "list bound functions and classes")
	cmd("help", "display this help")
	cmd("exit / quit", "leave the session")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	switch cmd {
	case "add":
		r.callFunction(ctx, "add_numbers", args)
	case "fib", "fibonacci":
		r.callFunction(ctx, "fibonacci", args)
	case "sort":
		r.callFunction(ctx, "sort_numbers", args)
	case "new":
		r.cmdNew(ctx, args)
	case "inc":
		r.invokeCurrent(ctx, "add", args)
	case "value":
		r.invokeCurrent(ctx, "get_value", args)
	case "repr":
		r.invokeCurrent(ctx, "__repr__", args)
	case "use":
		r.cmdUse(args)
	case "free":
		r.cmdFree()
	case "list", "ls":
		r.cmdList()
	case "symbols":
		r.cmdSymbols()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if _, err := strconv.ParseUint(cmd, 10, 64); err == nil {
			r.callFunction(ctx, "fibonacci", []string{cmd})
			return true
		}
		r.printError(fmt.Errorf("unknown command: %s", cmd))
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) callFunction(ctx context.Context, name string, words []string) {
	sig, err := r.module.Signature(name)
	if err != nil {
		r.printError(err)
		return
	}
	args, err := ParseCallArgs(sig, words)
	if err != nil {
		r.printError(err)
		return
	}
	start := time.Now()
	res, err := r.module.Call(ctx, name, args...)
	if err != nil {
		r.printError(err)
		return
	}
	r.printResult(FormatValue(res), time.Since(start))
}

func (r *REPL) cmdNew(ctx context.Context, args []string) {
	if len(args) != 1 {
		r.printUsage("new <n>")
		return
	}
	h, err := r.module.New(ctx, binding.CalculatorClass, args[0])
	if err != nil {
		r.printError(err)
		return
	}
	r.handles = append(r.handles, h)
	r.current = len(r.handles) - 1
	repr, _ := r.module.Repr(h)
	r.printObject(r.current, repr)
}

func (r *REPL) invokeCurrent(ctx context.Context, method string, words []string) {
	if r.current < 0 {
		r.printError(errors.New("no current calculator; create one with: new <n>"))
		return
	}
	args := make([]any, len(words))
	for i, w := range words {
		args[i] = w
	}
	start := time.Now()
	res, err := r.module.Invoke(ctx, r.handles[r.current], method, args...)
	if err != nil {
		r.printError(err)
		return
	}
	r.printResult(FormatValue(res), time.Since(start))
}

func (r *REPL) cmdUse(args []string) {
	if len(args) != 1 {
		r.printUsage("use <i>")
		return
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= len(r.handles) {
		r.printError(fmt.Errorf("no calculator #%s", args[0]))
		return
	}
	r.current = i
	repr, _ := r.module.Repr(r.handles[i])
	r.printObject(i, repr)
}

func (r *REPL) cmdFree() {
	if r.current < 0 {
		r.printError(errors.New("no current calculator"))
		return
	}
	if err := r.module.Release(r.handles[r.current]); err != nil {
		r.printError(err)
	}
	r.handles = append(r.handles[:r.current], r.handles[r.current+1:]...)
	r.current = len(r.handles) - 1
	fmt.Fprintf(r.out, "Released. %d calculator(s) left.\n", len(r.handles))
}

func (r *REPL) cmdList() {
	if len(r.handles) == 0 {
		fmt.Fprintln(r.out, "No calculators yet; create one with: new <n>")
		return
	}
	for i, h := range r.handles {
		marker := "  "
		if i == r.current {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		repr, err := r.module.Repr(h)
		if err != nil {
			repr = err.Error()
		}
		fmt.Fprintf(r.out, "%s%s[%d]%s %s\n", marker, ui.ColorMagenta(), i, ui.ColorReset(), repr)
	}
}

func (r *REPL) printObject(i int, repr string) {
	fmt.Fprintf(r.out, "%s[%d]%s %s%s%s\n", ui.ColorMagenta(), i, ui.ColorReset(), ui.ColorCyan(), repr, ui.ColorReset())
}

func (r *REPL) cmdSymbols() {
	fmt.Fprintf(r.out, "%sFunctions%s\n", ui.ColorUnderline(), ui.ColorReset())
	for _, name := range r.module.Functions() {
		fmt.Fprintf(r.out, "  %s%-14s%s %s\n", ui.ColorYellow(), name, ui.ColorReset(), ui.Dim(r.module.Doc(name)))
	}
	fmt.Fprintf(r.out, "%sClasses%s\n", ui.ColorUnderline(), ui.ColorReset())
	for _, name := range r.module.Classes() {
		methods, _ := r.module.Methods(name)
		fmt.Fprintf(r.out, "  %s%-14s%s %s\n", ui.ColorYellow(), name, ui.ColorReset(), ui.Dim(r.module.Doc(name)))
		fmt.Fprintf(r.out, "  %-14s methods: %s\n", "", strings.Join(methods, ", "))
	}
}

func (r *REPL) releaseAll() {
	for _, h := range r.handles {
		_ = r.module.Release(h)
	}
	r.handles = nil
	r.current = -1
}

func (r *REPL) printResult(value string, d time.Duration) {
	fmt.Fprintf(r.out, "%s%s%s\n", ui.ColorGreen(), value, ui.ColorReset())
	if r.config.Verbose {
		fmt.Fprintf(r.out, "%s\n", ui.Dim(format.FormatExecutionDuration(d)))
	}
}

func (r *REPL) printUsage(usage string) {
	fmt.Fprintf(r.out, "%sUsage: %s%s\n", ui.ColorRed(), usage, ui.ColorReset())
}

func (r *REPL) printError(err error) {
	fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
}
