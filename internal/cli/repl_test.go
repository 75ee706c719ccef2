package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agbru/numkit/internal/binding"
	"github.com/agbru/numkit/internal/ui"
)

func runREPL(t *testing.T, m *binding.Module, script string) string {
	t.Helper()
	noColor(t)
	r := NewREPL(m, REPLConfig{Timeout: time.Second})
	var out bytes.Buffer
	r.SetInput(strings.NewReader(script))
	r.SetOutput(&out)
	r.Start(t.Context())
	return out.String()
}

func TestREPL_Commands(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{"add", "add 10 32\n", []string{"42\n"}},
		{"add wraps", "add 18446744073709551615 1\n", []string{"> 0\n"}},
		{"fib", "fib 20\n", []string{"6765\n"}},
		{"bare number", "93\n", []string{"12200160415121876738\n"}},
		{"sort words", "sort 5 2 8 1 9\n", []string{"[1, 2, 5, 8, 9]\n"}},
		{"sort json", "sort [3,-1,3]\n", []string{"[-1, 3, 3]\n"}},
		{"sort empty", "sort\n", []string{"[]\n"}},
		{"sort single", "sort 42\n", []string{"[42]\n"}},
		{"calculator", "new 10\ninc 5\ninc 10\nvalue\nrepr\n", []string{
			"[0] Calculator(value=10)", "15\n", "25\n", "Calculator(value=25)\n",
		}},
		{"list and use", "new 1\nnew 2\nuse 0\nlist\n", []string{"[0] Calculator(value=1)", "[1] Calculator(value=2)", "► [0] Calculator(value=1)"}},
		{"free", "new 1\nfree\nvalue\n", []string{"Released. 0 calculator(s) left.", "no current calculator"}},
		{"no calculator", "inc 1\n", []string{"Error: no current calculator"}},
		{"bad argument", "fib -1\n", []string{"Error: fibonacci:"}},
		{"wrong arity", "add 1\n", []string{"Error: add_numbers:"}},
		{"unknown command", "mul 2 3\n", []string{"unknown command: mul", "Type help"}},
		{"symbols", "symbols\n", []string{"Functions\n", "add_numbers", "sort_numbers", "Classes\n", "Calculator", "methods: __repr__, add, get_value"}},
		{"help", "help\n", []string{"Available commands:"}},
		{"exit", "exit\nfib 10\n", []string{"Goodbye!"}},
		{"eof", "fib 10", []string{"55\n", "Goodbye!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runREPL(t, binding.NewDefaultModule(), tt.script)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestREPL_ExitStopsReading(t *testing.T) {
	out := runREPL(t, binding.NewDefaultModule(), "quit\nfib 10\n")
	if strings.Contains(out, "55") {
		t.Errorf("commands after quit were executed:\n%s", out)
	}
}

func TestREPL_ReleasesObjects(t *testing.T) {
	m := binding.NewDefaultModule()
	runREPL(t, m, "new 1\nnew 2\nnew 3\n")
	if m.Len() != 0 {
		t.Errorf("Len() = %d after session, want 0", m.Len())
	}
}

func TestREPL_CanceledContext(t *testing.T) {
	noColor(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	r := NewREPL(binding.NewDefaultModule(), REPLConfig{Timeout: time.Second})
	var out bytes.Buffer
	r.SetInput(strings.NewReader("fib 10\n"))
	r.SetOutput(&out)
	r.Start(ctx)

	if strings.Contains(out.String(), "55") {
		t.Error("a canceled session should not run commands")
	}
}

func TestREPL_ThemedOutput(t *testing.T) {
	orig := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.DarkTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(orig) })

	r := NewREPL(binding.NewDefaultModule(), REPLConfig{Timeout: time.Second})
	var out bytes.Buffer
	r.SetInput(strings.NewReader("new 7\nsymbols\n"))
	r.SetOutput(&out)
	r.Start(t.Context())

	th := ui.DarkTheme
	for _, want := range []string{
		th.Info + "[0]" + th.Reset,
		th.Primary + "Calculator(value=7)" + th.Reset,
		th.Underline + "Functions" + th.Reset,
		th.Underline + "Classes" + th.Reset,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
