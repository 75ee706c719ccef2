// Package app wires configuration, the binding module and the output
// surfaces together and dispatches to the selected mode.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/numkit/internal/binding"
	"github.com/agbru/numkit/internal/cli"
	"github.com/agbru/numkit/internal/config"
	apperrors "github.com/agbru/numkit/internal/errors"
	"github.com/agbru/numkit/internal/logging"
	"github.com/agbru/numkit/internal/ui"
)

// Application represents the numkit application instance.
type Application struct {
	Config    config.AppConfig
	Module    *binding.Module
	Logger    logging.Logger
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithModule sets the binding module the application exposes.
func WithModule(m *binding.Module) AppOption {
	return func(a *Application) { a.Module = m }
}

// WithLogger sets the application logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "numkit"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if app.Logger == nil {
		app.Logger = logging.NewLoggerWithLevel(errWriter, "numkit", cfg.LogLevel)
	}
	if app.Module == nil {
		app.Module = binding.NewDefaultModule(binding.WithLogger(app.Logger))
	}
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	mode := a.Config.Mode()
	if mode == config.ModeCompletion {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))
	ui.InitTheme(a.Config.NoColor)
	a.Logger.Debug("starting", logging.String("mode", string(mode)), logging.String("version", Version))

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	switch mode {
	case config.ModeCall:
		return a.runCall(ctx, out)
	case config.ModeREPL:
		return a.runREPL(ctx, out)
	case config.ModeServe:
		return a.runServe(ctx, out)
	case config.ModeBench:
		return a.runBench(ctx, out)
	default:
		return a.runDemo(ctx, out)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Module.Functions()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// fail reports err on the error writer and returns its exit code.
func (a *Application) fail(err error) int {
	return apperrors.HandleError(err, 0, a.ErrWriter, ui.ErrorColors{})
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
