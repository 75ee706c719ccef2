package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/numkit/internal/cli"
	apperrors "github.com/agbru/numkit/internal/errors"
	"github.com/agbru/numkit/internal/logging"
	"github.com/agbru/numkit/internal/metrics"
	"github.com/agbru/numkit/internal/orchestration"
	"github.com/agbru/numkit/internal/server"
	"github.com/agbru/numkit/internal/sysmon"
	"github.com/agbru/numkit/internal/tui"
)

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{Quiet: a.Config.Quiet, Verbose: a.Config.Verbose, JSON: a.Config.JSON}
}

// runDemo walks through every bound symbol once.
func (a *Application) runDemo(ctx context.Context, out io.Writer) int {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancel()
	if err := cli.RunDemo(ctx, a.Module, out); err != nil {
		return a.fail(err)
	}
	return apperrors.ExitSuccess
}

// runCall performs the single call named by --call.
func (a *Application) runCall(ctx context.Context, out io.Writer) int {
	sig, err := a.Module.Signature(a.Config.Call)
	if err != nil {
		return a.fail(err)
	}
	args, err := cli.ParseCallArgs(sig, a.Config.CallArgs)
	if err != nil {
		return a.fail(apperrors.BindingError{Symbol: a.Config.Call, Cause: err})
	}

	ctx, cancel := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancel()
	start := time.Now()
	result, err := a.Module.Call(ctx, a.Config.Call, args...)
	elapsed := time.Since(start)
	if err != nil {
		return a.fail(err)
	}
	a.Logger.Debug("call completed", logging.String("function", a.Config.Call), logging.Duration("elapsed", elapsed))

	if err := cli.DisplayCallResult(out, a.Config.Call, result, elapsed, a.outputConfig()); err != nil {
		return a.fail(err)
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive session on stdin.
func (a *Application) runREPL(ctx context.Context, out io.Writer) int {
	repl := cli.NewREPL(a.Module, cli.REPLConfig{Timeout: a.Config.Timeout, Verbose: a.Config.Verbose})
	repl.SetOutput(out)
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runServe serves the module over HTTP until ctx is canceled.
func (a *Application) runServe(ctx context.Context, out io.Writer) int {
	srv := server.NewServer(a.Module, a.Config, server.WithLogger(a.Logger))
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Serving %s on %s (Ctrl+C to stop)\n", a.Module.Name(), a.Config.Addr)
	}
	if err := srv.Start(ctx); err != nil {
		a.Logger.Error("server failed", err)
		return a.fail(err)
	}
	return apperrors.ExitSuccess
}

// runBench measures the benchmark suite and reports the results.
func (a *Application) runBench(ctx context.Context, out io.Writer) int {
	cases := orchestration.SelectCases(orchestration.DefaultSuite(a.Module), a.Config.BenchFilter)
	if len(cases) == 0 {
		return a.fail(apperrors.NewConfigError("no benchmark matches --bench-filter %q", a.Config.BenchFilter))
	}

	ctx, cancel := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancel()

	if a.Config.TUI {
		a.Logger.Debug("starting benchmark dashboard", logging.Int("benchmarks", len(cases)))
		return tui.Run(ctx, cases, orchestration.OptionsFromConfig(a.Config))
	}

	host := sysmon.DescribeHost()
	quiet := a.Config.Quiet || a.Config.JSON
	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if quiet {
		reporter, progressOut = orchestration.NullProgressReporter{}, io.Discard
	} else {
		cli.DisplayHost(out, host, sysmon.Sample(), metrics.NewMemoryCollector().Snapshot())
		fmt.Fprintln(out)
	}

	results := orchestration.ExecuteBenchmarks(ctx, cases, orchestration.OptionsFromConfig(a.Config), reporter, progressOut)
	for _, r := range results {
		if r.Err != nil {
			a.Logger.Error("benchmark failed", r.Err, logging.String("benchmark", r.Name))
		}
	}

	if a.Config.JSON {
		if err := cli.DisplayJSON(out, cli.NewBenchReport(host, results)); err != nil {
			return a.fail(err)
		}
		return apperrors.ExitCodeFor(firstError(results))
	}
	return orchestration.AnalyzeResults(results, cli.CLIResultPresenter{}, out)
}

func firstError(results []orchestration.BenchmarkResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
