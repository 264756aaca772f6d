package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"videnc/internal/config"
	"videnc/internal/display"
	"videnc/internal/logging"
)

// Run executes the full sequence for args and returns the exit code. The
// engine is destroyed exactly once before Run returns, on every path.
func Run(ctx context.Context, args []string, opts Options) int {
	l := New(opts)
	return l.Run(ctx, args)
}

// Run is the method form of the package-level Run.
func (l *Lifecycle) Run(ctx context.Context, args []string) int {
	defer func() { _ = l.Destroy() }()

	if err := display.WriteBanner(l.stdout, l.opts.Version); err != nil {
		l.logger.Warn("banner write failed", logging.Error(err))
	}

	if err := l.Create(ctx); err != nil {
		fmt.Fprintf(l.stderr, "Error: %v\n", err)
		return l.ExitCode()
	}

	cfg, err := l.Configure(args)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			return 0
		}
		l.reportConfigError(args, err)
		return l.ExitCode()
	}

	if cfg.Report.PrintSettings {
		if err := display.WriteSettings(l.stdout, cfg); err != nil {
			l.logger.Warn("settings print failed", logging.Error(err))
		}
	}
	if cfg.Report.PrintEnv {
		if err := display.WriteEnv(l.stdout, l.opts.Env, false); err != nil {
			l.logger.Warn("environment print failed", logging.Error(err))
		}
	}

	if err := l.Encode(ctx); err != nil {
		if errors.Is(err, ErrInterrupted) {
			fmt.Fprintf(l.stderr, "Error: %v\n", err)
			return l.ExitCode()
		}
		l.logger.Error("encode phase rejected", logging.Error(err))
		return l.ExitCode()
	}
	if _, err := l.Report(ctx); err != nil {
		l.logger.Error("report phase rejected", logging.Error(err))
	}
	return l.ExitCode()
}

func (l *Lifecycle) reportConfigError(args []string, err error) {
	var parseErr *config.ParseFailure
	var validErr *config.ValidationError
	switch {
	case errors.As(err, &parseErr):
		fmt.Fprintf(l.stderr, "Error parsing option %q with argument %q.\n", parseErr.Option, parseErr.Value)
		if parseErr.Err != nil {
			l.logger.Debug("parse failure detail", logging.String(logging.FieldOption, parseErr.Option), logging.Error(parseErr.Err))
		}
		return
	case errors.As(err, &validErr):
		fmt.Fprintf(l.stderr, "Invalid configuration: option %q with argument %q: %s.\n", validErr.Option, validErr.Value, validErr.Reason)
	default:
		fmt.Fprintf(l.stderr, "Error: %v\n", err)
	}
	if config.PrintEnvRequested(args, l.opts.Env) {
		if perr := display.WriteEnv(l.stderr, l.opts.Env, true); perr != nil {
			l.logger.Warn("environment print failed", logging.Error(perr))
		}
	}
}

