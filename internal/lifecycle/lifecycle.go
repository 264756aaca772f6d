package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"videnc/internal/config"
	"videnc/internal/engine"
	"videnc/internal/history"
	"videnc/internal/logging"
	"videnc/internal/metrics"
	"videnc/internal/preflight"
	"videnc/internal/stats"
	"videnc/internal/timer"
)

// Options configures a Lifecycle. Zero values select process defaults.
type Options struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
	// Engine replaces the configuration-selected engine handle.
	Engine engine.Engine
	// Env replaces os.LookupEnv for configuration and --print-env.
	Env config.LookupFunc
	// LoadOptions are appended to the options passed to config.Load.
	LoadOptions []config.LoadOption
	// Logger is used until configuration provides the run logger.
	Logger   *slog.Logger
	NewRunID func() string
	Now      func() time.Time
}

// Lifecycle drives one encoder run. It is not safe for concurrent use.
type Lifecycle struct {
	opts   Options
	stdout io.Writer
	stderr io.Writer

	mu    sync.Mutex
	state State

	engine   engine.Engine
	cfg      *config.Config
	registry *stats.Registry
	logger   *slog.Logger
	logClose io.Closer
	timer    *timer.Timer

	runID     string
	startedAt time.Time
	elapsed   timer.Elapsed
	encodeErr error
	failed    bool

	destroyOnce sync.Once
	destroyErr  error
}

// New returns a lifecycle in StateNew.
func New(opts Options) *Lifecycle {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Env == nil {
		opts.Env = os.LookupEnv
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	eng := opts.Engine
	if eng == nil {
		eng = engine.New()
	}
	return &Lifecycle{
		opts:   opts,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		engine: eng,
		logger: logging.NewComponentLogger(opts.Logger, "lifecycle"),
		timer:  timer.New(),
	}
}

// State returns the current phase.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Config returns the loaded configuration, nil before Configure succeeds.
func (l *Lifecycle) Config() *config.Config {
	return l.cfg
}

// Registry returns the statistics registry, nil before Configure succeeds.
func (l *Lifecycle) Registry() *stats.Registry {
	return l.registry
}

// Elapsed returns the measured encode time.
func (l *Lifecycle) Elapsed() timer.Elapsed {
	return l.elapsed
}

// EncodeErr returns the error reported by the engine, if any.
func (l *Lifecycle) EncodeErr() error {
	return l.encodeErr
}

// RunID returns the identifier assigned at configuration.
func (l *Lifecycle) RunID() string {
	return l.runID
}

func (l *Lifecycle) transition(to State) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !CanTransition(l.state, to) {
		return &TransitionError{From: l.state, To: to}
	}
	l.logger.Debug("lifecycle transition",
		logging.String("from", l.state.String()),
		logging.String(logging.FieldState, to.String()),
	)
	l.state = to
	if to == StateFailed {
		l.failed = true
	}
	return nil
}

func (l *Lifecycle) require(state State) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != state {
		return &TransitionError{From: l.state, To: nextOf(state)}
	}
	return nil
}

func nextOf(state State) State {
	switch state {
	case StateNew:
		return StateCreated
	case StateCreated:
		return StateConfigured
	case StateConfigured:
		return StateEncoded
	case StateEncoded:
		return StateReported
	default:
		return StateDestroyed
	}
}

// Create acquires the encoder engine.
func (l *Lifecycle) Create(ctx context.Context) error {
	if err := l.require(StateNew); err != nil {
		return err
	}
	if err := l.engine.Create(ctx); err != nil {
		_ = l.transition(StateFailed)
		return fmt.Errorf("create encoder: %w", err)
	}
	return l.transition(StateCreated)
}

// Configure loads configuration from args, builds the run logger and the
// statistics registry, zeroes the tables, and binds the engine.
//
// config.ErrHelp leaves the lifecycle in StateCreated; every other failure
// moves it to StateFailed.
func (l *Lifecycle) Configure(args []string) (*config.Config, error) {
	if err := l.require(StateCreated); err != nil {
		return nil, err
	}

	loadOpts := append([]config.LoadOption{
		config.WithEnv(l.opts.Env),
		config.WithUsageOutput(l.stdout),
	}, l.opts.LoadOptions...)
	cfg, err := config.Load(args, loadOpts...)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			return nil, err
		}
		return nil, l.fail(err)
	}
	if err := preflight.Err(preflight.RunAll(cfg)); err != nil {
		return nil, l.fail(err)
	}

	logger, closer, err := l.buildLogger(cfg)
	if err != nil {
		return nil, l.fail(&config.ValidationError{Option: "log-file", Value: cfg.Logging.File, Reason: err.Error()})
	}
	l.logClose = closer

	l.runID = l.opts.NewRunID()
	ctx := logging.WithRunID(context.Background(), l.runID)
	runLogger := logging.WithContext(ctx, logger)
	l.logger = logging.NewComponentLogger(runLogger, "lifecycle")

	l.registry = stats.NewRegistry(stats.Options{
		Flags:     cfg.StatsFlags(),
		Sinks:     cfg.SinkSpecs(),
		Dir:       cfg.Report.Dir,
		Truncate:  cfg.Report.Truncate,
		Stdout:    l.stdout,
		Logger:    runLogger,
		Exporters: exportersFor(cfg),
	})
	l.registry.Reset()

	if err := l.engine.Configure(cfg, runLogger); err != nil {
		return nil, l.fail(fmt.Errorf("configure encoder: %w", err))
	}

	l.cfg = cfg
	if err := l.transition(StateConfigured); err != nil {
		return nil, err
	}
	l.logger.Info("configured",
		logging.String(logging.FieldEngine, cfg.Engine.Kind),
		logging.String("input", cfg.Input.Path),
		logging.String("output", cfg.Output.Path),
		logging.Int("tables", len(l.registry.Tables())),
	)
	return cfg, nil
}

func (l *Lifecycle) fail(err error) error {
	if terr := l.transition(StateFailed); terr != nil {
		return errors.Join(err, terr)
	}
	return err
}

func (l *Lifecycle) buildLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.File,
		Writer:   l.stderr,
	})
}

func exportersFor(cfg *config.Config) []stats.Exporter {
	var exporters []stats.Exporter
	if cfg.Report.HistoryDB != "" {
		exporters = append(exporters, history.NewExporter(cfg.Report.HistoryDB))
	}
	if cfg.Report.MetricsTextfile != "" {
		exporters = append(exporters, metrics.NewTextfileExporter(cfg.Report.MetricsTextfile))
	}
	return exporters
}

// Encode runs the single timed encode. An engine error is logged and kept
// for the report; it does not fail the run. Cancellation of ctx during the
// encode does: the lifecycle moves to StateFailed and nothing is reported.
func (l *Lifecycle) Encode(ctx context.Context) error {
	if err := l.require(StateConfigured); err != nil {
		return err
	}
	l.startedAt = l.opts.Now()
	l.timer.Start()
	err := l.engine.Encode(ctx, l.registry)
	l.elapsed = l.timer.Stop()

	if ctxErr := ctx.Err(); ctxErr != nil {
		l.encodeErr = err
		return l.fail(fmt.Errorf("%w: %w", ErrInterrupted, ctxErr))
	}
	if err != nil {
		l.encodeErr = err
		l.logger.Error("encode failed",
			logging.Error(err),
			logging.Duration("wall", l.elapsed.Wall),
		)
	} else {
		l.logger.Info("encode finished",
			logging.Duration("wall", l.elapsed.Wall),
			logging.Duration("cpu", l.elapsed.CPU),
		)
	}
	return l.transition(StateEncoded)
}

// Report prints the timing line and then flushes the statistics tables. Sink and
// exporter failures are logged by the registry and never fail the run.
func (l *Lifecycle) Report(ctx context.Context) (stats.FlushResult, error) {
	if err := l.require(StateEncoded); err != nil {
		return stats.FlushResult{}, err
	}
	if _, err := io.WriteString(l.stdout, timer.TotalTimeLine(l.elapsed)); err != nil {
		l.logger.Warn("timing report failed", logging.Error(err))
	}
	result := l.registry.Flush(ctx, stats.RunSummary{
		RunID:     l.runID,
		StartedAt: l.startedAt,
		Engine:    l.cfg.Engine.Kind,
		Input:     l.cfg.Input.Path,
		Wall:      l.elapsed.Wall,
		CPU:       l.elapsed.CPU,
		EncodeErr: l.encodeErr,
	})
	if !result.OK() {
		l.logger.Warn("statistics reported with failures",
			logging.Int("reported", len(result.Reported)),
			logging.Int("failures", len(result.Failures)),
		)
	}
	return result, l.transition(StateReported)
}

// Destroy releases the engine. Only the first call has any effect.
func (l *Lifecycle) Destroy() error {
	l.destroyOnce.Do(func() {
		l.destroyErr = l.engine.Destroy()
		if l.destroyErr != nil {
			l.logger.Warn("engine teardown failed", logging.Error(l.destroyErr))
		}
		l.mu.Lock()
		l.state = StateDestroyed
		l.mu.Unlock()
		if l.logClose != nil {
			_ = l.logClose.Close()
		}
	})
	return l.destroyErr
}

// ExitCode maps the outcome to the process exit status.
func (l *Lifecycle) ExitCode() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failed {
		return 1
	}
	return 0
}
