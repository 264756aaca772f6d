package engine

import (
	"log/slog"
	"sync"

	draptolib "github.com/five82/drapto"

	"videnc/internal/logging"
	"videnc/internal/stats"
)

// statsReporter adapts drapto reporter events to the statistics tables and
// the run log. Drapto may report from its own goroutines, so writes are
// serialized here.
type statsReporter struct {
	mu     sync.Mutex
	rec    stats.Recorder
	logger *slog.Logger
}

func newStatsReporter(rec stats.Recorder, logger *slog.Logger) *statsReporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &statsReporter{rec: rec, logger: logger}
}

func (r *statsReporter) event(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Count(stats.TableEngineEvents, 1, index)
}

func (r *statsReporter) Hardware(s draptolib.HardwareSummary) {
	r.event(stats.EventHardware)
	r.logger.Debug("drapto hardware", logging.String("hostname", s.Hostname))
}

func (r *statsReporter) Initialization(s draptolib.InitializationSummary) {
	r.event(stats.EventInitialization)
	r.logger.Info("drapto initialized",
		logging.String("input_file", s.InputFile),
		logging.String("output_file", s.OutputFile),
		logging.String("resolution", s.Resolution),
		logging.String("dynamic_range", s.DynamicRange),
	)
}

func (r *statsReporter) StageProgress(s draptolib.StageProgress) {
	r.event(stats.EventStageProgress)
	r.logger.Debug("drapto stage",
		logging.String("stage", s.Stage),
		logging.Float64("percent", float64(s.Percent)),
		logging.String("message", s.Message),
	)
}

func (r *statsReporter) CropResult(s draptolib.CropSummary) {
	r.event(stats.EventCropResult)
	r.logger.Debug("drapto crop",
		logging.String("crop", s.Crop),
		logging.Bool("required", s.Required),
		logging.Bool("disabled", s.Disabled),
	)
}

func (r *statsReporter) EncodingConfig(s draptolib.EncodingConfigSummary) {
	r.event(stats.EventEncodingConfig)
	r.logger.Info("drapto encoding config",
		logging.String("encoder", s.Encoder),
		logging.String("preset", s.Preset),
		logging.String("quality", s.Quality),
		logging.String("pixel_format", s.PixelFormat),
	)
}

func (r *statsReporter) EncodingStarted(totalFrames uint64) {
	r.event(stats.EventEncodingStarted)
	r.logger.Debug("drapto encoding started", logging.Uint64("total_frames", totalFrames))
}

func (r *statsReporter) EncodingProgress(s draptolib.ProgressSnapshot) {
	r.event(stats.EventEncodingProgress)
	r.logger.Debug("drapto progress",
		logging.Float64("percent", float64(s.Percent)),
		logging.Float64("fps", float64(s.FPS)),
		logging.Duration("eta", s.ETA),
	)
}

func (r *statsReporter) ValidationComplete(s draptolib.ValidationSummary) {
	r.mu.Lock()
	r.rec.Count(stats.TableEngineEvents, 1, stats.EventValidation)
	for _, step := range s.Steps {
		outcome := stats.OutcomePassed
		if !step.Passed {
			outcome = stats.OutcomeFailed
		}
		r.rec.Count(stats.TableValidation, 1, outcome)
	}
	r.mu.Unlock()

	if !s.Passed {
		r.logger.Warn("drapto validation failed", logging.Int("steps", len(s.Steps)))
		return
	}
	r.logger.Info("drapto validation passed", logging.Int("steps", len(s.Steps)))
}

func (r *statsReporter) EncodingComplete(s draptolib.EncodingOutcome) {
	r.mu.Lock()
	r.rec.Count(stats.TableEngineEvents, 1, stats.EventEncodingComplete)
	r.rec.Time(stats.TableEncodeTime, s.TotalTime)
	r.mu.Unlock()

	r.logger.Info("drapto encoding complete",
		logging.String("output_file", s.OutputFile),
		logging.Duration("total_time", s.TotalTime),
	)
}

func (r *statsReporter) Warning(message string) {
	r.event(stats.EventWarning)
	r.logger.Warn("drapto warning", logging.String("message", message))
}

func (r *statsReporter) Error(e draptolib.ReporterError) {
	r.event(stats.EventError)
	r.logger.Error("drapto error",
		logging.String("title", e.Title),
		logging.String("message", e.Message),
		logging.String("suggestion", e.Suggestion),
	)
}

func (r *statsReporter) OperationComplete(message string) {
	r.event(stats.EventOperationComplete)
	r.logger.Debug("drapto operation complete", logging.String("message", message))
}

// Batch events belong to multi-file runs, which videnc never starts.

func (r *statsReporter) BatchStarted(draptolib.BatchStartInfo) {}

func (r *statsReporter) FileProgress(draptolib.FileProgressContext) {}

func (r *statsReporter) BatchComplete(draptolib.BatchSummary) {}

var _ draptolib.Reporter = (*statsReporter)(nil)
