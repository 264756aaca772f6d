package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"

	"videnc/internal/stats"
)

// TextfileExporter writes the run snapshot to Path in the Prometheus text format.
type TextfileExporter struct {
	Path string
}

// NewTextfileExporter returns an exporter targeting path.
func NewTextfileExporter(path string) *TextfileExporter {
	return &TextfileExporter{Path: path}
}

func (e *TextfileExporter) Name() string { return "metrics" }

// Export implements stats.Exporter.
func (e *TextfileExporter) Export(_ context.Context, snapshot stats.Snapshot) error {
	if strings.TrimSpace(e.Path) == "" {
		return errors.New("metrics textfile path is empty")
	}
	reg := prom.NewRegistry()
	if err := register(reg, snapshot); err != nil {
		return err
	}
	if dir := filepath.Dir(e.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prom.WriteToTextfile(e.Path, reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func register(reg *prom.Registry, snapshot stats.Snapshot) error {
	counters := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "videnc",
		Name:      "counter",
		Help:      "Statistics table counts from the last run",
	}, []string{"table", "key"})
	durations := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "videnc",
		Name:      "duration_seconds",
		Help:      "Statistics table durations from the last run",
	}, []string{"table", "key"})
	total := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "videnc",
		Name:      "total_seconds",
		Help:      "Time spent in the encode call of the last run",
	}, []string{"clock"})
	info := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "videnc",
		Name:      "run_info",
		Help:      "Identity of the last run",
	}, []string{"run_id", "engine", "status"})

	for _, table := range snapshot.Tables {
		for _, cell := range table.Cells {
			key := strings.Join(cell.Key, ",")
			if key == "" {
				key = "value"
			}
			if table.Kind == stats.KindDuration {
				durations.WithLabelValues(table.Name, key).Set(float64(cell.Value) / 1e9)
				continue
			}
			counters.WithLabelValues(table.Name, key).Set(float64(cell.Value))
		}
	}
	total.WithLabelValues("wall").Set(snapshot.Run.Wall.Seconds())
	total.WithLabelValues("cpu").Set(snapshot.Run.CPU.Seconds())
	status := "ok"
	if snapshot.Run.EncodeErr != nil {
		status = "encode_failed"
	}
	info.WithLabelValues(snapshot.Run.RunID, snapshot.Run.Engine, status).Set(1)

	for _, c := range []prom.Collector{counters, durations, total, info} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}
	return nil
}

var _ stats.Exporter = (*TextfileExporter)(nil)
