package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"videnc/internal/config"
	"videnc/internal/history"
	"videnc/internal/stats"
)

// SettingsRows lists the effective settings of cfg as name/value pairs.
func SettingsRows(cfg *config.Config) [][]string {
	frames := "all"
	if cfg.Input.Frames > 0 {
		frames = Count(int64(cfg.Input.Frames))
	}
	rows := [][]string{
		{"Input", cfg.Input.Path},
		{"Frames", frames},
		{"Output", cfg.Output.Path},
		{"Engine", cfg.Engine.Kind},
	}
	if cfg.Engine.Kind == config.EngineExec {
		rows = append(rows,
			[]string{"Engine binary", cfg.Engine.Binary},
			[]string{"Engine args", strings.Join(cfg.Engine.Args, " ")},
		)
	} else {
		rows = append(rows, []string{"Responsive", strconv.FormatBool(cfg.Engine.Responsive)})
	}
	if cfg.Source != "" {
		rows = append(rows, []string{"Config file", cfg.Source})
	}

	flags := cfg.StatsFlags()
	overrides := cfg.SinkSpecs()
	for _, def := range stats.Catalog() {
		value := "off"
		if def.Enabled(flags) {
			sink := def.Sink
			if override, ok := overrides[def.Name]; ok {
				sink = override
			}
			value = sink.String()
		}
		rows = append(rows, []string{"Stats: " + Title(def.Name), value})
	}

	mode := "append"
	if cfg.Report.Truncate {
		mode = "truncate"
	}
	rows = append(rows, []string{"Report file mode", mode})
	if cfg.Report.Dir != "" {
		rows = append(rows, []string{"Report dir", cfg.Report.Dir})
	}
	if cfg.Report.HistoryDB != "" {
		rows = append(rows, []string{"History DB", cfg.Report.HistoryDB})
	}
	if cfg.Report.MetricsTextfile != "" {
		rows = append(rows, []string{"Metrics textfile", cfg.Report.MetricsTextfile})
	}
	rows = append(rows, []string{"Log level", cfg.Logging.Level}, []string{"Log format", cfg.Logging.Format})
	return rows
}

// WriteSettings prints the settings table under a section header.
func WriteSettings(w io.Writer, cfg *config.Config) error {
	var b strings.Builder
	b.WriteString(SectionHeader("Settings", ShouldColorize(w)))
	b.WriteString(RenderTable([]string{"Setting", "Value"}, SettingsRows(cfg), nil))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteEnv prints environment variables. With all set, every known variable
// is listed with its description; otherwise only those in use with values.
func WriteEnv(w io.Writer, lookup config.LookupFunc, all bool) error {
	var b strings.Builder
	b.WriteString(SectionHeader("Environment", ShouldColorize(w)))
	if all {
		rows := make([][]string, 0, len(config.KnownEnv))
		for _, v := range config.KnownEnv {
			rows = append(rows, []string{v.Name, "--" + v.Option, v.Description})
		}
		b.WriteString(RenderTable([]string{"Variable", "Option", "Description"}, rows, nil))
		b.WriteString("\n\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	inUse := config.EnvInUse(lookup)
	if len(inUse) == 0 {
		b.WriteString("No VIDENC_* variables set.\n\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	rows := make([][]string, 0, len(inUse))
	for _, v := range inUse {
		rows = append(rows, []string{v.Name, v.Value})
	}
	b.WriteString(RenderTable([]string{"Variable", "Value"}, rows, nil))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHistory prints recent runs as a table.
func WriteHistory(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		id := run.RunID
		if idx := strings.IndexByte(id, '-'); idx > 0 {
			id = id[:idx]
		}
		rows = append(rows, []string{
			id,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Engine,
			run.Input,
			Seconds(run.WallSeconds),
			Seconds(run.CPUSeconds),
			Count(int64(run.Cells)),
			run.Status,
		})
	}
	table := RenderTable(
		[]string{"Run", "Started", "Engine", "Input", "Wall (s)", "CPU (s)", "Cells", "Status"},
		rows,
		[]Alignment{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft},
	)
	_, err := fmt.Fprintln(w, table)
	return err
}
