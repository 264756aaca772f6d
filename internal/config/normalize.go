package config

import (
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeReport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		option string
		value  *string
	}{
		{"input", &c.Input.Path},
		{"output", &c.Output.Path},
		{"report-dir", &c.Report.Dir},
		{"history-db", &c.Report.HistoryDB},
		{"metrics-textfile", &c.Report.MetricsTextfile},
		{"log-file", &c.Logging.File},
	}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field.value)
		expanded, err := expandPath(trimmed)
		if err != nil {
			return &ParseFailure{Option: field.option, Value: trimmed, Err: err}
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeEngine() {
	c.Engine.Kind = strings.ToLower(strings.TrimSpace(c.Engine.Kind))
	if c.Engine.Kind == "" {
		c.Engine.Kind = defaultEngine
	}
	c.Engine.Binary = strings.TrimSpace(c.Engine.Binary)
}

func (c *Config) normalizeReport() {
	if len(c.Report.Sinks) == 0 {
		c.Report.Sinks = map[string]string{}
		return
	}
	sinks := make(map[string]string, len(c.Report.Sinks))
	for table, spec := range c.Report.Sinks {
		sinks[strings.ToLower(strings.TrimSpace(table))] = strings.TrimSpace(spec)
	}
	c.Report.Sinks = sinks
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
