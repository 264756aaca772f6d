package config

import (
	"strconv"

	"videnc/internal/logging"
	"videnc/internal/stats"
)

// Validate ensures the configuration is usable. Failures are *ValidationError.
func (c *Config) Validate() error {
	if err := c.validateIO(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateIO() error {
	if c.Input.Path == "" {
		return invalid("input", c.Input.Path, "an input file is required")
	}
	if c.Output.Path == "" {
		return invalid("output", c.Output.Path, "an output path is required")
	}
	if c.Input.Frames < 0 {
		return invalid("frames", strconv.Itoa(c.Input.Frames), "must not be negative")
	}
	return nil
}

func (c *Config) validateEngine() error {
	switch c.Engine.Kind {
	case EngineDrapto:
		return nil
	case EngineExec:
		if c.Engine.Binary == "" {
			return invalid("engine-binary", c.Engine.Binary, "the exec engine requires a binary")
		}
		return nil
	default:
		return invalid("engine", c.Engine.Kind, "unknown engine (want drapto or exec)")
	}
}

func (c *Config) validateReport() error {
	for _, table := range c.SinkNames() {
		value := c.Report.Sinks[table]
		if !stats.IsKnownTable(table) {
			return invalid("sink", table+"="+value, "unknown statistics table")
		}
		if _, err := stats.ParseSinkSpec(value); err != nil {
			return invalid("sink", table+"="+value, err.Error())
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return invalid("log-level", c.Logging.Level, "unknown log level (want debug, info, warn, or error)")
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return invalid("log-format", c.Logging.Format, "unknown log format (want console or json)")
	}
	return nil
}
