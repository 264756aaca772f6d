package config

const (
	EngineDrapto = "drapto"
	EngineExec   = "exec"

	defaultEngine     = EngineDrapto
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
	defaultConfigPath = "~/.config/videnc/config.toml"
	projectConfigName = "videnc.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Engine: Engine{
			Kind:       defaultEngine,
			Responsive: true,
		},
		Report: Report{
			Sinks: map[string]string{},
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
