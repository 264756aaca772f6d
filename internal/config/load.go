package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type loadOptions struct {
	lookup      LookupFunc
	usage       io.Writer
	searchPaths []string
	searchSet   bool
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

// WithEnv replaces os.LookupEnv as the source of VIDENC_* overrides.
func WithEnv(lookup LookupFunc) LoadOption {
	return func(o *loadOptions) { o.lookup = lookup }
}

// WithUsageOutput sets where --help writes the option reference.
func WithUsageOutput(w io.Writer) LoadOption {
	return func(o *loadOptions) { o.usage = w }
}

// WithSearchPaths replaces the config files tried when --config is absent.
func WithSearchPaths(paths ...string) LoadOption {
	return func(o *loadOptions) {
		o.searchPaths = append([]string(nil), paths...)
		o.searchSet = true
	}
}

// Load translates process arguments into a validated Config.
//
// Failures are *ParseFailure for grammar problems, *ValidationError for
// semantically invalid values, or ErrHelp when usage was requested.
func Load(args []string, opts ...LoadOption) (*Config, error) {
	lo := loadOptions{lookup: os.LookupEnv, usage: os.Stdout}
	for _, opt := range opts {
		opt(&lo)
	}
	if !lo.searchSet {
		lo.searchPaths = defaultSearchPaths()
	}

	parsed, flagSet, err := parseArgs(args)
	if err != nil {
		return nil, err
	}
	if parsed.help {
		if lo.usage != nil {
			fmt.Fprint(lo.usage, Usage())
		}
		return nil, ErrHelp
	}

	cfg := Default()

	configPath := parsed.configPath
	explicit := flagSet.Changed("config")
	if !explicit {
		if value, ok := lo.lookup("VIDENC_CONFIG"); ok && strings.TrimSpace(value) != "" {
			configPath = value
			explicit = true
		}
	}
	if explicit {
		if err := decodeFile(&cfg, configPath, true); err != nil {
			return nil, err
		}
	} else {
		for _, candidate := range lo.searchPaths {
			if err := decodeFile(&cfg, candidate, false); err != nil {
				return nil, err
			}
			if cfg.Source != "" {
				break
			}
		}
	}

	if err := applyEnv(&cfg, lo.lookup); err != nil {
		return nil, err
	}
	if err := parsed.applyFlags(flagSet, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultSearchPaths() []string {
	paths := make([]string, 0, 2)
	if path, err := DefaultConfigPath(); err == nil {
		paths = append(paths, path)
	}
	if path, err := filepath.Abs(projectConfigName); err == nil {
		paths = append(paths, path)
	}
	return paths
}

// decodeFile applies the config file at path. A missing file is an error
// only when the path was requested explicitly.
func decodeFile(cfg *Config, path string, required bool) error {
	fail := func(err error) error {
		return &ParseFailure{Option: "config", Value: path, Err: err}
	}
	resolved, err := expandPath(strings.TrimSpace(path))
	if err != nil {
		return fail(err)
	}
	if resolved == "" {
		if required {
			return fail(errors.New("empty path"))
		}
		return nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fail(fmt.Errorf("open config: %w", err))
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fail(fmt.Errorf("stat config: %w", err))
	}
	if info.IsDir() {
		if !required {
			return nil
		}
		return fail(errors.New("config path is a directory"))
	}

	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fail(fmt.Errorf("parse config: %w", err))
		}
	default:
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return fail(fmt.Errorf("parse config: %w", err))
		}
	}
	cfg.Source = resolved
	return nil
}
