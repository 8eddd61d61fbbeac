// Package config loads the optional oapigen configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bluesky-social/oapigen/codegen"
	"github.com/bluesky-social/oapigen/lower"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// RelPath is where the config file lives under the XDG config directories.
const RelPath = "oapigen/config.yaml"

// Config mirrors the command line flags; flags given explicitly take precedence.
type Config struct {
	// Output is the file generated code is written to; empty or "-" means stdout.
	Output      string          `yaml:"output"`
	Libraries   LibrariesConfig `yaml:"libraries"`
	OnError     string          `yaml:"on_error"`
	Concurrency int             `yaml:"concurrency"`
}

// LibrariesConfig picks the libraries used to represent complex data types.
type LibrariesConfig struct {
	Datetime string `yaml:"datetime"`
}

func Default() *Config {
	return &Config{
		Output:    "-",
		Libraries: LibrariesConfig{Datetime: string(lower.DatetimeChrono)},
		OnError:   string(codegen.FailFast),
	}
}

// Load reads a config file. Environment variables in the file are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Discover returns the path of the first config file found in the XDG config directories.
func Discover() (string, bool) {
	p, err := xdg.SearchConfigFile(RelPath)
	if err != nil {
		return "", false
	}
	return p, true
}

// LoadOrDefault loads path when given; otherwise the discovered config file, or defaults when
// there is none.
func LoadOrDefault(path string) (*Config, string, error) {
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	p, ok := Discover()
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}
	return cfg, p, err
}

func setDefaults(cfg *Config) {
	if cfg.Output == "" {
		cfg.Output = "-"
	}
	if cfg.Libraries.Datetime == "" {
		cfg.Libraries.Datetime = string(lower.DatetimeChrono)
	}
	if cfg.OnError == "" {
		cfg.OnError = string(codegen.FailFast)
	}
}

func (c *Config) Validate() error {
	if _, err := lower.ParseDatetimeLibrary(c.Libraries.Datetime); err != nil {
		return err
	}
	if _, err := codegen.ParsePolicy(c.OnError); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

// Options converts the file settings into generator options.
func (c *Config) Options() (codegen.Options, error) {
	dt, err := lower.ParseDatetimeLibrary(c.Libraries.Datetime)
	if err != nil {
		return codegen.Options{}, err
	}
	policy, err := codegen.ParsePolicy(c.OnError)
	if err != nil {
		return codegen.Options{}, err
	}
	return codegen.Options{
		Datetime:    dt,
		Policy:      policy,
		Concurrency: c.Concurrency,
	}, nil
}
