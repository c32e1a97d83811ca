package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration read from a TOML string such as "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config represents the global ~/.whatsterm/config.toml.
type Config struct {
	DefaultSession string `toml:"default_session"`
	// MediaDir overrides the per-session media directory.
	MediaDir      string   `toml:"media_dir,omitempty"`
	ImageProtocol string   `toml:"image_protocol"`
	FlushInterval Duration `toml:"flush_interval"`
	DecodeWorkers int      `toml:"decode_workers"`
	LogLevel      string   `toml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		ImageProtocol: "auto",
		FlushInterval: Duration{time.Second},
		DecodeWorkers: 2,
		LogLevel:      "info",
	}
}

// Load reads config from the given path on top of the defaults. Returns an
// error if the file is missing or malformed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrCreate is Load, except that a missing file is written with the
// defaults so the available settings can be found and edited.
func LoadOrCreate(path string) (*Config, error) {
	cfg, err := Load(path)
	if !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	cfg = Default()
	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ImageProtocol {
	case "", "auto", "kitty", "halfblocks":
	default:
		return fmt.Errorf("invalid image_protocol %q: want auto, kitty or halfblocks", c.ImageProtocol)
	}
	if c.FlushInterval.Duration <= 0 {
		return fmt.Errorf("invalid flush_interval %s: must be positive", c.FlushInterval)
	}
	if c.DecodeWorkers < 1 {
		return fmt.Errorf("invalid decode_workers %d: must be at least 1", c.DecodeWorkers)
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
