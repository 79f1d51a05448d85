package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir = "~/.local/share/bite/portable"
	DefaultLogFile = "bite.log"

	// FileName is the optional config file inside the data directory
	FileName = "bite.yaml"
)

// DefaultImageExtensions are scanned when the config names none
var DefaultImageExtensions = []string{".jpg", ".jpeg", ".png"}

// DataDir returns the data directory from BITE_DATA env var,
// falling back to DefaultDataDir. A leading ~ is expanded.
func DataDir() string {
	if env := os.Getenv("BITE_DATA"); env != "" {
		return ExpandHome(env)
	}
	return ExpandHome(DefaultDataDir)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

type Config struct {
	LogFile         string         `yaml:"log_file"`
	ImageExtensions []string       `yaml:"image_extensions"`
	Supplier        SupplierConfig `yaml:"supplier"`

	dataDir string
}

// SupplierConfig selects where imported tags come from: a command run per
// image hash, or a dump file. At most one may be set.
type SupplierConfig struct {
	Command []string `yaml:"command"`
	Delay   string   `yaml:"delay"`
	Dump    string   `yaml:"dump"`

	delay time.Duration
}

// Default returns the configuration used when no file exists
func Default(dataDir string) *Config {
	return &Config{
		LogFile:         DefaultLogFile,
		ImageExtensions: DefaultImageExtensions,
		dataDir:         dataDir,
	}
}

// Load reads bite.yaml from the data directory. A missing file yields
// the defaults.
func Load(dataDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(dataDir), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := Default(dataDir)
	cfg.ImageExtensions = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.LogFile) == "" {
		cfg.LogFile = DefaultLogFile
	}
	if len(cfg.ImageExtensions) == 0 {
		cfg.ImageExtensions = DefaultImageExtensions
	}
	for i, ext := range cfg.ImageExtensions {
		ext = strings.TrimSpace(ext)
		if ext == "" || ext == "." {
			return fmt.Errorf("image extension %d is empty", i)
		}
		if strings.ContainsAny(ext, "/\\ ") {
			return fmt.Errorf("invalid image extension: %q", ext)
		}
	}

	s := &cfg.Supplier
	if len(s.Command) > 0 && strings.TrimSpace(s.Command[0]) == "" {
		return fmt.Errorf("supplier command program is required")
	}
	if len(s.Command) > 0 && s.Dump != "" {
		return fmt.Errorf("supplier command and dump are mutually exclusive")
	}
	if s.Delay != "" {
		d, err := time.ParseDuration(s.Delay)
		if err != nil {
			return fmt.Errorf("invalid supplier delay: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("supplier delay must not be negative: %s", s.Delay)
		}
		s.delay = d
	}

	return nil
}

// LogPath returns the log file path, relative paths resolved against the
// data directory
func (c *Config) LogPath() string {
	path := ExpandHome(c.LogFile)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dataDir, path)
}

// DumpPath returns the supplier dump path resolved like LogPath, or "" when
// no dump is configured
func (c *Config) DumpPath() string {
	if c.Supplier.Dump == "" {
		return ""
	}
	path := ExpandHome(c.Supplier.Dump)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dataDir, path)
}

// SupplierDelay returns the configured delay and whether one was set
func (c *Config) SupplierDelay() (time.Duration, bool) {
	return c.Supplier.delay, c.Supplier.Delay != ""
}
