// Package config loads and saves assembler settings: default CPU mode,
// include search directories, output formatting, and pre-seeded symbol
// definitions, in the same TOML-on-disk style the rest of the corpus uses.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the assembler's persistent configuration.
type Config struct {
	// Assemble settings
	Assemble struct {
		CPU           string   `toml:"cpu"`            // "6502" or "65c02"
		IncludeDirs   []string `toml:"include_dirs"`    // extra .include search paths
		Defines       []string `toml:"defines"`         // "-D"-style predefines, e.g. "DEBUG=1"
		WarnTruncated bool     `toml:"warn_truncated"`  // warn on .byte values > 255
	} `toml:"assemble"`

	// Output settings
	Output struct {
		Format       string `toml:"format"` // "bin" or "hex"
		BytesPerLine int    `toml:"bytes_per_line"`
		DumpSymbols  bool   `toml:"dump_symbols"`
	} `toml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assemble.CPU = "6502"
	cfg.Assemble.IncludeDirs = nil
	cfg.Assemble.Defines = nil
	cfg.Assemble.WarnTruncated = true

	cfg.Output.Format = "bin"
	cfg.Output.BytesPerLine = 16
	cfg.Output.DumpSymbols = false

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "asm65")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "asm65")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file
// is not an error: it yields the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file, creating parent
// directories as needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
