package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".aopsharvest"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ErrInvalidConfigFile is returned when the configuration file holds a
// value that cannot be parsed.
var ErrInvalidConfigFile = errors.New("invalid configuration file")

// File represents the structure of the .aopsharvest configuration file.
// Every field is optional; absent fields keep the current setting.
type File struct {
	// Variant is the competition edition, e.g. "AMC_8".
	Variant string `yaml:"variant,omitempty"`

	// Years lists year ranges such as "2003" or "2003-2005".
	Years []string `yaml:"years,omitempty"`

	// Problems is the problem range, e.g. "1-25".
	Problems string `yaml:"problems,omitempty"`

	// Output is the output directory.
	Output string `yaml:"output,omitempty"`

	// Concurrency caps concurrent fetches. 0 means no cap.
	Concurrency *int `yaml:"concurrency,omitempty"`

	// Timeout bounds each request, e.g. "30s". "0s" means no timeout.
	Timeout string `yaml:"timeout,omitempty"`

	// CancelOnError cancels in-flight requests after the first failure.
	CancelOnError *bool `yaml:"cancelOnError,omitempty"`

	// KeepDuplicateYears harvests a year again when ranges overlap.
	KeepDuplicateYears *bool `yaml:"keepDuplicateYears,omitempty"`

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy is an optional SOCKS5 proxy address.
	Proxy string `yaml:"proxy,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}

	return &cf, nil
}

// Apply copies every value set in the file onto cfg.
func (f *File) Apply(cfg *Config) error {
	if f.Variant != "" {
		v, err := ParseVariant(f.Variant)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
		}
		cfg.Variant = v
	}

	if len(f.Years) > 0 {
		years, err := ParseYears(f.Years)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
		}
		cfg.Years = years
	}

	if f.Problems != "" {
		problems, err := ParseProblems(f.Problems)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
		}
		cfg.Problems = problems
	}

	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout: %w", ErrInvalidConfigFile, err)
		}
		cfg.Timeout = d
	}

	if f.Output != "" {
		cfg.OutputDir = f.Output
	}
	if f.Concurrency != nil {
		cfg.Concurrency = *f.Concurrency
	}
	if f.CancelOnError != nil {
		cfg.CancelOnError = *f.CancelOnError
	}
	if f.KeepDuplicateYears != nil {
		cfg.KeepDuplicateYears = *f.KeepDuplicateYears
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		cfg.ProxyAddress = f.Proxy
	}

	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .aopsharvest in the current directory
// 3. Look for .aopsharvest in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
