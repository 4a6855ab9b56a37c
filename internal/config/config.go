package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/aopsharvest/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "aopsharvest"

	// DefaultVariant is the contest harvested when none is given.
	DefaultVariant = model.VariantAMC8

	// DefaultYear is the single year harvested when none is given.
	DefaultYear = 2023

	// DefaultFirstProblem and DefaultLastProblem bound the default problem range.
	DefaultFirstProblem = 21
	DefaultLastProblem  = 25

	// DefaultOutputDir is where rendered documents are written.
	DefaultOutputDir = "."

	// DefaultConcurrency of 0 fetches every page of a run at once.
	DefaultConcurrency = 0

	// DefaultTimeout of 0 leaves requests without a deadline.
	DefaultTimeout = time.Duration(0)

	// DefaultUserAgent is empty: requests carry the transport's own
	// User-Agent and no custom headers.
	DefaultUserAgent = ""

	// DefaultMaxBodySize is 0, meaning response bodies are not limited.
	DefaultMaxBodySize = int64(0)

	// MinYear and MaxYear bound the accepted years to four digits.
	MinYear = 1000
	MaxYear = 9999

	// MaxProblem is the highest accepted problem number.
	MaxProblem = 100
)

// Config holds all configuration options for aopsharvest.
// It is populated from defaults, the optional config file and CLI flags,
// in that order, and passed through the application explicitly.
//
// Design decision: We use a single flat struct, as the number of options
// is small.
type Config struct {
	// Variant is the competition edition to harvest.
	Variant model.Variant

	// Years holds the year ranges in the order given.
	Years []model.Range

	// Problems is the problem-number range harvested for every year.
	Problems model.Range

	// KeepDuplicateYears harvests a year again when ranges overlap.
	KeepDuplicateYears bool

	// OutputDir is the directory rendered documents are written to.
	OutputDir string

	// Concurrency caps the number of pages fetched at once. 0 means no cap.
	Concurrency int

	// Timeout bounds each HTTP request. 0 means no timeout.
	Timeout time.Duration

	// CancelOnError cancels in-flight requests after the first failure.
	CancelOnError bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// BaseURL overrides the wiki base URL. Empty means the public wiki.
	BaseURL string

	// MaxBodySize is the maximum response body size in bytes. 0 means no limit.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .aopsharvest is searched in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// DBDir is the directory holding the history database.
	DBDir string

	// SaveToDB records successful runs in the history database.
	SaveToDB bool

	// JSONOutput also writes the result as result.json.
	JSONOutput bool

	// MarkdownSummary also writes summary.md.
	MarkdownSummary bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Variant:     DefaultVariant,
		Years:       []model.Range{model.NewRange(DefaultYear, DefaultYear)},
		Problems:    model.NewRange(DefaultFirstProblem, DefaultLastProblem),
		OutputDir:   DefaultOutputDir,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for aopsharvest.
// On Linux: ~/.local/share/aopsharvest
// On macOS: ~/Library/Application Support/aopsharvest
// On Windows: %LOCALAPPDATA%\aopsharvest
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for aopsharvest.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Years) == 0 {
		return ErrNoYears
	}

	for _, yr := range c.Years {
		if !yr.IsValid() || yr.First < MinYear || yr.Last > MaxYear {
			return fmt.Errorf("%w: %s", ErrInvalidYearRange, yr)
		}
	}

	if !c.Problems.IsValid() || c.Problems.First < 1 || c.Problems.Last > MaxProblem {
		return fmt.Errorf("%w: %s", ErrInvalidProblemRange, c.Problems)
	}

	if !c.Variant.IsValid() {
		return ErrInvalidVariant
	}

	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}

	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	return nil
}

// Request returns the harvest request described by the configuration.
func (c *Config) Request() model.HarvestRequest {
	return model.HarvestRequest{
		Years:              append([]model.Range(nil), c.Years...),
		Problems:           c.Problems,
		Variant:            c.Variant,
		KeepDuplicateYears: c.KeepDuplicateYears,
	}
}

// ParseYears parses year range arguments such as "2003", "2003-2005" or
// "2003-2005,2010". Ranges keep the order they are given in.
func ParseYears(values []string) ([]model.Range, error) {
	ranges := make([]model.Range, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			r, err := model.ParseRange(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidYearRange, err)
			}
			ranges = append(ranges, r)
		}
	}
	return ranges, nil
}

// ParseProblems parses a problem range argument such as "21-25".
func ParseProblems(value string) (model.Range, error) {
	r, err := model.ParseRange(value)
	if err != nil {
		return model.Range{}, fmt.Errorf("%w: %w", ErrInvalidProblemRange, err)
	}
	return r, nil
}

// ParseVariant parses a variant argument such as "AMC_8" or "10a".
func ParseVariant(value string) (model.Variant, error) {
	v := model.ParseVariant(value)
	if !v.IsValid() {
		return model.VariantUnknown, fmt.Errorf("%w: %q", ErrInvalidVariant, value)
	}
	return v, nil
}
