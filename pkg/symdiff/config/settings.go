package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Output formats.
const (
	OutputSexpr = "sexpr"
	OutputLaTeX = "latex"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Settings configures a derivation run.
type Settings struct {
	// Variable is the variable to differentiate with respect to.
	Variable string `yaml:"variable" json:"variable"`
	// Order is the number of successive derivatives to take.
	Order int `yaml:"order" json:"order"`
	// Tolerance decides when a literal counts as 0 or 1.
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
	// MaxPasses bounds repeated simplification.
	MaxPasses int `yaml:"max_passes" json:"max_passes"`
	// MaxNodes caps live nodes per tree. 0 means unlimited.
	MaxNodes int `yaml:"max_nodes" json:"max_nodes"`
	// CacheSize is the number of memoised derivatives. 0 disables the cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
	// StorePath is a SQLite file for derivation records. Empty disables
	// persistence.
	StorePath string `yaml:"store_path" json:"store_path"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format" json:"log_format"`
	// Output is sexpr or latex.
	Output string `yaml:"output" json:"output"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Order:     1,
		Tolerance: 1e-7,
		MaxPasses: 8,
		MaxNodes:  1 << 20,
		CacheSize: 128,
		LogLevel:  "info",
		LogFormat: LogFormatText,
		Output:    OutputSexpr,
	}
}

// Validate reports every invalid field at once.
func (s Settings) Validate() error {
	var errs []error
	if s.Variable == "" {
		errs = append(errs, errors.New("variable is required"))
	}
	if s.Order < 1 {
		errs = append(errs, fmt.Errorf("order must be at least 1, got %d", s.Order))
	}
	if !(s.Tolerance > 0) {
		errs = append(errs, fmt.Errorf("tolerance must be positive, got %g", s.Tolerance))
	}
	if s.MaxPasses < 1 {
		errs = append(errs, fmt.Errorf("max_passes must be at least 1, got %d", s.MaxPasses))
	}
	if s.MaxNodes < 0 {
		errs = append(errs, fmt.Errorf("max_nodes must not be negative, got %d", s.MaxNodes))
	}
	if s.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must not be negative, got %d", s.CacheSize))
	}
	if _, err := s.Level(); err != nil {
		errs = append(errs, err)
	}
	switch s.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log_format must be %q or %q, got %q", LogFormatText, LogFormatJSON, s.LogFormat))
	}
	switch s.Output {
	case OutputSexpr, OutputLaTeX:
	default:
		errs = append(errs, fmt.Errorf("output must be %q or %q, got %q", OutputSexpr, OutputLaTeX, s.Output))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (s Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Logger builds a slog logger writing to w in the configured format.
// An unparseable level falls back to info.
func (s Settings) Logger(w io.Writer) *slog.Logger {
	level, err := s.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if s.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
