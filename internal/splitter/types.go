package splitter

import (
	"errors"
	"fmt"
	"time"

	"github.com/raaihank/regex-splitter/internal/matcher"
	"github.com/raaihank/regex-splitter/internal/sink"
)

// DefaultOutputPath is used when no output path is supplied
const DefaultOutputPath = "output_file.ndjson"

// MalformedRecordMessage is the diagnostic emitted for every skipped line
const MalformedRecordMessage = "Error parsing JSON or creating regex"

// ErrMalformedRecord marks a line that could not be decoded or whose pattern
// could not be compiled or evaluated
var ErrMalformedRecord = errors.New("malformed record")

// Config contains splitter configuration
type Config struct {
	DefaultOutput    string        `yaml:"default_output" mapstructure:"default_output"`         // output_file.ndjson
	Engine           string        `yaml:"engine" mapstructure:"engine"`                         // ecmascript
	OutputFormat     string        `yaml:"output_format" mapstructure:"output_format"`           // auto
	MatchTimeout     time.Duration `yaml:"match_timeout" mapstructure:"match_timeout"`           // 0 (disabled)
	PatternCacheSize int           `yaml:"pattern_cache_size" mapstructure:"pattern_cache_size"` // 256
	MaxLineBytes     int           `yaml:"max_line_bytes" mapstructure:"max_line_bytes"`         // 64 MiB
	ProgressReport   int           `yaml:"progress_report" mapstructure:"progress_report"`       // 10000
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		DefaultOutput:    DefaultOutputPath,
		Engine:           string(matcher.EngineECMAScript),
		OutputFormat:     string(sink.FormatAuto),
		PatternCacheSize: 256,
		MaxLineBytes:     64 * 1024 * 1024,
		ProgressReport:   10000,
	}
}

// MaxLineErrors bounds Result.Errors; Result.Skipped keeps counting past it
const MaxLineErrors = 100

// LineError records why a line was skipped
type LineError struct {
	Line int64
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Result represents the outcome of one run over an input file
type Result struct {
	InputPath  string
	OutputPath string
	LinesRead  int64
	Processed  int64
	Skipped    int64
	// Errors holds the first MaxLineErrors skipped lines
	Errors     []*LineError
	Statistics *Statistics
	Duration   time.Duration
}

// Statistics holds per-record positive and negative counts in processing order
type Statistics struct {
	PositiveCounts []int
	NegativeCounts []int
}

// Add appends the counts of one processed record
func (s *Statistics) Add(positive, negative int) {
	s.PositiveCounts = append(s.PositiveCounts, positive)
	s.NegativeCounts = append(s.NegativeCounts, negative)
}

// Len returns the number of records counted
func (s *Statistics) Len() int {
	return len(s.PositiveCounts)
}

// Medians returns the median positive and negative counts. ok is false when
// no record was counted.
func (s *Statistics) Medians() (positive, negative float64, ok bool) {
	if s.Len() == 0 {
		return 0, 0, false
	}
	positive, _ = Median(s.PositiveCounts)
	negative, _ = Median(s.NegativeCounts)
	return positive, negative, true
}
