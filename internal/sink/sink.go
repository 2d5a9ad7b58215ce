package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/raaihank/regex-splitter/internal/record"
)

// Writer persists classified records in order
type Writer interface {
	Write(rec *record.ClassifiedRecord) error
	// Close flushes buffered records and releases the underlying file
	Close() error
}

// Format represents supported output formats
type Format string

const (
	FormatAuto    Format = "auto"
	FormatNDJSON  Format = "ndjson"
	FormatParquet Format = "parquet"
)

// ParseFormat converts a configuration value into a Format
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatAuto, FormatNDJSON, FormatParquet:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (must be auto, ndjson, or parquet)", name)
	}
}

// DetectFormat detects the output format from the file extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".parquet":
		return FormatParquet
	default:
		return FormatNDJSON
	}
}

// Create creates or truncates path and returns a writer for the given format.
// FormatAuto resolves through DetectFormat.
func Create(path string, format Format, logger *zap.Logger) (Writer, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(path)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	logger.Debug("Output sink opened",
		zap.String("path", path),
		zap.String("format", string(format)))

	switch format {
	case FormatNDJSON:
		return NewNDJSONWriter(file), nil
	case FormatParquet:
		return NewParquetWriter(file), nil
	default:
		file.Close()
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
