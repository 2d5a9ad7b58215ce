package sink

import (
	"fmt"
	"io"

	"github.com/segmentio/parquet-go"

	"github.com/raaihank/regex-splitter/internal/record"
)

// parquetRow is the column layout of parquet output. file_path is stored as
// text since parquet has no untyped JSON column.
type parquetRow struct {
	Regex          string   `parquet:"regex"`
	PositiveInputs []string `parquet:"positive_inputs"`
	NegativeInputs []string `parquet:"negative_inputs"`
	FilePath       string   `parquet:"file_path"`
}

// ParquetWriter stores classified records as parquet rows with the columns
// regex, positive_inputs, negative_inputs and file_path.
type ParquetWriter struct {
	out    io.WriteCloser
	writer *parquet.GenericWriter[parquetRow]
	rows   []parquetRow
}

// NewParquetWriter wraps out. Closing the writer closes out.
func NewParquetWriter(out io.WriteCloser) *ParquetWriter {
	return &ParquetWriter{
		out:    out,
		writer: parquet.NewGenericWriter[parquetRow](out),
		rows:   make([]parquetRow, 1),
	}
}

// Write appends rec as a row
func (w *ParquetWriter) Write(rec *record.ClassifiedRecord) error {
	w.rows[0] = parquetRow{
		Regex:          rec.Regex,
		PositiveInputs: rec.PositiveInputs,
		NegativeInputs: rec.NegativeInputs,
		FilePath:       rec.FilePathString(),
	}
	if _, err := w.writer.Write(w.rows); err != nil {
		return fmt.Errorf("failed to write parquet row: %w", err)
	}
	return nil
}

// Close writes the parquet footer and closes the underlying file
func (w *ParquetWriter) Close() error {
	writeErr := w.writer.Close()
	closeErr := w.out.Close()
	if writeErr != nil {
		return fmt.Errorf("failed to finalize parquet output: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output: %w", closeErr)
	}
	return nil
}
