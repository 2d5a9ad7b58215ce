package sink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/raaihank/regex-splitter/internal/record"
)

// NDJSONWriter writes one JSON object per line. Records are joined by a single
// newline: nothing precedes the first record and nothing follows the last.
type NDJSONWriter struct {
	out     io.WriteCloser
	buf     *bufio.Writer
	scratch bytes.Buffer
	enc     *json.Encoder
	first   bool
}

// NewNDJSONWriter wraps out. Closing the writer closes out.
func NewNDJSONWriter(out io.WriteCloser) *NDJSONWriter {
	w := &NDJSONWriter{
		out:   out,
		buf:   bufio.NewWriter(out),
		first: true,
	}
	w.enc = json.NewEncoder(&w.scratch)
	w.enc.SetEscapeHTML(false)
	return w
}

// Write appends rec to the stream
func (w *NDJSONWriter) Write(rec *record.ClassifiedRecord) error {
	w.scratch.Reset()
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	line := bytes.TrimSuffix(w.scratch.Bytes(), []byte{'\n'})

	if !w.first {
		if err := w.buf.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	if _, err := w.buf.Write(line); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	w.first = false
	return nil
}

// Close flushes and closes the underlying file
func (w *NDJSONWriter) Close() error {
	flushErr := w.buf.Flush()
	closeErr := w.out.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush output: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output: %w", closeErr)
	}
	return nil
}
