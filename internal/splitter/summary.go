package splitter

import (
	"fmt"
	"io"
)

// WriteSummary prints the median counts, when any record was processed,
// followed by the completion line naming the output file
func WriteSummary(w io.Writer, result *Result) error {
	if err := writeMedians(w, result); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Finished writing to %s\n", result.OutputPath)
	return err
}

// WriteAnalysis prints the record count and median counts of an analyzed file
func WriteAnalysis(w io.Writer, result *Result) error {
	if _, err := fmt.Fprintf(w, "File Name: %s\nRecords: %d\nSkipped: %d\n",
		result.InputPath, result.Processed, result.Skipped); err != nil {
		return err
	}
	return writeMedians(w, result)
}

func writeMedians(w io.Writer, result *Result) error {
	positive, negative, ok := result.Statistics.Medians()
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nMedian Number of Positive Inputs: %s\nMedian Number of Negative Inputs: %s\n",
		FormatMedian(positive), FormatMedian(negative))
	return err
}
