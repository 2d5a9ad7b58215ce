package splitter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/raaihank/regex-splitter/internal/matcher"
	"github.com/raaihank/regex-splitter/internal/record"
	"github.com/raaihank/regex-splitter/internal/sink"
)

// Splitter partitions the inputs of every dataset line by whether the line's
// pattern matches them
type Splitter struct {
	config   *Config
	compiler *matcher.Compiler
	format   sink.Format
	logger   *zap.Logger
}

// NewSplitter creates a new splitter
func NewSplitter(config *Config, logger *zap.Logger) (*Splitter, error) {
	engine, err := matcher.ParseEngine(config.Engine)
	if err != nil {
		return nil, err
	}

	format, err := sink.ParseFormat(config.OutputFormat)
	if err != nil {
		return nil, err
	}

	compiler, err := matcher.NewCompiler(matcher.Config{
		Engine:       engine,
		MatchTimeout: config.MatchTimeout,
		CacheSize:    config.PatternCacheSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern compiler: %w", err)
	}

	return &Splitter{
		config:   config,
		compiler: compiler,
		format:   format,
		logger:   logger,
	}, nil
}

// Process reads inputPath line by line and writes one classified record per
// valid line to outputPath, which is created or truncated. Malformed lines are
// logged and skipped; I/O failures abort the run.
func (s *Splitter) Process(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	if outputPath == "" {
		outputPath = s.config.DefaultOutput
	}
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}

	s.logger.Info("Starting split",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("engine", string(s.compiler.Engine())))

	start := time.Now()
	result := &Result{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Statistics: &Statistics{},
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return result, fmt.Errorf("failed to open input file: %w", err)
	}
	defer input.Close()

	writer, err := sink.Create(outputPath, s.format, s.logger)
	if err != nil {
		return result, err
	}

	err = s.scanLines(ctx, input, func(lineNo int64, line []byte) error {
		rec, err := s.classifyLine(line)
		if err != nil {
			s.skip(result, lineNo, err)
			return nil
		}

		if err := writer.Write(rec); err != nil {
			return err
		}
		result.Processed++
		result.Statistics.Add(len(rec.PositiveInputs), len(rec.NegativeInputs))

		if s.config.ProgressReport > 0 && result.Processed%int64(s.config.ProgressReport) == 0 {
			s.reportProgress(result, start)
		}
		return nil
	}, result)
	if err != nil {
		writer.Close()
		return result, err
	}

	if err := writer.Close(); err != nil {
		return result, err
	}
	result.Duration = time.Since(start)

	cache := s.compiler.Stats()
	s.logger.Info("Split completed",
		zap.String("output", outputPath),
		zap.Int64("lines_read", result.LinesRead),
		zap.Int64("processed", result.Processed),
		zap.Int64("skipped", result.Skipped),
		zap.Int64("pattern_cache_hits", cache.Hits),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// Analyze reads a file of classified records and collects their statistics
func (s *Splitter) Analyze(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	result := &Result{
		InputPath:  path,
		Statistics: &Statistics{},
	}

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("failed to open classified file: %w", err)
	}
	defer file.Close()

	err = s.scanLines(ctx, file, func(lineNo int64, line []byte) error {
		var rec record.ClassifiedRecord
		if err := decodeObject(line, &rec); err != nil {
			s.skip(result, lineNo, err)
			return nil
		}
		result.Processed++
		result.Statistics.Add(len(rec.PositiveInputs), len(rec.NegativeInputs))
		return nil
	}, result)
	result.Duration = time.Since(start)
	return result, err
}

// scanLines calls fn for every non-empty line in order. Line numbers are
// 1-based and count empty lines.
func (s *Splitter) scanLines(ctx context.Context, file *os.File, fn func(lineNo int64, line []byte) error, result *Result) error {
	scanner := bufio.NewScanner(file)
	if s.config.MaxLineBytes > 0 {
		scanner.Buffer(make([]byte, 0, min(64*1024, s.config.MaxLineBytes)), s.config.MaxLineBytes)
	}

	var lineNo int64
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lineNo++
		result.LinesRead++

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s after line %d: %w", file.Name(), lineNo, err)
	}
	return nil
}

// classifyLine decodes one input line and partitions its inputs
func (s *Splitter) classifyLine(line []byte) (*record.ClassifiedRecord, error) {
	var entry record.InputRecord
	if err := decodeObject(line, &entry); err != nil {
		return nil, err
	}
	if entry.Inputs == nil {
		return nil, fmt.Errorf("%w: missing inputs", ErrMalformedRecord)
	}

	m, err := s.compiler.Compile(entry.Regex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	return Classify(m, &entry)
}

// Classify partitions entry.Inputs by whether m matches anywhere within each
// input. Both lists keep the original relative order.
func Classify(m matcher.Matcher, entry *record.InputRecord) (*record.ClassifiedRecord, error) {
	rec := &record.ClassifiedRecord{
		Regex:          entry.Regex,
		PositiveInputs: make([]string, 0, len(entry.Inputs)),
		NegativeInputs: make([]string, 0),
		FilePath:       entry.FilePath,
	}

	for _, input := range entry.Inputs {
		ok, err := m.MatchString(input)
		if err != nil {
			return nil, fmt.Errorf("%w: match failed: %w", ErrMalformedRecord, err)
		}
		if ok {
			rec.PositiveInputs = append(rec.PositiveInputs, input)
		} else {
			rec.NegativeInputs = append(rec.NegativeInputs, input)
		}
	}

	return rec, nil
}

func (s *Splitter) skip(result *Result, lineNo int64, err error) {
	result.Skipped++
	if len(result.Errors) < MaxLineErrors {
		result.Errors = append(result.Errors, &LineError{Line: lineNo, Err: err})
	}
	s.logger.Error(MalformedRecordMessage,
		zap.Int64("line", lineNo),
		zap.Error(err))
}

func (s *Splitter) reportProgress(result *Result, start time.Time) {
	elapsed := time.Since(start)
	s.logger.Debug("Processing progress",
		zap.Int64("lines_read", result.LinesRead),
		zap.Int64("processed", result.Processed),
		zap.Int64("skipped", result.Skipped),
		zap.Float64("rate_per_sec", float64(result.Processed)/elapsed.Seconds()),
		zap.Duration("elapsed", elapsed))
}

// decodeObject decodes a line that must hold a JSON object
func decodeObject(line []byte, v any) error {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: line is not a JSON object", ErrMalformedRecord)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return fmt.Errorf("%w: invalid JSON at offset %d: %w", ErrMalformedRecord, syntaxErr.Offset, err)
		}
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return nil
}
