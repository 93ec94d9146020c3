// Package session accumulates the records parsed during one run and keeps
// the on-disk CSV and report files in step with them.
//
// A Session is single-threaded: each message is assembled, appended and
// persisted before the next one is handled. Only the blocking line reads in
// Run happen on a separate goroutine.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"sms-transaction-extractor/internal/alert"
	"sms-transaction-extractor/internal/assembler"
	"sms-transaction-extractor/internal/models"
	"sms-transaction-extractor/internal/reporter"
	"sms-transaction-extractor/internal/writer"
	"sms-transaction-extractor/pkg/errors"
	"sms-transaction-extractor/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPrompt is written before each line is read in interactive mode
const DefaultPrompt = "Enter SMS message (or 'exit' to quit): "

// Config holds the collaborators of a Session. Persistence is skipped for
// any path left empty.
type Config struct {
	ID        string
	Threshold decimal.Decimal
	AlertSink alert.Sink

	CSVPath   string
	CSVWriter *writer.CSVWriter

	ReportPath string
	Reporter   *reporter.ReportGenerator

	Prompt string
	// Echo prints every assembled record to the prompt writer during Run
	Echo bool

	ProgressInterval time.Duration
}

// DefaultConfig returns a configuration that keeps records in memory only
func DefaultConfig() *Config {
	return &Config{
		Threshold: alert.DefaultThreshold,
		Prompt:    DefaultPrompt,
		Echo:      true,
	}
}

// Validate checks that every enabled output has what it needs
func (c *Config) Validate() error {
	if c.Threshold.IsNegative() {
		return errors.ConfigurationError(errors.CodeOutOfRange, "alert-threshold", c.Threshold.String(),
			fmt.Errorf("threshold cannot be negative"))
	}
	if c.ReportPath != "" && c.Reporter == nil {
		return errors.ConfigurationError(errors.CodeMissingConfig, "report-file", c.ReportPath,
			fmt.Errorf("report path set without a report generator"))
	}
	if c.CSVPath != "" && c.ReportPath != "" && c.CSVPath == c.ReportPath {
		return errors.ConfigurationError(errors.CodeConfigConflict, "csv-file", c.CSVPath,
			fmt.Errorf("csv file and report file must differ"))
	}
	return nil
}

// Session owns the ordered list of records parsed so far
type Session struct {
	id        string
	config    *Config
	assembler *assembler.Assembler
	records   []*models.TransactionInfo
	logger    logger.Logger
	now       func() time.Time
}

// New creates a Session. A nil config keeps records in memory only.
func New(config *Config) (*Session, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.CSVPath != "" && config.CSVWriter == nil {
		config.CSVWriter = writer.NewCSVWriter()
	}

	id := config.ID
	if id == "" {
		id = uuid.NewString()
	}

	return &Session{
		id:        id,
		config:    config,
		assembler: assembler.New(alert.NewEvaluator(config.Threshold, config.AlertSink)),
		logger:    logger.GetGlobalLogger().WithComponent("session").WithField("session_id", id),
		now:       time.Now,
	}, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Process parses one message, appends the record and rewrites the output
// files. The record is kept even when persisting it fails.
func (s *Session) Process(message string) (*models.TransactionInfo, error) {
	log := s.logger.WithField("message_id", uuid.NewString())

	info, err := s.assembler.Assemble(message)
	if err != nil {
		log.WithError(err).Debug("Message rejected")
		return nil, err
	}

	s.records = append(s.records, info)
	log.WithFields(logger.Fields{
		"index":    len(s.records),
		"type":     info.Transaction.Type.String(),
		"category": info.Transaction.Category,
	}).Info("Recorded transaction")

	if err := s.persist(); err != nil {
		log.WithError(err).Error("Failed to persist records")
		return info, err
	}
	return info, nil
}

func (s *Session) persist() error {
	if s.config.CSVPath != "" {
		if err := s.config.CSVWriter.WriteToFile(s.config.CSVPath, s.records); err != nil {
			return errors.WrapIfNeeded(err, errors.CategoryOutput, errors.CodeWriteFailed, "failed to write records file")
		}
	}

	if s.config.ReportPath != "" {
		if err := s.config.Reporter.WriteToFile(s.config.ReportPath, s.Report()); err != nil {
			return errors.WrapIfNeeded(err, errors.CategoryOutput, errors.CodeReportFailed, "failed to write report file")
		}
	}
	return nil
}

// Run reads messages line by line until EOF, an "exit" or "quit" line, or
// ctx is cancelled. Blank lines are skipped. When prompt is non-nil the
// prompt text is written before every read.
//
// Cancellation is honoured while a read is pending; a line that arrives
// after ctx is done is dropped.
func (s *Session) Run(ctx context.Context, r io.Reader, prompt io.Writer) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(r, done)

	progress := logger.NewProgressTracker(logger.ProgressConfig{
		Operation:   "parse messages",
		LogInterval: s.config.ProgressInterval,
		Logger:      s.logger,
	})
	defer progress.Complete()

	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.writePrompt(prompt)

		var next readResult
		var ok bool
		select {
		case <-ctx.Done():
			s.endPrompt(prompt)
			return ctx.Err()
		case next, ok = <-lines:
		}

		if !ok {
			s.endPrompt(prompt)
			return nil
		}
		if next.err != nil {
			s.endPrompt(prompt)
			return errors.InputError(errors.CodeReadFailed, "input", line+1, next.err)
		}
		if err := ctx.Err(); err != nil {
			s.logger.Debug("Dropping line read after cancellation")
			return err
		}
		line++

		message := strings.TrimSpace(next.text)
		if message == "" {
			continue
		}
		if isExitCommand(message) {
			s.logger.Debug("Exit requested")
			return nil
		}

		info, err := s.Process(message)
		if err != nil {
			progress.Fail()
			if info == nil {
				continue
			}
			return err
		}
		progress.Increment()

		if prompt != nil && s.config.Echo {
			fmt.Fprintln(prompt, info.String())
		}
	}
}

type readResult struct {
	text string
	err  error
}

// readLines scans r on its own goroutine so a pending read never blocks
// cancellation. The channel is closed at EOF, after a read error has been
// sent, or once done is closed. A goroutine blocked in a read exits when
// that read returns.
func readLines(r io.Reader, done <-chan struct{}) <-chan readResult {
	lines := make(chan readResult)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			select {
			case lines <- readResult{text: scanner.Text()}:
			case <-done:
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case lines <- readResult{err: err}:
			case <-done:
			}
		}
	}()

	return lines
}

func (s *Session) writePrompt(w io.Writer) {
	if w == nil || s.config.Prompt == "" {
		return
	}
	fmt.Fprint(w, s.config.Prompt)
}

// endPrompt terminates a prompt that no line will follow
func (s *Session) endPrompt(w io.Writer) {
	if w == nil || s.config.Prompt == "" {
		return
	}
	fmt.Fprintln(w)
}

func isExitCommand(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	default:
		return false
	}
}

// Records returns a copy of the records in insertion order
func (s *Session) Records() []*models.TransactionInfo {
	records := make([]*models.TransactionInfo, len(s.records))
	copy(records, s.records)
	return records
}

// Summary totals the records parsed so far
func (s *Session) Summary() *reporter.Summary {
	return reporter.Summarize(s.records, s.config.Threshold)
}

// Report builds a report over the records parsed so far
func (s *Session) Report() *reporter.Report {
	return reporter.BuildReport(s.id, s.Records(), s.now(), s.config.Threshold)
}
