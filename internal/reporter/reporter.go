// Package reporter renders the records collected during a session as a
// human-readable report.
//
// Supported output formats:
//   - Text: totals and a numbered transaction list for reading or printing
//   - JSON: the same content for programmatic consumption
//
// Example usage:
//
//	gen, err := reporter.NewReportGenerator(reporter.DefaultReportConfig())
//	report := reporter.BuildReport(sessionID, records, time.Now(), alert.DefaultThreshold)
//	err = gen.GenerateReport(report, os.Stdout)
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"sms-transaction-extractor/internal/alert"
	"sms-transaction-extractor/internal/classifier"
	"sms-transaction-extractor/internal/models"
	"sms-transaction-extractor/pkg/errors"

	"github.com/shopspring/decimal"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	IncludeCategoryBreakdown bool `json:"include_category_breakdown"`
	IncludeBalances          bool `json:"include_balances"`

	// MaxListedTransactions caps the numbered list; 0 lists everything
	MaxListedTransactions int `json:"max_listed_transactions"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                   FormatText,
		IncludeCategoryBreakdown: true,
		IncludeBalances:          false,
		MaxListedTransactions:    0,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	if c.MaxListedTransactions < 0 {
		return fmt.Errorf("max listed transactions cannot be negative, got %d", c.MaxListedTransactions)
	}

	return nil
}

// Summary aggregates the records of a report
type Summary struct {
	TotalRecords    int             `json:"total_records"`
	DebitCount      int             `json:"debit_count"`
	CreditCount     int             `json:"credit_count"`
	UndirectedCount int             `json:"undirected_count"`
	LargeDebits     int             `json:"large_debits"`
	TotalDebits     decimal.Decimal `json:"total_debits"`
	TotalCredits    decimal.Decimal `json:"total_credits"`
	ByCategory      map[string]int  `json:"by_category"`
}

// Report is the input to every output format
type Report struct {
	SessionID   string                    `json:"session_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Summary     *Summary                  `json:"summary"`
	Records     []*models.TransactionInfo `json:"transactions"`
}

// Summarize totals debit and credit amounts. Amounts that do not parse
// count as zero.
func Summarize(records []*models.TransactionInfo, threshold decimal.Decimal) *Summary {
	summary := &Summary{
		TotalRecords: len(records),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		ByCategory:   make(map[string]int),
	}

	for _, record := range records {
		tx := record.Transaction
		value := alert.ParseAmount(tx.Amount)

		switch {
		case tx.IsDebit():
			summary.DebitCount++
			summary.TotalDebits = summary.TotalDebits.Add(value)
		case tx.IsCredit():
			summary.CreditCount++
			summary.TotalCredits = summary.TotalCredits.Add(value)
		default:
			summary.UndirectedCount++
		}

		if alert.IsLargeDebit(tx, threshold) {
			summary.LargeDebits++
		}
		summary.ByCategory[tx.Category]++
	}

	return summary
}

// BuildReport summarizes records into a Report
func BuildReport(sessionID string, records []*models.TransactionInfo, generatedAt time.Time, threshold decimal.Decimal) *Report {
	return &Report{
		SessionID:   sessionID,
		GeneratedAt: generatedAt,
		Summary:     Summarize(records, threshold),
		Records:     records,
	}
}

// ReportGenerator generates reports in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{
		config: config,
	}, nil
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}

// GenerateReport writes the report to writer in the configured format
func (rg *ReportGenerator) GenerateReport(report *Report, writer io.Writer) error {
	if report == nil {
		return errors.InternalError(errors.CodeUnexpectedError, "report generation", fmt.Errorf("report cannot be nil"))
	}

	switch rg.config.Format {
	case FormatText:
		return rg.generateTextReport(report, writer)
	case FormatJSON:
		return rg.generateJSONReport(report, writer)
	default:
		return errors.InternalError(errors.CodeUnexpectedError, "report generation",
			fmt.Errorf("unsupported output format: %s", rg.config.Format))
	}
}

// WriteToFile replaces the file at path with the rendered report
func (rg *ReportGenerator) WriteToFile(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		code := errors.CodeDirectoryError
		if os.IsPermission(err) {
			code = errors.CodeFilePermission
		}
		return errors.FileError(code, path, err)
	}

	if err := rg.GenerateReport(report, f); err != nil {
		f.Close()
		return err
	}

	return closeReport(f, path)
}

func closeReport(c io.Closer, path string) error {
	if err := c.Close(); err != nil {
		return errors.OutputError(errors.CodeReportFailed, path, err)
	}
	return nil
}

func (rg *ReportGenerator) generateTextReport(report *Report, writer io.Writer) error {
	ew := &errWriter{w: writer}

	ew.printf("TRANSACTION REPORT\n")
	ew.printf("Generated: %s\n", report.GeneratedAt.Format(time.RFC3339))
	if report.SessionID != "" {
		ew.printf("Session:   %s\n", report.SessionID)
	}
	ew.printf("\n")

	ew.printf("=== SUMMARY ===\n")
	rg.printSummary(report.Summary, ew)
	ew.printf("\n")

	if rg.config.IncludeCategoryBreakdown && report.Summary.TotalRecords > 0 {
		ew.printf("=== CATEGORIES ===\n")
		rg.printCategories(report.Summary, ew)
		ew.printf("\n")
	}

	ew.printf("=== TRANSACTIONS ===\n")
	rg.printTransactionList(report.Records, ew)

	return ew.err
}

func (rg *ReportGenerator) printSummary(summary *Summary, ew *errWriter) {
	ew.printf("Transactions:  %d\n", summary.TotalRecords)
	ew.printf("Total Debits:  %s (%d)\n", summary.TotalDebits.StringFixed(2), summary.DebitCount)
	ew.printf("Total Credits: %s (%d)\n", summary.TotalCredits.StringFixed(2), summary.CreditCount)
	if summary.UndirectedCount > 0 {
		ew.printf("No Direction:  %d\n", summary.UndirectedCount)
	}
	ew.printf("Large Debits:  %d\n", summary.LargeDebits)
}

func (rg *ReportGenerator) printCategories(summary *Summary, ew *errWriter) {
	for _, category := range classifier.Categories() {
		count := summary.ByCategory[category]
		if count == 0 {
			continue
		}
		ew.printf("%-10s %d (%.1f%%)\n", category+":", count, calculatePercentage(count, summary.TotalRecords))
	}
}

func (rg *ReportGenerator) printTransactionList(records []*models.TransactionInfo, ew *errWriter) {
	if len(records) == 0 {
		ew.printf("No transactions recorded.\n")
		return
	}

	for i, record := range records {
		if rg.config.MaxListedTransactions > 0 && i >= rg.config.MaxListedTransactions {
			ew.printf("... and %d more\n", len(records)-i)
			break
		}

		tx := record.Transaction
		ew.printf("%d. %s %s | Merchant: %s | Date: %s | Category: %s",
			i+1, tx.Type, tx.Amount, tx.Merchant, tx.Date, tx.Category)
		if rg.config.IncludeBalances && record.Balance != nil {
			ew.printf(" | Balance: %s", record.Balance.Available)
		}
		ew.printf("\n")
	}
}

type jsonSummary struct {
	TotalRecords    int            `json:"total_records"`
	DebitCount      int            `json:"debit_count"`
	CreditCount     int            `json:"credit_count"`
	UndirectedCount int            `json:"undirected_count"`
	LargeDebits     int            `json:"large_debits"`
	TotalDebits     string         `json:"total_debits"`
	TotalCredits    string         `json:"total_credits"`
	ByCategory      map[string]int `json:"by_category,omitempty"`
}

func (rg *ReportGenerator) generateJSONReport(report *Report, writer io.Writer) error {
	summary := jsonSummary{
		TotalRecords:    report.Summary.TotalRecords,
		DebitCount:      report.Summary.DebitCount,
		CreditCount:     report.Summary.CreditCount,
		UndirectedCount: report.Summary.UndirectedCount,
		LargeDebits:     report.Summary.LargeDebits,
		TotalDebits:     report.Summary.TotalDebits.StringFixed(2),
		TotalCredits:    report.Summary.TotalCredits.StringFixed(2),
	}
	if rg.config.IncludeCategoryBreakdown {
		summary.ByCategory = report.Summary.ByCategory
	}

	records := report.Records
	if records == nil {
		records = []*models.TransactionInfo{}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(map[string]interface{}{
		"session_id":   report.SessionID,
		"generated_at": report.GeneratedAt.Format(time.RFC3339),
		"summary":      summary,
		"transactions": records,
	})
}

// errWriter keeps the first write error so report sections can be printed
// without checking every call.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func calculatePercentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}
