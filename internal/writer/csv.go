package writer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"sms-transaction-extractor/internal/models"
	"sms-transaction-extractor/pkg/errors"
)

// Header is the first row of every records file
var Header = []string{"Account Type", "Account Number", "Transaction Type", "Amount", "Merchant", "Date", "Category"}

// CSVWriter writes records as comma-joined rows. Values are written as-is:
// a comma inside a merchant name is not quoted and shifts the columns.
type CSVWriter struct {
	IncludeHeader bool
}

// NewCSVWriter creates a CSVWriter that writes the header row
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{IncludeHeader: true}
}

// WriteToFile replaces the file at path with the given records
func (w *CSVWriter) WriteToFile(path string, records []*models.TransactionInfo) error {
	f, err := os.Create(path)
	if err != nil {
		code := errors.CodeDirectoryError
		if os.IsPermission(err) {
			code = errors.CodeFilePermission
		}
		return errors.FileError(code, path, err)
	}

	if err := w.Write(f, records); err != nil {
		f.Close()
		return err
	}

	return closeOutput(f, path)
}

// closeOutput closes a freshly written file. A failed close can lose
// buffered data, so it is reported as a write failure.
func closeOutput(c io.Closer, path string) error {
	if err := c.Close(); err != nil {
		return errors.OutputError(errors.CodeWriteFailed, path, err)
	}
	return nil
}

// Write writes the header (if enabled) and one row per record, in order
func (w *CSVWriter) Write(out io.Writer, records []*models.TransactionInfo) error {
	buf := bufio.NewWriter(out)

	if w.IncludeHeader {
		if _, err := buf.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for i, record := range records {
		if _, err := buf.WriteString(strings.Join(Row(record), ",") + "\n"); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

// Row returns the column values of a record in Header order
func Row(record *models.TransactionInfo) []string {
	tx := record.Transaction
	return []string{
		record.Account.Type.String(),
		record.Account.Number.String(),
		tx.Type.String(),
		tx.Amount,
		tx.Merchant.String(),
		tx.Date.String(),
		tx.Category,
	}
}
