package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"sms-transaction-extractor/pkg/errors"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		contains     []string
	}{
		{
			name:         "nil error",
			err:          nil,
			expectedCode: 0,
		},
		{
			name:         "file error",
			err:          errors.FileError(errors.CodeFileNotFound, "messages.txt", os.ErrNotExist),
			expectedCode: 2,
			contains:     []string{"Error: file not found: messages.txt", "path: messages.txt", "Suggestion:", "File error help"},
		},
		{
			name:         "configuration error",
			err:          errors.ConfigurationError(errors.CodeInvalidConfig, "report-format", "xml", nil),
			expectedCode: 4,
			contains:     []string{"report-format", "Configuration error help"},
		},
		{
			name:         "wrapped parser error",
			err:          fmt.Errorf("run failed: %w", errors.OutputError(errors.CodeWriteFailed, "tx.csv", fmt.Errorf("broken pipe"))),
			expectedCode: 5,
			contains:     []string{"Output error help"},
		},
		{
			name: "error summary",
			err: errors.NewErrorSummary([]*errors.ParserError{
				errors.ConfigurationError(errors.CodeInvalidConfig, "report-format", "xml", nil),
				errors.ConfigurationError(errors.CodeConfigConflict, "input", "transactions.csv", nil),
			}),
			expectedCode: 4,
			contains: []string{
				"Found 2 problems:",
				"1. Error: invalid configuration for 'report-format': xml",
				"2. Error: configuration conflict with setting 'input'",
				"Configuration error help",
				"must all be different paths",
			},
		},
		{
			name:         "internal error",
			err:          errors.InternalError(errors.CodeUnexpectedError, "report generation", nil),
			expectedCode: 6,
			contains:     []string{"unexpected error during report generation", "For more help"},
		},
		{
			name:         "permission error",
			err:          fmt.Errorf("open report.txt: permission denied"),
			expectedCode: 2,
			contains:     []string{"Permission denied"},
		},
		{
			name:         "generic error",
			err:          fmt.Errorf("something odd"),
			expectedCode: 1,
			contains:     []string{"Error: something odd", "--verbose"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewCLIErrorHandlerWithWriter(&buf)

			if code := handler.HandleError(tt.err); code != tt.expectedCode {
				t.Errorf("expected exit code %d, got %d", tt.expectedCode, code)
			}

			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected %q in output:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestCategoryHelpCoversAllCategories(t *testing.T) {
	fallback := getCategoryHelp(errors.CategoryInternal)
	for _, category := range helpCategories[:len(helpCategories)-1] {
		if help := getCategoryHelp(category); help == fallback {
			t.Errorf("expected dedicated help for category %s", category)
		}
	}
}
