package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"syscall"

	"sms-transaction-extractor/pkg/errors"
	"sms-transaction-extractor/pkg/logger"

	"github.com/spf13/viper"
)

// CLIErrorHandler provides user-friendly error handling for CLI operations
type CLIErrorHandler struct {
	logger  logger.Logger
	out     io.Writer
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler writing to stderr
func NewCLIErrorHandler() *CLIErrorHandler {
	return NewCLIErrorHandlerWithWriter(os.Stderr)
}

// NewCLIErrorHandlerWithWriter creates a CLI error handler writing to out
func NewCLIErrorHandlerWithWriter(out io.Writer) *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		out:     out,
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError prints err and returns the process exit code
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Debug("Command failed")

	if summary, ok := errors.AsErrorSummary(err); ok {
		return h.handleErrorSummary(summary)
	}

	if parserErr, ok := errors.AsParserError(err); ok {
		return h.handleParserError(parserErr)
	}

	return h.handleGenericError(err)
}

func (h *CLIErrorHandler) handleParserError(err *errors.ParserError) int {
	h.printParserError(err)
	fmt.Fprintf(h.out, "\n%s\n", getCategoryHelp(err.Category))
	return err.GetExitCode()
}

// handleErrorSummary prints every error, then the help for each category
// involved once
func (h *CLIErrorHandler) handleErrorSummary(summary *errors.ErrorSummary) int {
	fmt.Fprintf(h.out, "Found %d problems:\n", summary.Total)
	for i, err := range summary.Errors {
		fmt.Fprintf(h.out, "\n%d. ", i+1)
		h.printParserError(err)
	}

	for _, category := range helpCategories {
		if summary.HasCategory(category) {
			fmt.Fprintf(h.out, "\n%s\n", getCategoryHelp(category))
		}
	}
	if summary.HasCode(errors.CodeConfigConflict) {
		fmt.Fprintf(h.out, "\nInput, records and report files must all be different paths\n")
	}

	return summary.GetExitCode()
}

func (h *CLIErrorHandler) printParserError(err *errors.ParserError) {
	fmt.Fprintf(h.out, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		keys := make([]string, 0, len(err.Context))
		for key := range err.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintf(h.out, "\nContext:\n")
		for _, key := range keys {
			fmt.Fprintf(h.out, "  %s: %v\n", key, err.Context[key])
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(h.out, "\nSuggestion: %s\n", err.Suggestion)
	}

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(h.out, "\nUnderlying error: %v\n", err.Cause)
		if len(err.StackTrace) > 0 {
			fmt.Fprintf(h.out, "%+v\n", err.StackTrace)
		}
	}
}

func (h *CLIErrorHandler) handleGenericError(err error) int {
	if isPermissionError(err) {
		fmt.Fprintf(h.out, "Error: Permission denied\n")
		fmt.Fprintf(h.out, "Suggestion: Check file permissions and ensure you have read and write access\n")
		return 2
	}

	if isDiskFullError(err) {
		fmt.Fprintf(h.out, "Error: Insufficient disk space\n")
		fmt.Fprintf(h.out, "Suggestion: Free up disk space and try again\n")
		return 5
	}

	fmt.Fprintf(h.out, "Error: %v\n", err)
	if !h.verbose {
		fmt.Fprintf(h.out, "\nRun with --verbose for more details\n")
	}

	return 1
}

var helpCategories = []errors.ErrorCategory{
	errors.CategoryFile,
	errors.CategoryInput,
	errors.CategoryValidation,
	errors.CategoryConfiguration,
	errors.CategoryOutput,
	errors.CategoryInternal,
}

func getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return `File error help:
• Check that the input file exists and is readable
• Make sure the directories for the records and report files exist
• Ensure you have permission to write the output files`

	case errors.CategoryInput:
		return `Input error help:
• Provide one message per line
• Lines longer than 1 MiB cannot be read`

	case errors.CategoryValidation:
		return `Validation error help:
• Messages must contain at least one non-space character`

	case errors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and SMSPARSER_* environment variables
• Verify configuration file syntax if using --config
• Use 'smsparser parse --help' to see all available options`

	case errors.CategoryOutput:
		return `Output error help:
• Check available disk space
• Use --no-persist to keep records in memory only`

	default:
		return `For more help:
• Use 'smsparser --help' for general help
• Use 'smsparser parse --help' for command-specific help`
	}
}

func isPermissionError(err error) bool {
	return os.IsPermission(err) ||
		strings.Contains(err.Error(), "permission denied")
}

func isDiskFullError(err error) bool {
	if err == syscall.ENOSPC {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "no space left") ||
		strings.Contains(errStr, "disk full")
}
