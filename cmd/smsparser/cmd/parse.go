package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sms-transaction-extractor/cmd/smsparser/config"
	"sms-transaction-extractor/internal/alert"
	"sms-transaction-extractor/internal/reporter"
	"sms-transaction-extractor/internal/session"
	"sms-transaction-extractor/pkg/errors"
	"sms-transaction-extractor/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse bank SMS messages into transaction records",
	Long: `Parse reads bank SMS notifications one per line, either interactively
from the terminal or from a file, and extracts a transaction record from each.

After every message the records file and the report are rewritten, so both
always reflect everything parsed so far. Debits above the alert threshold
print an alert line. Type 'exit' or 'quit' to end an interactive session.

Examples:
  # Interactive session
  smsparser parse

  # Batch mode from a file
  smsparser parse --input messages.txt

  # Custom output locations and a JSON report
  smsparser parse --csv-file out/tx.csv --report-file out/report.json --report-format json

  # Keep records in memory only
  smsparser parse --input messages.txt --no-persist`,

	PreRunE: validateParseFlags,
	RunE:    runParse,
}

var settings *config.Settings

func init() {
	rootCmd.AddCommand(parseCmd)

	defaults := config.DefaultSettings()

	// Input flags
	parseCmd.Flags().StringP("input", "i", "", "file with one message per line (default: interactive stdin)")

	// Output flags
	parseCmd.Flags().String("csv-file", defaults.CSVFile, "records file rewritten after each message")
	parseCmd.Flags().String("report-file", defaults.ReportFile, "report file rewritten after each message")
	parseCmd.Flags().StringP("report-format", "f", defaults.ReportFormat, "report format: text, json")
	parseCmd.Flags().Bool("no-persist", false, "do not write the records or report files")

	// Alert flags
	parseCmd.Flags().StringP("alert-threshold", "t", defaults.AlertThreshold, "debits above this amount raise an alert")

	// Bind flags to viper
	viper.BindPFlag("input", parseCmd.Flags().Lookup("input"))
	viper.BindPFlag("csv-file", parseCmd.Flags().Lookup("csv-file"))
	viper.BindPFlag("report-file", parseCmd.Flags().Lookup("report-file"))
	viper.BindPFlag("report-format", parseCmd.Flags().Lookup("report-format"))
	viper.BindPFlag("no-persist", parseCmd.Flags().Lookup("no-persist"))
	viper.BindPFlag("alert-threshold", parseCmd.Flags().Lookup("alert-threshold"))
}

// loadSettings resolves settings from viper (flags, env and config file)
func loadSettings() *config.Settings {
	return &config.Settings{
		Input:          viper.GetString("input"),
		CSVFile:        viper.GetString("csv-file"),
		ReportFile:     viper.GetString("report-file"),
		ReportFormat:   viper.GetString("report-format"),
		AlertThreshold: viper.GetString("alert-threshold"),
		NoPersist:      viper.GetBool("no-persist"),
		Verbose:        viper.GetBool("verbose"),
		LogFormat:      viper.GetString("log-format"),
	}
}

func validateParseFlags(cmd *cobra.Command, args []string) error {
	settings = loadSettings()

	if settings.Input != "" {
		if err := validateFileExists(settings.Input); err != nil {
			return err
		}
	}

	return config.ValidateConfig(settings)
}

func validateFileExists(filePath string) error {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return errors.FileError(errors.CodeFileNotFound, filePath, err)
	}
	if os.IsPermission(err) {
		return errors.FileError(errors.CodeFilePermission, filePath, err)
	}
	if err != nil {
		return errors.FileError(errors.CodeFileNotFound, filePath, err)
	}

	if info.IsDir() {
		return errors.FileError(errors.CodeDirectoryError, filePath, fmt.Errorf("%s is a directory, expected a file", filePath))
	}

	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings == nil {
		settings = loadSettings()
	}

	out := cmd.OutOrStdout()
	sink := alert.MultiSink{alert.NewWriterSink(out), alert.NewLogSink(nil)}

	sessionConfig, err := config.CreateSessionConfig(settings, sink)
	if err != nil {
		return err
	}

	var input io.Reader = cmd.InOrStdin()
	var prompt io.Writer = out
	if settings.Input != "" {
		file, err := os.Open(settings.Input)
		if err != nil {
			return errors.FileError(errors.CodeFileNotFound, settings.Input, err)
		}
		defer file.Close()

		input = file
		prompt = nil
		sessionConfig.Echo = false
	}

	s, err := session.New(sessionConfig)
	if err != nil {
		return err
	}

	log := logger.GetGlobalLogger().WithComponent("cli").WithField("session_id", s.ID())
	log.WithFields(logger.Fields{
		"input":       inputName(settings.Input),
		"csv_file":    sessionConfig.CSVPath,
		"report_file": sessionConfig.ReportPath,
		"threshold":   sessionConfig.Threshold.String(),
	}).Info("Starting parse session")

	runErr := s.Run(ctx, input, prompt)
	if runErr == context.Canceled {
		log.Info("Interrupted")
		runErr = nil
	}

	printEpilogue(out, s.Summary(), sessionConfig)

	return runErr
}

func inputName(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}

func printEpilogue(w io.Writer, summary *reporter.Summary, sessionConfig *session.Config) {
	fmt.Fprintf(w, "\nParsed %d message(s): %d debit(s) totalling %s, %d credit(s) totalling %s\n",
		summary.TotalRecords,
		summary.DebitCount, summary.TotalDebits.StringFixed(2),
		summary.CreditCount, summary.TotalCredits.StringFixed(2))

	if summary.LargeDebits > 0 {
		fmt.Fprintf(w, "Large debits: %d\n", summary.LargeDebits)
	}
	if summary.TotalRecords == 0 {
		return
	}
	if sessionConfig.CSVPath != "" {
		fmt.Fprintf(w, "Records written to %s\n", sessionConfig.CSVPath)
	}
	if sessionConfig.ReportPath != "" {
		fmt.Fprintf(w, "Report written to %s\n", sessionConfig.ReportPath)
	}
}
