package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"sms-transaction-extractor/internal/alert"
	"sms-transaction-extractor/internal/reporter"
	"sms-transaction-extractor/internal/session"
	"sms-transaction-extractor/internal/writer"
	"sms-transaction-extractor/pkg/errors"
	"sms-transaction-extractor/pkg/logger"

	"github.com/shopspring/decimal"
)

// Default output locations, relative to the working directory
const (
	DefaultCSVFile    = "transactions.csv"
	DefaultReportFile = "report.txt"
)

// Settings holds the resolved values of every command-line, environment
// and config file option
type Settings struct {
	Input          string
	CSVFile        string
	ReportFile     string
	ReportFormat   string
	AlertThreshold string
	NoPersist      bool
	Verbose        bool
	LogFormat      string
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() *Settings {
	return &Settings{
		CSVFile:        DefaultCSVFile,
		ReportFile:     DefaultReportFile,
		ReportFormat:   string(reporter.FormatText),
		AlertThreshold: alert.DefaultThreshold.String(),
		LogFormat:      string(logger.TextFormat),
	}
}

// ParseThreshold parses the alert threshold setting. An empty value yields
// the default threshold.
func ParseThreshold(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return alert.DefaultThreshold, nil
	}

	threshold, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return decimal.Zero, errors.ConfigurationError(errors.CodeInvalidConfig, "alert-threshold", value, err)
	}
	if threshold.IsNegative() {
		return decimal.Zero, errors.ConfigurationError(errors.CodeOutOfRange, "alert-threshold", value,
			fmt.Errorf("threshold cannot be negative"))
	}
	return threshold, nil
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) (*reporter.ReportConfig, error) {
	config := reporter.DefaultReportConfig()

	switch reporter.OutputFormat(strings.ToLower(format)) {
	case reporter.FormatText, "":
		config.Format = reporter.FormatText
	case reporter.FormatJSON:
		config.Format = reporter.FormatJSON
		config.IncludeBalances = true
	default:
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "report-format", format,
			fmt.Errorf("valid formats: text, json"))
	}

	return config, nil
}

// CreateLoggerConfig creates the logger configuration for the CLI
func CreateLoggerConfig(verbose bool, format string) (*logger.Config, error) {
	config := logger.DefaultConfig()
	if verbose {
		config = logger.DebugConfig()
	}

	switch logger.Format(strings.ToLower(format)) {
	case logger.TextFormat, "":
		config.Format = logger.TextFormat
	case logger.JSONFormat:
		config.Format = logger.JSONFormat
	default:
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "log-format", format,
			fmt.Errorf("valid formats: text, json"))
	}

	return config, nil
}

// CreateSessionConfig wires the settings into a session configuration.
// With NoPersist set, records stay in memory and no files are written.
func CreateSessionConfig(settings *Settings, sink alert.Sink) (*session.Config, error) {
	if err := ValidateConfig(settings); err != nil {
		return nil, err
	}

	threshold, err := ParseThreshold(settings.AlertThreshold)
	if err != nil {
		return nil, err
	}

	config := session.DefaultConfig()
	config.Threshold = threshold
	config.AlertSink = sink

	if settings.NoPersist {
		return config, nil
	}

	if settings.CSVFile != "" {
		config.CSVPath = settings.CSVFile
		config.CSVWriter = writer.NewCSVWriter()
	}

	if settings.ReportFile != "" {
		reportConfig, err := CreateReportConfig(settings.ReportFormat)
		if err != nil {
			return nil, err
		}
		generator, err := reporter.NewReportGenerator(reportConfig)
		if err != nil {
			return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "report-format", settings.ReportFormat, err)
		}
		config.ReportPath = settings.ReportFile
		config.Reporter = generator
	}

	return config, nil
}

// ValidateConfig checks the settings for values that cannot work together.
// Every problem found is reported; more than one comes back as an
// errors.ErrorSummary.
func ValidateConfig(settings *Settings) error {
	if settings == nil {
		return errors.ConfigurationError(errors.CodeMissingConfig, "settings", nil, nil)
	}

	var problems []*errors.ParserError
	check := func(err error) {
		if parserErr, ok := errors.AsParserError(err); ok {
			problems = append(problems, parserErr)
		}
	}

	_, err := ParseThreshold(settings.AlertThreshold)
	check(err)
	_, err = CreateReportConfig(settings.ReportFormat)
	check(err)
	_, err = CreateLoggerConfig(settings.Verbose, settings.LogFormat)
	check(err)

	if !settings.NoPersist {
		if settings.CSVFile != "" && settings.ReportFile != "" &&
			filepath.Clean(settings.CSVFile) == filepath.Clean(settings.ReportFile) {
			problems = append(problems, errors.ConfigurationError(errors.CodeConfigConflict, "report-file", settings.ReportFile,
				fmt.Errorf("report file must differ from csv file %s", settings.CSVFile)))
		}

		if settings.Input != "" {
			input := filepath.Clean(settings.Input)
			for _, output := range []string{settings.CSVFile, settings.ReportFile} {
				if output != "" && filepath.Clean(output) == input {
					problems = append(problems, errors.ConfigurationError(errors.CodeConfigConflict, "input", settings.Input,
						fmt.Errorf("input file would be overwritten by output %s", output)))
					break
				}
			}
		}
	}

	return errors.Collect(problems)
}
