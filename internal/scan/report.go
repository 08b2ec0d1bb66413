package scan

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/tavrik/repostate/internal/status"
)

const (
	reportFormatTableValueConstant      = "table"
	reportFormatCSVValueConstant        = "csv"
	reportFormatYAMLValueConstant       = "yaml"
	unknownReportFormatTemplateConstant = "unsupported report format %q (expected table, csv, or yaml)"
	tableColumnSeparatorConstant        = "\t"
	tableHeaderRowConstant              = "STATE\tPATH\tBRANCH\tAHEAD\tBEHIND\tREASON"
	summaryTemplateConstant             = "scanned: %d  current: %d  needs-pull: %d  needs-push: %d  diverged: %d  errors: %d\n"
	yamlMarshalErrorTemplateConstant    = "failed to encode yaml report: %w"
	csvWriteErrorTemplateConstant       = "failed to encode csv report: %w"
	tableWriteErrorTemplateConstant     = "failed to render report table: %w"
)

// ReportFormat selects how scan results render on standard output.
type ReportFormat string

// Supported report formats.
const (
	ReportFormatTable ReportFormat = ReportFormat(reportFormatTableValueConstant)
	ReportFormatCSV   ReportFormat = ReportFormat(reportFormatCSVValueConstant)
	ReportFormatYAML  ReportFormat = ReportFormat(reportFormatYAMLValueConstant)
)

var csvHeaderRow = []string{"state", "path", "branch", "ahead", "behind", "reason"}

// ParseReportFormat converts a textual report format into a ReportFormat value.
func ParseReportFormat(value string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case reportFormatTableValueConstant, "":
		return ReportFormatTable, nil
	case reportFormatCSVValueConstant:
		return ReportFormatCSV, nil
	case reportFormatYAMLValueConstant:
		return ReportFormatYAML, nil
	default:
		return "", fmt.Errorf(unknownReportFormatTemplateConstant, value)
	}
}

// Report bundles per-repository results with aggregate counts.
type Report struct {
	Repositories []status.RepositoryStatus `yaml:"repositories"`
	Summary      status.Summary            `yaml:"summary"`
}

// WriteReport renders the report in the requested format. Table output ends
// with a summary line; csv output carries rows only so it stays parseable.
func WriteReport(writer io.Writer, format ReportFormat, report Report) error {
	switch format {
	case ReportFormatCSV:
		return writeCSVReport(writer, report)
	case ReportFormatYAML:
		return writeYAMLReport(writer, report)
	default:
		return writeTableReport(writer, report)
	}
}

// WriteSummary renders the aggregate counts as a single line.
func WriteSummary(writer io.Writer, summary status.Summary) error {
	_, writeError := fmt.Fprintf(
		writer,
		summaryTemplateConstant,
		summary.Scanned,
		summary.Current,
		summary.NeedsPull,
		summary.NeedsPush,
		summary.Diverged,
		summary.Errors,
	)
	return writeError
}

func writeTableReport(writer io.Writer, report Report) error {
	tableWriter := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)
	if _, writeError := fmt.Fprintln(tableWriter, tableHeaderRowConstant); writeError != nil {
		return fmt.Errorf(tableWriteErrorTemplateConstant, writeError)
	}

	for _, repositoryStatus := range report.Repositories {
		row := strings.Join([]string{
			string(repositoryStatus.State),
			repositoryStatus.Path,
			repositoryStatus.Branch,
			strconv.Itoa(repositoryStatus.AheadCount),
			strconv.Itoa(repositoryStatus.BehindCount),
			repositoryStatus.Reason,
		}, tableColumnSeparatorConstant)
		if _, writeError := fmt.Fprintln(tableWriter, row); writeError != nil {
			return fmt.Errorf(tableWriteErrorTemplateConstant, writeError)
		}
	}

	if flushError := tableWriter.Flush(); flushError != nil {
		return fmt.Errorf(tableWriteErrorTemplateConstant, flushError)
	}

	return WriteSummary(writer, report.Summary)
}

func writeCSVReport(writer io.Writer, report Report) error {
	csvWriter := csv.NewWriter(writer)
	if writeError := csvWriter.Write(csvHeaderRow); writeError != nil {
		return fmt.Errorf(csvWriteErrorTemplateConstant, writeError)
	}

	for _, repositoryStatus := range report.Repositories {
		record := []string{
			string(repositoryStatus.State),
			repositoryStatus.Path,
			repositoryStatus.Branch,
			strconv.Itoa(repositoryStatus.AheadCount),
			strconv.Itoa(repositoryStatus.BehindCount),
			repositoryStatus.Reason,
		}
		if writeError := csvWriter.Write(record); writeError != nil {
			return fmt.Errorf(csvWriteErrorTemplateConstant, writeError)
		}
	}

	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return fmt.Errorf(csvWriteErrorTemplateConstant, flushError)
	}
	return nil
}

func writeYAMLReport(writer io.Writer, report Report) error {
	encodedReport, marshalError := yaml.Marshal(report)
	if marshalError != nil {
		return fmt.Errorf(yamlMarshalErrorTemplateConstant, marshalError)
	}
	if _, writeError := writer.Write(encodedReport); writeError != nil {
		return fmt.Errorf(yamlMarshalErrorTemplateConstant, writeError)
	}
	return nil
}
