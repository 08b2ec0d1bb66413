package scan_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tavrik/repostate/internal/scan"
	"github.com/tavrik/repostate/internal/status"
)

func sampleReport() scan.Report {
	report := scan.Report{
		Repositories: []status.RepositoryStatus{
			{
				Path:   "/srv/repositories/api-server",
				Branch: "main",
				State:  status.StateCurrent,
			},
			{
				Path:        "/srv/repositories/web-client",
				Branch:      "main",
				State:       status.StateDiverged,
				AheadCount:  2,
				BehindCount: 3,
			},
			{
				Path:   "/srv/repositories/broken",
				State:  status.StateError,
				Reason: "not a git repository",
			},
		},
	}
	for _, repositoryStatus := range report.Repositories {
		report.Summary.Record(repositoryStatus)
	}
	return report
}

func TestParseReportFormat(testInstance *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedFormat scan.ReportFormat
		expectError    bool
	}{
		{name: "table", value: "table", expectedFormat: scan.ReportFormatTable},
		{name: "csv", value: "csv", expectedFormat: scan.ReportFormatCSV},
		{name: "yaml", value: "yaml", expectedFormat: scan.ReportFormatYAML},
		{name: "uppercase", value: "YAML", expectedFormat: scan.ReportFormatYAML},
		{name: "empty_defaults_to_table", value: "", expectedFormat: scan.ReportFormatTable},
		{name: "unknown", value: "xml", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			format, parseError := scan.ParseReportFormat(testCase.value)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedFormat, format)
		})
	}
}

func TestWriteReportTableIncludesSummaryLine(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	require.NoError(testInstance, scan.WriteReport(outputBuffer, scan.ReportFormatTable, sampleReport()))

	renderedOutput := outputBuffer.String()
	require.Contains(testInstance, renderedOutput, "STATE")
	require.Contains(testInstance, renderedOutput, "/srv/repositories/api-server")
	require.Contains(testInstance, renderedOutput, "diverged")
	require.Contains(testInstance, renderedOutput, "not a git repository")
	require.Contains(testInstance, renderedOutput, "scanned: 3  current: 1  needs-pull: 0  needs-push: 0  diverged: 1  errors: 1")
}

func TestWriteReportCSVStaysParseable(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	require.NoError(testInstance, scan.WriteReport(outputBuffer, scan.ReportFormatCSV, sampleReport()))

	records, readError := csv.NewReader(strings.NewReader(outputBuffer.String())).ReadAll()
	require.NoError(testInstance, readError)
	require.Len(testInstance, records, 4)
	require.Equal(testInstance, []string{"state", "path", "branch", "ahead", "behind", "reason"}, records[0])
	require.Equal(testInstance, []string{"diverged", "/srv/repositories/web-client", "main", "2", "3", ""}, records[2])
}

func TestWriteReportYAMLRoundTrips(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	expectedReport := sampleReport()
	require.NoError(testInstance, scan.WriteReport(outputBuffer, scan.ReportFormatYAML, expectedReport))

	var decodedReport scan.Report
	require.NoError(testInstance, yaml.Unmarshal(outputBuffer.Bytes(), &decodedReport))
	require.Equal(testInstance, expectedReport.Summary, decodedReport.Summary)
	require.Len(testInstance, decodedReport.Repositories, 3)
	require.Equal(testInstance, expectedReport.Repositories[1], decodedReport.Repositories[1])
}
