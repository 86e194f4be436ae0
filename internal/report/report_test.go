package report_test

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julian/jobserve-agent/internal/report"
	"github.com/julian/jobserve-agent/internal/types"
)

func sampleReport() *types.RunReport {
	started := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return &types.RunReport{
		RunID:     "run-1",
		StartedAt: started,
		Outcomes: []types.ApplicationOutcome{
			{
				JobTitle:  "Data Scientist",
				Company:   "Acme Analytics",
				Reference: "REF-4471",
				Status:    types.StatusVerified,
				AppliedAt: started.Add(time.Minute),
			},
			{
				JobTitle:     "AI Engineer",
				Status:       types.StatusFailed,
				ErrorMessage: "Application form did not open",
				AppliedAt:    started.Add(2 * time.Minute),
			},
		},
	}
}

func TestWrite_FileNamesCarryRunStamp(t *testing.T) {
	dir := t.TempDir()

	csvPath, jsonPath, err := report.Write(sampleReport(), dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "job_applications_20260314_092653.csv"), csvPath)
	assert.Equal(t, filepath.Join(dir, "job_applications_20260314_092653.json"), jsonPath)
	assert.FileExists(t, csvPath)
	assert.FileExists(t, jsonPath)
}

func TestWrite_CSVColumns(t *testing.T) {
	dir := t.TempDir()

	csvPath, _, err := report.Write(sampleReport(), dir)
	require.NoError(t, err)

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"job_title", "company", "reference", "status", "error_message", "application_date"}, rows[0])
	assert.Equal(t, []string{"Data Scientist", "Acme Analytics", "REF-4471", "verified", "", "2026-03-14 09:27:53"}, rows[1])
	assert.Equal(t, []string{"AI Engineer", "", "", "failed", "Application form did not open", "2026-03-14 09:28:53"}, rows[2])
}

func TestWrite_JSONRoundTrips(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()

	_, jsonPath, err := report.Write(r, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var decoded types.RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.RunID, decoded.RunID)
	require.Len(t, decoded.Outcomes, 2)
	assert.Equal(t, types.StatusVerified, decoded.Outcomes[0].Status)
}

func TestWrite_BadDirectory(t *testing.T) {
	_, _, err := report.Write(sampleReport(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWriteCycleSummary(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	path, err := report.WriteCycleSummary(sampleReport(), nil, dir, now)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run_20260314.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var summary report.CycleSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "success", summary.Status)
	assert.Equal(t, 1, summary.ApplicationsSubmitted)
	assert.Empty(t, summary.Error)
}

func TestWriteCycleSummary_FailedCycle(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	path, err := report.WriteCycleSummary(&types.RunReport{}, assert.AnError, dir, now)

	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var summary report.CycleSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "failed", summary.Status)
	assert.Equal(t, assert.AnError.Error(), summary.Error)
	assert.Zero(t, summary.ApplicationsSubmitted)
}
