// Package report externalizes a run's outcomes as two equivalent
// serializations: a flat CSV table and a structured JSON document.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julian/jobserve-agent/internal/types"
)

// csvHeader is the fixed column order of the tabular serialization.
var csvHeader = []string{"job_title", "company", "reference", "status", "error_message", "application_date"}

// dateLayout formats outcome timestamps in the CSV.
const dateLayout = "2006-01-02 15:04:05"

// Write serializes the report into dir as CSV and JSON, filenames stamped
// with the run start time. Both files are written concurrently; the first
// failure aborts the other and is returned.
func Write(r *types.RunReport, dir string) (csvPath, jsonPath string, err error) {
	stamp := r.StartedAt.Format("20060102_150405")
	csvPath = filepath.Join(dir, fmt.Sprintf("job_applications_%s.csv", stamp))
	jsonPath = filepath.Join(dir, fmt.Sprintf("job_applications_%s.json", stamp))

	var g errgroup.Group
	g.Go(func() error { return writeCSV(r, csvPath) })
	g.Go(func() error { return writeJSON(r, jsonPath) })

	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return csvPath, jsonPath, nil
}

func writeCSV(r *types.RunReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, o := range r.Outcomes {
		row := []string{
			o.JobTitle,
			o.Company,
			o.Reference,
			string(o.Status),
			o.ErrorMessage,
			o.AppliedAt.Format(dateLayout),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV report: %w", err)
	}
	return nil
}

func writeJSON(r *types.RunReport, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// CycleSummary is the per-cycle summary written by the scheduler.
type CycleSummary struct {
	Timestamp             string `json:"timestamp"`
	Status                string `json:"status"`
	ApplicationsSubmitted int    `json:"applications_submitted"`
	Error                 string `json:"error,omitempty"`
}

// WriteCycleSummary records the outcome of one scheduled cycle as
// run_<YYYYMMDD>.json in dir. runErr may be nil.
func WriteCycleSummary(r *types.RunReport, runErr error, dir string, now time.Time) (string, error) {
	summary := CycleSummary{
		Timestamp:             now.Format(time.RFC3339),
		Status:                "success",
		ApplicationsSubmitted: r.Submitted(),
	}
	if runErr != nil {
		summary.Status = "failed"
		summary.Error = runErr.Error()
	}

	path := filepath.Join(dir, fmt.Sprintf("run_%s.json", now.Format("20060102")))
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal cycle summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write cycle summary: %w", err)
	}
	return path, nil
}
