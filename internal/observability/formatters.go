// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/julian/jobserve-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCriteria outputs a human-readable summary of the run's search criteria.
func (p *Printer) PrintCriteria(criteria types.SearchCriteria) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Keywords:  %s\n", criteria.Keywords))
	sb.WriteString(fmt.Sprintf("Location:  %s\n", criteria.Location))
	sb.WriteString(fmt.Sprintf("Job type:  %s\n", criteria.JobType))
	sb.WriteString(fmt.Sprintf("Distance:  %s\n", criteria.Distance))
	sb.WriteString(fmt.Sprintf("Max apps:  %d", criteria.MaxApplications))

	p.printBox("SEARCH CRITERIA", sb.String())
}

// PrintReport outputs the per-application outcomes and the run totals.
func (p *Printer) PrintReport(report *types.RunReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run: %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Applications: %d (%d submitted)\n", len(report.Outcomes), report.Submitted()))

	count := min(len(report.Outcomes), maxItemsToShow)
	if count > 0 {
		sb.WriteString("\n")
	}
	for i := 0; i < count; i++ {
		o := report.Outcomes[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, o.JobTitle))
		sb.WriteString(fmt.Sprintf("    Status: %s", o.Status))
		if o.Company != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", o.Company))
		}
		sb.WriteString("\n")
		if o.ErrorMessage != "" {
			detail := o.ErrorMessage
			if len(detail) > 40 {
				detail = detail[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Detail: %s\n", detail))
		}
	}
	if len(report.Outcomes) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more applications", len(report.Outcomes)-maxItemsToShow))
	}

	p.printBox("RUN REPORT", strings.TrimSuffix(sb.String(), "\n"))
}
