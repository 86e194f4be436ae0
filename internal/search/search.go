// Package search applies the run's search criteria and transitions the
// session to a results view.
package search

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/julian/jobserve-agent/internal/browser"
	"github.com/julian/jobserve-agent/internal/types"
)

// URL is the site's job search surface.
const URL = "https://www.jobserve.com/gb/en/JobSearch.aspx"

const (
	// settleAfterNavigate pauses after loading the search surface.
	settleAfterNavigate = 3 * time.Second
	// defaultResultsWait bounds the wait for the results marker.
	defaultResultsWait = 10 * time.Second
)

// Options configures a search attempt.
type Options struct {
	// ResultsWait bounds the wait for a results marker after triggering the
	// search. Zero means the default.
	ResultsWait time.Duration
}

// Apply populates the search form from the criteria and triggers the search.
// Idempotent on navigation: when the session is already on the search
// surface, no navigation occurs. Returns false on failure so the caller can
// proceed with whatever listings are already visible; search failure is not
// fatal to the run.
func Apply(ctx context.Context, s browser.Session, criteria types.SearchCriteria, opts Options) bool {
	current, err := s.CurrentURL(ctx)
	if err != nil {
		log.Printf("[SEARCH] Failed to read current URL: %v", err)
		return false
	}

	if strings.Contains(current, "JobSearch.aspx") {
		log.Printf("[SEARCH] Already on job search page")
	} else {
		if err := s.Navigate(ctx, URL); err != nil {
			log.Printf("[SEARCH] Failed to open search page: %v", err)
			return false
		}
		_ = s.Sleep(ctx, settleAfterNavigate)
	}

	populateForm(ctx, s, criteria)

	submitSel, ok := browser.Locate(ctx, s, browser.FieldSearchSubmit)
	if !ok {
		log.Printf("[SEARCH] No search control found")
		return false
	}
	if err := s.Click(ctx, submitSel); err != nil {
		log.Printf("[SEARCH] Failed to trigger search: %v", err)
		return false
	}

	wait := opts.ResultsWait
	if wait <= 0 {
		wait = defaultResultsWait
	}
	for _, selector := range browser.Selectors(browser.FieldResultsMarker) {
		if err := s.WaitVisible(ctx, selector, wait); err == nil {
			log.Printf("[SEARCH] Search completed for %q in %q", criteria.Keywords, criteria.Location)
			return true
		}
	}

	log.Printf("[SEARCH] No results marker appeared for %q in %q", criteria.Keywords, criteria.Location)
	return false
}

// populateForm fills the keyword, location, and job-type controls.
// Each control is best-effort: a missing control is logged and skipped.
func populateForm(ctx context.Context, s browser.Session, criteria types.SearchCriteria) {
	if sel, ok := browser.Locate(ctx, s, browser.FieldKeywords); ok {
		if err := s.SetValue(ctx, sel, criteria.Keywords); err != nil {
			log.Printf("[SEARCH] Failed to set keywords: %v", err)
		}
	} else {
		log.Printf("[SEARCH] Keyword input not found")
	}

	if sel, ok := browser.Locate(ctx, s, browser.FieldLocation); ok {
		if err := s.SetValue(ctx, sel, criteria.Location); err != nil {
			log.Printf("[SEARCH] Failed to set location: %v", err)
		}
	} else {
		log.Printf("[SEARCH] Location input not found")
	}

	if criteria.JobType == "" || criteria.JobType == types.JobTypeAny {
		return
	}
	if sel, ok := browser.Locate(ctx, s, browser.FieldJobType); ok {
		if _, err := s.SelectOptionByText(ctx, sel, []string{string(criteria.JobType)}); err != nil {
			log.Printf("[SEARCH] Failed to select job type %q: %v", criteria.JobType, err)
		}
	}
}
