// Package runner provides the high-level orchestration for one application
// run: session acquisition, authentication, search, listing extraction, and
// the sequential apply/verify loop.
package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/julian/jobserve-agent/internal/apply"
	"github.com/julian/jobserve-agent/internal/auth"
	"github.com/julian/jobserve-agent/internal/browser"
	"github.com/julian/jobserve-agent/internal/listings"
	"github.com/julian/jobserve-agent/internal/search"
	"github.com/julian/jobserve-agent/internal/types"
	"github.com/julian/jobserve-agent/internal/verify"
)

// HomeURL is the site landing page where each run starts.
const HomeURL = "https://www.jobserve.com"

const (
	// defaultPacing is the fixed delay between applications.
	defaultPacing = 5 * time.Second
	// defaultTimeout bounds the explicit waits of every workflow step.
	defaultTimeout = 10 * time.Second
	// settleAfterHome pauses after loading the landing page.
	settleAfterHome = 3 * time.Second
)

// SessionFactory acquires the browser session for a run.
type SessionFactory func(ctx context.Context) (browser.Session, error)

// Options configures one run.
type Options struct {
	Credentials types.Credentials
	Criteria    types.SearchCriteria

	// Headless hides the browser window. Ignored when NewSession is set.
	Headless bool
	// PacingDelay is the pause between applications. Zero means the default.
	PacingDelay time.Duration
	// Timeout bounds each explicit wait. Zero means the default.
	Timeout time.Duration
	// Verbose enables detailed browser logging.
	Verbose bool

	// NewSession overrides session acquisition; nil launches Chrome.
	NewSession SessionFactory
}

// Run executes the full workflow and returns the accumulated report. The
// report is returned even when the run aborts, so the caller can externalize
// partial results. Session teardown is guaranteed on every exit path.
//
// Per-listing failures and errors are contained within their outcome; only
// failures outside the application loop (session acquisition, initial
// navigation, context cancellation) abort the run.
func Run(ctx context.Context, opts Options) (*types.RunReport, error) {
	report := &types.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	newSession := opts.NewSession
	if newSession == nil {
		newSession = func(ctx context.Context) (browser.Session, error) {
			return browser.NewChrome(ctx, browser.Options{
				Headless: opts.Headless,
				Verbose:  opts.Verbose,
			})
		}
	}

	session, err := newSession(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to acquire browser session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("[RUN] Session teardown error: %v", err)
		}
	}()

	log.Printf("[RUN] Starting run %s", report.RunID)

	if err := session.Navigate(ctx, HomeURL); err != nil {
		return report, fmt.Errorf("failed to reach %s: %w", HomeURL, err)
	}
	_ = session.Sleep(ctx, settleAfterHome)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	state := auth.EnsureSignedIn(ctx, session, opts.Credentials, auth.Options{IndicatorWait: timeout})
	log.Printf("[RUN] Authentication state: %s", state)

	if !search.Apply(ctx, session, opts.Criteria, search.Options{ResultsWait: timeout}) {
		log.Printf("[RUN] Search setup failed, continuing with visible listings")
	}

	candidates := listings.Extract(ctx, session, opts.Criteria)
	if len(candidates) == 0 {
		log.Printf("[RUN] No suitable jobs found")
		return report, nil
	}

	pacing := opts.PacingDelay
	if pacing <= 0 {
		pacing = defaultPacing
	}

	for i, listing := range candidates {
		if len(report.Outcomes) >= opts.Criteria.MaxApplications {
			break
		}
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("run aborted: %w", err)
		}

		log.Printf("[RUN] Applying to job %d/%d: %s", i+1, len(candidates), listing.Title)
		outcome := apply.Submit(ctx, session, listing, opts.Credentials, apply.Options{})

		if outcome.Status == types.StatusSubmitted {
			if verify.InHistory(ctx, session, outcome.JobTitle) {
				outcome.Status = types.StatusVerified
				log.Printf("[RUN] Application verified in history: %s", outcome.JobTitle)
			} else {
				log.Printf("[RUN] Application not found in history: %s", outcome.JobTitle)
			}
		}
		report.Append(outcome)

		if err := session.Sleep(ctx, pacing); err != nil {
			return report, fmt.Errorf("run aborted: %w", err)
		}
	}

	log.Printf("[RUN] Run completed: applied to %d jobs successfully", report.Submitted())
	return report, nil
}
