// Package apply drives the application workflow for a single listing: open
// the application surface, detect the form, populate it, submit, and
// classify the outcome. Each listing gets exactly one attempt; there are no
// retries at any step.
package apply

import (
	"context"
	"log"
	"time"

	"github.com/julian/jobserve-agent/internal/browser"
	"github.com/julian/jobserve-agent/internal/types"
)

// Failure reasons recorded on outcomes that end in StatusFailed.
const (
	// ReasonFormDidNotOpen means no form indicator appeared after activating
	// the listing's apply affordance.
	ReasonFormDidNotOpen = "Application form did not open"
	// ReasonNoSubmitButton means the populated form had no submit control.
	ReasonNoSubmitButton = "No submit button found"
	// ReasonUnconfirmed means no success signal appeared after submitting.
	ReasonUnconfirmed = "Application submission may have failed"
)

// defaultSettle is the fixed pause after a click, standing in for
// asynchronous render completion.
const defaultSettle = 3 * time.Second

// formIndicators are probed in order; the first present one means the
// application form opened.
var formIndicators = []string{
	`//div[contains(text(), 'Job Application')]`,
	`//h1[contains(text(), 'Job Application')]`,
	`input[type='email']`,
	`select[name*='status']`,
	`//button[contains(text(), 'Apply')]`,
	`form`,
}

// Options configures an application attempt.
type Options struct {
	// Settle overrides the fixed pause after clicks. Zero means the default.
	Settle time.Duration
}

// Submit runs the application state machine for one listing and returns its
// terminal outcome. Unexpected errors at any state are captured as
// StatusError with the error text; they never propagate, isolating one bad
// listing from the rest of the run.
func Submit(ctx context.Context, s browser.Session, listing types.Listing, creds types.Credentials, opts Options) types.ApplicationOutcome {
	outcome := types.NewOutcome(listing.Title)

	settle := opts.Settle
	if settle <= 0 {
		settle = defaultSettle
	}

	// Open: activate the listing's affordance. Script-dispatched click
	// bypasses overlays that intercept native pointer events.
	if err := open(ctx, s, listing); err != nil {
		log.Printf("[APPLY] Error opening %q: %v", listing.Title, err)
		outcome.Status = types.StatusError
		outcome.ErrorMessage = err.Error()
		return outcome
	}
	_ = s.Sleep(ctx, settle)

	// DetectForm: first positive indicator wins; none means the application
	// surface never rendered.
	if !FormPresent(ctx, s) {
		outcome.Status = types.StatusFailed
		outcome.ErrorMessage = ReasonFormDidNotOpen
		return outcome
	}

	// Populate: every field is optional and best-effort.
	if err := populateForm(ctx, s, creds); err != nil {
		log.Printf("[APPLY] Error filling form for %q: %v", listing.Title, err)
		outcome.Status = types.StatusError
		outcome.ErrorMessage = err.Error()
		return outcome
	}

	// SubmitStep: no submit control is a per-listing failure, not an error.
	submitSel, ok := browser.Locate(ctx, s, browser.FieldApplySubmit)
	if !ok {
		outcome.Status = types.StatusFailed
		outcome.ErrorMessage = ReasonNoSubmitButton
		return outcome
	}
	if err := s.ScriptClick(ctx, submitSel); err != nil {
		log.Printf("[APPLY] Error submitting %q: %v", listing.Title, err)
		outcome.Status = types.StatusError
		outcome.ErrorMessage = err.Error()
		return outcome
	}
	_ = s.Sleep(ctx, settle)

	// Classify: multi-signal success detection, best-effort metadata.
	if Succeeded(ctx, s) {
		outcome.Status = types.StatusSubmitted
		outcome.Company = CompanyName(ctx, s)
		outcome.Reference = ReferenceNumber(ctx, s)
		log.Printf("[APPLY] Successfully applied to: %s", listing.Title)
	} else {
		outcome.Status = types.StatusFailed
		outcome.ErrorMessage = ReasonUnconfirmed
	}
	return outcome
}

// open activates the listing's apply affordance via its ephemeral handle,
// falling back to the listing URL when the handle has gone stale.
func open(ctx context.Context, s browser.Session, listing types.Listing) error {
	var clickErr error
	if listing.Selector != "" {
		clickErr = s.ScriptClick(ctx, listing.Selector)
		if clickErr == nil {
			return nil
		}
	}
	if listing.URL != "" {
		return s.Navigate(ctx, listing.URL)
	}
	return clickErr
}

// FormPresent probes the ordered indicator set for an open application form.
func FormPresent(ctx context.Context, s browser.Session) bool {
	for _, indicator := range formIndicators {
		found, err := s.Exists(ctx, indicator)
		if err != nil {
			continue
		}
		if found {
			return true
		}
	}
	return false
}
