// Package auth establishes a signed-in session on the job board, or confirms
// one already exists. Sign-in is best-effort: the run proceeds even when the
// signed-in indicator cannot be confirmed afterwards.
package auth

import (
	"context"
	"log"
	"time"

	"github.com/julian/jobserve-agent/internal/browser"
	"github.com/julian/jobserve-agent/internal/types"
)

// State is the outcome of an authentication attempt.
type State int

const (
	// StateSignedIn means the signed-in indicator was confirmed on the page.
	StateSignedIn State = iota
	// StateUnconfirmed means sign-in was attempted, but the indicator could
	// not be confirmed within the bounded wait. The run proceeds anyway:
	// downstream steps fail per-listing instead of aborting the whole run.
	// The site keeps sessions alive across visits, so an unconfirmable
	// indicator often just means a stale landing page.
	StateUnconfirmed
)

func (s State) String() string {
	if s == StateSignedIn {
		return "signed-in"
	}
	return "unconfirmed"
}

const (
	// settleAfterClick pauses after activating the sign-in affordance.
	settleAfterClick = 2 * time.Second
	// settleAfterSubmit pauses after submitting credentials.
	settleAfterSubmit = 3 * time.Second
	// defaultIndicatorWait bounds the re-check for the signed-in indicator.
	defaultIndicatorWait = 10 * time.Second
)

// Options configures an authentication attempt.
type Options struct {
	// IndicatorWait bounds the post-submit wait for the signed-in indicator.
	// Zero means the default.
	IndicatorWait time.Duration
}

// EnsureSignedIn confirms or establishes a signed-in session. Idempotent:
// when the signed-in indicator is already present it returns immediately
// with no further page interaction. Page-manipulation errors are logged and
// degrade to StateUnconfirmed; they never propagate.
func EnsureSignedIn(ctx context.Context, s browser.Session, creds types.Credentials, opts Options) State {
	if SignedIn(ctx, s) {
		log.Printf("[AUTH] Already signed in, skipping login")
		return StateSignedIn
	}

	log.Printf("[AUTH] Not signed in, attempting login")

	signInSel, ok := browser.Locate(ctx, s, browser.FieldSignInLink)
	if !ok {
		log.Printf("[AUTH] No sign-in affordance found; continuing unconfirmed")
		return StateUnconfirmed
	}
	if err := s.Click(ctx, signInSel); err != nil {
		log.Printf("[AUTH] Failed to open sign-in: %v; continuing unconfirmed", err)
		return StateUnconfirmed
	}
	_ = s.Sleep(ctx, settleAfterClick)

	if !submitCredentials(ctx, s, creds) {
		return StateUnconfirmed
	}

	wait := opts.IndicatorWait
	if wait <= 0 {
		wait = defaultIndicatorWait
	}
	for _, selector := range browser.Selectors(browser.FieldSignOutLink) {
		if err := s.WaitVisible(ctx, selector, wait); err == nil {
			log.Printf("[AUTH] Login successful")
			return StateSignedIn
		}
	}

	log.Printf("[AUTH] Login status unclear, continuing anyway")
	return StateUnconfirmed
}

// SignedIn reports whether the signed-in indicator is present on the
// current page.
func SignedIn(ctx context.Context, s browser.Session) bool {
	_, ok := browser.Locate(ctx, s, browser.FieldSignOutLink)
	return ok
}

// submitCredentials fills and submits the login form if its fields are
// present. Missing fields are tolerated: the form may not have rendered, or
// the session may already be live server-side.
func submitCredentials(ctx context.Context, s browser.Session, creds types.Credentials) bool {
	emailSel, emailOK := browser.Locate(ctx, s, browser.FieldEmail)
	passwordSel, passwordOK := browser.Locate(ctx, s, browser.FieldPassword)
	if !emailOK || !passwordOK {
		log.Printf("[AUTH] Login form fields not found; continuing unconfirmed")
		return false
	}

	if err := s.SendKeys(ctx, emailSel, creds.Email); err != nil {
		log.Printf("[AUTH] Failed to enter email: %v", err)
		return false
	}
	if err := s.SendKeys(ctx, passwordSel, creds.Password); err != nil {
		log.Printf("[AUTH] Failed to enter password: %v", err)
		return false
	}

	submitSel, ok := browser.Locate(ctx, s, browser.FieldLoginSubmit)
	if !ok {
		log.Printf("[AUTH] No login submit control found")
		return false
	}
	if err := s.Click(ctx, submitSel); err != nil {
		log.Printf("[AUTH] Failed to submit login: %v", err)
		return false
	}
	_ = s.Sleep(ctx, settleAfterSubmit)
	return true
}
