package apply

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/julian/jobserve-agent/internal/browser"
	"github.com/julian/jobserve-agent/internal/types"
)

// workStatusTerms match an acceptable work-authorization option label.
var workStatusTerms = []string{"uk citizen", "citizen", "british"}

// cvSkipTerms mark CV dropdown options that are placeholders, not documents.
var cvSkipTerms = []string{"no file"}

// populateForm fills the application form best-effort. Pre-filled fields are
// left untouched and absent fields are skipped; only a session-level failure
// while writing a field is returned as an error.
func populateForm(ctx context.Context, s browser.Session, creds types.Credentials) error {
	if err := fillIfEmpty(ctx, s, browser.FieldEmail, creds.Email); err != nil {
		return fmt.Errorf("email field: %w", err)
	}

	if err := selectWorkStatus(ctx, s); err != nil {
		return fmt.Errorf("work status: %w", err)
	}

	// CV selection is fully best-effort: a run without a selectable CV still
	// submits, relying on the document already stored on the site.
	handleCV(ctx, s, creds)

	if err := fillIfEmpty(ctx, s, browser.FieldFirstName, creds.FirstName); err != nil {
		return fmt.Errorf("first name field: %w", err)
	}
	if err := fillIfEmpty(ctx, s, browser.FieldLastName, creds.LastName); err != nil {
		return fmt.Errorf("last name field: %w", err)
	}
	return nil
}

// fillIfEmpty writes the value into the logical field only when the field
// exists and is not already pre-filled.
func fillIfEmpty(ctx context.Context, s browser.Session, field browser.Field, value string) error {
	selector, ok := browser.Locate(ctx, s, field)
	if !ok {
		return nil
	}
	current, err := s.Attribute(ctx, selector, "value")
	if err != nil {
		if errors.Is(err, browser.ErrNotFound) {
			return nil
		}
		return err
	}
	if current != "" {
		return nil
	}
	return s.SetValue(ctx, selector, value)
}

// selectWorkStatus picks a work-authorization option when the dropdown is
// present and unset. An already-set value is kept as-is.
func selectWorkStatus(ctx context.Context, s browser.Session) error {
	selector, ok := browser.Locate(ctx, s, browser.FieldStatusSelect)
	if !ok {
		return nil
	}
	current, err := s.Attribute(ctx, selector, "value")
	if err != nil {
		if errors.Is(err, browser.ErrNotFound) {
			return nil
		}
		return err
	}
	if current != "" {
		return nil
	}
	label, err := s.SelectOptionByText(ctx, selector, workStatusTerms)
	if err != nil {
		if errors.Is(err, browser.ErrNotFound) {
			log.Printf("[APPLY] No matching work status option found")
			return nil
		}
		return err
	}
	log.Printf("[APPLY] Selected work status: %s", label)
	return nil
}

// handleCV attaches a CV to the application: first non-placeholder option of
// the stored-CV dropdown, else the configured local file if it exists, else
// nothing. Never fatal; the site usually holds a stored CV already.
func handleCV(ctx context.Context, s browser.Session, creds types.Credentials) {
	if selector, ok := browser.Locate(ctx, s, browser.FieldCVSelect); ok {
		label, err := s.SelectFirstOption(ctx, selector, cvSkipTerms)
		if err == nil {
			log.Printf("[APPLY] Selected CV: %s", label)
			return
		}
		if !errors.Is(err, browser.ErrNotFound) {
			log.Printf("[APPLY] CV dropdown error: %v", err)
		}
	}

	if creds.CVPath != "" {
		if _, err := os.Stat(creds.CVPath); err == nil {
			if selector, ok := browser.Locate(ctx, s, browser.FieldCVFile); ok {
				if err := s.SetFile(ctx, selector, creds.CVPath); err != nil {
					log.Printf("[APPLY] Failed to attach CV file: %v", err)
					return
				}
				log.Printf("[APPLY] Attached CV file: %s", creds.CVPath)
				return
			}
		}
	}

	log.Printf("[APPLY] No CV selection found, continuing")
}
