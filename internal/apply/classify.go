package apply

import (
	"context"
	"strings"

	"github.com/julian/jobserve-agent/internal/browser"
)

// successPhrases are matched case-insensitively against the page source
// after submission. Any one of them counts as confirmation.
var successPhrases = []string{
	"application submitted",
	"thank you",
	"successfully applied",
	"application received",
	"confirmation",
}

// Succeeded reports whether the page shows a submission confirmation, either
// as a known success phrase in the page source or as a success-styled
// element.
func Succeeded(ctx context.Context, s browser.Session) bool {
	html, err := s.PageHTML(ctx)
	if err == nil {
		lower := strings.ToLower(html)
		for _, phrase := range successPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}

	_, ok := browser.Locate(ctx, s, browser.FieldSuccessMarker)
	return ok
}

// CompanyName extracts the best-effort company name from the confirmation
// page. Empty string when absent.
func CompanyName(ctx context.Context, s browser.Session) string {
	return textOf(ctx, s, browser.FieldCompany)
}

// ReferenceNumber extracts the best-effort job reference from the
// confirmation page. Empty string when absent.
func ReferenceNumber(ctx context.Context, s browser.Session) string {
	return textOf(ctx, s, browser.FieldReference)
}

func textOf(ctx context.Context, s browser.Session, field browser.Field) string {
	selector, ok := browser.Locate(ctx, s, field)
	if !ok {
		return ""
	}
	text, err := s.Text(ctx, selector)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
