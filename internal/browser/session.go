// Package browser provides the capability interface to a single driven
// browser instance, plus the chromedp-backed implementation and the ordered
// locator tables for the site's logical page elements.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a selector matches no element on the page.
// Callers treat it as a negative probe result, not a fatal condition.
var ErrNotFound = errors.New("browser: element not found")

// Session is the abstract browser capability consumed by every workflow
// component. Selectors are CSS by default; selectors beginning with "//" or
// "(" are interpreted as XPath. Implementations own exactly one browser
// instance and are not safe for concurrent use.
type Session interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the URL of the page currently loaded.
	CurrentURL(ctx context.Context) (string, error)

	// PageHTML returns the rendered outer HTML of the current document.
	PageHTML(ctx context.Context) (string, error)

	// PageText returns the visible text of the current document body.
	PageText(ctx context.Context) (string, error)

	// Exists reports whether at least one element matches the selector.
	Exists(ctx context.Context, selector string) (bool, error)

	// Text returns the visible text of the first matching element.
	Text(ctx context.Context, selector string) (string, error)

	// Attribute returns the named property of the first matching element,
	// falling back to the DOM attribute when no such property exists.
	// Returns ErrNotFound when the selector matches nothing.
	Attribute(ctx context.Context, selector, name string) (string, error)

	// Click dispatches a native click on the first matching element.
	Click(ctx context.Context, selector string) error

	// ScriptClick dispatches a click via JavaScript, bypassing overlay
	// interception that can swallow native clicks.
	ScriptClick(ctx context.Context, selector string) error

	// SendKeys types text into the first matching element.
	SendKeys(ctx context.Context, selector, text string) error

	// SetValue replaces the value of the first matching input element and
	// fires input/change events, clearing any previous content.
	SetValue(ctx context.Context, selector, value string) error

	// SelectOptionByText selects the first option of a select element whose
	// label contains any of the given terms (case-insensitive). Returns the
	// chosen label, or ErrNotFound when no option matches.
	SelectOptionByText(ctx context.Context, selector string, terms []string) (string, error)

	// SelectFirstOption selects the first non-empty option of a select
	// element whose label contains none of the skip terms, skipping the
	// placeholder in position zero. Returns the chosen label or ErrNotFound.
	SelectFirstOption(ctx context.Context, selector string, skipTerms []string) (string, error)

	// SetFile attaches a local file to a file input element.
	SetFile(ctx context.Context, selector, path string) error

	// WaitVisible blocks until the selector matches a visible element or the
	// timeout elapses. A timeout returns an error; it never blocks forever.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// Sleep pauses for the settle delay, honoring context cancellation.
	Sleep(ctx context.Context, d time.Duration) error

	// Close releases the browser instance. Safe to call more than once.
	Close() error
}

// IsXPath reports whether the selector should be interpreted as an XPath
// expression rather than CSS.
func IsXPath(selector string) bool {
	return len(selector) > 0 && (selector[0] == '(' ||
		(len(selector) > 1 && selector[0] == '/' && selector[1] == '/'))
}
