// Package browsertest provides a scripted in-memory browser.Session for
// component tests. Pages are declared up front as selector/text maps keyed by
// URL; hooks allow tests to swap page state in response to clicks, standing
// in for client-side rendering.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julian/jobserve-agent/internal/browser"
)

// Page describes the scripted state of one fake page.
type Page struct {
	// HTML is returned from PageHTML.
	HTML string
	// Text is returned from PageText.
	Text string
	// Elements maps a selector to the visible text of its first match.
	// Presence in the map means the selector exists on the page.
	Elements map[string]string
	// Attrs maps selector -> attribute/property name -> value.
	Attrs map[string]map[string]string
	// Selects maps a select-element selector to its option labels, placeholder first.
	Selects map[string][]string
}

// Fake is a scripted browser.Session. Not safe for concurrent use, matching
// the single-threaded contract of the real session.
type Fake struct {
	// Pages maps URLs to scripted page states.
	Pages map[string]*Page
	// URL is the current location.
	URL string
	// Current overrides the page looked up via URL when non-nil.
	Current *Page

	// Errs forces an error for any probe or action on the given selector.
	Errs map[string]error
	// NavigateErr forces every Navigate call to fail.
	NavigateErr error

	// OnScriptClick runs after a script click is recorded, letting tests
	// transition page state the way a real click would.
	OnScriptClick func(selector string)
	// OnClick runs after a native click is recorded.
	OnClick func(selector string)
	// OnNavigate runs after a navigation is recorded.
	OnNavigate func(url string)

	// Recorded interactions, in order.
	Navigations  []string
	Clicks       []string
	ScriptClicks []string
	Typed        map[string][]string
	Selected     map[string]string
	Files        map[string]string
	Slept        []time.Duration
	Closed       bool
}

// New returns an empty Fake positioned at the given URL.
func New(url string) *Fake {
	return &Fake{
		Pages:    map[string]*Page{},
		URL:      url,
		Errs:     map[string]error{},
		Typed:    map[string][]string{},
		Selected: map[string]string{},
		Files:    map[string]string{},
	}
}

// AddPage registers a scripted page under the given URL and returns it.
func (f *Fake) AddPage(url string, page *Page) *Page {
	if page.Elements == nil {
		page.Elements = map[string]string{}
	}
	f.Pages[url] = page
	return page
}

// SetCurrent makes the given page the active one regardless of URL.
func (f *Fake) SetCurrent(page *Page) {
	if page != nil && page.Elements == nil {
		page.Elements = map[string]string{}
	}
	f.Current = page
}

func (f *Fake) page() *Page {
	if f.Current != nil {
		return f.Current
	}
	if p, ok := f.Pages[f.URL]; ok {
		return p
	}
	return &Page{Elements: map[string]string{}}
}

func (f *Fake) forcedErr(selector string) error {
	if err, ok := f.Errs[selector]; ok {
		return err
	}
	return nil
}

// Navigate records the navigation and activates the page scripted for the URL.
func (f *Fake) Navigate(_ context.Context, url string) error {
	f.Navigations = append(f.Navigations, url)
	if f.NavigateErr != nil {
		return f.NavigateErr
	}
	f.URL = url
	f.Current = nil
	if f.OnNavigate != nil {
		f.OnNavigate(url)
	}
	return nil
}

// CurrentURL returns the current location.
func (f *Fake) CurrentURL(_ context.Context) (string, error) {
	return f.URL, nil
}

// PageHTML returns the scripted HTML of the active page.
func (f *Fake) PageHTML(_ context.Context) (string, error) {
	return f.page().HTML, nil
}

// PageText returns the scripted visible text of the active page.
func (f *Fake) PageText(_ context.Context) (string, error) {
	return f.page().Text, nil
}

// Exists reports whether the selector is scripted on the active page.
func (f *Fake) Exists(_ context.Context, selector string) (bool, error) {
	if err := f.forcedErr(selector); err != nil {
		return false, err
	}
	p := f.page()
	if _, ok := p.Elements[selector]; ok {
		return true, nil
	}
	if _, ok := p.Selects[selector]; ok {
		return true, nil
	}
	return false, nil
}

// Text returns the scripted text of the selector's first match.
func (f *Fake) Text(_ context.Context, selector string) (string, error) {
	if err := f.forcedErr(selector); err != nil {
		return "", err
	}
	text, ok := f.page().Elements[selector]
	if !ok {
		return "", browser.ErrNotFound
	}
	return text, nil
}

// Attribute returns the scripted attribute value for the selector.
func (f *Fake) Attribute(_ context.Context, selector, name string) (string, error) {
	if err := f.forcedErr(selector); err != nil {
		return "", err
	}
	p := f.page()
	if _, ok := p.Elements[selector]; !ok {
		if _, sel := p.Selects[selector]; !sel {
			return "", browser.ErrNotFound
		}
	}
	if attrs, ok := p.Attrs[selector]; ok {
		return attrs[name], nil
	}
	return "", nil
}

// Click records a native click.
func (f *Fake) Click(_ context.Context, selector string) error {
	if err := f.forcedErr(selector); err != nil {
		return err
	}
	f.Clicks = append(f.Clicks, selector)
	if f.OnClick != nil {
		f.OnClick(selector)
	}
	return nil
}

// ScriptClick records a script-dispatched click and runs the transition hook.
func (f *Fake) ScriptClick(_ context.Context, selector string) error {
	if err := f.forcedErr(selector); err != nil {
		return err
	}
	f.ScriptClicks = append(f.ScriptClicks, selector)
	if f.OnScriptClick != nil {
		f.OnScriptClick(selector)
	}
	return nil
}

// SendKeys records typed text against the selector.
func (f *Fake) SendKeys(_ context.Context, selector, text string) error {
	if err := f.forcedErr(selector); err != nil {
		return err
	}
	f.Typed[selector] = append(f.Typed[selector], text)
	return nil
}

// SetValue records the replacement value typed against the selector.
func (f *Fake) SetValue(_ context.Context, selector, value string) error {
	if err := f.forcedErr(selector); err != nil {
		return err
	}
	f.Typed[selector] = []string{value}
	return nil
}

// SelectOptionByText picks the first scripted option containing any term.
func (f *Fake) SelectOptionByText(_ context.Context, selector string, terms []string) (string, error) {
	if err := f.forcedErr(selector); err != nil {
		return "", err
	}
	options, ok := f.page().Selects[selector]
	if !ok {
		return "", browser.ErrNotFound
	}
	for _, opt := range options {
		if containsAnyFold(opt, terms) {
			f.Selected[selector] = opt
			return opt, nil
		}
	}
	return "", browser.ErrNotFound
}

// SelectFirstOption picks the first non-empty scripted option past the
// placeholder that matches no skip term.
func (f *Fake) SelectFirstOption(_ context.Context, selector string, skipTerms []string) (string, error) {
	if err := f.forcedErr(selector); err != nil {
		return "", err
	}
	options, ok := f.page().Selects[selector]
	if !ok {
		return "", browser.ErrNotFound
	}
	for i, opt := range options {
		if i == 0 || opt == "" {
			continue
		}
		if containsAnyFold(opt, skipTerms) {
			continue
		}
		f.Selected[selector] = opt
		return opt, nil
	}
	return "", browser.ErrNotFound
}

// SetFile records a file attachment against the selector.
func (f *Fake) SetFile(_ context.Context, selector, path string) error {
	if err := f.forcedErr(selector); err != nil {
		return err
	}
	f.Files[selector] = path
	return nil
}

// WaitVisible succeeds immediately when the selector is scripted, and
// reports a timeout otherwise.
func (f *Fake) WaitVisible(ctx context.Context, selector string, _ time.Duration) error {
	found, err := f.Exists(ctx, selector)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("wait for %q: timeout", selector)
	}
	return nil
}

// Sleep records the requested settle delay without actually pausing.
func (f *Fake) Sleep(_ context.Context, d time.Duration) error {
	f.Slept = append(f.Slept, d)
	return nil
}

// Close marks the session closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

func containsAnyFold(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
