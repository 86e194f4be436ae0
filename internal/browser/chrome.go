// Package browser - chrome.go provides the chromedp-backed Session implementation.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Options configures the Chrome instance backing a session.
type Options struct {
	Headless     bool
	WindowWidth  int
	WindowHeight int
	Verbose      bool
}

// Chrome is a Session backed by a single chromedp-driven Chrome instance.
type Chrome struct {
	ctx     context.Context
	cancels []context.CancelFunc
	verbose bool
	closed  bool
}

// NewChrome launches a Chrome instance and returns a Session bound to it.
// Requires Chrome/Chromium to be installed on the system. The caller must
// Close the session on every exit path.
func NewChrome(parent context.Context, opts Options) (*Chrome, error) {
	width, height := opts.WindowWidth, opts.WindowHeight
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(width, height),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Force the browser process to start now so a missing Chrome binary
	// surfaces here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Chrome started (headless=%v, window=%dx%d)", opts.Headless, width, height)
	}

	return &Chrome{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
		verbose: opts.Verbose,
	}, nil
}

// Close shuts down the browser instance. Safe to call more than once.
func (c *Chrome) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	for _, cancel := range c.cancels {
		cancel()
	}
	if c.verbose {
		log.Printf("[BROWSER] Chrome closed")
	}
	return nil
}

// Navigate loads the URL and waits for the document body to be ready.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	if c.verbose {
		log.Printf("[BROWSER] Navigate: %s", url)
	}
	return c.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
}

// CurrentURL returns the URL of the page currently loaded.
func (c *Chrome) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := c.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// PageHTML returns the rendered outer HTML of the current document.
func (c *Chrome) PageHTML(ctx context.Context) (string, error) {
	var html string
	if err := c.run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return html, nil
}

// PageText returns the visible text of the current document body.
func (c *Chrome) PageText(ctx context.Context) (string, error) {
	var text string
	if err := c.run(ctx, chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text)); err != nil {
		return "", err
	}
	return text, nil
}

// probeResult carries the outcome of a JavaScript element probe.
type probeResult struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

// Exists reports whether at least one element matches the selector.
func (c *Chrome) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool
	expr := fmt.Sprintf(`(%s) !== null`, findExpr(selector))
	if err := c.run(ctx, chromedp.Evaluate(expr, &found)); err != nil {
		return false, err
	}
	return found, nil
}

// Text returns the visible text of the first matching element.
func (c *Chrome) Text(ctx context.Context, selector string) (string, error) {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return {found: false, value: ""};
		return {found: true, value: (el.innerText || el.textContent || "").trim()};
	})()`, findExpr(selector))
	return c.probe(ctx, expr)
}

// Attribute returns the named property of the first matching element,
// falling back to the DOM attribute. Mirrors WebDriver get_attribute
// semantics so "value" reflects live input state, not initial markup.
func (c *Chrome) Attribute(ctx context.Context, selector, name string) (string, error) {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return {found: false, value: ""};
		const prop = el[%s];
		if (prop !== undefined && prop !== null && typeof prop !== "object" && typeof prop !== "function") {
			return {found: true, value: String(prop)};
		}
		return {found: true, value: el.getAttribute(%s) || ""};
	})()`, findExpr(selector), jsString(name), jsString(name))
	return c.probe(ctx, expr)
}

// Click dispatches a native click on the first matching element.
func (c *Chrome) Click(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.Click(selector, byOpt(selector)))
}

// ScriptClick dispatches a click via JavaScript, bypassing overlays that
// intercept native pointer events.
func (c *Chrome) ScriptClick(ctx context.Context, selector string) error {
	var clicked bool
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		el.click();
		return true;
	})()`, findExpr(selector))
	if err := c.run(ctx, chromedp.Evaluate(expr, &clicked)); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("script click %q: %w", selector, ErrNotFound)
	}
	return nil
}

// SendKeys types text into the first matching element.
func (c *Chrome) SendKeys(ctx context.Context, selector, text string) error {
	return c.run(ctx, chromedp.SendKeys(selector, text, byOpt(selector)))
}

// SetValue replaces the value of the first matching input element and fires
// input and change events so client-side listeners observe the edit.
func (c *Chrome) SetValue(ctx context.Context, selector, value string) error {
	var set bool
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		el.value = %s;
		el.dispatchEvent(new Event("input", {bubbles: true}));
		el.dispatchEvent(new Event("change", {bubbles: true}));
		return true;
	})()`, findExpr(selector), jsString(value))
	if err := c.run(ctx, chromedp.Evaluate(expr, &set)); err != nil {
		return err
	}
	if !set {
		return fmt.Errorf("set value %q: %w", selector, ErrNotFound)
	}
	return nil
}

// SelectOptionByText selects the first option whose label contains any of
// the given terms (case-insensitive) and fires a change event.
func (c *Chrome) SelectOptionByText(ctx context.Context, selector string, terms []string) (string, error) {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el || !el.options) return {found: false, value: ""};
		const terms = %s;
		for (const opt of el.options) {
			const label = (opt.text || "").toLowerCase();
			if (terms.some(t => label.includes(t))) {
				el.value = opt.value;
				el.dispatchEvent(new Event("change", {bubbles: true}));
				return {found: true, value: opt.text};
			}
		}
		return {found: false, value: ""};
	})()`, findExpr(selector), jsStrings(lowerAll(terms)))
	label, err := c.probe(ctx, expr)
	if err != nil {
		return "", err
	}
	return label, nil
}

// SelectFirstOption selects the first non-empty option past the placeholder
// whose label contains none of the skip terms.
func (c *Chrome) SelectFirstOption(ctx context.Context, selector string, skipTerms []string) (string, error) {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el || !el.options) return {found: false, value: ""};
		const skip = %s;
		for (let i = 1; i < el.options.length; i++) {
			const opt = el.options[i];
			const label = (opt.text || "").trim();
			if (!label) continue;
			if (skip.some(t => label.toLowerCase().includes(t))) continue;
			el.value = opt.value;
			el.dispatchEvent(new Event("change", {bubbles: true}));
			return {found: true, value: opt.text};
		}
		return {found: false, value: ""};
	})()`, findExpr(selector), jsStrings(lowerAll(skipTerms)))
	label, err := c.probe(ctx, expr)
	if err != nil {
		return "", err
	}
	return label, nil
}

// SetFile attaches a local file to a file input element.
func (c *Chrome) SetFile(ctx context.Context, selector, path string) error {
	return c.run(ctx, chromedp.SetUploadFiles(selector, []string{path}, byOpt(selector)))
}

// WaitVisible blocks until the selector matches a visible element or the
// timeout elapses.
func (c *Chrome) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := chromedp.Run(c.withDeadline(waitCtx), chromedp.WaitVisible(selector, byOpt(selector))); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

// Sleep pauses for the settle delay, honoring context cancellation.
func (c *Chrome) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes chromedp actions on the browser context, bounded by the
// caller's context deadline.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	return chromedp.Run(c.withDeadline(ctx), actions...)
}

// withDeadline applies the caller's deadline and cancellation to the
// long-lived browser context.
func (c *Chrome) withDeadline(ctx context.Context) context.Context {
	if deadline, ok := ctx.Deadline(); ok {
		bounded, cancel := context.WithDeadline(c.ctx, deadline)
		go func() {
			select {
			case <-ctx.Done():
			case <-bounded.Done():
			}
			cancel()
		}()
		return bounded
	}
	return c.ctx
}

// probe evaluates a JS expression yielding a probeResult and maps a missing
// element to ErrNotFound.
func (c *Chrome) probe(ctx context.Context, expr string) (string, error) {
	var res probeResult
	if err := c.run(ctx, chromedp.Evaluate(expr, &res)); err != nil {
		return "", err
	}
	if !res.Found {
		return "", ErrNotFound
	}
	return res.Value, nil
}

// findExpr returns a JS expression evaluating to the first element matched
// by the selector, or null. XPath selectors go through document.evaluate.
func findExpr(selector string) string {
	if IsXPath(selector) {
		return fmt.Sprintf(
			`document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
			jsString(selector))
	}
	return fmt.Sprintf(`document.querySelector(%s)`, jsString(selector))
}

// byOpt picks the chromedp query strategy matching the selector dialect.
func byOpt(selector string) chromedp.QueryOption {
	if IsXPath(selector) {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// jsString renders a Go string as a JS string literal.
func jsString(s string) string {
	return strconv.Quote(s)
}

// jsStrings renders a Go string slice as a JS array literal.
func jsStrings(items []string) string {
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}
