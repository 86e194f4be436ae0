package verify

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/julian/jobserve-agent/internal/browser"
	"github.com/julian/jobserve-agent/internal/search"
)

// HistoryURL is the site's dedicated application-history view.
const HistoryURL = "https://www.jobserve.com/ee/en/can/applications"

// restrictedNotice appears on the history view when the account tier cannot
// see full application history.
const restrictedNotice = "limited number of features"

const (
	// settleAfterNavigate pauses after loading the history view.
	settleAfterNavigate = 3 * time.Second
	// settleAfterRestore pauses after returning to the pre-call page.
	settleAfterRestore = 2 * time.Second
)

// InHistory reports whether the given job title is now reflected in the
// site's own records. Three positive signals are accepted, in order: a title
// variation in the history page text, a title variation inside a row or
// card element, and (weakest) today's date anywhere on the page. When the
// history view is restricted, a search-view "applied" marker is checked
// instead, without re-attempting the history view in the same call.
//
// The session is always restored to its pre-call location, whether the
// result is positive, negative, or an internal error. Errors are logged and
// count as a negative result; they never propagate.
func InHistory(ctx context.Context, s browser.Session, jobTitle string) bool {
	log.Printf("[VERIFY] Verifying application in history for: %s", jobTitle)

	originalURL, err := s.CurrentURL(ctx)
	if err != nil {
		log.Printf("[VERIFY] Failed to read current URL: %v", err)
		return false
	}
	defer func() {
		if err := s.Navigate(ctx, originalURL); err != nil {
			log.Printf("[VERIFY] Failed to restore original page: %v", err)
			return
		}
		_ = s.Sleep(ctx, settleAfterRestore)
	}()

	if err := s.Navigate(ctx, HistoryURL); err != nil {
		log.Printf("[VERIFY] Failed to open application history: %v", err)
		return false
	}
	_ = s.Sleep(ctx, settleAfterNavigate)

	text, err := s.PageText(ctx)
	if err != nil {
		log.Printf("[VERIFY] Failed to read history page: %v", err)
		return false
	}
	pageText := strings.ToLower(text)

	if strings.Contains(pageText, restrictedNotice) {
		log.Printf("[VERIFY] History view has limited access, trying search-based verification")
		return verifyViaSearch(ctx, s)
	}

	variations := TitleVariations(jobTitle)

	for _, variation := range variations {
		if strings.Contains(pageText, variation) {
			log.Printf("[VERIFY] Found title variation %q in application history", variation)
			return true
		}
	}

	if html, err := s.PageHTML(ctx); err == nil && matchInRows(html, variations) {
		log.Printf("[VERIFY] Found title in a history row")
		return true
	}

	// Weak recency signal: the application was made moments ago, so today's
	// date on the page probably refers to it. Known precision tradeoff on
	// busy pages.
	today := time.Now().Format("02/01/2006")
	todayISO := time.Now().Format("2006-01-02")
	if strings.Contains(pageText, today) || strings.Contains(pageText, todayISO) {
		log.Printf("[VERIFY] Found today's date in applications, likely a recent application")
		return true
	}

	return false
}

// matchInRows scans row- and card-like elements of the history view for any
// title variation.
func matchInRows(html string, variations []string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	matched := false
	doc.Find(`tr, li, [class*='row'], [class*='card'], [class*='application']`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(sel.Text())
		for _, variation := range variations {
			if strings.Contains(text, variation) {
				matched = true
				return false
			}
		}
		return true
	})
	return matched
}

// verifyViaSearch is the fallback confirmation path: the results view marks
// already-applied listings, so an "applied" marker there counts as positive.
func verifyViaSearch(ctx context.Context, s browser.Session) bool {
	if err := s.Navigate(ctx, search.URL); err != nil {
		log.Printf("[VERIFY] Search-based verification failed: %v", err)
		return false
	}
	_ = s.Sleep(ctx, settleAfterNavigate)

	text, err := s.PageText(ctx)
	if err != nil {
		log.Printf("[VERIFY] Failed to read search page: %v", err)
		return false
	}
	pageText := strings.ToLower(text)

	if strings.Contains(pageText, "applied:") || strings.Contains(pageText, "applied ") {
		log.Printf("[VERIFY] Found applied status in job search results")
		return true
	}
	return false
}
