// Package listings scans a loaded results view and yields the bounded,
// filtered sequence of candidate listings for one run.
package listings

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/julian/jobserve-agent/internal/browser"
	"github.com/julian/jobserve-agent/internal/types"
)

// applyLinkText marks an apply affordance in the results view. Matching is
// case-sensitive: discovery must count exactly the elements the positional
// click handle `(//a[contains(text(), 'Apply')])[n]` can address, or the
// handle indices drift onto the wrong listing.
const applyLinkText = "Apply"

// Extract collects candidate listings from the current results view, in page
// order. Candidates are truncated to the application cap BEFORE filtering so
// the cap bounds extraction cost, not just output size. A malformed candidate
// is skipped without aborting the rest of the extraction.
func Extract(ctx context.Context, s browser.Session, criteria types.SearchCriteria) []types.Listing {
	html, err := s.PageHTML(ctx)
	if err != nil {
		log.Printf("[LISTINGS] Failed to read results page: %v", err)
		return nil
	}
	currentURL, err := s.CurrentURL(ctx)
	if err != nil {
		log.Printf("[LISTINGS] Failed to read current URL: %v", err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("[LISTINGS] Failed to parse results page: %v", err)
		return nil
	}

	affordances := applyAffordances(doc)
	if len(affordances) > criteria.MaxApplications {
		affordances = affordances[:criteria.MaxApplications]
	}

	var found []types.Listing
	for i, affordance := range affordances {
		listing, err := resolveCandidate(affordance, i, currentURL)
		if err != nil {
			log.Printf("[LISTINGS] Skipping candidate %d: %v", i, err)
			continue
		}
		if !Relevant(listing.Title) {
			continue
		}
		if Excluded(listing.Title, criteria.ExcludeKeywords) {
			log.Printf("[LISTINGS] Excluded by keyword filter: %s", listing.Title)
			continue
		}
		found = append(found, listing)
	}

	log.Printf("[LISTINGS] Found %d suitable job listings", len(found))
	return found
}

// applyAffordances returns the apply links of the results view in page order.
func applyAffordances(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		if strings.Contains(sel.Text(), applyLinkText) {
			out = append(out, sel)
		}
	})
	return out
}

// resolveCandidate derives a listing from one apply affordance. The title
// comes from the nearest job link around the affordance; when none can be
// found a positional placeholder is used so the candidate still gets exactly
// one outcome. The Selector is an ephemeral handle valid only while the
// results view stays loaded.
func resolveCandidate(affordance *goquery.Selection, index int, currentURL string) (types.Listing, error) {
	listing := types.Listing{
		// Nth apply affordance on the page, one-based, XPath dialect.
		Selector: fmt.Sprintf(`(//a[contains(text(), 'Apply')])[%d]`, index+1),
	}

	parent := affordance.Parent()
	if parent.Length() == 0 {
		return listing, fmt.Errorf("apply affordance %d has no parent node", index)
	}

	titleLink := parent.Find(`a[href*='jobid'], a[class*='job']`).First()
	if titleLink.Length() > 0 {
		listing.Title = strings.TrimSpace(titleLink.Text())
		listing.URL, _ = titleLink.Attr("href")
	}
	if listing.Title == "" {
		listing.Title = fmt.Sprintf("Job %d", index+1)
		listing.URL = currentURL
	}
	return listing, nil
}
