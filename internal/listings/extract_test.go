package listings

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julian/jobserve-agent/internal/browser/browsertest"
	"github.com/julian/jobserve-agent/internal/types"
)

func testCriteria(cap int) types.SearchCriteria {
	return types.SearchCriteria{
		Keywords:        "data scientist",
		Location:        "London",
		MaxApplications: cap,
	}
}

// resultsHTML builds a results view with one row per title, each carrying a
// job link and an apply affordance.
func resultsHTML(titles ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i, title := range titles {
		sb.WriteString(fmt.Sprintf(
			`<div class="row"><a href="/job?jobid=%d">%s</a> <a href="/apply?jobid=%d">Apply Now</a></div>`,
			i+1, title, i+1))
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func resultsSession(html string) *browsertest.Fake {
	fake := browsertest.New("https://www.jobserve.com/gb/en/JobSearch.aspx")
	fake.SetCurrent(&browsertest.Page{HTML: html})
	return fake
}

func TestExtract_ResolvesTitlesAndURLs(t *testing.T) {
	fake := resultsSession(resultsHTML("Data Scientist - Remote", "AI Engineer"))

	found := Extract(context.Background(), fake, testCriteria(10))

	require.Len(t, found, 2)
	assert.Equal(t, "Data Scientist - Remote", found[0].Title)
	assert.Equal(t, "/job?jobid=1", found[0].URL)
	assert.Equal(t, `(//a[contains(text(), 'Apply')])[1]`, found[0].Selector)
	assert.Equal(t, "AI Engineer", found[1].Title)
	assert.Equal(t, `(//a[contains(text(), 'Apply')])[2]`, found[1].Selector)
}

func TestExtract_PreservesPageOrder(t *testing.T) {
	fake := resultsSession(resultsHTML("Tech Lead", "Data Analyst", "AI Engineer"))

	found := Extract(context.Background(), fake, testCriteria(10))

	require.Len(t, found, 3)
	assert.Equal(t, "Tech Lead", found[0].Title)
	assert.Equal(t, "Data Analyst", found[1].Title)
	assert.Equal(t, "AI Engineer", found[2].Title)
}

func TestExtract_NeverExceedsCap(t *testing.T) {
	fake := resultsSession(resultsHTML(
		"Data Engineer 1", "Data Engineer 2", "Data Engineer 3", "Data Engineer 4"))

	found := Extract(context.Background(), fake, testCriteria(2))

	assert.Len(t, found, 2)
}

func TestExtract_CapBoundsExtractionBeforeFiltering(t *testing.T) {
	// The first two affordances fail the relevance filter; with a cap of 2
	// the remaining relevant rows must never be reached.
	fake := resultsSession(resultsHTML("Office Manager", "Receptionist", "Data Scientist"))

	found := Extract(context.Background(), fake, testCriteria(2))

	assert.Empty(t, found)
}

func TestExtract_DropsIrrelevantTitles(t *testing.T) {
	fake := resultsSession(resultsHTML("Data Scientist", "Office Manager", "AI Engineer"))

	found := Extract(context.Background(), fake, testCriteria(10))

	require.Len(t, found, 2)
	assert.Equal(t, "Data Scientist", found[0].Title)
	assert.Equal(t, "AI Engineer", found[1].Title)
}

func TestExtract_AppliesExcludeKeywords(t *testing.T) {
	criteria := testCriteria(10)
	criteria.ExcludeKeywords = []string{"intern", "head of"}
	fake := resultsSession(resultsHTML("Data Science Intern", "Head of Data", "Data Scientist"))

	found := Extract(context.Background(), fake, criteria)

	require.Len(t, found, 1)
	assert.Equal(t, "Data Scientist", found[0].Title)
}

func TestExtract_LowercaseApplyLinkIsNotCounted(t *testing.T) {
	// A link reading "apply here" is invisible to the case-sensitive click
	// handle, so counting it during discovery would shift every later handle
	// index onto a different listing's apply button.
	html := `<html><body>` +
		`<div class="row"><a href="/job?jobid=1">Data Scientist</a> <a href="/apply?jobid=1">apply here</a></div>` +
		`<div class="row"><a href="/job?jobid=2">AI Engineer</a> <a href="/apply?jobid=2">Apply Now</a></div>` +
		`</body></html>`
	fake := resultsSession(html)

	found := Extract(context.Background(), fake, testCriteria(10))

	require.Len(t, found, 1)
	assert.Equal(t, "AI Engineer", found[0].Title)
	assert.Equal(t, `(//a[contains(text(), 'Apply')])[1]`, found[0].Selector)
}

func TestExtract_FallbackTitleForBareAffordance(t *testing.T) {
	// An apply link with no job link nearby still yields a candidate with a
	// positional placeholder title; the placeholder fails the relevance
	// filter and is dropped silently.
	html := `<html><body><div><a href="/apply">Apply</a></div></body></html>`
	fake := resultsSession(html)

	found := Extract(context.Background(), fake, testCriteria(10))

	assert.Empty(t, found)
}

func TestExtract_EmptyPage_ReturnsNothing(t *testing.T) {
	fake := resultsSession("")

	found := Extract(context.Background(), fake, testCriteria(10))

	assert.Empty(t, found)
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Data Scientist - Remote", true},
		{"AI Engineer (Contract)", true},
		{"Senior Technician", true},
		{"Team Lead", true},
		{"Business Analyst", true},
		{"Office Manager", false},
		{"Receptionist", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Relevant(tt.title), "title %q", tt.title)
	}
}

func TestExcluded(t *testing.T) {
	excludes := []string{"senior manager", "director", "head of", "chief", "intern", "graduate"}

	assert.True(t, Excluded("Head of Data Science", excludes))
	assert.True(t, Excluded("Data Science INTERN", excludes))
	assert.False(t, Excluded("Data Scientist", excludes))
	assert.False(t, Excluded("Data Scientist", nil))
}
