package apply

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julian/jobserve-agent/internal/browser/browsertest"
	"github.com/julian/jobserve-agent/internal/types"
)

const (
	applySelector  = `(//a[contains(text(), 'Apply')])[1]`
	submitSelector = `//button[contains(text(), 'Apply')]`
)

func testListing() types.Listing {
	return types.Listing{
		Title:    "Data Scientist - Remote",
		URL:      "/job?jobid=1",
		Selector: applySelector,
	}
}

func testCreds() types.Credentials {
	return types.Credentials{
		Email:     "jobseeker@example.com",
		Password:  "hunter2",
		FirstName: "Julian",
		LastName:  "K",
	}
}

// formPage returns a scripted application form with an email input, status
// dropdown, name fields, and a submit control.
func formPage() *browsertest.Page {
	return &browsertest.Page{
		Elements: map[string]string{
			`input[type='email']`:  "",
			`input[name*='first']`: "",
			`input[name*='last']`:  "",
			submitSelector:         "Apply",
		},
		Selects: map[string][]string{
			`select[name*='status']`: {"Please select", "EU Settled Status", "UK Citizen"},
			`select[name*='cv']`:     {"No file chosen", "julian_cv.pdf"},
		},
	}
}

// confirmationPage returns a post-submit page carrying a success phrase and
// best-effort metadata elements.
func confirmationPage() *browsertest.Page {
	return &browsertest.Page{
		HTML: `<html><body><h2>Thank you</h2><p>Your application submitted successfully.</p></body></html>`,
		Elements: map[string]string{
			`span[class*='company']`:   "Acme Analytics",
			`span[class*='reference']`: "REF-4471",
		},
	}
}

// applySession wires a fake where clicking the listing opens the form and
// clicking submit lands on the given page.
func applySession(afterSubmit *browsertest.Page) *browsertest.Fake {
	fake := browsertest.New("https://www.jobserve.com/gb/en/JobSearch.aspx")
	fake.OnScriptClick = func(selector string) {
		switch selector {
		case applySelector:
			fake.SetCurrent(formPage())
		case submitSelector:
			fake.SetCurrent(afterSubmit)
		}
	}
	return fake
}

func TestSubmit_SuccessfulApplication(t *testing.T) {
	fake := applySession(confirmationPage())

	outcome := Submit(context.Background(), fake, testListing(), testCreds(), Options{})

	assert.Equal(t, types.StatusSubmitted, outcome.Status)
	assert.Equal(t, "Data Scientist - Remote", outcome.JobTitle)
	assert.Equal(t, "Acme Analytics", outcome.Company)
	assert.Equal(t, "REF-4471", outcome.Reference)
	assert.Empty(t, outcome.ErrorMessage)
}

func TestSubmit_PopulatesEmptyFields(t *testing.T) {
	fake := applySession(confirmationPage())

	Submit(context.Background(), fake, testListing(), testCreds(), Options{})

	assert.Equal(t, []string{"jobseeker@example.com"}, fake.Typed[`input[type='email']`])
	assert.Equal(t, []string{"Julian"}, fake.Typed[`input[name*='first']`])
	assert.Equal(t, []string{"K"}, fake.Typed[`input[name*='last']`])
	assert.Equal(t, "UK Citizen", fake.Selected[`select[name*='status']`])
	assert.Equal(t, "julian_cv.pdf", fake.Selected[`select[name*='cv']`])
}

func TestSubmit_SkipsPrefilledFields(t *testing.T) {
	fake := browsertest.New("https://www.jobserve.com/gb/en/JobSearch.aspx")
	fake.OnScriptClick = func(selector string) {
		if selector == applySelector {
			page := formPage()
			page.Attrs = map[string]map[string]string{
				`input[type='email']`:  {"value": "stored@example.com"},
				`input[name*='first']`: {"value": "Julian"},
			}
			fake.SetCurrent(page)
		} else if selector == submitSelector {
			fake.SetCurrent(confirmationPage())
		}
	}

	Submit(context.Background(), fake, testListing(), testCreds(), Options{})

	assert.NotContains(t, fake.Typed, `input[type='email']`)
	assert.NotContains(t, fake.Typed, `input[name*='first']`)
	assert.Contains(t, fake.Typed, `input[name*='last']`)
}

func TestSubmit_FormDidNotOpen(t *testing.T) {
	fake := browsertest.New("https://www.jobserve.com/gb/en/JobSearch.aspx")
	// Script click succeeds but no form indicator ever appears.
	fake.SetCurrent(&browsertest.Page{})

	outcome := Submit(context.Background(), fake, testListing(), testCreds(), Options{})

	assert.Equal(t, types.StatusFailed, outcome.Status)
	assert.Equal(t, ReasonFormDidNotOpen, outcome.ErrorMessage)
}

func TestSubmit_NoSubmitButton(t *testing.T) {
	fake := browsertest.New("https://www.jobserve.com/gb/en/JobSearch.aspx")
	fake.OnScriptClick = func(selector string) {
		if selector == applySelector {
			page := formPage()
			delete(page.Elements, submitSelector)
			fake.SetCurrent(page)
		}
	}

	outcome := Submit(context.Background(), fake, testListing(), testCreds(), Options{})

	assert.Equal(t, types.StatusFailed, outcome.Status)
	assert.Equal(t, ReasonNoSubmitButton, outcome.ErrorMessage)
}

func TestSubmit_UnconfirmedSubmission(t *testing.T) {
	// Submit lands on a page with no success signal.
	fake := applySession(&browsertest.Page{HTML: `<html><body><p>Processing...</p></body></html>`})

	outcome := Submit(context.Background(), fake, testListing(), testCreds(), Options{})

	assert.Equal(t, types.StatusFailed, outcome.Status)
	assert.Equal(t, ReasonUnconfirmed, outcome.ErrorMessage)
}

func TestSubmit_OpenFailure_IsError(t *testing.T) {
	fake := browsertest.New("https://www.jobserve.com/gb/en/JobSearch.aspx")
	fake.Errs[applySelector] = assert.AnError
	fake.NavigateErr = assert.AnError

	listing := testListing()
	outcome := Submit(context.Background(), fake, listing, testCreds(), Options{})

	assert.Equal(t, types.StatusError, outcome.Status)
	assert.NotEmpty(t, outcome.ErrorMessage)
}

func TestSubmit_StaleHandleFallsBackToURL(t *testing.T) {
	fake := browsertest.New("https://www.jobserve.com/gb/en/JobSearch.aspx")
	fake.Errs[applySelector] = assert.AnError
	fake.AddPage("/job?jobid=1", formPage())
	fake.OnScriptClick = func(selector string) {
		if selector == submitSelector {
			fake.SetCurrent(confirmationPage())
		}
	}

	outcome := Submit(context.Background(), fake, testListing(), testCreds(), Options{})

	require.Equal(t, types.StatusSubmitted, outcome.Status)
	assert.Equal(t, []string{"/job?jobid=1"}, fake.Navigations)
}

func TestFormPresent(t *testing.T) {
	fake := browsertest.New("x")
	fake.SetCurrent(&browsertest.Page{Elements: map[string]string{`form`: ""}})

	assert.True(t, FormPresent(context.Background(), fake))

	fake.SetCurrent(&browsertest.Page{})
	assert.False(t, FormPresent(context.Background(), fake))
}

func TestSucceeded_SuccessStyledElementWithoutPhrase(t *testing.T) {
	fake := browsertest.New("x")
	fake.SetCurrent(&browsertest.Page{
		HTML:     `<html><body><div class="confirm-box">Done</div></body></html>`,
		Elements: map[string]string{`div[class*='confirm']`: "Done"},
	})

	assert.True(t, Succeeded(context.Background(), fake))
}
