// Package browser - locator.go declares the ordered locator strategies for
// the site's logical page elements. Each logical field maps to a list of
// selectors tried in order; the first one present on the page wins. Keeping
// the selector literals in one table contains the markup fragility here.
package browser

import "context"

// Field identifies a logical page element independent of its markup.
type Field string

const (
	// FieldSignOutLink is the signed-in indicator
	FieldSignOutLink Field = "sign_out_link"
	// FieldSignInLink is the sign-in affordance on the landing page
	FieldSignInLink Field = "sign_in_link"
	// FieldEmail is the account email input (login and application forms)
	FieldEmail Field = "email"
	// FieldPassword is the account password input
	FieldPassword Field = "password"
	// FieldLoginSubmit is the login form submit control
	FieldLoginSubmit Field = "login_submit"
	// FieldKeywords is the search keyword input
	FieldKeywords Field = "keywords"
	// FieldLocation is the search location input
	FieldLocation Field = "location"
	// FieldJobType is the employment-type dropdown on the search form
	FieldJobType Field = "job_type"
	// FieldSearchSubmit is the search trigger control
	FieldSearchSubmit Field = "search_submit"
	// FieldResultsMarker indicates a loaded results view
	FieldResultsMarker Field = "results_marker"
	// FieldStatusSelect is the work-authorization dropdown on the application form
	FieldStatusSelect Field = "status_select"
	// FieldCVSelect is the stored-CV dropdown on the application form
	FieldCVSelect Field = "cv_select"
	// FieldCVFile is the CV file-upload input
	FieldCVFile Field = "cv_file"
	// FieldFirstName is the first-name input on the application form
	FieldFirstName Field = "first_name"
	// FieldLastName is the last-name input on the application form
	FieldLastName Field = "last_name"
	// FieldApplySubmit is the application form submit control
	FieldApplySubmit Field = "apply_submit"
	// FieldCompany carries the best-effort company name on a confirmation page
	FieldCompany Field = "company"
	// FieldReference carries the best-effort job reference on a confirmation page
	FieldReference Field = "reference"
	// FieldSuccessMarker is a success-styled confirmation element
	FieldSuccessMarker Field = "success_marker"
)

// locators maps each logical field to its ordered selector strategies.
var locators = map[Field][]string{
	FieldSignOutLink: {
		`//a[contains(text(), 'Sign Out')]`,
	},
	FieldSignInLink: {
		`//a[contains(text(), 'Sign In') or contains(text(), 'Login') or contains(@href, 'login')]`,
	},
	FieldEmail: {
		`input[type='email']`,
		`input[name*='email']`,
		`input[id*='email']`,
	},
	FieldPassword: {
		`input[type='password']`,
		`input[name*='password']`,
		`input[id*='password']`,
	},
	FieldLoginSubmit: {
		`input[type='submit']`,
		`button[type='submit']`,
	},
	FieldKeywords: {
		`input[placeholder*='Marketing']`,
		`input[name*='keyword']`,
	},
	FieldLocation: {
		`input[placeholder*='London']`,
		`input[name*='location']`,
	},
	FieldJobType: {
		`select[name*='jobtype']`,
		`select[name*='type']`,
	},
	FieldSearchSubmit: {
		`button[type='submit']`,
		`input[value='Search']`,
	},
	FieldResultsMarker: {
		`a[href*='JobSearch']`,
		`.job-title`,
		`h3`,
	},
	FieldStatusSelect: {
		`select[name*='status']`,
		`select`,
	},
	FieldCVSelect: {
		`select[name*='cv']`,
		`select[name*='resume']`,
	},
	FieldCVFile: {
		`input[type='file']`,
	},
	FieldFirstName: {
		`input[name*='first']`,
		`input[id*='first']`,
	},
	FieldLastName: {
		`input[name*='last']`,
		`input[id*='last']`,
	},
	FieldApplySubmit: {
		`//button[contains(text(), 'Apply')]`,
		`button[type='submit']`,
		`input[type='submit']`,
	},
	FieldCompany: {
		`span[class*='company']`,
		`div[class*='company']`,
	},
	FieldReference: {
		`span[class*='reference']`,
		`div[class*='ref']`,
	},
	FieldSuccessMarker: {
		`div[class*='success']`,
		`div[class*='confirm']`,
	},
}

// Selectors returns the ordered selector strategies for a logical field.
func Selectors(field Field) []string {
	return locators[field]
}

// Locate tries each selector strategy for the field in order and returns the
// first one matching an element on the current page. Probe errors count as
// a non-match for that strategy; only total absence yields ok=false.
func Locate(ctx context.Context, s Session, field Field) (string, bool) {
	for _, selector := range locators[field] {
		found, err := s.Exists(ctx, selector)
		if err != nil {
			continue
		}
		if found {
			return selector, true
		}
	}
	return "", false
}
