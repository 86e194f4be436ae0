package types

// JobType enumerates the employment-type options the search form accepts.
type JobType string

const (
	// JobTypeAny places no employment-type restriction on the search
	JobTypeAny JobType = "Any"
	// JobTypeFullTime restricts the search to permanent full-time roles
	JobTypeFullTime JobType = "Full Time"
	// JobTypeContract restricts the search to contract roles
	JobTypeContract JobType = "Contract"
	// JobTypeContractOrFullTime accepts either contract or full-time roles
	JobTypeContractOrFullTime JobType = "Contract/Full Time"
	// JobTypePartTime restricts the search to part-time, temporary, or seasonal roles
	JobTypePartTime JobType = "Part Time/Temporary/Seasonal"
)

// Credentials holds the job-seeker account identity used for sign-in and
// form population. Immutable for the duration of a run. CVPath is optional;
// when empty the CV already stored on the site is used.
type Credentials struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CVPath    string `json:"cv_path,omitempty"`
}

// SearchCriteria holds the search parameters and application cap for one run.
// Immutable per run.
type SearchCriteria struct {
	Keywords        string   `json:"keywords" validate:"required"`
	Location        string   `json:"location" validate:"required"`
	JobType         JobType  `json:"job_type"`
	Distance        string   `json:"distance"`
	MaxApplications int      `json:"max_applications" validate:"gt=0"`
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`
}
