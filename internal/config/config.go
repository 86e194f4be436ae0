// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julian/jobserve-agent/internal/types"
)

// placeholderEmail is the sample value shipped in example configs; runs with
// it still in place are rejected.
const placeholderEmail = "your_email@example.com"

// Config represents the CLI configuration. Values can come from a JSON file,
// environment variables, and CLI flags, merged in that order of increasing
// priority. All fields are optional; missing values use defaults.
type Config struct {
	// Account
	Email     string `json:"email,omitempty" validate:"required,email"`
	Password  string `json:"password,omitempty" validate:"required"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	CVPath    string `json:"cv_path,omitempty"`

	// Search
	Keywords        string   `json:"keywords,omitempty" validate:"required"`
	Location        string   `json:"location,omitempty" validate:"required"`
	JobType         string   `json:"job_type,omitempty"`
	Distance        string   `json:"distance,omitempty"`
	MaxApplications int      `json:"max_applications,omitempty" validate:"gt=0"`
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`

	// Behavior
	Headless       bool   `json:"headless,omitempty"`
	PacingSeconds  int    `json:"pacing_seconds,omitempty" validate:"gte=0"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" validate:"gte=0"`
	OutputDir      string `json:"output_dir,omitempty"`
	Verbose        bool   `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		Keywords:        "data scientist, AI engineer",
		Location:        "London",
		JobType:         string(types.JobTypeContractOrFullTime),
		Distance:        "Within 25 miles",
		MaxApplications: 50,
		ExcludeKeywords: []string{"senior manager", "director", "head of", "chief", "intern", "graduate"},
		PacingSeconds:   5,
		TimeoutSeconds:  10,
		OutputDir:       ".",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv fills unset fields from the environment: JOBSERVE_EMAIL,
// JOBSERVE_PASSWORD, CV_PATH, MAX_APPLICATIONS.
func (c *Config) ApplyEnv() {
	if c.Email == "" {
		c.Email = os.Getenv("JOBSERVE_EMAIL")
	}
	if c.Password == "" {
		c.Password = os.Getenv("JOBSERVE_PASSWORD")
	}
	if c.CVPath == "" {
		c.CVPath = os.Getenv("CV_PATH")
	}
	if c.MaxApplications == 0 {
		if v, err := strconv.Atoi(os.Getenv("MAX_APPLICATIONS")); err == nil && v > 0 {
			c.MaxApplications = v
		}
	}
}

// MergeWithDefaults fills any unset field from the given defaults.
func (c Config) MergeWithDefaults(defaults Config) Config {
	merged := c
	if merged.Keywords == "" {
		merged.Keywords = defaults.Keywords
	}
	if merged.Location == "" {
		merged.Location = defaults.Location
	}
	if merged.JobType == "" {
		merged.JobType = defaults.JobType
	}
	if merged.Distance == "" {
		merged.Distance = defaults.Distance
	}
	if merged.MaxApplications == 0 {
		merged.MaxApplications = defaults.MaxApplications
	}
	if merged.ExcludeKeywords == nil {
		merged.ExcludeKeywords = defaults.ExcludeKeywords
	}
	if merged.PacingSeconds == 0 {
		merged.PacingSeconds = defaults.PacingSeconds
	}
	if merged.TimeoutSeconds == 0 {
		merged.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if merged.OutputDir == "" {
		merged.OutputDir = defaults.OutputDir
	}
	return merged
}

// Validate checks the merged configuration. Validation runs after merging so
// flag, env, and file sources all get the same treatment.
func (c *Config) Validate() error {
	if c.Email == placeholderEmail {
		return fmt.Errorf("config error: update the placeholder credentials before running")
	}

	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("config error: field %q failed %q validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	// CV path is optional, but a configured path must exist.
	if c.CVPath != "" {
		if _, err := os.Stat(c.CVPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: CV file not found: %s", c.CVPath)
		}
	}

	return nil
}

// Credentials builds the run credentials view of the configuration.
func (c Config) Credentials() types.Credentials {
	return types.Credentials{
		Email:     c.Email,
		Password:  c.Password,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		CVPath:    c.CVPath,
	}
}

// Criteria builds the run search-criteria view of the configuration.
func (c Config) Criteria() types.SearchCriteria {
	return types.SearchCriteria{
		Keywords:        c.Keywords,
		Location:        c.Location,
		JobType:         types.JobType(c.JobType),
		Distance:        c.Distance,
		MaxApplications: c.MaxApplications,
		ExcludeKeywords: c.ExcludeKeywords,
	}
}

// Pacing returns the inter-application delay as a duration.
func (c Config) Pacing() time.Duration {
	return time.Duration(c.PacingSeconds) * time.Second
}

// Timeout returns the bounded-wait duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
