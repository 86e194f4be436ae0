package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/julian/jobserve-agent/internal/config"
	"github.com/julian/jobserve-agent/internal/observability"
	"github.com/julian/jobserve-agent/internal/report"
	"github.com/julian/jobserve-agent/internal/runner"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the job application workflow once end-to-end",
	Long: `Runs the full application workflow: sign in -> search -> extract listings -> (apply -> verify)* up to the application cap.

Configuration can be loaded from a JSON file using --config. Credentials fall back to the JOBSERVE_EMAIL and JOBSERVE_PASSWORD environment variables. Command-line arguments override config file values.`,
	RunE: runWorkflowCmd,
}

// testModeCap bounds applications when --test is set.
const testModeCap = 2

var (
	runConfigPath string
	runKeywords   string
	runLocation   string
	runJobType    string
	runDistance   string
	runMaxApps    int
	runExclude    []string
	runCVPath     string
	runHeadless   bool
	runTestMode   bool
	runPacing     int
	runTimeout    int
	runOutputDir  string
	runVerbose    bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runKeywords, "keywords", "k", "", "Search keyword expression")
	runCommand.Flags().StringVarP(&runLocation, "location", "l", "", "Search location")
	runCommand.Flags().StringVar(&runJobType, "job-type", "", "Employment type (Any, Full Time, Contract, Contract/Full Time, Part Time/Temporary/Seasonal)")
	runCommand.Flags().StringVar(&runDistance, "distance", "", "Search radius, e.g. 'Within 25 miles'")
	runCommand.Flags().IntVar(&runMaxApps, "max-apps", 0, "Maximum number of applications for this run")
	runCommand.Flags().StringSliceVar(&runExclude, "exclude", nil, "Keywords that disqualify a listing title")
	runCommand.Flags().StringVar(&runCVPath, "cv", "", "Path to a local CV file (optional, defaults to CV_PATH env var)")
	runCommand.Flags().BoolVar(&runHeadless, "headless", false, "Run the browser in headless mode")
	runCommand.Flags().BoolVar(&runTestMode, "test", false, "Test mode - apply to at most 2 jobs")
	runCommand.Flags().IntVar(&runPacing, "pacing", 0, "Delay between applications in seconds")
	runCommand.Flags().IntVar(&runTimeout, "timeout", 0, "Bounded wait timeout in seconds")
	runCommand.Flags().StringVarP(&runOutputDir, "out", "o", "", "Directory for report files")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(runCommand)
}

// loadRunConfig merges the config file, environment, CLI overrides, and
// defaults into the effective run configuration. Flags only override when
// explicitly set.
func loadRunConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	if cmd.Flags().Changed("keywords") {
		cfg.Keywords = runKeywords
	}
	if cmd.Flags().Changed("location") {
		cfg.Location = runLocation
	}
	if cmd.Flags().Changed("job-type") {
		cfg.JobType = runJobType
	}
	if cmd.Flags().Changed("distance") {
		cfg.Distance = runDistance
	}
	if cmd.Flags().Changed("max-apps") {
		cfg.MaxApplications = runMaxApps
	}
	if cmd.Flags().Changed("exclude") {
		cfg.ExcludeKeywords = runExclude
	}
	if cmd.Flags().Changed("cv") {
		cfg.CVPath = runCVPath
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = runHeadless
	}
	if cmd.Flags().Changed("pacing") {
		cfg.PacingSeconds = runPacing
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = runTimeout
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if runTestMode {
		cfg.MaxApplications = testModeCap
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runWorkflowCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	announceRun(cfg)
	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintCriteria(cfg.Criteria())
	}

	result, runErr := runner.Run(ctx, runner.Options{
		Credentials: cfg.Credentials(),
		Criteria:    cfg.Criteria(),
		Headless:    cfg.Headless,
		PacingDelay: cfg.Pacing(),
		Timeout:     cfg.Timeout(),
		Verbose:     cfg.Verbose,
	})

	// The partial report is externalized even when the run aborts.
	if len(result.Outcomes) > 0 || runErr == nil {
		csvPath, jsonPath, writeErr := report.Write(result, cfg.OutputDir)
		if writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write report: %v\n", writeErr)
		} else {
			fmt.Printf("Results saved to %s and %s\n", csvPath, jsonPath)
		}
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintReport(result)
	}

	if runErr != nil {
		return fmt.Errorf("run failed: %w", runErr)
	}
	fmt.Printf("Run completed: %d/%d applications submitted\n", result.Submitted(), len(result.Outcomes))
	return nil
}

// announceRun echoes the effective configuration before the browser starts.
func announceRun(cfg config.Config) {
	fmt.Printf("Starting JobServe automation\n")
	fmt.Printf("  Email:    %s\n", cfg.Email)
	fmt.Printf("  Search:   %s in %s\n", cfg.Keywords, cfg.Location)
	fmt.Printf("  Max apps: %d\n", cfg.MaxApplications)
	fmt.Printf("  Headless: %v\n", cfg.Headless)

	switch {
	case cfg.CVPath == "":
		fmt.Println("  CV:       none configured - assuming a CV is already stored on JobServe")
	default:
		fmt.Printf("  CV:       %s\n", cfg.CVPath)
	}

	if cfg.MaxApplications == testModeCap && runTestMode {
		fmt.Println("Running in TEST MODE - will apply to at most 2 jobs")
	}
	if cfg.Verbose {
		fmt.Println(strings.Repeat("-", 40))
	}
}
