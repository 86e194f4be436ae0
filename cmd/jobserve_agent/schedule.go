package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/julian/jobserve-agent/internal/config"
	"github.com/julian/jobserve-agent/internal/report"
	"github.com/julian/jobserve-agent/internal/runner"
)

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Run the application workflow on a fixed interval",
	Long:  "Runs the workflow immediately, then once per interval (default daily), writing a run_<date>.json summary after each cycle. Stops on SIGINT/SIGTERM.",
	RunE:  runScheduleCmd,
}

var scheduleInterval time.Duration

func init() {
	scheduleCommand.Flags().DurationVar(&scheduleInterval, "interval", 24*time.Hour, "Time between workflow cycles")

	// The schedule command shares the run command's configuration flags via
	// the same package-level variables.
	scheduleCommand.Flags().AddFlagSet(runCommand.Flags())

	rootCmd.AddCommand(scheduleCommand)
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Scheduling workflow every %s\n", scheduleInterval)

	ticker := time.NewTicker(scheduleInterval)
	defer ticker.Stop()

	for {
		runCycle(ctx, cfg)

		select {
		case <-ctx.Done():
			fmt.Println("Scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// runCycle executes one scheduled workflow cycle. Cycle failures are
// recorded in the summary but never stop the scheduler.
func runCycle(ctx context.Context, cfg config.Config) {
	log.Printf("[SCHED] Starting scheduled job application cycle")

	result, runErr := runner.Run(ctx, runner.Options{
		Credentials: cfg.Credentials(),
		Criteria:    cfg.Criteria(),
		Headless:    cfg.Headless,
		PacingDelay: cfg.Pacing(),
		Timeout:     cfg.Timeout(),
		Verbose:     cfg.Verbose,
	})
	if runErr != nil {
		log.Printf("[SCHED] Cycle failed: %v", runErr)
	} else {
		log.Printf("[SCHED] Cycle completed: %d applications submitted", result.Submitted())
	}

	if len(result.Outcomes) > 0 {
		if _, _, err := report.Write(result, cfg.OutputDir); err != nil {
			log.Printf("[SCHED] Failed to write report: %v", err)
		}
	}
	if _, err := report.WriteCycleSummary(result, runErr, cfg.OutputDir, time.Now()); err != nil {
		log.Printf("[SCHED] Failed to write cycle summary: %v", err)
	}
}
