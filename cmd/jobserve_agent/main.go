// Package main provides the entry point for the JobServe application agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobserve_agent",
	Short: "JobServe job application automation agent",
	Long:  "jobserve_agent drives a headless Chrome instance to sign in to JobServe UK, search for matching jobs, submit applications, and record verified outcomes.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
