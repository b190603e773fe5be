package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "railctl",
	Short: "Command-line client for TestRail test management",
	Long: `railctl is a command-line client for the TestRail API. It covers
projects, suites, sections, cases, runs, plans, tests, results and
milestones, and moves cases in bulk between CSV files and the server.
Output is pipe-friendly (table, json, yaml or raw).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("profile", "", "Config profile to use (overrides TESTRAIL_PROFILE)")
	rootCmd.PersistentFlags().String("url", "", "TestRail base URL (overrides TESTRAIL_URL)")
	rootCmd.PersistentFlags().String("email", "", "Account email for basic auth (overrides TESTRAIL_EMAIL)")
	rootCmd.PersistentFlags().String("password", "", "Password or API key (overrides TESTRAIL_PASSWORD)")
	rootCmd.PersistentFlags().Int("timeout", 0, "HTTP timeout in seconds")
	rootCmd.PersistentFlags().Bool("insecure", false, "Skip TLS certificate verification")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log API requests to stderr")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: table, json, yaml, raw")
	rootCmd.PersistentFlags().String("fields", "", "Comma-separated list of fields to include in output")
	rootCmd.PersistentFlags().Bool("porcelain", false, "Machine-readable output (tab-separated tables, compact json)")
}
