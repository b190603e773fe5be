package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/testrail"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Read and record test results",
}

var resultsForTestCmd = &cobra.Command{
	Use:   "for-test <test-id>",
	Short: "List the results of a test, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runResultsForTest),
}

var resultsForRunCmd = &cobra.Command{
	Use:   "for-run <run-id>",
	Short: "List all results recorded in a run",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runResultsForRun),
}

var resultsForCaseCmd = &cobra.Command{
	Use:   "for-case <run-id> <case-id>",
	Short: "List the results of a case within a run",
	Args:  cobra.ExactArgs(2),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runResultsForCase),
}

var resultsAddCmd = &cobra.Command{
	Use:   "add <test-id>",
	Short: "Record a result for a test",
	Long: `Records one result. Status ids follow the server's configuration;
the stock ones are 1=passed, 2=blocked, 4=retest, 5=failed.

Examples:
  railctl results add 116 --status 1 --comment "All good" --elapsed 30s
  railctl results add 116 --status 5 --defects JIRA-224`,
	Args: cobra.ExactArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runResultsAdd),
}

var resultsAddForCaseCmd = &cobra.Command{
	Use:   "add-for-case <run-id> <case-id>",
	Short: "Record a result addressed by run and case",
	Args:  cobra.ExactArgs(2),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runResultsAddForCase),
}

var (
	resultsListStatus string

	resultsAddStatus     int
	resultsAddComment    string
	resultsAddVersion    string
	resultsAddElapsed    string
	resultsAddDefects    string
	resultsAddAssignedTo int
)

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsForTestCmd)
	resultsCmd.AddCommand(resultsForRunCmd)
	resultsCmd.AddCommand(resultsForCaseCmd)
	resultsCmd.AddCommand(resultsAddCmd)
	resultsCmd.AddCommand(resultsAddForCaseCmd)

	resultsForRunCmd.Flags().StringVar(&resultsListStatus, "status", "", "Status id filter (comma-separated)")

	// add and add-for-case take the same result fields
	for _, c := range []*cobra.Command{resultsAddCmd, resultsAddForCaseCmd} {
		c.Flags().IntVar(&resultsAddStatus, "status", 0, "Status id")
		c.Flags().StringVar(&resultsAddComment, "comment", "", "Comment text")
		c.Flags().StringVar(&resultsAddVersion, "version", "", "Version or build tested")
		c.Flags().StringVar(&resultsAddElapsed, "elapsed", "", "Time spent, e.g. 30s or 1m 45s")
		c.Flags().StringVar(&resultsAddDefects, "defects", "", "Linked defects (comma-separated)")
		c.Flags().IntVar(&resultsAddAssignedTo, "assigned-to", 0, "User id to assign the test to")
		c.MarkFlagRequired("status")
	}
}

func runResultsForTest(app *appctx.App, cmd *cobra.Command, args []string) error {
	testID, err := idArg("test", args[0])
	if err != nil {
		return err
	}
	results, err := app.Client.GetResults(cmd.Context(), testID, nil)
	if err != nil {
		return err
	}
	return app.Out.Render(results)
}

func runResultsForRun(app *appctx.App, cmd *cobra.Command, args []string) error {
	runID, err := idArg("run", args[0])
	if err != nil {
		return err
	}
	filters := url.Values{}
	if err := setIDListFilter(filters, "status_id", resultsListStatus); err != nil {
		return err
	}
	results, err := app.Client.GetResultsForRun(cmd.Context(), runID, filters)
	if err != nil {
		return err
	}
	return app.Out.Render(results)
}

func runResultsForCase(app *appctx.App, cmd *cobra.Command, args []string) error {
	runID, err := idArg("run", args[0])
	if err != nil {
		return err
	}
	caseID, err := idArg("case", args[1])
	if err != nil {
		return err
	}
	results, err := app.Client.GetResultsForCase(cmd.Context(), runID, caseID, nil)
	if err != nil {
		return err
	}
	return app.Out.Render(results)
}

func resultPayload() testrail.Fields {
	payload := testrail.Fields{"status_id": testrail.Int(resultsAddStatus)}
	if resultsAddComment != "" {
		payload["comment"] = testrail.String(resultsAddComment)
	}
	if resultsAddVersion != "" {
		payload["version"] = testrail.String(resultsAddVersion)
	}
	if resultsAddElapsed != "" {
		payload["elapsed"] = testrail.String(resultsAddElapsed)
	}
	if resultsAddDefects != "" {
		payload["defects"] = testrail.String(resultsAddDefects)
	}
	if resultsAddAssignedTo > 0 {
		payload["assignedto_id"] = testrail.Int(resultsAddAssignedTo)
	}
	return payload
}

func runResultsAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	testID, err := idArg("test", args[0])
	if err != nil {
		return err
	}
	result, err := app.Client.AddResult(cmd.Context(), testID, resultPayload())
	if err != nil {
		return err
	}
	return app.Out.Render(result)
}

func runResultsAddForCase(app *appctx.App, cmd *cobra.Command, args []string) error {
	runID, err := idArg("run", args[0])
	if err != nil {
		return err
	}
	caseID, err := idArg("case", args[1])
	if err != nil {
		return err
	}
	result, err := app.Client.AddResultForCase(cmd.Context(), runID, caseID, resultPayload())
	if err != nil {
		return err
	}
	return app.Out.Render(result)
}
