package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
)

var testsCmd = &cobra.Command{
	Use:   "tests",
	Short: "Inspect the tests of a run",
}

var testsListCmd = &cobra.Command{
	Use:   "list <run-id>",
	Short: "List the tests of a run",
	Long: `Lists the case instances of a run with their current status.

Examples:
  railctl tests list 42
  railctl tests list 42 --status 5 --fields id,title,status_id`,
	Args: cobra.ExactArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runTestsList),
}

var testsGetCmd = &cobra.Command{
	Use:   "get <test-id>",
	Short: "Show one test",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runTestsGet),
}

var testsListStatus string

func init() {
	rootCmd.AddCommand(testsCmd)
	testsCmd.AddCommand(testsListCmd)
	testsCmd.AddCommand(testsGetCmd)

	testsListCmd.Flags().StringVar(&testsListStatus, "status", "", "Status id filter (comma-separated)")
}

func runTestsList(app *appctx.App, cmd *cobra.Command, args []string) error {
	runID, err := idArg("run", args[0])
	if err != nil {
		return err
	}
	filters := url.Values{}
	if err := setIDListFilter(filters, "status_id", testsListStatus); err != nil {
		return err
	}
	tests, err := app.Client.GetTests(cmd.Context(), runID, filters)
	if err != nil {
		return err
	}
	return app.Out.Render(tests)
}

func runTestsGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("test", args[0])
	if err != nil {
		return err
	}
	test, err := app.Client.GetTest(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(test)
}
