package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/parse"
	"railctl/internal/testrail"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage test runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the runs of a project",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runRunsList),
}

var runsGetCmd = &cobra.Command{
	Use:   "get <run-id>",
	Short: "Show one run with its result counts",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runRunsGet),
}

var runsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Start a run",
	Long: `Starts a run over a suite. Without --case-ids the run includes every
case of the suite; with it only the listed cases.

Examples:
  railctl runs add --project 1 --suite 3 --name "Sprint 12 regression"
  railctl runs add --project 1 --name Smoke --case-ids 301,302,310`,
	Args: cobra.NoArgs,
	RunE: appctx.WithApp(appctx.DefaultOptions(), runRunsAdd),
}

var runsUpdateCmd = &cobra.Command{
	Use:   "update <run-id>",
	Short: "Update a run",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runRunsUpdate),
}

var runsCloseCmd = &cobra.Command{
	Use:   "close <run-id>",
	Short: "Close a run and archive its results",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runRunsClose),
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its results",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runRunsDelete),
}

var (
	runsListProject       int
	runsListSuite         string
	runsListMilestone     string
	runsListCompleted     bool
	runsListActive        bool
	runsListCreatedAfter  string
	runsListCreatedBefore string

	runsAddProject     int
	runsAddSuite       int
	runsAddName        string
	runsAddDescription string
	runsAddMilestone   int
	runsAddCaseIDs     string
	runsAddIncludeAll  bool

	runsUpdateName        string
	runsUpdateDescription string
	runsUpdateMilestone   int
	runsUpdateCaseIDs     string
	runsUpdateIncludeAll  bool
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsGetCmd)
	runsCmd.AddCommand(runsAddCmd)
	runsCmd.AddCommand(runsUpdateCmd)
	runsCmd.AddCommand(runsCloseCmd)
	runsCmd.AddCommand(runsDeleteCmd)

	runsListCmd.Flags().IntVar(&runsListProject, "project", 0, "Project id")
	runsListCmd.Flags().StringVar(&runsListSuite, "suite", "", "Suite id filter (comma-separated)")
	runsListCmd.Flags().StringVar(&runsListMilestone, "milestone", "", "Milestone id filter (comma-separated)")
	runsListCmd.Flags().BoolVar(&runsListCompleted, "completed", false, "Only completed runs")
	runsListCmd.Flags().BoolVar(&runsListActive, "active", false, "Only active runs")
	runsListCmd.Flags().StringVar(&runsListCreatedAfter, "created-after", "", "Only runs created after (ISO-8601 or epoch seconds)")
	runsListCmd.Flags().StringVar(&runsListCreatedBefore, "created-before", "", "Only runs created before (ISO-8601 or epoch seconds)")
	runsListCmd.MarkFlagRequired("project")

	runsAddCmd.Flags().IntVar(&runsAddProject, "project", 0, "Project id")
	runsAddCmd.Flags().IntVar(&runsAddSuite, "suite", 0, "Suite id (multi-suite projects)")
	runsAddCmd.Flags().StringVar(&runsAddName, "name", "", "Run name")
	runsAddCmd.Flags().StringVar(&runsAddDescription, "description", "", "Run description")
	runsAddCmd.Flags().IntVar(&runsAddMilestone, "milestone", 0, "Milestone id")
	runsAddCmd.Flags().StringVar(&runsAddCaseIDs, "case-ids", "", "Restrict the run to these case ids (comma-separated)")
	runsAddCmd.Flags().BoolVar(&runsAddIncludeAll, "include-all", true, "Include all cases of the suite")
	runsAddCmd.MarkFlagRequired("project")
	runsAddCmd.MarkFlagRequired("name")

	runsUpdateCmd.Flags().StringVar(&runsUpdateName, "name", "", "Run name")
	runsUpdateCmd.Flags().StringVar(&runsUpdateDescription, "description", "", "Run description")
	runsUpdateCmd.Flags().IntVar(&runsUpdateMilestone, "milestone", 0, "Milestone id")
	runsUpdateCmd.Flags().StringVar(&runsUpdateCaseIDs, "case-ids", "", "Restrict the run to these case ids (comma-separated)")
	runsUpdateCmd.Flags().BoolVar(&runsUpdateIncludeAll, "include-all", false, "Include all cases of the suite")
}

func runRunsList(app *appctx.App, cmd *cobra.Command, args []string) error {
	filters := url.Values{}
	if err := setIDListFilter(filters, "suite_id", runsListSuite); err != nil {
		return err
	}
	if err := setIDListFilter(filters, "milestone_id", runsListMilestone); err != nil {
		return err
	}
	if runsListCompleted {
		filters.Set("is_completed", "1")
	}
	if runsListActive {
		filters.Set("is_completed", "0")
	}
	if err := setTimeFilter(filters, "created_after", runsListCreatedAfter); err != nil {
		return err
	}
	if err := setTimeFilter(filters, "created_before", runsListCreatedBefore); err != nil {
		return err
	}
	runs, err := app.Client.GetRuns(cmd.Context(), runsListProject, filters)
	if err != nil {
		return err
	}
	return app.Out.Render(runs)
}

func runRunsGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("run", args[0])
	if err != nil {
		return err
	}
	run, err := app.Client.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(run)
}

// caseIDsValue converts a parsed id list into the case_ids payload form.
func caseIDsValue(ids []int) (testrail.Value, error) {
	return testrail.Marshal(ids)
}

func runRunsAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	payload := testrail.Fields{"name": testrail.String(runsAddName)}
	if runsAddSuite > 0 {
		payload["suite_id"] = testrail.Int(runsAddSuite)
	}
	if runsAddDescription != "" {
		payload["description"] = testrail.String(runsAddDescription)
	}
	if runsAddMilestone > 0 {
		payload["milestone_id"] = testrail.Int(runsAddMilestone)
	}
	if runsAddCaseIDs != "" {
		ids, err := parse.ParseIDList(runsAddCaseIDs)
		if err != nil {
			return fmt.Errorf("--case-ids: %w", err)
		}
		value, err := caseIDsValue(ids)
		if err != nil {
			return err
		}
		payload["case_ids"] = value
		// An explicit case list implies a partial run unless the caller
		// forces include_all.
		if !cmd.Flags().Changed("include-all") {
			runsAddIncludeAll = false
		}
	}
	payload["include_all"] = testrail.Bool(runsAddIncludeAll)
	run, err := app.Client.AddRun(cmd.Context(), runsAddProject, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(run)
}

func runRunsUpdate(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("run", args[0])
	if err != nil {
		return err
	}
	payload := testrail.Fields{}
	if cmd.Flags().Changed("name") {
		payload["name"] = testrail.String(runsUpdateName)
	}
	if cmd.Flags().Changed("description") {
		payload["description"] = testrail.String(runsUpdateDescription)
	}
	if runsUpdateMilestone > 0 {
		payload["milestone_id"] = testrail.Int(runsUpdateMilestone)
	}
	if runsUpdateCaseIDs != "" {
		ids, err := parse.ParseIDList(runsUpdateCaseIDs)
		if err != nil {
			return fmt.Errorf("--case-ids: %w", err)
		}
		value, err := caseIDsValue(ids)
		if err != nil {
			return err
		}
		payload["case_ids"] = value
		payload["include_all"] = testrail.Bool(false)
	}
	if cmd.Flags().Changed("include-all") {
		payload["include_all"] = testrail.Bool(runsUpdateIncludeAll)
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	run, err := app.Client.UpdateRun(cmd.Context(), id, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(run)
}

func runRunsClose(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("run", args[0])
	if err != nil {
		return err
	}
	run, err := app.Client.CloseRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(run)
}

func runRunsDelete(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("run", args[0])
	if err != nil {
		return err
	}
	if err := app.Client.DeleteRun(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %d\n", id)
	return nil
}
