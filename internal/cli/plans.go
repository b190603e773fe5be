package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/testrail"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage test plans",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the plans of a project",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPlansList),
}

var plansGetCmd = &cobra.Command{
	Use:   "get <plan-id>",
	Short: "Show one plan with its run entries",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPlansGet),
}

var plansAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a plan",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPlansAdd),
}

var plansUpdateCmd = &cobra.Command{
	Use:   "update <plan-id>",
	Short: "Update a plan",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPlansUpdate),
}

var plansCloseCmd = &cobra.Command{
	Use:   "close <plan-id>",
	Short: "Close a plan and all runs in it",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPlansClose),
}

var plansDeleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a plan and all runs in it",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPlansDelete),
}

var (
	plansListProject   int
	plansListMilestone string
	plansListCompleted bool
	plansListActive    bool

	plansAddProject     int
	plansAddName        string
	plansAddDescription string
	plansAddMilestone   int

	plansUpdateName        string
	plansUpdateDescription string
	plansUpdateMilestone   int
)

func init() {
	rootCmd.AddCommand(plansCmd)
	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansGetCmd)
	plansCmd.AddCommand(plansAddCmd)
	plansCmd.AddCommand(plansUpdateCmd)
	plansCmd.AddCommand(plansCloseCmd)
	plansCmd.AddCommand(plansDeleteCmd)

	plansListCmd.Flags().IntVar(&plansListProject, "project", 0, "Project id")
	plansListCmd.Flags().StringVar(&plansListMilestone, "milestone", "", "Milestone id filter (comma-separated)")
	plansListCmd.Flags().BoolVar(&plansListCompleted, "completed", false, "Only completed plans")
	plansListCmd.Flags().BoolVar(&plansListActive, "active", false, "Only active plans")
	plansListCmd.MarkFlagRequired("project")

	plansAddCmd.Flags().IntVar(&plansAddProject, "project", 0, "Project id")
	plansAddCmd.Flags().StringVar(&plansAddName, "name", "", "Plan name")
	plansAddCmd.Flags().StringVar(&plansAddDescription, "description", "", "Plan description")
	plansAddCmd.Flags().IntVar(&plansAddMilestone, "milestone", 0, "Milestone id")
	plansAddCmd.MarkFlagRequired("project")
	plansAddCmd.MarkFlagRequired("name")

	plansUpdateCmd.Flags().StringVar(&plansUpdateName, "name", "", "Plan name")
	plansUpdateCmd.Flags().StringVar(&plansUpdateDescription, "description", "", "Plan description")
	plansUpdateCmd.Flags().IntVar(&plansUpdateMilestone, "milestone", 0, "Milestone id")
}

func runPlansList(app *appctx.App, cmd *cobra.Command, args []string) error {
	filters := url.Values{}
	if err := setIDListFilter(filters, "milestone_id", plansListMilestone); err != nil {
		return err
	}
	if plansListCompleted {
		filters.Set("is_completed", "1")
	}
	if plansListActive {
		filters.Set("is_completed", "0")
	}
	plans, err := app.Client.GetPlans(cmd.Context(), plansListProject, filters)
	if err != nil {
		return err
	}
	return app.Out.Render(plans)
}

func runPlansGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("plan", args[0])
	if err != nil {
		return err
	}
	plan, err := app.Client.GetPlan(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(plan)
}

func runPlansAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	payload := testrail.Fields{"name": testrail.String(plansAddName)}
	if plansAddDescription != "" {
		payload["description"] = testrail.String(plansAddDescription)
	}
	if plansAddMilestone > 0 {
		payload["milestone_id"] = testrail.Int(plansAddMilestone)
	}
	plan, err := app.Client.AddPlan(cmd.Context(), plansAddProject, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(plan)
}

func runPlansUpdate(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("plan", args[0])
	if err != nil {
		return err
	}
	payload := testrail.Fields{}
	if cmd.Flags().Changed("name") {
		payload["name"] = testrail.String(plansUpdateName)
	}
	if cmd.Flags().Changed("description") {
		payload["description"] = testrail.String(plansUpdateDescription)
	}
	if plansUpdateMilestone > 0 {
		payload["milestone_id"] = testrail.Int(plansUpdateMilestone)
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	plan, err := app.Client.UpdatePlan(cmd.Context(), id, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(plan)
}

func runPlansClose(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("plan", args[0])
	if err != nil {
		return err
	}
	plan, err := app.Client.ClosePlan(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(plan)
}

func runPlansDelete(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("plan", args[0])
	if err != nil {
		return err
	}
	if err := app.Client.DeletePlan(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %d\n", id)
	return nil
}
