package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/parse"
	"railctl/internal/testrail"
)

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Manage milestones",
}

var milestonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the milestones of a project",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runMilestonesList),
}

var milestonesGetCmd = &cobra.Command{
	Use:   "get <milestone-id>",
	Short: "Show one milestone",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runMilestonesGet),
}

var milestonesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a milestone",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runMilestonesAdd),
}

var milestonesUpdateCmd = &cobra.Command{
	Use:   "update <milestone-id>",
	Short: "Update a milestone",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runMilestonesUpdate),
}

var milestonesDeleteCmd = &cobra.Command{
	Use:   "delete <milestone-id>",
	Short: "Delete a milestone",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runMilestonesDelete),
}

var (
	milestonesListProject   int
	milestonesListCompleted bool
	milestonesListActive    bool
	milestonesListStarted   bool

	milestonesAddProject     int
	milestonesAddName        string
	milestonesAddDescription string
	milestonesAddParent      int
	milestonesAddDueOn       string
	milestonesAddStartOn     string

	milestonesUpdateName        string
	milestonesUpdateDescription string
	milestonesUpdateDueOn       string
	milestonesUpdateStartOn     string
	milestonesUpdateCompleted   bool
	milestonesUpdateStarted     bool
)

func init() {
	rootCmd.AddCommand(milestonesCmd)
	milestonesCmd.AddCommand(milestonesListCmd)
	milestonesCmd.AddCommand(milestonesGetCmd)
	milestonesCmd.AddCommand(milestonesAddCmd)
	milestonesCmd.AddCommand(milestonesUpdateCmd)
	milestonesCmd.AddCommand(milestonesDeleteCmd)

	milestonesListCmd.Flags().IntVar(&milestonesListProject, "project", 0, "Project id")
	milestonesListCmd.Flags().BoolVar(&milestonesListCompleted, "completed", false, "Only completed milestones")
	milestonesListCmd.Flags().BoolVar(&milestonesListActive, "active", false, "Only open milestones")
	milestonesListCmd.Flags().BoolVar(&milestonesListStarted, "started", false, "Only started milestones")
	milestonesListCmd.MarkFlagRequired("project")

	milestonesAddCmd.Flags().IntVar(&milestonesAddProject, "project", 0, "Project id")
	milestonesAddCmd.Flags().StringVar(&milestonesAddName, "name", "", "Milestone name")
	milestonesAddCmd.Flags().StringVar(&milestonesAddDescription, "description", "", "Milestone description")
	milestonesAddCmd.Flags().IntVar(&milestonesAddParent, "parent", 0, "Parent milestone id")
	milestonesAddCmd.Flags().StringVar(&milestonesAddDueOn, "due-on", "", "Due date (ISO-8601 or epoch seconds)")
	milestonesAddCmd.Flags().StringVar(&milestonesAddStartOn, "start-on", "", "Scheduled start (ISO-8601 or epoch seconds)")
	milestonesAddCmd.MarkFlagRequired("project")
	milestonesAddCmd.MarkFlagRequired("name")

	milestonesUpdateCmd.Flags().StringVar(&milestonesUpdateName, "name", "", "Milestone name")
	milestonesUpdateCmd.Flags().StringVar(&milestonesUpdateDescription, "description", "", "Milestone description")
	milestonesUpdateCmd.Flags().StringVar(&milestonesUpdateDueOn, "due-on", "", "Due date (ISO-8601 or epoch seconds)")
	milestonesUpdateCmd.Flags().StringVar(&milestonesUpdateStartOn, "start-on", "", "Scheduled start (ISO-8601 or epoch seconds)")
	milestonesUpdateCmd.Flags().BoolVar(&milestonesUpdateCompleted, "completed", false, "Mark the milestone completed")
	milestonesUpdateCmd.Flags().BoolVar(&milestonesUpdateStarted, "started", false, "Mark the milestone started")
}

// timestampValue parses a datetime flag into an epoch-seconds value.
func timestampValue(flag, value string) (testrail.Value, error) {
	ts, err := parse.ParseTimestamp(value)
	if err != nil {
		return testrail.Value{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return testrail.Int(int(ts)), nil
}

func runMilestonesList(app *appctx.App, cmd *cobra.Command, args []string) error {
	filters := url.Values{}
	if milestonesListCompleted {
		filters.Set("is_completed", "1")
	}
	if milestonesListActive {
		filters.Set("is_completed", "0")
	}
	if milestonesListStarted {
		filters.Set("is_started", "1")
	}
	milestones, err := app.Client.GetMilestones(cmd.Context(), milestonesListProject, filters)
	if err != nil {
		return err
	}
	return app.Out.Render(milestones)
}

func runMilestonesGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("milestone", args[0])
	if err != nil {
		return err
	}
	milestone, err := app.Client.GetMilestone(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(milestone)
}

func runMilestonesAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	payload := testrail.Fields{"name": testrail.String(milestonesAddName)}
	if milestonesAddDescription != "" {
		payload["description"] = testrail.String(milestonesAddDescription)
	}
	if milestonesAddParent > 0 {
		payload["parent_id"] = testrail.Int(milestonesAddParent)
	}
	if milestonesAddDueOn != "" {
		value, err := timestampValue("due-on", milestonesAddDueOn)
		if err != nil {
			return err
		}
		payload["due_on"] = value
	}
	if milestonesAddStartOn != "" {
		value, err := timestampValue("start-on", milestonesAddStartOn)
		if err != nil {
			return err
		}
		payload["start_on"] = value
	}
	milestone, err := app.Client.AddMilestone(cmd.Context(), milestonesAddProject, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(milestone)
}

func runMilestonesUpdate(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("milestone", args[0])
	if err != nil {
		return err
	}
	payload := testrail.Fields{}
	if cmd.Flags().Changed("name") {
		payload["name"] = testrail.String(milestonesUpdateName)
	}
	if cmd.Flags().Changed("description") {
		payload["description"] = testrail.String(milestonesUpdateDescription)
	}
	if milestonesUpdateDueOn != "" {
		value, err := timestampValue("due-on", milestonesUpdateDueOn)
		if err != nil {
			return err
		}
		payload["due_on"] = value
	}
	if milestonesUpdateStartOn != "" {
		value, err := timestampValue("start-on", milestonesUpdateStartOn)
		if err != nil {
			return err
		}
		payload["start_on"] = value
	}
	if cmd.Flags().Changed("completed") {
		payload["is_completed"] = testrail.Bool(milestonesUpdateCompleted)
	}
	if cmd.Flags().Changed("started") {
		payload["is_started"] = testrail.Bool(milestonesUpdateStarted)
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	milestone, err := app.Client.UpdateMilestone(cmd.Context(), id, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(milestone)
}

func runMilestonesDelete(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("milestone", args[0])
	if err != nil {
		return err
	}
	if err := app.Client.DeleteMilestone(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted milestone %d\n", id)
	return nil
}
