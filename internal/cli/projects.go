package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/testrail"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long: `Lists all projects visible to the authenticated account.

Examples:
  railctl projects list                 # All projects as a table
  railctl projects list --active        # Only open projects
  railctl projects list -o json         # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: appctx.WithApp(appctx.DefaultOptions(), runProjectsList),
}

var projectsGetCmd = &cobra.Command{
	Use:   "get <project-id>",
	Short: "Show one project",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runProjectsGet),
}

var projectsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a project",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runProjectsAdd),
}

var projectsUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Update a project",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runProjectsUpdate),
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runProjectsDelete),
}

var (
	projectsListCompleted bool
	projectsListActive    bool

	projectsAddName             string
	projectsAddAnnouncement     string
	projectsAddShowAnnouncement bool
	projectsAddSuiteMode        int

	projectsUpdateName             string
	projectsUpdateAnnouncement     string
	projectsUpdateShowAnnouncement bool
	projectsUpdateCompleted        bool
)

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsGetCmd)
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsUpdateCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)

	projectsListCmd.Flags().BoolVar(&projectsListCompleted, "completed", false, "Only completed projects")
	projectsListCmd.Flags().BoolVar(&projectsListActive, "active", false, "Only active projects")

	projectsAddCmd.Flags().StringVar(&projectsAddName, "name", "", "Project name")
	projectsAddCmd.Flags().StringVar(&projectsAddAnnouncement, "announcement", "", "Announcement text")
	projectsAddCmd.Flags().BoolVar(&projectsAddShowAnnouncement, "show-announcement", false, "Show the announcement on the overview page")
	projectsAddCmd.Flags().IntVar(&projectsAddSuiteMode, "suite-mode", 0, "Suite mode: 1=single, 2=single+baselines, 3=multiple")
	projectsAddCmd.MarkFlagRequired("name")

	projectsUpdateCmd.Flags().StringVar(&projectsUpdateName, "name", "", "Project name")
	projectsUpdateCmd.Flags().StringVar(&projectsUpdateAnnouncement, "announcement", "", "Announcement text")
	projectsUpdateCmd.Flags().BoolVar(&projectsUpdateShowAnnouncement, "show-announcement", false, "Show the announcement on the overview page")
	projectsUpdateCmd.Flags().BoolVar(&projectsUpdateCompleted, "completed", false, "Mark the project completed")
}

func runProjectsList(app *appctx.App, cmd *cobra.Command, args []string) error {
	params := url.Values{}
	if projectsListCompleted {
		params.Set("is_completed", "1")
	}
	if projectsListActive {
		params.Set("is_completed", "0")
	}
	projects, err := app.Client.GetProjects(cmd.Context(), params)
	if err != nil {
		return err
	}
	return app.Out.Render(projects)
}

func runProjectsGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("project", args[0])
	if err != nil {
		return err
	}
	project, err := app.Client.GetProject(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(project)
}

func runProjectsAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	payload := testrail.Fields{"name": testrail.String(projectsAddName)}
	if projectsAddAnnouncement != "" {
		payload["announcement"] = testrail.String(projectsAddAnnouncement)
	}
	if cmd.Flags().Changed("show-announcement") {
		payload["show_announcement"] = testrail.Bool(projectsAddShowAnnouncement)
	}
	if projectsAddSuiteMode > 0 {
		payload["suite_mode"] = testrail.Int(projectsAddSuiteMode)
	}
	project, err := app.Client.AddProject(cmd.Context(), payload)
	if err != nil {
		return err
	}
	return app.Out.Render(project)
}

func runProjectsUpdate(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("project", args[0])
	if err != nil {
		return err
	}
	payload := testrail.Fields{}
	if cmd.Flags().Changed("name") {
		payload["name"] = testrail.String(projectsUpdateName)
	}
	if cmd.Flags().Changed("announcement") {
		payload["announcement"] = testrail.String(projectsUpdateAnnouncement)
	}
	if cmd.Flags().Changed("show-announcement") {
		payload["show_announcement"] = testrail.Bool(projectsUpdateShowAnnouncement)
	}
	if cmd.Flags().Changed("completed") {
		payload["is_completed"] = testrail.Bool(projectsUpdateCompleted)
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	project, err := app.Client.UpdateProject(cmd.Context(), id, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(project)
}

func runProjectsDelete(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("project", args[0])
	if err != nil {
		return err
	}
	if err := app.Client.DeleteProject(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %d\n", id)
	return nil
}
