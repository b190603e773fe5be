package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/testrail"
)

var suitesCmd = &cobra.Command{
	Use:   "suites",
	Short: "Manage test suites",
}

var suitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the suites of a project",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runSuitesList),
}

var suitesGetCmd = &cobra.Command{
	Use:   "get <suite-id>",
	Short: "Show one suite",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runSuitesGet),
}

var suitesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a suite",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runSuitesAdd),
}

var suitesUpdateCmd = &cobra.Command{
	Use:   "update <suite-id>",
	Short: "Update a suite",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runSuitesUpdate),
}

var suitesDeleteCmd = &cobra.Command{
	Use:   "delete <suite-id>",
	Short: "Delete a suite and its cases",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runSuitesDelete),
}

var (
	suitesListProject int

	suitesAddProject     int
	suitesAddName        string
	suitesAddDescription string

	suitesUpdateName        string
	suitesUpdateDescription string
)

func init() {
	rootCmd.AddCommand(suitesCmd)
	suitesCmd.AddCommand(suitesListCmd)
	suitesCmd.AddCommand(suitesGetCmd)
	suitesCmd.AddCommand(suitesAddCmd)
	suitesCmd.AddCommand(suitesUpdateCmd)
	suitesCmd.AddCommand(suitesDeleteCmd)

	suitesListCmd.Flags().IntVar(&suitesListProject, "project", 0, "Project id")
	suitesListCmd.MarkFlagRequired("project")

	suitesAddCmd.Flags().IntVar(&suitesAddProject, "project", 0, "Project id")
	suitesAddCmd.Flags().StringVar(&suitesAddName, "name", "", "Suite name")
	suitesAddCmd.Flags().StringVar(&suitesAddDescription, "description", "", "Suite description")
	suitesAddCmd.MarkFlagRequired("project")
	suitesAddCmd.MarkFlagRequired("name")

	suitesUpdateCmd.Flags().StringVar(&suitesUpdateName, "name", "", "Suite name")
	suitesUpdateCmd.Flags().StringVar(&suitesUpdateDescription, "description", "", "Suite description")
}

func runSuitesList(app *appctx.App, cmd *cobra.Command, args []string) error {
	suites, err := app.Client.GetSuites(cmd.Context(), suitesListProject)
	if err != nil {
		return err
	}
	return app.Out.Render(suites)
}

func runSuitesGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("suite", args[0])
	if err != nil {
		return err
	}
	suite, err := app.Client.GetSuite(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(suite)
}

func runSuitesAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	payload := testrail.Fields{"name": testrail.String(suitesAddName)}
	if suitesAddDescription != "" {
		payload["description"] = testrail.String(suitesAddDescription)
	}
	suite, err := app.Client.AddSuite(cmd.Context(), suitesAddProject, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(suite)
}

func runSuitesUpdate(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("suite", args[0])
	if err != nil {
		return err
	}
	payload := testrail.Fields{}
	if cmd.Flags().Changed("name") {
		payload["name"] = testrail.String(suitesUpdateName)
	}
	if cmd.Flags().Changed("description") {
		payload["description"] = testrail.String(suitesUpdateDescription)
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	suite, err := app.Client.UpdateSuite(cmd.Context(), id, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(suite)
}

func runSuitesDelete(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("suite", args[0])
	if err != nil {
		return err
	}
	if err := app.Client.DeleteSuite(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted suite %d\n", id)
	return nil
}
