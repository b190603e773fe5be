package cli

import (
	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
)

// Catalog lookups: the configured statuses, priorities, case types,
// templates and field definitions. All read-only.

var statusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "Result statuses",
}

var statusesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured result statuses",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runStatusesList),
}

var prioritiesCmd = &cobra.Command{
	Use:   "priorities",
	Short: "Case priorities",
}

var prioritiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured case priorities",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPrioritiesList),
}

var caseTypesCmd = &cobra.Command{
	Use:   "case-types",
	Short: "Case types",
}

var caseTypesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured case types",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runCaseTypesList),
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Case templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the templates of a project",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runTemplatesList),
}

var caseFieldsCmd = &cobra.Command{
	Use:   "case-fields",
	Short: "Custom case field definitions",
}

var caseFieldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the custom case fields",
	Long: `Lists the configured custom case fields. The system_name column is
what a --mapping file maps generic columns onto.`,
	Args: cobra.NoArgs,
	RunE: appctx.WithApp(appctx.DefaultOptions(), runCaseFieldsList),
}

var resultFieldsCmd = &cobra.Command{
	Use:   "result-fields",
	Short: "Custom result field definitions",
}

var resultFieldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the custom result fields",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runResultFieldsList),
}

var templatesListProject int

func init() {
	rootCmd.AddCommand(statusesCmd)
	statusesCmd.AddCommand(statusesListCmd)
	rootCmd.AddCommand(prioritiesCmd)
	prioritiesCmd.AddCommand(prioritiesListCmd)
	rootCmd.AddCommand(caseTypesCmd)
	caseTypesCmd.AddCommand(caseTypesListCmd)
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd)
	rootCmd.AddCommand(caseFieldsCmd)
	caseFieldsCmd.AddCommand(caseFieldsListCmd)
	rootCmd.AddCommand(resultFieldsCmd)
	resultFieldsCmd.AddCommand(resultFieldsListCmd)

	templatesListCmd.Flags().IntVar(&templatesListProject, "project", 0, "Project id")
	templatesListCmd.MarkFlagRequired("project")
}

func runStatusesList(app *appctx.App, cmd *cobra.Command, args []string) error {
	statuses, err := app.Client.GetStatuses(cmd.Context())
	if err != nil {
		return err
	}
	return app.Out.Render(statuses)
}

func runPrioritiesList(app *appctx.App, cmd *cobra.Command, args []string) error {
	priorities, err := app.Client.GetPriorities(cmd.Context())
	if err != nil {
		return err
	}
	return app.Out.Render(priorities)
}

func runCaseTypesList(app *appctx.App, cmd *cobra.Command, args []string) error {
	types, err := app.Client.GetCaseTypes(cmd.Context())
	if err != nil {
		return err
	}
	return app.Out.Render(types)
}

func runTemplatesList(app *appctx.App, cmd *cobra.Command, args []string) error {
	templates, err := app.Client.GetTemplates(cmd.Context(), templatesListProject)
	if err != nil {
		return err
	}
	return app.Out.Render(templates)
}

func runCaseFieldsList(app *appctx.App, cmd *cobra.Command, args []string) error {
	fields, err := app.Client.GetCaseFields(cmd.Context())
	if err != nil {
		return err
	}
	return app.Out.Render(fields)
}

func runResultFieldsList(app *appctx.App, cmd *cobra.Command, args []string) error {
	fields, err := app.Client.GetResultFields(cmd.Context())
	if err != nil {
		return err
	}
	return app.Out.Render(fields)
}
