package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/testrail"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Manage sections",
}

var sectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the section tree of a project",
	Long: `Lists the sections of a project in display order. Multi-suite
projects need --suite to pick the tree.

Examples:
  railctl sections list --project 1
  railctl sections list --project 1 --suite 3 --fields id,name,parent_id`,
	Args: cobra.NoArgs,
	RunE: appctx.WithApp(appctx.DefaultOptions(), runSectionsList),
}

var sectionsGetCmd = &cobra.Command{
	Use:   "get <section-id>",
	Short: "Show one section",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runSectionsGet),
}

var sectionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a section",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runSectionsAdd),
}

var sectionsUpdateCmd = &cobra.Command{
	Use:   "update <section-id>",
	Short: "Update a section",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runSectionsUpdate),
}

var sectionsDeleteCmd = &cobra.Command{
	Use:   "delete <section-id>",
	Short: "Delete a section, its subsections and their cases",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runSectionsDelete),
}

var (
	sectionsListProject int
	sectionsListSuite   int

	sectionsAddProject     int
	sectionsAddSuite       int
	sectionsAddParent      int
	sectionsAddName        string
	sectionsAddDescription string

	sectionsUpdateName        string
	sectionsUpdateDescription string
)

func init() {
	rootCmd.AddCommand(sectionsCmd)
	sectionsCmd.AddCommand(sectionsListCmd)
	sectionsCmd.AddCommand(sectionsGetCmd)
	sectionsCmd.AddCommand(sectionsAddCmd)
	sectionsCmd.AddCommand(sectionsUpdateCmd)
	sectionsCmd.AddCommand(sectionsDeleteCmd)

	sectionsListCmd.Flags().IntVar(&sectionsListProject, "project", 0, "Project id")
	sectionsListCmd.Flags().IntVar(&sectionsListSuite, "suite", 0, "Suite id (multi-suite projects)")
	sectionsListCmd.MarkFlagRequired("project")

	sectionsAddCmd.Flags().IntVar(&sectionsAddProject, "project", 0, "Project id")
	sectionsAddCmd.Flags().IntVar(&sectionsAddSuite, "suite", 0, "Suite id (multi-suite projects)")
	sectionsAddCmd.Flags().IntVar(&sectionsAddParent, "parent", 0, "Parent section id (omit for a root section)")
	sectionsAddCmd.Flags().StringVar(&sectionsAddName, "name", "", "Section name")
	sectionsAddCmd.Flags().StringVar(&sectionsAddDescription, "description", "", "Section description")
	sectionsAddCmd.MarkFlagRequired("project")
	sectionsAddCmd.MarkFlagRequired("name")

	sectionsUpdateCmd.Flags().StringVar(&sectionsUpdateName, "name", "", "Section name")
	sectionsUpdateCmd.Flags().StringVar(&sectionsUpdateDescription, "description", "", "Section description")
}

func runSectionsList(app *appctx.App, cmd *cobra.Command, args []string) error {
	sections, err := app.Client.GetSections(cmd.Context(), sectionsListProject, sectionsListSuite)
	if err != nil {
		return err
	}
	return app.Out.Render(sections)
}

func runSectionsGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("section", args[0])
	if err != nil {
		return err
	}
	section, err := app.Client.GetSection(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(section)
}

func runSectionsAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	payload := testrail.Fields{"name": testrail.String(sectionsAddName)}
	if sectionsAddSuite > 0 {
		payload["suite_id"] = testrail.Int(sectionsAddSuite)
	}
	if sectionsAddParent > 0 {
		payload["parent_id"] = testrail.Int(sectionsAddParent)
	}
	if sectionsAddDescription != "" {
		payload["description"] = testrail.String(sectionsAddDescription)
	}
	section, err := app.Client.AddSection(cmd.Context(), sectionsAddProject, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(section)
}

func runSectionsUpdate(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("section", args[0])
	if err != nil {
		return err
	}
	payload := testrail.Fields{}
	if cmd.Flags().Changed("name") {
		payload["name"] = testrail.String(sectionsUpdateName)
	}
	if cmd.Flags().Changed("description") {
		payload["description"] = testrail.String(sectionsUpdateDescription)
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	section, err := app.Client.UpdateSection(cmd.Context(), id, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(section)
}

func runSectionsDelete(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("section", args[0])
	if err != nil {
		return err
	}
	if err := app.Client.DeleteSection(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted section %d\n", id)
	return nil
}
