package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/testrail"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Manage test cases",
	Long: `Manage test cases: list, inspect and edit single cases, or move them
in bulk with 'cases import' and 'cases export'.`,
}

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cases of a project",
	Long: `Lists cases with optional server-side filters. List endpoints
auto-paginate, so large suites come back whole.

Examples:
  railctl cases list --project 1 --suite 3
  railctl cases list --project 1 --priority 3,4 --created-after 2026-01-01
  railctl cases list --project 1 --fields id,title,priority_id -o json`,
	Args: cobra.NoArgs,
	RunE: appctx.WithApp(appctx.DefaultOptions(), runCasesList),
}

var casesGetCmd = &cobra.Command{
	Use:   "get <case-id>",
	Short: "Show one case with its custom fields",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runCasesGet),
}

var casesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a case",
	Long: `Creates a case in a section. Beyond the typed flags, any field the
template accepts can be set with repeated --field flags; values that
parse as JSON keep their type.

Examples:
  railctl cases add --section 12 --title "Login happy path" --priority 2
  railctl cases add --section 12 --title "Exploratory tour" \
      --template 3 --field custom_mission="Probe the checkout flow"`,
	Args: cobra.NoArgs,
	RunE: appctx.WithApp(appctx.DefaultOptions(), runCasesAdd),
}

var casesUpdateCmd = &cobra.Command{
	Use:   "update <case-id>",
	Short: "Update fields of a case",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runCasesUpdate),
}

var casesDeleteCmd = &cobra.Command{
	Use:   "delete <case-id>",
	Short: "Delete a case",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runCasesDelete),
}

var (
	casesListProject       int
	casesListSuite         int
	casesListSection       int
	casesListPriority      string
	casesListType          string
	casesListMilestone     string
	casesListCreatedAfter  string
	casesListCreatedBefore string

	casesAddSection   int
	casesAddTitle     string
	casesAddTemplate  int
	casesAddType      int
	casesAddPriority  int
	casesAddMilestone int
	casesAddEstimate  string
	casesAddRefs      string
	casesAddFields    []string

	casesUpdateTitle     string
	casesUpdateSection   int
	casesUpdateTemplate  int
	casesUpdateType      int
	casesUpdatePriority  int
	casesUpdateMilestone int
	casesUpdateEstimate  string
	casesUpdateRefs      string
	casesUpdateFields    []string
)

func init() {
	rootCmd.AddCommand(casesCmd)
	casesCmd.AddCommand(casesListCmd)
	casesCmd.AddCommand(casesGetCmd)
	casesCmd.AddCommand(casesAddCmd)
	casesCmd.AddCommand(casesUpdateCmd)
	casesCmd.AddCommand(casesDeleteCmd)

	casesListCmd.Flags().IntVar(&casesListProject, "project", 0, "Project id")
	casesListCmd.Flags().IntVar(&casesListSuite, "suite", 0, "Suite id (multi-suite projects)")
	casesListCmd.Flags().IntVar(&casesListSection, "section", 0, "Only cases in this section")
	casesListCmd.Flags().StringVar(&casesListPriority, "priority", "", "Priority id filter (comma-separated)")
	casesListCmd.Flags().StringVar(&casesListType, "type", "", "Case type id filter (comma-separated)")
	casesListCmd.Flags().StringVar(&casesListMilestone, "milestone", "", "Milestone id filter (comma-separated)")
	casesListCmd.Flags().StringVar(&casesListCreatedAfter, "created-after", "", "Only cases created after (ISO-8601 or epoch seconds)")
	casesListCmd.Flags().StringVar(&casesListCreatedBefore, "created-before", "", "Only cases created before (ISO-8601 or epoch seconds)")
	casesListCmd.MarkFlagRequired("project")

	casesAddCmd.Flags().IntVar(&casesAddSection, "section", 0, "Section id to create the case in")
	casesAddCmd.Flags().StringVar(&casesAddTitle, "title", "", "Case title")
	casesAddCmd.Flags().IntVar(&casesAddTemplate, "template", 0, "Template id")
	casesAddCmd.Flags().IntVar(&casesAddType, "type", 0, "Case type id")
	casesAddCmd.Flags().IntVar(&casesAddPriority, "priority", 0, "Priority id")
	casesAddCmd.Flags().IntVar(&casesAddMilestone, "milestone", 0, "Milestone id")
	casesAddCmd.Flags().StringVar(&casesAddEstimate, "estimate", "", "Estimate, e.g. 30s or 2m 30s")
	casesAddCmd.Flags().StringVar(&casesAddRefs, "refs", "", "References (comma-separated)")
	casesAddCmd.Flags().StringArrayVar(&casesAddFields, "field", nil, "Extra field as key=value (repeatable)")
	casesAddCmd.MarkFlagRequired("section")
	casesAddCmd.MarkFlagRequired("title")

	casesUpdateCmd.Flags().StringVar(&casesUpdateTitle, "title", "", "Case title")
	casesUpdateCmd.Flags().IntVar(&casesUpdateSection, "section", 0, "Move the case to this section")
	casesUpdateCmd.Flags().IntVar(&casesUpdateTemplate, "template", 0, "Template id")
	casesUpdateCmd.Flags().IntVar(&casesUpdateType, "type", 0, "Case type id")
	casesUpdateCmd.Flags().IntVar(&casesUpdatePriority, "priority", 0, "Priority id")
	casesUpdateCmd.Flags().IntVar(&casesUpdateMilestone, "milestone", 0, "Milestone id")
	casesUpdateCmd.Flags().StringVar(&casesUpdateEstimate, "estimate", "", "Estimate, e.g. 30s or 2m 30s")
	casesUpdateCmd.Flags().StringVar(&casesUpdateRefs, "refs", "", "References (comma-separated)")
	casesUpdateCmd.Flags().StringArrayVar(&casesUpdateFields, "field", nil, "Extra field as key=value (repeatable)")
}

func runCasesList(app *appctx.App, cmd *cobra.Command, args []string) error {
	filters := url.Values{}
	setIDFilter(filters, "section_id", casesListSection)
	if err := setIDListFilter(filters, "priority_id", casesListPriority); err != nil {
		return err
	}
	if err := setIDListFilter(filters, "type_id", casesListType); err != nil {
		return err
	}
	if err := setIDListFilter(filters, "milestone_id", casesListMilestone); err != nil {
		return err
	}
	if err := setTimeFilter(filters, "created_after", casesListCreatedAfter); err != nil {
		return err
	}
	if err := setTimeFilter(filters, "created_before", casesListCreatedBefore); err != nil {
		return err
	}
	cases, err := app.Client.GetCases(cmd.Context(), casesListProject, casesListSuite, filters)
	if err != nil {
		return err
	}
	return app.Out.Render(cases)
}

func runCasesGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("case", args[0])
	if err != nil {
		return err
	}
	cs, err := app.Client.GetCase(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(cs)
}

func runCasesAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	payload := testrail.Fields{"title": testrail.String(casesAddTitle)}
	if casesAddTemplate > 0 {
		payload["template_id"] = testrail.Int(casesAddTemplate)
	}
	if casesAddType > 0 {
		payload["type_id"] = testrail.Int(casesAddType)
	}
	if casesAddPriority > 0 {
		payload["priority_id"] = testrail.Int(casesAddPriority)
	}
	if casesAddMilestone > 0 {
		payload["milestone_id"] = testrail.Int(casesAddMilestone)
	}
	if casesAddEstimate != "" {
		payload["estimate"] = testrail.String(casesAddEstimate)
	}
	if casesAddRefs != "" {
		payload["refs"] = testrail.String(casesAddRefs)
	}
	if err := applyFieldFlags(payload, casesAddFields); err != nil {
		return err
	}
	cs, err := app.Client.AddCase(cmd.Context(), casesAddSection, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(cs)
}

func runCasesUpdate(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("case", args[0])
	if err != nil {
		return err
	}
	payload := testrail.Fields{}
	if cmd.Flags().Changed("title") {
		payload["title"] = testrail.String(casesUpdateTitle)
	}
	if casesUpdateSection > 0 {
		payload["section_id"] = testrail.Int(casesUpdateSection)
	}
	if casesUpdateTemplate > 0 {
		payload["template_id"] = testrail.Int(casesUpdateTemplate)
	}
	if casesUpdateType > 0 {
		payload["type_id"] = testrail.Int(casesUpdateType)
	}
	if casesUpdatePriority > 0 {
		payload["priority_id"] = testrail.Int(casesUpdatePriority)
	}
	if casesUpdateMilestone > 0 {
		payload["milestone_id"] = testrail.Int(casesUpdateMilestone)
	}
	if cmd.Flags().Changed("estimate") {
		payload["estimate"] = testrail.String(casesUpdateEstimate)
	}
	if cmd.Flags().Changed("refs") {
		payload["refs"] = testrail.String(casesUpdateRefs)
	}
	if err := applyFieldFlags(payload, casesUpdateFields); err != nil {
		return err
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	cs, err := app.Client.UpdateCase(cmd.Context(), id, payload)
	if err != nil {
		return err
	}
	return app.Out.Render(cs)
}

func runCasesDelete(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("case", args[0])
	if err != nil {
		return err
	}
	if err := app.Client.DeleteCase(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted case %d\n", id)
	return nil
}
