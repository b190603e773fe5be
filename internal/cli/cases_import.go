package cli

import (
	"os"

	"github.com/spf13/cobra"

	"railctl/internal/bulk"
	"railctl/internal/cli/appctx"
)

var casesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import cases from a CSV file",
	Long: `Reads a CSV file, groups its rows into cases and reconciles them
against the server: rows with a case_id update that case, rows without
one create a new case. Adjacent rows sharing a blank case_id, title and
section form one multi-step case. Groups fail independently; the
summary lists each failed group with its row range.

The file must have a case_id column (it may be entirely empty). Section
paths are slash-separated; missing sections fail the group unless
--create-missing-sections is set. Generic columns (mission, goals,
preconds) map to the template's custom fields, extendable per template
with a --mapping file.

Exit codes: 0 all groups landed, 5 some failed, 1 all failed.

Examples:
  railctl cases import --file cases.csv --project 1 --suite 3
  railctl cases import --file cases.csv --project 1 --dry-run
  railctl cases import --file cases.csv --project 1 --template 2 \
      --steps-field custom_steps --mapping fields.yaml --strict`,
	Args: cobra.NoArgs,
	RunE: appctx.WithApp(appctx.DefaultOptions(), runCasesImport),
}

var (
	casesImportFile           string
	casesImportProject        int
	casesImportSuite          int
	casesImportTemplate       int
	casesImportStepsField     string
	casesImportMapping        string
	casesImportCreateSections bool
	casesImportDryRun         bool
	casesImportStrict         bool
)

func init() {
	casesCmd.AddCommand(casesImportCmd)

	casesImportCmd.Flags().StringVar(&casesImportFile, "file", "", "CSV file to import")
	casesImportCmd.Flags().IntVar(&casesImportProject, "project", 0, "Project id")
	casesImportCmd.Flags().IntVar(&casesImportSuite, "suite", 0, "Suite id (multi-suite projects)")
	casesImportCmd.Flags().IntVar(&casesImportTemplate, "template", 0, "Template id applied to created cases and mapping lookup")
	casesImportCmd.Flags().StringVar(&casesImportStepsField, "steps-field", "", "Steps destination: custom_steps_separated (default), custom_steps, custom_gherkin")
	casesImportCmd.Flags().StringVar(&casesImportMapping, "mapping", "", "YAML or JSON file overriding generic column mappings")
	casesImportCmd.Flags().BoolVar(&casesImportCreateSections, "create-missing-sections", false, "Create missing section path segments, parents first")
	casesImportCmd.Flags().BoolVar(&casesImportDryRun, "dry-run", false, "Validate and plan without any remote call")
	casesImportCmd.Flags().BoolVar(&casesImportStrict, "strict", false, "Abort the whole run on the first validation defect")
	casesImportCmd.MarkFlagRequired("file")
	casesImportCmd.MarkFlagRequired("project")
}

func runCasesImport(app *appctx.App, cmd *cobra.Command, args []string) error {
	result, err := bulk.Import(cmd.Context(), app.Client, casesImportFile, bulk.ImportOptions{
		ProjectID:             casesImportProject,
		SuiteID:               casesImportSuite,
		TemplateID:            casesImportTemplate,
		StepsField:            casesImportStepsField,
		MappingPath:           casesImportMapping,
		CreateMissingSections: casesImportCreateSections,
		DryRun:                casesImportDryRun,
		Strict:                casesImportStrict,
		Progress:              true,
	})
	if err != nil {
		return err
	}

	result.PrintSummary(cmd.OutOrStdout())

	if code := result.ExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}
