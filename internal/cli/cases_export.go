package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"railctl/internal/bulk"
	"railctl/internal/cli/appctx"
	"railctl/internal/parse"
	"railctl/internal/paths"
)

var casesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cases to an import-ready CSV file",
	Long: `Writes cases as CSV in the exact layout 'cases import' reads, so an
unmodified export re-imports as a clean no-op update. Case fields
repeat on every step row; a case without steps still gets one row.

Cases are picked either explicitly with --case-ids (order preserved) or
by filter flags. --section-path prunes the fetched set by slash path
and accepts * and ** globs; a bare path takes its whole subtree.

Examples:
  railctl cases export --project 1 --suite 3 --file cases.csv
  railctl cases export --project 1 --case-ids 301,302,310
  railctl cases export --project 1 --section-path 'Checkout/**' --verify`,
	Args: cobra.NoArgs,
	RunE: appctx.WithApp(appctx.DefaultOptions(), runCasesExport),
}

var (
	casesExportFile        string
	casesExportProject     int
	casesExportSuite       int
	casesExportIDs         string
	casesExportSection     int
	casesExportSectionPath string
	casesExportPriority    string
	casesExportType        string
	casesExportTemplate    int
	casesExportStepsField  string
	casesExportMapping     string
	casesExportVerify      bool
)

func init() {
	casesCmd.AddCommand(casesExportCmd)

	casesExportCmd.Flags().StringVar(&casesExportFile, "file", "", "Destination file (default stdout)")
	casesExportCmd.Flags().IntVar(&casesExportProject, "project", 0, "Project id")
	casesExportCmd.Flags().IntVar(&casesExportSuite, "suite", 0, "Suite id (multi-suite projects)")
	casesExportCmd.Flags().StringVar(&casesExportIDs, "case-ids", "", "Explicit case ids (comma-separated, order preserved)")
	casesExportCmd.Flags().IntVar(&casesExportSection, "section", 0, "Only cases in this section id")
	casesExportCmd.Flags().StringVar(&casesExportSectionPath, "section-path", "", "Only cases under this slash path (supports * and **)")
	casesExportCmd.Flags().StringVar(&casesExportPriority, "priority", "", "Priority id filter (comma-separated)")
	casesExportCmd.Flags().StringVar(&casesExportType, "type", "", "Case type id filter (comma-separated)")
	casesExportCmd.Flags().IntVar(&casesExportTemplate, "template", 0, "Template id for mapping lookup")
	casesExportCmd.Flags().StringVar(&casesExportStepsField, "steps-field", "", "Steps source: custom_steps_separated (default), custom_steps, custom_gherkin")
	casesExportCmd.Flags().StringVar(&casesExportMapping, "mapping", "", "YAML or JSON file overriding generic column mappings")
	casesExportCmd.Flags().BoolVar(&casesExportVerify, "verify", false, "Re-parse the written bytes and diff them against the server records")
	casesExportCmd.MarkFlagRequired("project")
}

func runCasesExport(app *appctx.App, cmd *cobra.Command, args []string) error {
	ids, err := parse.ParseIDList(casesExportIDs)
	if err != nil {
		return fmt.Errorf("--case-ids: %w", err)
	}

	filters := url.Values{}
	setIDFilter(filters, "section_id", casesExportSection)
	if err := setIDListFilter(filters, "priority_id", casesExportPriority); err != nil {
		return err
	}
	if err := setIDListFilter(filters, "type_id", casesExportType); err != nil {
		return err
	}

	glob := casesExportSectionPath
	if glob != "" && !paths.IsGlobPattern(glob) {
		// A bare path selects its whole subtree.
		glob = paths.JoinPath(glob, "**")
	}

	opts := bulk.ExportOptions{
		ProjectID:   casesExportProject,
		SuiteID:     casesExportSuite,
		CaseIDs:     ids,
		Filters:     filters,
		SectionGlob: glob,
		TemplateID:  casesExportTemplate,
		StepsField:  casesExportStepsField,
		MappingPath: casesExportMapping,
		Verify:      casesExportVerify,
	}

	if casesExportFile == "" || casesExportFile == "-" {
		_, err := bulk.Export(cmd.Context(), app.Client, cmd.OutOrStdout(), opts)
		return err
	}

	f, err := os.Create(casesExportFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", casesExportFile, err)
	}
	n, err := bulk.Export(cmd.Context(), app.Client, f, opts)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", casesExportFile, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cases to %s\n", n, casesExportFile)
	return nil
}
