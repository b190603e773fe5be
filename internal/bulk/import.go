// Package bulk implements the CSV import and export engine: parsing
// sheets into case groups, mapping generic columns onto remote
// fields, resolving section paths and reconciling every group against
// the server as an update or a create.
package bulk

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"railctl/internal/testrail"
)

// API is the remote surface the engine needs. *testrail.Client
// satisfies it.
type API interface {
	GetCase(ctx context.Context, caseID int) (*testrail.Case, error)
	GetCases(ctx context.Context, projectID, suiteID int, filters url.Values) ([]testrail.Case, error)
	AddCase(ctx context.Context, sectionID int, payload testrail.Fields) (*testrail.Case, error)
	UpdateCase(ctx context.Context, caseID int, payload testrail.Fields) (*testrail.Case, error)
	GetSections(ctx context.Context, projectID, suiteID int) ([]testrail.Section, error)
	AddSection(ctx context.Context, projectID int, payload testrail.Fields) (*testrail.Section, error)
}

// ImportOptions configures one import run.
type ImportOptions struct {
	ProjectID             int
	SuiteID               int
	TemplateID            int
	StepsField            string
	MappingPath           string
	CreateMissingSections bool
	DryRun                bool
	Strict                bool
	Progress              bool
}

type preparedGroup struct {
	group   *Group
	payload testrail.Fields
	err     error
}

// Import reconciles the CSV file at path against the server. Groups
// are processed in source order and one group's failure never blocks
// the next; there are no retries, a failed group is reported and the
// run moves on. Malformed input fails before the first remote call.
// In strict mode any validation defect aborts the whole run; with
// DryRun set the run validates, counts intended actions and performs
// no remote calls at all.
func Import(ctx context.Context, api API, path string, opts ImportOptions) (*Result, error) {
	if opts.StepsField == "" {
		opts.StepsField = StepsSeparated
	}
	if !ValidStepsField(opts.StepsField) {
		return nil, fmt.Errorf("unsupported steps field %q (choose from %s)",
			opts.StepsField, strings.Join(StepsFields, ", "))
	}

	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	mapping, err := LoadMapping(opts.MappingPath, opts.TemplateID)
	if err != nil {
		return nil, err
	}

	groups := GroupRows(doc)
	items := make([]preparedGroup, len(groups))
	for i, g := range groups {
		items[i] = preparedGroup{group: g, err: g.Err}
		if items[i].err != nil {
			continue
		}
		payload, err := buildPayload(g, mapping, opts.StepsField)
		if err != nil {
			items[i].err = err
			continue
		}
		if g.CaseID == 0 && strings.TrimSpace(g.Section) == "" {
			items[i].err = fmt.Errorf("section is required for a new case")
			continue
		}
		if opts.TemplateID > 0 && !payload.Has("template_id") {
			payload["template_id"] = testrail.Int(opts.TemplateID)
		}
		items[i].payload = payload
	}

	if opts.Strict {
		for _, it := range items {
			if it.err != nil {
				return nil, fmt.Errorf("strict: %s (%s): %w", it.group.Key(), it.group.RowRange(), it.err)
			}
		}
	}

	result := &Result{DryRun: opts.DryRun}
	var resolver *Resolver
	if !opts.DryRun {
		resolver = NewResolver(api, opts.ProjectID, opts.SuiteID, opts.CreateMissingSections)
	}

	tty := isatty(os.Stdout)
	for i, it := range items {
		g := it.group
		if opts.Progress && tty {
			fmt.Fprintf(os.Stderr, "\rImporting group %d/%d...", i+1, len(items))
		}

		action, err := "", it.err
		if err == nil {
			action, err = importGroup(ctx, resolver, g, it.payload, opts, api)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, GroupError{Key: g.Key(), RowRange: g.RowRange(), Err: err})
			if !tty && !opts.DryRun {
				fmt.Fprintf(os.Stderr, "%s: error: %v\n", g.Key(), err)
			}
			continue
		}
		switch action {
		case "created":
			result.Created++
		case "updated":
			result.Updated++
		}
		if !tty && !opts.DryRun {
			fmt.Fprintf(os.Stderr, "%s: %s\n", g.Key(), action)
		}
	}
	if opts.Progress && tty {
		fmt.Fprintf(os.Stderr, "\r\033[K")
	}
	return result, nil
}

// importGroup lands one prepared group. Updates are a full overwrite
// of the mapped fields and the complete step sequence; a non-empty
// section cell moves the case to the resolved section.
func importGroup(ctx context.Context, resolver *Resolver, g *Group, payload testrail.Fields, opts ImportOptions, api API) (string, error) {
	sectionID := 0
	if strings.TrimSpace(g.Section) != "" && resolver != nil {
		id, err := resolver.Resolve(ctx, g.Section)
		if err != nil {
			return "", err
		}
		sectionID = id
	}

	if opts.DryRun {
		if g.CaseID > 0 {
			return "updated", nil
		}
		return "created", nil
	}

	if g.CaseID > 0 {
		if sectionID > 0 {
			payload["section_id"] = testrail.Int(sectionID)
		}
		if _, err := api.UpdateCase(ctx, g.CaseID, payload); err != nil {
			return "", err
		}
		return "updated", nil
	}

	if _, err := api.AddCase(ctx, sectionID, payload); err != nil {
		return "", err
	}
	return "created", nil
}
