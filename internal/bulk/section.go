package bulk

import (
	"context"
	"fmt"

	"railctl/internal/paths"
	"railctl/internal/testrail"
)

// Resolver maps slash-separated section paths to remote section ids.
// The lookup cache lives exactly as long as the resolver, and a run
// builds exactly one, so sections created or renamed by other users
// are picked up on the next run.
type Resolver struct {
	api       API
	projectID int
	suiteID   int
	create    bool

	loaded   bool
	children map[string]int // parent id + normalized name -> section id
	resolved map[string]int // full path -> section id
}

// NewResolver returns a resolver for one project and suite. With
// create false a missing segment is an error; with create true missing
// segments are created parent-first.
func NewResolver(api API, projectID, suiteID int, create bool) *Resolver {
	return &Resolver{
		api:       api,
		projectID: projectID,
		suiteID:   suiteID,
		create:    create,
		children:  make(map[string]int),
		resolved:  make(map[string]int),
	}
}

func childKey(parentID int, name string) string {
	return fmt.Sprintf("%d/%s", parentID, paths.Normalize(name))
}

func (r *Resolver) load(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	sections, err := r.api.GetSections(ctx, r.projectID, r.suiteID)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	for _, s := range sections {
		r.children[childKey(s.ParentID, s.Name)] = s.ID
	}
	r.loaded = true
	return nil
}

// Resolve returns the section id for path. Segments resolve root-down;
// when creation is enabled a missing segment is created before its
// children are looked at, and a create failure midway aborts the walk
// with the sections created so far left standing.
func (r *Resolver) Resolve(ctx context.Context, path string) (int, error) {
	segments := paths.SplitPath(path)
	if len(segments) == 0 {
		return 0, fmt.Errorf("empty section path")
	}
	full := paths.JoinPath(segments...)
	if id, ok := r.resolved[full]; ok {
		return id, nil
	}
	if err := r.load(ctx); err != nil {
		return 0, err
	}

	parentID := 0
	for _, segment := range segments {
		id, ok := r.children[childKey(parentID, segment)]
		if !ok {
			if !r.create {
				return 0, &SectionNotFoundError{Segment: segment, Path: path}
			}
			created, err := r.createSection(ctx, parentID, segment)
			if err != nil {
				return 0, err
			}
			id = created
		}
		parentID = id
	}
	r.resolved[full] = parentID
	return parentID, nil
}

func (r *Resolver) createSection(ctx context.Context, parentID int, name string) (int, error) {
	payload := testrail.Fields{"name": testrail.String(name)}
	if r.suiteID > 0 {
		payload["suite_id"] = testrail.Int(r.suiteID)
	}
	if parentID > 0 {
		payload["parent_id"] = testrail.Int(parentID)
	}
	created, err := r.api.AddSection(ctx, r.projectID, payload)
	if err != nil {
		return 0, fmt.Errorf("create section %q: %w", name, err)
	}
	r.children[childKey(parentID, name)] = created.ID
	return created.ID, nil
}

// SectionPaths maps every section id to its full slash path, for
// export. A broken parent chain falls back to the section's own name.
func SectionPaths(sections []testrail.Section) map[int]string {
	byID := make(map[int]testrail.Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}

	built := make(map[int]string, len(sections))
	visiting := make(map[int]bool)
	var build func(id int) string
	build = func(id int) string {
		if p, ok := built[id]; ok {
			return p
		}
		s, ok := byID[id]
		if !ok {
			return ""
		}
		p := s.Name
		if s.ParentID > 0 && !visiting[id] {
			visiting[id] = true
			if parent := build(s.ParentID); parent != "" {
				p = paths.JoinPath(parent, s.Name)
			}
			delete(visiting, id)
		}
		built[id] = p
		return p
	}
	for _, s := range sections {
		build(s.ID)
	}
	return built
}
