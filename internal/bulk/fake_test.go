package bulk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"railctl/internal/testrail"
)

// caseWrite records one AddCase or UpdateCase call in order.
type caseWrite struct {
	caseID    int // zero for a create
	sectionID int
	payload   testrail.Fields
}

// fakeAPI is a scriptable in-memory server for engine tests.
type fakeAPI struct {
	sections []testrail.Section
	cases    []testrail.Case
	nextID   int

	writes           []caseWrite
	sectionWrites    []testrail.Fields
	getSectionsCalls int
	getCasesCalls    int

	failOn map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1000, failOn: map[string]error{}}
}

func (f *fakeAPI) fail(key string, err error) {
	f.failOn[key] = err
}

func (f *fakeAPI) check(keys ...string) error {
	for _, k := range keys {
		if err, ok := f.failOn[k]; ok {
			return err
		}
	}
	return nil
}

func (f *fakeAPI) addSection(id, parentID int, name string) {
	f.sections = append(f.sections, testrail.Section{ID: id, ParentID: parentID, Name: name})
}

func (f *fakeAPI) addCase(c testrail.Case) {
	f.cases = append(f.cases, c)
}

func (f *fakeAPI) GetCase(ctx context.Context, caseID int) (*testrail.Case, error) {
	if err := f.check("GetCase", "GetCase:"+strconv.Itoa(caseID)); err != nil {
		return nil, err
	}
	for i := range f.cases {
		if f.cases[i].ID == caseID {
			return &f.cases[i], nil
		}
	}
	return nil, fmt.Errorf("case %d not found", caseID)
}

func (f *fakeAPI) GetCases(ctx context.Context, projectID, suiteID int, filters url.Values) ([]testrail.Case, error) {
	f.getCasesCalls++
	if err := f.check("GetCases"); err != nil {
		return nil, err
	}
	return f.cases, nil
}

func (f *fakeAPI) AddCase(ctx context.Context, sectionID int, payload testrail.Fields) (*testrail.Case, error) {
	if err := f.check("AddCase"); err != nil {
		return nil, err
	}
	f.writes = append(f.writes, caseWrite{sectionID: sectionID, payload: payload})
	f.nextID++
	title, _ := payload["title"].AsString()
	return &testrail.Case{ID: f.nextID, SectionID: sectionID, Title: title}, nil
}

func (f *fakeAPI) UpdateCase(ctx context.Context, caseID int, payload testrail.Fields) (*testrail.Case, error) {
	if err := f.check("UpdateCase", "UpdateCase:"+strconv.Itoa(caseID)); err != nil {
		return nil, err
	}
	f.writes = append(f.writes, caseWrite{caseID: caseID, payload: payload})
	title, _ := payload["title"].AsString()
	return &testrail.Case{ID: caseID, Title: title}, nil
}

func (f *fakeAPI) GetSections(ctx context.Context, projectID, suiteID int) ([]testrail.Section, error) {
	f.getSectionsCalls++
	if err := f.check("GetSections"); err != nil {
		return nil, err
	}
	return f.sections, nil
}

func (f *fakeAPI) AddSection(ctx context.Context, projectID int, payload testrail.Fields) (*testrail.Section, error) {
	name, _ := payload["name"].AsString()
	if err := f.check("AddSection", "AddSection:"+name); err != nil {
		return nil, err
	}
	f.sectionWrites = append(f.sectionWrites, payload)
	parentID := 0
	if v, ok := payload["parent_id"]; ok {
		parentID, _ = v.AsInt()
	}
	f.nextID++
	s := testrail.Section{ID: f.nextID, ParentID: parentID, Name: name}
	f.sections = append(f.sections, s)
	return &s, nil
}
