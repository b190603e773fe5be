package testrail

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Step is one entry of a custom_steps_separated field.
type Step struct {
	Content  string `json:"content"`
	Expected string `json:"expected"`
}

// Project is a remote project record.
type Project struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Announcement     string `json:"announcement"`
	ShowAnnouncement bool   `json:"show_announcement"`
	SuiteMode        int    `json:"suite_mode"`
	IsCompleted      bool   `json:"is_completed"`
	CompletedOn      int64  `json:"completed_on"`
	URL              string `json:"url"`
}

// Suite is a remote test-suite record.
type Suite struct {
	ID          int    `json:"id"`
	ProjectID   int    `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsMaster    bool   `json:"is_master"`
	IsBaseline  bool   `json:"is_baseline"`
	IsCompleted bool   `json:"is_completed"`
	URL         string `json:"url"`
}

// Section is a node of the per-suite section tree. ParentID is zero for
// root sections (the API sends null).
type Section struct {
	ID           int    `json:"id"`
	SuiteID      int    `json:"suite_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ParentID     int    `json:"parent_id"`
	Depth        int    `json:"depth"`
	DisplayOrder int    `json:"display_order"`
}

// Case is a remote test-case record. Custom template fields arrive
// inline with a custom_ prefix and are collected into Custom verbatim.
type Case struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	SectionID   int    `json:"section_id"`
	SuiteID     int    `json:"suite_id"`
	TemplateID  int    `json:"template_id"`
	TypeID      int    `json:"type_id"`
	PriorityID  int    `json:"priority_id"`
	MilestoneID int    `json:"milestone_id"`
	Refs        string `json:"refs"`
	Estimate    string `json:"estimate"`
	CreatedBy   int    `json:"created_by"`
	CreatedOn   int64  `json:"created_on"`
	UpdatedBy   int    `json:"updated_by"`
	UpdatedOn   int64  `json:"updated_on"`
	Custom      Fields `json:"-"`
}

func (c *Case) UnmarshalJSON(data []byte) error {
	type plain Case
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key, raw := range all {
		if strings.HasPrefix(key, "custom_") {
			if p.Custom == nil {
				p.Custom = Fields{}
			}
			p.Custom[key] = Raw(raw)
		}
	}
	*c = Case(p)
	return nil
}

// MarshalJSON inlines Custom back into the object so a fetched case
// re-encodes with its template fields visible.
func (c Case) MarshalJSON() ([]byte, error) {
	type plain Case
	data, err := json.Marshal(plain(c))
	if err != nil || len(c.Custom) == 0 {
		return data, err
	}
	keys := make([]string, 0, len(c.Custom))
	for key := range c.Custom {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, key := range keys {
		name, _ := json.Marshal(key)
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(c.Custom[key].JSON())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Run is a remote test-run record.
type Run struct {
	ID            int    `json:"id"`
	ProjectID     int    `json:"project_id"`
	SuiteID       int    `json:"suite_id"`
	PlanID        int    `json:"plan_id"`
	MilestoneID   int    `json:"milestone_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	IncludeAll    bool   `json:"include_all"`
	IsCompleted   bool   `json:"is_completed"`
	CompletedOn   int64  `json:"completed_on"`
	PassedCount   int    `json:"passed_count"`
	FailedCount   int    `json:"failed_count"`
	BlockedCount  int    `json:"blocked_count"`
	RetestCount   int    `json:"retest_count"`
	UntestedCount int    `json:"untested_count"`
	URL           string `json:"url"`
}

// PlanEntry groups the runs a plan spawned for one suite.
type PlanEntry struct {
	ID      string `json:"id"`
	SuiteID int    `json:"suite_id"`
	Name    string `json:"name"`
	Runs    []Run  `json:"runs"`
}

// Plan is a remote test-plan record.
type Plan struct {
	ID          int         `json:"id"`
	ProjectID   int         `json:"project_id"`
	MilestoneID int         `json:"milestone_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	IsCompleted bool        `json:"is_completed"`
	CompletedOn int64       `json:"completed_on"`
	Entries     []PlanEntry `json:"entries"`
	URL         string      `json:"url"`
}

// Test is one case instance inside a run.
type Test struct {
	ID         int    `json:"id"`
	CaseID     int    `json:"case_id"`
	RunID      int    `json:"run_id"`
	StatusID   int    `json:"status_id"`
	Title      string `json:"title"`
	TemplateID int    `json:"template_id"`
	TypeID     int    `json:"type_id"`
	PriorityID int    `json:"priority_id"`
	Refs       string `json:"refs"`
	Estimate   string `json:"estimate"`
}

// Result is one recorded outcome for a test.
type Result struct {
	ID           int    `json:"id"`
	TestID       int    `json:"test_id"`
	StatusID     int    `json:"status_id"`
	CreatedBy    int    `json:"created_by"`
	CreatedOn    int64  `json:"created_on"`
	AssignedtoID int    `json:"assignedto_id"`
	Comment      string `json:"comment"`
	Version      string `json:"version"`
	Elapsed      string `json:"elapsed"`
	Defects      string `json:"defects"`
}

// Milestone is a remote milestone record.
type Milestone struct {
	ID          int    `json:"id"`
	ProjectID   int    `json:"project_id"`
	ParentID    int    `json:"parent_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DueOn       int64  `json:"due_on"`
	StartOn     int64  `json:"start_on"`
	IsCompleted bool   `json:"is_completed"`
	IsStarted   bool   `json:"is_started"`
	URL         string `json:"url"`
}

// User is a remote user record.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Status is one of the configured result statuses.
type Status struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	IsFinal  bool   `json:"is_final"`
	IsSystem bool   `json:"is_system"`
}

// Priority is one of the configured case priorities.
type Priority struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	IsDefault bool   `json:"is_default"`
	Priority  int    `json:"priority"`
}

// CaseType is one of the configured case types.
type CaseType struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// Template is a remote case template (field layout) record.
type Template struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// FieldDef describes one configured custom field (case or result side).
type FieldDef struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	SystemName  string `json:"system_name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	TypeID      int    `json:"type_id"`
	IsActive    bool   `json:"is_active"`
}

// Attachment is a stored attachment record.
type Attachment struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	CreatedOn int64  `json:"created_on"`
	ProjectID int    `json:"project_id"`
	CaseID    int    `json:"case_id"`
	TestID    int    `json:"test_id"`
	ResultID  int    `json:"result_id"`
	UserID    int    `json:"user_id"`
}
