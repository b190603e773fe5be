package testrail

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// Projects

func (c *Client) GetProjects(ctx context.Context, filters url.Values) ([]Project, error) {
	var projects []Project
	err := c.getList(ctx, "get_projects", "projects", filters, &projects)
	return projects, err
}

func (c *Client) GetProject(ctx context.Context, projectID int) (*Project, error) {
	var p Project
	if err := c.get(ctx, fmt.Sprintf("get_project/%d", projectID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AddProject(ctx context.Context, payload Fields) (*Project, error) {
	var p Project
	if err := c.post(ctx, "add_project", payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProject(ctx context.Context, projectID int, payload Fields) (*Project, error) {
	var p Project
	if err := c.post(ctx, fmt.Sprintf("update_project/%d", projectID), payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID int) error {
	return c.post(ctx, fmt.Sprintf("delete_project/%d", projectID), nil, nil)
}

// Suites

func (c *Client) GetSuites(ctx context.Context, projectID int) ([]Suite, error) {
	var suites []Suite
	err := c.getList(ctx, fmt.Sprintf("get_suites/%d", projectID), "suites", nil, &suites)
	return suites, err
}

func (c *Client) GetSuite(ctx context.Context, suiteID int) (*Suite, error) {
	var s Suite
	if err := c.get(ctx, fmt.Sprintf("get_suite/%d", suiteID), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) AddSuite(ctx context.Context, projectID int, payload Fields) (*Suite, error) {
	var s Suite
	if err := c.post(ctx, fmt.Sprintf("add_suite/%d", projectID), payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateSuite(ctx context.Context, suiteID int, payload Fields) (*Suite, error) {
	var s Suite
	if err := c.post(ctx, fmt.Sprintf("update_suite/%d", suiteID), payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteSuite(ctx context.Context, suiteID int) error {
	return c.post(ctx, fmt.Sprintf("delete_suite/%d", suiteID), nil, nil)
}

// Sections

// GetSections lists the section tree of a project; suiteID is required
// unless the project runs in single-suite mode (pass 0 to omit it).
func (c *Client) GetSections(ctx context.Context, projectID, suiteID int) ([]Section, error) {
	params := url.Values{}
	if suiteID > 0 {
		params.Set("suite_id", strconv.Itoa(suiteID))
	}
	var sections []Section
	err := c.getList(ctx, fmt.Sprintf("get_sections/%d", projectID), "sections", params, &sections)
	return sections, err
}

func (c *Client) GetSection(ctx context.Context, sectionID int) (*Section, error) {
	var s Section
	if err := c.get(ctx, fmt.Sprintf("get_section/%d", sectionID), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) AddSection(ctx context.Context, projectID int, payload Fields) (*Section, error) {
	var s Section
	if err := c.post(ctx, fmt.Sprintf("add_section/%d", projectID), payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateSection(ctx context.Context, sectionID int, payload Fields) (*Section, error) {
	var s Section
	if err := c.post(ctx, fmt.Sprintf("update_section/%d", sectionID), payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteSection(ctx context.Context, sectionID int) error {
	return c.post(ctx, fmt.Sprintf("delete_section/%d", sectionID), nil, nil)
}

// Cases

func (c *Client) GetCases(ctx context.Context, projectID, suiteID int, filters url.Values) ([]Case, error) {
	params := url.Values{}
	for k, vs := range filters {
		params[k] = vs
	}
	if suiteID > 0 {
		params.Set("suite_id", strconv.Itoa(suiteID))
	}
	var cases []Case
	err := c.getList(ctx, fmt.Sprintf("get_cases/%d", projectID), "cases", params, &cases)
	return cases, err
}

func (c *Client) GetCase(ctx context.Context, caseID int) (*Case, error) {
	var cs Case
	if err := c.get(ctx, fmt.Sprintf("get_case/%d", caseID), nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (c *Client) AddCase(ctx context.Context, sectionID int, payload Fields) (*Case, error) {
	var cs Case
	if err := c.post(ctx, fmt.Sprintf("add_case/%d", sectionID), payload, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (c *Client) UpdateCase(ctx context.Context, caseID int, payload Fields) (*Case, error) {
	var cs Case
	if err := c.post(ctx, fmt.Sprintf("update_case/%d", caseID), payload, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (c *Client) DeleteCase(ctx context.Context, caseID int) error {
	return c.post(ctx, fmt.Sprintf("delete_case/%d", caseID), nil, nil)
}

// Runs

func (c *Client) GetRuns(ctx context.Context, projectID int, filters url.Values) ([]Run, error) {
	var runs []Run
	err := c.getList(ctx, fmt.Sprintf("get_runs/%d", projectID), "runs", filters, &runs)
	return runs, err
}

func (c *Client) GetRun(ctx context.Context, runID int) (*Run, error) {
	var r Run
	if err := c.get(ctx, fmt.Sprintf("get_run/%d", runID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) AddRun(ctx context.Context, projectID int, payload Fields) (*Run, error) {
	var r Run
	if err := c.post(ctx, fmt.Sprintf("add_run/%d", projectID), payload, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UpdateRun(ctx context.Context, runID int, payload Fields) (*Run, error) {
	var r Run
	if err := c.post(ctx, fmt.Sprintf("update_run/%d", runID), payload, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) CloseRun(ctx context.Context, runID int) (*Run, error) {
	var r Run
	if err := c.post(ctx, fmt.Sprintf("close_run/%d", runID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteRun(ctx context.Context, runID int) error {
	return c.post(ctx, fmt.Sprintf("delete_run/%d", runID), nil, nil)
}

// Plans

func (c *Client) GetPlans(ctx context.Context, projectID int, filters url.Values) ([]Plan, error) {
	var plans []Plan
	err := c.getList(ctx, fmt.Sprintf("get_plans/%d", projectID), "plans", filters, &plans)
	return plans, err
}

func (c *Client) GetPlan(ctx context.Context, planID int) (*Plan, error) {
	var p Plan
	if err := c.get(ctx, fmt.Sprintf("get_plan/%d", planID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AddPlan(ctx context.Context, projectID int, payload Fields) (*Plan, error) {
	var p Plan
	if err := c.post(ctx, fmt.Sprintf("add_plan/%d", projectID), payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePlan(ctx context.Context, planID int, payload Fields) (*Plan, error) {
	var p Plan
	if err := c.post(ctx, fmt.Sprintf("update_plan/%d", planID), payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ClosePlan(ctx context.Context, planID int) (*Plan, error) {
	var p Plan
	if err := c.post(ctx, fmt.Sprintf("close_plan/%d", planID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePlan(ctx context.Context, planID int) error {
	return c.post(ctx, fmt.Sprintf("delete_plan/%d", planID), nil, nil)
}

// Tests and results

func (c *Client) GetTests(ctx context.Context, runID int, filters url.Values) ([]Test, error) {
	var tests []Test
	err := c.getList(ctx, fmt.Sprintf("get_tests/%d", runID), "tests", filters, &tests)
	return tests, err
}

func (c *Client) GetTest(ctx context.Context, testID int) (*Test, error) {
	var t Test
	if err := c.get(ctx, fmt.Sprintf("get_test/%d", testID), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) GetResults(ctx context.Context, testID int, filters url.Values) ([]Result, error) {
	var results []Result
	err := c.getList(ctx, fmt.Sprintf("get_results/%d", testID), "results", filters, &results)
	return results, err
}

func (c *Client) GetResultsForRun(ctx context.Context, runID int, filters url.Values) ([]Result, error) {
	var results []Result
	err := c.getList(ctx, fmt.Sprintf("get_results_for_run/%d", runID), "results", filters, &results)
	return results, err
}

func (c *Client) GetResultsForCase(ctx context.Context, runID, caseID int, filters url.Values) ([]Result, error) {
	var results []Result
	err := c.getList(ctx, fmt.Sprintf("get_results_for_case/%d/%d", runID, caseID), "results", filters, &results)
	return results, err
}

func (c *Client) AddResult(ctx context.Context, testID int, payload Fields) (*Result, error) {
	var r Result
	if err := c.post(ctx, fmt.Sprintf("add_result/%d", testID), payload, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) AddResultForCase(ctx context.Context, runID, caseID int, payload Fields) (*Result, error) {
	var r Result
	if err := c.post(ctx, fmt.Sprintf("add_result_for_case/%d/%d", runID, caseID), payload, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Milestones

func (c *Client) GetMilestones(ctx context.Context, projectID int, filters url.Values) ([]Milestone, error) {
	var milestones []Milestone
	err := c.getList(ctx, fmt.Sprintf("get_milestones/%d", projectID), "milestones", filters, &milestones)
	return milestones, err
}

func (c *Client) GetMilestone(ctx context.Context, milestoneID int) (*Milestone, error) {
	var m Milestone
	if err := c.get(ctx, fmt.Sprintf("get_milestone/%d", milestoneID), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) AddMilestone(ctx context.Context, projectID int, payload Fields) (*Milestone, error) {
	var m Milestone
	if err := c.post(ctx, fmt.Sprintf("add_milestone/%d", projectID), payload, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateMilestone(ctx context.Context, milestoneID int, payload Fields) (*Milestone, error) {
	var m Milestone
	if err := c.post(ctx, fmt.Sprintf("update_milestone/%d", milestoneID), payload, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMilestone(ctx context.Context, milestoneID int) error {
	return c.post(ctx, fmt.Sprintf("delete_milestone/%d", milestoneID), nil, nil)
}

// Users and catalog lookups

func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := c.getList(ctx, "get_users", "users", nil, &users)
	return users, err
}

func (c *Client) GetUser(ctx context.Context, userID int) (*User, error) {
	var u User
	if err := c.get(ctx, fmt.Sprintf("get_user/%d", userID), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	params := url.Values{}
	params.Set("email", email)
	var u User
	if err := c.get(ctx, "get_user_by_email", params, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetStatuses(ctx context.Context) ([]Status, error) {
	var statuses []Status
	err := c.getList(ctx, "get_statuses", "statuses", nil, &statuses)
	return statuses, err
}

func (c *Client) GetPriorities(ctx context.Context) ([]Priority, error) {
	var priorities []Priority
	err := c.getList(ctx, "get_priorities", "priorities", nil, &priorities)
	return priorities, err
}

func (c *Client) GetCaseTypes(ctx context.Context) ([]CaseType, error) {
	var types []CaseType
	err := c.getList(ctx, "get_case_types", "case_types", nil, &types)
	return types, err
}

func (c *Client) GetTemplates(ctx context.Context, projectID int) ([]Template, error) {
	var templates []Template
	err := c.getList(ctx, fmt.Sprintf("get_templates/%d", projectID), "templates", nil, &templates)
	return templates, err
}

func (c *Client) GetCaseFields(ctx context.Context) ([]FieldDef, error) {
	var fields []FieldDef
	err := c.getList(ctx, "get_case_fields", "case_fields", nil, &fields)
	return fields, err
}

func (c *Client) GetResultFields(ctx context.Context) ([]FieldDef, error) {
	var fields []FieldDef
	err := c.getList(ctx, "get_result_fields", "result_fields", nil, &fields)
	return fields, err
}

// Attachments

func (c *Client) AddAttachmentToCase(ctx context.Context, caseID int, path string) (int, error) {
	return c.upload(ctx, fmt.Sprintf("add_attachment_to_case/%d", caseID), path)
}

func (c *Client) AddAttachmentToResult(ctx context.Context, resultID int, path string) (int, error) {
	return c.upload(ctx, fmt.Sprintf("add_attachment_to_result/%d", resultID), path)
}

func (c *Client) GetAttachmentsForCase(ctx context.Context, caseID int) ([]Attachment, error) {
	var attachments []Attachment
	err := c.getList(ctx, fmt.Sprintf("get_attachments_for_case/%d", caseID), "attachments", nil, &attachments)
	return attachments, err
}

func (c *Client) GetAttachmentsForTest(ctx context.Context, testID int) ([]Attachment, error) {
	var attachments []Attachment
	err := c.getList(ctx, fmt.Sprintf("get_attachments_for_test/%d", testID), "attachments", nil, &attachments)
	return attachments, err
}

// GetAttachment streams the stored attachment body to w.
func (c *Client) GetAttachment(ctx context.Context, attachmentID int, w io.Writer) error {
	data, err := c.do(ctx, "GET", fmt.Sprintf("get_attachment/%d", attachmentID), nil, nil, "")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (c *Client) DeleteAttachment(ctx context.Context, attachmentID int) error {
	return c.post(ctx, fmt.Sprintf("delete_attachment/%d", attachmentID), nil, nil)
}
