package model

import "time"

// Status represents the current state of a case.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
	StatusOther      Status = "other"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusOnHold, StatusResolved, StatusClosed, StatusOther:
		return true
	}
	return false
}

// Priority represents how urgently a case needs attention.
type Priority string

const (
	PriorityUnknown  Priority = "unknown"
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Rank returns the ordering rank for the priority. Unknown or
// unrecognized values rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// Severity represents the assessed impact of a case.
type Severity string

const (
	SeverityUnknown       Severity = "unknown"
	SeverityInformational Severity = "informational"
	SeverityLow           Severity = "low"
	SeverityMedium        Severity = "medium"
	SeverityHigh          Severity = "high"
	SeverityCritical      Severity = "critical"
	SeverityFatal         Severity = "fatal"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Rank returns the ordering rank for the severity. Fatal ranks above
// critical; unknown or unrecognized values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityInformational:
		return 1
	case SeverityLow:
		return 2
	case SeverityMedium:
		return 3
	case SeverityHigh:
		return 4
	case SeverityCritical:
		return 5
	case SeverityFatal:
		return 6
	}
	return 0
}

// UnassignedToken is the sentinel used in assignee filters to match
// cases with no assignee.
const UnassignedToken = "unassigned"

// Assignee identifies the user a case is assigned to.
type Assignee struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Tag is a workspace-defined label attached to a case. Ref is the stable
// identifier used in filters; Name is the display name.
type Tag struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
}

// DropdownValue records the selected option of a custom dropdown field.
type DropdownValue struct {
	DefinitionRef string `json:"definition_ref"`
	OptionRef     string `json:"option_ref"`
}

// CaseSummary is the read-only case record returned by list queries.
// It is created and mutated entirely by the case store; the list engine
// never writes to it.
type CaseSummary struct {
	ID             string          `json:"id"`
	WorkspaceID    string          `json:"workspace_id"`
	Summary        string          `json:"summary"`
	Description    string          `json:"description,omitempty"`
	Status         Status          `json:"status"`
	Priority       Priority        `json:"priority"`
	Severity       Severity        `json:"severity"`
	Assignee       *Assignee       `json:"assignee,omitempty"`
	Tags           []Tag           `json:"tags,omitempty"`
	DropdownValues []DropdownValue `json:"dropdown_values,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AssigneeToken returns the filter token for the case's assignee:
// the assignee ID, or UnassignedToken when the case is unassigned.
func (c *CaseSummary) AssigneeToken() string {
	if c.Assignee == nil {
		return UnassignedToken
	}
	return c.Assignee.ID
}

// AssigneeEmail returns the assignee's email, or "" when unassigned.
func (c *CaseSummary) AssigneeEmail() string {
	if c.Assignee == nil {
		return ""
	}
	return c.Assignee.Email
}

// DropdownOption returns the recorded option ref for the given dropdown
// definition, or "" when the case has no value for it.
func (c *CaseSummary) DropdownOption(definitionRef string) string {
	for _, v := range c.DropdownValues {
		if v.DefinitionRef == definitionRef {
			return v.OptionRef
		}
	}
	return ""
}
