// Package client provides a transport-agnostic interface for the caseboard
// service and an HTTP/JSON implementation that talks to the caseboard REST API.
package client

import (
	"context"
	"time"

	"github.com/TracecatHQ/caseboard/internal/model"
)

// CaseClient is the interface the CLI and the list engine use to talk to
// the case store. It is implemented by HTTPClient (default) and can be
// backed by any transport.
type CaseClient interface {
	// Case CRUD
	CreateCase(ctx context.Context, req *CreateCaseRequest) (*model.CaseSummary, error)
	GetCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error)
	ListCases(ctx context.Context, req *ListCasesRequest) (*ListCasesResponse, error)
	UpdateCase(ctx context.Context, workspaceID, id string, req *UpdateCaseRequest) (*model.CaseSummary, error)
	CloseCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error)
	DeleteCase(ctx context.Context, workspaceID, id string) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// ListCasesRequest holds the query parameters for listing cases. All token
// filters are include-mode; exclude-mode refinement never reaches the server.
type ListCasesRequest struct {
	WorkspaceID string   `json:"workspace_id"`
	SearchTerm  string   `json:"search_term,omitempty"`
	Status      []string `json:"status,omitempty"`
	Priority    []string `json:"priority,omitempty"`
	Severity    []string `json:"severity,omitempty"`
	AssigneeIDs []string `json:"assignee_ids,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	// Dropdown holds encoded "<definitionRef>:<optionRef>" tokens, one
	// per selected option.
	Dropdown []string `json:"dropdown,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Cursor   string   `json:"cursor,omitempty"`
	OrderBy  string   `json:"order_by,omitempty"` // always "updated_at"
	Sort     string   `json:"sort,omitempty"`     // "asc" or "desc"
}

// ListCasesResponse is one page of cases.
type ListCasesResponse struct {
	Items      []*model.CaseSummary `json:"items"`
	NextCursor string               `json:"next_cursor,omitempty"`
	HasMore    bool                 `json:"has_more"`
}

// CreateCaseRequest holds parameters for creating a case.
type CreateCaseRequest struct {
	WorkspaceID    string                `json:"workspace_id"`
	Summary        string                `json:"summary"`
	Description    string                `json:"description,omitempty"`
	Status         string                `json:"status,omitempty"`
	Priority       string                `json:"priority,omitempty"`
	Severity       string                `json:"severity,omitempty"`
	AssigneeID     string                `json:"assignee_id,omitempty"`
	AssigneeEmail  string                `json:"assignee_email,omitempty"`
	Tags           []model.Tag           `json:"tags,omitempty"`
	DropdownValues []model.DropdownValue `json:"dropdown_values,omitempty"`
	CreatedAt      *time.Time            `json:"created_at,omitempty"`
}

// UpdateCaseRequest holds optional parameters for updating a case.
// Nil pointer fields mean "don't change".
type UpdateCaseRequest struct {
	Summary        *string               `json:"summary,omitempty"`
	Description    *string               `json:"description,omitempty"`
	Status         *string               `json:"status,omitempty"`
	Priority       *string               `json:"priority,omitempty"`
	Severity       *string               `json:"severity,omitempty"`
	AssigneeID     *string               `json:"assignee_id,omitempty"`
	AssigneeEmail  *string               `json:"assignee_email,omitempty"`
	Tags           []model.Tag           `json:"tags,omitempty"`
	DropdownValues []model.DropdownValue `json:"dropdown_values,omitempty"`
}
