package events

import (
	"context"

	"github.com/TracecatHQ/caseboard/internal/model"
)

// Event topic constants
const (
	TopicCaseCreated = "cases.case.created"
	TopicCaseUpdated = "cases.case.updated"
	TopicCaseClosed  = "cases.case.closed"
	TopicCaseDeleted = "cases.case.deleted"
)

// Event types

type CaseCreated struct {
	Case *model.CaseSummary `json:"case"`
}

type CaseUpdated struct {
	Case    *model.CaseSummary `json:"case"`
	Changes map[string]any     `json:"changes"` // field name -> new value
}

type CaseClosed struct {
	Case *model.CaseSummary `json:"case"`
}

type CaseDeleted struct {
	WorkspaceID string `json:"workspace_id"`
	CaseID      string `json:"case_id"`
}

// Publisher publishes events to the event bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
