// Package server implements the caseboard HTTP API: the cursor-paginated
// case query endpoint plus case CRUD.
package server

import (
	"context"
	"log/slog"

	"github.com/TracecatHQ/caseboard/internal/events"
	"github.com/TracecatHQ/caseboard/internal/store"
)

// CasesServer serves the case-store API backed by the given store.
type CasesServer struct {
	store     store.Store
	publisher events.Publisher
}

// NewCasesServer returns a new CasesServer backed by the given store and publisher.
func NewCasesServer(s store.Store, p events.Publisher) *CasesServer {
	return &CasesServer{store: s, publisher: p}
}

// publish sends an event to the bus. Best-effort; failures are logged but
// do not block the caller.
func (s *CasesServer) publish(ctx context.Context, topic, caseID string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "case_id", caseID, "error", err)
	}
}

// inputError indicates invalid user input.
// The transport layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
