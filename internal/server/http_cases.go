package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TracecatHQ/caseboard/internal/events"
	"github.com/TracecatHQ/caseboard/internal/idgen"
	"github.com/TracecatHQ/caseboard/internal/model"
	"github.com/TracecatHQ/caseboard/internal/store"
)

// createCaseRequest mirrors the client's create payload.
type createCaseRequest struct {
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

// updateCaseRequest mirrors the client's update payload. Nil pointer
// fields are left unchanged.
type updateCaseRequest struct {
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

func (s *CasesServer) handleListCases(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.store.ListCases(r.Context(), filter)
	if err != nil {
		var inputErr inputError
		if errors.As(err, &inputErr) {
			writeError(w, http.StatusBadRequest, inputErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("listing cases: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// parseListFilter decodes the list query string into a store filter.
// Repeated parameters (status, priority, severity, assigneeId, tags,
// dropdown) accumulate; dropdown values are "<definitionRef>:<optionRef>"
// tokens grouped by definition.
func parseListFilter(r *http.Request) (model.CaseFilter, error) {
	q := r.URL.Query()

	filter := model.CaseFilter{
		WorkspaceID: q.Get("workspaceId"),
		Search:      q.Get("searchTerm"),
		Cursor:      q.Get("cursor"),
	}
	if filter.WorkspaceID == "" {
		return filter, fmt.Errorf("workspaceId is required")
	}

	for _, v := range q["status"] {
		st := model.Status(v)
		if !st.IsValid() {
			return filter, fmt.Errorf("invalid status %q", v)
		}
		filter.Status = append(filter.Status, st)
	}
	for _, v := range q["priority"] {
		filter.Priority = append(filter.Priority, model.Priority(v))
	}
	for _, v := range q["severity"] {
		filter.Severity = append(filter.Severity, model.Severity(v))
	}
	filter.AssigneeIDs = append(filter.AssigneeIDs, q["assigneeId"]...)
	filter.TagRefs = append(filter.TagRefs, q["tags"]...)

	for _, tok := range q["dropdown"] {
		def, opt, ok := strings.Cut(tok, ":")
		if !ok || def == "" || opt == "" {
			return filter, fmt.Errorf("invalid dropdown token %q, want <definition>:<option>", tok)
		}
		if filter.Dropdowns == nil {
			filter.Dropdowns = make(map[string][]string)
		}
		filter.Dropdowns[def] = append(filter.Dropdowns[def], opt)
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, fmt.Errorf("invalid limit %q", raw)
		}
		filter.Limit = n
	}

	if orderBy := q.Get("orderBy"); orderBy != "" && orderBy != "updated_at" {
		return filter, fmt.Errorf("unsupported orderBy %q, only updated_at is available", orderBy)
	}
	switch q.Get("sort") {
	case "", "desc":
		filter.Descending = true
	case "asc":
		filter.Descending = false
	default:
		return filter, fmt.Errorf("invalid sort %q, want asc or desc", q.Get("sort"))
	}

	return filter, nil
}

func (s *CasesServer) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
		return
	}

	cs, err := caseFromCreate(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.RunInTransaction(r.Context(), func(tx store.Store) error {
		return tx.CreateCase(r.Context(), cs)
	}); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("creating case: %v", err))
		return
	}

	s.publish(r.Context(), events.TopicCaseCreated, cs.ID, events.CaseCreated{Case: cs})
	writeJSON(w, http.StatusCreated, cs)
}

// caseFromCreate validates the create request and builds the new case
// record, generating its ID and defaulting omitted enum fields.
func caseFromCreate(req *createCaseRequest) (*model.CaseSummary, error) {
	if req.WorkspaceID == "" {
		return nil, fmt.Errorf("workspace_id is required")
	}
	if strings.TrimSpace(req.Summary) == "" {
		return nil, fmt.Errorf("summary is required")
	}

	id, err := idgen.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating case ID: %w", err)
	}

	now := time.Now().UTC()
	createdAt := now
	if req.CreatedAt != nil {
		createdAt = req.CreatedAt.UTC()
	}

	cs := &model.CaseSummary{
		ID:             id,
		WorkspaceID:    req.WorkspaceID,
		Summary:        req.Summary,
		Description:    req.Description,
		Status:         model.StatusNew,
		Priority:       model.PriorityUnknown,
		Severity:       model.SeverityUnknown,
		Tags:           req.Tags,
		DropdownValues: req.DropdownValues,
		CreatedAt:      createdAt,
		UpdatedAt:      now,
	}
	if req.Status != "" {
		st := model.Status(req.Status)
		if !st.IsValid() {
			return nil, fmt.Errorf("invalid status %q", req.Status)
		}
		cs.Status = st
	}
	if req.Priority != "" {
		cs.Priority = model.Priority(req.Priority)
	}
	if req.Severity != "" {
		cs.Severity = model.Severity(req.Severity)
	}
	if req.AssigneeID != "" {
		cs.Assignee = &model.Assignee{ID: req.AssigneeID, Email: req.AssigneeEmail}
	}
	return cs, nil
}

func (s *CasesServer) handleGetCase(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspaceId")
	if workspaceID == "" {
		writeError(w, http.StatusBadRequest, "workspaceId is required")
		return
	}
	id := r.PathValue("id")

	cs, err := s.store.GetCase(r.Context(), workspaceID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("case %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("getting case: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *CasesServer) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspaceId")
	if workspaceID == "" {
		writeError(w, http.StatusBadRequest, "workspaceId is required")
		return
	}
	id := r.PathValue("id")

	var req updateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
		return
	}

	var cs *model.CaseSummary
	var changes map[string]any
	err := s.store.RunInTransaction(r.Context(), func(tx store.Store) error {
		var err error
		cs, err = tx.GetCase(r.Context(), workspaceID, id)
		if err != nil {
			return err
		}
		changes, err = applyUpdate(cs, &req)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		cs.UpdatedAt = time.Now().UTC()
		return tx.UpdateCase(r.Context(), cs)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("case %s not found", id))
			return
		}
		var inputErr inputError
		if errors.As(err, &inputErr) {
			writeError(w, http.StatusBadRequest, inputErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("updating case: %v", err))
		return
	}

	if len(changes) > 0 {
		s.publish(r.Context(), events.TopicCaseUpdated, cs.ID, events.CaseUpdated{Case: cs, Changes: changes})
	}
	writeJSON(w, http.StatusOK, cs)
}

// applyUpdate mutates cs in place from the non-nil request fields and
// returns the set of changed fields.
func applyUpdate(cs *model.CaseSummary, req *updateCaseRequest) (map[string]any, error) {
	changes := make(map[string]any)

	if req.Summary != nil && *req.Summary != cs.Summary {
		if strings.TrimSpace(*req.Summary) == "" {
			return nil, inputError("summary cannot be empty")
		}
		cs.Summary = *req.Summary
		changes["summary"] = cs.Summary
	}
	if req.Description != nil && *req.Description != cs.Description {
		cs.Description = *req.Description
		changes["description"] = cs.Description
	}
	if req.Status != nil && model.Status(*req.Status) != cs.Status {
		st := model.Status(*req.Status)
		if !st.IsValid() {
			return nil, inputError(fmt.Sprintf("invalid status %q", *req.Status))
		}
		cs.Status = st
		changes["status"] = cs.Status
	}
	if req.Priority != nil && model.Priority(*req.Priority) != cs.Priority {
		cs.Priority = model.Priority(*req.Priority)
		changes["priority"] = cs.Priority
	}
	if req.Severity != nil && model.Severity(*req.Severity) != cs.Severity {
		cs.Severity = model.Severity(*req.Severity)
		changes["severity"] = cs.Severity
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			if cs.Assignee != nil {
				cs.Assignee = nil
				changes["assignee"] = nil
			}
		} else if cs.Assignee == nil || cs.Assignee.ID != *req.AssigneeID {
			email := ""
			if req.AssigneeEmail != nil {
				email = *req.AssigneeEmail
			}
			cs.Assignee = &model.Assignee{ID: *req.AssigneeID, Email: email}
			changes["assignee"] = cs.Assignee
		}
	}
	if req.Tags != nil {
		cs.Tags = req.Tags
		changes["tags"] = cs.Tags
	}
	if req.DropdownValues != nil {
		cs.DropdownValues = req.DropdownValues
		changes["dropdown_values"] = cs.DropdownValues
	}
	return changes, nil
}

func (s *CasesServer) handleCloseCase(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspaceId")
	if workspaceID == "" {
		writeError(w, http.StatusBadRequest, "workspaceId is required")
		return
	}
	id := r.PathValue("id")

	cs, err := s.store.CloseCase(r.Context(), workspaceID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("case %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("closing case: %v", err))
		return
	}

	s.publish(r.Context(), events.TopicCaseClosed, cs.ID, events.CaseClosed{Case: cs})
	writeJSON(w, http.StatusOK, cs)
}

func (s *CasesServer) handleDeleteCase(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspaceId")
	if workspaceID == "" {
		writeError(w, http.StatusBadRequest, "workspaceId is required")
		return
	}
	id := r.PathValue("id")

	if err := s.store.DeleteCase(r.Context(), workspaceID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("case %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("deleting case: %v", err))
		return
	}

	s.publish(r.Context(), events.TopicCaseDeleted, id, events.CaseDeleted{WorkspaceID: workspaceID, CaseID: id})
	w.WriteHeader(http.StatusNoContent)
}
