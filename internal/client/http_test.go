package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/TracecatHQ/caseboard/internal/model"
)

// testHandler records the last request and serves a canned response.
type testHandler struct {
	method string
	path   string
	query  url.Values
	auth   string

	status int
	body   any
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.Query()
	h.auth = r.Header.Get("Authorization")

	status := h.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if h.body != nil {
		json.NewEncoder(w).Encode(h.body) //nolint:errcheck
	}
}

func newTestClient(t *testing.T, h *testHandler, token string) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, token)
}

func TestListCases_QueryEncoding(t *testing.T) {
	h := &testHandler{body: ListCasesResponse{}}
	c := newTestClient(t, h, "")

	_, err := c.ListCases(context.Background(), &ListCasesRequest{
		WorkspaceID: "ws1",
		SearchTerm:  "phish",
		Status:      []string{"new", "in_progress"},
		Priority:    []string{"high"},
		Severity:    []string{"critical", "fatal"},
		AssigneeIDs: []string{"user-1", "unassigned"},
		Tags:        []string{"malware"},
		Dropdown:    []string{"env:prod", "team:soc"},
		Limit:       50,
		Cursor:      "abc",
		OrderBy:     "updated_at",
		Sort:        "asc",
	})
	if err != nil {
		t.Fatalf("ListCases error: %v", err)
	}

	if h.method != http.MethodGet || h.path != "/v1/cases" {
		t.Errorf("request = %s %s, want GET /v1/cases", h.method, h.path)
	}
	if got := h.query.Get("workspaceId"); got != "ws1" {
		t.Errorf("workspaceId = %q", got)
	}
	if got := h.query.Get("searchTerm"); got != "phish" {
		t.Errorf("searchTerm = %q", got)
	}
	if got := h.query["status"]; len(got) != 2 || got[0] != "new" || got[1] != "in_progress" {
		t.Errorf("status = %v, want repeated params", got)
	}
	if got := h.query["severity"]; len(got) != 2 {
		t.Errorf("severity = %v, want 2 values", got)
	}
	if got := h.query["assigneeId"]; len(got) != 2 || got[1] != "unassigned" {
		t.Errorf("assigneeId = %v", got)
	}
	if got := h.query["dropdown"]; len(got) != 2 || got[0] != "env:prod" {
		t.Errorf("dropdown = %v", got)
	}
	if got := h.query.Get("limit"); got != "50" {
		t.Errorf("limit = %q", got)
	}
	if got := h.query.Get("cursor"); got != "abc" {
		t.Errorf("cursor = %q", got)
	}
	if got := h.query.Get("sort"); got != "asc" {
		t.Errorf("sort = %q", got)
	}
}

func TestListCases_OmitsEmptyParams(t *testing.T) {
	h := &testHandler{body: ListCasesResponse{}}
	c := newTestClient(t, h, "")

	_, err := c.ListCases(context.Background(), &ListCasesRequest{WorkspaceID: "ws1"})
	if err != nil {
		t.Fatalf("ListCases error: %v", err)
	}
	for _, key := range []string{"searchTerm", "status", "limit", "cursor", "sort"} {
		if _, present := h.query[key]; present {
			t.Errorf("query contains %q, should be omitted when empty", key)
		}
	}
}

func TestListCases_DecodesPage(t *testing.T) {
	h := &testHandler{body: ListCasesResponse{
		Items:      []*model.CaseSummary{{ID: "case-1"}, {ID: "case-2"}},
		NextCursor: "next",
		HasMore:    true,
	}}
	c := newTestClient(t, h, "")

	resp, err := c.ListCases(context.Background(), &ListCasesRequest{WorkspaceID: "ws1"})
	if err != nil {
		t.Fatalf("ListCases error: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].ID != "case-1" {
		t.Errorf("Items = %v", resp.Items)
	}
	if !resp.HasMore || resp.NextCursor != "next" {
		t.Errorf("HasMore=%v NextCursor=%q", resp.HasMore, resp.NextCursor)
	}
}

func TestGetCase_PathAndWorkspace(t *testing.T) {
	h := &testHandler{body: model.CaseSummary{ID: "case-abc"}}
	c := newTestClient(t, h, "")

	got, err := c.GetCase(context.Background(), "ws1", "case-abc")
	if err != nil {
		t.Fatalf("GetCase error: %v", err)
	}
	if h.method != http.MethodGet || h.path != "/v1/cases/case-abc" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if h.query.Get("workspaceId") != "ws1" {
		t.Errorf("workspaceId = %q", h.query.Get("workspaceId"))
	}
	if got.ID != "case-abc" {
		t.Errorf("ID = %q", got.ID)
	}
}

func TestCloseCase_Path(t *testing.T) {
	h := &testHandler{body: model.CaseSummary{ID: "case-abc", Status: model.StatusClosed}}
	c := newTestClient(t, h, "")

	got, err := c.CloseCase(context.Background(), "ws1", "case-abc")
	if err != nil {
		t.Fatalf("CloseCase error: %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/cases/case-abc/close" {
		t.Errorf("request = %s %s, want POST /v1/cases/case-abc/close", h.method, h.path)
	}
	if got.Status != model.StatusClosed {
		t.Errorf("Status = %q", got.Status)
	}
}

func TestDeleteCase_NoContent(t *testing.T) {
	h := &testHandler{status: http.StatusNoContent}
	c := newTestClient(t, h, "")

	if err := c.DeleteCase(context.Background(), "ws1", "case-abc"); err != nil {
		t.Fatalf("DeleteCase error: %v", err)
	}
	if h.method != http.MethodDelete || h.path != "/v1/cases/case-abc" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	h := &testHandler{body: map[string]string{"status": "ok"}}
	c := newTestClient(t, h, "tok123")

	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health error: %v", err)
	}
	if h.auth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want %q", h.auth, "Bearer tok123")
	}
}

func TestAPIError_Classification(t *testing.T) {
	cases := []struct {
		status    int
		transient bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
	}
	for _, tc := range cases {
		h := &testHandler{status: tc.status, body: map[string]string{"error": "boom"}}
		c := newTestClient(t, h, "")

		_, err := c.GetCase(context.Background(), "ws1", "case-x")
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: error type = %T, want *APIError", tc.status, err)
		}
		if apiErr.StatusCode != tc.status {
			t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tc.status)
		}
		if apiErr.Message != "boom" {
			t.Errorf("Message = %q, want %q", apiErr.Message, "boom")
		}
		if apiErr.Transient() != tc.transient {
			t.Errorf("status %d: Transient() = %v, want %v", tc.status, apiErr.Transient(), tc.transient)
		}
	}
}
