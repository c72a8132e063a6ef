package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/TracecatHQ/caseboard/internal/model"
)

// HTTPClient implements CaseClient using the caseboard HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Case CRUD ---

func (c *HTTPClient) CreateCase(ctx context.Context, req *CreateCaseRequest) (*model.CaseSummary, error) {
	var cs model.CaseSummary
	if err := c.doJSON(ctx, http.MethodPost, "/v1/cases", req, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (c *HTTPClient) GetCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error) {
	var cs model.CaseSummary
	path := "/v1/cases/" + url.PathEscape(id) + "?workspaceId=" + url.QueryEscape(workspaceID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (c *HTTPClient) ListCases(ctx context.Context, req *ListCasesRequest) (*ListCasesResponse, error) {
	q := url.Values{}
	q.Set("workspaceId", req.WorkspaceID)
	if req.SearchTerm != "" {
		q.Set("searchTerm", req.SearchTerm)
	}
	for _, s := range req.Status {
		q.Add("status", s)
	}
	for _, p := range req.Priority {
		q.Add("priority", p)
	}
	for _, s := range req.Severity {
		q.Add("severity", s)
	}
	for _, a := range req.AssigneeIDs {
		q.Add("assigneeId", a)
	}
	for _, t := range req.Tags {
		q.Add("tags", t)
	}
	for _, d := range req.Dropdown {
		q.Add("dropdown", d)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Cursor != "" {
		q.Set("cursor", req.Cursor)
	}
	if req.OrderBy != "" {
		q.Set("orderBy", req.OrderBy)
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}

	var resp ListCasesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/cases?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateCase(ctx context.Context, workspaceID, id string, req *UpdateCaseRequest) (*model.CaseSummary, error) {
	var cs model.CaseSummary
	path := "/v1/cases/" + url.PathEscape(id) + "?workspaceId=" + url.QueryEscape(workspaceID)
	if err := c.doJSON(ctx, http.MethodPatch, path, req, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (c *HTTPClient) CloseCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error) {
	var cs model.CaseSummary
	path := "/v1/cases/" + url.PathEscape(id) + "/close?workspaceId=" + url.QueryEscape(workspaceID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (c *HTTPClient) DeleteCase(ctx context.Context, workspaceID, id string) error {
	path := "/v1/cases/" + url.PathEscape(id) + "?workspaceId=" + url.QueryEscape(workspaceID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Transient reports whether the error is eligible for retry by the caller:
// server-side failures (5xx). 4xx responses and malformed payloads are
// terminal. The list engine never retries either way; this classification
// is for transport-level retry policies.
func (e *APIError) Transient() bool {
	return e.StatusCode >= 500
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
