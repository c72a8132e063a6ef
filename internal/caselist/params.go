package caselist

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/TracecatHQ/caseboard/internal/client"
)

// BuildListRequest converts filter state into the server query for one
// page fetch. It is a pure function: identical state and cursor always
// yield an identical request. Only include-mode filters are sent;
// exclude-mode and date-bound filters stay client-side.
func BuildListRequest(workspaceID string, s *FilterState, cursor string) *client.ListCasesRequest {
	req := &client.ListCasesRequest{
		WorkspaceID: workspaceID,
		Limit:       s.Limit,
		Cursor:      cursor,
		OrderBy:     "updated_at",
		Sort:        string(updatedAtSort(s)),
	}

	if term := strings.TrimSpace(s.SearchQuery); term != "" {
		req.SearchTerm = term
	}
	if s.Status.serverSide() {
		req.Status = append([]string(nil), s.Status.Values...)
	}
	if s.Priority.serverSide() {
		req.Priority = append([]string(nil), s.Priority.Values...)
	}
	if s.Severity.serverSide() {
		req.Severity = append([]string(nil), s.Severity.Values...)
	}
	if s.Assignee.serverSide() {
		req.AssigneeIDs = append([]string(nil), s.Assignee.Values...)
	}
	if s.Tag.serverSide() {
		req.Tags = append([]string(nil), s.Tag.Values...)
	}
	req.Dropdown = dropdownTokens(s)

	return req
}

// dropdownTokens encodes every include-mode dropdown selection as one
// "<definitionRef>:<optionRef>" token per option. Definitions are emitted
// in sorted order so the encoding is deterministic. The server treats the
// tokens as OR within a definition and AND across definitions.
func dropdownTokens(s *FilterState) []string {
	if len(s.Dropdowns) == 0 {
		return nil
	}
	defs := make([]string, 0, len(s.Dropdowns))
	for def := range s.Dropdowns {
		defs = append(defs, def)
	}
	sort.Strings(defs)

	var tokens []string
	for _, def := range defs {
		f := s.Dropdowns[def]
		if !f.serverSide() {
			continue
		}
		for _, opt := range f.Values {
			tokens = append(tokens, def+":"+opt)
		}
	}
	return tokens
}

// QueryIdentity serializes every server-relevant parameter — everything
// BuildListRequest would send except the cursor. Two states with the same
// identity may safely share a cursor stack; when the identity changes,
// previously issued cursors are stale and the paginator must reset.
//
// Value sets are sorted so the identity is insensitive to selection order.
func QueryIdentity(workspaceID string, s *FilterState) string {
	var b strings.Builder

	write := func(key string, values ...string) {
		if len(values) == 0 {
			return
		}
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		b.WriteString(key)
		b.WriteByte('=')
		for i, v := range sorted {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(url.QueryEscape(v))
		}
		b.WriteByte('&')
	}

	write("workspace", workspaceID)
	if term := strings.TrimSpace(s.SearchQuery); term != "" {
		write("search", term)
	}
	if s.Status.serverSide() {
		write("status", s.Status.Values...)
	}
	if s.Priority.serverSide() {
		write("priority", s.Priority.Values...)
	}
	if s.Severity.serverSide() {
		write("severity", s.Severity.Values...)
	}
	if s.Assignee.serverSide() {
		write("assignee", s.Assignee.Values...)
	}
	if s.Tag.serverSide() {
		write("tags", s.Tag.Values...)
	}
	write("dropdown", dropdownTokens(s)...)
	write("limit", fmt.Sprintf("%d", s.Limit))
	write("sort", string(updatedAtSort(s)))

	return b.String()
}

// updatedAtSort returns the primary sort direction, defaulting to
// descending (newest first) when unset.
func updatedAtSort(s *FilterState) SortDirection {
	if s.UpdatedAtSort == SortAscending {
		return SortAscending
	}
	return SortDescending
}
