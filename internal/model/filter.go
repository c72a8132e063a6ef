package model

// CaseFilter holds criteria for querying cases from the store. All list
// filters are include-mode: a case matches when its value is in the
// requested set. Exclude-mode refinement happens client side, after fetch.
type CaseFilter struct {
	WorkspaceID string     `json:"workspace_id"`
	Status      []Status   `json:"status,omitempty"`
	Priority    []Priority `json:"priority,omitempty"`
	Severity    []Severity `json:"severity,omitempty"`
	// AssigneeIDs may contain UnassignedToken to match cases with a
	// null assignee.
	AssigneeIDs []string `json:"assignee_ids,omitempty"`
	TagRefs     []string `json:"tag_refs,omitempty"`
	// Dropdowns maps a dropdown definition ref to the accepted option
	// refs: OR within a definition, AND across definitions.
	Dropdowns map[string][]string `json:"dropdowns,omitempty"`
	Search    string              `json:"search,omitempty"` // substring match on summary/description

	// Cursor pagination. Ordering is always by updated_at (id as
	// tie-break); Descending selects the direction. Cursor is an opaque
	// token from a previous page's NextCursor.
	Limit      int    `json:"limit,omitempty"`
	Cursor     string `json:"cursor,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

// CasePage is one page of list results.
type CasePage struct {
	Items      []*CaseSummary `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more"`
}
