package caselist

import (
	"context"
	"time"

	"github.com/TracecatHQ/caseboard/internal/client"
	"github.com/TracecatHQ/caseboard/internal/model"
)

// Engine drives one case-list view. It owns the filter state, the cursor
// paginator, and the last fetched page, and exposes the refined case list
// plus pagination affordances to its caller.
//
// An Engine is owned by a single goroutine; it has no internal locking.
// Every setter that changes a server-relevant field resets the paginator,
// so cursors issued under a previous filter combination are never reused.
type Engine struct {
	client      client.CaseClient
	workspaceID string

	state     *FilterState
	paginator CursorPaginator
	refiner   Refiner

	identity string
	page     *client.ListCasesResponse // last successfully fetched page
	err      error
	loading  bool
}

// fetchKey identifies one request: a response is committed only when its
// originating key still equals the engine's current key at resolution
// time, so out-of-date responses are dropped rather than applied.
type fetchKey struct {
	workspace string
	identity  string
	cursor    string
}

// New creates an engine for the given workspace, with default filter
// state (newest first, default page size).
func New(c client.CaseClient, workspaceID string) *Engine {
	e := &Engine{
		client:      c,
		workspaceID: workspaceID,
		state:       NewFilterState(),
	}
	e.identity = QueryIdentity(workspaceID, e.state)
	return e
}

// SetClock overrides the clock used to resolve relative date presets.
func (e *Engine) SetClock(now func() time.Time) { e.refiner.Now = now }

// mutate applies a state change and resets the paginator when the change
// was server-relevant. Exclude-mode and date-bound changes leave the
// query identity — and therefore the cursor stack — untouched.
func (e *Engine) mutate(fn func(*FilterState)) {
	fn(e.state)
	if id := QueryIdentity(e.workspaceID, e.state); id != e.identity {
		e.identity = id
		e.paginator.Reset()
	}
}

// --- filter/sort/limit setters ---

func (e *Engine) SetSearchQuery(q string) {
	e.mutate(func(s *FilterState) { s.SearchQuery = q })
}

func (e *Engine) SetStatusFilter(values []string, mode Mode) {
	e.mutate(func(s *FilterState) { s.Status.Values, s.Status.Mode = values, mode })
}

func (e *Engine) SetPriorityFilter(values []string, mode Mode) {
	e.mutate(func(s *FilterState) { s.Priority.Values, s.Priority.Mode = values, mode })
}

func (e *Engine) SetSeverityFilter(values []string, mode Mode) {
	e.mutate(func(s *FilterState) { s.Severity.Values, s.Severity.Mode = values, mode })
}

func (e *Engine) SetAssigneeFilter(values []string, mode Mode) {
	e.mutate(func(s *FilterState) { s.Assignee.Values, s.Assignee.Mode = values, mode })
}

func (e *Engine) SetTagFilter(values []string, mode Mode) {
	e.mutate(func(s *FilterState) { s.Tag.Values, s.Tag.Mode = values, mode })
}

func (e *Engine) SetDropdownFilter(definitionRef string, values []string, mode Mode) {
	e.mutate(func(s *FilterState) { s.setDropdown(definitionRef, values, mode) })
}

func (e *Engine) RemoveDropdownFilter(definitionRef string) {
	e.mutate(func(s *FilterState) { delete(s.Dropdowns, definitionRef) })
}

func (e *Engine) SetPrioritySort(d SortDirection) {
	e.mutate(func(s *FilterState) { s.Priority.Sort = d })
}

func (e *Engine) SetSeveritySort(d SortDirection) {
	e.mutate(func(s *FilterState) { s.Severity.Sort = d })
}

func (e *Engine) SetAssigneeSort(d SortDirection) {
	e.mutate(func(s *FilterState) { s.Assignee.Sort = d })
}

func (e *Engine) SetTagSort(d SortDirection) {
	e.mutate(func(s *FilterState) { s.Tag.Sort = d })
}

func (e *Engine) SetDropdownSort(definitionRef string, d SortDirection) {
	e.mutate(func(s *FilterState) { s.setDropdownSort(definitionRef, d) })
}

func (e *Engine) SetUpdatedAfter(b DateBound) {
	e.mutate(func(s *FilterState) { s.UpdatedAfter = b })
}

func (e *Engine) SetCreatedAfter(b DateBound) {
	e.mutate(func(s *FilterState) { s.CreatedAfter = b })
}

func (e *Engine) SetUpdatedAtSort(d SortDirection) {
	e.mutate(func(s *FilterState) { s.UpdatedAtSort = d })
}

// SetLimit changes the page size. Non-positive values are ignored.
func (e *Engine) SetLimit(n int) {
	if n < 1 {
		return
	}
	e.mutate(func(s *FilterState) { s.Limit = n })
}

// --- fetch & navigation ---

// Refresh fetches the current page. On failure the last good page and the
// cursor state are left untouched, so retrying at the same position is
// always safe. A response whose originating key no longer matches the
// engine's current key is dropped without being applied.
func (e *Engine) Refresh(ctx context.Context) error {
	key := e.currentKey()
	req := BuildListRequest(e.workspaceID, e.state, key.cursor)

	e.loading = true
	resp, err := e.client.ListCases(ctx, req)
	if key != e.currentKey() {
		// The view moved on while this request was in flight; the
		// response belongs to a stale key.
		return nil
	}
	e.loading = false
	if err != nil {
		e.err = err
		return err
	}
	e.err = nil
	e.page = resp
	return nil
}

// GoToNextPage advances to the next page and fetches it. No-op when the
// current page reports no further results.
func (e *Engine) GoToNextPage(ctx context.Context) error {
	if !e.HasNextPage() {
		return nil
	}
	e.paginator.Advance(e.page.NextCursor, e.page.HasMore)
	return e.Refresh(ctx)
}

// GoToPreviousPage steps back to the previously visited page and fetches
// it. No-op on the first page.
func (e *Engine) GoToPreviousPage(ctx context.Context) error {
	if !e.paginator.Retreat() {
		return nil
	}
	return e.Refresh(ctx)
}

func (e *Engine) currentKey() fetchKey {
	return fetchKey{
		workspace: e.workspaceID,
		identity:  e.identity,
		cursor:    e.paginator.CurrentCursor(),
	}
}

// --- view accessors ---

// Cases returns the refined case list for the current page: the last
// fetched items with exclude-mode predicates, date bounds, and the active
// client sort applied. Recomputed on every call so filter changes take
// effect without a refetch.
func (e *Engine) Cases() []*model.CaseSummary {
	if e.page == nil {
		return nil
	}
	return e.refiner.Refine(e.page.Items, e.state)
}

// HasNextPage reports whether forward navigation is possible.
func (e *Engine) HasNextPage() bool {
	return e.page != nil && e.page.HasMore && e.page.NextCursor != ""
}

// HasPreviousPage reports whether backward navigation is possible.
func (e *Engine) HasPreviousPage() bool { return e.paginator.HasPrevious() }

// CurrentPage returns the zero-based index of the current page.
func (e *Engine) CurrentPage() int { return e.paginator.CurrentPageIndex() }

// Loading reports whether a fetch is in flight.
func (e *Engine) Loading() bool { return e.loading }

// Err returns the error from the most recent fetch, or nil. The last good
// page remains available alongside the error; the caller decides whether
// to keep showing it.
func (e *Engine) Err() error { return e.err }

// Filters exposes the current filter state for reads (rendering filter
// chips, etc.). Mutations must go through the engine's setters.
func (e *Engine) Filters() *FilterState { return e.state }
