// Package caselist implements the query/pagination/filtering engine behind
// the case-list view: filter state, server query construction, a cursor
// stack for bidirectional paging, and client-side refinement of fetched
// pages.
package caselist

import "time"

// Mode selects whether a filter's values are kept (include) or removed
// (exclude) from results. Include-mode filters are sent to the server;
// exclude-mode filters are applied after fetch, because the store only
// understands include semantics.
type Mode string

const (
	ModeInclude Mode = "include"
	ModeExclude Mode = "exclude"
)

// SortDirection is an optional sort on a filter's field. The zero value
// means no sort.
type SortDirection string

const (
	SortNone       SortDirection = ""
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// sign returns the comparison multiplier for the direction.
func (d SortDirection) sign() int {
	if d == SortDescending {
		return -1
	}
	return 1
}

// TokenFilter is one filter control: a set of selected tokens, an
// include/exclude mode, and an optional sort direction. Mode and Sort are
// independent axes; a filter can exclude values while having no sort, or
// sort without filtering.
type TokenFilter struct {
	Values []string
	Mode   Mode
	Sort   SortDirection
}

// active reports whether the filter has any selected values.
func (f TokenFilter) active() bool { return len(f.Values) > 0 }

// serverSide reports whether the filter should be sent to the server:
// non-empty and include-mode.
func (f TokenFilter) serverSide() bool { return f.active() && f.Mode != ModeExclude }

// excludes reports whether the filter drops matching values client-side.
func (f TokenFilter) excludes() bool { return f.active() && f.Mode == ModeExclude }

func (f TokenFilter) contains(v string) bool {
	for _, s := range f.Values {
		if s == v {
			return true
		}
	}
	return false
}

// DatePreset is a named relative lower bound for a date filter.
type DatePreset string

const (
	PresetNone   DatePreset = ""
	Preset1Day   DatePreset = "1d"
	Preset3Days  DatePreset = "3d"
	Preset1Week  DatePreset = "1w"
	Preset1Month DatePreset = "1m"
)

// offset returns the preset's lookback duration. A month is 30 days.
func (p DatePreset) offset() (time.Duration, bool) {
	switch p {
	case Preset1Day:
		return 24 * time.Hour, true
	case Preset3Days:
		return 3 * 24 * time.Hour, true
	case Preset1Week:
		return 7 * 24 * time.Hour, true
	case Preset1Month:
		return 30 * 24 * time.Hour, true
	}
	return 0, false
}

// DateBound constrains a case timestamp: either a relative preset or an
// explicit start/end range. Presets resolve to "now minus offset" with no
// upper bound; explicit ranges normalize End to the last millisecond of
// that day. Either side may be absent.
type DateBound struct {
	Preset DatePreset
	Start  *time.Time
	End    *time.Time
}

// active reports whether the bound constrains anything.
func (b DateBound) active() bool {
	return b.Preset != PresetNone || b.Start != nil || b.End != nil
}

// resolve returns the inclusive [start, end] bounds at the given time.
// A nil return on either side means unconstrained.
func (b DateBound) resolve(now time.Time) (start, end *time.Time) {
	if off, ok := b.Preset.offset(); ok {
		t := now.Add(-off)
		return &t, nil
	}
	start = b.Start
	if b.End != nil {
		t := endOfDay(*b.End)
		end = &t
	}
	return start, end
}

// endOfDay returns 23:59:59.999 of t's day, in t's location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999*int(time.Millisecond), t.Location())
}

// DefaultLimit is the page size used when none is set.
const DefaultLimit = 20

// FilterState holds the current value of every filter, sort, and limit
// control for one case-list view. It is the sole source of truth: the
// server query and the refined list are recomputed from it on every read,
// never cached independently.
//
// The Status filter has no sort control; client sorting applies only to
// priority, severity, assignee, and tag (in that precedence).
type FilterState struct {
	SearchQuery string

	Status   TokenFilter
	Priority TokenFilter
	Severity TokenFilter
	Assignee TokenFilter
	Tag      TokenFilter

	// Dropdowns holds user-defined dropdown-field filters, keyed by
	// definition ref.
	Dropdowns map[string]TokenFilter

	UpdatedAfter DateBound
	CreatedAfter DateBound

	// UpdatedAtSort is the primary, server-side sort. Always active.
	UpdatedAtSort SortDirection

	Limit int
}

// NewFilterState returns filter state with the view defaults: newest
// first, default page size, no filters.
func NewFilterState() *FilterState {
	return &FilterState{
		Dropdowns:     make(map[string]TokenFilter),
		UpdatedAtSort: SortDescending,
		Limit:         DefaultLimit,
	}
}

// setDropdown replaces the dropdown filter for a definition, preserving
// the existing sort direction when only values/mode change.
func (s *FilterState) setDropdown(definitionRef string, values []string, mode Mode) {
	if s.Dropdowns == nil {
		s.Dropdowns = make(map[string]TokenFilter)
	}
	f := s.Dropdowns[definitionRef]
	f.Values = values
	f.Mode = mode
	s.Dropdowns[definitionRef] = f
}

func (s *FilterState) setDropdownSort(definitionRef string, dir SortDirection) {
	if s.Dropdowns == nil {
		s.Dropdowns = make(map[string]TokenFilter)
	}
	f := s.Dropdowns[definitionRef]
	f.Sort = dir
	s.Dropdowns[definitionRef] = f
}
