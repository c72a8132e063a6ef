package caselist

import (
	"sort"
	"strings"
	"time"

	"github.com/TracecatHQ/caseboard/internal/model"
)

// Refiner applies the client-side half of the filter pipeline to a fetched
// page: exclude-mode filtering, date-bound filtering, then a single
// secondary sort. It is a pure transform over the input slice.
type Refiner struct {
	// Now supplies the clock for resolving relative date presets.
	// Defaults to time.Now.
	Now func() time.Time
}

// Refine filters and sorts one page of cases according to the filter
// state. Steps apply in order: exclude-mode predicates, date bounds,
// then the single-winner sort. The input slice is not modified.
//
// The sort is stable: cases with equal rank keep the server's delivery
// order.
func (r *Refiner) Refine(items []*model.CaseSummary, s *FilterState) []*model.CaseSummary {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	out := make([]*model.CaseSummary, 0, len(items))
	for _, c := range items {
		if excluded(c, s) {
			continue
		}
		if !withinBound(c.UpdatedAt, s.UpdatedAfter, now) {
			continue
		}
		if !withinBound(c.CreatedAt, s.CreatedAfter, now) {
			continue
		}
		out = append(out, c)
	}

	if less := activeSort(s); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// excluded reports whether any exclude-mode filter drops the case.
func excluded(c *model.CaseSummary, s *FilterState) bool {
	if s.Status.excludes() && s.Status.contains(string(c.Status)) {
		return true
	}
	if s.Priority.excludes() && s.Priority.contains(string(c.Priority)) {
		return true
	}
	if s.Severity.excludes() && s.Severity.contains(string(c.Severity)) {
		return true
	}
	if s.Assignee.excludes() && s.Assignee.contains(c.AssigneeToken()) {
		return true
	}
	if s.Tag.excludes() {
		for _, t := range c.Tags {
			if s.Tag.contains(t.Ref) {
				return true
			}
		}
	}
	for def, f := range s.Dropdowns {
		if f.excludes() && f.contains(c.DropdownOption(def)) {
			return true
		}
	}
	return false
}

// withinBound reports whether ts falls inside the bound's inclusive
// [start, end] range at the given time. An inactive bound always matches.
func withinBound(ts time.Time, b DateBound, now time.Time) bool {
	if !b.active() {
		return true
	}
	start, end := b.resolve(now)
	if start != nil && ts.Before(*start) {
		return false
	}
	if end != nil && ts.After(*end) {
		return false
	}
	return true
}

// activeSort returns the comparator for the single active client sort, or
// nil when no sort direction is set. Directions are checked in fixed
// precedence — priority, severity, assignee, tag — and the first non-empty
// one wins; the rest are ignored. This keeps exactly one secondary sort
// layered on the server's updated_at order.
func activeSort(s *FilterState) func(a, b *model.CaseSummary) bool {
	if d := s.Priority.Sort; d != SortNone {
		sign := d.sign()
		return func(a, b *model.CaseSummary) bool {
			return (a.Priority.Rank()-b.Priority.Rank())*sign < 0
		}
	}
	if d := s.Severity.Sort; d != SortNone {
		sign := d.sign()
		return func(a, b *model.CaseSummary) bool {
			return (a.Severity.Rank()-b.Severity.Rank())*sign < 0
		}
	}
	if d := s.Assignee.Sort; d != SortNone {
		sign := d.sign()
		return func(a, b *model.CaseSummary) bool {
			return strings.Compare(a.AssigneeEmail(), b.AssigneeEmail())*sign < 0
		}
	}
	if d := s.Tag.Sort; d != SortNone {
		sign := d.sign()
		return func(a, b *model.CaseSummary) bool {
			// Cases without tags sort last regardless of direction.
			aHas, bHas := len(a.Tags) > 0, len(b.Tags) > 0
			switch {
			case !aHas:
				return false
			case !bHas:
				return true
			}
			return strings.Compare(a.Tags[0].Name, b.Tags[0].Name)*sign < 0
		}
	}
	return nil
}
