package caselist

import (
	"testing"
	"time"

	"github.com/TracecatHQ/caseboard/internal/model"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testRefiner() *Refiner {
	return &Refiner{Now: func() time.Time { return testNow }}
}

func mkCase(id string, mods ...func(*model.CaseSummary)) *model.CaseSummary {
	c := &model.CaseSummary{
		ID:        id,
		Status:    model.StatusNew,
		Priority:  model.PriorityMedium,
		Severity:  model.SeverityMedium,
		CreatedAt: testNow.Add(-48 * time.Hour),
		UpdatedAt: testNow.Add(-time.Hour),
	}
	for _, mod := range mods {
		mod(c)
	}
	return c
}

func ids(cases []*model.CaseSummary) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.ID
	}
	return out
}

func equalIDs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRefine_ExcludeStatus(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("a", func(c *model.CaseSummary) { c.Status = model.StatusClosed }),
		mkCase("b", func(c *model.CaseSummary) { c.Status = model.StatusNew }),
		mkCase("c", func(c *model.CaseSummary) { c.Status = model.StatusResolved }),
	}
	s := NewFilterState()
	s.Status = TokenFilter{Values: []string{"closed", "resolved"}, Mode: ModeExclude}

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"b"}) {
		t.Errorf("got %v, want [b]", ids(got))
	}

	// Flipping to include mode makes the filter server-side; the refiner
	// must pass everything through untouched.
	s.Status.Mode = ModeInclude
	got = testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"a", "b", "c"}) {
		t.Errorf("include mode: got %v, want all items", ids(got))
	}
}

func TestRefine_ExcludeAssigneeUnassignedSentinel(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("a"), // unassigned
		mkCase("b", func(c *model.CaseSummary) { c.Assignee = &model.Assignee{ID: "u1", Email: "one@example.com"} }),
	}
	s := NewFilterState()
	s.Assignee = TokenFilter{Values: []string{model.UnassignedToken}, Mode: ModeExclude}

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"b"}) {
		t.Errorf("got %v, want [b]", ids(got))
	}
}

func TestRefine_ExcludeTagAnyMatch(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("a", func(c *model.CaseSummary) {
			c.Tags = []model.Tag{{Ref: "t1", Name: "Phishing"}, {Ref: "t2", Name: "External"}}
		}),
		mkCase("b", func(c *model.CaseSummary) { c.Tags = []model.Tag{{Ref: "t3", Name: "Internal"}} }),
		mkCase("c"), // no tags
	}
	s := NewFilterState()
	s.Tag = TokenFilter{Values: []string{"t2"}, Mode: ModeExclude}

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"b", "c"}) {
		t.Errorf("got %v, want [b c]", ids(got))
	}
}

func TestRefine_ExcludeDropdownPerDefinition(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("a", func(c *model.CaseSummary) {
			c.DropdownValues = []model.DropdownValue{{DefinitionRef: "env", OptionRef: "prod"}}
		}),
		mkCase("b", func(c *model.CaseSummary) {
			c.DropdownValues = []model.DropdownValue{{DefinitionRef: "env", OptionRef: "staging"}}
		}),
		mkCase("c", func(c *model.CaseSummary) {
			// Same option ref under a different definition must not match.
			c.DropdownValues = []model.DropdownValue{{DefinitionRef: "region", OptionRef: "prod"}}
		}),
	}
	s := NewFilterState()
	s.setDropdown("env", []string{"prod"}, ModeExclude)

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"b", "c"}) {
		t.Errorf("got %v, want [b c]", ids(got))
	}
}

func TestRefine_DateBoundInclusivity(t *testing.T) {
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	boundary := time.Date(2026, 3, 5, 23, 59, 59, 999*int(time.Millisecond), time.UTC)

	items := []*model.CaseSummary{
		mkCase("at-end", func(c *model.CaseSummary) { c.UpdatedAt = boundary }),
		mkCase("past-end", func(c *model.CaseSummary) { c.UpdatedAt = boundary.Add(time.Millisecond) }),
		mkCase("at-start", func(c *model.CaseSummary) { c.UpdatedAt = day }),
		mkCase("before-start", func(c *model.CaseSummary) { c.UpdatedAt = day.Add(-time.Millisecond) }),
	}
	s := NewFilterState()
	s.UpdatedAfter = DateBound{Start: &day, End: &day}

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"at-end", "at-start"}) {
		t.Errorf("got %v, want [at-end at-start]", ids(got))
	}
}

func TestRefine_DatePresetLowerBound(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("recent", func(c *model.CaseSummary) { c.UpdatedAt = testNow.Add(-2 * 24 * time.Hour) }),
		mkCase("stale", func(c *model.CaseSummary) { c.UpdatedAt = testNow.Add(-8 * 24 * time.Hour) }),
	}
	s := NewFilterState()
	s.UpdatedAfter = DateBound{Preset: Preset1Week}

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"recent"}) {
		t.Errorf("got %v, want [recent]", ids(got))
	}
}

func TestRefine_CreatedAfterUsesCreatedAt(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("old", func(c *model.CaseSummary) {
			c.CreatedAt = testNow.Add(-10 * 24 * time.Hour)
			c.UpdatedAt = testNow // recently touched, created long ago
		}),
		mkCase("new", func(c *model.CaseSummary) { c.CreatedAt = testNow.Add(-time.Hour) }),
	}
	s := NewFilterState()
	s.CreatedAfter = DateBound{Preset: Preset3Days}

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"new"}) {
		t.Errorf("got %v, want [new]", ids(got))
	}
}

func TestRefine_SortPrecedencePriorityWins(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("a", func(c *model.CaseSummary) {
			c.Priority = model.PriorityLow
			c.Severity = model.SeverityFatal
		}),
		mkCase("b", func(c *model.CaseSummary) {
			c.Priority = model.PriorityCritical
			c.Severity = model.SeverityInformational
		}),
		mkCase("c", func(c *model.CaseSummary) {
			c.Priority = model.PriorityMedium
			c.Severity = model.SeverityHigh
		}),
	}
	s := NewFilterState()
	s.Priority.Sort = SortDescending
	s.Severity.Sort = SortAscending // set but must be ignored

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"b", "c", "a"}) {
		t.Errorf("got %v, want priority-descending [b c a]", ids(got))
	}
}

func TestRefine_IncludeScenarioWithAscendingSort(t *testing.T) {
	// Server already filtered to [critical, medium]; include mode means
	// no client-side dropping.
	items := []*model.CaseSummary{
		mkCase("A", func(c *model.CaseSummary) { c.Priority = model.PriorityCritical }),
		mkCase("B", func(c *model.CaseSummary) { c.Priority = model.PriorityLow }),
		mkCase("C", func(c *model.CaseSummary) { c.Priority = model.PriorityMedium }),
	}
	s := NewFilterState()
	s.Limit = 2
	s.Priority = TokenFilter{Values: []string{"critical", "medium"}, Mode: ModeInclude}

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"A", "B", "C"}) {
		t.Errorf("include mode: got %v, want server order preserved", ids(got))
	}

	s.Priority.Sort = SortAscending
	got = testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"B", "C", "A"}) {
		t.Errorf("ascending: got %v, want [B C A]", ids(got))
	}
}

func TestRefine_AssigneeSortByEmail(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("b", func(c *model.CaseSummary) { c.Assignee = &model.Assignee{ID: "u2", Email: "bob@example.com"} }),
		mkCase("u"), // unassigned sorts as ""
		mkCase("a", func(c *model.CaseSummary) { c.Assignee = &model.Assignee{ID: "u1", Email: "alice@example.com"} }),
	}
	s := NewFilterState()
	s.Assignee.Sort = SortAscending

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"u", "a", "b"}) {
		t.Errorf("got %v, want [u a b]", ids(got))
	}
}

func TestRefine_TagSortNoTagsAlwaysLast(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("none"),
		mkCase("z", func(c *model.CaseSummary) { c.Tags = []model.Tag{{Ref: "t1", Name: "zeta"}} }),
		mkCase("a", func(c *model.CaseSummary) { c.Tags = []model.Tag{{Ref: "t2", Name: "alpha"}} }),
	}

	s := NewFilterState()
	s.Tag.Sort = SortAscending
	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"a", "z", "none"}) {
		t.Errorf("ascending: got %v, want [a z none]", ids(got))
	}

	s.Tag.Sort = SortDescending
	got = testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"z", "a", "none"}) {
		t.Errorf("descending: got %v, want [z a none]", ids(got))
	}
}

func TestRefine_StableTiesKeepServerOrder(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("first", func(c *model.CaseSummary) { c.Priority = model.PriorityHigh }),
		mkCase("second", func(c *model.CaseSummary) { c.Priority = model.PriorityHigh }),
		mkCase("third", func(c *model.CaseSummary) { c.Priority = model.PriorityHigh }),
	}
	s := NewFilterState()
	s.Priority.Sort = SortDescending

	got := testRefiner().Refine(items, s)
	if !equalIDs(ids(got), []string{"first", "second", "third"}) {
		t.Errorf("got %v, want server order preserved for equal ranks", ids(got))
	}
}

func TestRefine_NoSortKeepsServerOrder(t *testing.T) {
	items := []*model.CaseSummary{
		mkCase("c", func(c *model.CaseSummary) { c.Priority = model.PriorityCritical }),
		mkCase("a", func(c *model.CaseSummary) { c.Priority = model.PriorityLow }),
	}
	got := testRefiner().Refine(items, NewFilterState())
	if !equalIDs(ids(got), []string{"c", "a"}) {
		t.Errorf("got %v, want delivery order", ids(got))
	}
}
