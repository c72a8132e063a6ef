package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/TracecatHQ/caseboard/internal/model"
)

func TestExportJSONL_Empty(t *testing.T) {
	ms := newMockStore()
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.CaseCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_WithCases(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()

	// Add cases out of ID order to verify sorting.
	ms.cases["case-zzz"] = &model.CaseSummary{
		ID: "case-zzz", WorkspaceID: "ws1", Summary: "Second",
		Status: model.StatusNew, Priority: model.PriorityLow, Severity: model.SeverityLow,
		CreatedAt: now, UpdatedAt: now,
	}
	ms.cases["case-aaa"] = &model.CaseSummary{
		ID: "case-aaa", WorkspaceID: "ws1", Summary: "First",
		Status: model.StatusInProgress, Priority: model.PriorityHigh, Severity: model.SeverityCritical,
		Tags:           []model.Tag{{Ref: "malware", Name: "Malware"}, {Ref: "phishing", Name: "Phishing"}},
		DropdownValues: []model.DropdownValue{{DefinitionRef: "env", OptionRef: "prod"}},
		CreatedAt:      now, UpdatedAt: now,
	}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 cases = 3 lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.CaseCount != 2 {
		t.Fatalf("header case count = %d, want 2", h.CaseCount)
	}

	// Verify cases are sorted by ID (case-aaa before case-zzz).
	var rec1, rec2 record
	if err := json.Unmarshal([]byte(lines[1]), &rec1); err != nil {
		t.Fatalf("unmarshal line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &rec2); err != nil {
		t.Fatalf("unmarshal line 2: %v", err)
	}
	if rec1.Type != "case" || rec2.Type != "case" {
		t.Fatalf("expected case types, got %q and %q", rec1.Type, rec2.Type)
	}

	data1, _ := json.Marshal(rec1.Data)
	data2, _ := json.Marshal(rec2.Data)
	var c1, c2 model.CaseSummary
	if err := json.Unmarshal(data1, &c1); err != nil {
		t.Fatalf("unmarshal c1: %v", err)
	}
	if err := json.Unmarshal(data2, &c2); err != nil {
		t.Fatalf("unmarshal c2: %v", err)
	}

	if c1.ID != "case-aaa" || c2.ID != "case-zzz" {
		t.Fatalf("cases not sorted: got %q, %q", c1.ID, c2.ID)
	}

	// Verify case-aaa has embedded relations.
	if len(c1.Tags) != 2 {
		t.Fatalf("expected 2 tags for case-aaa, got %d", len(c1.Tags))
	}
	if len(c1.DropdownValues) != 1 {
		t.Fatalf("expected 1 dropdown value for case-aaa, got %d", len(c1.DropdownValues))
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
