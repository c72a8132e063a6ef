// Package snapshot periodically exports the full case store as JSONL to
// one or more destinations (S3-compatible storage by default).
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/TracecatHQ/caseboard/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	CaseCount int       `json:"case_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes every case from the store as JSONL to w. Cases are
// sorted by ID and include embedded tags and dropdown values.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	cases, err := s.ListAllCases(ctx)
	if err != nil {
		return fmt.Errorf("list cases: %w", err)
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].ID < cases[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
		CaseCount: len(cases),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, c := range cases {
		if err := enc.Encode(record{Type: "case", Data: c}); err != nil {
			return fmt.Errorf("encode case %s: %w", c.ID, err)
		}
	}

	return nil
}
