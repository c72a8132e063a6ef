package snapshot

import (
	"context"
	"database/sql"
	"sort"

	"github.com/TracecatHQ/caseboard/internal/model"
	"github.com/TracecatHQ/caseboard/internal/store"
)

// mockStore is a minimal in-memory store for snapshot tests.
type mockStore struct {
	cases map[string]*model.CaseSummary
}

func newMockStore() *mockStore {
	return &mockStore{cases: make(map[string]*model.CaseSummary)}
}

func (m *mockStore) CreateCase(_ context.Context, c *model.CaseSummary) error {
	m.cases[c.ID] = c
	return nil
}

func (m *mockStore) GetCase(_ context.Context, workspaceID, id string) (*model.CaseSummary, error) {
	c, ok := m.cases[id]
	if !ok || c.WorkspaceID != workspaceID {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockStore) ListCases(_ context.Context, _ model.CaseFilter) (*model.CasePage, error) {
	var items []*model.CaseSummary
	for _, c := range m.cases {
		items = append(items, c)
	}
	return &model.CasePage{Items: items}, nil
}

func (m *mockStore) UpdateCase(_ context.Context, c *model.CaseSummary) error {
	m.cases[c.ID] = c
	return nil
}

func (m *mockStore) CloseCase(_ context.Context, workspaceID, id string) (*model.CaseSummary, error) {
	c, err := m.GetCase(context.Background(), workspaceID, id)
	if err != nil {
		return nil, err
	}
	c.Status = model.StatusClosed
	return c, nil
}

func (m *mockStore) DeleteCase(_ context.Context, _ string, id string) error {
	delete(m.cases, id)
	return nil
}

func (m *mockStore) ListAllCases(_ context.Context) ([]*model.CaseSummary, error) {
	var result []*model.CaseSummary
	for _, c := range m.cases {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error {
	return nil
}
