package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/TracecatHQ/caseboard/internal/model"
)

// caseColumns is the column list used for SELECT statements on the cases table.
const caseColumns = `id, workspace_id, summary, description, status, priority,
	severity, assignee_id, assignee_email, created_at, updated_at`

// Page-size bounds for list queries.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateCase(ctx context.Context, db executor, c *model.CaseSummary) error {
	var assigneeID, assigneeEmail sql.NullString
	if c.Assignee != nil {
		assigneeID = nullString(c.Assignee.ID)
		assigneeEmail = nullString(c.Assignee.Email)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO cases (
			id, workspace_id, summary, description, status, priority,
			severity, assignee_id, assignee_email, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11
		)`,
		c.ID,
		c.WorkspaceID,
		c.Summary,
		c.Description,
		string(c.Status),
		string(c.Priority),
		string(c.Severity),
		assigneeID,
		assigneeEmail,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return insertRelations(ctx, db, c)
}

func insertRelations(ctx context.Context, db executor, c *model.CaseSummary) error {
	for i, t := range c.Tags {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO case_tags (case_id, tag_ref, name, position) VALUES ($1, $2, $3, $4)`,
			c.ID, t.Ref, t.Name, i,
		); err != nil {
			return err
		}
	}
	for _, v := range c.DropdownValues {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO case_dropdown_values (case_id, definition_ref, option_ref) VALUES ($1, $2, $3)`,
			c.ID, v.DefinitionRef, v.OptionRef,
		); err != nil {
			return err
		}
	}
	return nil
}

func queryGetCase(ctx context.Context, db executor, workspaceID, id string) (*model.CaseSummary, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+caseColumns+` FROM cases WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	c, err := scanCase(row)
	if err != nil {
		return nil, err
	}
	if err := attachRelations(ctx, db, []*model.CaseSummary{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// queryListCases runs a keyset-cursor page query. Ordering is always
// (updated_at, id) in the requested direction; the cursor encodes the sort
// keys of the last returned item. One extra row is fetched to decide
// has_more without a count query.
func queryListCases(ctx context.Context, db executor, filter model.CaseFilter) (*model.CasePage, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	whereClauses = append(whereClauses, "workspace_id = "+nextArg())
	args = append(args, filter.WorkspaceID)

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.Priority) > 0 {
		placeholders := make([]string, len(filter.Priority))
		for i, p := range filter.Priority {
			placeholders[i] = nextArg()
			args = append(args, string(p))
		}
		whereClauses = append(whereClauses, "priority IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.Severity) > 0 {
		placeholders := make([]string, len(filter.Severity))
		for i, s := range filter.Severity {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "severity IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.AssigneeIDs) > 0 {
		var ids []string
		unassigned := false
		for _, a := range filter.AssigneeIDs {
			if a == model.UnassignedToken {
				unassigned = true
			} else {
				ids = append(ids, a)
			}
		}
		var parts []string
		if len(ids) > 0 {
			placeholders := make([]string, len(ids))
			for i, id := range ids {
				placeholders[i] = nextArg()
				args = append(args, id)
			}
			parts = append(parts, "assignee_id IN ("+strings.Join(placeholders, ", ")+")")
		}
		if unassigned {
			parts = append(parts, "assignee_id IS NULL")
		}
		whereClauses = append(whereClauses, "("+strings.Join(parts, " OR ")+")")
	}

	if len(filter.TagRefs) > 0 {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("EXISTS (SELECT 1 FROM case_tags WHERE case_tags.case_id = cases.id AND case_tags.tag_ref = ANY(%s))", p))
		args = append(args, pq.Array(filter.TagRefs))
	}

	// Dropdown filters: OR within a definition, AND across definitions.
	// Definitions are visited in sorted order so the generated SQL is
	// deterministic for a given filter.
	if len(filter.Dropdowns) > 0 {
		defs := make([]string, 0, len(filter.Dropdowns))
		for def := range filter.Dropdowns {
			defs = append(defs, def)
		}
		sort.Strings(defs)
		for _, def := range defs {
			opts := filter.Dropdowns[def]
			if len(opts) == 0 {
				continue
			}
			defArg := nextArg()
			args = append(args, def)
			optArg := nextArg()
			args = append(args, pq.Array(opts))
			whereClauses = append(whereClauses,
				fmt.Sprintf("EXISTS (SELECT 1 FROM case_dropdown_values d WHERE d.case_id = cases.id AND d.definition_ref = %s AND d.option_ref = ANY(%s))", defArg, optArg))
		}
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(summary ILIKE '%%' || %s || '%%' OR description ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, filter.Search)
	}

	cmp, dir := ">", "ASC"
	if filter.Descending {
		cmp, dir = "<", "DESC"
	}

	if filter.Cursor != "" {
		cur, err := decodeCursor(filter.Cursor)
		if err != nil {
			return nil, err
		}
		tArg := nextArg()
		args = append(args, cur.UpdatedAt)
		idArg := nextArg()
		args = append(args, cur.ID)
		whereClauses = append(whereClauses,
			fmt.Sprintf("(updated_at, id) %s (%s, %s)", cmp, tArg, idArg))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := `SELECT ` + caseColumns + ` FROM cases WHERE ` +
		strings.Join(whereClauses, " AND ") +
		fmt.Sprintf(" ORDER BY updated_at %s, id %s LIMIT %d", dir, dir, limit+1)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.CaseSummary
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	page := &model.CasePage{}
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		page.HasMore = true
		page.NextCursor = encodeCursor(last.UpdatedAt, last.ID)
	}
	if err := attachRelations(ctx, db, items); err != nil {
		return nil, err
	}
	page.Items = items
	return page, nil
}

func queryUpdateCase(ctx context.Context, db executor, c *model.CaseSummary) error {
	var assigneeID, assigneeEmail sql.NullString
	if c.Assignee != nil {
		assigneeID = nullString(c.Assignee.ID)
		assigneeEmail = nullString(c.Assignee.Email)
	}
	res, err := db.ExecContext(ctx, `
		UPDATE cases SET
			summary = $1, description = $2, status = $3, priority = $4,
			severity = $5, assignee_id = $6, assignee_email = $7, updated_at = $8
		WHERE workspace_id = $9 AND id = $10`,
		c.Summary,
		c.Description,
		string(c.Status),
		string(c.Priority),
		string(c.Severity),
		assigneeID,
		assigneeEmail,
		c.UpdatedAt,
		c.WorkspaceID,
		c.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	// Replace relational rows wholesale; updates carry the full set.
	if _, err := db.ExecContext(ctx, `DELETE FROM case_tags WHERE case_id = $1`, c.ID); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM case_dropdown_values WHERE case_id = $1`, c.ID); err != nil {
		return err
	}
	return insertRelations(ctx, db, c)
}

func queryCloseCase(ctx context.Context, db executor, workspaceID, id string) (*model.CaseSummary, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE cases SET status = $1, updated_at = NOW() WHERE workspace_id = $2 AND id = $3`,
		string(model.StatusClosed), workspaceID, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, sql.ErrNoRows
	}
	return queryGetCase(ctx, db, workspaceID, id)
}

func queryDeleteCase(ctx context.Context, db executor, workspaceID, id string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM cases WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryListAllCases(ctx context.Context, db executor) ([]*model.CaseSummary, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+caseColumns+` FROM cases ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.CaseSummary
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachRelations(ctx, db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachRelations batch-loads tags and dropdown values for the given cases.
func attachRelations(ctx context.Context, db executor, cases []*model.CaseSummary) error {
	if len(cases) == 0 {
		return nil
	}
	ids := make([]string, len(cases))
	byID := make(map[string]*model.CaseSummary, len(cases))
	for i, c := range cases {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	rows, err := db.QueryContext(ctx,
		`SELECT case_id, tag_ref, name FROM case_tags WHERE case_id = ANY($1) ORDER BY case_id, position`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var caseID string
		var tag model.Tag
		if err := rows.Scan(&caseID, &tag.Ref, &tag.Name); err != nil {
			return err
		}
		if c, ok := byID[caseID]; ok {
			c.Tags = append(c.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	dvRows, err := db.QueryContext(ctx,
		`SELECT case_id, definition_ref, option_ref FROM case_dropdown_values WHERE case_id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer dvRows.Close()
	for dvRows.Next() {
		var caseID string
		var v model.DropdownValue
		if err := dvRows.Scan(&caseID, &v.DefinitionRef, &v.OptionRef); err != nil {
			return err
		}
		if c, ok := byID[caseID]; ok {
			c.DropdownValues = append(c.DropdownValues, v)
		}
	}
	return dvRows.Err()
}
