package postgres

import (
	"database/sql"

	"github.com/TracecatHQ/caseboard/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanCase scans a single row into a model.CaseSummary.
// The row must contain columns in the order defined by caseColumns.
func scanCase(row scannable) (*model.CaseSummary, error) {
	var c model.CaseSummary
	var (
		description   sql.NullString
		assigneeID    sql.NullString
		assigneeEmail sql.NullString
	)

	err := row.Scan(
		&c.ID,
		&c.WorkspaceID,
		&c.Summary,
		&description,
		&c.Status,
		&c.Priority,
		&c.Severity,
		&assigneeID,
		&assigneeEmail,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	if assigneeID.Valid {
		c.Assignee = &model.Assignee{
			ID:    assigneeID.String,
			Email: assigneeEmail.String,
		}
	}

	return &c, nil
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
