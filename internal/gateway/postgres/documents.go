package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

type documentRow struct {
	ID           string    `db:"id"`
	CollectionID string    `db:"collection_id"`
	Data         []byte    `db:"data"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r documentRow) toDocument() *gateway.Document {
	return &gateway.Document{
		ID:           r.ID,
		CollectionID: r.CollectionID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Data:         r.Data,
	}
}

const documentColumns = `id, collection_id, data, created_at, updated_at`

var attributePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (s *Store) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*gateway.Document, error) {
	raw, err := gateway.Marshal(data)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO documents (database_id, collection_id, id, data)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + documentColumns

	var row documentRow
	if err := s.db.GetContext(ctx, &row, query, databaseID, collectionID, documentID, string(raw)); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("document %s: %w", documentID, gateway.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return row.toDocument(), nil
}

func (s *Store) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*gateway.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE database_id = $1 AND collection_id = $2 AND id = $3
	`

	var row documentRow
	if err := s.db.GetContext(ctx, &row, query, databaseID, collectionID, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", documentID, gateway.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return row.toDocument(), nil
}

// UpdateDocument merges data into the stored body at the top level
func (s *Store) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*gateway.Document, error) {
	raw, err := gateway.Marshal(data)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE documents
		SET data = data || $4::jsonb, updated_at = now()
		WHERE database_id = $1 AND collection_id = $2 AND id = $3
		RETURNING ` + documentColumns

	var row documentRow
	if err := s.db.GetContext(ctx, &row, query, databaseID, collectionID, documentID, string(raw)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", documentID, gateway.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return row.toDocument(), nil
}

func (s *Store) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...gateway.Query) (*gateway.DocumentList, error) {
	where, args, err := buildFilter(databaseID, collectionID, queries)
	if err != nil {
		return nil, err
	}

	countQuery, countArgs, err := sqlx.In(`SELECT COUNT(*) FROM documents WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind(countQuery), countArgs...); err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	listQuery, listArgs, err := sqlx.In(`SELECT `+documentColumns+` FROM documents WHERE `+where+orderAndLimit(queries), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(listQuery), listArgs...); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	list := &gateway.DocumentList{Total: total, Documents: make([]gateway.Document, len(rows))}
	for i, row := range rows {
		list.Documents[i] = *row.toDocument()
	}
	return list, nil
}

// buildFilter turns equal queries into a WHERE clause with ? placeholders for sqlx.In
func buildFilter(databaseID, collectionID string, queries []gateway.Query) (string, []any, error) {
	clauses := []string{"database_id = ?", "collection_id = ?"}
	args := []any{databaseID, collectionID}

	for _, q := range queries {
		if q.Method != gateway.QueryEqual {
			continue
		}
		if len(q.Values) == 0 {
			return "", nil, fmt.Errorf("equal query on %s has no values", q.Attribute)
		}
		column, err := column(q.Attribute)
		if err != nil {
			return "", nil, err
		}
		values := make([]string, len(q.Values))
		for i, v := range q.Values {
			values[i] = fmt.Sprint(v)
		}
		clauses = append(clauses, column+" IN (?)")
		args = append(args, values)
	}
	return strings.Join(clauses, " AND "), args, nil
}

func column(attribute string) (string, error) {
	switch attribute {
	case gateway.AttrID:
		return "id", nil
	case gateway.AttrCreatedAt:
		return "created_at", nil
	case gateway.AttrUpdatedAt:
		return "updated_at", nil
	}
	if !attributePattern.MatchString(attribute) {
		return "", fmt.Errorf("invalid attribute %q", attribute)
	}
	return "data->>'" + attribute + "'", nil
}

func orderAndLimit(queries []gateway.Query) string {
	var order []string
	limit := ""
	for _, q := range queries {
		switch q.Method {
		case gateway.QueryOrderAsc, gateway.QueryOrderDesc:
			col, err := column(q.Attribute)
			if err != nil {
				continue
			}
			dir := "ASC"
			if q.Method == gateway.QueryOrderDesc {
				dir = "DESC"
			}
			order = append(order, col+" "+dir)
		case gateway.QueryLimit:
			if n, ok := q.LimitOf(); ok && n >= 0 {
				limit = fmt.Sprintf(" LIMIT %d", n)
			}
		}
	}
	if len(order) == 0 {
		order = []string{"created_at ASC"}
	}
	return " ORDER BY " + strings.Join(order, ", ") + limit
}
