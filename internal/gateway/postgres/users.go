package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

const userColumns = `id, name, email, phone, created_at`

func (s *Store) CreateUser(ctx context.Context, userID, email, phone, name string) (*gateway.User, error) {
	query := `
		INSERT INTO directory_users (id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var user gateway.User
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query, userID, name, email, phone).
			Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.CreatedAt)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user with email %s: %w", email, gateway.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*gateway.User, error) {
	query := `SELECT ` + userColumns + ` FROM directory_users WHERE id = $1`

	var user gateway.User
	err := s.db.QueryRowxContext(ctx, query, userID).
		Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, gateway.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context, queries ...gateway.Query) (*gateway.UserList, error) {
	clauses := []string{"TRUE"}
	var args []any
	for _, q := range queries {
		if q.Method != gateway.QueryEqual || len(q.Values) == 0 {
			continue
		}
		var col string
		switch q.Attribute {
		case gateway.AttrID:
			col = "id"
		case "email":
			col = "lower(email)"
		case "phone":
			col = "phone"
		case "name":
			col = "name"
		default:
			return nil, fmt.Errorf("invalid user attribute %q", q.Attribute)
		}
		values := make([]string, len(q.Values))
		for i, v := range q.Values {
			values[i] = fmt.Sprint(v)
			if q.Attribute == "email" {
				values[i] = strings.ToLower(values[i])
			}
		}
		clauses = append(clauses, col+" IN (?)")
		args = append(args, values)
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM directory_users WHERE `+strings.Join(clauses, " AND ")+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	list := &gateway.UserList{}
	for rows.Next() {
		var u gateway.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		list.Users = append(list.Users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	list.Total = len(list.Users)
	return list, nil
}
