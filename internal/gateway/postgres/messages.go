package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

// CreateSMS records the message in sms_messages, where the SMS provider integration
// picks it up
func (s *Store) CreateSMS(ctx context.Context, messageID, content string, topics, userIDs []string) (*gateway.Receipt, error) {
	query := `
		INSERT INTO sms_messages (id, content, topics, user_ids)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status
	`

	// topics and user_ids are NOT NULL; pq binds a nil slice as NULL
	if topics == nil {
		topics = []string{}
	}
	if userIDs == nil {
		userIDs = []string{}
	}

	var receipt gateway.Receipt
	err := s.db.QueryRowxContext(ctx, query, messageID, content, pq.Array(topics), pq.Array(userIDs)).
		Scan(&receipt.ID, &receipt.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("message %s: %w", messageID, gateway.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create sms: %w", err)
	}
	return &receipt, nil
}
