package repository

import (
	"context"
	"fmt"

	"github.com/calendargpt/calendargpt/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepo stores the per-user conversation history replayed to the model.
type HistoryRepo struct {
	db *pgxpool.Pool
}

func NewHistoryRepo(db *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Append(ctx context.Context, userID, content string, isUser bool) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO conversation_messages (user_id, content, is_user) VALUES ($1, $2, $3)`,
		userID, content, isUser,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns the newest n messages in chronological order.
func (r *HistoryRepo) Recent(ctx context.Context, userID string, n int) ([]domain.ConversationMessage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, content, is_user, created_at
		 FROM (
		     SELECT id, user_id, content, is_user, created_at
		     FROM conversation_messages
		     WHERE user_id = $1
		     ORDER BY id DESC
		     LIMIT $2
		 ) recent
		 ORDER BY id ASC`,
		userID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ConversationMessage
	for rows.Next() {
		var m domain.ConversationMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.IsUser, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Trim deletes everything older than the newest keep messages.
func (r *HistoryRepo) Trim(ctx context.Context, userID string, keep int) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM conversation_messages
		 WHERE user_id = $1 AND id NOT IN (
		     SELECT id FROM conversation_messages
		     WHERE user_id = $1
		     ORDER BY id DESC
		     LIMIT $2
		 )`,
		userID, keep,
	)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}
