package postgres

import (
	"context"

	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/repository/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MessageRepo struct {
	q querier
}

func NewMessageRepoFromPool(q querier) *MessageRepo {
	return &MessageRepo{q: q}
}

func NewMessageRepoFromTx(tx pgx.Tx) *MessageRepo {
	return &MessageRepo{q: tx}
}

// Insert сохраняет сообщение с уже назначенным ID; created_at ставит база.
func (r *MessageRepo) Insert(ctx context.Context, m *domain.Message) error {
	err := r.q.QueryRow(
		ctx,
		queries.QueryInsertMessage,
		m.ID,
		m.ChatID,
		m.SenderID,
		m.Content,
		m.Files,
	).Scan(&m.CreatedAt)
	if err != nil {
		return mapPgError(err)
	}

	return nil
}

// List возвращает до limit сообщений с id строго меньше lastID (nil — с
// самых свежих), от новых к старым.
func (r *MessageRepo) List(ctx context.Context, chatID int64, lastID *uuid.UUID, limit int) ([]domain.Message, error) {
	rows, err := r.q.Query(ctx, queries.QueryListMessages, chatID, lastID, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.Files, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
