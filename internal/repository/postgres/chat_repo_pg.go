package postgres

import (
	"context"
	"errors"

	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/repository"
	"github.com/wangxiaochuang/05-chat/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type ChatRepo struct {
	q querier
}

func NewChatRepoFromPool(q querier) *ChatRepo {
	return &ChatRepo{q: q}
}

func NewChatRepoFromTx(tx pgx.Tx) *ChatRepo {
	return &ChatRepo{q: tx}
}

func (r *ChatRepo) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	return r.getOne(ctx, queries.QueryCreateChat, chat.WsID, chat.Name, chat.Type, chat.Members)
}

func (r *ChatRepo) GetByID(ctx context.Context, id int64) (*domain.Chat, error) {
	return r.getOne(ctx, queries.QueryGetChatByID, id)
}

// GetByIDForUpdate блокирует строку чата до конца транзакции.
// Использовать только с репозиторием, построенным от pgx.Tx.
func (r *ChatRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Chat, error) {
	return r.getOne(ctx, queries.QueryGetChatByIDForUpdate, id)
}

func (r *ChatRepo) ListForMember(ctx context.Context, wsID, userID int64) ([]domain.Chat, error) {
	rows, err := r.q.Query(ctx, queries.QueryListChatsForMember, wsID, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var out []domain.Chat
	for rows.Next() {
		var c domain.Chat
		if err := scanChat(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *ChatRepo) UpdateName(ctx context.Context, id int64, name *string) (*domain.Chat, error) {
	return r.getOne(ctx, queries.QueryUpdateChatName, id, name)
}

func (r *ChatRepo) UpdateMembers(ctx context.Context, id int64, members []int64) (*domain.Chat, error) {
	return r.getOne(ctx, queries.QueryUpdateChatMembers, id, members)
}

func (r *ChatRepo) Delete(ctx context.Context, id int64) (*domain.Chat, error) {
	return r.getOne(ctx, queries.QueryDeleteChat, id)
}

// NextEventSeq выдаёт очередной номер события чата. Вызывается внутри
// транзакции мутации, поэтому порядок номеров совпадает с порядком коммитов.
func (r *ChatRepo) NextEventSeq(ctx context.Context, chatID int64) (int64, error) {
	var seq int64
	err := r.q.QueryRow(ctx, queries.QueryNextChatEventSeq, chatID).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, mapPgError(err)
	}

	return seq, nil
}

func (r *ChatRepo) getOne(ctx context.Context, sql string, args ...any) (*domain.Chat, error) {
	var c domain.Chat
	err := scanChat(r.q.QueryRow(ctx, sql, args...), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPgError(err)
	}

	return &c, nil
}

func scanChat(row pgx.Row, c *domain.Chat) error {
	return row.Scan(&c.ID, &c.WsID, &c.Name, &c.Type, &c.Members, &c.CreatedAt)
}
