package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wangxiaochuang/05-chat/internal/blob"
	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/notify"
	"github.com/wangxiaochuang/05-chat/internal/repository"
	"github.com/wangxiaochuang/05-chat/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxContentBytes ограничивает текст сообщения; обычное событие с ним
// влезает в pg_notify, переполнение по другим полям гасит компактная
// форма на стороне publisher.
const MaxContentBytes = 4000

const (
	defaultMessageLimit = 20
	maxMessageLimit     = 100
)

type MessageService struct {
	pool  *pgxpool.Pool
	chats *postgres.ChatRepo
	msgs  *postgres.MessageRepo
	blobs *blob.Store
	pub   *notify.Publisher
}

func NewMessageService(pool *pgxpool.Pool, blobs *blob.Store, pub *notify.Publisher) *MessageService {
	return &MessageService{
		pool:  pool,
		chats: postgres.NewChatRepoFromPool(pool),
		msgs:  postgres.NewMessageRepoFromPool(pool),
		blobs: blobs,
		pub:   pub,
	}
}

// AppendMessage дописывает сообщение в чат. Состав чата читается под
// FOR UPDATE: конкурентное исключение отправителя либо завершится до
// вставки (и вставка отклонится), либо после (и сообщение останется от
// ещё-участника). Событие message_created уходит в той же транзакции.
func (s *MessageService) AppendMessage(ctx context.Context, wsID, chatID, senderID int64, content string, files []string) (*domain.Message, error) {
	if content == "" && len(files) == 0 {
		return nil, fmt.Errorf("%w: message must have content or files", domain.ErrInvalidInput)
	}
	if len(content) > MaxContentBytes {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", domain.ErrInvalidInput, MaxContentBytes)
	}

	for _, raw := range files {
		f, err := domain.ChatFileFromURL(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid file url %q", domain.ErrInvalidInput, raw)
		}
		if f.WsID != wsID {
			return nil, fmt.Errorf("%w: file %q belongs to another workspace", domain.ErrInvalidInput, raw)
		}
		if !s.blobs.Exists(f) {
			return nil, fmt.Errorf("%w: file %q is not uploaded", domain.ErrInvalidInput, raw)
		}
	}

	id, err := domain.NewMessageID()
	if err != nil {
		return nil, fmt.Errorf("new message id: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	chatsTx := postgres.NewChatRepoFromTx(tx)
	msgsTx := postgres.NewMessageRepoFromTx(tx)

	chat, err := chatsTx.GetByIDForUpdate(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !chat.IsMember(senderID) {
		return nil, domain.ErrNotMember
	}

	msg := &domain.Message{
		ID:       id,
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
		Files:    files,
	}
	if err := msgsTx.Insert(ctx, msg); err != nil {
		slog.Error("message.append.insert failed", slog.Any("err", err))
		return nil, err
	}

	seq, err := chatsTx.NextEventSeq(ctx, chatID)
	if err != nil {
		return nil, err
	}

	evt := &domain.ChangeEvent{
		Type:       domain.EventMessageCreated,
		ChatID:     chatID,
		Seq:        seq,
		Recipients: chat.Members,
		Message:    msg,
	}
	if err := s.pub.Publish(ctx, tx, evt); err != nil {
		slog.Error("message.append.publish failed", slog.Any("err", err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return msg, nil
}

// ListMessages — страница от новых к старым; lastID исключается из
// результата, nil означает самый свежий край.
func (s *MessageService) ListMessages(ctx context.Context, chatID, userID int64, lastID *uuid.UUID, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !chat.IsMember(userID) {
		return nil, domain.ErrNotMember
	}

	return s.msgs.List(ctx, chatID, lastID, limit)
}
