package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/notify"
	"github.com/wangxiaochuang/05-chat/internal/repository"
	"github.com/wangxiaochuang/05-chat/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

type ChatService struct {
	pool  *pgxpool.Pool
	chats *postgres.ChatRepo
	users repository.UserRepository
	pub   *notify.Publisher
}

func NewChatService(pool *pgxpool.Pool, users repository.UserRepository, pub *notify.Publisher) *ChatService {
	return &ChatService{
		pool:  pool,
		chats: postgres.NewChatRepoFromPool(pool),
		users: users,
		pub:   pub,
	}
}

// CreateChat создаёт чат; тип выводится из имени и числа участников.
// Создатель всегда входит в состав. Событие chat_created публикуется
// в той же транзакции, что и вставка.
func (s *ChatService) CreateChat(ctx context.Context, wsID, creatorID int64, name *string, members []int64, public bool) (*domain.Chat, error) {
	if !lo.Contains(members, creatorID) {
		members = append([]int64{creatorID}, members...)
	}

	chat, err := domain.NewChat(wsID, name, members, public)
	if err != nil {
		return nil, err
	}

	count, err := s.users.CountByIDs(ctx, chat.Members)
	if err != nil {
		slog.Error("chat.create.countMembers failed", slog.Any("err", err))
		return nil, err
	}
	if count != len(chat.Members) {
		return nil, fmt.Errorf("%w: some members do not exist", domain.ErrInvalidMembership)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	chatsTx := postgres.NewChatRepoFromTx(tx)

	created, err := chatsTx.Create(ctx, chat)
	if err != nil {
		slog.Error("chat.create.insert failed", slog.Any("err", err))
		return nil, err
	}

	seq, err := chatsTx.NextEventSeq(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	evt := &domain.ChangeEvent{
		Type:       domain.EventChatCreated,
		ChatID:     created.ID,
		Seq:        seq,
		Recipients: created.Members,
		Chat:       created,
	}
	if err := s.pub.Publish(ctx, tx, evt); err != nil {
		slog.Error("chat.create.publish failed", slog.Any("err", err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return created, nil
}

// GetChat доступен только участникам.
func (s *ChatService) GetChat(ctx context.Context, chatID, userID int64) (*domain.Chat, error) {
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

	return chat, nil
}

// ListChats — чаты workspace, в которых состоит пользователь.
func (s *ChatService) ListChats(ctx context.Context, wsID, userID int64) ([]domain.Chat, error) {
	return s.chats.ListForMember(ctx, wsID, userID)
}

// UpdateChatName переименовывает канал. single и group имени не имеют:
// появление имени меняло бы тип, а тип после создания неизменен.
func (s *ChatService) UpdateChatName(ctx context.Context, chatID, actorID int64, name *string) (*domain.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !chat.IsMember(actorID) {
		return nil, domain.ErrNotMember
	}
	if !chat.MutableMembership() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidChatType, chat.Type)
	}
	if name == nil || *name == "" {
		return nil, fmt.Errorf("%w: channel name must not be empty", domain.ErrInvalidInput)
	}

	updated, err := s.chats.UpdateName(ctx, chatID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return updated, nil
}

// DeleteChat помечает чат удалённым; сообщения остаются в базе.
func (s *ChatService) DeleteChat(ctx context.Context, chatID, actorID int64) error {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if !chat.IsMember(actorID) {
		return domain.ErrNotMember
	}

	if _, err := s.chats.Delete(ctx, chatID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// AddMember добавляет участника в канал. Вся мутация идёт под FOR UPDATE:
// конкурентные изменения состава сериализуются по строке чата.
func (s *ChatService) AddMember(ctx context.Context, chatID, actorID, memberID int64) (*domain.Chat, error) {
	count, err := s.users.CountByIDs(ctx, []int64{memberID})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, memberID)
	}

	return s.mutateMembers(ctx, chatID, actorID, func(chat *domain.Chat) error {
		return chat.AddMember(memberID)
	})
}

// RemoveMember выводит участника из канала; удалённый входит в
// recipients события, чтобы его клиенты узнали об исключении.
func (s *ChatService) RemoveMember(ctx context.Context, chatID, actorID, memberID int64) (*domain.Chat, error) {
	return s.mutateMembers(ctx, chatID, actorID, func(chat *domain.Chat) error {
		if len(chat.Members) <= 1 {
			return fmt.Errorf("%w: cannot remove the last member", domain.ErrInvalidMembership)
		}
		return chat.RemoveMember(memberID)
	})
}

func (s *ChatService) mutateMembers(ctx context.Context, chatID, actorID int64, mutate func(*domain.Chat) error) (*domain.Chat, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	chatsTx := postgres.NewChatRepoFromTx(tx)

	chat, err := chatsTx.GetByIDForUpdate(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !chat.IsMember(actorID) {
		return nil, domain.ErrNotMember
	}

	before := chat.Members
	if err := mutate(chat); err != nil {
		return nil, err
	}

	updated, err := chatsTx.UpdateMembers(ctx, chatID, chat.Members)
	if err != nil {
		slog.Error("chat.mutateMembers.update failed", slog.Any("err", err))
		return nil, err
	}

	seq, err := chatsTx.NextEventSeq(ctx, chatID)
	if err != nil {
		return nil, err
	}

	// объединение старого и нового составов: и добавленный, и удалённый
	// получают уведомление
	evt := &domain.ChangeEvent{
		Type:       domain.EventMembershipChanged,
		ChatID:     chatID,
		Seq:        seq,
		Recipients: lo.Union(before, updated.Members),
		Chat:       updated,
	}
	if err := s.pub.Publish(ctx, tx, evt); err != nil {
		slog.Error("chat.mutateMembers.publish failed", slog.Any("err", err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return updated, nil
}
