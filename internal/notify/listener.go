package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/wangxiaochuang/05-chat/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler вызывается последовательно, в порядке коммитов. Блокироваться
// в нём нельзя — доставка в соединения идёт через bounded-очереди.
type Handler func(evt *domain.ChangeEvent)

// MemberResolver дорезолвливает получателей компактных событий,
// пришедших без списка Recipients.
type MemberResolver interface {
	GetByID(ctx context.Context, id int64) (*domain.Chat, error)
}

// Listener держит выделенное соединение с LISTEN и раздаёт события
// хендлеру. Каждый инстанс notify-server поднимает своего Listener,
// postgres доставляет уведомление всем — так масштабируемся горизонтально.
type Listener struct {
	pool    *pgxpool.Pool
	chats   MemberResolver
	handler Handler
}

func NewListener(pool *pgxpool.Pool, chats MemberResolver, handler Handler) *Listener {
	return &Listener{pool: pool, chats: chats, handler: handler}
}

// Run крутит цикл до отмены контекста. Любая другая ошибка фатальна:
// инстанс должен упасть и перезапуститься, а не молча терять события.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("notify: acquire listen conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("notify: listen %s: %w", Channel, err)
	}
	slog.Info("notify listener started", "channel", Channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("notify: wait notification: %w", err)
		}

		var evt domain.ChangeEvent
		if err := json.Unmarshal([]byte(n.Payload), &evt); err != nil {
			slog.Warn("notify: drop malformed payload", "err", err)
			continue
		}

		if len(evt.Recipients) == 0 {
			if err := l.resolveRecipients(ctx, &evt); err != nil {
				slog.Warn("notify: resolve recipients failed",
					"chat_id", evt.ChatID, "err", err)
				continue
			}
		}

		l.handler(&evt)
	}
}

// resolveRecipients читает актуальный состав чата для компактного
// события. Чат мог быть удалён между коммитом и доставкой — тогда
// событие некому слать.
func (l *Listener) resolveRecipients(ctx context.Context, evt *domain.ChangeEvent) error {
	chat, err := l.chats.GetByID(ctx, evt.ChatID)
	if err != nil {
		return err
	}
	evt.Recipients = chat.Members

	return nil
}
