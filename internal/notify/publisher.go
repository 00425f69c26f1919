package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wangxiaochuang/05-chat/internal/domain"

	"github.com/jackc/pgx/v5"
)

// Channel — общий broadcast-канал всех инстансов notify-server.
const Channel = "chat_events"

// pg_notify жёстко ограничен ~8000 байт; оставляем запас на служебные поля.
const maxPayloadBytes = 7500

// Publisher отправляет ChangeEvent через pg_notify ВНУТРИ транзакции
// мутации: postgres доставит уведомление только после коммита и в
// порядке коммитов, поэтому подписчик никогда не видит событие раньше,
// чем сможет прочитать само изменение. Ошибка публикации откатывает
// транзакцию — событие либо выходит ровно один раз, либо мутации нет.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, tx pgx.Tx, evt *domain.ChangeEvent) error {
	payload, err := encodePayload(evt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, Channel, string(payload)); err != nil {
		return fmt.Errorf("notify: pg_notify: %w", err)
	}

	return nil
}

// encodePayload сериализует событие; если JSON не влезает в лимит
// pg_notify (широкий канал даёт длинный список получателей), уходит
// компактная форма — только тип, chat_id и seq. Получателей для неё
// дорезолвливает notify-server, клиенты перечитывают историю чата.
func encodePayload(evt *domain.ChangeEvent) ([]byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("notify: encode event: %w", err)
	}
	if len(payload) <= maxPayloadBytes {
		return payload, nil
	}

	compact := &domain.ChangeEvent{
		Type:   evt.Type,
		ChatID: evt.ChatID,
		Seq:    evt.Seq,
	}
	payload, err = json.Marshal(compact)
	if err != nil {
		return nil, fmt.Errorf("notify: encode compact event: %w", err)
	}

	return payload, nil
}
