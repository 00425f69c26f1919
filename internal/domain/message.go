package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message append-only: после коммита не меняется и не удаляется.
// ID — UUIDv7: глобально уникален, монотонен и сравним между чатами,
// поэтому курсор last_id работает без per-chat счётчиков.
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChatID    int64     `json:"chat_id" db:"chat_id"`
	SenderID  int64     `json:"sender_id" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	Files     []string  `json:"files" db:"files"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewMessageID() (uuid.UUID, error) {
	return uuid.NewV7()
}
