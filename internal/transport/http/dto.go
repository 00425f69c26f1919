package http

import (
	"time"

	"github.com/wangxiaochuang/05-chat/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// один валидатор на процесс, кэширует метаданные структур
var validate = validator.New(validator.WithRequiredStructEnabled())

type SignupRequest struct {
	Workspace string `json:"workspace" validate:"required,min=1,max=64"`
	Fullname  string `json:"fullname" validate:"required,min=1,max=128"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type CreateChatRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=128"`
	Members []int64 `json:"members" validate:"required,min=1,dive,gt=0"`
	Public  bool    `json:"public"`
}

type UpdateChatRequest struct {
	Name *string `json:"name" validate:"required,min=1,max=128"`
}

type ChatMemberRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type SendMessageRequest struct {
	Content string   `json:"content" validate:"max=4000"`
	Files   []string `json:"files" validate:"omitempty,dive,uri"`
}

type ChatItem struct {
	ID        int64           `json:"id"`
	WsID      int64           `json:"ws_id"`
	Name      *string         `json:"name,omitempty"`
	Type      domain.ChatType `json:"type"`
	Members   []int64         `json:"members"`
	CreatedAt time.Time       `json:"created_at"`
}

type MessageItem struct {
	ID        uuid.UUID `json:"id"`
	ChatID    int64     `json:"chat_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	Files     []string  `json:"files"`
	CreatedAt time.Time `json:"created_at"`
}

func toChatItem(c *domain.Chat) ChatItem {
	return ChatItem{
		ID:        c.ID,
		WsID:      c.WsID,
		Name:      c.Name,
		Type:      c.Type,
		Members:   c.Members,
		CreatedAt: c.CreatedAt,
	}
}

func toMessageItem(m *domain.Message) MessageItem {
	files := m.Files
	if files == nil {
		files = []string{}
	}
	return MessageItem{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Files:     files,
		CreatedAt: m.CreatedAt,
	}
}
