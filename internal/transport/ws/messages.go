package ws

import "github.com/wangxiaochuang/05-chat/internal/domain"

// Кадры, которые уходят клиенту
const (
	TypeReady = "ready" // подписка активна, события пойдут следом
	TypeEvent = "event" // ChangeEvent чата
	TypeGap   = "gap"   // часть событий потеряна, клиенту нужно перечитать историю
)

type Frame struct {
	Type  string              `json:"type"`
	Event *domain.ChangeEvent `json:"event,omitempty"`
}
