package domain

type EventType string

const (
	EventChatCreated       EventType = "chat_created"
	EventMembershipChanged EventType = "membership_changed"
	EventMessageCreated    EventType = "message_created"
)

// ChangeEvent — закоммиченное изменение чата. Seq монотонно растёт в
// рамках одного чата и позволяет подписчику проверить порядок доставки.
// Recipients вычисляются в момент публикации — fanout-инстансы только
// фильтруют по этому множеству, не обращаясь к базе.
type ChangeEvent struct {
	Type       EventType `json:"type"`
	ChatID     int64     `json:"chat_id"`
	Seq        int64     `json:"seq"`
	Recipients []int64   `json:"recipients"`
	Chat       *Chat     `json:"chat,omitempty"`
	Message    *Message  `json:"message,omitempty"`
}

func (e *ChangeEvent) IsRecipient(userID int64) bool {
	for _, id := range e.Recipients {
		if id == userID {
			return true
		}
	}

	return false
}
