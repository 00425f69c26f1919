package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

type ChatType string

const (
	ChatTypeSingle         ChatType = "single"
	ChatTypeGroup          ChatType = "group"
	ChatTypePrivateChannel ChatType = "private_channel"
	ChatTypePublicChannel  ChatType = "public_channel"
)

// Chat живёт внутри одного workspace; members — упорядоченное множество
// без дублей, непустое. single не имеет имени и всегда ровно 2 участника.
type Chat struct {
	ID        int64     `json:"id" db:"id"`
	WsID      int64     `json:"ws_id" db:"ws_id"`
	Name      *string   `json:"name,omitempty" db:"name"`
	Type      ChatType  `json:"type" db:"type"`
	Members   []int64   `json:"members" db:"members"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewChat валидирует входные данные и выводит тип чата:
// без имени и ровно 2 участника — single; без имени до 8 — group;
// больше 8 без имени не бывает; с именем — канал (public/private по флагу).
func NewChat(wsID int64, name *string, members []int64, public bool) (*Chat, error) {
	members = NormalizeMembers(members)
	if len(members) < 2 {
		return nil, fmt.Errorf("%w: chat must have at least 2 members", ErrInvalidMembership)
	}

	name = trimName(name)
	if name == nil && len(members) > 8 {
		return nil, fmt.Errorf("%w: group chat with more than 8 members must have a name", ErrInvalidMembership)
	}

	var typ ChatType
	switch {
	case name == nil && len(members) == 2:
		typ = ChatTypeSingle
	case name == nil:
		typ = ChatTypeGroup
	case public:
		typ = ChatTypePublicChannel
	default:
		typ = ChatTypePrivateChannel
	}

	return &Chat{
		WsID:    wsID,
		Name:    name,
		Type:    typ,
		Members: members,
	}, nil
}

// NormalizeMembers убирает дубли, сохраняя исходный порядок.
func NormalizeMembers(members []int64) []int64 {
	return lo.Uniq(members)
}

func (c *Chat) IsMember(userID int64) bool {
	return lo.Contains(c.Members, userID)
}

// MutableMembership — менять состав можно только у каналов;
// single и group фиксируются при создании.
func (c *Chat) MutableMembership() bool {
	return c.Type == ChatTypePrivateChannel || c.Type == ChatTypePublicChannel
}

// AddMember изменяет множество in-place; атомарность по отношению к
// конкурентным читателям обеспечивает хранилище, а не эта структура.
func (c *Chat) AddMember(userID int64) error {
	if !c.MutableMembership() {
		return fmt.Errorf("%w: %s", ErrInvalidChatType, c.Type)
	}
	if c.IsMember(userID) {
		return ErrAlreadyMember
	}
	c.Members = append(c.Members, userID)

	return nil
}

func (c *Chat) RemoveMember(userID int64) error {
	if !c.MutableMembership() {
		return fmt.Errorf("%w: %s", ErrInvalidChatType, c.Type)
	}
	if !c.IsMember(userID) {
		return ErrNotMember
	}
	c.Members = lo.Without(c.Members, userID)

	return nil
}

func trimName(p *string) *string {
	if p == nil {
		return nil
	}
	t := strings.TrimSpace(*p)
	if t == "" {
		return nil
	}

	return &t
}
