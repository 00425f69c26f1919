package notify

import (
	"encoding/json"
	"testing"

	"github.com/wangxiaochuang/05-chat/internal/domain"

	"github.com/stretchr/testify/require"
)

// Формат payload общий для publisher и listener; изменение имён полей
// ломает события между разноверсионными инстансами.
func TestEventWireFormat(t *testing.T) {
	id, err := domain.NewMessageID()
	require.NoError(t, err)

	evt := &domain.ChangeEvent{
		Type:       domain.EventMessageCreated,
		ChatID:     7,
		Seq:        42,
		Recipients: []int64{1, 2},
		Message:    &domain.Message{ID: id, ChatID: 7, SenderID: 1, Content: "hi"},
	}

	payload, err := json.Marshal(evt)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"type":"message_created"`)
	require.Contains(t, string(payload), `"chat_id":7`)
	require.Contains(t, string(payload), `"seq":42`)

	var got domain.ChangeEvent
	require.NoError(t, json.Unmarshal(payload, &got))
	require.Equal(t, evt.Type, got.Type)
	require.Equal(t, evt.Seq, got.Seq)
	require.Equal(t, evt.Recipients, got.Recipients)
	require.Equal(t, evt.Message.ID, got.Message.ID)
	require.True(t, got.IsRecipient(2))
	require.False(t, got.IsRecipient(3))
}
