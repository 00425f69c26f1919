package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestEncodePayloadSmallEventKeepsEverything(t *testing.T) {
	id, err := domain.NewMessageID()
	require.NoError(t, err)

	evt := &domain.ChangeEvent{
		Type:       domain.EventMessageCreated,
		ChatID:     7,
		Seq:        3,
		Recipients: []int64{1, 2, 3},
		Message:    &domain.Message{ID: id, ChatID: 7, SenderID: 1, Content: "hi"},
	}

	payload, err := encodePayload(evt)
	require.NoError(t, err)

	var got domain.ChangeEvent
	require.NoError(t, json.Unmarshal(payload, &got))
	require.Equal(t, evt.Recipients, got.Recipients)
	require.NotNil(t, got.Message)
}

func TestEncodePayloadWideChannelCompacts(t *testing.T) {
	recipients := make([]int64, 600)
	for i := range recipients {
		recipients[i] = int64(1_000_000 + i)
	}

	id, err := domain.NewMessageID()
	require.NoError(t, err)

	evt := &domain.ChangeEvent{
		Type:       domain.EventMessageCreated,
		ChatID:     7,
		Seq:        42,
		Recipients: recipients,
		Message:    &domain.Message{ID: id, ChatID: 7, SenderID: 1, Content: "hi"},
	}

	payload, err := encodePayload(evt)
	require.NoError(t, err)
	require.LessOrEqual(t, len(payload), maxPayloadBytes)

	var got domain.ChangeEvent
	require.NoError(t, json.Unmarshal(payload, &got))
	// компактная форма: адресацию и тело дорезолвит notify-server
	require.Equal(t, domain.EventMessageCreated, got.Type)
	require.Equal(t, int64(7), got.ChatID)
	require.Equal(t, int64(42), got.Seq)
	require.Empty(t, got.Recipients)
	require.Nil(t, got.Message)
}

type fakeChats struct {
	chat *domain.Chat
	err  error
}

func (f fakeChats) GetByID(ctx context.Context, id int64) (*domain.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chat, nil
}

func TestResolveRecipientsFromChat(t *testing.T) {
	l := NewListener(nil, fakeChats{chat: &domain.Chat{ID: 7, Members: []int64{1, 2, 3}}}, nil)

	evt := &domain.ChangeEvent{Type: domain.EventMessageCreated, ChatID: 7, Seq: 42}
	require.NoError(t, l.resolveRecipients(context.Background(), evt))
	require.Equal(t, []int64{1, 2, 3}, evt.Recipients)
}

func TestResolveRecipientsDeletedChat(t *testing.T) {
	l := NewListener(nil, fakeChats{err: repository.ErrNotFound}, nil)

	evt := &domain.ChangeEvent{Type: domain.EventMessageCreated, ChatID: 404, Seq: 1}
	require.Error(t, l.resolveRecipients(context.Background(), evt))
	require.Empty(t, evt.Recipients)
}
