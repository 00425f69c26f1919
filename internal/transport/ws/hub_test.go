package ws

import (
	"testing"

	"github.com/wangxiaochuang/05-chat/internal/domain"

	"github.com/stretchr/testify/require"
)

func drain(c *Conn) []Frame {
	var out []Frame
	for {
		select {
		case f := <-c.queue:
			out = append(out, f)
		default:
			return out
		}
	}
}

func TestDispatchFiltersByRecipients(t *testing.T) {
	hub := NewHub()

	alice := newConn(nil, 1)
	bob := newConn(nil, 2)
	carol := newConn(nil, 3)
	hub.Add(alice)
	hub.Add(bob)
	hub.Add(carol)

	hub.Dispatch(&domain.ChangeEvent{
		Type:       domain.EventMessageCreated,
		ChatID:     7,
		Seq:        1,
		Recipients: []int64{1, 2},
	})

	require.Len(t, drain(alice), 1)
	require.Len(t, drain(bob), 1)
	require.Empty(t, drain(carol))
}

func TestDispatchReachesAllDevicesOfUser(t *testing.T) {
	hub := NewHub()

	phone := newConn(nil, 1)
	laptop := newConn(nil, 1)
	hub.Add(phone)
	hub.Add(laptop)

	hub.Dispatch(&domain.ChangeEvent{
		Type:       domain.EventChatCreated,
		ChatID:     7,
		Seq:        1,
		Recipients: []int64{1},
	})

	require.Len(t, drain(phone), 1)
	require.Len(t, drain(laptop), 1)
}

func TestRemoveStopsDelivery(t *testing.T) {
	hub := NewHub()

	c := newConn(nil, 1)
	hub.Add(c)
	hub.Remove(c)

	hub.Dispatch(&domain.ChangeEvent{
		Type:       domain.EventMessageCreated,
		ChatID:     7,
		Recipients: []int64{1},
	})

	require.Empty(t, drain(c))
}

func TestEnqueueOverflowDropsOldestAndMarksGap(t *testing.T) {
	c := newConn(nil, 1)

	total := sendQueueCap + 10
	for i := 0; i < total; i++ {
		c.Enqueue(Frame{Type: TypeEvent, Event: &domain.ChangeEvent{ChatID: 7, Seq: int64(i + 1)}})
	}

	frames := drain(c)
	require.Len(t, frames, sendQueueCap)
	// выжили самые свежие кадры
	require.Equal(t, int64(total), frames[len(frames)-1].Event.Seq)
	require.Equal(t, int64(total-sendQueueCap+1), frames[0].Event.Seq)
	require.True(t, c.takeGap())
	// флаг одноразовый
	require.False(t, c.takeGap())
}

func TestEnqueueWithoutOverflowKeepsOrderNoGap(t *testing.T) {
	c := newConn(nil, 1)

	for i := 0; i < 10; i++ {
		c.Enqueue(Frame{Type: TypeEvent, Event: &domain.ChangeEvent{ChatID: 7, Seq: int64(i + 1)}})
	}

	frames := drain(c)
	require.Len(t, frames, 10)
	for i, f := range frames {
		require.Equal(t, int64(i+1), f.Event.Seq)
	}
	require.False(t, c.takeGap())
}
