package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Ёмкость исходящей очереди соединения. Переполнение не блокирует
// fanout: старые кадры вытесняются, клиент получает gap.
const sendQueueCap = 256

type connState int32

const (
	stateConnecting connState = iota
	stateAuthenticated
	stateSubscribed
	stateStreaming
	stateClosed
)

// Conn — одно живое websocket-соединение пользователя (устройств может
// быть несколько, у каждого свой Conn и своя очередь).
type Conn struct {
	sock   *websocket.Conn
	userID int64

	mu     sync.Mutex
	queue  chan Frame
	gapped bool
	state  connState

	closed    chan struct{}
	closeOnce sync.Once
}

func newConn(sock *websocket.Conn, userID int64) *Conn {
	return &Conn{
		sock:   sock,
		userID: userID,
		queue:  make(chan Frame, sendQueueCap),
		state:  stateConnecting,
		closed: make(chan struct{}),
	}
}

func (c *Conn) UserID() int64 { return c.userID }

func (c *Conn) setState(s connState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Enqueue кладёт кадр в очередь; при переполнении вытесняет самый
// старый и помечает разрыв. Никогда не блокируется.
func (c *Conn) Enqueue(f Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateClosed {
		return
	}

	for {
		select {
		case c.queue <- f:
			return
		default:
		}
		select {
		case <-c.queue:
			c.gapped = true
		default:
		}
	}
}

// takeGap атомарно снимает флаг разрыва.
func (c *Conn) takeGap() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.gapped
	c.gapped = false
	return g
}

func (c *Conn) write(f Frame, timeout time.Duration) error {
	_ = c.sock.SetWriteDeadline(time.Now().Add(timeout))
	return c.sock.WriteJSON(f)
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.setState(stateClosed)
		close(c.closed)
	})

	return c.sock.Close()
}
