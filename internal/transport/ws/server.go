package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wangxiaochuang/05-chat/internal/security"

	"github.com/gorilla/websocket"
)

// TokenVerifier проверяет access-токен и возвращает личность запроса.
type TokenVerifier interface {
	Verify(token string) (*security.Identity, error)
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	verifier TokenVerifier

	pingEvery    time.Duration
	writeTimeout time.Duration
}

func NewServer(hub *Hub, verifier TokenVerifier) *Server {
	return &Server{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery:    15 * time.Second,
		writeTimeout: 5 * time.Second,
	}
}

// WS endpoint: GET /ws?access_token=... (или Bearer в заголовке).
// Браузерный WebSocket не умеет ставить заголовки, поэтому токен
// принимаем и из query.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("access_token"))
	if token == "" {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimSpace(auth[7:])
		}
	}
	if token == "" {
		http.Error(w, "missing access token", http.StatusUnauthorized)
		return
	}

	id, err := s.verifier.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newConn(sock, id.UserID)
	c.setState(stateAuthenticated)

	s.hub.Add(c)
	c.setState(stateSubscribed)

	// ready подтверждает подписку: всё, что закоммичено после этого
	// кадра, клиент получит событием
	if err := c.write(Frame{Type: TypeReady}, s.writeTimeout); err != nil {
		s.hub.Remove(c)
		_ = c.Close()
		return
	}
	c.setState(stateStreaming)
	slog.Info("ws connected", "user_id", id.UserID)

	go s.writeLoop(c)
	s.readLoop(c)

	s.hub.Remove(c)
	_ = c.Close()
	slog.Info("ws disconnected", "user_id", id.UserID)
}

// readLoop держит keepalive; входящие кадры клиента игнорируются,
// канал односторонний.
func (s *Server) readLoop(c *Conn) {
	c.sock.SetReadLimit(1 << 16)
	_ = c.sock.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		if _, _, err := c.sock.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *Conn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()
	defer func() { _ = c.Close() }()

	for {
		select {
		case f := <-c.queue:
			// потерянные кадры сигналим до следующего события
			if c.takeGap() {
				if err := c.write(Frame{Type: TypeGap}, s.writeTimeout); err != nil {
					return
				}
			}
			if err := c.write(f, s.writeTimeout); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.sock.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeTimeout)); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}
