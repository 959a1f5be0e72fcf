package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/apricodi/builder/internal/chat"
	"github.com/apricodi/builder/internal/schema"
)

const (
	chatWriteWait  = 10 * time.Second
	chatPongWait   = 60 * time.Second
	chatPingPeriod = 30 * time.Second
	chatMaxMessage = 64 << 10
)

// Frame types exchanged on the chat socket.
const (
	frameInit    = "init"
	frameMessage = "message"
	frameHistory = "history"
	frameTyping  = "typing"
	frameError   = "error"
)

// ChatFrame is one JSON message on the chat socket. The browser sends init
// (with the chat element) and message (with content); the server answers
// with history, message, typing and error.
type ChatFrame struct {
	Type     string               `json:"type"`
	Element  *schema.Element      `json:"element,omitempty"`
	Content  string               `json:"content,omitempty"`
	Message  *schema.ChatMessage  `json:"message,omitempty"`
	Messages []schema.ChatMessage `json:"messages,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// ChatHandler runs one chat session per websocket connection.
type ChatHandler struct {
	upgrader websocket.Upgrader
	delay    func() time.Duration
}

// NewChatHandler creates a ChatHandler whose replies arrive after a random
// delay in [minDelay, maxDelay).
func NewChatHandler(minDelay, maxDelay time.Duration) *ChatHandler {
	return &ChatHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin,
		},
		delay: chat.RandomDelay(minDelay, maxDelay),
	}
}

// sameOrigin accepts requests without an Origin header and those whose
// Origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

type chatConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *chatConn) send(f ChatFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(chatWriteWait))
	return c.ws.WriteJSON(f)
}

func (c *chatConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(chatWriteWait))
}

// HandleWebSocket handles GET /api/chat/ws.
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Chat] Failed to upgrade to WebSocket: %v", err)
		return
	}
	conn := &chatConn{ws: ws}
	defer func() { _ = ws.Close() }()

	ws.SetReadLimit(chatMaxMessage)
	_ = ws.SetReadDeadline(time.Now().Add(chatPongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(chatPongWait))
	})

	var first ChatFrame
	if err := ws.ReadJSON(&first); err != nil || first.Type != frameInit || first.Element == nil {
		_ = conn.send(ChatFrame{Type: frameError, Error: "first frame must be init with the chat element"})
		return
	}

	session := chat.NewSession(*first.Element, chat.WithDelay(h.delay))
	defer session.Close()

	if err := conn.send(ChatFrame{Type: frameHistory, Messages: session.Messages()}); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(chatPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		var frame ChatFrame
		if err := ws.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Chat] WebSocket read error: %v", err)
			}
			return
		}
		if frame.Type != frameMessage {
			_ = conn.send(ChatFrame{Type: frameError, Error: "unknown frame type"})
			continue
		}

		userMsg, replies, err := session.Submit(frame.Content)
		if err != nil {
			_ = conn.send(ChatFrame{Type: frameError, Error: chatErrorMessage(err)})
			continue
		}
		if err := conn.send(ChatFrame{Type: frameMessage, Message: &userMsg}); err != nil {
			return
		}
		if err := conn.send(ChatFrame{Type: frameTyping}); err != nil {
			return
		}

		go func() {
			reply, ok := <-replies
			if !ok {
				return
			}
			_ = conn.send(ChatFrame{Type: frameMessage, Message: &reply})
		}()
	}
}

func chatErrorMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrAwaitingReply):
		return "Lütfen yanıtı bekleyin."
	case errors.Is(err, chat.ErrEmptyMessage):
		return "Mesaj boş olamaz."
	}
	return err.Error()
}
