package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"power_wizard/internal/deploy"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Message types sent on the deployment stream.
const (
	wsTypeStatus = "status"
	wsTypeDone   = "done"
	wsTypeError  = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type watchResult struct {
	status deploy.Status
	err    error
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: h.checkOrigin}
}

// checkOrigin allows a missing or same-host Origin plus the configured origins.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

// wsDeployment streams status changes of one deployment until it is ready or
// failed, then sends a final "done" message and closes.
func (h *Handler) wsDeployment(c *gin.Context) {
	id := c.Param("id")

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	updates := make(chan deploy.Status, 4)
	result := make(chan watchResult, 1)
	go func() {
		st, err := h.services.Deployments.Watch(ctx, id, func(st deploy.Status) {
			select {
			case updates <- st:
			case <-ctx.Done():
			}
		})
		result <- watchResult{status: st, err: err}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case st := <-updates:
			if err := h.writeEnvelope(conn, wsEnvelope{Type: wsTypeStatus, Data: st}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "deployment_id", id)
				}
				return
			}
		case res := <-result:
			h.finishStream(conn, id, updates, res)
			return
		}
	}
}

// finishStream flushes queued updates, then reports the outcome and closes.
func (h *Handler) finishStream(conn *websocket.Conn, id string, updates <-chan deploy.Status, res watchResult) {
drain:
	for {
		select {
		case st := <-updates:
			if err := h.writeEnvelope(conn, wsEnvelope{Type: wsTypeStatus, Data: st}); err != nil {
				return
			}
		default:
			break drain
		}
	}

	env := wsEnvelope{Type: wsTypeDone, Data: res.status}
	if res.err != nil {
		if h.log != nil {
			h.log.Infow("ws_watch_failed", "err", res.err, "deployment_id", id)
		}
		env = wsEnvelope{Type: wsTypeError, Error: res.err.Error()}
	}
	if err := h.writeEnvelope(conn, env); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func (h *Handler) writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}
