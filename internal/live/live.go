// Package live streams call events to websocket clients and accepts their
// commands. Each client drives its own calls; commands are processed in
// arrival order, one at a time.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MikeSquared-Agency/callsim/internal/sim"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxCommandSize = 512

	// sendBuffer absorbs bursts so the runner rarely blocks on a slow
	// client. A client that stays behind eventually blocks Emit, and the
	// closed connection abandons the call.
	sendBuffer = 64
)

const (
	CmdNewCall      = "new_call"
	CmdToggleWarmup = "toggle_warmup"
)

// CallRunner is the simulator surface the live layer drives.
type CallRunner interface {
	Run(ctx context.Context, sink sim.Sink) error
	Warmup() bool
	ToggleWarmup() bool
}

// Command is a client request on the websocket.
type Command struct {
	Type string `json:"type"`
}

// StatusEvent reports mode changes back to the client.
type StatusEvent struct {
	Type   string `json:"type"`
	Warmup bool   `json:"warmup"`
}

// ErrorEvent tells the client a command failed or was not recognized.
type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard is served from arbitrary dev hosts.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler upgrades websocket clients and runs their command loops.
type Handler struct {
	runner CallRunner
	logger *slog.Logger
}

func NewHandler(runner CallRunner, logger *slog.Logger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	c := newClient(ws)
	h.logger.Info("websocket client connected", "remote", r.RemoteAddr)

	go c.writePump()
	defer c.close()

	// Tell the client the current mode before any call starts.
	if err := c.Emit(StatusEvent{Type: "status", Warmup: h.runner.Warmup()}); err != nil {
		return
	}

	h.commandLoop(r.Context(), c)
	h.logger.Info("websocket client disconnected", "remote", r.RemoteAddr)
}

// commandLoop reads and executes commands until the client goes away.
// A command runs to completion before the next is read, so a new_call
// issued mid-call queues behind the call in progress.
func (h *Handler) commandLoop(ctx context.Context, c *client) {
	c.ws.SetReadLimit(maxCommandSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			if c.Emit(ErrorEvent{Type: "error", Error: "malformed command"}) != nil {
				return
			}
			continue
		}

		switch cmd.Type {
		case CmdNewCall:
			if err := h.runner.Run(ctx, c); err != nil {
				h.logger.Warn("call abandoned", "error", err)
				return
			}
			_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		case CmdToggleWarmup:
			warmup := h.runner.ToggleWarmup()
			h.logger.Info("warmup toggled", "warmup", warmup)
			if c.Emit(StatusEvent{Type: "status", Warmup: warmup}) != nil {
				return
			}
		default:
			if c.Emit(ErrorEvent{Type: "error", Error: "unknown command: " + cmd.Type}) != nil {
				return
			}
		}
	}
}

// client wraps one websocket connection. All writes funnel through the
// send channel so the write pump is the only writer.
type client struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
}

func newClient(ws *websocket.Conn) *client {
	return &client{
		ws:   ws,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

var errClientGone = errors.New("websocket client gone")

// Emit queues one event for the client. It blocks when the client is slow
// and fails once the connection is gone, which abandons the call in
// progress.
func (c *client) Emit(event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return errClientGone
	}
}

func (c *client) close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	_ = c.ws.Close()
}

// writePump owns the websocket writer: queued events plus keepalive pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case payload := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
