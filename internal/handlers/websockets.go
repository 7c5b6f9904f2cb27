package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"brew_control"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12

	defaultInterval = time.Second
	maxInterval     = 10 * time.Second
)

// Frame types sent on the status stream.
const (
	wsTypeStatus = "status"
	wsTypeError  = "error"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The stream is read-only and the dashboard may be served from another
// origin.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamOptions are read from the upgrade request.
type streamOptions struct {
	interval    time.Duration
	withHistory bool
}

// statusStream pushes a status frame per interval, skipping intervals in
// which the control loop did not tick.
type statusStream struct {
	h        *Handler
	conn     *websocket.Conn
	opts     streamOptions
	lastTick uint64
	sent     bool
}

// @Summary      Status stream
// @Description  WebSocket upgrade. One status frame immediately, then one per interval whenever the loop has ticked (?interval=500ms or ?interval_ms=500, at most 10s). ?history=false drops channel histories.
// @Tags         status
// @Param        interval     query  string  false  "Go duration"
// @Param        interval_ms  query  int     false  "Milliseconds"
// @Param        history      query  bool    false  "Include channel histories (default true)"
// @Success      101
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	opts := streamOptions{interval: h.parseInterval(c), withHistory: c.DefaultQuery("history", "true") != "false"}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	s := &statusStream{h: h, conn: conn, opts: opts}
	s.run(c.Request.Context())
}

func (s *statusStream) run(ctx context.Context) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go s.drain(closed)

	if err := s.push(ctx); err != nil {
		s.logInfo("ws_write_failed_initial", err)
		return
	}

	ticker := time.NewTicker(s.opts.interval)
	ping := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logInfo("ws_ping_failed", err)
				return
			}
		case <-ticker.C:
			if err := s.push(ctx); err != nil {
				s.logInfo("ws_write_failed", err)
				return
			}
		}
	}
}

// drain reads until the peer goes away so control frames are processed.
func (s *statusStream) drain(closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.logInfo("ws_read_closed", err)
			return
		}
	}
}

// push writes the current status unless it is the tick already sent. A
// status that cannot be loaded produces an error frame and ends the stream.
func (s *statusStream) push(ctx context.Context) error {
	st, err := s.h.services.Monitoring.GetStatus(ctx)
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		if s.h.log != nil {
			s.h.log.Errorw("ws_get_status_failed", "err", err)
		}
		_ = s.conn.WriteJSON(wsEnvelope{Type: wsTypeError, Error: errGetStatus})
		return err
	}
	if s.sent && st.Tick == s.lastTick {
		return nil
	}
	if !s.opts.withHistory {
		st = withoutHistory(st)
	}
	if err := s.conn.WriteJSON(wsEnvelope{Type: wsTypeStatus, Data: st}); err != nil {
		return err
	}
	s.sent, s.lastTick = true, st.Tick
	return nil
}

func (s *statusStream) logInfo(key string, err error) {
	if s.h.log != nil {
		s.h.log.Infow(key, "err", err)
	}
}

// withoutHistory returns st with the channel histories dropped. The channel
// slice is copied; st may be shared with the control loop.
func withoutHistory(st brew_control.Status) brew_control.Status {
	chans := make([]brew_control.ChannelStatus, len(st.Channels))
	for i, ch := range st.Channels {
		ch.History = nil
		chans[i] = ch
	}
	st.Channels = chans
	return st
}

// parseInterval reads ?interval=2s or ?interval_ms=2000; out-of-range
// values fall back to the default.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			if d := time.Duration(v) * time.Millisecond; d <= maxInterval {
				return d
			}
		}
	}
	return defaultInterval
}
