package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"brew_control"
	"brew_control/internal/models"
	"brew_control/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		u    string
		want time.Duration
	}{
		{"/ws", defaultInterval},
		{"/ws?interval=200ms", 200 * time.Millisecond},
		{"/ws?interval_ms=150", 150 * time.Millisecond},
		{"/ws?interval=20s", defaultInterval},
		{"/ws?interval_ms=20000", defaultInterval},
		{"/ws?interval=-1s", defaultInterval},
		{"/ws?interval_ms=NaN", defaultInterval},
		{"/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
		if got := h.parseInterval(c); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.u, got, tc.want)
		}
	}
}

type wsFrame struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// dialStream serves mon on /ws and connects with the given query.
func dialStream(t *testing.T, mon *mockMonitoring, query url.Values) *websocket.Conn {
	t.Helper()
	r := gin.New()
	r.GET("/ws", NewHandler(&service.Service{Monitoring: mon}, nil).wsConnect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readStatus(t *testing.T, conn *websocket.Conn, wait time.Duration) (brew_control.Status, error) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	var f wsFrame
	if err := conn.ReadJSON(&f); err != nil {
		return brew_control.Status{}, err
	}
	if f.Type != wsTypeStatus {
		t.Fatalf("frame type %q: %+v", f.Type, f)
	}
	var st brew_control.Status
	if err := json.Unmarshal(f.Data, &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return st, nil
}

func mashStatus() brew_control.Status {
	return brew_control.Status{
		Tick: 7,
		Channels: []brew_control.ChannelStatus{{
			ID: 0, Setpoint: 65, MeasuredValue: 63, Output: 100,
			History: []brew_control.HistorySample{{Tick: 6, Measured: 62.5, Setpoint: 65}},
		}},
		Sequencer: brew_control.SequencerStatus{ActiveStep: "Mash in", Status: models.BrewStarted},
	}
}

func TestWebSocket_FramePerTick(t *testing.T) {
	mon := &mockMonitoring{status: mashStatus(), ticking: true}
	conn := dialStream(t, mon, url.Values{"interval_ms": {"20"}})

	first, err := readStatus(t, conn, time.Second)
	if err != nil {
		t.Fatalf("initial frame: %v", err)
	}
	if first.Tick != 7 || first.Sequencer.ActiveStep != "Mash in" || len(first.Channels[0].History) != 1 {
		t.Fatalf("unexpected status: %+v", first)
	}
	second, err := readStatus(t, conn, time.Second)
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if second.Tick <= first.Tick {
		t.Fatalf("tick did not move: %d then %d", first.Tick, second.Tick)
	}
}

func TestWebSocket_SameTickIsNotResent(t *testing.T) {
	mon := &mockMonitoring{status: mashStatus()}
	conn := dialStream(t, mon, url.Values{"interval_ms": {"10"}})

	if _, err := readStatus(t, conn, time.Second); err != nil {
		t.Fatalf("initial frame: %v", err)
	}
	if st, err := readStatus(t, conn, 150*time.Millisecond); err == nil {
		t.Fatalf("unexpected repeat of tick %d", st.Tick)
	}
}

func TestWebSocket_WithoutHistory(t *testing.T) {
	mon := &mockMonitoring{status: mashStatus()}
	conn := dialStream(t, mon, url.Values{"history": {"false"}})

	st, err := readStatus(t, conn, time.Second)
	if err != nil {
		t.Fatalf("initial frame: %v", err)
	}
	if len(st.Channels) != 1 || st.Channels[0].History != nil {
		t.Fatalf("history not dropped: %+v", st.Channels)
	}
	if len(mon.status.Channels[0].History) != 1 {
		t.Fatalf("source status was modified")
	}
}

func TestWebSocket_StatusErrorSendsErrorFrameAndCloses(t *testing.T) {
	conn := dialStream(t, &mockMonitoring{err: errors.New("boom")}, nil)

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var f wsFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	if f.Type != wsTypeError || f.Error == "" {
		t.Fatalf("expected error frame, got %+v", f)
	}
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected the stream to close, got %s", raw)
	}
}
