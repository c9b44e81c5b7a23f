package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"lumen_bridge/internal/models"
	"lumen_bridge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_negative", "/ws?interval=-1s", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"invalid_interval_falls_to_ms", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

type wsTestEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialWS(t *testing.T, s *service.Service, query string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wsTestEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env wsTestEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestWebSocket_SnapshotStream(t *testing.T) {
	s, mb, reg := newMockService()
	mb.cmd = models.ControlCommand{Mode: models.ModeManual, Color: models.Color{R: 5, G: 6, B: 7}}
	reg.readings = []models.SensorReading{{ID: 1, Value: 640, Mode: "manual"}}

	conn := dialWS(t, s, "interval_ms=20")

	env := readEnvelope(t, conn)
	if env.Type != wsTypeReading || env.Error != "" {
		t.Fatalf("bad reading envelope: %+v", env)
	}
	var rd models.SensorReading
	if err := json.Unmarshal(env.Data, &rd); err != nil {
		t.Fatalf("unmarshal reading: %v", err)
	}
	if rd.Value != 640 {
		t.Fatalf("unexpected reading: %+v", rd)
	}

	env = readEnvelope(t, conn)
	if env.Type != wsTypeControl {
		t.Fatalf("bad control envelope: %+v", env)
	}
	var ctl ControlResponse
	if err := json.Unmarshal(env.Data, &ctl); err != nil {
		t.Fatalf("unmarshal control: %v", err)
	}
	if ctl.Modo != models.ModeManual || ctl.Cor == nil || ctl.Cor.B != 7 {
		t.Fatalf("unexpected control: %+v", ctl)
	}

	// next tick
	if env = readEnvelope(t, conn); env.Type != wsTypeReading {
		t.Fatalf("expected reading on next tick, got %+v", env)
	}
}

func TestWebSocket_EmptyRegister_ReportsInBand(t *testing.T) {
	s, _, _ := newMockService()
	conn := dialWS(t, s, "interval_ms=20")

	env := readEnvelope(t, conn)
	if env.Type != wsTypeReading || env.Error != errNoReading || len(env.Data) != 0 {
		t.Fatalf("expected in-band empty register, got %+v", env)
	}
	env = readEnvelope(t, conn)
	if env.Type != wsTypeControl || len(env.Data) == 0 {
		t.Fatalf("expected control envelope, got %+v", env)
	}
}

func TestWebSocket_MailboxFailure_KeepsStreaming(t *testing.T) {
	s, mb, _ := newMockService()
	mb.getErr = errors.New("boom")
	conn := dialWS(t, s, "interval_ms=20")

	_ = readEnvelope(t, conn)
	env := readEnvelope(t, conn)
	if env.Type != wsTypeControl || env.Error != errInternal {
		t.Fatalf("expected internal error envelope, got %+v", env)
	}
	if env = readEnvelope(t, conn); env.Type != wsTypeReading {
		t.Fatalf("stream stopped after failure: %+v", env)
	}
}
