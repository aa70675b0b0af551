package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/sockline/sockline-server/internal/auth"
	"github.com/sockline/sockline-server/internal/config"
	"github.com/sockline/sockline-server/internal/core"
	"github.com/sockline/sockline-server/internal/proto"
)

func testAuthConfig() *auth.Config {
	return &auth.Config{
		Secret:   []byte("test-secret"),
		Issuer:   "sockline",
		Audience: "sockline-clients",
		TTL:      time.Hour,
	}
}

// startTestServer spins up a hub and the full HTTP stack around it. A nil
// authCfg runs the open (unauthenticated) configuration.
func startTestServer(t *testing.T, authCfg *auth.Config, apiAuthRequired bool) (*httptest.Server, *core.Hub) {
	t.Helper()

	cfg := config.Default()
	cfg.APIAuthRequired = apiAuthRequired

	var hooks core.Hooks = core.NopHooks{}
	logger := zerolog.Nop()
	if authCfg == nil {
		authCfg = &auth.Config{}
	} else if authCfg.Enabled() {
		hooks = auth.NewHook(authCfg, &logger)
	}

	hub := core.NewHub(nil, nil, hooks, nil, core.Options{
		EnableTyping:       cfg.EnableTyping,
		EnableReadReceipts: cfg.EnableReadReceipts,
		TypingTimeout:      cfg.TypingTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, authCfg, cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, hub
}

func wsURL(ts *httptest.Server) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func dialWS(ctx context.Context, t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendEvent(ctx context.Context, t *testing.T, conn *websocket.Conn, eventType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", eventType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: eventType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", eventType, err)
	}
}

// outboundWire is the envelope shape as seen by a client.
type outboundWire struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error,omitempty"`
}

// readEvent reads frames until one matches event, discarding the rest.
func readEvent(ctx context.Context, t *testing.T, conn *websocket.Conn, event string) outboundWire {
	t.Helper()

	for {
		var out outboundWire
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read while waiting for %q: %v", event, err)
		}
		if out.Event == event {
			return out
		}
	}
}
