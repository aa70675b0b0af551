package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/sockline/sockline-server/internal/auth"
	"github.com/sockline/sockline-server/internal/core"
	"github.com/sockline/sockline-server/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t, nil, false)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinAndMessage(t *testing.T) {
	ts, _ := startTestServer(t, nil, false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(ctx, t, wsURL(ts))
	connB := dialWS(ctx, t, wsURL(ts))

	sendEvent(ctx, t, connA, proto.InUserJoin, proto.JoinData{Name: "alice"})
	snapshot := readEvent(ctx, t, connA, proto.OutUsersList)

	var list struct {
		Users []core.User `json:"users"`
		Count int         `json:"count"`
	}
	if err := json.Unmarshal(snapshot.Data, &list); err != nil {
		t.Fatalf("unmarshal users:list: %v", err)
	}
	if list.Count != 1 || list.Users[0].Name != "alice" {
		t.Fatalf("snapshot should contain the joiner: %+v", list)
	}

	sendEvent(ctx, t, connB, proto.InUserJoin, proto.JoinData{Name: "bob"})
	readEvent(ctx, t, connB, proto.OutUsersList)

	joined := readEvent(ctx, t, connA, proto.OutUserJoined)
	var u core.User
	if err := json.Unmarshal(joined.Data, &u); err != nil {
		t.Fatalf("unmarshal user:joined: %v", err)
	}
	if u.Name != "bob" {
		t.Fatalf("unexpected joiner: %+v", u)
	}

	sendEvent(ctx, t, connA, proto.InMessage, proto.MessageData{Text: "hi there"})

	out := readEvent(ctx, t, connB, proto.OutMessage)
	var msg core.Message
	if err := json.Unmarshal(out.Data, &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	if msg.Text != "hi there" || msg.User.Name != "alice" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.ID == "" || len(msg.ReadBy) != 1 {
		t.Fatalf("message id and readBy must be populated: %+v", msg)
	}
}

func TestWebSocketRoomScenario(t *testing.T) {
	ts, _ := startTestServer(t, nil, false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(ctx, t, wsURL(ts))
	connB := dialWS(ctx, t, wsURL(ts))

	sendEvent(ctx, t, connA, proto.InUserJoin, proto.JoinData{Name: "alice"})
	readEvent(ctx, t, connA, proto.OutUsersList)
	sendEvent(ctx, t, connB, proto.InUserJoin, proto.JoinData{Name: "bob"})
	readEvent(ctx, t, connB, proto.OutUsersList)

	sendEvent(ctx, t, connA, proto.InJoinRoom, proto.RoomData{Room: "lobby"})
	readEvent(ctx, t, connA, proto.OutRoomJoined)
	sendEvent(ctx, t, connB, proto.InJoinRoom, proto.RoomData{Room: "lobby"})
	readEvent(ctx, t, connB, proto.OutRoomJoined)

	sendEvent(ctx, t, connA, proto.InMessage, proto.MessageData{Room: "lobby", Text: "hi"})

	// Both members get it, the sender included.
	for _, conn := range []*websocket.Conn{connA, connB} {
		out := readEvent(ctx, t, conn, proto.OutMessage)
		var msg core.Message
		if err := json.Unmarshal(out.Data, &msg); err != nil {
			t.Fatalf("unmarshal message: %v", err)
		}
		if msg.Room != "lobby" || msg.Text != "hi" {
			t.Fatalf("unexpected room message: %+v", msg)
		}
	}
}

func TestWebSocketBadEventGetsError(t *testing.T) {
	ts, _ := startTestServer(t, nil, false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(ctx, t, wsURL(ts))
	sendEvent(ctx, t, conn, "bogus", struct{}{})

	out := readEvent(ctx, t, conn, proto.OutError)
	if out.Error == nil || out.Error.Code != core.ErrCodeUnknownEvent {
		t.Fatalf("expected unknown_event error, got %+v", out)
	}
}

func TestWebSocketAuthRefusesBadToken(t *testing.T) {
	cfg := testAuthConfig()
	ts, _ := startTestServer(t, cfg, false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(ts)+"?token=garbage", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	// The server closes refused connections before any event flows.
	var out outboundWire
	readErr := wsjson.Read(ctx, conn, &out)
	if readErr == nil {
		t.Fatal("expected the connection to be closed")
	}
	if status := websocket.CloseStatus(readErr); status != websocket.StatusPolicyViolation {
		t.Fatalf("expected policy violation close, got %v (%v)", status, readErr)
	}
}

func TestWebSocketAuthAdmitsValidToken(t *testing.T) {
	cfg := testAuthConfig()
	ts, _ := startTestServer(t, cfg, false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token, err := auth.GenerateToken(cfg, "user-1", "alice")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	conn := dialWS(ctx, t, wsURL(ts)+"?token="+token)
	sendEvent(ctx, t, conn, proto.InUserJoin, proto.JoinData{Name: "alice"})
	readEvent(ctx, t, conn, proto.OutUsersList)
}
