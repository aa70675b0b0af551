package http

import (
	"encoding/json"
	"testing"

	"github.com/sockline/sockline-server/internal/core"
	"github.com/sockline/sockline-server/internal/proto"
)

func mapInbound(t *testing.T, eventType string, data any) (*core.Command, *proto.Error) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	cmd, protoErr, mapErr := inboundToCommand(proto.Inbound{Type: eventType, Data: payload})
	if mapErr != nil {
		t.Fatalf("map %s: %v", eventType, mapErr)
	}
	return cmd, protoErr
}

func TestMapUserJoin(t *testing.T) {
	cmd, protoErr := mapInbound(t, proto.InUserJoin, proto.JoinData{Name: "alice", Status: "away"})
	if protoErr != nil {
		t.Fatalf("unexpected proto error: %+v", protoErr)
	}
	if cmd.Kind != core.CommandJoin || cmd.Profile.Name != "alice" || cmd.Profile.Status != core.StatusAway {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestMapJoinRequiresRoom(t *testing.T) {
	_, protoErr := mapInbound(t, proto.InJoinRoom, proto.RoomData{})
	if protoErr == nil || protoErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request, got %+v", protoErr)
	}

	cmd, protoErr := mapInbound(t, proto.InJoinRoom, proto.RoomData{Room: "lobby"})
	if protoErr != nil || cmd.Kind != core.CommandJoinRoom || cmd.Room != "lobby" {
		t.Fatalf("unexpected mapping: %+v %+v", cmd, protoErr)
	}
}

func TestMapMessagePassesFieldsThrough(t *testing.T) {
	cmd, protoErr := mapInbound(t, proto.InMessage, proto.MessageData{
		Room:    "lobby",
		Text:    "hi",
		Meta:    map[string]any{"k": "v"},
		ReplyTo: "a-1",
	})
	if protoErr != nil {
		t.Fatalf("unexpected proto error: %+v", protoErr)
	}
	if cmd.Kind != core.CommandMessage || cmd.Room != "lobby" || cmd.Text != "hi" || cmd.ReplyTo != "a-1" {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	// Absent text is passed through, not rejected.
	cmd, protoErr = mapInbound(t, proto.InMessage, proto.MessageData{Room: "lobby"})
	if protoErr != nil || cmd.Text != "" {
		t.Fatalf("missing text should map cleanly: %+v %+v", cmd, protoErr)
	}
}

func TestMapTypingRoomOptional(t *testing.T) {
	cmd, protoErr := mapInbound(t, proto.InTypingStart, proto.RoomData{})
	if protoErr != nil || cmd.Kind != core.CommandTypingStart || cmd.Room != "" {
		t.Fatalf("global typing should be allowed: %+v %+v", cmd, protoErr)
	}

	cmd, _ = mapInbound(t, proto.InTypingStop, proto.RoomData{Room: "lobby"})
	if cmd.Kind != core.CommandTypingStop || cmd.Room != "lobby" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestMapPrivateRequiresTarget(t *testing.T) {
	_, protoErr := mapInbound(t, proto.InPrivateMessage, proto.PrivateData{Text: "psst"})
	if protoErr == nil || protoErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request, got %+v", protoErr)
	}

	cmd, protoErr := mapInbound(t, proto.InPrivateMessage, proto.PrivateData{ToUserID: "b", Text: "psst"})
	if protoErr != nil || cmd.Kind != core.CommandPrivateMessage || cmd.To != "b" {
		t.Fatalf("unexpected mapping: %+v %+v", cmd, protoErr)
	}
}

func TestMapRoomCreate(t *testing.T) {
	_, protoErr := mapInbound(t, proto.InRoomCreate, proto.CreateRoomData{})
	if protoErr == nil || protoErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request, got %+v", protoErr)
	}

	cmd, protoErr := mapInbound(t, proto.InRoomCreate, proto.CreateRoomData{RoomName: "design", IsPrivate: true})
	if protoErr != nil || cmd.Kind != core.CommandCreateRoom || cmd.Room != "design" || !cmd.IsPrivate {
		t.Fatalf("unexpected mapping: %+v %+v", cmd, protoErr)
	}
}

func TestMapUnknownEvent(t *testing.T) {
	_, protoErr := mapInbound(t, "bogus", struct{}{})
	if protoErr == nil || protoErr.Code != core.ErrCodeUnknownEvent {
		t.Fatalf("expected unknown_event, got %+v", protoErr)
	}
}

func TestMapReadAndStatus(t *testing.T) {
	cmd, protoErr := mapInbound(t, proto.InMessageRead, proto.ReadData{MessageID: "a-1", Room: "lobby"})
	if protoErr != nil || cmd.Kind != core.CommandMarkRead || cmd.MessageID != "a-1" || cmd.Room != "lobby" {
		t.Fatalf("unexpected mapping: %+v %+v", cmd, protoErr)
	}

	cmd, protoErr = mapInbound(t, proto.InUserStatus, proto.StatusData{Status: "busy"})
	if protoErr != nil || cmd.Kind != core.CommandSetStatus || cmd.Status != core.StatusBusy {
		t.Fatalf("unexpected mapping: %+v %+v", cmd, protoErr)
	}
}
