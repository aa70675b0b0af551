package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/sockline/sockline-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	name := flag.String("name", "tester", "display name for user:join")
	room := flag.String("room", "general", "room name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	token := flag.String("token", "", "bearer token, if the server requires one")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	url := *addr
	if *token != "" {
		url += "?token=" + *token
	}
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(eventType string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", eventType, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: eventType, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", eventType, err)
		}
		return nil
	}

	if err := send(proto.InUserJoin, proto.JoinData{Name: *name}); err != nil {
		return err
	}
	if err := send(proto.InJoinRoom, proto.RoomData{Room: *room}); err != nil {
		return err
	}
	if err := send(proto.InMessage, proto.MessageData{Room: *room, Text: *text}); err != nil {
		return err
	}

	for {
		var out struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received event=%s\n", out.Event)
		if out.Error != nil {
			fmt.Printf("Error: %s %s\n", out.Error.Code, out.Error.Msg)
		}

		switch out.Event {
		case proto.OutMessage:
			fmt.Printf("Message: %s\n", string(out.Data))
			return nil
		case proto.OutUsersList, proto.OutUserJoined, proto.OutRoomJoined:
			fmt.Printf("Data: %s\n", string(out.Data))
		default:
			// keep looping for the message echo
		}
	}
}
