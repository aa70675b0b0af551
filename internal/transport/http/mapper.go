package http

import (
	"encoding/json"

	"github.com/sockline/sockline-server/internal/core"
	"github.com/sockline/sockline-server/internal/proto"
)

// inboundToCommand maps a wire event onto a hub command. Addressing fields
// are checked where the event is meaningless without them; payload contents
// are otherwise passed through unvalidated.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InUserJoin:
		var join proto.JoinData
		if err := unmarshalData(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind: core.CommandJoin,
			Profile: core.Profile{
				Name:   join.Name,
				Email:  join.Email,
				Avatar: join.Avatar,
				Status: core.Status(join.Status),
			},
		}, nil, nil

	case proto.InJoinRoom, proto.InLeaveRoom:
		var room proto.RoomData
		if err := unmarshalData(inbound.Data, &room); err != nil {
			return nil, nil, err
		}
		if room.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		kind := core.CommandJoinRoom
		if inbound.Type == proto.InLeaveRoom {
			kind = core.CommandLeaveRoom
		}
		return &core.Command{Kind: kind, Room: room.Room}, nil, nil

	case proto.InMessage:
		var msg proto.MessageData
		if err := unmarshalData(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:    core.CommandMessage,
			Room:    msg.Room,
			Text:    msg.Text,
			Meta:    msg.Meta,
			ReplyTo: msg.ReplyTo,
		}, nil, nil

	case proto.InTypingStart, proto.InTypingStop:
		var room proto.RoomData
		if err := unmarshalData(inbound.Data, &room); err != nil {
			return nil, nil, err
		}
		kind := core.CommandTypingStart
		if inbound.Type == proto.InTypingStop {
			kind = core.CommandTypingStop
		}
		return &core.Command{Kind: kind, Room: room.Room}, nil, nil

	case proto.InMessageRead:
		var read proto.ReadData
		if err := unmarshalData(inbound.Data, &read); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:      core.CommandMarkRead,
			MessageID: read.MessageID,
			Room:      read.Room,
		}, nil, nil

	case proto.InUserStatus:
		var status proto.StatusData
		if err := unmarshalData(inbound.Data, &status); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:   core.CommandSetStatus,
			Status: core.Status(status.Status),
		}, nil, nil

	case proto.InPrivateMessage:
		var pm proto.PrivateData
		if err := unmarshalData(inbound.Data, &pm); err != nil {
			return nil, nil, err
		}
		if pm.ToUserID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "toUserId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandPrivateMessage,
			To:   pm.ToUserID,
			Text: pm.Text,
			Meta: pm.Meta,
		}, nil, nil

	case proto.InRoomCreate:
		var create proto.CreateRoomData
		if err := unmarshalData(inbound.Data, &create); err != nil {
			return nil, nil, err
		}
		if create.RoomName == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomName is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandCreateRoom,
			Room:      create.RoomName,
			IsPrivate: create.IsPrivate,
		}, nil, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeUnknownEvent, Msg: "unknown event type"}, nil
	}
}

// unmarshalData tolerates an absent data field; missing fields stay zero.
func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
