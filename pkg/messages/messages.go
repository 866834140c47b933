package messages

import (
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/kinematic"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 1024
)

// Message types
const (
	MessageTypeMove         = "move"
	MessageTypeCallMeeting  = "call_meeting"
	MessageTypeCastVote     = "cast_vote"
	MessageTypeAdvancePhase = "advance_phase"
	MessageTypeKill         = "kill"
)

// Message is an action submitted by a driver on behalf of an actor.
type Message struct {
	PlayerID uint32          `json:"playerID"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// MovePayload carries either a direction or a target point.
type MovePayload struct {
	Direction string            `json:"direction,omitempty"`
	Target    *kinematic.Vector `json:"target,omitempty"`
}

// TargetPayload names the target of a vote or a kill. A vote target of 0 skips.
type TargetPayload struct {
	TargetID uint32 `json:"targetID"`
}

// ParseDirection parses a direction name.
func ParseDirection(s string) (types.Direction, error) {
	switch s {
	case "up":
		return types.DirectionUp, nil
	case "down":
		return types.DirectionDown, nil
	case "left":
		return types.DirectionLeft, nil
	case "right":
		return types.DirectionRight, nil
	default:
		return types.DirectionNone, fmt.Errorf("unknown direction: %q", s)
	}
}

// ToAction decodes a message into the action it carries.
func (m *Message) ToAction() (types.Action, error) {
	switch m.Type {
	case MessageTypeMove:
		payload := &MovePayload{}
		if err := json.Unmarshal(m.Payload, payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal move payload: %v", err)
		}
		action := &types.MoveAction{PlayerID: m.PlayerID, Target: payload.Target}
		if payload.Target == nil {
			direction, err := ParseDirection(payload.Direction)
			if err != nil {
				return nil, err
			}
			action.Direction = direction
		}
		return action, nil
	case MessageTypeCallMeeting:
		return &types.CallMeetingAction{PlayerID: m.PlayerID}, nil
	case MessageTypeCastVote:
		payload := &TargetPayload{}
		if err := json.Unmarshal(m.Payload, payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vote payload: %v", err)
		}
		return &types.CastVoteAction{PlayerID: m.PlayerID, TargetID: payload.TargetID}, nil
	case MessageTypeAdvancePhase:
		return &types.AdvancePhaseAction{PlayerID: m.PlayerID}, nil
	case MessageTypeKill:
		payload := &TargetPayload{}
		if err := json.Unmarshal(m.Payload, payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal kill payload: %v", err)
		}
		return &types.KillAction{PlayerID: m.PlayerID, TargetID: payload.TargetID}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %q", m.Type)
	}
}
