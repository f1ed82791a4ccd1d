package live

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/popover/internal/errors"
	"github.com/vango-dev/popover/pkg/dom"
)

// Client message types.
const (
	MsgClick   = "click"
	MsgKeyDown = "keydown"
	MsgFrame   = "frame"
	MsgLayout  = "layout"
)

// Server message types.
const (
	MsgAttrs = "attrs"
	MsgFocus = "focus"
	MsgPlace = "place"
	MsgRAF   = "raf"
)

// ClientMessage is a message from the browser.
type ClientMessage struct {
	Type     string              `json:"type"`
	Target   string              `json:"target,omitempty"`
	Key      string              `json:"key,omitempty"`
	Frame    uint64              `json:"frame,omitempty"`
	Rects    map[string]dom.Rect `json:"rects,omitempty"`
	Viewport *dom.Rect           `json:"viewport,omitempty"`
}

// ServerMessage is a message to the browser.
type ServerMessage struct {
	Type     string        `json:"type"`
	Target   string        `json:"target,omitempty"`
	Set      dom.Attrs     `json:"set,omitempty"`
	Remove   []string      `json:"remove,omitempty"`
	Position *dom.Position `json:"position,omitempty"`
	Frame    uint64        `json:"frame,omitempty"`
}

// DecodeClientMessage parses and checks a client message.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, errors.New("E160").Wrap(err)
	}

	switch msg.Type {
	case MsgClick, MsgKeyDown:
		if msg.Target == "" {
			return ClientMessage{}, errors.New("E160").
				WithDetail(fmt.Sprintf("A %s message needs a target.", msg.Type))
		}
	case MsgFrame:
		if msg.Frame == 0 {
			return ClientMessage{}, errors.New("E160").
				WithDetail("A frame message needs the frame number from its raf request.")
		}
	case MsgLayout:
	default:
		return ClientMessage{}, errors.New("E161").
			WithDetail(fmt.Sprintf("Message type %q is not handled.", msg.Type))
	}
	return msg, nil
}

// mutationMessage converts a document mutation to the message that
// mirrors it in the browser.
func mutationMessage(m dom.Mutation) (ServerMessage, bool) {
	if m.Node == nil {
		return ServerMessage{}, false
	}
	switch m.Kind {
	case dom.MutationAttrs:
		return ServerMessage{Type: MsgAttrs, Target: m.Node.ID(), Set: m.Set, Remove: m.Removed}, true
	case dom.MutationFocus:
		return ServerMessage{Type: MsgFocus, Target: m.Node.ID()}, true
	case dom.MutationPosition:
		pos := m.Position
		return ServerMessage{Type: MsgPlace, Target: m.Node.ID(), Position: &pos}, true
	default:
		return ServerMessage{}, false
	}
}
