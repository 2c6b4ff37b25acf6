package messenger

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventType tags every protocol frame exchanged with a client.
type EventType string

const (
	// Inbound events
	EventTypeLogin   EventType = "login"
	EventTypeMessage EventType = "message"

	// Outbound events
	EventTypeUserList EventType = "userlist"
	EventTypeJoin     EventType = "join"
	EventTypeLeave    EventType = "leave"
)

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownType    = errors.New("unknown event type")
)

// Inbound is a decoded client-to-server protocol event.
type Inbound interface {
	inbound()
}

// Login is a request to join the chat under a nickname.
type Login struct {
	Nick string
}

// Chat is a text message from an authenticated client.
type Chat struct {
	Text string
}

func (Login) inbound() {}
func (Chat) inbound()  {}

// inboundFrame is the wire shape shared by all inbound events. Pointer
// fields distinguish a missing field from a present-but-empty one; extra
// fields are ignored.
type inboundFrame struct {
	Type EventType `json:"type"`
	Nick *string   `json:"nick"`
	Text *string   `json:"text"`
}

// DecodeInbound validates one raw frame and returns its tagged variant.
// Anything that does not match a known variant is a decode failure, which
// callers treat as a no-op on the session state.
func DecodeInbound(raw []byte) (Inbound, error) {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch f.Type {
	case EventTypeLogin:
		if f.Nick == nil || *f.Nick == "" {
			return nil, fmt.Errorf("%w: login without a nick", ErrMalformedFrame)
		}
		return Login{Nick: *f.Nick}, nil

	case EventTypeMessage:
		// An empty text is a valid message, a missing field is not.
		if f.Text == nil {
			return nil, fmt.Errorf("%w: message without a text", ErrMalformedFrame)
		}
		return Chat{Text: *f.Text}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, f.Type)
	}
}

type userListFrame struct {
	Type EventType `json:"type"`
	List []string  `json:"list"`
}

type nickFrame struct {
	Type EventType `json:"type"`
	Nick string    `json:"nick"`
}

type messageFrame struct {
	Type EventType `json:"type"`
	Nick string    `json:"nick"`
	Text string    `json:"text"`
}

// EncodeUserList builds the roster snapshot frame sent once to a newly
// authenticated connection.
func EncodeUserList(nicks []string) []byte {
	if nicks == nil {
		nicks = []string{}
	}
	b, _ := json.Marshal(userListFrame{Type: EventTypeUserList, List: nicks})
	return b
}

// EncodeJoin builds the broadcast announcing a new nickname.
func EncodeJoin(nick string) []byte {
	b, _ := json.Marshal(nickFrame{Type: EventTypeJoin, Nick: nick})
	return b
}

// EncodeLeave builds the broadcast announcing a departed nickname.
func EncodeLeave(nick string) []byte {
	b, _ := json.Marshal(nickFrame{Type: EventTypeLeave, Nick: nick})
	return b
}

// EncodeMessage builds the broadcast carrying a chat message and its author.
func EncodeMessage(nick, text string) []byte {
	b, _ := json.Marshal(messageFrame{Type: EventTypeMessage, Nick: nick, Text: text})
	return b
}
