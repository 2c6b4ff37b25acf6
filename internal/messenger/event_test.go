package messenger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInboundLogin(t *testing.T) {
	ev, err := DecodeInbound([]byte(`{"type":"login","nick":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, Login{Nick: "alice"}, ev)
}

func TestDecodeInboundMessage(t *testing.T) {
	ev, err := DecodeInbound([]byte(`{"type":"message","text":"hi there"}`))
	require.NoError(t, err)
	assert.Equal(t, Chat{Text: "hi there"}, ev)
}

func TestDecodeInboundEmptyTextIsValid(t *testing.T) {
	// The protocol accepts empty chat messages, only a missing field is bad.
	ev, err := DecodeInbound([]byte(`{"type":"message","text":""}`))
	require.NoError(t, err)
	assert.Equal(t, Chat{Text: ""}, ev)
}

func TestDecodeInboundIgnoresExtraFields(t *testing.T) {
	ev, err := DecodeInbound([]byte(`{"type":"login","nick":"bob","color":"red"}`))
	require.NoError(t, err)
	assert.Equal(t, Login{Nick: "bob"}, ev)
}

func TestDecodeInboundMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"type":`},
		{"not an object", `"login"`},
		{"array", `[1,2,3]`},
		{"missing nick", `{"type":"login"}`},
		{"empty nick", `{"type":"login","nick":""}`},
		{"mistyped nick", `{"type":"login","nick":42}`},
		{"missing text", `{"type":"message"}`},
		{"mistyped text", `{"type":"message","text":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInbound([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrMalformedFrame)
		})
	}
}

func TestDecodeInboundUnknownType(t *testing.T) {
	for _, raw := range []string{
		`{"type":"userlist","list":[]}`,
		`{"type":"shout","text":"HI"}`,
		`{"nick":"alice"}`,
		`null`,
	} {
		_, err := DecodeInbound([]byte(raw))
		assert.ErrorIs(t, err, ErrUnknownType, "raw: %s", raw)
	}
}

func TestEncodeOutbound(t *testing.T) {
	assert.JSONEq(t, `{"type":"userlist","list":["alice","bob"]}`, string(EncodeUserList([]string{"alice", "bob"})))
	assert.JSONEq(t, `{"type":"join","nick":"alice"}`, string(EncodeJoin("alice")))
	assert.JSONEq(t, `{"type":"leave","nick":"alice"}`, string(EncodeLeave("alice")))
	assert.JSONEq(t, `{"type":"message","nick":"alice","text":"hi"}`, string(EncodeMessage("alice", "hi")))
}

func TestEncodeUserListEmpty(t *testing.T) {
	// An empty roster must encode as an empty array, never null.
	assert.Equal(t, `{"type":"userlist","list":[]}`, string(EncodeUserList(nil)))
}
