package messenger

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the per-connection state machine. It has exactly two states:
// unauthenticated (nick is empty, only a login frame is accepted) and
// authenticated (only message frames are accepted). The per-session mutex
// serializes frame handling against close, so a disconnect can never overlap
// an in-flight event from the same connection.
type Session struct {
	id   string
	m    *Messenger
	conn Conn

	mu     sync.Mutex
	nick   string
	closed bool
}

func newSession(m *Messenger, conn Conn) *Session {
	return &Session{
		id:   uuid.NewString(),
		m:    m,
		conn: conn,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Nick returns the session's nickname, or the empty string while the session
// is still unauthenticated.
func (s *Session) Nick() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nick
}

// HandleFrame consumes one raw inbound frame. Malformed frames, events not
// valid in the current state and duplicate-nickname logins are all dropped
// with a diagnostic; none of them disturb the session or other clients.
func (s *Session) HandleFrame(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	ev, err := DecodeInbound(raw)
	if err != nil {
		s.m.log.Warn("dropping inbound frame", "session", s.id, "error", err)
		return
	}

	switch ev := ev.(type) {
	case Login:
		if s.nick != "" {
			s.m.log.Warn("login on an authenticated session", "session", s.id, "nick", s.nick)
			return
		}
		if s.m.login(s, ev.Nick) {
			s.nick = ev.Nick
		}

	case Chat:
		if s.nick == "" {
			s.m.log.Warn("message before login", "session", s.id)
			return
		}
		s.m.broadcastChat(s, ev.Text)
	}
}

// Close runs the session's cleanup exactly once: an authenticated session is
// removed from the roster and its departure broadcast, an unauthenticated one
// goes away silently. Safe to call from any state, any number of times.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	_ = s.conn.Close()

	if s.nick == "" {
		s.m.log.Info("unauthenticated connection closed", "session", s.id)
		return
	}
	s.m.logout(s, s.nick)
}
