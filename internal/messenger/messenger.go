package messenger

import (
	"context"
	"log/slog"
	"sync"
)

// Conn is the transport-side handle the Messenger delivers frames to. The
// transport owns the underlying connection; the Messenger only holds this
// reference for the duration of the session. Send must not block on a slow
// peer: delivery is fire-and-forget and a failure only affects that peer.
type Conn interface {
	Send(data []byte) error
	Close() error
}

// Presence mirrors roster membership into an external store. Calls are made
// off the hot path and their failures never affect message routing.
type Presence interface {
	ClientOnline(ctx context.Context, nick string) error
	ClientOffline(ctx context.Context, nick string) error
}

// Messenger tracks which nicknames are currently connected and converts each
// inbound event into the outbound notifications every participant receives.
// All roster mutations and their broadcasts pass through a single mutex, so
// no client can ever observe a join for a nickname missing from a userlist
// snapshot, or a message racing the sender's leave.
type Messenger struct {
	log      *slog.Logger
	presence Presence

	mu     sync.Mutex
	roster *Roster
}

type Option func(*Messenger)

func WithLogger(log *slog.Logger) Option {
	return func(m *Messenger) { m.log = log }
}

func WithPresence(p Presence) Option {
	return func(m *Messenger) { m.presence = p }
}

func New(opts ...Option) *Messenger {
	m := &Messenger{
		log:    slog.Default(),
		roster: NewRoster(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register hands a freshly accepted connection to the Messenger and returns
// its session. The transport feeds inbound frames through Session.HandleFrame
// and must call Session.Close exactly when the connection drops.
func (m *Messenger) Register(conn Conn) *Session {
	s := newSession(m, conn)
	m.log.Info("connection registered", "session", s.id)
	return s
}

// Nicknames returns a sorted snapshot of the current roster.
func (m *Messenger) Nicknames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roster.Nicknames()
}

// login attempts to bind nick to the session. On success the joining
// connection first receives the roster as it was before the insert, then the
// join broadcast goes out to everyone now in the roster, the new connection
// included. That join is how the client learns about itself.
func (m *Messenger) login(s *Session, nick string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	others := m.roster.Nicknames()
	if !m.roster.TryAdd(nick, s) {
		// Deliberately silent towards the client: the original protocol
		// gives a rejected duplicate no feedback, and clients depend on
		// that. The connection stays unauthenticated.
		m.log.Warn("nickname already taken", "session", s.id, "nick", nick)
		return false
	}

	m.log.Info("client logged in", "session", s.id, "nick", nick)
	m.deliver(s, EncodeUserList(others))
	m.broadcast(EncodeJoin(nick))
	m.notifyOnline(nick)
	return true
}

// logout removes nick from the roster and, only if it was present, announces
// the departure to the remaining clients.
func (m *Messenger) logout(s *Session, nick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.roster.Remove(nick) {
		return
	}

	m.log.Info("client logged out", "session", s.id, "nick", nick)
	m.broadcast(EncodeLeave(nick))
	m.notifyOffline(nick)
}

// broadcastChat fans a chat message out to the whole roster, sender included.
func (m *Messenger) broadcastChat(s *Session, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Debug("chat message", "session", s.id, "nick", s.nick)
	m.broadcast(EncodeMessage(s.nick, text))
}

func (m *Messenger) broadcast(payload []byte) {
	m.roster.ForEach(func(nick string, s *Session) {
		m.deliver(s, payload)
	})
}

// deliver sends one already-constructed payload to a single session. A send
// failure is isolated to that session: it is logged and the session's own
// close path runs asynchronously, it never aborts the surrounding broadcast.
func (m *Messenger) deliver(s *Session, payload []byte) {
	if err := s.conn.Send(payload); err != nil {
		m.log.Warn("send failed, dropping connection", "session", s.id, "error", err)
		go s.Close()
	}
}

func (m *Messenger) notifyOnline(nick string) {
	if m.presence == nil {
		return
	}
	go func() {
		_ = m.presence.ClientOnline(context.Background(), nick)
	}()
}

func (m *Messenger) notifyOffline(nick string) {
	if m.presence == nil {
		return
	}
	go func() {
		_ = m.presence.ClientOffline(context.Background(), nick)
	}()
}
