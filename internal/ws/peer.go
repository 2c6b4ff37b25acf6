package ws

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wschat-service/internal/messenger"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound frames buffered per peer before the peer is dropped
	sendBufferSize = 256
)

var ErrPeerClosed = errors.New("peer closed")

// Peer adapts one gorilla websocket connection to the messenger.Conn
// interface. Writes go through a buffered channel drained by writePump, so a
// slow or dead browser never stalls a broadcast: when the buffer fills up the
// peer is dropped instead.
type Peer struct {
	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func NewPeer(conn *websocket.Conn, log *slog.Logger) *Peer {
	return &Peer{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		log:  log,
		done: make(chan struct{}),
	}
}

// Send queues one frame for delivery. It never blocks.
func (p *Peer) Send(data []byte) error {
	select {
	case p.send <- data:
		return nil
	case <-p.done:
		return ErrPeerClosed
	default:
		p.log.Warn("send buffer full, dropping peer")
		_ = p.Close()
		return ErrPeerClosed
	}
}

// Close shuts the peer down exactly once and unblocks both pumps.
func (p *Peer) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.conn.Close()
	})
	return nil
}

// Run drives both pumps and blocks until the connection drops, then runs the
// session's close path. The caller usually invokes it in its own goroutine.
func (p *Peer) Run(sess *messenger.Session) {
	go p.writePump()
	p.readPump(sess)
}

func (p *Peer) readPump(sess *messenger.Session) {
	defer func() {
		sess.Close()
		_ = p.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				p.log.Warn("websocket read error", "session", sess.ID(), "error", err)
			}
			return
		}
		sess.HandleFrame(raw)
	}
}

func (p *Peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.Close()
	}()

	for {
		select {
		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-p.done:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
