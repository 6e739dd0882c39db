package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Peer is one connected debugger frontend.
type Peer struct {
	ID         string
	RemoteAddr string
	User       string
	Logger     *zap.SugaredLogger

	conn *websocket.Conn

	writeMu sync.Mutex

	mu         sync.Mutex
	closed     bool
	closeHooks []func()
}

func newPeer(id string, conn *websocket.Conn, logger *zap.SugaredLogger) *Peer {
	return &Peer{
		ID:         id,
		RemoteAddr: conn.RemoteAddr().String(),
		Logger:     logger,
		conn:       conn,
	}
}

// Send writes one JSON frame to the peer. Writes are serialized.
func (p *Peer) Send(v interface{}) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return p.conn.WriteJSON(v)
}

// Notify sends an event to the peer.
func (p *Peer) Notify(method string, params interface{}) error {
	return p.Send(Notification{Method: method, Params: params})
}

// OnClose registers fn to run once when the peer disconnects. If the peer is already
// closed fn runs immediately.
func (p *Peer) OnClose(fn func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		fn()
		return
	}
	p.closeHooks = append(p.closeHooks, fn)
	p.mu.Unlock()
}

// Close closes the connection and runs the close hooks. Safe to call more than once.
func (p *Peer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	hooks := p.closeHooks
	p.closeHooks = nil
	p.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return p.conn.Close()
}
