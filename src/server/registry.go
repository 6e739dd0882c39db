package server

import (
	"sort"
	"sync"

	"docinspect/src/inspector"

	"go.uber.org/zap"
)

// PeerListener is told when peers join or leave a registry.
type PeerListener interface {
	OnPeerRegistered(peer *Peer)
	OnPeerUnregistered(peer *Peer)
}

// ConsoleMessage is the payload of Console.messageAdded.
type ConsoleMessage struct {
	Level  inspector.ConsoleLevel  `json:"level"`
	Source inspector.ConsoleSource `json:"source"`
	Text   string                  `json:"text"`
}

// PeerRegistry tracks the peers that enabled one protocol domain. Listeners are fixed at
// construction and called outside the registry lock.
type PeerRegistry struct {
	name      string
	listeners []PeerListener
	logger    *zap.SugaredLogger

	mu    sync.RWMutex
	peers map[string]*Peer
}

func NewPeerRegistry(name string, listeners []PeerListener, logger *zap.SugaredLogger) *PeerRegistry {
	return &PeerRegistry{
		name:      name,
		listeners: listeners,
		logger:    logger,
		peers:     make(map[string]*Peer),
	}
}

// Register adds peer and notifies listeners. It reports false, without notifying, when
// the peer was already registered. The peer is unregistered when it disconnects.
func (r *PeerRegistry) Register(peer *Peer) bool {
	r.mu.Lock()
	if _, ok := r.peers[peer.ID]; ok {
		r.mu.Unlock()
		return false
	}
	r.peers[peer.ID] = peer
	r.mu.Unlock()

	registeredPeers.WithLabelValues(r.name).Inc()
	r.logger.Debugw("Peer registered", "domain", r.name, "peerID", peer.ID)

	peer.OnClose(func() { r.Unregister(peer) })
	for _, l := range r.listeners {
		l.OnPeerRegistered(peer)
	}
	return true
}

// Unregister removes peer and notifies listeners. It reports false when the peer was
// not registered.
func (r *PeerRegistry) Unregister(peer *Peer) bool {
	r.mu.Lock()
	if _, ok := r.peers[peer.ID]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.peers, peer.ID)
	r.mu.Unlock()

	registeredPeers.WithLabelValues(r.name).Dec()
	r.logger.Debugw("Peer unregistered", "domain", r.name, "peerID", peer.ID)

	for _, l := range r.listeners {
		l.OnPeerUnregistered(peer)
	}
	return true
}

// Peers returns the registered peers ordered by id.
func (r *PeerRegistry) Peers() []*Peer {
	r.mu.RLock()
	peers := make([]*Peer, 0, len(r.peers))
	for _, p := range r.peers {
		peers = append(peers, p)
	}
	r.mu.RUnlock()

	sort.Slice(peers, func(i, j int) bool { return peers[i].ID < peers[j].ID })
	return peers
}

func (r *PeerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// Broadcast sends an event to every registered peer. Failed sends are logged.
func (r *PeerRegistry) Broadcast(method string, params interface{}) {
	for _, p := range r.Peers() {
		if err := p.Notify(method, params); err != nil {
			p.Logger.Warnw("Failed to deliver event", "method", method, "error", err)
		}
	}
}

// WriteToConsole broadcasts a Console.messageAdded event.
func (r *PeerRegistry) WriteToConsole(level inspector.ConsoleLevel, source inspector.ConsoleSource, text string) {
	consoleMessages.WithLabelValues(string(level)).Inc()
	r.Broadcast("Console.messageAdded", map[string]interface{}{
		"message": ConsoleMessage{Level: level, Source: source, Text: text},
	})
}
