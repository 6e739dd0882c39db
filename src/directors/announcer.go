package directors

import (
	"context"

	"docinspect/src/server"

	"go.uber.org/zap"
)

// DatabaseDescriptor is the payload of Database.addDatabase.
type DatabaseDescriptor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	Version string `json:"version"`
}

// Announcer tells newly registered peers about every database.
type Announcer struct {
	service *DatabaseService
	domain  string
	logger  *zap.SugaredLogger
}

func NewAnnouncer(service *DatabaseService, domain string, logger *zap.SugaredLogger) *Announcer {
	return &Announcer{service: service, domain: domain, logger: logger}
}

func (a *Announcer) OnPeerRegistered(peer *server.Peer) {
	for _, name := range a.service.ListDatabases(context.Background()) {
		err := peer.Notify("Database.addDatabase", map[string]DatabaseDescriptor{
			"database": {ID: name, Name: name, Domain: a.domain, Version: "N/A"},
		})
		if err != nil {
			peer.Logger.Warnw("Failed to announce database", "database", name, "error", err)
			return
		}
	}
}

func (a *Announcer) OnPeerUnregistered(peer *server.Peer) {
	a.logger.Debugw("Stopped announcing to peer", "peerID", peer.ID)
}
