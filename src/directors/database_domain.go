package directors

import (
	"context"
	"encoding/json"
	"errors"

	"docinspect/src/inspector"
	"docinspect/src/server"

	"go.uber.org/zap"
)

type databaseIDParams struct {
	DatabaseID string `json:"databaseId"`
}

type executeSQLParams struct {
	DatabaseID string `json:"databaseId"`
	Query      string `json:"query"`
}

// DatabaseDomain implements the Database.* methods.
type DatabaseDomain struct {
	service *DatabaseService
	peers   *server.PeerRegistry
	logger  *zap.SugaredLogger
}

func NewDatabaseDomain(service *DatabaseService, peers *server.PeerRegistry, logger *zap.SugaredLogger) *DatabaseDomain {
	return &DatabaseDomain{service: service, peers: peers, logger: logger}
}

func (d *DatabaseDomain) Register(director *CommandDirector) {
	director.Handle("Database.enable", d.enable)
	director.Handle("Database.disable", d.disable)
	director.Handle("Database.getDatabaseTableNames", d.getDatabaseTableNames)
	director.Handle("Database.executeSQL", d.executeSQL)
}

func (d *DatabaseDomain) enable(_ context.Context, peer *server.Peer, _ json.RawMessage) (interface{}, error) {
	d.peers.Register(peer)
	return nil, nil
}

func (d *DatabaseDomain) disable(_ context.Context, peer *server.Peer, _ json.RawMessage) (interface{}, error) {
	d.peers.Unregister(peer)
	return nil, nil
}

func (d *DatabaseDomain) getDatabaseTableNames(ctx context.Context, _ *server.Peer, params json.RawMessage) (interface{}, error) {
	var p databaseIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return map[string][]string{"tableNames": d.service.TableNames(ctx, p.DatabaseID)}, nil
}

func (d *DatabaseDomain) executeSQL(ctx context.Context, _ *server.Peer, params json.RawMessage) (interface{}, error) {
	var p executeSQLParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	table, err := d.service.ExecuteSQL(ctx, p.DatabaseID, p.Query)
	if err != nil {
		return nil, server.NewRPCError(server.CodeInternalError, "%s: %v", inspector.KindIO, rootCause(err))
	}
	return table, nil
}

// rootCause strips the inspector.Error envelope, whose kind is already in the message.
func rootCause(err error) error {
	var e *inspector.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err
	}
	return err
}

// ConsoleDomain implements the Console.* methods.
type ConsoleDomain struct {
	peers *server.PeerRegistry
}

func NewConsoleDomain(peers *server.PeerRegistry) *ConsoleDomain {
	return &ConsoleDomain{peers: peers}
}

func (d *ConsoleDomain) Register(director *CommandDirector) {
	director.Handle("Console.enable", func(_ context.Context, peer *server.Peer, _ json.RawMessage) (interface{}, error) {
		d.peers.Register(peer)
		return nil, nil
	})
	director.Handle("Console.disable", func(_ context.Context, peer *server.Peer, _ json.RawMessage) (interface{}, error) {
		d.peers.Unregister(peer)
		return nil, nil
	})
}
