package directors

import (
	"fmt"

	"docinspect/src/engine"
	"docinspect/src/inspector"
	"docinspect/src/server"
	"docinspect/src/settings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ServiceManager wires the services, peer registries and protocol handlers for one
// process.
type ServiceManager struct {
	DatabaseService *DatabaseService
	DatabasePeers   *server.PeerRegistry
	ConsolePeers    *server.PeerRegistry
	Director        *CommandDirector
}

// NewServiceManager builds every service from args. fs is the filesystem the data
// directory is enumerated on.
func NewServiceManager(args *settings.Arguments, fs afero.Fs, logger *zap.SugaredLogger) (*ServiceManager, error) {
	store, err := engine.NewDatabaseStore(args.DataDir, args.Extension, args.OpenTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database store: %w", err)
	}

	consolePeers := server.NewPeerRegistry("Console", nil, logger)
	console := inspector.ConsoleFunc(func(level inspector.ConsoleLevel, source inspector.ConsoleSource, text string) {
		logger.Debugw("Console message", "level", level, "source", source, "text", text)
		consolePeers.WriteToConsole(level, source, text)
	})

	opener := inspector.StoreOpener(store)
	enumerator := inspector.NewEnumerator(fs, args.DataDir, args.Extension, logger)
	adapter := inspector.NewAdapter(
		enumerator,
		inspector.NewIndexBuilder(opener, logger),
		inspector.NewTranslator(opener, console, args.ShowMetadata, logger),
		logger,
	)
	databaseService := NewDatabaseService(store, engine.NewDocumentFactory(), enumerator, adapter, args, logger)

	databasePeers := server.NewPeerRegistry("Database", []server.PeerListener{
		NewAnnouncer(databaseService, args.Domain, logger),
	}, logger)

	director := NewCommandDirector(logger)
	NewDatabaseDomain(databaseService, databasePeers, logger).Register(director)
	NewConsoleDomain(consolePeers).Register(director)

	logger.Debugw("ServiceManager initialized", "methods", director.Methods())
	return &ServiceManager{
		DatabaseService: databaseService,
		DatabasePeers:   databasePeers,
		ConsolePeers:    consolePeers,
		Director:        director,
	}, nil
}
