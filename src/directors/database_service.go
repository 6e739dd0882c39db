package directors

import (
	"context"
	"fmt"
	"sort"
	"time"

	"docinspect/src/engine"
	"docinspect/src/inspector"
	"docinspect/src/settings"

	"go.uber.org/zap"
)

// DatabaseService is the entry point of every database operation, from the bridge and
// from the command line.
type DatabaseService struct {
	store      engine.DatabaseStore
	factory    engine.DocumentFactory
	enumerator *inspector.Enumerator
	adapter    *inspector.Adapter
	settings   *settings.Arguments
	logger     *zap.SugaredLogger
}

// NewDatabaseService creates a new DatabaseService
func NewDatabaseService(store engine.DatabaseStore, factory engine.DocumentFactory,
	enumerator *inspector.Enumerator,
	adapter *inspector.Adapter,
	settings *settings.Arguments,
	logger *zap.SugaredLogger) *DatabaseService {
	return &DatabaseService{
		store:      store,
		factory:    factory,
		enumerator: enumerator,
		adapter:    adapter,
		settings:   settings,
		logger:     logger,
	}
}

// ListDatabases returns the logical names of the databases in the data directory.
func (s *DatabaseService) ListDatabases(ctx context.Context) []string {
	names := s.adapter.ListDatabases(ctx)
	sort.Strings(names)
	return names
}

// ListDatabaseFiles returns the database files with their sizes, ordered by name.
func (s *DatabaseService) ListDatabaseFiles(ctx context.Context) ([]inspector.DatabaseFile, error) {
	files, err := s.enumerator.ListDatabaseFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// TableNames returns the display identifiers of every document in database.
func (s *DatabaseService) TableNames(ctx context.Context, database string) []string {
	return s.adapter.ListDisplayIDs(ctx, database)
}

// ExecuteSQL renders the document named by query.
func (s *DatabaseService) ExecuteSQL(ctx context.Context, database, query string) (*inspector.ResultTable, error) {
	return s.adapter.ExecuteQuery(ctx, database, query)
}

// SeedDatabase writes fixtures into database, creating it when missing. Fixtures are
// applied in order, so a later fixture with the same id replaces an earlier one.
func (s *DatabaseService) SeedDatabase(database string, fixtures []Fixture) (int, error) {
	db, err := s.store.CreateDatabase(database)
	if err != nil {
		return 0, fmt.Errorf("failed to open database %s: %w", database, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			s.logger.Warnf("Error closing database %s: %v", database, cerr)
		}
	}()

	now := time.Now()
	for _, f := range fixtures {
		doc := s.factory.NewDocument(f.ID, f.Fields)
		if f.ExpiresIn > 0 {
			doc.Expiration = now.Add(f.ExpiresIn).UTC()
		}
		if err := db.PutDocument(doc); err != nil {
			return 0, fmt.Errorf("failed to save document %s: %w", doc.ID, err)
		}
		s.logger.Debugf("Saved document %s to %s", doc.ID, database)
	}

	n, err := db.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count documents in %s: %w", database, err)
	}
	s.logger.Infof("Seeded database %s (%d documents)", database, n)
	return n, nil
}

// DeleteDatabase removes a database file.
func (s *DatabaseService) DeleteDatabase(database string) error {
	if err := s.store.DeleteDatabase(database); err != nil {
		return fmt.Errorf("failed to delete database %s: %w", database, err)
	}
	s.logger.Infof("Deleted database %s", database)
	return nil
}

// ExpireDocument sets the expiration of a stored document to now+in. A zero in clears
// it. Display identifiers are listed by ascending expiration.
func (s *DatabaseService) ExpireDocument(database, id string, in time.Duration) (time.Time, error) {
	if in < 0 {
		return time.Time{}, fmt.Errorf("expiration %s is negative", in)
	}
	db, err := s.store.UpdateDatabase(database)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open database %s: %w", database, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			s.logger.Warnf("Error closing database %s: %v", database, cerr)
		}
	}()

	var at time.Time
	if in > 0 {
		at = time.Now().Add(in).UTC()
	}
	if err := db.SetExpiration(id, at); err != nil {
		return time.Time{}, fmt.Errorf("failed to expire document %s: %w", id, err)
	}
	s.logger.Infof("Set expiration of %s in %s to %v", id, database, at)
	return at, nil
}
