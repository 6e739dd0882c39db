package engine

import (
	"os"
	"strings"
	"time"

	"docinspect/src/helpers"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// DatabaseStore defines the storage operations the inspector and the tooling need.
type DatabaseStore interface {
	// OpenDatabase opens an existing database read-only.
	OpenDatabase(name string) (*Database, error)

	// CreateDatabase opens a database for writing, creating its file when missing.
	CreateDatabase(name string) (*Database, error)

	// UpdateDatabase opens an existing database for writing.
	UpdateDatabase(name string) (*Database, error)

	DeleteDatabase(name string) error
}

type DatabaseStorageEngine struct {
	DataDirectory string
	Extension     string
	OpenTimeout   time.Duration

	logger *zap.SugaredLogger
}

func NewDatabaseStore(dataDir, extension string, openTimeout time.Duration, logger *zap.SugaredLogger) (*DatabaseStorageEngine, error) {
	if !strings.HasPrefix(extension, ".") {
		return nil, errors.Errorf("extension %q must start with '.'", extension)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &DatabaseStorageEngine{
		DataDirectory: dataDir,
		Extension:     extension,
		OpenTimeout:   openTimeout,
		logger:        logger,
	}, nil
}

// PathOf returns the file backing the named database.
func (e *DatabaseStorageEngine) PathOf(name string) string {
	return helpers.DataFilePath(e.DataDirectory, name, e.Extension)
}

func (e *DatabaseStorageEngine) OpenDatabase(name string) (*Database, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	path := e.PathOf(name)
	if !helpers.FileExists(path, e.logger) {
		return nil, errors.Wrapf(ErrDatabaseNotFound, "database %s", name)
	}
	if err := helpers.IsReadable(path); err != nil {
		return nil, errors.Wrapf(err, "opening database %s", name)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		ReadOnly: true,
		Timeout:  e.OpenTimeout,
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrDatabaseNotFound, "database %s", name)
		}
		return nil, errors.Wrapf(err, "opening database %s", name)
	}

	e.logger.Debugf("Opened database %s (read-only)", name)
	return &Database{Name: name, Path: path, ReadOnly: true, db: db, logger: e.logger}, nil
}

func (e *DatabaseStorageEngine) CreateDatabase(name string) (*Database, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(e.DataDirectory, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating data directory %s", e.DataDirectory)
	}
	return e.openWritable(name)
}

func (e *DatabaseStorageEngine) UpdateDatabase(name string) (*Database, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !helpers.FileExists(e.PathOf(name), e.logger) {
		return nil, errors.Wrapf(ErrDatabaseNotFound, "database %s", name)
	}
	return e.openWritable(name)
}

func (e *DatabaseStorageEngine) openWritable(name string) (*Database, error) {
	path := e.PathOf(name)
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: e.OpenTimeout})
	if err != nil {
		return nil, errors.Wrapf(err, "opening database %s", name)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(documentsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(expirationsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "initializing database %s", name)
	}

	e.logger.Debugf("Opened database %s (read-write)", name)
	return &Database{Name: name, Path: path, db: db, logger: e.logger}, nil
}

func (e *DatabaseStorageEngine) DeleteDatabase(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := e.PathOf(name)
	if !helpers.FileExists(path, e.logger) {
		return errors.Wrapf(ErrDatabaseNotFound, "database %s", name)
	}
	if err := helpers.DeleteDataFile(path); err != nil {
		return errors.Wrapf(err, "deleting database %s", name)
	}
	return nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}
