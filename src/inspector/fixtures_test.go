package inspector

import (
	"context"
	"errors"
	"testing"
	"time"

	"docinspect/src/engine"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testLogger(t *testing.T) *zap.SugaredLogger {
	return zaptest.NewLogger(t).Sugar()
}

// newOrdersStore returns a store holding database "orders" with the documents used
// throughout these tests.
func newOrdersStore(t *testing.T) *engine.DatabaseStorageEngine {
	t.Helper()
	store, err := engine.NewDatabaseStore(t.TempDir(), ".docdb", time.Second, nil)
	require.NoError(t, err)

	db, err := store.CreateDatabase("orders")
	require.NoError(t, err)
	defer db.Close()

	for _, doc := range []*engine.Document{
		{ID: "id:1", Fields: bson.D{
			{Key: "type", Value: "User"},
			{Key: "_rev", Value: "1-a"},
			{Key: "name", Value: "Ann"},
		}},
		{ID: "id:2", Fields: bson.D{
			{Key: "_id", Value: "id:2"},
			{Key: "total", Value: 12.5},
			{Key: "lines", Value: bson.A{"a", "b"}},
		}, Expiration: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
	} {
		require.NoError(t, db.PutDocument(doc))
	}
	return store
}

// putRawDocument stores bytes under id without encoding them, bypassing the engine.
func putRawDocument(t *testing.T, path, id string, raw []byte) {
	t.Helper()
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		docs, err := tx.CreateBucketIfNotExists([]byte("documents"))
		if err != nil {
			return err
		}
		return docs.Put([]byte(id), raw)
	}))
}

// countingSource wraps a DocumentSource and records Close calls.
type countingSource struct {
	DocumentSource
	rows   []engine.Row
	getErr error
	qErr   error
	closes *int
}

func (s *countingSource) Query(ctx context.Context, p engine.Projection) ([]engine.Row, error) {
	if s.qErr != nil {
		return nil, s.qErr
	}
	return s.rows, nil
}

func (s *countingSource) GetDocument(id string) (*engine.Document, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return nil, engine.ErrDocumentNotFound
}

func (s *countingSource) Close() error {
	*s.closes++
	return errors.New("close failed")
}
