package inspector

import (
	"context"

	"docinspect/src/engine"
)

// DocumentSource is an open database handle.
type DocumentSource interface {
	GetDocument(id string) (*engine.Document, error)
	Query(ctx context.Context, p engine.Projection) ([]engine.Row, error)
	Close() error
}

// Opener opens a database by logical name.
type Opener interface {
	Open(name string) (DocumentSource, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(name string) (DocumentSource, error)

func (f OpenerFunc) Open(name string) (DocumentSource, error) { return f(name) }

// StoreOpener opens databases read-only through store.
func StoreOpener(store engine.DatabaseStore) Opener {
	return OpenerFunc(func(name string) (DocumentSource, error) {
		db, err := store.OpenDatabase(name)
		if err != nil {
			return nil, err
		}
		return db, nil
	})
}
