package engine

import (
	"context"
	"encoding/binary"
	"sort"
	"time"

	"docinspect/src/helpers"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var (
	documentsBucket   = []byte("documents")
	expirationsBucket = []byte("expirations")
)

// Database is an open handle on one database file. Handles are short lived: open,
// use, Close.
type Database struct {
	Name     string
	Path     string
	ReadOnly bool

	db     *bolt.DB
	logger *zap.SugaredLogger
}

// Close releases the underlying file. It is safe to call more than once.
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	if err != nil {
		return errors.Wrapf(err, "closing database %s", d.Name)
	}
	if d.logger != nil {
		d.logger.Debugf("Closed database %s", d.Name)
	}
	return nil
}

// GetDocument loads the document stored under id.
func (d *Database) GetDocument(id string) (*Document, error) {
	if id == "" {
		return nil, ErrInvalidDocumentID
	}

	var doc *Document
	err := d.db.View(func(tx *bolt.Tx) error {
		docs := tx.Bucket(documentsBucket)
		if docs == nil {
			return ErrDocumentNotFound
		}
		raw := docs.Get([]byte(id))
		if raw == nil {
			return ErrDocumentNotFound
		}

		fields, err := helpers.DecodeBSON(raw)
		if err != nil {
			return errors.Wrapf(ErrCorruptDocument, "document %q: %v", id, err)
		}
		doc = &Document{
			ID:         id,
			Fields:     fields,
			Expiration: expirationOf(tx, []byte(id)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Query runs a projection over every document. Rows whose body cannot be decoded fail
// the whole query.
func (d *Database) Query(ctx context.Context, p Projection) ([]Row, error) {
	var rows []Row
	err := d.db.View(func(tx *bolt.Tx) error {
		docs := tx.Bucket(documentsBucket)
		if docs == nil {
			return nil
		}
		return docs.ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			fields, err := helpers.DecodeBSON(v)
			if err != nil {
				return errors.Wrapf(ErrCorruptDocument, "document %q: %v", k, err)
			}
			doc := Document{Fields: fields}

			row := Row{
				ID:         string(k),
				Expiration: expirationOf(tx, k),
				Values:     make(map[string]interface{}, len(p.Fields)),
			}
			for _, f := range p.Fields {
				if val, ok := doc.Get(f); ok {
					row.Values[f] = val
				}
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "querying database %s", d.Name)
	}

	sortRows(rows, p.Ordering)
	return rows, nil
}

// Count returns the number of stored documents.
func (d *Database) Count() (int, error) {
	var n int
	err := d.db.View(func(tx *bolt.Tx) error {
		if docs := tx.Bucket(documentsBucket); docs != nil {
			n = docs.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// PutDocument stores doc, replacing any previous document with the same id. The stored
// expiration follows doc.Expiration.
func (d *Database) PutDocument(doc *Document) error {
	if d.ReadOnly {
		return ErrReadOnly
	}
	if doc.ID == "" {
		return ErrInvalidDocumentID
	}

	raw, err := helpers.EncodeBSON(doc.Fields)
	if err != nil {
		return errors.Wrapf(err, "encoding document %q", doc.ID)
	}

	return d.db.Update(func(tx *bolt.Tx) error {
		docs, err := tx.CreateBucketIfNotExists(documentsBucket)
		if err != nil {
			return errors.Wrap(err, "creating documents bucket")
		}
		exps, err := tx.CreateBucketIfNotExists(expirationsBucket)
		if err != nil {
			return errors.Wrap(err, "creating expirations bucket")
		}

		if err := docs.Put([]byte(doc.ID), raw); err != nil {
			return errors.Wrapf(err, "writing document %q", doc.ID)
		}
		if doc.Expiration.IsZero() {
			return exps.Delete([]byte(doc.ID))
		}
		return exps.Put([]byte(doc.ID), encodeExpiration(doc.Expiration))
	})
}

// SetExpiration updates the expiration of an existing document. A zero time clears it.
func (d *Database) SetExpiration(id string, at time.Time) error {
	if d.ReadOnly {
		return ErrReadOnly
	}

	return d.db.Update(func(tx *bolt.Tx) error {
		docs := tx.Bucket(documentsBucket)
		if docs == nil || docs.Get([]byte(id)) == nil {
			return ErrDocumentNotFound
		}
		exps, err := tx.CreateBucketIfNotExists(expirationsBucket)
		if err != nil {
			return errors.Wrap(err, "creating expirations bucket")
		}
		if at.IsZero() {
			return exps.Delete([]byte(id))
		}
		return exps.Put([]byte(id), encodeExpiration(at))
	})
}

func expirationOf(tx *bolt.Tx, id []byte) time.Time {
	exps := tx.Bucket(expirationsBucket)
	if exps == nil {
		return time.Time{}
	}
	raw := exps.Get(id)
	if len(raw) != 8 {
		return time.Time{}
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(raw))).UTC()
}

func encodeExpiration(at time.Time) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(at.UnixNano()))
	return buf[:]
}

func sortRows(rows []Row, ordering Ordering) {
	switch ordering {
	case OrderByExpirationAsc:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].Expiration, rows[j].Expiration
			if a.IsZero() != b.IsZero() {
				return a.IsZero()
			}
			if !a.Equal(b) {
				return a.Before(b)
			}
			return rows[i].ID < rows[j].ID
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	}
}
