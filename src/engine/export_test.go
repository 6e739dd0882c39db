package engine

import bolt "go.etcd.io/bbolt"

// PutRaw stores bytes under id without encoding them.
func (d *Database) PutRaw(id string, raw []byte) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		docs, err := tx.CreateBucketIfNotExists(documentsBucket)
		if err != nil {
			return err
		}
		return docs.Put([]byte(id), raw)
	})
}
