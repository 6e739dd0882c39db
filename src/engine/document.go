package engine

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// TypeField is the reserved field carrying a document's coarse type.
const TypeField = "type"

// Document is a single stored document. Fields keep the order they were written in.
type Document struct {
	ID     string
	Fields bson.D

	// Expiration is storage metadata, not a field. Zero means the document never expires.
	Expiration time.Time
}

// Get returns the value of the named field.
func (d *Document) Get(key string) (interface{}, bool) {
	for _, e := range d.Fields {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Type returns the document's discriminator. Only string values count.
func (d *Document) Type() (string, bool) {
	v, ok := d.Get(TypeField)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
