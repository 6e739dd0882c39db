package engine

import (
	"fmt"
	"sort"

	"docinspect/src/helpers"

	"go.mongodb.org/mongo-driver/bson"
)

// DocumentFactory builds documents from loosely typed input such as fixture files.
type DocumentFactory interface {
	NewDocument(id string, fields map[string]interface{}) *Document
}

type DocumentFactoryImpl struct{}

func NewDocumentFactory() *DocumentFactoryImpl {
	return &DocumentFactoryImpl{}
}

// NewDocument builds a document with fields in ascending key order. An empty id is
// replaced by a generated UUID.
func (f *DocumentFactoryImpl) NewDocument(id string, fields map[string]interface{}) *Document {
	if id == "" {
		id = helpers.GenerateUUID()
	}

	return &Document{
		ID:     id,
		Fields: f.MakeDocumentFields(fields),
	}
}

func (f *DocumentFactoryImpl) MakeDocumentFields(fields map[string]interface{}) bson.D {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: normalizeValue(fields[k])})
	}
	return d
}

// normalizeValue converts the map types produced by YAML decoding into forms BSON can
// encode.
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[toKey(k)] = val
		}
		return NewDocumentFactory().MakeDocumentFields(m)
	case map[string]interface{}:
		return NewDocumentFactory().MakeDocumentFields(t)
	case []interface{}:
		a := make(bson.A, len(t))
		for i, val := range t {
			a[i] = normalizeValue(val)
		}
		return a
	default:
		return v
	}
}

func toKey(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
