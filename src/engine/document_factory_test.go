package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNewDocumentSortsFields(t *testing.T) {
	doc := NewDocumentFactory().NewDocument("id:1", map[string]interface{}{
		"type": "User",
		"b":    1,
		"a":    "x",
	})

	assert.Equal(t, "id:1", doc.ID)
	assert.Equal(t, []string{"a", "b", "type"}, keysOf(doc.Fields))
	assert.True(t, doc.Expiration.IsZero())
}

func TestNewDocumentGeneratesID(t *testing.T) {
	doc := NewDocumentFactory().NewDocument("", nil)
	_, err := uuid.Parse(doc.ID)
	assert.NoError(t, err)
	assert.Empty(t, doc.Fields)
}

func TestNewDocumentNormalizesYAMLValues(t *testing.T) {
	doc := NewDocumentFactory().NewDocument("x", map[string]interface{}{
		"address": map[interface{}]interface{}{"zip": 1234, 1: "one"},
		"tags":    []interface{}{"a", map[string]interface{}{"k": "v"}},
	})

	addr, _ := doc.Get("address")
	assert.Equal(t, bson.D{{Key: "1", Value: "one"}, {Key: "zip", Value: 1234}}, addr)

	tags, _ := doc.Get("tags")
	assert.Equal(t, bson.A{"a", bson.D{{Key: "k", Value: "v"}}}, tags)
}
