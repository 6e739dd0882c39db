package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap/zaptest"
)

func TestTrimDataFileName(t *testing.T) {
	tests := []struct {
		file string
		name string
		ok   bool
	}{
		{"orders.docdb", "orders", true},
		{"a.b.docdb", "a.b", true},
		{".docdb", "", false},
		{"orders.docdb.bak", "", false},
		{"readme.txt", "", false},
	}
	for _, tt := range tests {
		name, ok := TrimDataFileName(tt.file, ".docdb")
		assert.Equal(t, tt.ok, ok, tt.file)
		assert.Equal(t, tt.name, name, tt.file)
	}
	assert.Equal(t, filepath.Join("data", "orders.docdb"), DataFilePath("data", "orders", ".docdb"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	logger := zaptest.NewLogger(t).Sugar()
	path := filepath.Join(dir, "f")

	assert.False(t, FileExists(path, logger))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.True(t, FileExists(path, logger))
	assert.NoError(t, IsReadable(path))
	assert.False(t, FileExists(dir, logger))

	require.NoError(t, DeleteDataFile(path))
	assert.Error(t, IsReadable(path))
}

func TestBSONKeepsFieldOrder(t *testing.T) {
	in := bson.D{{Key: "z", Value: "1"}, {Key: "a", Value: int32(2)}}
	raw, err := EncodeBSON(in)
	require.NoError(t, err)

	out, err := DecodeBSON(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = DecodeBSON([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
