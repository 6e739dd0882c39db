package inspector

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDatabasesFiltersByExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"a.ext", "b.ext", "readme.txt", ".ext"} {
		require.NoError(t, afero.WriteFile(fs, "/data/"+name, []byte("x"), 0644))
	}
	require.NoError(t, fs.MkdirAll("/data/dir.ext", 0755))

	e := NewEnumerator(fs, "/data", ".ext", testLogger(t))
	names, err := e.ListDatabases(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestListDatabasesMissingRoot(t *testing.T) {
	e := NewEnumerator(afero.NewMemMapFs(), "/nowhere", ".ext", testLogger(t))

	_, err := e.ListDatabases(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, KindOf(err))

	a := NewAdapter(e, nil, nil, testLogger(t))
	assert.Equal(t, []string{}, a.ListDatabases(context.Background()))
}

func TestListDatabasesReadsFreshEachCall(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/a.ext", nil, 0644))
	e := NewEnumerator(fs, "/data", ".ext", testLogger(t))

	names, err := e.ListDatabases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)

	require.NoError(t, fs.Remove("/data/a.ext"))
	require.NoError(t, afero.WriteFile(fs, "/data/c.ext", nil, 0644))

	names, err = e.ListDatabases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, names)
}

func TestListDatabaseFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/a.ext", []byte("abcd"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/data/notes.txt", []byte("x"), 0644))
	require.NoError(t, fs.MkdirAll("/data/dir.ext", 0755))
	e := NewEnumerator(fs, "/data", ".ext", testLogger(t))

	files, err := e.ListDatabaseFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a", files[0].Name)
	assert.Equal(t, filepath.Join("/data", "a.ext"), files[0].Path)
	assert.Equal(t, int64(4), files[0].Size)
	assert.False(t, files[0].ModTime.IsZero())
}

func TestListDatabasesCanceled(t *testing.T) {
	e := NewEnumerator(afero.NewMemMapFs(), "/data", ".ext", testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ListDatabaseFiles(ctx)
	assert.Equal(t, KindCanceled, KindOf(err))

	a := NewAdapter(e, nil, nil, testLogger(t))
	assert.Equal(t, []string{}, a.ListDatabases(ctx))
}
