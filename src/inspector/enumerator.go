package inspector

import (
	"context"
	"path/filepath"
	"time"

	"docinspect/src/helpers"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DatabaseFile describes one database file in the data directory.
type DatabaseFile struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Enumerator discovers databases by scanning the data directory. Nothing is cached;
// every call reads the directory again.
type Enumerator struct {
	fs        afero.Fs
	root      string
	extension string
	logger    *zap.SugaredLogger
}

func NewEnumerator(fs afero.Fs, root, extension string, logger *zap.SugaredLogger) *Enumerator {
	return &Enumerator{fs: fs, root: root, extension: extension, logger: logger}
}

// ListDatabases returns the logical name of every file in the data directory carrying
// the database extension, in directory order.
func (e *Enumerator) ListDatabases(ctx context.Context) ([]string, error) {
	files, err := e.scan(ctx, "listDatabases")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		e.logger.Debugf("Database name: %s", f.Name)
		names = append(names, f.Name)
	}
	return names, nil
}

// ListDatabaseFiles is ListDatabases with the size and modification time of each file.
func (e *Enumerator) ListDatabaseFiles(ctx context.Context) ([]DatabaseFile, error) {
	return e.scan(ctx, "listDatabaseFiles")
}

func (e *Enumerator) scan(ctx context.Context, op string) ([]DatabaseFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: op, Kind: KindCanceled, Err: err}
	}

	entries, err := afero.ReadDir(e.fs, e.root)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnavailable, Err: err}
	}

	files := make([]DatabaseFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := helpers.TrimDataFileName(entry.Name(), e.extension)
		if !ok {
			continue
		}
		files = append(files, DatabaseFile{
			Name:    name,
			Path:    filepath.Join(e.root, entry.Name()),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}
	return files, nil
}
