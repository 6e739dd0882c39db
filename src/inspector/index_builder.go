package inspector

import (
	"context"

	"docinspect/src/engine"

	"go.uber.org/zap"
)

// displayIDProjection reads every document's id and discriminator. The expiration
// ordering only fixes the traversal order.
var displayIDProjection = engine.Projection{
	Fields:   []string{engine.TypeField},
	Ordering: engine.OrderByExpirationAsc,
}

// IndexBuilder lists the display identifiers of a database.
type IndexBuilder struct {
	opener Opener
	logger *zap.SugaredLogger
}

func NewIndexBuilder(opener Opener, logger *zap.SugaredLogger) *IndexBuilder {
	return &IndexBuilder{opener: opener, logger: logger}
}

// ListDisplayIDs returns one display identifier per document, without duplicates, in
// expiration order. Documents whose id or discriminator cannot be encoded are skipped.
func (b *IndexBuilder) ListDisplayIDs(ctx context.Context, database string) (ids []string, err error) {
	b.logger.Debugf("listDisplayIds: %s", database)

	src, err := b.opener.Open(database)
	if err != nil {
		return nil, &Error{Op: "listDisplayIds", Kind: KindUnavailable, Database: database, Err: err}
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			b.logger.Warnw("Error closing database", "database", database, "error", cerr)
		}
	}()

	rows, err := src.Query(ctx, displayIDProjection)
	if err != nil {
		return nil, &Error{Op: "listDisplayIds", Kind: kindOrCanceled(err, KindUnavailable), Database: database, Err: err}
	}

	seen := make(map[string]struct{}, len(rows))
	ids = make([]string, 0, len(rows))
	for _, row := range rows {
		id, err := displayIDOf(row)
		if err != nil {
			b.logger.Warnw("Skipping document", "database", database, "id", row.ID, "error", err)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func displayIDOf(row engine.Row) (string, error) {
	if !Quotable(row.ID) {
		return "", ErrUnquotableID
	}
	typ, ok := row.String(engine.TypeField)
	if !ok {
		return EncodeDisplayID(row.ID), nil
	}
	if !Quotable(typ) {
		return "", ErrUnquotableID
	}
	return EncodeTypedDisplayID(typ, row.ID)
}
