package inspector

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"docinspect/src/engine"

	"go.uber.org/zap"
)

// quotedID finds the first double-quoted substring of a query.
var quotedID = regexp.MustCompile(`"(.*?)"`)

// Translator answers queries naming a single document.
type Translator struct {
	opener       Opener
	console      Console
	showMetadata bool
	logger       *zap.SugaredLogger
}

// NewTranslator returns a Translator. showMetadata keeps "_" prefixed keys and the type
// discriminator in results. A nil console discards console output.
func NewTranslator(opener Opener, console Console, showMetadata bool, logger *zap.SugaredLogger) *Translator {
	if console == nil {
		console = nopConsole{}
	}
	return &Translator{
		opener:       opener,
		console:      console,
		showMetadata: showMetadata,
		logger:       logger,
	}
}

// ExtractDisplayID returns the first double-quoted substring of query.
func ExtractDisplayID(query string) (string, bool) {
	m := quotedID.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsMetadataKey reports whether key is storage bookkeeping rather than content.
func IsMetadataKey(key string) bool {
	return strings.HasPrefix(key, "_") || key == engine.TypeField
}

// ExecuteQuery renders the document named by the first quoted identifier of query.
// The full document is also written to the console at debug level.
func (t *Translator) ExecuteQuery(ctx context.Context, database, query string) (*ResultTable, error) {
	t.logger.Debugf("executeQuery: %s, %s", database, query)

	displayID, ok := ExtractDisplayID(query)
	if !ok {
		return nil, &Error{Op: "executeQuery", Kind: KindNoReference, Database: database, Err: ErrNoDocumentReference}
	}
	rawID := DecodeDisplayID(displayID)
	t.logger.Debugf("Parsed document id: %s", rawID)

	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "executeQuery", Kind: KindCanceled, Database: database, Err: err}
	}

	src, err := t.opener.Open(database)
	if err != nil {
		kind := KindIO
		if errors.Is(err, engine.ErrDatabaseNotFound) || errors.Is(err, engine.ErrInvalidName) {
			kind = KindNotFound
		}
		return nil, &Error{Op: "executeQuery", Kind: kind, Database: database, Err: err}
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			t.logger.Warnw("Error closing database", "database", database, "error", cerr)
		}
	}()

	doc, err := src.GetDocument(rawID)
	if err != nil {
		kind := KindIO
		if errors.Is(err, engine.ErrDocumentNotFound) || errors.Is(err, engine.ErrInvalidDocumentID) {
			kind = KindNotFound
		}
		return nil, &Error{Op: "executeQuery", Kind: kind, Database: database, Err: err}
	}

	fields := Flatten(doc)

	all := make(map[string]string, len(fields))
	for _, f := range fields {
		all[f.Key] = f.Value
	}
	t.console.WriteToConsole(LevelDebug, SourceJavaScript, PrettyJSON(all))

	if !t.showMetadata {
		fields = withoutMetadata(fields)
	}
	return NewResultTable(fields), nil
}

// Flatten renders every field of doc, in stored order.
func Flatten(doc *engine.Document) []Field {
	fields := make([]Field, 0, len(doc.Fields))
	for _, e := range doc.Fields {
		fields = append(fields, Field{Key: e.Key, Value: Stringify(e.Value)})
	}
	return fields
}

func withoutMetadata(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if !IsMetadataKey(f.Key) {
			out = append(out, f)
		}
	}
	return out
}
