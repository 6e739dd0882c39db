package engine

import "time"

// Ordering selects the traversal order of a projection query. The zero Ordering walks
// documents in raw id order.
type Ordering int

const (
	// OrderByExpirationAsc walks documents by ascending expiration. Documents without
	// an expiration come first; ties fall back to raw id order.
	OrderByExpirationAsc Ordering = iota + 1
)

// Projection is a read-only query returning the id of every document plus the named
// fields. It never filters.
type Projection struct {
	Fields   []string
	Ordering Ordering
}

// Row is one result of a Projection.
type Row struct {
	ID         string
	Expiration time.Time
	Values     map[string]interface{}
}

// String returns the named value when it is present and a string.
func (r Row) String(field string) (string, bool) {
	v, ok := r.Values[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
