package inspector

// Column names of every non-empty ResultTable.
const (
	KeyColumn   = "key"
	ValueColumn = "value"
)

// ResultTable is the two-column rendering of one document. Values holds the cells
// row by row: key1, value1, key2, value2, ...
type ResultTable struct {
	ColumnNames []string `json:"columnNames"`
	Values      []string `json:"values"`
}

// EmptyTable returns a table with no columns and no values.
func EmptyTable() *ResultTable {
	return &ResultTable{ColumnNames: []string{}, Values: []string{}}
}

// Field is one key/value pair of a flattened document.
type Field struct {
	Key   string
	Value string
}

// NewResultTable builds a key/value table from fields, in order.
func NewResultTable(fields []Field) *ResultTable {
	t := &ResultTable{
		ColumnNames: []string{KeyColumn, ValueColumn},
		Values:      make([]string, 0, 2*len(fields)),
	}
	for _, f := range fields {
		t.Values = append(t.Values, f.Key, f.Value)
	}
	return t
}

// Rows returns the table's key/value pairs.
func (t *ResultTable) Rows() []Field {
	rows := make([]Field, 0, len(t.Values)/2)
	for i := 0; i+1 < len(t.Values); i += 2 {
		rows = append(rows, Field{Key: t.Values[i], Value: t.Values[i+1]})
	}
	return rows
}

// Empty reports whether the table has no columns.
func (t *ResultTable) Empty() bool {
	return len(t.ColumnNames) == 0
}
