package table

// Reserved column names. Object identity and location own these columns;
// properties carrying the same name never overwrite them.
const (
	ColumnID           = "id"
	ColumnLat          = "lat"
	ColumnLon          = "lon"
	ColumnCounty       = "fylke"
	ColumnMunicipality = "kommune"
	ColumnScore        = "kompletthet_score"
)

var reserved = map[string]bool{
	ColumnID:           true,
	ColumnLat:          true,
	ColumnLon:          true,
	ColumnCounty:       true,
	ColumnMunicipality: true,
	ColumnScore:        true,
}

// IsReserved reports whether name is a column the normalizer owns
func IsReserved(name string) bool {
	return reserved[name]
}

// Row is one flattened object. Keys keep their assignment order; a key
// assigned nil is an explicit "no value".
type Row struct {
	keys   []string
	values map[string]interface{}
}

// NewRow creates an empty row
func NewRow() Row {
	return Row{values: make(map[string]interface{})}
}

// Set assigns col; a repeated name overwrites in place (last write wins)
func (r *Row) Set(col string, v interface{}) {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	if _, ok := r.values[col]; !ok {
		r.keys = append(r.keys, col)
	}
	r.values[col] = v
}

// Get returns the value of col and whether it is present (assigned and non-nil)
func (r Row) Get(col string) (interface{}, bool) {
	v, ok := r.values[col]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Keys returns the assigned column names in assignment order
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Row) clone() Row {
	c := Row{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]interface{}, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Table is an ordered sequence of rows whose column set is the union of
// every key ever assigned, in first-seen order.
// ⭐ SSOT: normalize → analyze hand-off
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New creates an empty table
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Append adds a row and registers its columns
func (t *Table) Append(r Row) {
	for _, k := range r.keys {
		if _, ok := t.index[k]; !ok {
			t.index[k] = len(t.columns)
			t.columns = append(t.columns, k)
		}
	}
	t.rows = append(t.rows, r)
}

// Len returns the row count
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns the column names in first-seen order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether any row assigned col
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Row returns row i
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Value returns the cell at (i, col); false means "no value"
func (t *Table) Value(i int, col string) (interface{}, bool) {
	return t.rows[i].Get(col)
}

// Head returns a copy holding the first n rows with the full column set
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}

	h := &Table{
		columns: t.Columns(),
		index:   make(map[string]int, len(t.index)),
		rows:    make([]Row, n),
	}
	for k, v := range t.index {
		h.index[k] = v
	}
	for i := 0; i < n; i++ {
		h.rows[i] = t.rows[i].clone()
	}
	return h
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	return t.Head(len(t.rows))
}

// WithColumn returns a copy with col set to values[i] on row i.
// Values beyond the row count are ignored.
func (t *Table) WithColumn(col string, values []interface{}) *Table {
	c := t.Clone()
	if _, ok := c.index[col]; !ok {
		c.index[col] = len(c.columns)
		c.columns = append(c.columns, col)
	}
	for i := range c.rows {
		if i < len(values) {
			c.rows[i].Set(col, values[i])
		}
	}
	return c
}

// Records renders every row with the full column set; missing cells are nil
func (t *Table) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, len(t.rows))
	for i, r := range t.rows {
		rec := make(map[string]interface{}, len(t.columns))
		for _, col := range t.columns {
			v, _ := r.Get(col)
			rec[col] = v
		}
		out[i] = rec
	}
	return out
}
