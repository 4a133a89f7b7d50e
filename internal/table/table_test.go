package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildTable() *Table {
	t := New()

	r1 := NewRow()
	r1.Set(ColumnID, int64(1))
	r1.Set("Diameter", 600.0)
	t.Append(r1)

	r2 := NewRow()
	r2.Set(ColumnID, int64(2))
	r2.Set("Materiale", "Betong")
	t.Append(r2)

	return t
}

func TestTable_Columns(t *testing.T) {
	tbl := buildTable()

	assert.Equal(t, []string{"id", "Diameter", "Materiale"}, tbl.Columns())
	assert.True(t, tbl.HasColumn("Materiale"))
	assert.False(t, tbl.HasColumn("Lengde"))
}

func TestTable_WithColumnCopies(t *testing.T) {
	tbl := buildTable()
	scored := tbl.WithColumn(ColumnScore, []interface{}{0.5, 1.0})

	assert.False(t, tbl.HasColumn(ColumnScore), "input table must not change")
	assert.Equal(t, "kompletthet_score", scored.Columns()[3])

	v, ok := scored.Value(1, ColumnScore)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestTable_Head(t *testing.T) {
	tbl := buildTable()

	head := tbl.Head(1)
	assert.Equal(t, 1, head.Len())
	assert.Equal(t, tbl.Columns(), head.Columns())

	assert.Equal(t, 2, tbl.Head(10).Len())
	assert.Equal(t, 0, tbl.Head(-1).Len())
}

func TestTable_Records(t *testing.T) {
	recs := buildTable().Records()

	assert.Len(t, recs, 2)
	assert.Nil(t, recs[0]["Materiale"])
	assert.Contains(t, recs[0], "Materiale", "missing cells are explicit nil")
	assert.Equal(t, "Betong", recs[1]["Materiale"])
}

func TestIsReserved(t *testing.T) {
	for _, name := range []string{"id", "lat", "lon", "fylke", "kommune", "kompletthet_score"} {
		assert.True(t, IsReserved(name), name)
	}
	assert.False(t, IsReserved("Diameter"))
}
