package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return &Table{
		Columns: []Column{
			{Name: "Date", Kind: KindTime},
			{Name: "Media", Kind: KindString},
			{Name: "Cost", Kind: KindFloat},
			{Name: "Clicks", Kind: KindInt},
		},
		Rows: []Row{
			{time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), "Google広告", 100.5, int64(10)},
			{time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), "Yahoo!広告", 55.0, int64(4)},
			{time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), "Google広告", nil, int64(7)},
		},
	}
}

func TestTable_Empty(t *testing.T) {
	var nilTable *Table
	assert.True(t, nilTable.Empty())
	assert.True(t, (&Table{}).Empty())
	assert.False(t, sampleTable().Empty())
}

func TestTable_ColumnLookup(t *testing.T) {
	table := sampleTable()
	assert.Equal(t, []string{"Date", "Media", "Cost", "Clicks"}, table.ColumnNames())
	assert.Equal(t, 2, table.ColumnIndex("Cost"))
	assert.Equal(t, -1, table.ColumnIndex("Nope"))
	assert.True(t, table.HasColumn("Media"))
	assert.False(t, table.HasColumn("Nope"))
}

func TestTable_FirstNumericColumn(t *testing.T) {
	table := sampleTable()
	name, ok := table.FirstNumericColumn()
	require.True(t, ok)
	assert.Equal(t, "Cost", name)

	textOnly := &Table{Columns: []Column{{Name: "A", Kind: KindString}}}
	_, ok = textOnly.FirstNumericColumn()
	assert.False(t, ok)
}

func TestTable_Head(t *testing.T) {
	table := sampleTable()
	assert.Len(t, table.Head(2).Rows, 2)
	assert.Len(t, table.Head(10).Rows, 3)
}

func TestTable_RecordsNormalizesDates(t *testing.T) {
	records := sampleTable().Records(2)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-08-01", records[0]["Date"])
	assert.Equal(t, "Google広告", records[0]["Media"])
	assert.Equal(t, 100.5, records[0]["Cost"])
}

func TestTable_StringValues(t *testing.T) {
	values := sampleTable().StringValues("Media")
	assert.Equal(t, []string{"Google広告", "Yahoo!広告", "Google広告"}, values)
	assert.Nil(t, sampleTable().StringValues("Nope"))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "abc", CellString("abc"))
	assert.Equal(t, "42", CellString(int64(42)))
	assert.Equal(t, "1.5", CellString(1.5))
	assert.Equal(t, "true", CellString(true))
	assert.Equal(t, "2026-08-31", CellString(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)))
}

func TestCellFloat(t *testing.T) {
	v, ok := CellFloat(int64(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = CellFloat(2.5)
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	_, ok = CellFloat("3")
	assert.False(t, ok)
	_, ok = CellFloat(nil)
	assert.False(t, ok)
}
