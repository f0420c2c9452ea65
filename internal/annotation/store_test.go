package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestStoreInsertAndLookup(t *testing.T) {
	s := openInMemory(t)

	rows := []*Row{plusRow(), minusRow()}
	require.NoError(t, s.InsertRows(rows))

	count, err := s.RowCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := s.LookupGene("abc")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, row := range got {
		assert.Equal(t, "ABC", row.GeneName)
		assert.Equal(t, []int{100, 300, 600}, row.ExonStarts)
		assert.Equal(t, []int{200, 400, 700}, row.ExonEnds)
	}
}

func TestStoreLookupUnknownGene(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.InsertRows([]*Row{plusRow()}))

	got, err := s.LookupGene("NOPE")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStoreInsertReplacesDuplicates(t *testing.T) {
	s := openInMemory(t)

	row := plusRow()
	require.NoError(t, s.InsertRows([]*Row{row}))
	row.GeneName = "RENAMED"
	require.NoError(t, s.InsertRows([]*Row{row}))

	count, err := s.RowCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := s.LookupGene("RENAMED")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
