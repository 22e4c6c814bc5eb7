package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_AppendGet(t *testing.T) {
	tbl := NewTable[int](4)

	_, ok := tbl.Get(0)
	assert.False(t, ok)

	for i := 0; i < 10; i++ {
		tbl.Append(i * 10)
	}
	require.Equal(t, 10, tbl.Len())

	for i := 0; i < 10; i++ {
		v, ok := tbl.Get(i)
		require.True(t, ok)
		assert.Equal(t, i*10, v)
	}

	_, ok = tbl.Get(10)
	assert.False(t, ok)
	_, ok = tbl.Get(-1)
	assert.False(t, ok)
}

func TestTable_Last(t *testing.T) {
	var tbl Table[string]

	_, ok := tbl.Last()
	assert.False(t, ok)

	tbl.Append("a")
	tbl.Append("b")

	v, ok := tbl.Last()
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestTable_Reset(t *testing.T) {
	tbl := NewTable[int](0)
	for i := 0; i < 100; i++ {
		tbl.Append(i)
	}
	capBefore := cap(tbl.buf)

	tbl.Reset()

	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, capBefore, cap(tbl.buf))

	tbl.Append(7)
	v, ok := tbl.Get(0)
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestTable_Slice(t *testing.T) {
	var tbl Table[int]
	for i := 0; i < 5; i++ {
		tbl.Append(i)
	}
	assert.Equal(t, []int{1, 2, 3}, tbl.Slice(1, 4))
	assert.Empty(t, tbl.Slice(2, 2))
}
