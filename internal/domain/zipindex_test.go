package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipIndex(t *testing.T) {
	groups := []Group{
		{ID: "group-0", Zips: []string{"98103"}},
		{ID: "group-1", Zips: []string{"98107", "98117"}},
		{ID: "group-2", Zips: []string{"98117", "98199"}},
	}
	idx := NewZipIndex(groups)

	t.Run("lookup", func(t *testing.T) {
		g, ok := idx.Lookup("98103")
		require.True(t, ok)
		assert.Equal(t, "group-0", g.ID)
	})

	t.Run("later group wins a shared zip", func(t *testing.T) {
		assert.Equal(t, "group-2", idx.GroupID("98117"))
		assert.Equal(t, "group-1", idx.GroupID("98107"))
	})

	t.Run("unserved zip", func(t *testing.T) {
		_, ok := idx.Lookup("10001")
		assert.False(t, ok)
		assert.Empty(t, idx.GroupID("10001"))
		assert.False(t, idx.Has("10001"))
	})

	t.Run("distinct zips sorted", func(t *testing.T) {
		assert.Equal(t, 4, idx.Len())
		assert.Equal(t, []string{"98103", "98107", "98117", "98199"}, idx.Zips())
	})

	t.Run("group by id", func(t *testing.T) {
		g, ok := idx.Group("group-1")
		require.True(t, ok)
		assert.Equal(t, []string{"98107", "98117"}, g.Zips)
		_, ok = idx.Group("group-9")
		assert.False(t, ok)
	})

	t.Run("groups are copied out", func(t *testing.T) {
		out := idx.Groups()
		require.Len(t, out, 3)
		out[0] = Group{ID: "group-x"}

		assert.Equal(t, "group-0", idx.Groups()[0].ID)
		assert.Equal(t, "group-0", idx.GroupID("98103"))
	})

	t.Run("every group zip resolves to a group listing it", func(t *testing.T) {
		for _, zip := range idx.Zips() {
			g, ok := idx.Lookup(zip)
			require.True(t, ok)
			assert.Contains(t, g.Zips, zip)
		}
	})
}

func TestZipIndex_Nil(t *testing.T) {
	var idx *ZipIndex
	assert.False(t, idx.Has("98103"))
	assert.Zero(t, idx.Len())
	assert.Nil(t, idx.Zips())
	assert.Nil(t, idx.Groups())
	_, ok := idx.Group("group-0")
	assert.False(t, ok)
}
