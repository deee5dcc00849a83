package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosConversions(t *testing.T) {
	p := Pos2{X: 100, Y: 70}
	tp := ToTile(p)
	assert.Equal(t, TilePos{X: 3, Y: 2}, tp)
	assert.Equal(t, Pos2{X: 96, Y: 64}, ToWorld(tp))

	assert.Equal(t, int32(70), ManhattanDistance(Pos2{}, p))
	assert.Equal(t, int32(5), Distance2D(Pos2{}, Pos2{X: 3, Y: 4}))
}

func TestRotationOffsetsAreUnitSteps(t *testing.T) {
	for rot, off := range RotationOffset {
		assert.Equal(t, int32(TileSize), abs32(off.X)+abs32(off.Y), "rotation %d", rot)
	}
	// Opposite rotations cancel out.
	assert.Equal(t, Pos2{}, RotationOffset[0].Add(RotationOffset[2]))
	assert.Equal(t, Pos2{}, RotationOffset[1].Add(RotationOffset[3]))
}

func TestStationTableCapacity(t *testing.T) {
	st := NewStationTable(2)
	a := st.Add(1, Pos2{X: 32, Y: 32}, 10)
	b := st.Add(1, Pos2{X: 64, Y: 32}, 10)
	require.NotEqual(t, NullStationID, a)
	require.NotEqual(t, NullStationID, b)
	assert.Equal(t, 0, st.FreeSlots())

	// A full table refuses the placement instead of growing.
	c := st.Add(2, Pos2{X: 96, Y: 32}, 10)
	assert.Equal(t, NullStationID, c)

	st.Remove(a)
	assert.Equal(t, 1, st.FreeSlots())
	d := st.Add(2, Pos2{X: 96, Y: 32}, 10)
	assert.NotEqual(t, NullStationID, d)
}

func TestStationTableOwnedOrder(t *testing.T) {
	st := NewStationTable(16)
	st.Add(2, Pos2{}, 0)
	first := st.Add(1, Pos2{}, 0)
	st.Add(2, Pos2{}, 0)
	second := st.Add(1, Pos2{}, 0)

	owned := st.Owned(1)
	require.Len(t, owned, 2)
	assert.Equal(t, first, owned[0].ID)
	assert.Equal(t, second, owned[1].ID)
	assert.Equal(t, 2, st.OwnedCount(1))
}

func TestMapElementInsertRemove(t *testing.T) {
	m := NewMap(8, 8)
	el := &Element{Kind: KindTrack, Owner: 1, ObjectID: 0}
	pos := Pos2{X: 40, Y: 40}

	require.True(t, m.InsertElement(pos, el))
	tile := m.TileAt(pos)
	require.Len(t, tile.Elements, 1)

	require.True(t, m.RemoveElement(pos, el))
	assert.Empty(t, tile.Elements)
	assert.False(t, m.RemoveElement(pos, el))

	// Off-map positions are rejected, not clamped.
	assert.False(t, m.InsertElement(Pos2{X: -1, Y: 0}, el))
	assert.False(t, m.InsertElement(Pos2{X: 8 * TileSize, Y: 0}, el))
}

func TestEachTileInBoxClamps(t *testing.T) {
	m := NewMap(4, 4)
	count := 0
	m.EachTileInBox(TilePos{X: -3, Y: -3}, TilePos{X: 10, Y: 10}, func(_ TilePos, tile *Tile) {
		require.NotNil(t, tile)
		count++
	})
	assert.Equal(t, 16, count)
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	require.Equal(t, len(a.Towns), len(b.Towns))
	for i := range a.Towns {
		assert.Equal(t, a.Towns[i].Pos, b.Towns[i].Pos)
		assert.Equal(t, a.Towns[i].Population, b.Towns[i].Population)
	}
	require.Equal(t, len(a.Industries), len(b.Industries))
	for i := range a.Industries {
		assert.Equal(t, a.Industries[i].Pos, b.Industries[i].Pos)
	}
}

func TestGeneratePlacesTownsOnLand(t *testing.T) {
	m := Generate(SmallTestConfig())
	require.NotEmpty(t, m.Towns)
	for _, town := range m.Towns {
		s := m.SurfaceAt(town.Pos)
		require.NotNil(t, s)
		assert.False(t, s.IsWater(), "town %q placed on water", town.Name)
	}
}
