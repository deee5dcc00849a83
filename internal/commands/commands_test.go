package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/world"
)

func newTestExecutor(t *testing.T, funds, maxLoan int64) (*Executor, *company.Manager, *company.Company) {
	t.Helper()
	m := world.NewMap(32, 32)
	mgr := company.NewManager(maxLoan)
	c := company.New(1, "Test Transport")
	c.Funds = funds
	mgr.Add(c)
	return NewExecutor(m, catalog.Default(), catalog.NewEconomy(), mgr), mgr, c
}

func TestPlaceTrackChargesBuildPrice(t *testing.T) {
	e, _, c := newTestExecutor(t, 1000, 0)
	pos := world.Pos2{X: 64, Y: 64}

	cost, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0xFF}, Apply)
	require.True(t, ok)
	// Wooden rail at parity: factor 8, shift 10 against factor 1024.
	assert.Equal(t, int64(8), cost)
	assert.Equal(t, int64(992), c.Funds)

	tile := e.Map.TileAt(pos)
	require.Len(t, tile.Elements, 1)
	assert.Equal(t, world.KindTrack, tile.Elements[0].Kind)
	assert.False(t, tile.Elements[0].AiAllocated)
}

func TestAllocatedPlacementIsFreeAndMarked(t *testing.T) {
	e, _, c := newTestExecutor(t, 0, 0)
	pos := world.Pos2{X: 64, Y: 64}

	_, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0xFF},
		Apply|AiAllocated|NoPayment)
	require.True(t, ok)
	assert.Equal(t, int64(0), c.Funds)

	tile := e.Map.TileAt(pos)
	require.Len(t, tile.Elements, 1)
	assert.True(t, tile.Elements[0].AiAllocated)

	// Removal of a speculative piece refunds nothing and costs nothing.
	cost, ok := e.RemoveWay(1, world.KindTrack, pos, 0, Apply)
	require.True(t, ok)
	assert.Zero(t, cost)
	assert.Empty(t, tile.Elements)
}

func TestPlaceTrackRefusedWhenBroke(t *testing.T) {
	e, _, _ := newTestExecutor(t, 0, 0)
	pos := world.Pos2{X: 64, Y: 64}

	_, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0xFF}, Apply)
	assert.False(t, ok)
	assert.Empty(t, e.Map.TileAt(pos).Elements)
}

func TestPlaceTrackOnWaterNeedsBridge(t *testing.T) {
	e, _, _ := newTestExecutor(t, 10000, 0)
	pos := world.Pos2{X: 64, Y: 64}
	tile := e.Map.TileAt(pos)
	tile.Surface.Water = tile.Surface.BaseZ + 1

	_, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0xFF}, Apply)
	assert.False(t, ok)

	cost, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0}, Apply)
	require.True(t, ok)
	// Track plus wooden bridge (factor 20, same shift).
	assert.Equal(t, int64(8+20), cost)
}

func TestRemoveRealWayCostsQuarter(t *testing.T) {
	e, _, c := newTestExecutor(t, 1000, 0)
	pos := world.Pos2{X: 64, Y: 64}
	_, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0xFF}, Apply)
	require.True(t, ok)
	fundsAfterBuild := c.Funds

	cost, ok := e.RemoveWay(1, world.KindTrack, pos, 0, Apply)
	require.True(t, ok)
	assert.Equal(t, int64(2), cost)
	assert.Equal(t, fundsAfterBuild-2, c.Funds)
}

func TestReplaceAllocatedWayConvertsAndCharges(t *testing.T) {
	e, _, c := newTestExecutor(t, 1000, 0)
	pos := world.Pos2{X: 64, Y: 64}
	_, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0xFF},
		Apply|AiAllocated|NoPayment)
	require.True(t, ok)

	cost, ok := e.ReplaceAllocatedWay(1, pos, Apply)
	require.True(t, ok)
	assert.Equal(t, int64(8), cost)
	assert.Equal(t, int64(992), c.Funds)
	assert.False(t, e.Map.TileAt(pos).Elements[0].AiAllocated)

	// Nothing left to convert.
	_, ok = e.ReplaceAllocatedWay(1, pos, Apply)
	assert.False(t, ok)
}

func TestPlaceSignalNeedsOwnedTrack(t *testing.T) {
	e, _, _ := newTestExecutor(t, 1000, 0)
	pos := world.Pos2{X: 64, Y: 64}

	_, ok := e.PlaceSignal(1, SignalPlacementArgs{Pos: pos, SignalObj: 0, Sides: 1}, Apply)
	assert.False(t, ok)

	_, ok = e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0xFF}, Apply)
	require.True(t, ok)
	_, ok = e.PlaceSignal(1, SignalPlacementArgs{Pos: pos, SignalObj: 0, Sides: 1}, Apply)
	require.True(t, ok)

	el := e.Map.TileAt(pos).Elements[0]
	assert.True(t, el.HasSignal)
	assert.Equal(t, uint8(1), el.SignalSides)

	// Adding the trailing side ORs into the same signal.
	_, ok = e.PlaceSignal(1, SignalPlacementArgs{Pos: pos, SignalObj: 0, Sides: 2}, Apply)
	require.True(t, ok)
	assert.Equal(t, uint8(3), el.SignalSides)
}

func TestPlaceWayModsOnlyChargesMissingBits(t *testing.T) {
	e, _, c := newTestExecutor(t, 1000, 0)
	pos := world.Pos2{X: 64, Y: 64}
	_, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 1, Bridge: 0xFF}, Apply)
	require.True(t, ok)
	before := c.Funds

	// Electrification: factor 5, shift 10 at parity.
	cost, ok := e.PlaceWayMods(1, world.KindTrack, pos, 0, 1, Apply)
	require.True(t, ok)
	assert.Equal(t, int64(5), cost)
	assert.Equal(t, before-5, c.Funds)
	assert.Equal(t, uint8(1), e.Map.TileAt(pos).Elements[0].Mods)

	// Re-applying the same mod is a free no-op.
	cost, ok = e.PlaceWayMods(1, world.KindTrack, pos, 0, 1, Apply)
	require.True(t, ok)
	assert.Zero(t, cost)
}

func TestRoadStationRegistersStation(t *testing.T) {
	e, _, _ := newTestExecutor(t, 10000, 0)
	pos := world.Pos2{X: 64, Y: 64}

	_, ok := e.PlaceRoadStation(1, RoadStationArgs{Pos: pos, RoadObj: 0, StationObj: 2}, Apply)
	require.True(t, ok)
	require.NotEqual(t, world.NullStationID, e.LastPlacedStation())

	st := e.Map.Stations.Get(e.LastPlacedStation())
	require.NotNil(t, st)
	assert.Equal(t, world.CompanyID(1), st.Owner)
	assert.Equal(t, pos, st.Pos)
}

func TestAllocatedStationSkipsRegistry(t *testing.T) {
	e, _, _ := newTestExecutor(t, 0, 0)
	pos := world.Pos2{X: 64, Y: 64}

	_, ok := e.PlaceRoadStation(1, RoadStationArgs{Pos: pos, RoadObj: 0, StationObj: 2},
		Apply|AiAllocated|NoPayment)
	require.True(t, ok)
	assert.Equal(t, 0, e.Map.Stations.Count())

	// The speculative elements are on the tile regardless.
	found := false
	for _, el := range e.Map.TileAt(pos).Elements {
		if el.Kind == world.KindStation && el.AiAllocated {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRemoveStationAtDeregisters(t *testing.T) {
	e, _, _ := newTestExecutor(t, 10000, 0)
	pos := world.Pos2{X: 64, Y: 64}
	_, ok := e.PlaceRoadStation(1, RoadStationArgs{Pos: pos, RoadObj: 0, StationObj: 2}, Apply)
	require.True(t, ok)

	_, ok = e.RemoveStationAt(1, pos, Apply)
	require.True(t, ok)
	assert.Equal(t, 0, e.Map.Stations.Count())
	for _, el := range e.Map.TileAt(pos).Elements {
		assert.NotEqual(t, world.KindStation, el.Kind)
	}
}

func TestTrainPlatformTilesShareStationID(t *testing.T) {
	e, _, _ := newTestExecutor(t, 10000, 0)
	base := world.Pos2{X: 64, Y: 64}

	for i := uint8(0); i < 2; i++ {
		p := world.Pos2{X: base.X + int32(i)*world.TileSize, Y: base.Y}
		_, ok := e.PlaceTrainStation(1, TrainStationArgs{
			Pos: p, TrackObj: 0, StationObj: 0, SequenceIndex: i, Length: 2,
		}, Apply)
		require.True(t, ok)
	}

	id := e.LastPlacedStation()
	require.NotEqual(t, world.NullStationID, id)
	for i := int32(0); i < 2; i++ {
		p := world.Pos2{X: base.X + i*world.TileSize, Y: base.Y}
		for _, el := range e.Map.TileAt(p).Elements {
			if el.Kind == world.KindStation {
				assert.Equal(t, id, el.Station)
			}
		}
	}
}

func TestRemoveAirportDeregistersOwnStationOnly(t *testing.T) {
	e, mgr, _ := newTestExecutor(t, 10000, 0)
	rival := company.New(2, "Rival Air")
	rival.Funds = 10000
	mgr.Add(rival)

	roadPos := world.Pos2{X: 64, Y: 64}
	_, ok := e.PlaceRoadStation(1, RoadStationArgs{Pos: roadPos, RoadObj: 0, StationObj: 2}, Apply)
	require.True(t, ok)
	roadID := e.LastPlacedStation()

	airPos := world.Pos2{X: 320, Y: 320}
	_, ok = e.PlaceAirport(2, AirportArgs{Pos: airPos, AirportObj: 0}, Apply)
	require.True(t, ok)
	airID := e.LastPlacedStation()
	require.NotEqual(t, roadID, airID)

	// Every footprint tile carries the registered id.
	for _, el := range e.Map.TileAt(airPos).Elements {
		if el.Kind == world.KindStation {
			assert.Equal(t, airID, el.Station)
		}
	}

	// Demolishing the airport takes out its own record and nobody else's.
	_, ok = e.RemoveStationAt(2, airPos, Apply)
	require.True(t, ok)
	assert.Nil(t, e.Map.Stations.Get(airID))
	st := e.Map.Stations.Get(roadID)
	require.NotNil(t, st)
	assert.Equal(t, world.CompanyID(1), st.Owner)
}

func TestAllocatedScopedRemovalSkipsRealAssets(t *testing.T) {
	e, _, _ := newTestExecutor(t, 10000, 0)
	stPos := world.Pos2{X: 64, Y: 64}
	wayPos := world.Pos2{X: 96, Y: 64}

	_, ok := e.PlaceRoadStation(1, RoadStationArgs{Pos: stPos, RoadObj: 0, StationObj: 2}, Apply)
	require.True(t, ok)
	_, ok = e.PlaceTrack(1, TrackPlacementArgs{Pos: wayPos, TrackObj: 0, Bridge: 0xFF}, Apply)
	require.True(t, ok)

	_, ok = e.RemoveStationAt(1, stPos, Apply|AiAllocated|NoPayment)
	assert.False(t, ok)
	assert.Equal(t, 1, e.Map.Stations.Count())

	_, ok = e.RemoveWay(1, world.KindTrack, wayPos, 0, Apply|AiAllocated|NoPayment)
	assert.False(t, ok)
	assert.NotEmpty(t, e.Map.TileAt(wayPos).Elements)
}

func TestHeadquartersLifecycle(t *testing.T) {
	e, _, c := newTestExecutor(t, 100000, 0)
	pos := world.Pos2{X: 96, Y: 96}

	cost, ok := e.PlaceHeadquarters(1, HeadquarterArgs{Pos: pos}, Apply)
	require.True(t, ok)
	assert.Greater(t, cost, int64(0))
	assert.Equal(t, int64(100000)-cost, c.Funds)

	tile := e.Map.TileAt(pos)
	require.NotEmpty(t, tile.Elements)
	assert.True(t, tile.Elements[0].IsHeadquarters)

	_, ok = e.RemoveHeadquarters(1, pos, Apply)
	require.True(t, ok)
	assert.Empty(t, tile.Elements)
}

func TestClearTileBlocksOnHeadquarters(t *testing.T) {
	e, _, _ := newTestExecutor(t, 100000, 0)
	pos := world.Pos2{X: 64, Y: 64}
	e.Map.InsertElement(pos, &world.Element{Kind: world.KindBuilding, Owner: 2, IsHeadquarters: true})

	_, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0xFF}, Apply)
	assert.False(t, ok)
}

func TestClearTileChargesForTrees(t *testing.T) {
	e, _, _ := newTestExecutor(t, 1000, 0)
	pos := world.Pos2{X: 64, Y: 64}
	e.Map.InsertElement(pos, &world.Element{Kind: world.KindTree, Owner: world.NullCompanyID})

	cost, ok := e.PlaceTrack(1, TrackPlacementArgs{Pos: pos, TrackObj: 0, Bridge: 0xFF}, Apply)
	require.True(t, ok)
	// Track price plus tree clearing (factor 4, shift 12 at parity = 1).
	assert.Equal(t, int64(8+1), cost)

	// The tree is gone after applying.
	for _, el := range e.Map.TileAt(pos).Elements {
		assert.NotEqual(t, world.KindTree, el.Kind)
	}
}
