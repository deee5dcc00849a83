package ai

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/gamerand"
	"github.com/talgya/tycoon-world/internal/world"
)

func newTestContext(t *testing.T, m *world.Map, seed uint64) (*Context, *company.Manager) {
	t.Helper()
	cat := catalog.Default()
	eco := catalog.NewEconomy()
	mgr := company.NewManager(200000)
	return &Context{
		Map:       m,
		Catalog:   cat,
		Economy:   eco,
		Exec:      commands.NewExecutor(m, cat, eco, mgr),
		Companies: mgr,
		Rand:      gamerand.NewStream(seed),
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Year:      1930,
	}, mgr
}

func newTestCompany(mgr *company.Manager, funds int64) *company.Company {
	c := company.New(1, "Test Transport")
	c.Funds = funds
	c.Intelligence = 5
	c.Aggressiveness = 5
	c.Competitiveness = 5
	c.Playstyle = company.PlayLongTrainRoutes | company.PlayCargoRoad |
		company.PlayPassengerRoad | company.PlayTownTrams | company.PlayAir |
		company.PlayWater | company.PlayLoadAtOrigin
	mgr.Add(c)
	return c
}

func TestThinkSkipsPlayers(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)
	c.IsPlayer = true

	ctx.Think(c)
	assert.Equal(t, company.StateSelect, c.State)
	assert.Equal(t, uint16(0), c.IdleCounter)
}

func TestGenerationExhaustsOnEmptyWorld(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)

	slot := ctx.tryCreateThought(c)
	assert.Equal(t, company.NullThoughtID, slot)
	for i := range c.Thoughts {
		assert.Equal(t, company.NullThoughtType, c.Thoughts[i].Type)
	}
}

func TestSelectRollsIntoCreate(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)

	ctx.Think(c)
	assert.Equal(t, company.StateCreate, c.State)
	assert.Equal(t, uint16(1), c.IdleCounter)
}

func TestSelectAuditsAtReviewInterval(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)
	c.IdleCounter = reviewInterval - 1

	ctx.Think(c)
	assert.Equal(t, company.StateReview, c.State)
	assert.Equal(t, uint16(0), c.IdleCounter)
	assert.Equal(t, company.NullThoughtID, c.ActiveThought)
}

func TestBankruptShellShutsDownAndFolds(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 0)
	c.Flags |= company.StatusBankrupt
	c.IdleCounter = reviewInterval - 1

	ctx.Think(c)
	require.Equal(t, company.StateShutdown, c.State)

	// Nothing on the map: the sweep finishes in one pass and the
	// company folds.
	ctx.Think(c)
	assert.Nil(t, mgr.Get(1))
}

func TestReviewFoldsUnestablishedAfterGrace(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	ctx.Day = 100
	c := newTestCompany(mgr, 1000)
	c.StartedDay = 0
	c.SetState(company.StateReview)

	ctx.Think(c)
	assert.Nil(t, mgr.Get(1))
}

func TestReviewKeepsYoungCompany(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	ctx.Day = 10
	c := newTestCompany(mgr, 1000)
	c.StartedDay = 0
	c.SetState(company.StateReview)

	ctx.Think(c)
	require.NotNil(t, mgr.Get(1))
	assert.Equal(t, company.StateCreate, c.State)
}

func TestReviewKeepsEstablishedCompanyForever(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	ctx.Day = 100000
	c := newTestCompany(mgr, 1000)
	c.Flags |= company.StatusEstablished
	c.SetState(company.StateReview)

	ctx.Think(c)
	require.NotNil(t, mgr.Get(1))
	assert.Equal(t, company.StateCreate, c.State)
}

func TestReviewAgesOperatingThoughts(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)
	c.Flags |= company.StatusEstablished
	c.SetState(company.StateReview)

	// A healthy operating thought: receipts comfortably above cost.
	th := &c.Thoughts[3]
	th.Clear()
	th.Type = 5
	th.RunningCost = 10
	th.GrossReceipts = 100000

	ctx.Think(c)
	assert.Equal(t, uint8(1), th.MonthsOperating)
	assert.Equal(t, company.StateCreate, c.State)
}

func TestReviewRetiresFailingRoute(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)
	c.Flags |= company.StatusEstablished
	c.SetState(company.StateReview)

	th := &c.Thoughts[0]
	th.Clear()
	th.Type = 5
	th.RunningCost = 1000
	th.GrossReceipts = 0
	th.MonthsOperating = 10

	ctx.Think(c)
	assert.Equal(t, company.StateRetire, c.State)
	assert.Equal(t, uint8(0), c.ActiveThought)
}

func TestCreateFailurePathReturnsToSelect(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)
	c.SetState(company.StateCreate)

	// Empty world: generation fails and the step counter jumps to the
	// terminal sub-step.
	ctx.Think(c)
	assert.Equal(t, company.StateCreate, c.State)
	assert.Equal(t, uint8(13), c.SubStep)

	ctx.Think(c)
	assert.Equal(t, company.StateSelect, c.State)
	assert.Equal(t, uint8(0), c.SubStep)
}

func TestAbandonRequestJumpsToSweep(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)
	c.Thoughts[0].Clear()
	c.Thoughts[0].Type = 5
	c.ActiveThought = 0
	c.SetState(company.StateSpeculate)
	c.Flags |= company.StatusAbandonRequested

	ctx.Think(c)
	assert.Equal(t, company.StateAbandon, c.State)
	assert.Equal(t, uint8(2), c.SubStep)
}

func TestThinkIsDeterministic(t *testing.T) {
	const steps = 500

	run := func() []company.ThinkState {
		m := world.Generate(world.SmallTestConfig())
		ctx, mgr := newTestContext(t, m, 99)
		c := newTestCompany(mgr, 100000)
		var states []company.ThinkState
		for i := 0; i < steps; i++ {
			if mgr.Get(1) == nil {
				break
			}
			ctx.Think(c)
			states = append(states, c.State)
		}
		return states
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func ownedElementCount(m *world.Map, owner world.CompanyID) int {
	n := 0
	m.EachTileInBox(world.TilePos{}, world.TilePos{X: m.Cols - 1, Y: m.Rows - 1},
		func(_ world.TilePos, tile *world.Tile) {
			for _, el := range tile.Elements {
				if el.Owner == owner {
					n++
				}
			}
		})
	return n
}

func TestPlacementBudgetExhaustsAtLimit(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)

	th := &c.Thoughts[0]
	th.Clear()
	th.Type = 6 // point-to-point road freight: both cargo checks are strict
	th.NumStations = 2

	// An empty map offers no cargo anywhere, so every attempt fails.
	status := buildProgress
	for i := 0; i < maxPlacementAttempts && status != buildFailure; i++ {
		status = ctx.placeSpeculativeStation(c, th)
	}
	require.Equal(t, buildFailure, status)
	assert.Equal(t, uint16(maxPlacementAttempts), c.PlacementAttempts)
}

func TestAbandonSweepIsIdempotent(t *testing.T) {
	m := world.NewMap(16, 16)
	ctx, mgr := newTestContext(t, m, 1)
	c := newTestCompany(mgr, 1000)

	for i := int32(0); i < 5; i++ {
		pos := world.Pos2{X: 64 + i*world.TileSize, Y: 64}
		_, ok := ctx.Exec.PlaceRoad(c.ID, commands.RoadPlacementArgs{Pos: pos, RoadObj: 0, Bridge: 0xFF},
			commands.Apply|commands.AiAllocated|commands.NoPayment)
		require.True(t, ok)
	}

	require.True(t, ctx.sweepRemoveAllocated(c))
	assert.Zero(t, ownedElementCount(m, c.ID))

	// Running the sweep again finds nothing and changes nothing.
	require.True(t, ctx.sweepRemoveAllocated(c))
	assert.Zero(t, ownedElementCount(m, c.ID))
	assert.Equal(t, world.Pos2{}, c.Scratch.SweepPos)
}

func TestSweepSpansMultipleCallsOnLargeMap(t *testing.T) {
	m := world.NewMap(64, 64)
	ctx, mgr := newTestContext(t, m, 1)
	c := newTestCompany(mgr, 1000)

	pos := world.Pos2{X: 63 * world.TileSize, Y: 63 * world.TileSize}
	_, ok := ctx.Exec.PlaceRoad(c.ID, commands.RoadPlacementArgs{Pos: pos, RoadObj: 0, Bridge: 0xFF},
		commands.Apply|commands.AiAllocated|commands.NoPayment)
	require.True(t, ok)

	// 4096 tiles at 1500 per chunk: two partial passes, then done.
	assert.False(t, ctx.sweepRemoveAllocated(c))
	assert.False(t, ctx.sweepRemoveAllocated(c))
	require.NotEmpty(t, m.TileAt(pos).Elements)
	assert.True(t, ctx.sweepRemoveAllocated(c))
	assert.Empty(t, m.TileAt(pos).Elements)
	assert.Equal(t, world.Pos2{}, c.Scratch.SweepPos)
}

func TestStationConversionIsMonotonic(t *testing.T) {
	m := world.NewMap(16, 16)
	ctx, mgr := newTestContext(t, m, 1)
	c := newTestCompany(mgr, 10000)

	th := &c.Thoughts[0]
	th.Clear()
	th.Type = 6
	th.NumStations = 1
	th.TrackObjID = 0x80 // road object 0
	th.StationObjID = 2
	st := &th.Stations[0]
	st.Pos = world.Pos2{X: 64, Y: 64}
	st.Flags = company.AiStationAllocated

	_, ok := ctx.Exec.PlaceRoadStation(c.ID, commands.RoadStationArgs{
		Pos: st.Pos, RoadObj: 0, StationObj: 2,
	}, commands.Apply|commands.AiAllocated|commands.NoPayment)
	require.True(t, ok)

	require.Equal(t, buildSuccess, ctx.convertNextStation(c, th))
	assert.True(t, st.HasFlags(company.AiStationOperational))
	id := st.ID
	require.NotEqual(t, world.NullStationID, id)
	require.NotNil(t, m.Stations.Get(id))

	// A second pass finds nothing left to convert and changes nothing.
	require.Equal(t, buildAllDone, ctx.convertNextStation(c, th))
	assert.Equal(t, id, st.ID)
	assert.True(t, st.HasFlags(company.AiStationOperational))
	assert.Equal(t, 1, m.Stations.Count())
}

func TestRevenueEstimateGoldenValue(t *testing.T) {
	m := world.NewMap(48, 48)
	m.Towns = append(m.Towns,
		&world.Town{ID: 1, Pos: world.Pos2{}},
		&world.Town{ID: 2, Pos: world.Pos2{X: 1280}})
	ctx, _ := newTestContext(t, m, 1)

	th := &company.Thought{}
	th.Clear()
	th.Type = 6
	th.DestinationA = 1
	th.DestinationB = 2
	th.Cargo = 0 // passengers
	th.NumVehicleUnits = 1
	th.VehicleUnits[0] = 4 // omnibus
	th.TargetVehicles = 2

	// 40 tiles at omnibus speed: 21 transit days, 47-day round trip,
	// 626 per delivery, annualized across two vehicles.
	assert.Equal(t, int64(9722), ctx.estimateThoughtRevenue(th))
}

func TestBridgeChoicesDriveSpanSelection(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)

	ctx.chooseBridges(c)
	assert.Equal(t, [3]uint8{0, 1, 2}, c.BridgeChoices)

	assert.Equal(t, uint8(0), selectBridge(c, 3))
	assert.Equal(t, uint8(1), selectBridge(c, 6))
	assert.Equal(t, uint8(2), selectBridge(c, 12))
	assert.Equal(t, uint8(0xFF), selectBridge(c, 20))
}

func TestStationCargoChecksRelaxDestinationOnly(t *testing.T) {
	ctx, _ := newTestContext(t, world.NewMap(16, 16), 1)
	pos := world.Pos2{X: 64, Y: 64}

	relaxed := &company.Thought{}
	relaxed.Clear()
	relaxed.Type = 5 // single-town passenger service

	// No cargo anywhere: the origin check still fails...
	assert.False(t, ctx.stationSiteServesCargo(relaxed, 0, pos))
	// ...while the relaxed destination side passes.
	assert.True(t, ctx.stationSiteServesCargo(relaxed, 1, pos))

	strict := &company.Thought{}
	strict.Clear()
	strict.Type = 6
	assert.False(t, ctx.stationSiteServesCargo(strict, 1, pos))
}

func TestRetireResumesReviewAfterRetiredSlot(t *testing.T) {
	ctx, mgr := newTestContext(t, world.NewMap(16, 16), 1)
	c := newTestCompany(mgr, 1000)
	c.Flags |= company.StatusEstablished
	c.SetState(company.StateReview)

	healthy := &c.Thoughts[0]
	healthy.Clear()
	healthy.Type = 5
	healthy.RunningCost = 10
	healthy.GrossReceipts = 100000
	healthy.MonthsOperating = 5

	failing := &c.Thoughts[1]
	failing.Clear()
	failing.Type = 5
	failing.RunningCost = 1000
	failing.MonthsOperating = 10

	ctx.Think(c)
	require.Equal(t, company.StateRetire, c.State)
	require.Equal(t, uint8(1), c.ActiveThought)
	assert.Equal(t, uint8(6), healthy.MonthsOperating)

	// Fleet sale, way removal, then back to the review walk.
	for i := 0; i < 3; i++ {
		ctx.Think(c)
	}
	require.Equal(t, company.StateReview, c.State)
	assert.Equal(t, company.NullThoughtType, c.Thoughts[1].Type)

	// The walk resumes after the retired slot; the healthy route is not
	// aged a second time this round.
	ctx.Think(c)
	assert.Equal(t, uint8(6), healthy.MonthsOperating)
	assert.Equal(t, company.StateCreate, c.State)
}

func TestAccrueMonthlyCreditsReceipts(t *testing.T) {
	m := world.Generate(world.SmallTestConfig())
	require.NotEmpty(t, m.Towns)
	ctx, mgr := newTestContext(t, m, 7)
	c := newTestCompany(mgr, 1000)

	th := &c.Thoughts[0]
	th.Clear()
	th.Type = 5 // in-town passenger road service
	th.DestinationA = uint16(m.Towns[0].ID)
	th.DestinationB = uint16(m.Towns[0].ID)
	th.Cargo = 0
	th.NumVehicleUnits = 1
	th.VehicleUnits[0] = 4 // omnibus
	th.TargetVehicles = 2
	th.NumVehicles = 2
	th.RunningCost = 10

	before := c.Funds
	ctx.AccrueMonthly(c)
	assert.Greater(t, th.GrossReceipts, int64(0))
	assert.NotEqual(t, before, c.Funds)
}
