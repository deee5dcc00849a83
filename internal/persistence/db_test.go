package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/engine"
	"github.com/talgya/tycoon-world/internal/gamerand"
	"github.com/talgya/tycoon-world/internal/world"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCompanyRoundTrip(t *testing.T) {
	db := openTestDB(t)

	c := company.New(3, "Roundtrip Railways")
	c.Funds = 12345
	c.Loan = 678
	c.Flags = company.StatusEstablished | company.StatusRouteCommitted
	c.Intelligence = 4
	c.Aggressiveness = 7
	c.Competitiveness = 2
	c.Playstyle = company.PlayLongTrainRoutes | company.PlayWater
	c.HomeTown = 9
	c.StartedDay = 77
	c.HeadquartersPos = world.Pos3{X: 320, Y: 640, Z: 48}
	c.HasHeadquarters = true
	c.State = company.StateSpeculate
	c.SubStep = 1
	c.ActiveThought = 2
	c.IdleCounter = 501
	c.PlacementAttempts = 123
	c.BridgeChoices = [3]uint8{0, 1, 2}
	c.RepeatArchetype = 7
	c.RevenueEstimate = 99999

	// A thought mid-construction, cursor state included.
	th := &c.Thoughts[2]
	th.Type = 7
	th.DestinationA = 3
	th.DestinationB = 5
	th.Cargo = 2
	th.NumStations = 2
	th.StationLength = 6
	th.Stations[0].Pos = world.Pos2{X: 96, Y: 128}
	th.Stations[0].Flags = company.AiStationAllocated
	th.Stations[0].NextA = 1
	th.TrackObjID = 1
	th.EstimatedCost = 4321
	c.Scratch.CursorPos = world.Pos2{X: 128, Y: 160}
	c.Scratch.StationCursor = 1
	c.Scratch.StepCounter = 9

	require.NoError(t, db.SaveCompanies([]*company.Company{c}))
	assert.True(t, db.HasWorldState())

	loaded, err := db.LoadCompanies()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	got := loaded[0]

	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.ExternalID, got.ExternalID)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.Funds, got.Funds)
	assert.Equal(t, c.Loan, got.Loan)
	assert.Equal(t, c.Flags, got.Flags)
	assert.Equal(t, c.Playstyle, got.Playstyle)
	assert.Equal(t, c.HomeTown, got.HomeTown)
	assert.Equal(t, c.HeadquartersPos, got.HeadquartersPos)
	assert.True(t, got.HasHeadquarters)
	assert.Equal(t, company.StateSpeculate, got.State)
	assert.Equal(t, uint8(1), got.SubStep)
	assert.Equal(t, uint8(2), got.ActiveThought)
	assert.Equal(t, c.BridgeChoices, got.BridgeChoices)
	assert.Equal(t, c.Scratch, got.Scratch)
	assert.Equal(t, c.Thoughts[2], got.Thoughts[2])
	assert.Equal(t, company.NullThoughtType, got.Thoughts[0].Type)
}

func TestSaveCompaniesIsFullReplace(t *testing.T) {
	db := openTestDB(t)
	a := company.New(1, "a")
	b := company.New(2, "b")
	require.NoError(t, db.SaveCompanies([]*company.Company{a, b}))
	require.NoError(t, db.SaveCompanies([]*company.Company{b}))

	loaded, err := db.LoadCompanies()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "b", loaded[0].Name)
}

func TestWorldAssetsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	m := world.NewMap(16, 16)

	pos := world.Pos2{X: 64, Y: 96}
	m.InsertElement(pos, &world.Element{
		Kind: world.KindRoad, Owner: 3, ObjectID: 0, Bridge: 0xFF,
	})
	id := m.Stations.Add(3, pos, 2)
	require.NotEqual(t, world.NullStationID, id)
	v := m.Vehicles.Add(3, []uint8{4}, 0, 120)
	v.Orders = []world.Order{{Station: id, WaitForLoad: true}}

	// Generated scenery without an owner stays out of the save.
	m.InsertElement(world.Pos2{X: 32, Y: 32}, &world.Element{
		Kind: world.KindTree, Owner: world.NullCompanyID,
	})

	require.NoError(t, db.SaveWorldAssets(m))

	fresh := world.NewMap(16, 16)
	require.NoError(t, db.LoadWorldAssets(fresh))

	tile := fresh.TileAt(pos)
	require.Len(t, tile.Elements, 1)
	assert.Equal(t, world.KindRoad, tile.Elements[0].Kind)
	assert.Equal(t, world.CompanyID(3), tile.Elements[0].Owner)
	assert.Empty(t, fresh.TileAt(world.Pos2{X: 32, Y: 32}).Elements)

	st := fresh.Stations.Get(id)
	require.NotNil(t, st)
	assert.Equal(t, world.CompanyID(3), st.Owner)
	assert.Equal(t, pos, st.Pos)
	// Later registrations continue past the restored id.
	assert.NotEqual(t, id, fresh.Stations.Add(3, pos, 0))

	got := fresh.Vehicles.Get(v.ID)
	require.NotNil(t, got)
	assert.Equal(t, v.Units, got.Units)
	assert.Equal(t, v.Orders, got.Orders)
	assert.Equal(t, v.RefundCost, got.RefundCost)
}

func TestRandStateRoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := gamerand.NewStream(42)
	for i := 0; i < 50; i++ {
		s.Next()
	}
	require.NoError(t, db.SaveRandState(s))

	restored := gamerand.NewStream(0)
	require.NoError(t, db.LoadRandState(restored))
	assert.Equal(t, s.S0, restored.S0)
	assert.Equal(t, s.S1, restored.S1)
	assert.Equal(t, s.Next(), restored.Next())
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveMeta("last_tick", "4321"))
	v, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "4321", v)

	// Overwrite.
	require.NoError(t, db.SaveMeta("last_tick", "5000"))
	v, err = db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "5000", v)

	_, err = db.GetMeta("missing")
	assert.Error(t, err)
}

func TestEventsAppendAndQuery(t *testing.T) {
	db := openTestDB(t)
	events := []engine.Event{
		{Tick: 1, Description: "first", Category: "company"},
		{Tick: 2, Description: "second", Category: "route"},
		{Tick: 3, Description: "third", Category: "company"},
	}
	require.NoError(t, db.SaveEvents(events))

	recent, err := db.RecentEvents(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Description)
	assert.Equal(t, "second", recent[1].Description)
}
