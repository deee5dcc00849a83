package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tycoon-world/internal/world"
)

func TestThoughtClear(t *testing.T) {
	var th Thought
	th.Type = 5
	th.NumVehicles = 3
	th.EstimatedCost = 12345
	th.Clear()

	assert.Equal(t, NullThoughtType, th.Type)
	assert.Equal(t, uint8(0xFF), th.TrackObjID)
	assert.Equal(t, uint8(0xFF), th.StationObjID)
	for i := range th.Stations {
		assert.Equal(t, world.NullStationID, th.Stations[i].ID)
		assert.Equal(t, uint8(0xFF), th.Stations[i].NextA)
		assert.Equal(t, uint8(0xFF), th.Stations[i].NextB)
	}
	for i := range th.Vehicles {
		assert.Equal(t, world.NullVehicleID, th.Vehicles[i])
	}
}

func TestThoughtFlagsAnyMatch(t *testing.T) {
	// HasFlags matches any of the given bits, not all.
	assert.True(t, ThoughtType(0).HasFlags(FlagRail))
	assert.True(t, ThoughtType(0).HasFlags(FlagRail|FlagAir))
	assert.False(t, ThoughtType(0).HasFlags(FlagAir))
	assert.False(t, NullThoughtType.HasFlags(FlagRail))
}

func TestThoughtArchetypeTables(t *testing.T) {
	// Circuit archetypes run four stations, everything else two.
	assert.Equal(t, uint8(4), ThoughtType(0).NumStations())
	assert.Equal(t, uint8(2), ThoughtType(3).NumStations())
	assert.Equal(t, uint8(4), ThoughtType(2).NumStations())

	minV, maxV := ThoughtType(2).MinMaxVehicles()
	assert.Equal(t, uint8(2), minV)
	assert.Equal(t, uint8(6), maxV)
	minV, maxV = ThoughtType(3).MinMaxVehicles()
	assert.Equal(t, uint8(1), minV)
	assert.Equal(t, uint8(1), maxV)
}

func TestRemoveVehiclePreservesOrder(t *testing.T) {
	var th Thought
	th.Clear()
	th.Vehicles[0] = 10
	th.Vehicles[1] = 20
	th.Vehicles[2] = 30
	th.NumVehicles = 3

	th.RemoveVehicle(20)
	require.Equal(t, uint8(2), th.NumVehicles)
	assert.Equal(t, world.VehicleID(10), th.Vehicles[0])
	assert.Equal(t, world.VehicleID(30), th.Vehicles[1])
	assert.Equal(t, world.NullVehicleID, th.Vehicles[2])

	// Removing an unknown id is a no-op.
	th.RemoveVehicle(99)
	assert.Equal(t, uint8(2), th.NumVehicles)
}

func TestThoughtUnprofitable(t *testing.T) {
	var th Thought
	th.Clear()
	th.RunningCost = 100
	th.GrossReceipts = 0

	// Grace period: too young to judge.
	th.MonthsOperating = 2
	assert.False(t, th.Unprofitable())

	th.MonthsOperating = 3
	assert.True(t, th.Unprofitable())

	th.GrossReceipts = 300
	assert.False(t, th.Unprofitable())
	th.GrossReceipts = 299
	assert.True(t, th.Unprofitable())
}

func TestTrackObjRoadMarker(t *testing.T) {
	var th Thought
	th.Clear()
	th.TrackObjID = 0x80 | 2
	assert.True(t, th.TrackIsRoad())
	assert.Equal(t, uint8(2), th.BaseTrackObjID())

	th.TrackObjID = 1
	assert.False(t, th.TrackIsRoad())
	assert.Equal(t, uint8(1), th.BaseTrackObjID())
}

func TestCompanySlotHelpers(t *testing.T) {
	c := New(1, "Test Transport")
	assert.Equal(t, uint8(0), c.FreeThoughtSlot())
	assert.Equal(t, NullThoughtID, c.HighestThoughtSlot())
	assert.False(t, c.HasThoughts())

	c.Thoughts[0].Type = 3
	c.Thoughts[7].Type = 5
	assert.Equal(t, uint8(1), c.FreeThoughtSlot())
	assert.Equal(t, uint8(7), c.HighestThoughtSlot())
	assert.True(t, c.HasThoughts())
}

func TestSetStateResetsSubStep(t *testing.T) {
	c := New(1, "Test Transport")
	c.SubStep = 9
	c.SetState(StateSpeculate)
	assert.Equal(t, StateSpeculate, c.State)
	assert.Equal(t, uint8(0), c.SubStep)
}
