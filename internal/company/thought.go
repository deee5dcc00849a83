// Package company holds the per-company simulation state: identity, funds,
// competitor ratings, and the AI planning state (thoughts plus the
// resumable state-machine bookkeeping that survives across ticks and
// saves).
package company

import "github.com/talgya/tycoon-world/internal/world"

// ThoughtType is a transport-opportunity archetype index into the flag
// tables below.
type ThoughtType uint8

// NullThoughtType marks a free thought slot.
const NullThoughtType ThoughtType = 0xFF

// ThoughtTypeCount is the number of archetypes in the catalog.
const ThoughtTypeCount = 20

// ThoughtFlags describe what an archetype needs: transport mode,
// destination shape and route topology.
type ThoughtFlags uint32

const (
	FlagSingleDestination ThoughtFlags = 1 << iota // all stations in one town
	FlagDestAIsIndustry
	FlagDestBIsIndustry
	FlagRail
	FlagTram
	FlagRoad // plain road, not tram
	FlagCircuit // circular route with four stations
	FlagLoadAtOrigin // wait for a full load at the first stop
	FlagBulkCargo
	FlagTunnel
	FlagNoTrackCost // track estimate deliberately skipped
	FlagLongTrains // multi-tile rail stations
	FlagPassengerRoad
	FlagCargoRoad
	FlagTownTram
	FlagAir
	FlagWater
	FlagDualTrack // paired one-way tracks, signalled both ways
)

// thoughtTypeFlags is the archetype catalog. Order and contents are game
// balance; changing an entry changes every seeded game.
var thoughtTypeFlags = [ThoughtTypeCount]ThoughtFlags{
	FlagRail | FlagSingleDestination | FlagCircuit | FlagLongTrains,
	FlagTram | FlagSingleDestination | FlagTownTram,
	FlagTram | FlagSingleDestination | FlagCircuit | FlagTownTram,
	FlagRail | FlagLongTrains,
	FlagRail | FlagLongTrains | FlagDualTrack,
	FlagRoad | FlagSingleDestination | FlagNoTrackCost | FlagPassengerRoad,
	FlagRoad | FlagBulkCargo | FlagPassengerRoad,
	FlagRail | FlagDestAIsIndustry | FlagDestBIsIndustry | FlagLoadAtOrigin | FlagBulkCargo | FlagLongTrains,
	FlagRail | FlagDestAIsIndustry | FlagDestBIsIndustry | FlagLoadAtOrigin | FlagBulkCargo | FlagLongTrains | FlagDualTrack,
	FlagRail | FlagDestAIsIndustry | FlagLoadAtOrigin | FlagBulkCargo | FlagLongTrains,
	FlagRail | FlagDestAIsIndustry | FlagLoadAtOrigin | FlagBulkCargo | FlagLongTrains | FlagDualTrack,
	FlagRoad | FlagDestAIsIndustry | FlagDestBIsIndustry | FlagLoadAtOrigin | FlagBulkCargo | FlagCargoRoad,
	FlagRoad | FlagDestAIsIndustry | FlagLoadAtOrigin | FlagBulkCargo | FlagCargoRoad,
	FlagAir,
	FlagAir | FlagDestAIsIndustry | FlagLoadAtOrigin,
	FlagWater,
	FlagWater | FlagDestAIsIndustry | FlagDestBIsIndustry | FlagLoadAtOrigin,
	FlagWater | FlagDestAIsIndustry | FlagLoadAtOrigin,
	FlagRail | FlagDestAIsIndustry | FlagLongTrains,
	FlagRail | FlagDestAIsIndustry | FlagLongTrains | FlagDualTrack,
}

// thoughtTypeNumStations is the station count per archetype.
var thoughtTypeNumStations = [ThoughtTypeCount]uint8{
	4, 2, 4, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
}

// thoughtTypeMinMaxVehicles is the fleet size window per archetype.
var thoughtTypeMinMaxVehicles = [ThoughtTypeCount][2]uint8{
	{1, 3}, {1, 3}, {2, 6}, {1, 1}, {2, 5},
	{1, 3}, {2, 5}, {1, 1}, {2, 5}, {1, 1},
	{2, 5}, {2, 5}, {2, 5}, {1, 3}, {1, 2},
	{1, 3}, {1, 4}, {1, 3}, {1, 1}, {2, 5},
}

// HasFlags reports whether the archetype carries any of the given flags.
func (t ThoughtType) HasFlags(flags ThoughtFlags) bool {
	if t == NullThoughtType {
		return false
	}
	return thoughtTypeFlags[t]&flags != 0
}

// NumStations returns the archetype's station count.
func (t ThoughtType) NumStations() uint8 {
	return thoughtTypeNumStations[t]
}

// MinMaxVehicles returns the archetype's fleet size window.
func (t ThoughtType) MinMaxVehicles() (uint8, uint8) {
	mm := thoughtTypeMinMaxVehicles[t]
	return mm[0], mm[1]
}

// AiStationFlags track a planned station's lifecycle.
type AiStationFlags uint8

const (
	AiStationAllocated   AiStationFlags = 1 << 0 // speculative asset placed
	AiStationOperational AiStationFlags = 1 << 1 // real, paid station
)

// Link side state bits for AiStation.LinkA / LinkB progress fields.
const (
	LinkPlanned   uint8 = 1 << 1 // track needs speculative placement
	LinkAllocated uint8 = 1 << 2 // speculative track placed
	LinkPending   uint8 = 1 << 3 // real track needs placement
	LinkBuilt     uint8 = 1 << 4 // real track placed
)

// AiStation is one planned station slot in a thought.
type AiStation struct {
	ID       world.StationID // real station id once operational
	Pos      world.Pos2
	BaseZ    uint8
	Rotation uint8
	Flags    AiStationFlags

	// Adjacent station indices for the route graph: NextA follows the
	// station's forward rotation, NextB the reverse. 0xFF = no link.
	NextA uint8
	NextB uint8

	// Per-side track construction progress.
	LinkA uint8
	LinkB uint8
}

// HasFlags reports whether all given flags are set.
func (s *AiStation) HasFlags(f AiStationFlags) bool {
	return s.Flags&f == f
}

// PurchaseFlags carry fleet acquisition requirements between planning and
// purchasing phases.
type PurchaseFlags uint8

const (
	PurchaseRackRail     PurchaseFlags = 1 << 0 // steep-slope plan, rack mod required
	PurchaseRequiresMods PurchaseFlags = 1 << 1
	PurchaseReplaceFleet PurchaseFlags = 1 << 2 // sell old units before buying
)

// Maximum entities per thought.
const (
	MaxThoughtStations     = 4
	MaxThoughtVehicles     = 8
	MaxThoughtVehicleUnits = 16
)

// Thought is one planned or operating transport opportunity.
type Thought struct {
	Type         ThoughtType
	DestinationA uint16 // TownID or IndustryID per archetype flags
	DestinationB uint16
	Cargo        world.CargoType

	NumStations   uint8
	StationLength uint8
	Stations      [MaxThoughtStations]AiStation

	TrackObjID   uint8 // bit 7 set = road object id
	StationObjID uint8
	SignalObjID  uint8 // 0xFF = none chosen
	Mods         uint8 // chosen track/road modification bitset

	TargetVehicles uint8 // fleet size the plan calls for
	NumVehicles    uint8
	Vehicles       [MaxThoughtVehicles]world.VehicleID

	NumVehicleUnits uint8 // catalog entries making up one purchase
	VehicleUnits    [MaxThoughtVehicleUnits]uint8

	// Money accumulators. EstimatedCost collects the plan's pending
	// outlay; RunningCost is the fleet's yearly running cost;
	// GrossReceipts accumulates income while operating.
	EstimatedCost   int64
	RunningCost     int64
	GrossReceipts   int64
	MonthsOperating uint8

	PurchaseFlags PurchaseFlags
}

// TrackIsRoad reports whether the chosen track object is a road type.
func (t *Thought) TrackIsRoad() bool {
	return t.TrackObjID&0x80 != 0
}

// BaseTrackObjID strips the road marker bit.
func (t *Thought) BaseTrackObjID() uint8 {
	return t.TrackObjID &^ 0x80
}

// Clear resets a thought slot to empty.
func (t *Thought) Clear() {
	*t = Thought{
		Type:         NullThoughtType,
		TrackObjID:   0xFF,
		StationObjID: 0xFF,
		SignalObjID:  0xFF,
	}
	for i := range t.Stations {
		t.Stations[i] = AiStation{
			ID:    world.NullStationID,
			NextA: 0xFF,
			NextB: 0xFF,
		}
	}
	for i := range t.Vehicles {
		t.Vehicles[i] = world.NullVehicleID
	}
}

// RemoveVehicle drops a vehicle id from the thought preserving the order
// of the remaining entries.
func (t *Thought) RemoveVehicle(id world.VehicleID) {
	for i := 0; i < int(t.NumVehicles); i++ {
		if t.Vehicles[i] == id {
			copy(t.Vehicles[i:], t.Vehicles[i+1:int(t.NumVehicles)])
			t.NumVehicles--
			t.Vehicles[t.NumVehicles] = world.NullVehicleID
			return
		}
	}
}

// Unprofitable reports whether an operating thought has failed to earn
// back a multiple of its running cost. Used when inspecting other
// companies' thoughts during validation.
func (t *Thought) Unprofitable() bool {
	if t.MonthsOperating < 3 {
		return false
	}
	return t.GrossReceipts < 3*t.RunningCost
}
