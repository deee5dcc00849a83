// Package catalog holds the read-only object definitions the AI plans
// against: track, road, station, bridge, signal, vehicle and cargo types,
// with their cost factors, speeds and compatibility masks.
package catalog

import "github.com/talgya/tycoon-world/internal/world"

// TransportMode classifies a vehicle's medium.
type TransportMode uint8

const (
	ModeRail TransportMode = iota
	ModeRoad
	ModeAir
	ModeWater
)

// TrackTraitFlags describe the geometry a track object supports.
type TrackTraitFlags uint16

const (
	TraitSmallCurve TrackTraitFlags = 1 << iota
	TraitLargeCurve
	TraitSlope
	TraitSteepSlope
	TraitJunction
	TraitOneSided
)

// TrackObject is a buildable rail type.
type TrackObject struct {
	Name             string
	CostFactor       int32
	CostIndex        uint8
	TunnelCostFactor int32
	CurveSpeed       uint16
	Traits           TrackTraitFlags
	Mods             []uint8 // compatible track-extra object ids
	DesignedYear     uint16
	ObsoleteYear     uint16
}

// RoadObjectFlags describe road behavior.
type RoadObjectFlags uint8

const (
	RoadOneWay RoadObjectFlags = 1 << iota
	RoadTram
	RoadShared // any company may run on it without owning it
)

// RoadObject is a buildable road type.
type RoadObject struct {
	Name         string
	CostFactor   int32
	CostIndex    uint8
	MaxSpeed     uint16
	Flags        RoadObjectFlags
	Traits       TrackTraitFlags
	Mods         []uint8
	DesignedYear uint16
	ObsoleteYear uint16
}

// BridgeObject is a buildable bridge type.
type BridgeObject struct {
	Name          string
	CostFactor    int32
	CostIndex     uint8
	MaxSpeed      uint16
	MaxHeight     uint8 // in small-z steps
	DisabledTrack TrackTraitFlags
}

// TrainStationObject is a rail station type.
type TrainStationObject struct {
	Name         string
	CostFactor   int32
	CostIndex    uint8
	DesignedYear uint16
	ObsoleteYear uint16
}

// RoadStationObject is a road station type.
type RoadStationObject struct {
	Name          string
	CostFactor    int32
	CostIndex     uint8
	DesignedYear  uint16
	ObsoleteYear  uint16
	RoadEnd       bool // terminus-style stop rather than drive-through
	PassengerOnly bool
	FreightOnly   bool
}

// AirportObject is an airport type.
type AirportObject struct {
	Name         string
	CostFactor   int32
	CostIndex    uint8
	DesignedYear uint16
	ObsoleteYear uint16
	// Extents in tiles; airports occupy a footprint rather than one tile.
	SizeX uint8
	SizeY uint8
}

// DockObject is a port type.
type DockObject struct {
	Name         string
	CostFactor   int32
	CostIndex    uint8
	DesignedYear uint16
	ObsoleteYear uint16
}

// SignalObject is a rail signal type.
type SignalObject struct {
	Name         string
	CostFactor   int32
	CostIndex    uint8
	DesignedYear uint16
	ObsoleteYear uint16
}

// ModObject is a track or road modification (electrification, rack rail).
type ModObject struct {
	Name       string
	CostFactor int32
	CostIndex  uint8
	RackRail   bool
}

// VehicleObject is a purchasable vehicle unit.
type VehicleObject struct {
	Name          string
	Mode          TransportMode
	TrackType     uint8 // track/road object the unit runs on; 0xFF = any road
	Speed         uint16
	Power         uint16
	CostFactor    int32
	CostIndex     uint8
	RunCostFactor int32
	RunCostIndex  uint8

	CargoTypes    uint32   // bitset of carryable cargo
	MaxCargo      [2]uint8 // units carried per compatible cargo slot
	RequiredMods  uint8    // bitset into the track/road object's Mods list
	MustHavePair  bool     // unit is bought as a coupled pair
	RackRailOnly  bool
	DesignedYear  uint16
	ObsoleteYear  uint16
}

// CargoObject describes a cargo type.
type CargoObject struct {
	Name          string
	Refittable    bool // vehicles may be refitted to carry this
	TransferTime  uint16
	PaymentFactor int32
	PaymentIndex  uint8
	UnitSize      uint8 // relative volume used for refit conversion
}

// Catalog is the full set of object definitions in play.
type Catalog struct {
	Tracks        []TrackObject
	Roads         []RoadObject
	Bridges       []BridgeObject
	TrainStations []TrainStationObject
	RoadStations  []RoadStationObject
	Airports      []AirportObject
	Docks         []DockObject
	Signals       []SignalObject
	TrackMods     []ModObject
	RoadMods      []ModObject
	Vehicles      []VehicleObject
	Cargo         []CargoObject
}

// NumUnitsForCargo converts a vehicle's native capacity into units of a
// different cargo after a refit, by relative unit size.
func (c *Catalog) NumUnitsForCargo(maxUnits uint8, native, target world.CargoType) int {
	if int(native) >= len(c.Cargo) || int(target) >= len(c.Cargo) {
		return int(maxUnits)
	}
	ns := int(c.Cargo[native].UnitSize)
	ts := int(c.Cargo[target].UnitSize)
	if ns == 0 || ts == 0 {
		return int(maxUnits)
	}
	return int(maxUnits) * ns / ts
}
