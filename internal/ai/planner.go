package ai

import (
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/world"
)

// Station length bounds for rail platforms, in tiles.
const (
	minDualTrackLength = 7
	maxStationLength   = 11
)

// Circuit station offsets around a town center, one per quadrant, in
// tiles.
var circuitOffsets = [4]world.Pos2{
	{X: 0, Y: -6 * world.TileSize},
	{X: 6 * world.TileSize, Y: 0},
	{X: 0, Y: 6 * world.TileSize},
	{X: -6 * world.TileSize, Y: 0},
}

// planStations sets the thought's station count, platform length and
// provisional station anchors. Exact tiles are found later during
// speculative placement.
func (ctx *Context) planStations(c *company.Company, t *company.Thought) bool {
	t.NumStations = t.Type.NumStations()

	posA, ok := ctx.destinationPos(t, false)
	if !ok {
		return false
	}
	posB, ok := ctx.destinationPos(t, true)
	if !ok {
		return false
	}

	t.StationLength = 1
	if t.Type.HasFlags(company.FlagRail) {
		// Longer hauls get longer platforms; paired track needs room for
		// the crossover at each end.
		distTiles := world.Distance2D(posA, posB) / world.TileSize
		length := int32(5)
		if ctx.Year >= 1945 {
			length = 6
		}
		if ctx.Year >= 1970 {
			length = 7
		}
		length += distTiles / 100
		if t.Type.HasFlags(company.FlagDualTrack) && length < minDualTrackLength {
			length = minDualTrackLength
		}
		if length > maxStationLength {
			length = maxStationLength
		}
		t.StationLength = uint8(length)
	}

	if t.Type.HasFlags(company.FlagCircuit) && t.NumStations == 4 {
		for i := 0; i < 4; i++ {
			st := &t.Stations[i]
			st.Pos = posA.Add(circuitOffsets[i])
			st.NextA = uint8((i + 1) % 4)
			st.NextB = uint8((i + 3) % 4)
			st.LinkA = company.LinkPlanned
		}
	} else {
		anchors := [company.MaxThoughtStations]world.Pos2{posA, posB, posA, posB}
		for i := 0; i < int(t.NumStations); i++ {
			st := &t.Stations[i]
			st.Pos = anchors[i]
			st.NextA = 0xFF
			st.NextB = 0xFF
		}
		// A simple out-and-back pair: track is laid once, on station 0's
		// forward side.
		t.Stations[0].NextA = 1
		t.Stations[0].LinkA = company.LinkPlanned
		t.Stations[1].NextB = 0
	}

	for i := 0; i < int(t.NumStations); i++ {
		st := &t.Stations[i]
		if surface := ctx.Map.SurfaceAt(st.Pos); surface != nil {
			st.BaseZ = surface.BaseZ
		}
		next := st.NextA
		if next == 0xFF {
			next = st.NextB
		}
		if next != 0xFF {
			st.Rotation = rotationToward(st.Pos, t.Stations[next].Pos)
		}
	}
	return true
}

// rotationToward picks the cardinal rotation whose axis dominates the
// vector from a to b.
func rotationToward(a, b world.Pos2) uint8 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if abs32(dx) >= abs32(dy) {
		if dx >= 0 {
			return 0
		}
		return 2
	}
	if dy >= 0 {
		return 1
	}
	return 3
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// chooseTrack picks the newest viable track or road object for the
// thought and flags rack-rail purchases when the terrain will need steep
// grades.
func (ctx *Context) chooseTrack(c *company.Company, t *company.Thought) bool {
	switch {
	case t.Type.HasFlags(company.FlagRail):
		best := -1
		for i, obj := range ctx.Catalog.Tracks {
			if !yearAvailable(obj.DesignedYear, obj.ObsoleteYear, ctx.Year) {
				continue
			}
			if best < 0 || obj.DesignedYear > ctx.Catalog.Tracks[best].DesignedYear {
				best = i
			}
		}
		if best < 0 {
			return false
		}
		t.TrackObjID = uint8(best)
		if !steepTerrainBetween(ctx, t) {
			return true
		}
		if ctx.Catalog.Tracks[best].Traits&catalog.TraitSteepSlope == 0 {
			t.PurchaseFlags |= company.PurchaseRackRail
		}
		return true

	case t.Type.HasFlags(company.FlagTram):
		return chooseRoad(ctx, t, true)

	case t.Type.HasFlags(company.FlagRoad):
		return chooseRoad(ctx, t, false)

	default:
		// Air and water plans carry no way object.
		t.TrackObjID = 0xFF
		return true
	}
}

func chooseRoad(ctx *Context, t *company.Thought, tram bool) bool {
	best := -1
	for i, obj := range ctx.Catalog.Roads {
		if !yearAvailable(obj.DesignedYear, obj.ObsoleteYear, ctx.Year) {
			continue
		}
		if (obj.Flags&catalog.RoadTram != 0) != tram {
			continue
		}
		if best < 0 || obj.DesignedYear > ctx.Catalog.Roads[best].DesignedYear {
			best = i
		}
	}
	if best < 0 {
		return false
	}
	t.TrackObjID = 0x80 | uint8(best)
	return true
}

// steepTerrainBetween samples the height spread along the route corridor.
func steepTerrainBetween(ctx *Context, t *company.Thought) bool {
	posA, okA := ctx.destinationPos(t, false)
	posB, okB := ctx.destinationPos(t, true)
	if !okA || !okB {
		return false
	}
	minZ, maxZ := ctx.Map.SurfaceBaseZRange(world.ToTile(posA), world.ToTile(posB))
	return int(maxZ)-int(minZ) > 12
}

// chooseStationsAndMods picks the station object, signal object and
// track/road modifications the thought will need.
func (ctx *Context) chooseStationsAndMods(c *company.Company, t *company.Thought) bool {
	switch {
	case t.Type.HasFlags(company.FlagRail):
		best := -1
		for i, obj := range ctx.Catalog.TrainStations {
			if !yearAvailable(obj.DesignedYear, obj.ObsoleteYear, ctx.Year) {
				continue
			}
			if best < 0 || obj.DesignedYear > ctx.Catalog.TrainStations[best].DesignedYear {
				best = i
			}
		}
		if best < 0 {
			return false
		}
		t.StationObjID = uint8(best)

		t.SignalObjID = 0xFF
		if t.Type.HasFlags(company.FlagDualTrack) || t.TargetVehicles > 1 {
			sig := -1
			for i, obj := range ctx.Catalog.Signals {
				if !yearAvailable(obj.DesignedYear, obj.ObsoleteYear, ctx.Year) {
					continue
				}
				if sig < 0 || obj.DesignedYear > ctx.Catalog.Signals[sig].DesignedYear {
					sig = i
				}
			}
			if sig >= 0 {
				t.SignalObjID = uint8(sig)
			}
		}

		for i := 0; i < int(t.NumVehicleUnits); i++ {
			t.Mods |= ctx.Catalog.Vehicles[t.VehicleUnits[i]].RequiredMods
		}
		if t.PurchaseFlags&company.PurchaseRackRail != 0 {
			for bit, mod := range ctx.Catalog.TrackMods {
				if mod.RackRail {
					t.Mods |= 1 << bit
				}
			}
		}
		if t.Mods != 0 {
			t.PurchaseFlags |= company.PurchaseRequiresMods
		}
		return true

	case t.Type.HasFlags(company.FlagTram | company.FlagRoad):
		freight := t.Cargo != 0
		best := -1
		for i, obj := range ctx.Catalog.RoadStations {
			if !yearAvailable(obj.DesignedYear, obj.ObsoleteYear, ctx.Year) {
				continue
			}
			if obj.PassengerOnly && freight {
				continue
			}
			if obj.FreightOnly && !freight {
				continue
			}
			if best < 0 || obj.DesignedYear > ctx.Catalog.RoadStations[best].DesignedYear {
				best = i
			}
		}
		if best < 0 {
			return false
		}
		t.StationObjID = uint8(best)
		t.SignalObjID = 0xFF
		if t.Type.HasFlags(company.FlagTram) {
			for i := 0; i < int(t.NumVehicleUnits); i++ {
				t.Mods |= ctx.Catalog.Vehicles[t.VehicleUnits[i]].RequiredMods
			}
			if t.Mods != 0 {
				t.PurchaseFlags |= company.PurchaseRequiresMods
			}
		}
		return true

	case t.Type.HasFlags(company.FlagAir):
		best := -1
		for i, obj := range ctx.Catalog.Airports {
			if !yearAvailable(obj.DesignedYear, obj.ObsoleteYear, ctx.Year) {
				continue
			}
			if best < 0 || obj.DesignedYear > ctx.Catalog.Airports[best].DesignedYear {
				best = i
			}
		}
		if best < 0 {
			return false
		}
		t.StationObjID = uint8(best)
		t.SignalObjID = 0xFF
		return true

	case t.Type.HasFlags(company.FlagWater):
		if len(ctx.Catalog.Docks) == 0 {
			return false
		}
		t.StationObjID = 0
		t.SignalObjID = 0xFF
		return true
	}
	return false
}

func yearAvailable(designed, obsolete, year uint16) bool {
	return year >= designed && year < obsolete
}
