package ai

import (
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/world"
)

// Annualization constant for revenue estimates: planning periods per
// year. Load-bearing; the affordability gate is tuned against it.
const periodsPerYear = 2920

// thoughtMode returns the transport mode of a thought's archetype.
func thoughtMode(t *company.Thought) catalog.TransportMode {
	switch {
	case t.Type.HasFlags(company.FlagAir):
		return catalog.ModeAir
	case t.Type.HasFlags(company.FlagWater):
		return catalog.ModeWater
	case t.Type.HasFlags(company.FlagRail):
		return catalog.ModeRail
	default:
		return catalog.ModeRoad
	}
}

// vehicleCarries reports whether a unit can carry the cargo directly or
// after a refit.
func (ctx *Context) vehicleCarries(obj *catalog.VehicleObject, cargo world.CargoType) bool {
	if obj.CargoTypes&(1<<cargo) != 0 {
		return true
	}
	if int(cargo) >= len(ctx.Catalog.Cargo) || !ctx.Catalog.Cargo[cargo].Refittable {
		return false
	}
	// Refit works from any refittable native cargo.
	for c := 0; c < len(ctx.Catalog.Cargo); c++ {
		if obj.CargoTypes&(1<<c) != 0 && ctx.Catalog.Cargo[c].Refittable {
			return true
		}
	}
	return false
}

// selectVehicleUnits picks the consist for a thought: the fastest
// compatible unit available this year, with a small random jitter so
// otherwise identical companies diverge. Returns false when nothing in
// the catalog fits.
func (ctx *Context) selectVehicleUnits(c *company.Company, t *company.Thought) bool {
	mode := thoughtMode(t)
	trackType := t.BaseTrackObjID()

	best := -1
	bestScore := -1
	bestYear := uint16(0)
	for i := range ctx.Catalog.Vehicles {
		obj := &ctx.Catalog.Vehicles[i]
		if obj.Mode != mode {
			continue
		}
		if !yearAvailable(obj.DesignedYear, obj.ObsoleteYear, ctx.Year) {
			continue
		}
		if (mode == catalog.ModeRail || mode == catalog.ModeRoad) &&
			obj.TrackType != 0xFF && obj.TrackType != trackType {
			continue
		}
		if obj.RackRailOnly && t.PurchaseFlags&company.PurchaseRackRail == 0 {
			continue
		}
		if !ctx.vehicleCarries(obj, t.Cargo) {
			continue
		}
		score := int(obj.Speed) + int(ctx.Rand.Next()&0x3F)
		if score > bestScore || (score == bestScore && obj.DesignedYear > bestYear) {
			best = i
			bestScore = score
			bestYear = obj.DesignedYear
		}
	}
	if best < 0 {
		return false
	}

	t.NumVehicleUnits = 0
	t.VehicleUnits[t.NumVehicleUnits] = uint8(best)
	t.NumVehicleUnits++
	if ctx.Catalog.Vehicles[best].MustHavePair {
		t.VehicleUnits[t.NumVehicleUnits] = uint8(best)
		t.NumVehicleUnits++
	}
	return true
}

// planVehicles chooses the consist and fleet size, recording the fleet's
// running cost and adding the purchase price to the plan estimate.
func (ctx *Context) planVehicles(c *company.Company, t *company.Thought) bool {
	if !ctx.selectVehicleUnits(c, t) {
		return false
	}
	posA, okA := ctx.destinationPos(t, false)
	posB, okB := ctx.destinationPos(t, true)
	if !okA || !okB {
		return false
	}
	minV, maxV := t.Type.MinMaxVehicles()
	distTiles := world.Distance2D(posA, posB) / world.TileSize
	count := int32(minV) + distTiles/80
	if count > int32(maxV) {
		count = int32(maxV)
	}
	t.TargetVehicles = uint8(count)

	var unitCost, runCost int64
	for i := 0; i < int(t.NumVehicleUnits); i++ {
		obj := &ctx.Catalog.Vehicles[t.VehicleUnits[i]]
		unitCost += ctx.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftVehicle)
		runCost += ctx.Economy.InflationAdjustedCost(obj.RunCostFactor, obj.RunCostIndex, catalog.ShiftRunningCost)
	}
	t.RunningCost = int64(t.TargetVehicles) * runCost
	t.EstimatedCost += int64(t.TargetVehicles) * unitCost
	return true
}

// estimateStationCost prices the thought's stations, including the way
// pieces and modifications under rail platforms.
func (ctx *Context) estimateStationCost(t *company.Thought) int64 {
	var perStation int64
	switch {
	case t.Type.HasFlags(company.FlagAir):
		obj := &ctx.Catalog.Airports[t.StationObjID]
		perStation = ctx.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftAirport)
	case t.Type.HasFlags(company.FlagWater):
		obj := &ctx.Catalog.Docks[t.StationObjID]
		perStation = ctx.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftDock)
	case t.Type.HasFlags(company.FlagRail):
		obj := &ctx.Catalog.TrainStations[t.StationObjID]
		track := &ctx.Catalog.Tracks[t.BaseTrackObjID()]
		perTile := ctx.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftStation) +
			ctx.Economy.InflationAdjustedCost(track.CostFactor, track.CostIndex, catalog.ShiftTrackRoad)
		for bit, mod := range ctx.Catalog.TrackMods {
			if t.Mods&(1<<bit) != 0 {
				perTile += ctx.Economy.InflationAdjustedCost(mod.CostFactor, mod.CostIndex, catalog.ShiftTrackRoad)
			}
		}
		perStation = perTile * int64(t.StationLength)
	default:
		obj := &ctx.Catalog.RoadStations[t.StationObjID]
		road := &ctx.Catalog.Roads[t.BaseTrackObjID()]
		perStation = ctx.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftStation) +
			ctx.Economy.InflationAdjustedCost(road.CostFactor, road.CostIndex, catalog.ShiftTrackRoad)
	}
	return perStation * int64(t.NumStations)
}

// estimateTrackCost prices the route's way pieces from straight-line
// distance. Air and water routes, and archetypes that deliberately skip
// the estimate, cost nothing here.
func (ctx *Context) estimateTrackCost(t *company.Thought) int64 {
	if t.Type.HasFlags(company.FlagAir | company.FlagWater | company.FlagNoTrackCost) {
		return 0
	}
	posA, okA := ctx.destinationPos(t, false)
	posB, okB := ctx.destinationPos(t, true)
	if !okA || !okB {
		return 0
	}
	distTiles := world.ManhattanDistance(posA, posB) / world.TileSize

	var perTile int64
	if t.TrackIsRoad() {
		obj := &ctx.Catalog.Roads[t.BaseTrackObjID()]
		perTile = ctx.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftTrackRoad)
	} else {
		obj := &ctx.Catalog.Tracks[t.BaseTrackObjID()]
		perTile = ctx.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftTrackRoad)
		if t.Type.HasFlags(company.FlagTunnel) {
			perTile += ctx.Economy.InflationAdjustedCost(obj.TunnelCostFactor, obj.CostIndex, catalog.ShiftTrackRoad) / 4
		}
		for bit, mod := range ctx.Catalog.TrackMods {
			if t.Mods&(1<<bit) != 0 {
				perTile += ctx.Economy.InflationAdjustedCost(mod.CostFactor, mod.CostIndex, catalog.ShiftTrackRoad)
			}
		}
	}
	cost := perTile * int64(distTiles)
	if t.Type.HasFlags(company.FlagDualTrack) {
		cost *= 2
	}
	return cost
}

// estimateStationClearageCost sums demolition costs around one station
// anchor. Operational stations are already built and clear of obstacles.
func (ctx *Context) estimateStationClearageCost(t *company.Thought, stationIdx int) int64 {
	st := &t.Stations[stationIdx]
	if st.HasFlags(company.AiStationOperational) {
		return 0
	}
	center := world.ToTile(st.Pos)
	var cost int64
	ctx.Map.EachTileInBox(
		world.TilePos{X: center.X - 2, Y: center.Y - 2},
		world.TilePos{X: center.X + 2, Y: center.Y + 2},
		func(_ world.TilePos, tile *world.Tile) {
			for _, el := range tile.Elements {
				switch el.Kind {
				case world.KindTree:
					cost += ctx.Economy.InflationAdjustedCost(4, 0, catalog.ShiftTreeClear)
				case world.KindBuilding:
					if !el.Indestructible && !el.IsHeadquarters {
						cost += ctx.Economy.InflationAdjustedCost(32, 0, catalog.ShiftBuildingClear)
					}
				}
			}
		})
	return cost
}

// estimateThoughtRevenue projects a year of receipts for the planned
// fleet. The 192/256 transit scaling and the annualization constant must
// stay bit-exact; profitability thresholds elsewhere assume them.
func (ctx *Context) estimateThoughtRevenue(t *company.Thought) int64 {
	posA, okA := ctx.destinationPos(t, false)
	posB, okB := ctx.destinationPos(t, true)
	if !okA || !okB {
		return 0
	}
	dist := world.Distance2D(posA, posB)
	distTiles := dist / world.TileSize
	if distTiles <= 0 {
		distTiles = 4 // in-town circuits still move traffic
	}

	minSpeed := uint16(0xFFFF)
	units := 0
	for i := 0; i < int(t.NumVehicleUnits); i++ {
		obj := &ctx.Catalog.Vehicles[t.VehicleUnits[i]]
		if obj.Speed < minSpeed {
			minSpeed = obj.Speed
		}
		native := nativeCargo(obj)
		if obj.CargoTypes&(1<<t.Cargo) != 0 {
			units += int(obj.MaxCargo[0])
		} else {
			units += ctx.Catalog.NumUnitsForCargo(obj.MaxCargo[0], native, t.Cargo)
		}
	}
	if minSpeed == 0 || minSpeed == 0xFFFF || units == 0 {
		return 0
	}

	transitDays := int(distTiles) * 192 / (int(minSpeed) * 256 / 32)
	if transitDays < 1 {
		transitDays = 1
	}
	cargoObj := &ctx.Catalog.Cargo[t.Cargo]
	tripDays := 2*transitDays + int(cargoObj.TransferTime)/16
	payment := ctx.Economy.DeliveredCargoPayment(cargoObj, units, distTiles, transitDays)
	return payment * int64(periodsPerYear/8) / int64(tripDays) * int64(t.TargetVehicles)
}

// nativeCargo returns the first cargo type a unit is built to carry.
func nativeCargo(obj *catalog.VehicleObject) world.CargoType {
	for c := 0; c < 32; c++ {
		if obj.CargoTypes&(1<<c) != 0 {
			return world.CargoType(c)
		}
	}
	return world.NullCargoType
}

// approvePlan is the final affordability gate: projected revenue, scaled
// by the company's intelligence factor, must cover both running costs and
// the capital outlay — and the money must actually be raisable.
func (ctx *Context) approvePlan(c *company.Company, t *company.Thought) bool {
	margin := c.RevenueEstimate - t.RunningCost*24
	margin = margin * c.IntelligenceFactor() / 2
	if margin < t.EstimatedCost {
		return false
	}
	return ctx.Companies.EnsureFunding(c.ID, t.EstimatedCost)
}
