package ai

import (
	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/gamerand"
	"github.com/talgya/tycoon-world/internal/world"
)

type buildStatus int

const (
	buildSuccess buildStatus = iota
	buildAllDone
	buildProgress
	buildFailure
)

// Placement attempt budget for one thought. Exhausting it abandons the
// plan.
const maxPlacementAttempts = 400

// Attempts per planning step at placing one station.
const stationAttemptsPerStep = 3

// Tiles scanned per planning step during bulk removal sweeps.
const sweepChunkTiles = 1500

// Incremental way removal gives up on polite piece-by-piece demolition
// after this many steps and clears everything left in one pass.
const maxRemovalSteps = 1600

// Reuse radii for existing own infrastructure, in world units.
const (
	airportReuseRadius = 512
	dockReuseRadius    = 448
)

// Minimum spacing between a plan's stations for point-to-point ground
// routes, in world units.
const minStationSpacing = 224

// portBorderOffsets is the ring of twelve tiles around a 2x2 dock
// footprint, used to find a water-adjacent orientation.
var portBorderOffsets = [12]world.TilePos{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1}, {X: 2, Y: -1},
	{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2},
	{X: 1, Y: 2}, {X: 0, Y: 2}, {X: -1, Y: 2},
	{X: -1, Y: 1}, {X: -1, Y: 0},
}

// placeSpeculativeStation tries to place the next unallocated station of
// the active thought. Each call makes up to three randomized attempts,
// charging the company's placement budget; an exhausted budget reports
// failure so the caller can unwind.
func (ctx *Context) placeSpeculativeStation(c *company.Company, t *company.Thought) buildStatus {
	idx := -1
	for i := 0; i < int(t.NumStations); i++ {
		if t.Stations[i].Flags&(company.AiStationAllocated|company.AiStationOperational) == 0 {
			idx = i
			break
		}
	}
	if idx < 0 {
		return buildAllDone
	}
	st := &t.Stations[idx]

	for attempt := 0; attempt < stationAttemptsPerStep; attempt++ {
		if c.PlacementAttempts >= maxPlacementAttempts {
			return buildFailure
		}
		c.PlacementAttempts++
		if ctx.tryPlaceStationOnce(c, t, idx, st) {
			st.Flags |= company.AiStationAllocated
			return buildSuccess
		}
	}
	return buildProgress
}

// tryPlaceStationOnce makes one randomized placement attempt for one
// station slot.
func (ctx *Context) tryPlaceStationOnce(c *company.Company, t *company.Thought, idx int, st *company.AiStation) bool {
	rand := ctx.Rand.Next()
	var radius uint32
	switch thoughtModeOffsetClass(t) {
	case offsetAir:
		radius = 0x1F
	case offsetWater:
		radius = 0xF
	default:
		radius = 0x7
	}
	half := int32(radius) / 2
	pos := world.Pos2{
		X: st.Pos.X + (int32(rand&radius)-half)*world.TileSize,
		Y: st.Pos.Y + (int32(gamerand.Rotr(rand, 5)&radius)-half)*world.TileSize,
	}
	if !ctx.Map.ValidCoords(pos) {
		return false
	}
	if !ctx.stationSiteServesCargo(t, idx, pos) {
		return false
	}

	flags := commands.Apply | commands.AiAllocated | commands.NoPayment
	switch {
	case t.Type.HasFlags(company.FlagAir):
		// Prefer adopting an existing own airport nearby over building a
		// second one.
		for _, owned := range ctx.Map.Stations.Owned(c.ID) {
			if world.ManhattanDistance(owned.Pos, pos) <= airportReuseRadius && ctx.tileHasAirport(owned.Pos, c.ID) {
				st.Pos = owned.Pos
				st.BaseZ = owned.BaseZ
				st.ID = owned.ID
				st.Flags |= company.AiStationOperational
				return true
			}
		}
		surface := ctx.Map.SurfaceAt(pos)
		if surface == nil || surface.IsWater() {
			return false
		}
		_, ok := ctx.Exec.PlaceAirport(c.ID, commands.AirportArgs{
			Pos: pos, BaseZ: surface.BaseZ, Rotation: st.Rotation, AirportObj: t.StationObjID,
		}, flags)
		if ok {
			st.Pos = pos
			st.BaseZ = surface.BaseZ
		}
		return ok

	case t.Type.HasFlags(company.FlagWater):
		for _, owned := range ctx.Map.Stations.Owned(c.ID) {
			if world.ManhattanDistance(owned.Pos, pos) <= dockReuseRadius && ctx.tileHasDock(owned.Pos, c.ID) {
				st.Pos = owned.Pos
				st.BaseZ = owned.BaseZ
				st.ID = owned.ID
				st.Flags |= company.AiStationOperational
				return true
			}
		}
		return ctx.tryPlaceDock(c, t, st, pos, flags)

	case t.Type.HasFlags(company.FlagRail):
		return ctx.tryPlacePlatform(c, t, st, pos, flags)

	default:
		surface := ctx.Map.SurfaceAt(pos)
		if surface == nil || surface.IsWater() || !ctx.siteSuitable(pos) {
			return false
		}
		_, ok := ctx.Exec.PlaceRoadStation(c.ID, commands.RoadStationArgs{
			Pos: pos, BaseZ: surface.BaseZ, Rotation: st.Rotation,
			RoadObj: t.BaseTrackObjID(), StationObj: t.StationObjID,
		}, flags)
		if ok {
			st.Pos = pos
			st.BaseZ = surface.BaseZ
		}
		return ok
	}
}

type offsetClass int

const (
	offsetGround offsetClass = iota
	offsetAir
	offsetWater
)

func thoughtModeOffsetClass(t *company.Thought) offsetClass {
	switch {
	case t.Type.HasFlags(company.FlagAir):
		return offsetAir
	case t.Type.HasFlags(company.FlagWater):
		return offsetWater
	default:
		return offsetGround
	}
}

// stationSiteServesCargo checks the cargo predicate for a station slot:
// the origin must have the cargo produced nearby, destinations must have
// it wanted. Circuits and single-town plans relax only the destination
// side; the origin check always holds.
func (ctx *Context) stationSiteServesCargo(t *company.Thought, idx int, pos world.Pos2) bool {
	const radius = 5
	if idx == 0 {
		return ctx.Map.CargoProducedAround(pos, radius)&(1<<t.Cargo) != 0
	}
	if t.Type.HasFlags(company.FlagSingleDestination | company.FlagCircuit) {
		return true
	}
	return ctx.Map.CargoAcceptedAround(pos, radius)&(1<<t.Cargo) != 0
}

// siteSuitable rejects dense town cores: more than a few buildings in
// the immediate box means clearance would be ruinous.
func (ctx *Context) siteSuitable(pos world.Pos2) bool {
	center := world.ToTile(pos)
	return ctx.Map.BuildingCountInBox(
		world.TilePos{X: center.X - 2, Y: center.Y - 2},
		world.TilePos{X: center.X + 2, Y: center.Y + 2}) < 4
}

// tryPlacePlatform lays a full-length allocated rail platform.
func (ctx *Context) tryPlacePlatform(c *company.Company, t *company.Thought, st *company.AiStation, pos world.Pos2, flags commands.Flags) bool {
	surface := ctx.Map.SurfaceAt(pos)
	if surface == nil || surface.IsWater() || !ctx.siteSuitable(pos) {
		return false
	}
	baseZ := surface.BaseZ
	step := world.RotationOffset[st.Rotation]
	// Validate the whole platform before mutating anything.
	for i := int32(0); i < int32(t.StationLength); i++ {
		p := world.Pos2{X: pos.X + step.X*i, Y: pos.Y + step.Y*i}
		s := ctx.Map.SurfaceAt(p)
		if s == nil || s.IsWater() || s.BaseZ != baseZ {
			return false
		}
	}
	for i := int32(0); i < int32(t.StationLength); i++ {
		p := world.Pos2{X: pos.X + step.X*i, Y: pos.Y + step.Y*i}
		_, ok := ctx.Exec.PlaceTrainStation(c.ID, commands.TrainStationArgs{
			Pos: p, BaseZ: baseZ, Rotation: st.Rotation,
			TrackObj: t.BaseTrackObjID(), StationObj: t.StationObjID,
			SequenceIndex: uint8(i), Length: t.StationLength,
		}, flags)
		if !ok {
			// Roll back the partial platform.
			for j := int32(0); j < i; j++ {
				q := world.Pos2{X: pos.X + step.X*j, Y: pos.Y + step.Y*j}
				ctx.Exec.RemoveStationAt(c.ID, q, commands.Apply|commands.AiAllocated|commands.NoPayment)
				ctx.Exec.RemoveWay(c.ID, world.KindTrack, q, baseZ, commands.Apply|commands.AiAllocated|commands.NoPayment)
			}
			return false
		}
	}
	st.Pos = pos
	st.BaseZ = baseZ
	return true
}

// tryPlaceDock finds a water-adjacent orientation via the fixed border
// ring, preferring the side facing a water-built industry.
func (ctx *Context) tryPlaceDock(c *company.Company, t *company.Thought, st *company.AiStation, pos world.Pos2, flags commands.Flags) bool {
	center := world.ToTile(pos)
	waterSide := -1
	for i, off := range portBorderOffsets {
		tp := world.TilePos{X: center.X + off.X, Y: center.Y + off.Y}
		tile := ctx.Map.Tile(tp)
		if tile == nil || !tile.Surface.IsWater() {
			continue
		}
		waterSide = i
		if ctx.waterIndustryToward(tp) {
			break
		}
	}
	if waterSide < 0 {
		return false
	}
	surface := ctx.Map.SurfaceAt(pos)
	if surface == nil || surface.IsWater() {
		return false
	}
	rotation := uint8(waterSide / 3)
	_, ok := ctx.Exec.PlaceDock(c.ID, commands.DockArgs{
		Pos: pos, BaseZ: surface.BaseZ, Rotation: rotation, DockObj: t.StationObjID,
	}, flags)
	if ok {
		st.Pos = pos
		st.BaseZ = surface.BaseZ
		st.Rotation = rotation
	}
	return ok
}

// waterIndustryToward reports whether a water-built industry sits close
// beyond the given tile.
func (ctx *Context) waterIndustryToward(tp world.TilePos) bool {
	p := world.ToWorld(tp)
	for _, ind := range ctx.Map.Industries {
		if ind.BuiltOnWater && world.ManhattanDistance(ind.Pos, p) <= 8*world.TileSize {
			return true
		}
	}
	return false
}

func (ctx *Context) tileHasAirport(pos world.Pos2, owner world.CompanyID) bool {
	tile := ctx.Map.TileAt(pos)
	if tile == nil {
		return false
	}
	for _, el := range tile.Elements {
		if el.Kind == world.KindStation && el.Owner == owner && !el.AiAllocated {
			return true
		}
	}
	return false
}

func (ctx *Context) tileHasDock(pos world.Pos2, owner world.CompanyID) bool {
	return ctx.tileHasAirport(pos, owner)
}

// nextPlannedLink finds a station with a link side still waiting for
// speculative track. Returns the station index and whether the forward
// (A) side is the pending one.
func nextPlannedLink(t *company.Thought) (int, bool, bool) {
	for i := 0; i < int(t.NumStations); i++ {
		st := &t.Stations[i]
		if st.LinkA&company.LinkPlanned != 0 && st.LinkA&company.LinkAllocated == 0 {
			return i, true, true
		}
		if st.LinkB&company.LinkPlanned != 0 && st.LinkB&company.LinkAllocated == 0 {
			return i, false, true
		}
	}
	return 0, false, false
}

// buildSpeculativeLinks advances the track network one bounded run per
// call: selects the next pending link and routes toward its far station.
func (ctx *Context) buildSpeculativeLinks(c *company.Company, t *company.Thought) buildStatus {
	if t.Type.HasFlags(company.FlagAir | company.FlagWater) {
		return buildAllDone
	}
	idx, sideA, found := nextPlannedLink(t)
	if !found {
		return buildAllDone
	}
	st := &t.Stations[idx]
	var far *company.AiStation
	if sideA {
		far = &t.Stations[st.NextA]
	} else {
		far = &t.Stations[st.NextB]
	}

	if c.Scratch.StationCursor != uint8(idx) {
		startPath(c, st, far)
		c.Scratch.StationCursor = uint8(idx)
	}
	switch ctx.advancePath(c, t) {
	case pathDone:
		if sideA {
			st.LinkA |= company.LinkAllocated
		} else {
			st.LinkB |= company.LinkAllocated
		}
		c.Scratch.StationCursor = 0xFF
		return buildSuccess
	case pathFailed:
		c.Scratch.StationCursor = 0xFF
		return buildFailure
	default:
		return buildProgress
	}
}

// placeSpeculativeSignals spreads signals along the allocated track at
// platform-length spacing. Loops get one span per station; paired track
// gets spans on both sides with alternating facing.
func (ctx *Context) placeSpeculativeSignals(c *company.Company, t *company.Thought) {
	if t.SignalObjID == 0xFF || t.TrackIsRoad() {
		return
	}
	spacing := int32(t.StationLength)
	if spacing < 2 {
		spacing = 2
	}
	minT, maxT := thoughtBoundingBox(t)
	counter := int32(0)
	sides := uint8(1)
	ctx.Map.EachTileInBox(minT, maxT, func(tp world.TilePos, tile *world.Tile) {
		for _, el := range tile.Elements {
			if el.Kind != world.KindTrack || el.Owner != c.ID || !el.AiAllocated {
				continue
			}
			if el.ObjectID != t.BaseTrackObjID() || el.HasStation {
				continue
			}
			counter++
			if counter%spacing != 0 {
				continue
			}
			if t.Type.HasFlags(company.FlagDualTrack) {
				sides ^= 3 // alternate facing on paired track
			}
			ctx.Exec.PlaceSignal(c.ID, commands.SignalPlacementArgs{
				Pos:       world.ToWorld(tp),
				BaseZ:     el.BaseZ,
				SignalObj: t.SignalObjID,
				Sides:     sides,
			}, commands.Apply|commands.AiAllocated|commands.NoPayment)
		}
	})
}

// thoughtBoundingBox returns the tile box spanning all of a thought's
// stations, padded by a tile.
func thoughtBoundingBox(t *company.Thought) (world.TilePos, world.TilePos) {
	minT := world.TilePos{X: 1 << 30, Y: 1 << 30}
	maxT := world.TilePos{X: -(1 << 30), Y: -(1 << 30)}
	for i := 0; i < int(t.NumStations); i++ {
		tp := world.ToTile(t.Stations[i].Pos)
		if tp.X < minT.X {
			minT.X = tp.X
		}
		if tp.Y < minT.Y {
			minT.Y = tp.Y
		}
		if tp.X > maxT.X {
			maxT.X = tp.X
		}
		if tp.Y > maxT.Y {
			maxT.Y = tp.Y
		}
	}
	minT.X--
	minT.Y--
	maxT.X++
	maxT.Y++
	return minT, maxT
}

// routeViable re-checks the built speculative route before money is
// spent: stations must not have landed on top of each other, and rail
// must not have produced an absurd tangle of bridgework.
func (ctx *Context) routeViable(c *company.Company, t *company.Thought) bool {
	relaxed := t.Type.HasFlags(company.FlagAir | company.FlagWater | company.FlagCircuit | company.FlagSingleDestination)
	if !relaxed {
		for i := 0; i < int(t.NumStations); i++ {
			for j := i + 1; j < int(t.NumStations); j++ {
				if world.ManhattanDistance(t.Stations[i].Pos, t.Stations[j].Pos) < minStationSpacing {
					return false
				}
			}
		}
	}
	if !t.Type.HasFlags(company.FlagRail) {
		return true
	}
	for i := 0; i < int(t.NumStations); i++ {
		center := world.ToTile(t.Stations[i].Pos)
		allocated := 0
		heavy := 0
		ctx.Map.EachTileInBox(
			world.TilePos{X: center.X - 7, Y: center.Y - 7},
			world.TilePos{X: center.X + 7, Y: center.Y + 7},
			func(_ world.TilePos, tile *world.Tile) {
				for _, el := range tile.Elements {
					if el.Owner == c.ID && el.AiAllocated {
						allocated++
					}
					heavy++
					if el.Kind == world.KindTrack && el.Bridge != 0xFF {
						heavy += 10
					}
				}
			})
		if allocated > 4 && heavy > 120 {
			return false
		}
	}
	return true
}

// approveConversion is the last gate before speculative assets become
// real: solvency, a revenue estimate that at least halves the outlay,
// raisable funding and room in the station table.
func (ctx *Context) approveConversion(c *company.Company, t *company.Thought) bool {
	if c.Bankrupt() {
		return false
	}
	if c.RevenueEstimate*2 < t.EstimatedCost {
		return false
	}
	if !ctx.Companies.EnsureFunding(c.ID, t.EstimatedCost) {
		return false
	}
	return ctx.Map.Stations.FreeSlots() >= 8
}

// sweepRemoveAllocated scans up to sweepChunkTiles tiles from the sweep
// cursor removing the company's speculative elements. Returns true when
// the whole map has been covered.
func (ctx *Context) sweepRemoveAllocated(c *company.Company) bool {
	return ctx.sweepRemove(c, commands.Apply|commands.AiAllocated|commands.NoPayment)
}

// sweepRemoveEverything removes every element the company owns,
// chunked. After the final chunk the headquarters goes too.
func (ctx *Context) sweepRemoveEverything(c *company.Company) bool {
	done := ctx.sweepRemove(c, commands.Apply|commands.NoPayment)
	if done && c.HasHeadquarters {
		pos := world.Pos2{X: c.HeadquartersPos.X, Y: c.HeadquartersPos.Y}
		ctx.Exec.RemoveHeadquarters(c.ID, pos, commands.Apply|commands.NoPayment)
		c.HasHeadquarters = false
	}
	return done
}

// sweepRemove demolishes the company's elements through the command
// executor tile by tile. An AiAllocated flag narrows the sweep to
// speculative elements; a full sweep also deregisters real stations via
// the removal command.
func (ctx *Context) sweepRemove(c *company.Company, flags commands.Flags) bool {
	start := world.ToTile(c.Scratch.SweepPos)
	scanned := 0
	tp := start
	for {
		tile := ctx.Map.Tile(tp)
		if tile != nil {
			p := world.ToWorld(tp)
			elems := append([]*world.Element(nil), tile.Elements...)
			for _, el := range elems {
				if el.Owner != c.ID || el.IsHeadquarters {
					continue
				}
				if flags&commands.AiAllocated != 0 && !el.AiAllocated {
					continue
				}
				switch el.Kind {
				case world.KindStation:
					ctx.Exec.RemoveStationAt(c.ID, p, flags)
				case world.KindTrack, world.KindRoad:
					ctx.Exec.RemoveWay(c.ID, el.Kind, p, el.BaseZ, flags)
				}
			}
		}
		scanned++
		tp.X++
		if tp.X >= ctx.Map.Cols {
			tp.X = 0
			tp.Y++
		}
		if tp.Y >= ctx.Map.Rows {
			c.Scratch.SweepPos = world.Pos2{}
			return true
		}
		if scanned >= sweepChunkTiles {
			c.Scratch.SweepPos = world.ToWorld(tp)
			return false
		}
	}
}

// removeNextAllocatedStation removes one speculative station per call.
func (ctx *Context) removeNextAllocatedStation(c *company.Company, t *company.Thought) bool {
	for i := 0; i < int(t.NumStations); i++ {
		st := &t.Stations[i]
		if st.Flags&company.AiStationAllocated == 0 || st.Flags&company.AiStationOperational != 0 {
			continue
		}
		ctx.Exec.RemoveStationAt(c.ID, st.Pos, commands.Apply|commands.AiAllocated|commands.NoPayment)
		st.Flags &^= company.AiStationAllocated
		return false
	}
	return true
}

// removeThoughtWays incrementally demolishes the thought's real track or
// road, a bounded batch per call. After maxRemovalSteps the remainder
// goes in one forced pass.
func (ctx *Context) removeThoughtWays(c *company.Company, t *company.Thought) bool {
	if t.Type.HasFlags(company.FlagAir|company.FlagWater) || t.TrackObjID == 0xFF {
		return true
	}
	kind := world.KindTrack
	if t.TrackIsRoad() {
		kind = world.KindRoad
	}
	minT, maxT := thoughtBoundingBox(t)
	force := c.Scratch.RemovalSteps >= maxRemovalSteps
	budget := 100
	removed := 0
	ctx.Map.EachTileInBox(minT, maxT, func(tp world.TilePos, tile *world.Tile) {
		if removed >= budget && !force {
			return
		}
		var doomed []*world.Element
		blocked := false
		for _, el := range tile.Elements {
			if el.Kind != kind || el.Owner != c.ID || el.ObjectID != t.BaseTrackObjID() {
				continue
			}
			if el.HasStation && !force {
				blocked = true
				continue
			}
			doomed = append(doomed, el)
		}
		if blocked {
			// A platform piece still sits here; removal by height could take
			// the station's own way. Leave the tile to the forced pass.
			return
		}
		p := world.ToWorld(tp)
		for _, el := range doomed {
			if removed >= budget && !force {
				return
			}
			if _, ok := ctx.Exec.RemoveWay(c.ID, kind, p, el.BaseZ, commands.Apply|commands.NoPayment); ok {
				removed++
			}
		}
	})
	c.Scratch.RemovalSteps += uint16(removed)
	if removed == 0 || force {
		c.Scratch.RemovalSteps = 0
		return true
	}
	return false
}
