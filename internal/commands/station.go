package commands

import (
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/world"
)

// registerStation records a real station in the station table and
// remembers its id for the caller.
func (e *Executor) registerStation(owner world.CompanyID, pos world.Pos2, baseZ uint8) bool {
	id := e.Map.Stations.Add(owner, pos, baseZ)
	if id == world.NullStationID {
		return false
	}
	e.lastPlacedStation = id
	return true
}

// TrainStationArgs describes one tile of a rail station platform.
type TrainStationArgs struct {
	Pos           world.Pos2
	BaseZ         uint8
	Rotation      uint8
	TrackObj      uint8
	StationObj    uint8
	SequenceIndex uint8 // tile index along the platform
	Length        uint8
}

// PlaceTrainStation places one platform tile over a track piece at the
// position, laying the track piece too when missing. The first tile of a
// real platform registers the station.
func (e *Executor) PlaceTrainStation(owner world.CompanyID, args TrainStationArgs, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(args.Pos)
	if tile == nil || tile.Surface.IsWater() {
		return 0, false
	}
	var way *world.Element
	for _, el := range tile.Elements {
		if el.Kind == world.KindTrack && el.Owner == owner && el.BaseZ == args.BaseZ {
			way = el
			break
		}
		if elementBlocked(el, owner, args.BaseZ) {
			return 0, false
		}
	}
	obj := &e.Catalog.TrainStations[args.StationObj]
	cost := e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftStation)
	if way == nil {
		track := &e.Catalog.Tracks[args.TrackObj]
		cost += e.Economy.InflationAdjustedCost(track.CostFactor, track.CostIndex, catalog.ShiftTrackRoad)
	}
	clear := e.clearTileCost(args.Pos, 0)
	if clear < 0 {
		return 0, false
	}
	cost += clear
	if !e.settle(owner, cost, flags) {
		return cost, false
	}
	if flags&Apply == 0 {
		return cost, true
	}
	e.clearTileCost(args.Pos, Apply)
	if way == nil {
		way = &world.Element{
			Kind:        world.KindTrack,
			BaseZ:       args.BaseZ,
			Owner:       owner,
			AiAllocated: flags&AiAllocated != 0,
			Ghost:       flags&Ghost != 0,
			ObjectID:    args.TrackObj,
			Rotation:    args.Rotation,
			Bridge:      0xFF,
		}
		e.Map.InsertElement(args.Pos, way)
	}
	way.HasStation = true
	st := &world.Element{
		Kind:          world.KindStation,
		BaseZ:         args.BaseZ,
		Owner:         owner,
		AiAllocated:   flags&AiAllocated != 0,
		Ghost:         flags&Ghost != 0,
		ObjectID:      args.StationObj,
		Rotation:      args.Rotation,
		SequenceIndex: args.SequenceIndex,
		Bridge:        0xFF,
		Station:       world.NullStationID,
	}
	e.Map.InsertElement(args.Pos, st)
	if flags&(AiAllocated|Ghost) == 0 {
		// The anchor tile registers the station; later platform tiles
		// join the id it produced.
		if args.SequenceIndex == 0 && !e.registerStation(owner, args.Pos, args.BaseZ) {
			return cost, false
		}
		st.Station = e.lastPlacedStation
	}
	return cost, true
}

// RoadStationArgs describes a road stop.
type RoadStationArgs struct {
	Pos        world.Pos2
	BaseZ      uint8
	Rotation   uint8
	RoadObj    uint8
	StationObj uint8
}

// PlaceRoadStation places a road stop, laying the road piece under it
// when missing.
func (e *Executor) PlaceRoadStation(owner world.CompanyID, args RoadStationArgs, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(args.Pos)
	if tile == nil || tile.Surface.IsWater() {
		return 0, false
	}
	var way *world.Element
	for _, el := range tile.Elements {
		if el.Kind == world.KindRoad && el.BaseZ == args.BaseZ {
			way = el
			break
		}
		if elementBlocked(el, owner, args.BaseZ) {
			return 0, false
		}
	}
	obj := &e.Catalog.RoadStations[args.StationObj]
	cost := e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftStation)
	if way == nil {
		road := &e.Catalog.Roads[args.RoadObj]
		cost += e.Economy.InflationAdjustedCost(road.CostFactor, road.CostIndex, catalog.ShiftTrackRoad)
	}
	clear := e.clearTileCost(args.Pos, 0)
	if clear < 0 {
		return 0, false
	}
	cost += clear
	if !e.settle(owner, cost, flags) {
		return cost, false
	}
	if flags&Apply == 0 {
		return cost, true
	}
	e.clearTileCost(args.Pos, Apply)
	if way == nil {
		way = &world.Element{
			Kind:        world.KindRoad,
			BaseZ:       args.BaseZ,
			Owner:       owner,
			AiAllocated: flags&AiAllocated != 0,
			Ghost:       flags&Ghost != 0,
			ObjectID:    args.RoadObj,
			Rotation:    args.Rotation,
			Bridge:      0xFF,
		}
		e.Map.InsertElement(args.Pos, way)
	}
	way.HasStation = true
	st := &world.Element{
		Kind:        world.KindStation,
		BaseZ:       args.BaseZ,
		Owner:       owner,
		AiAllocated: flags&AiAllocated != 0,
		Ghost:       flags&Ghost != 0,
		ObjectID:    args.StationObj,
		Rotation:    args.Rotation,
		Bridge:      0xFF,
		Station:     world.NullStationID,
	}
	e.Map.InsertElement(args.Pos, st)
	if flags&(AiAllocated|Ghost) == 0 {
		if !e.registerStation(owner, args.Pos, args.BaseZ) {
			return cost, false
		}
		st.Station = e.lastPlacedStation
	}
	return cost, true
}

// AirportArgs describes an airport placement at its anchor tile.
type AirportArgs struct {
	Pos        world.Pos2
	BaseZ      uint8
	Rotation   uint8
	AirportObj uint8
}

// PlaceAirport places an airport footprint. All footprint tiles must be
// dry and unobstructed.
func (e *Executor) PlaceAirport(owner world.CompanyID, args AirportArgs, flags Flags) (int64, bool) {
	obj := &e.Catalog.Airports[args.AirportObj]
	cost := e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftAirport)

	var tiles []world.Pos2
	for dy := int32(0); dy < int32(obj.SizeY); dy++ {
		for dx := int32(0); dx < int32(obj.SizeX); dx++ {
			p := world.Pos2{X: args.Pos.X + dx*world.TileSize, Y: args.Pos.Y + dy*world.TileSize}
			tile := e.Map.TileAt(p)
			if tile == nil || tile.Surface.IsWater() {
				return 0, false
			}
			for _, el := range tile.Elements {
				if elementBlocked(el, owner, args.BaseZ) {
					return 0, false
				}
			}
			clear := e.clearTileCost(p, 0)
			if clear < 0 {
				return 0, false
			}
			cost += clear
			tiles = append(tiles, p)
		}
	}
	if !e.settle(owner, cost, flags) {
		return cost, false
	}
	if flags&Apply == 0 {
		return cost, true
	}
	placed := make([]*world.Element, 0, len(tiles))
	for i, p := range tiles {
		e.clearTileCost(p, Apply)
		st := &world.Element{
			Kind:          world.KindStation,
			BaseZ:         args.BaseZ,
			Owner:         owner,
			AiAllocated:   flags&AiAllocated != 0,
			Ghost:         flags&Ghost != 0,
			ObjectID:      args.AirportObj,
			Rotation:      args.Rotation,
			SequenceIndex: uint8(i),
			Bridge:        0xFF,
			Station:       world.NullStationID,
		}
		e.Map.InsertElement(p, st)
		placed = append(placed, st)
	}
	if flags&(AiAllocated|Ghost) == 0 {
		if !e.registerStation(owner, args.Pos, args.BaseZ) {
			return cost, false
		}
		for _, st := range placed {
			st.Station = e.lastPlacedStation
		}
	}
	return cost, true
}

// DockArgs describes a dock placement. The anchor tile must touch open
// water.
type DockArgs struct {
	Pos      world.Pos2
	BaseZ    uint8
	Rotation uint8
	DockObj  uint8
}

// PlaceDock places a dock at the water's edge.
func (e *Executor) PlaceDock(owner world.CompanyID, args DockArgs, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(args.Pos)
	if tile == nil {
		return 0, false
	}
	if e.Map.CountNearbyWaterTiles(args.Pos) == 0 {
		return 0, false
	}
	for _, el := range tile.Elements {
		if elementBlocked(el, owner, args.BaseZ) {
			return 0, false
		}
	}
	obj := &e.Catalog.Docks[args.DockObj]
	cost := e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftDock)
	if !e.settle(owner, cost, flags) {
		return cost, false
	}
	if flags&Apply == 0 {
		return cost, true
	}
	st := &world.Element{
		Kind:        world.KindStation,
		BaseZ:       args.BaseZ,
		Owner:       owner,
		AiAllocated: flags&AiAllocated != 0,
		Ghost:       flags&Ghost != 0,
		ObjectID:    args.DockObj,
		Rotation:    args.Rotation,
		Bridge:      0xFF,
		Station:     world.NullStationID,
	}
	e.Map.InsertElement(args.Pos, st)
	if flags&(AiAllocated|Ghost) == 0 {
		if !e.registerStation(owner, args.Pos, args.BaseZ) {
			return cost, false
		}
		st.Station = e.lastPlacedStation
	}
	return cost, true
}

// RemoveStationAt removes every station element the owner has on the
// tile, deregistering the station when it was real. Speculative removal
// is free.
func (e *Executor) RemoveStationAt(owner world.CompanyID, pos world.Pos2, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(pos)
	if tile == nil {
		return 0, false
	}
	var removed []*world.Element
	for _, el := range tile.Elements {
		if el.Kind != world.KindStation || el.Owner != owner {
			continue
		}
		if flags&AiAllocated != 0 && !el.AiAllocated {
			continue
		}
		removed = append(removed, el)
	}
	if len(removed) == 0 {
		return 0, false
	}
	if flags&Apply != 0 {
		for _, el := range removed {
			e.Map.RemoveElement(pos, el)
			if !el.AiAllocated && !el.Ghost && el.Station != world.NullStationID {
				e.Map.Stations.Remove(el.Station)
			}
		}
		for _, el := range tile.Elements {
			if el.Kind == world.KindTrack || el.Kind == world.KindRoad {
				el.HasStation = false
			}
		}
	}
	return 0, true
}

// RemoveStationByID removes a registered station and all of its elements.
func (e *Executor) RemoveStationByID(owner world.CompanyID, id world.StationID, flags Flags) (int64, bool) {
	st := e.Map.Stations.Get(id)
	if st == nil || st.Owner != owner {
		return 0, false
	}
	if flags&Apply != 0 {
		e.RemoveStationAt(owner, st.Pos, flags)
		e.Map.Stations.Remove(id)
	}
	return 0, true
}

// HeadquarterArgs describes the company building placement.
type HeadquarterArgs struct {
	Pos      world.Pos2
	BaseZ    uint8
	Rotation uint8
}

// PlaceHeadquarters builds the company headquarters.
func (e *Executor) PlaceHeadquarters(owner world.CompanyID, args HeadquarterArgs, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(args.Pos)
	if tile == nil || tile.Surface.IsWater() {
		return 0, false
	}
	for _, el := range tile.Elements {
		if elementBlocked(el, owner, args.BaseZ) {
			return 0, false
		}
	}
	clear := e.clearTileCost(args.Pos, 0)
	if clear < 0 {
		return 0, false
	}
	cost := e.Economy.InflationAdjustedCost(240, 0, catalog.ShiftBuildingClear) + clear
	if !e.settle(owner, cost, flags) {
		return cost, false
	}
	if flags&Apply == 0 {
		return cost, true
	}
	e.clearTileCost(args.Pos, Apply)
	e.Map.InsertElement(args.Pos, &world.Element{
		Kind:           world.KindBuilding,
		BaseZ:          args.BaseZ,
		Owner:          owner,
		Rotation:       args.Rotation,
		Bridge:         0xFF,
		IsHeadquarters: true,
	})
	return cost, true
}

// RemoveHeadquarters demolishes the company headquarters wherever it
// stands.
func (e *Executor) RemoveHeadquarters(owner world.CompanyID, pos world.Pos2, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(pos)
	if tile == nil {
		return 0, false
	}
	for _, el := range tile.Elements {
		if el.Kind == world.KindBuilding && el.IsHeadquarters && el.Owner == owner {
			if flags&Apply != 0 {
				e.Map.RemoveElement(pos, el)
			}
			return 0, true
		}
	}
	return 0, false
}
