package commands

import (
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/world"
)

// TrackPlacementArgs describes one track piece.
type TrackPlacementArgs struct {
	Pos      world.Pos2
	BaseZ    uint8
	Rotation uint8
	TrackObj uint8
	PieceID  uint8
	Bridge   uint8 // 0xFF = none
	Mods     uint8
}

// PlaceTrack places one track piece. Returns the cost and whether the
// command succeeded.
func (e *Executor) PlaceTrack(owner world.CompanyID, args TrackPlacementArgs, flags Flags) (int64, bool) {
	return e.placeWay(owner, world.KindTrack, args.Pos, args.BaseZ, args.Rotation,
		args.TrackObj, args.PieceID, args.Bridge, args.Mods, flags)
}

// RoadPlacementArgs describes one road piece.
type RoadPlacementArgs struct {
	Pos      world.Pos2
	BaseZ    uint8
	Rotation uint8
	RoadObj  uint8
	PieceID  uint8
	Bridge   uint8
	Mods     uint8
}

// PlaceRoad places one road piece.
func (e *Executor) PlaceRoad(owner world.CompanyID, args RoadPlacementArgs, flags Flags) (int64, bool) {
	return e.placeWay(owner, world.KindRoad, args.Pos, args.BaseZ, args.Rotation,
		args.RoadObj, args.PieceID, args.Bridge, args.Mods, flags)
}

func (e *Executor) placeWay(owner world.CompanyID, kind world.ElementKind, pos world.Pos2,
	baseZ, rotation, objID, pieceID, bridge, mods uint8, flags Flags) (int64, bool) {

	tile := e.Map.TileAt(pos)
	if tile == nil {
		return 0, false
	}
	if tile.Surface.IsWater() && bridge == 0xFF {
		return 0, false
	}
	for _, el := range tile.Elements {
		if elementBlocked(el, owner, baseZ) {
			return 0, false
		}
		// Roads share tiles; a second track piece at the same height from
		// the same owner is a junction and allowed.
	}
	clear := e.clearTileCost(pos, 0)
	if clear < 0 {
		return 0, false
	}

	var cost int64
	switch kind {
	case world.KindTrack:
		obj := &e.Catalog.Tracks[objID]
		cost = e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftTrackRoad)
	case world.KindRoad:
		obj := &e.Catalog.Roads[objID]
		cost = e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftTrackRoad)
	}
	if bridge != 0xFF {
		b := &e.Catalog.Bridges[bridge]
		cost += e.Economy.InflationAdjustedCost(b.CostFactor, b.CostIndex, catalog.ShiftTrackRoad)
	}
	cost += clear

	if !e.settle(owner, cost, flags) {
		return cost, false
	}
	if flags&Apply == 0 {
		return cost, true
	}
	e.clearTileCost(pos, Apply)
	e.Map.InsertElement(pos, &world.Element{
		Kind:        kind,
		BaseZ:       baseZ,
		Owner:       owner,
		Ghost:       flags&Ghost != 0,
		AiAllocated: flags&AiAllocated != 0,
		ObjectID:    objID,
		PieceID:     pieceID,
		Rotation:    rotation,
		Bridge:      bridge,
		Mods:        mods,
	})
	return cost, true
}

// RemoveWay removes one track or road piece owned by the company at the
// position and height. Speculative pieces remove for free.
func (e *Executor) RemoveWay(owner world.CompanyID, kind world.ElementKind, pos world.Pos2, baseZ uint8, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(pos)
	if tile == nil {
		return 0, false
	}
	for _, el := range tile.Elements {
		if el.Kind != kind || el.Owner != owner || el.BaseZ != baseZ {
			continue
		}
		if flags&AiAllocated != 0 && !el.AiAllocated {
			continue
		}
		var cost int64
		if !el.AiAllocated {
			// Demolition runs at a quarter of the build price.
			switch kind {
			case world.KindTrack:
				obj := &e.Catalog.Tracks[el.ObjectID]
				cost = e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftTrackRoad) / 4
			case world.KindRoad:
				obj := &e.Catalog.Roads[el.ObjectID]
				cost = e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftTrackRoad) / 4
			}
		}
		if !e.settle(owner, cost, flags) {
			return cost, false
		}
		if flags&Apply != 0 {
			e.Map.RemoveElement(pos, el)
		}
		return cost, true
	}
	return 0, false
}

// ReplaceAllocatedWay converts the owner's speculative track or road
// pieces on a tile into paid, operational pieces. The charge is the full
// build price of each converted piece.
func (e *Executor) ReplaceAllocatedWay(owner world.CompanyID, pos world.Pos2, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(pos)
	if tile == nil {
		return 0, false
	}
	var cost int64
	var converted []*world.Element
	for _, el := range tile.Elements {
		if el.Owner != owner || !el.AiAllocated {
			continue
		}
		switch el.Kind {
		case world.KindTrack:
			obj := &e.Catalog.Tracks[el.ObjectID]
			cost += e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftTrackRoad)
		case world.KindRoad:
			obj := &e.Catalog.Roads[el.ObjectID]
			cost += e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftTrackRoad)
		default:
			continue
		}
		if el.Bridge != 0xFF {
			b := &e.Catalog.Bridges[el.Bridge]
			cost += e.Economy.InflationAdjustedCost(b.CostFactor, b.CostIndex, catalog.ShiftTrackRoad)
		}
		converted = append(converted, el)
	}
	if len(converted) == 0 {
		return 0, false
	}
	if !e.settle(owner, cost, flags) {
		return cost, false
	}
	if flags&Apply != 0 {
		for _, el := range converted {
			el.AiAllocated = false
		}
	}
	return cost, true
}

// SignalPlacementArgs describes a signal on an existing track piece.
type SignalPlacementArgs struct {
	Pos       world.Pos2
	BaseZ     uint8
	SignalObj uint8
	Sides     uint8 // bit0 facing, bit1 trailing
}

// PlaceSignal attaches a signal to the owner's track piece at the
// position.
func (e *Executor) PlaceSignal(owner world.CompanyID, args SignalPlacementArgs, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(args.Pos)
	if tile == nil {
		return 0, false
	}
	for _, el := range tile.Elements {
		if el.Kind != world.KindTrack || el.Owner != owner || el.BaseZ != args.BaseZ {
			continue
		}
		obj := &e.Catalog.Signals[args.SignalObj]
		cost := e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftTrackRoad)
		if !e.settle(owner, cost, flags) {
			return cost, false
		}
		if flags&Apply != 0 {
			el.HasSignal = true
			el.SignalObjID = args.SignalObj
			el.SignalSides |= args.Sides
		}
		return cost, true
	}
	return 0, false
}

// PlaceWayMods applies a modification (electrification, rack rail, tram
// wire) to the owner's track or road piece at the position.
func (e *Executor) PlaceWayMods(owner world.CompanyID, kind world.ElementKind, pos world.Pos2, baseZ uint8, mods uint8, flags Flags) (int64, bool) {
	tile := e.Map.TileAt(pos)
	if tile == nil {
		return 0, false
	}
	for _, el := range tile.Elements {
		if el.Kind != kind || el.Owner != owner || el.BaseZ != baseZ {
			continue
		}
		var cost int64
		for bit := 0; bit < 8; bit++ {
			if mods&(1<<bit) == 0 || el.Mods&(1<<bit) != 0 {
				continue
			}
			var mod *catalog.ModObject
			if kind == world.KindTrack {
				mod = &e.Catalog.TrackMods[bit]
			} else {
				mod = &e.Catalog.RoadMods[bit]
			}
			cost += e.Economy.InflationAdjustedCost(mod.CostFactor, mod.CostIndex, catalog.ShiftTrackRoad)
		}
		if !e.settle(owner, cost, flags) {
			return cost, false
		}
		if flags&Apply != 0 {
			el.Mods |= mods
		}
		return cost, true
	}
	return 0, false
}
