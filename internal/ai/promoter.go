package ai

import (
	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/world"
)

// paidThenFree runs a paid mutation and, when only money stood in the
// way, retries it for free. The AI never strands half-converted assets
// over an overdraft.
func paidThenFree(run func(commands.Flags) bool) bool {
	if run(commands.Apply) {
		return true
	}
	return run(commands.Apply | commands.NoPayment)
}

// convertNextStation promotes one speculative station into a real, paid
// one per call.
func (ctx *Context) convertNextStation(c *company.Company, t *company.Thought) buildStatus {
	idx := -1
	for i := 0; i < int(t.NumStations); i++ {
		st := &t.Stations[i]
		if st.Flags&company.AiStationAllocated != 0 && st.Flags&company.AiStationOperational == 0 {
			idx = i
			break
		}
	}
	if idx < 0 {
		return buildAllDone
	}
	st := &t.Stations[idx]

	ok := false
	switch {
	case t.Type.HasFlags(company.FlagAir):
		ctx.Exec.RemoveStationAt(c.ID, st.Pos, commands.Apply|commands.NoPayment)
		ok = paidThenFree(func(f commands.Flags) bool {
			_, placed := ctx.Exec.PlaceAirport(c.ID, commands.AirportArgs{
				Pos: st.Pos, BaseZ: st.BaseZ, Rotation: st.Rotation, AirportObj: t.StationObjID,
			}, f)
			return placed
		})

	case t.Type.HasFlags(company.FlagWater):
		ctx.Exec.RemoveStationAt(c.ID, st.Pos, commands.Apply|commands.NoPayment)
		ok = paidThenFree(func(f commands.Flags) bool {
			_, placed := ctx.Exec.PlaceDock(c.ID, commands.DockArgs{
				Pos: st.Pos, BaseZ: st.BaseZ, Rotation: st.Rotation, DockObj: t.StationObjID,
			}, f)
			return placed
		})

	case t.Type.HasFlags(company.FlagRail):
		ok = true
		step := world.RotationOffset[st.Rotation]
		for i := int32(0); i < int32(t.StationLength) && ok; i++ {
			p := world.Pos2{X: st.Pos.X + step.X*i, Y: st.Pos.Y + step.Y*i}
			ctx.Exec.RemoveStationAt(c.ID, p, commands.Apply|commands.NoPayment)
			ctx.Exec.RemoveWay(c.ID, world.KindTrack, p, st.BaseZ, commands.Apply|commands.NoPayment)
			ok = paidThenFree(func(f commands.Flags) bool {
				_, placed := ctx.Exec.PlaceTrainStation(c.ID, commands.TrainStationArgs{
					Pos: p, BaseZ: st.BaseZ, Rotation: st.Rotation,
					TrackObj: t.BaseTrackObjID(), StationObj: t.StationObjID,
					SequenceIndex: uint8(i), Length: t.StationLength,
				}, f)
				return placed
			})
		}

	default:
		ctx.Exec.RemoveStationAt(c.ID, st.Pos, commands.Apply|commands.NoPayment)
		ctx.Exec.RemoveWay(c.ID, world.KindRoad, st.Pos, st.BaseZ, commands.Apply|commands.NoPayment)
		ok = paidThenFree(func(f commands.Flags) bool {
			_, placed := ctx.Exec.PlaceRoadStation(c.ID, commands.RoadStationArgs{
				Pos: st.Pos, BaseZ: st.BaseZ, Rotation: st.Rotation,
				RoadObj: t.BaseTrackObjID(), StationObj: t.StationObjID,
			}, f)
			return placed
		})
	}
	if !ok {
		return buildFailure
	}
	st.Flags &^= company.AiStationAllocated
	st.Flags |= company.AiStationOperational
	st.ID = ctx.Exec.LastPlacedStation()
	return buildSuccess
}

// beginWayConversion resets the paced conversion counters once every
// station is real.
func (ctx *Context) beginWayConversion(c *company.Company) {
	c.Scratch.StationCursor = 0xFF
	c.Scratch.LinkFlags = 0
	c.Scratch.StepCounter = 0
	c.Scratch.PaceThreshold = c.PacingThreshold()
}

// convertNextWay promotes the thought's speculative track or road one
// tile per paced call. Aggressive companies convert nearly every tick;
// cautious ones let many ticks pass between tiles.
func (ctx *Context) convertNextWay(c *company.Company, t *company.Thought) buildStatus {
	if t.Type.HasFlags(company.FlagAir|company.FlagWater) || t.TrackObjID == 0xFF {
		return buildAllDone
	}
	c.Scratch.StepCounter++
	if c.Scratch.StepCounter < c.Scratch.PaceThreshold {
		return buildProgress
	}
	c.Scratch.StepCounter = 0

	kind := world.KindTrack
	if t.TrackIsRoad() {
		kind = world.KindRoad
	}
	minT, maxT := thoughtBoundingBox(t)
	var found *world.TilePos
	ctx.Map.EachTileInBox(minT, maxT, func(tp world.TilePos, tile *world.Tile) {
		if found != nil {
			return
		}
		for _, el := range tile.Elements {
			if el.Kind == kind && el.Owner == c.ID && el.AiAllocated && el.ObjectID == t.BaseTrackObjID() {
				p := tp
				found = &p
				return
			}
		}
	})
	if found == nil {
		markLinksBuilt(t)
		return buildAllDone
	}
	pos := world.ToWorld(*found)
	ok := paidThenFree(func(f commands.Flags) bool {
		_, converted := ctx.Exec.ReplaceAllocatedWay(c.ID, pos, f)
		return converted
	})
	if !ok {
		return buildFailure
	}
	return buildSuccess
}

func markLinksBuilt(t *company.Thought) {
	for i := 0; i < int(t.NumStations); i++ {
		st := &t.Stations[i]
		if st.LinkA&company.LinkAllocated != 0 {
			st.LinkA |= company.LinkBuilt
		}
		if st.LinkB&company.LinkAllocated != 0 {
			st.LinkB |= company.LinkBuilt
		}
	}
}

// placeThoughtMods applies the thought's chosen track or road
// modifications across its network, paid with a free fallback. Returns
// false only when a mod cannot be applied at all.
func (ctx *Context) placeThoughtMods(c *company.Company, t *company.Thought) bool {
	if t.Mods == 0 || t.TrackObjID == 0xFF {
		return true
	}
	kind := world.KindTrack
	if t.TrackIsRoad() {
		kind = world.KindRoad
	}
	minT, maxT := thoughtBoundingBox(t)
	ok := true
	ctx.Map.EachTileInBox(minT, maxT, func(tp world.TilePos, tile *world.Tile) {
		for _, el := range tile.Elements {
			if el.Kind != kind || el.Owner != c.ID || el.ObjectID != t.BaseTrackObjID() {
				continue
			}
			if el.Mods&t.Mods == t.Mods {
				continue
			}
			pos := world.ToWorld(tp)
			placed := paidThenFree(func(f commands.Flags) bool {
				_, done := ctx.Exec.PlaceWayMods(c.ID, kind, pos, el.BaseZ, t.Mods, f)
				return done
			})
			if !placed {
				ok = false
			}
		}
	})
	return ok
}
