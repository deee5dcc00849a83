package ai

import (
	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/world"
)

type pathStatus int

const (
	pathProgress pathStatus = iota
	pathDone
	pathFailed
)

// Way pieces laid per planning step while routing a link.
const piecesPerStep = 10

// maxBridgeHeight returns how high the company is currently willing to
// bridge, in small-z steps. The allowance opens up as placement attempts
// accumulate: cheap flat routes first, engineering heroics only when the
// easy options are exhausted.
func maxBridgeHeight(c *company.Company) uint8 {
	switch {
	case c.PlacementAttempts < 100:
		return 0
	case c.PlacementAttempts < 200:
		return 4
	default:
		return 8
	}
}

// bridgeClassHeights is the clearance ceiling of each pre-chosen bridge
// slot, in small-z steps.
var bridgeClassHeights = [3]uint8{4, 8, 16}

// chooseBridges pre-selects the cheapest bridge object per clearance
// class before speculation starts. Routing reads the slots instead of
// re-scanning the catalog for every piece.
func (ctx *Context) chooseBridges(c *company.Company) {
	for i, h := range bridgeClassHeights {
		c.BridgeChoices[i] = ctx.cheapestBridge(h)
	}
}

// cheapestBridge finds the cheapest bridge object spanning the height.
func (ctx *Context) cheapestBridge(height uint8) uint8 {
	best := -1
	for i, obj := range ctx.Catalog.Bridges {
		if obj.MaxHeight < height {
			continue
		}
		if best < 0 || obj.CostFactor < ctx.Catalog.Bridges[best].CostFactor {
			best = i
		}
	}
	if best < 0 {
		return 0xFF
	}
	return uint8(best)
}

// selectBridge returns the pre-chosen bridge object for the smallest
// clearance class covering the span, or 0xFF when none does.
func selectBridge(c *company.Company, span uint8) uint8 {
	for i, h := range bridgeClassHeights {
		if span <= h && c.BridgeChoices[i] != 0xFF {
			return c.BridgeChoices[i]
		}
	}
	return 0xFF
}

// startPath aims the scratch cursor from one station link end at the
// other.
func startPath(c *company.Company, from, to *company.AiStation) {
	c.Scratch.CursorPos = from.Pos
	c.Scratch.CursorBaseZ = from.BaseZ
	c.Scratch.CursorRot = from.Rotation
	c.Scratch.TargetPos = to.Pos
	c.Scratch.TargetBaseZ = to.BaseZ
	c.Scratch.TargetRot = to.Rotation
}

// advancePath lays a bounded run of speculative way pieces from the
// cursor toward the target, greedily along the dominant axis with bridges
// over water and height gaps. Resumable: the cursor persists on the
// company.
func (ctx *Context) advancePath(c *company.Company, t *company.Thought) pathStatus {
	for i := 0; i < piecesPerStep; i++ {
		cur := world.ToTile(c.Scratch.CursorPos)
		tgt := world.ToTile(c.Scratch.TargetPos)
		if cur == tgt {
			return pathDone
		}

		// Dominant axis first, the other axis as fallback.
		dirs := pathDirections(cur, tgt)
		placed := false
		for _, rot := range dirs {
			next := c.Scratch.CursorPos.Add(world.RotationOffset[rot])
			if !ctx.Map.ValidCoords(next) {
				continue
			}
			if ctx.placePathPiece(c, t, next, rot) {
				c.Scratch.CursorPos = next
				c.Scratch.CursorRot = rot
				if surface := ctx.Map.SurfaceAt(next); surface != nil && !surface.IsWater() {
					c.Scratch.CursorBaseZ = surface.BaseZ
				}
				placed = true
				break
			}
		}
		if !placed {
			return pathFailed
		}
	}
	return pathProgress
}

// pathDirections orders candidate rotations by how much they close the
// gap to the target.
func pathDirections(cur, tgt world.TilePos) []uint8 {
	var primary, secondary uint8
	dx := tgt.X - cur.X
	dy := tgt.Y - cur.Y
	if dx >= 0 {
		primary = 0
	} else {
		primary = 2
	}
	if dy >= 0 {
		secondary = 1
	} else {
		secondary = 3
	}
	if abs32(dy) > abs32(dx) {
		primary, secondary = secondary, primary
	}
	if dx == 0 {
		return []uint8{secondary}
	}
	if dy == 0 {
		return []uint8{primary}
	}
	return []uint8{primary, secondary}
}

// placePathPiece places one speculative track or road piece at the tile,
// bridging when the surface demands it and the attempt budget allows.
func (ctx *Context) placePathPiece(c *company.Company, t *company.Thought, pos world.Pos2, rot uint8) bool {
	surface := ctx.Map.SurfaceAt(pos)
	if surface == nil {
		return false
	}
	bridge := uint8(0xFF)
	baseZ := surface.BaseZ
	if surface.IsWater() {
		span := surface.Water - surface.BaseZ
		if span > maxBridgeHeight(c) {
			return false
		}
		bridge = selectBridge(c, span)
		if bridge == 0xFF {
			return false
		}
		baseZ = surface.Water
	} else if surface.BaseZ > c.Scratch.CursorBaseZ {
		climb := surface.BaseZ - c.Scratch.CursorBaseZ
		if climb > maxBridgeHeight(c)+world.SmallZStep {
			return false
		}
	}

	// Reuse a compatible piece already on the tile instead of stacking a
	// second one.
	if tile := ctx.Map.Tile(world.ToTile(pos)); tile != nil {
		for _, el := range tile.Elements {
			if el.Owner != c.ID || el.BaseZ != baseZ {
				continue
			}
			if t.TrackIsRoad() && el.Kind == world.KindRoad && el.ObjectID == t.BaseTrackObjID() {
				return true
			}
			if !t.TrackIsRoad() && el.Kind == world.KindTrack && el.ObjectID == t.BaseTrackObjID() {
				return true
			}
		}
	}

	flags := commands.Apply | commands.AiAllocated | commands.NoPayment
	var ok bool
	if t.TrackIsRoad() {
		_, ok = ctx.Exec.PlaceRoad(c.ID, commands.RoadPlacementArgs{
			Pos: pos, BaseZ: baseZ, Rotation: rot,
			RoadObj: t.BaseTrackObjID(), Bridge: bridge,
		}, flags)
	} else {
		_, ok = ctx.Exec.PlaceTrack(c.ID, commands.TrackPlacementArgs{
			Pos: pos, BaseZ: baseZ, Rotation: rot,
			TrackObj: t.BaseTrackObjID(), Bridge: bridge,
		}, flags)
	}
	return ok
}
