// Package ai drives competitor companies: a resumable two-level state
// machine that plans transport routes, trial-builds them with free
// speculative assets, promotes the good ones into paid infrastructure and
// fleets, and dismantles the failures.
package ai

import (
	"log/slog"

	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/gamerand"
	"github.com/talgya/tycoon-world/internal/world"
)

// Context carries everything a planning step may touch. One Context is
// shared by all companies; per-company state lives on the Company.
type Context struct {
	Map       *world.Map
	Catalog   *catalog.Catalog
	Economy   *catalog.Economy
	Exec      *commands.Executor
	Companies *company.Manager
	Rand      *gamerand.Stream
	Log       *slog.Logger

	Day  uint32
	Year uint16
}

// Think runs one bounded planning step for a company. Long operations
// (map sweeps, track laying, fleet purchases) advance one unit of work
// per call; everything needed to resume lives on the company.
func (ctx *Context) Think(c *company.Company) {
	if c.IsPlayer {
		return
	}
	stepCompany(ctx, c)

	// The step may have folded the company.
	if ctx.Companies.Get(c.ID) == nil {
		return
	}
	ctx.placeHeadquarters(c)
}

// placeHeadquarters builds the company building near its first route once
// the company has proven itself.
func (ctx *Context) placeHeadquarters(c *company.Company) {
	if c.HasHeadquarters || c.Bankrupt() || c.Flags&company.StatusEstablished == 0 {
		return
	}
	slot := c.HighestThoughtSlot()
	if slot == company.NullThoughtID {
		return
	}
	t := &c.Thoughts[slot]
	anchor, ok := ctx.destinationPos(t, false)
	if !ok {
		return
	}

	rand := ctx.Rand.Next()
	pos := world.Pos2{
		X: anchor.X + int32(rand&0x3E0) - 16*world.TileSize,
		Y: anchor.Y + int32(gamerand.Rotr(rand, 5)&0x3E0) - 16*world.TileSize,
	}
	surface := ctx.Map.SurfaceAt(pos)
	if surface == nil || surface.IsWater() {
		return
	}
	baseZ := surface.BaseZ
	if surface.Slope != 0 {
		baseZ += world.SmallZStep
	}
	rotation := uint8(gamerand.Rotr(rand, 10) & 3)

	cost, ok := ctx.Exec.PlaceHeadquarters(c.ID, commands.HeadquarterArgs{
		Pos:      pos,
		BaseZ:    baseZ,
		Rotation: rotation,
	}, commands.Apply)
	if !ok {
		return
	}
	c.HasHeadquarters = true
	c.HeadquartersPos = world.Pos3{X: pos.X, Y: pos.Y, Z: int32(baseZ) * world.SmallZStep}
	ctx.Log.Info("company built headquarters",
		slog.String("company", c.Name),
		slog.Int64("cost", cost))
}

// destinationPos resolves a thought destination to a world position
// according to the archetype's industry flags. useB selects the second
// destination.
func (ctx *Context) destinationPos(t *company.Thought, useB bool) (world.Pos2, bool) {
	dest := t.DestinationA
	isIndustry := t.Type.HasFlags(company.FlagDestAIsIndustry)
	if useB {
		dest = t.DestinationB
		isIndustry = t.Type.HasFlags(company.FlagDestBIsIndustry)
	}
	if isIndustry {
		ind := ctx.Map.Industry(world.IndustryID(dest))
		if ind == nil {
			return world.Pos2{}, false
		}
		return ind.Pos, true
	}
	town := ctx.Map.Town(world.TownID(dest))
	if town == nil {
		return world.Pos2{}, false
	}
	return town.Pos, true
}
