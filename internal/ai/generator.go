package ai

import (
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/gamerand"
	"github.com/talgya/tycoon-world/internal/world"
)

// Attempts per planning step at generating a viable thought before the
// company gives up for this round.
const maxGenerationAttempts = 20

// archetypeTuning holds the per-archetype candidate filters: the minimum
// town size worth serving and the destination spacing window in tiles
// (maxDistTiles 0 = unbounded). Values are game balance.
type archetypeTuning struct {
	minTownCapacity int32
	minDistTiles    int32
	maxDistTiles    int32
}

var archetypeTunings = [company.ThoughtTypeCount]archetypeTuning{
	{minTownCapacity: 1200},
	{minTownCapacity: 600},
	{minTownCapacity: 800},
	{minTownCapacity: 450, minDistTiles: 40, maxDistTiles: 220},
	{minTownCapacity: 750, minDistTiles: 60, maxDistTiles: 250},
	{minTownCapacity: 450},
	{minTownCapacity: 750, minDistTiles: 20, maxDistTiles: 80},
	{minDistTiles: 40, maxDistTiles: 220},
	{minDistTiles: 60, maxDistTiles: 250},
	{minDistTiles: 40, maxDistTiles: 220},
	{minDistTiles: 60, maxDistTiles: 250},
	{minDistTiles: 15, maxDistTiles: 80},
	{minDistTiles: 15, maxDistTiles: 80},
	{minTownCapacity: 2200, minDistTiles: 120},
	{minDistTiles: 120},
	{minTownCapacity: 600, minDistTiles: 60, maxDistTiles: 250},
	{minDistTiles: 60, maxDistTiles: 250},
	{minTownCapacity: 600, minDistTiles: 60, maxDistTiles: 250},
	{minTownCapacity: 600, minDistTiles: 40, maxDistTiles: 220},
	{minTownCapacity: 600, minDistTiles: 40, maxDistTiles: 220},
}

// Industry output worth planning around: either a month of real
// production or a healthy daily rate.
const (
	minMonthlyProduction = 150
	minDailyProduction   = 8
)

// tryCreateThought makes up to maxGenerationAttempts attempts at
// generating and validating a new thought. On success the thought is
// stored and its slot returned; on exhaustion NullThoughtID.
func (ctx *Context) tryCreateThought(c *company.Company) uint8 {
	slot := c.FreeThoughtSlot()
	if slot == company.NullThoughtID {
		return company.NullThoughtID
	}
	for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
		t := &c.Thoughts[slot]
		t.Clear()
		if !ctx.generateThought(c, t) {
			t.Clear()
			continue
		}
		if !ctx.validateThought(c, t) {
			t.Clear()
			continue
		}
		return slot
	}
	return company.NullThoughtID
}

// generateThought fills in archetype, destinations and cargo. Returns
// false when no viable candidates exist for the drawn archetype.
func (ctx *Context) generateThought(c *company.Company, t *company.Thought) bool {
	rand := ctx.Rand.Next()
	// Strong bias towards repeating the previous archetype: a company
	// that found one workable niche keeps mining it.
	if rand&0x1F != 0 && c.RepeatArchetype != 0xFF {
		t.Type = company.ThoughtType(c.RepeatArchetype)
	} else {
		t.Type = company.ThoughtType(gamerand.ScaledPick(gamerand.Rotr(rand, 5), 0x1F, company.ThoughtTypeCount))
	}
	c.RepeatArchetype = uint8(t.Type)

	tuning := &archetypeTunings[t.Type]

	// Destination A.
	if t.Type.HasFlags(company.FlagDestAIsIndustry) {
		ind := ctx.pickProducingIndustry(t)
		if ind == nil {
			return false
		}
		t.DestinationA = uint16(ind.ID)
		if !ctx.pickIndustryCargo(t, ind) {
			return false
		}
	} else {
		town := ctx.pickTargetTown(tuning.minTownCapacity)
		if town == nil {
			return false
		}
		t.DestinationA = uint16(town.ID)
		t.Cargo = world.CargoType(0) // passengers
	}

	if t.Type.HasFlags(company.FlagSingleDestination) {
		t.DestinationB = t.DestinationA
		return ctx.checkWaterAccess(t)
	}

	// Destination B within the archetype's spacing window.
	posA, ok := ctx.destinationPos(t, false)
	if !ok {
		return false
	}
	if t.Type.HasFlags(company.FlagDestBIsIndustry) {
		ind := ctx.pickReceivingIndustry(t, posA, tuning)
		if ind == nil {
			return false
		}
		t.DestinationB = uint16(ind.ID)
	} else {
		town := ctx.pickTownNear(t, posA, tuning)
		if town == nil {
			return false
		}
		t.DestinationB = uint16(town.ID)
	}
	return ctx.checkWaterAccess(t)
}

// pickTargetTown draws one town at least as big as the capacity floor.
func (ctx *Context) pickTargetTown(minCapacity int32) *world.Town {
	var candidates []*world.Town
	for _, town := range ctx.Map.Towns {
		if town.PopulationCapacity >= minCapacity {
			candidates = append(candidates, town)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	rand := ctx.Rand.Next()
	pick := gamerand.ScaledPick(rand, 0x7F, len(candidates))
	return candidates[pick]
}

// pickTownNear draws a second town inside the spacing window from posA.
func (ctx *Context) pickTownNear(t *company.Thought, posA world.Pos2, tuning *archetypeTuning) *world.Town {
	var candidates []*world.Town
	for _, town := range ctx.Map.Towns {
		if uint16(town.ID) == t.DestinationA && !t.Type.HasFlags(company.FlagDestAIsIndustry) {
			continue
		}
		if town.PopulationCapacity < tuning.minTownCapacity {
			continue
		}
		if !inDistanceWindow(posA, town.Pos, tuning) {
			continue
		}
		candidates = append(candidates, town)
	}
	if len(candidates) == 0 {
		return nil
	}
	rand := ctx.Rand.Next()
	pick := gamerand.ScaledPick(rand, 0x7F, len(candidates))
	return candidates[pick]
}

// pickProducingIndustry draws an industry with enough output to be worth
// serving.
func (ctx *Context) pickProducingIndustry(t *company.Thought) *world.Industry {
	water := t.Type.HasFlags(company.FlagWater)
	var candidates []*world.Industry
	for _, ind := range ctx.Map.Industries {
		if ind.BuiltOnWater && !water {
			continue
		}
		if !industryProduces(ind) {
			continue
		}
		candidates = append(candidates, ind)
	}
	if len(candidates) == 0 {
		return nil
	}
	rand := ctx.Rand.Next()
	pick := gamerand.ScaledPick(rand, 0xFF, len(candidates))
	return candidates[pick]
}

// pickReceivingIndustry draws an industry inside the spacing window that
// accepts the thought's cargo.
func (ctx *Context) pickReceivingIndustry(t *company.Thought, posA world.Pos2, tuning *archetypeTuning) *world.Industry {
	var candidates []*world.Industry
	for _, ind := range ctx.Map.Industries {
		if uint16(ind.ID) == t.DestinationA && t.Type.HasFlags(company.FlagDestAIsIndustry) {
			continue
		}
		if ind.ReceivedCargo&(1<<t.Cargo) == 0 {
			continue
		}
		if !inDistanceWindow(posA, ind.Pos, tuning) {
			continue
		}
		candidates = append(candidates, ind)
	}
	if len(candidates) == 0 {
		return nil
	}
	rand := ctx.Rand.Next()
	pick := gamerand.ScaledPick(rand, 0xFF, len(candidates))
	return candidates[pick]
}

// pickIndustryCargo draws one of the industry's produced cargo types.
func (ctx *Context) pickIndustryCargo(t *company.Thought, ind *world.Industry) bool {
	var produced []world.CargoType
	for i, cargo := range ind.ProducedCargo {
		if cargo == world.NullCargoType {
			continue
		}
		if ind.ProducedLastMonth[i] < minMonthlyProduction && ind.DailyProduction[i] < minDailyProduction {
			continue
		}
		produced = append(produced, cargo)
	}
	if len(produced) == 0 {
		return false
	}
	rand := ctx.Rand.Next()
	pick := gamerand.ScaledPick(rand, 0x1F, len(produced))
	t.Cargo = produced[pick]
	return true
}

func industryProduces(ind *world.Industry) bool {
	for i, cargo := range ind.ProducedCargo {
		if cargo == world.NullCargoType {
			continue
		}
		if ind.ProducedLastMonth[i] >= minMonthlyProduction || ind.DailyProduction[i] >= minDailyProduction {
			return true
		}
	}
	return false
}

func inDistanceWindow(a, b world.Pos2, tuning *archetypeTuning) bool {
	dist := world.Distance2D(a, b)
	if dist < tuning.minDistTiles*world.TileSize {
		return false
	}
	if tuning.maxDistTiles != 0 && dist > tuning.maxDistTiles*world.TileSize {
		return false
	}
	return true
}

// checkWaterAccess verifies a water archetype has enough sea room: open
// water near both destinations and at the route midpoint.
func (ctx *Context) checkWaterAccess(t *company.Thought) bool {
	if !t.Type.HasFlags(company.FlagWater) {
		return true
	}
	posA, ok := ctx.destinationPos(t, false)
	if !ok {
		return false
	}
	posB, ok := ctx.destinationPos(t, true)
	if !ok {
		return false
	}
	const minWaterTiles = 20
	if ctx.Map.CountNearbyWaterTiles(posA) < minWaterTiles {
		return false
	}
	if ctx.Map.CountNearbyWaterTiles(posB) < minWaterTiles {
		return false
	}
	mid := world.Midpoint(posA, posB)
	surface := ctx.Map.SurfaceAt(mid)
	return surface != nil && surface.IsWater()
}
