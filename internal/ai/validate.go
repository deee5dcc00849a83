package ai

import (
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/world"
)

// Home-town leash for the first route and network coherence radius for
// later ones, in tiles.
const (
	homeTownReachTiles = 33
	networkRadiusTiles = 60
	minCompetitiveness = 5
)

// validateThought applies playstyle, geography and competition filters to
// a freshly generated thought.
func (ctx *Context) validateThought(c *company.Company, t *company.Thought) bool {
	if !playstyleAllows(c, t) {
		return false
	}
	if !ctx.checkGeography(c, t) {
		return false
	}
	return ctx.checkCompetition(c, t)
}

// playstyleAllows checks every archetype trait against the company's
// permissions.
func playstyleAllows(c *company.Company, t *company.Thought) bool {
	checks := []struct {
		trait company.ThoughtFlags
		perm  company.PlaystyleFlags
	}{
		{company.FlagLongTrains, company.PlayLongTrainRoutes},
		{company.FlagPassengerRoad, company.PlayPassengerRoad},
		{company.FlagCargoRoad, company.PlayCargoRoad},
		{company.FlagTownTram, company.PlayTownTrams},
		{company.FlagAir, company.PlayAir},
		{company.FlagWater, company.PlayWater},
		{company.FlagLoadAtOrigin, company.PlayLoadAtOrigin},
	}
	for _, chk := range checks {
		if t.Type.HasFlags(chk.trait) && c.Playstyle&chk.perm == 0 {
			return false
		}
	}
	if c.Playstyle&company.PlayOnlyLoadAtOrigin != 0 && !t.Type.HasFlags(company.FlagLoadAtOrigin) {
		return false
	}
	return true
}

// checkGeography enforces the home-town leash on a company's first route
// and keeps later routes near the existing network.
func (ctx *Context) checkGeography(c *company.Company, t *company.Thought) bool {
	if !c.HasThoughts() {
		if c.Playstyle&company.PlayHomeTownBound == 0 {
			return true
		}
		home := ctx.Map.Town(c.HomeTown)
		if home == nil {
			return true
		}
		if ctx.destinationTouchesTown(t, false, home) {
			return true
		}
		if t.Type.HasFlags(company.FlagSingleDestination) {
			return false
		}
		return ctx.destinationTouchesTown(t, true, home)
	}

	// Later thoughts must sit near something the company already serves.
	radius := int32(networkRadiusTiles) * world.TileSize
	posA, okA := ctx.destinationPos(t, false)
	posB, okB := ctx.destinationPos(t, true)
	for i := range c.Thoughts {
		other := &c.Thoughts[i]
		if other.Type == company.NullThoughtType || other == t {
			continue
		}
		for _, useB := range []bool{false, true} {
			op, ok := ctx.destinationPos(other, useB)
			if !ok {
				continue
			}
			if okA && world.Distance2D(posA, op) <= radius {
				return true
			}
			if okB && world.Distance2D(posB, op) <= radius {
				return true
			}
		}
	}
	return false
}

// destinationTouchesTown reports whether a destination is the town itself
// or an industry within reach of it.
func (ctx *Context) destinationTouchesTown(t *company.Thought, useB bool, town *world.Town) bool {
	dest := t.DestinationA
	isIndustry := t.Type.HasFlags(company.FlagDestAIsIndustry)
	if useB {
		dest = t.DestinationB
		isIndustry = t.Type.HasFlags(company.FlagDestBIsIndustry)
	}
	if !isIndustry {
		return world.TownID(dest) == town.ID
	}
	ind := ctx.Map.Industry(world.IndustryID(dest))
	if ind == nil {
		return false
	}
	return world.ManhattanDistance(ind.Pos, town.Pos) <= homeTownReachTiles*world.TileSize
}

// thoughtsEquivalent reports whether two thoughts compete for the same
// traffic: same cargo over the same destination pair, allowing the pair
// to be swapped end for end.
func thoughtsEquivalent(a, b *company.Thought) bool {
	if a.Cargo != b.Cargo {
		return false
	}
	aAInd := a.Type.HasFlags(company.FlagDestAIsIndustry)
	aBInd := a.Type.HasFlags(company.FlagDestBIsIndustry)
	bAInd := b.Type.HasFlags(company.FlagDestAIsIndustry)
	bBInd := b.Type.HasFlags(company.FlagDestBIsIndustry)
	if a.DestinationA == b.DestinationA && a.DestinationB == b.DestinationB &&
		aAInd == bAInd && aBInd == bBInd {
		return true
	}
	return a.DestinationA == b.DestinationB && a.DestinationB == b.DestinationA &&
		aAInd == bBInd && aBInd == bAInd
}

// checkCompetition scans every company's thoughts for routes serving the
// same traffic and decides whether entering anyway is worthwhile.
func (ctx *Context) checkCompetition(c *company.Company, t *company.Thought) bool {
	total := 0
	unprofitable := 0
	for _, other := range ctx.Companies.All() {
		for i := range other.Thoughts {
			ot := &other.Thoughts[i]
			if ot.Type == company.NullThoughtType || ot == t {
				continue
			}
			if !thoughtsEquivalent(t, ot) {
				continue
			}
			// Never duplicate one of our own routes.
			if other.ID == c.ID {
				return false
			}
			total++
			if ot.Unprofitable() {
				unprofitable++
			}
		}
	}
	if total == 0 {
		return true
	}
	// Timid companies avoid contested traffic entirely.
	if c.Competitiveness < minCompetitiveness {
		return false
	}
	if total > 1 {
		return false
	}
	// A lone point-to-point road rival is not worth squeezing.
	if t.Type.HasFlags(company.FlagPassengerRoad|company.FlagCargoRoad) &&
		!t.Type.HasFlags(company.FlagCircuit) {
		return false
	}
	// Move in only on a failing incumbent.
	return total == unprofitable
}
