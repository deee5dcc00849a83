package ai

import (
	"log/slog"

	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/world"
)

// Review cadence: visits to the select state between full thought
// reviews.
const reviewInterval = 672

// Grace period before an unestablished company is folded, in days.
const startupGraceDays = 42

type stateFunc func(*Context, *company.Company)

// stateHandlers dispatches on the macro state. Unused slots keep the
// historical numbering stable for saves.
var stateHandlers = [11]stateFunc{
	stateSelect,
	stateReview,
	stateCreate,
	stateSpeculate,
	stateCommit,
	stateNop,
	stateAbandon,
	stateRetire,
	stateReequip,
	stateNop,
	stateShutdown,
}

// stepCompany runs exactly one sub-step of the company's planner.
func stepCompany(ctx *Context, c *company.Company) {
	stateHandlers[c.State](ctx, c)
}

func stateNop(*Context, *company.Company) {}

// stateSelect is the idle gate: most visits roll straight into planning
// a new thought; every reviewInterval-th visit audits the portfolio
// instead. A bankrupt shell with nothing left on the map folds.
func stateSelect(ctx *Context, c *company.Company) {
	c.IdleCounter++
	if c.IdleCounter < reviewInterval {
		c.SetState(company.StateCreate)
		return
	}
	if c.Bankrupt() && !c.HasThoughts() && ctx.Map.Stations.OwnedCount(c.ID) == 0 {
		c.Scratch.SweepPos = world.Pos2{}
		c.SetState(company.StateShutdown)
		return
	}
	c.IdleCounter = 0
	c.ActiveThought = company.NullThoughtID
	ctx.removeUnusedPortsAndAirports(c)
	c.SetState(company.StateReview)
}

// stateReview walks the thought slots looking for routes that need
// retiring or a fleet renewal. With nothing to do, an established (or
// young) company goes back to planning; a company that never opened a
// route within its grace period folds.
func stateReview(ctx *Context, c *company.Company) {
	slot := c.ActiveThought
	for {
		slot++
		if slot >= company.MaxThoughts {
			break
		}
		t := &c.Thoughts[slot]
		if t.Type == company.NullThoughtType {
			continue
		}
		if t.MonthsOperating < 0xFF {
			t.MonthsOperating++
		}
		c.ActiveThought = slot
		if thoughtShouldRetire(c, t) {
			c.SetState(company.StateRetire)
			return
		}
		if ctx.thoughtNeedsReequip(c, t) {
			c.SetState(company.StateReequip)
			return
		}
	}
	c.ActiveThought = company.NullThoughtID
	if c.Flags&company.StatusEstablished != 0 || c.AgeDays(ctx.Day) <= startupGraceDays {
		c.SetState(company.StateCreate)
		return
	}
	ctx.foldCompany(c)
}

// removeUnusedPortsAndAirports drops owned stations that no thought
// references and that have no ground way under them (airports and
// docks; rail and road stations keep their track).
func (ctx *Context) removeUnusedPortsAndAirports(c *company.Company) {
	for _, st := range ctx.Map.Stations.Owned(c.ID) {
		referenced := false
		for i := range c.Thoughts {
			t := &c.Thoughts[i]
			if t.Type == company.NullThoughtType {
				continue
			}
			for j := 0; j < int(t.NumStations); j++ {
				if t.Stations[j].ID == st.ID {
					referenced = true
				}
			}
		}
		if referenced {
			continue
		}
		tile := ctx.Map.TileAt(st.Pos)
		if tile == nil {
			continue
		}
		grounded := false
		for _, el := range tile.Elements {
			if el.Kind == world.KindTrack || el.Kind == world.KindRoad {
				grounded = true
			}
		}
		if !grounded {
			ctx.Exec.RemoveStationByID(c.ID, st.ID, commands.Apply)
		}
	}
}

// clearActiveThought frees the active slot.
func clearActiveThought(c *company.Company) {
	if t := c.ActiveThoughtRef(); t != nil {
		t.Clear()
	}
	c.ActiveThought = company.NullThoughtID
}

// stateCreate builds a new thought across fourteen sub-steps: generate,
// validate, choose infrastructure and fleet, accumulate the estimate,
// then approve or discard.
func stateCreate(ctx *Context, c *company.Company) {
	t := c.ActiveThoughtRef()
	switch c.SubStep {
	case 0:
		slot := ctx.tryCreateThought(c)
		if slot == company.NullThoughtID {
			c.SubStep = 13
			return
		}
		c.ActiveThought = slot
		c.SubStep = 1
	case 1:
		if t == nil || !ctx.checkCompetition(c, t) {
			clearActiveThought(c)
			c.SubStep = 13
			return
		}
		c.SubStep = 2
	case 2:
		if !playstyleAllows(c, t) || !ctx.checkGeography(c, t) {
			clearActiveThought(c)
			c.SubStep = 13
			return
		}
		c.SubStep = 3
	case 3:
		if !ctx.planStations(c, t) {
			clearActiveThought(c)
			c.SubStep = 13
			return
		}
		c.SubStep = 4
	case 4:
		if !ctx.chooseTrack(c, t) {
			clearActiveThought(c)
			c.SubStep = 13
			return
		}
		c.SubStep = 5
	case 5:
		if !ctx.planVehicles(c, t) {
			clearActiveThought(c)
			c.SubStep = 13
			return
		}
		c.SubStep = 6
	case 6:
		if !ctx.chooseStationsAndMods(c, t) {
			clearActiveThought(c)
			c.SubStep = 13
			return
		}
		c.SubStep = 7
	case 7:
		t.EstimatedCost += ctx.estimateStationCost(t)
		c.SubStep = 8
	case 8:
		t.EstimatedCost += ctx.estimateTrackCost(t)
		c.SubStep = 9
	case 9:
		// One station's clearage per call.
		if c.Scratch.StationCursor == 0xFF {
			c.Scratch.StationCursor = 0
		}
		t.EstimatedCost += ctx.estimateStationClearageCost(t, int(c.Scratch.StationCursor))
		c.Scratch.StationCursor++
		if c.Scratch.StationCursor >= t.NumStations {
			c.Scratch.StationCursor = 0xFF
			c.SubStep = 10
		}
	case 10:
		c.RevenueEstimate = ctx.estimateThoughtRevenue(t)
		c.SubStep = 11
	case 11:
		c.Scratch.ClearageCost = 0
		c.SubStep = 12
	case 12:
		if !ctx.approvePlan(c, t) {
			clearActiveThought(c)
			c.SubStep = 13
			return
		}
		// Speculation re-accumulates real costs from zero.
		t.EstimatedCost = 0
		c.PlacementAttempts = 0
		ctx.chooseBridges(c)
		c.Scratch.StationCursor = 0xFF
		c.SetState(company.StateSpeculate)
	default:
		c.SetState(company.StateSelect)
	}
}

// abandonPlan transitions into the unwind path at the given sub-step.
func abandonPlan(c *company.Company, subStep uint8) {
	c.Scratch.SweepPos = world.Pos2{}
	c.Scratch.RemovalSteps = 0
	c.SetState(company.StateAbandon)
	c.SubStep = subStep
}

// stateSpeculate trial-builds the plan with free allocated assets: place
// stations, route track, spread signals, sanity-check the result, total
// the real costs and decide whether to commit.
func stateSpeculate(ctx *Context, c *company.Company) {
	t := c.ActiveThoughtRef()
	if t == nil || t.Type == company.NullThoughtType {
		c.SetState(company.StateSelect)
		return
	}
	if c.Flags&company.StatusAbandonRequested != 0 {
		abandonPlan(c, 2)
		return
	}
	switch c.SubStep {
	case 0:
		switch ctx.placeSpeculativeStation(c, t) {
		case buildAllDone:
			c.Scratch.StationCursor = 0xFF
			c.Scratch.LinkFlags = 0
			c.SubStep = 1
		case buildFailure:
			// Placement budget exhausted; nothing real exists yet, so
			// skip straight to the allocated sweep.
			abandonPlan(c, 2)
		}
	case 1:
		switch ctx.buildSpeculativeLinks(c, t) {
		case buildAllDone:
			c.SubStep = 2
		case buildFailure:
			abandonPlan(c, 2)
		}
	case 2:
		ctx.placeSpeculativeSignals(c, t)
		c.SubStep = 3
	case 3:
		if !ctx.routeViable(c, t) {
			abandonPlan(c, 2)
			return
		}
		c.SubStep = 4
	case 4:
		t.EstimatedCost += ctx.estimateStationCost(t) + c.Scratch.ClearageCost
		c.Scratch.ClearageCost = 0
		c.SubStep = 5
	default:
		if !ctx.approveConversion(c, t) {
			abandonPlan(c, 2)
			return
		}
		c.Flags |= company.StatusRouteCommitted
		if c.Flags&company.StatusEstablished == 0 {
			c.Flags |= company.StatusEstablished
			ctx.Log.Info("new transport company opening its first route",
				slog.String("company", c.Name))
		}
		c.SetState(company.StateCommit)
	}
}

// stateCommit converts allocated assets to paid ones and buys the fleet.
func stateCommit(ctx *Context, c *company.Company) {
	t := c.ActiveThoughtRef()
	if t == nil || t.Type == company.NullThoughtType {
		c.SetState(company.StateSelect)
		return
	}
	switch c.SubStep {
	case 0:
		switch ctx.convertNextStation(c, t) {
		case buildAllDone:
			ctx.beginWayConversion(c)
			c.SubStep = 1
		case buildFailure:
			abandonPlan(c, 0)
		}
	case 1:
		switch ctx.convertNextWay(c, t) {
		case buildAllDone:
			ctx.placeThoughtMods(c, t)
			c.SubStep = 2
		case buildFailure:
			abandonPlan(c, 0)
		}
	case 2:
		switch ctx.purchaseNextVehicle(c, t) {
		case buildAllDone:
			c.SubStep = 3
		case buildFailure:
			abandonPlan(c, 0)
		}
	default:
		finalizeThought(t)
		ctx.Log.Info("route in service",
			slog.String("company", c.Name),
			slog.Int("stations", int(t.NumStations)),
			slog.Int("vehicles", int(t.NumVehicles)))
		c.SetState(company.StateSelect)
	}
}

// stateAbandon unwinds the active thought: fleet out, real way pieces
// out, allocated assets swept, stations removed, slot cleared.
func stateAbandon(ctx *Context, c *company.Company) {
	t := c.ActiveThoughtRef()
	if t == nil || t.Type == company.NullThoughtType {
		c.SetState(company.StateSelect)
		return
	}
	switch c.SubStep {
	case 0:
		if ctx.sellNextVehicle(c, t) {
			c.SubStep = 1
		}
	case 1:
		if ctx.removeThoughtWays(c, t) {
			c.SubStep = 2
		}
	case 2:
		if ctx.sweepRemoveAllocated(c) {
			for i := 0; i < int(t.NumStations); i++ {
				t.Stations[i].LinkA &^= company.LinkPlanned | company.LinkPending
				t.Stations[i].LinkB &^= company.LinkPlanned | company.LinkPending
			}
			c.SubStep = 3
		}
	case 3:
		if ctx.removeNextAllocatedStation(c, t) {
			c.SubStep = 4
		}
	default:
		clearActiveThought(c)
		c.SetState(company.StateSelect)
	}
}

// stateRetire dismantles an unprofitable operating route, then resumes
// the review walk.
func stateRetire(ctx *Context, c *company.Company) {
	t := c.ActiveThoughtRef()
	if t == nil || t.Type == company.NullThoughtType {
		c.SetState(company.StateReview)
		return
	}
	switch c.SubStep {
	case 0:
		if ctx.sellNextVehicle(c, t) {
			c.Scratch.RemovalSteps = 0
			c.SubStep = 1
		}
	case 1:
		if ctx.removeThoughtWays(c, t) {
			ctx.removeThoughtStations(c, t)
			c.SubStep = 2
		}
	default:
		ctx.Log.Info("unprofitable route retired",
			slog.String("company", c.Name),
			slog.Int64("receipts", t.GrossReceipts),
			slog.Int64("runningCost", t.RunningCost))
		// Clear only the slot. ActiveThought stays put so the review walk
		// resumes after the retired route instead of re-aging the earlier
		// ones.
		t.Clear()
		c.SetState(company.StateReview)
	}
}

// removeThoughtStations demolishes the thought's operational stations
// unless another thought still uses them.
func (ctx *Context) removeThoughtStations(c *company.Company, t *company.Thought) {
	for i := 0; i < int(t.NumStations); i++ {
		st := &t.Stations[i]
		if !st.HasFlags(company.AiStationOperational) || st.ID == world.NullStationID {
			continue
		}
		shared := false
		for j := range c.Thoughts {
			other := &c.Thoughts[j]
			if other == t || other.Type == company.NullThoughtType {
				continue
			}
			for k := 0; k < int(other.NumStations); k++ {
				if other.Stations[k].ID == st.ID {
					shared = true
				}
			}
		}
		if !shared {
			ctx.Exec.RemoveStationByID(c.ID, st.ID, commands.Apply)
		}
	}
}

// stateReequip renews an operating route's fleet.
func stateReequip(ctx *Context, c *company.Company) {
	t := c.ActiveThoughtRef()
	if t == nil || t.Type == company.NullThoughtType {
		c.SetState(company.StateReview)
		return
	}
	switch c.SubStep {
	case 0:
		ctx.computeReequipCost(c, t)
		c.SubStep = 1
	case 1:
		c.SubStep = 2
	case 2:
		ctx.placeThoughtMods(c, t)
		if c.Bankrupt() {
			c.SetState(company.StateReview)
			return
		}
		c.SubStep = 3
	case 3:
		if t.PurchaseFlags&company.PurchaseReplaceFleet == 0 || ctx.sellNextVehicle(c, t) {
			c.SubStep = 4
		}
	case 4:
		switch ctx.purchaseNextVehicle(c, t) {
		case buildAllDone:
			c.SubStep = 5
		case buildFailure:
			c.SetState(company.StateRetire)
		}
	default:
		finalizeThought(t)
		c.SetState(company.StateReview)
	}
}

// stateShutdown liquidates the whole company: fleets sold, every owned
// element swept off the map in bounded chunks, then the company entity
// goes away.
func stateShutdown(ctx *Context, c *company.Company) {
	for i := range c.Thoughts {
		t := &c.Thoughts[i]
		if t.Type == company.NullThoughtType || t.NumVehicles == 0 {
			continue
		}
		ctx.sellNextVehicle(c, t)
		return
	}
	if !ctx.sweepRemoveEverything(c) {
		return
	}
	ctx.foldCompany(c)
}

// foldCompany removes the company from play.
func (ctx *Context) foldCompany(c *company.Company) {
	ctx.Log.Info("company folded", slog.String("company", c.Name))
	ctx.Companies.Remove(c.ID)
}
