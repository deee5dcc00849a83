package ai

import (
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/world"
)

// purchaseNextVehicle buys exactly one consist per call, refits it to the
// thought's cargo when needed, writes its orders and puts it in service.
func (ctx *Context) purchaseNextVehicle(c *company.Company, t *company.Thought) buildStatus {
	if t.NumVehicles >= t.TargetVehicles {
		return buildAllDone
	}
	units := make([]uint8, 0, t.NumVehicleUnits)
	for i := 0; i < int(t.NumVehicleUnits); i++ {
		units = append(units, t.VehicleUnits[i])
	}

	var vehicle *world.Vehicle
	ok := paidThenFree(func(f commands.Flags) bool {
		v, _, bought := ctx.Exec.CreateVehicle(c.ID, units, t.Cargo, f)
		if bought && v != nil {
			vehicle = v
		}
		return bought
	})
	if !ok || vehicle == nil {
		return buildFailure
	}

	if ctx.Catalog.Vehicles[units[0]].CargoTypes&(1<<t.Cargo) == 0 {
		ctx.Exec.RefitVehicle(c.ID, vehicle.ID, t.Cargo, commands.Apply)
	}

	for i := 0; i < int(t.NumStations); i++ {
		st := &t.Stations[i]
		if !st.HasFlags(company.AiStationOperational) || st.ID == world.NullStationID {
			continue
		}
		order := world.Order{Station: st.ID}
		if i == 0 && t.Type.HasFlags(company.FlagLoadAtOrigin) {
			order.WaitForLoad = true
		}
		ctx.Exec.InsertOrder(c.ID, vehicle.ID, order, commands.Apply)
	}

	// Stagger departures: each later vehicle starts further along the
	// schedule. The skip is issued twice per position; fleet spacing is
	// tuned around the doubled command.
	for i := 0; i < int(t.NumVehicles); i++ {
		ctx.Exec.SkipOrder(c.ID, vehicle.ID, commands.Apply)
		ctx.Exec.SkipOrder(c.ID, vehicle.ID, commands.Apply)
	}

	ctx.Exec.PlaceVehicle(c.ID, vehicle.ID, commands.Apply)
	ctx.Exec.StartVehicle(c.ID, vehicle.ID, commands.Apply)

	t.Vehicles[t.NumVehicles] = vehicle.ID
	t.NumVehicles++
	return buildSuccess
}

// sellNextVehicle stops, recalls and sells one vehicle per call. Returns
// true once the thought owns none.
func (ctx *Context) sellNextVehicle(c *company.Company, t *company.Thought) bool {
	if t.NumVehicles == 0 {
		return true
	}
	id := t.Vehicles[0]
	if v := ctx.Map.Vehicles.Get(id); v != nil {
		v.Stopped = true
		ctx.Exec.PickupVehicle(c.ID, id, commands.Apply)
		ctx.Exec.SellVehicle(c.ID, id, commands.Apply)
	}
	t.RemoveVehicle(id)
	return t.NumVehicles == 0
}

// thoughtNeedsReequip reports whether an operating thought's fleet is
// obsolete or short, and records what the renewal requires.
func (ctx *Context) thoughtNeedsReequip(c *company.Company, t *company.Thought) bool {
	if t.NumVehicles < t.TargetVehicles {
		return true
	}
	for i := 0; i < int(t.NumVehicles); i++ {
		v := ctx.Map.Vehicles.Get(t.Vehicles[i])
		if v == nil {
			continue
		}
		for _, unit := range v.Units {
			obj := &ctx.Catalog.Vehicles[unit]
			if ctx.Year >= obj.ObsoleteYear {
				t.PurchaseFlags |= company.PurchaseReplaceFleet
				return true
			}
		}
	}
	return false
}

// computeReequipCost prices the fleet renewal: refunds from units being
// replaced, the purchase price of what's missing, and any modifications
// the new units demand.
func (ctx *Context) computeReequipCost(c *company.Company, t *company.Thought) {
	var cost int64
	remaining := int64(t.TargetVehicles)
	if t.PurchaseFlags&company.PurchaseReplaceFleet != 0 {
		for i := 0; i < int(t.NumVehicles); i++ {
			if v := ctx.Map.Vehicles.Get(t.Vehicles[i]); v != nil {
				cost -= v.RefundCost
			}
		}
	} else {
		remaining -= int64(t.NumVehicles)
	}
	var unitCost int64
	for i := 0; i < int(t.NumVehicleUnits); i++ {
		obj := &ctx.Catalog.Vehicles[t.VehicleUnits[i]]
		unitCost += ctx.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftVehicle)
	}
	cost += remaining * unitCost

	if t.PurchaseFlags&company.PurchaseRequiresMods != 0 && !t.TrackIsRoad() && t.TrackObjID != 0xFF {
		for bit, mod := range ctx.Catalog.TrackMods {
			if t.Mods&(1<<bit) != 0 {
				cost += ctx.Economy.InflationAdjustedCost(mod.CostFactor, mod.CostIndex, catalog.ShiftTrackRoad) *
					int64(t.NumStations) * int64(t.StationLength)
			}
		}
	}
	t.EstimatedCost = cost
}

// finalizeThought marks a thought as operating with fresh profitability
// accounting.
func finalizeThought(t *company.Thought) {
	t.EstimatedCost = 0
	t.GrossReceipts = 0
	t.MonthsOperating = 0
	t.PurchaseFlags &^= company.PurchaseReplaceFleet
}

// thoughtShouldRetire is the profitability review for the company's own
// operating thoughts: after a grace period, receipts must beat running
// costs by a comfortable multiple.
func thoughtShouldRetire(c *company.Company, t *company.Thought) bool {
	if c.Bankrupt() {
		return true
	}
	if t.MonthsOperating < 3 {
		return false
	}
	threshold := t.RunningCost*3 + (t.RunningCost*3)/8
	return t.GrossReceipts < threshold
}
