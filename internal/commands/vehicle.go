package commands

import (
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/world"
)

// unitCost prices one vehicle catalog entry.
func (e *Executor) unitCost(unit uint8) int64 {
	obj := &e.Catalog.Vehicles[unit]
	return e.Economy.InflationAdjustedCost(obj.CostFactor, obj.CostIndex, catalog.ShiftVehicle)
}

// CreateVehicle buys a consist from the given catalog units. Returns the
// new vehicle (nil until applied), the cost and success.
func (e *Executor) CreateVehicle(owner world.CompanyID, units []uint8, cargo world.CargoType, flags Flags) (*world.Vehicle, int64, bool) {
	if len(units) == 0 {
		return nil, 0, false
	}
	var cost int64
	for _, u := range units {
		cost += e.unitCost(u)
	}
	if !e.settle(owner, cost, flags) {
		return nil, cost, false
	}
	if flags&Apply == 0 {
		return nil, cost, true
	}
	v := e.Map.Vehicles.Add(owner, append([]uint8(nil), units...), cargo, cost)
	v.Stopped = true
	return v, cost, true
}

// SellVehicle scraps a vehicle and refunds its purchase price. A placed
// vehicle must be picked up first.
func (e *Executor) SellVehicle(owner world.CompanyID, id world.VehicleID, flags Flags) (int64, bool) {
	v := e.Map.Vehicles.Get(id)
	if v == nil || v.Owner != owner || v.Placed {
		return 0, false
	}
	refund := -v.RefundCost
	if !e.settle(owner, refund, flags) {
		return refund, false
	}
	if flags&Apply != 0 {
		e.Map.Vehicles.Remove(id)
	}
	return refund, true
}

// RefitVehicle switches a vehicle to carry a different cargo. Only
// refittable cargo types are accepted.
func (e *Executor) RefitVehicle(owner world.CompanyID, id world.VehicleID, cargo world.CargoType, flags Flags) bool {
	v := e.Map.Vehicles.Get(id)
	if v == nil || v.Owner != owner {
		return false
	}
	if int(cargo) >= len(e.Catalog.Cargo) || !e.Catalog.Cargo[cargo].Refittable {
		return false
	}
	if flags&Apply != 0 {
		v.Cargo = cargo
	}
	return true
}

// PlaceVehicle puts a vehicle on the network at a station.
func (e *Executor) PlaceVehicle(owner world.CompanyID, id world.VehicleID, flags Flags) bool {
	v := e.Map.Vehicles.Get(id)
	if v == nil || v.Owner != owner || v.Placed {
		return false
	}
	if flags&Apply != 0 {
		v.Placed = true
		v.Ghost = flags&Ghost != 0
	}
	return true
}

// PickupVehicle takes a vehicle off the network so it can be sold or
// re-placed.
func (e *Executor) PickupVehicle(owner world.CompanyID, id world.VehicleID, flags Flags) bool {
	v := e.Map.Vehicles.Get(id)
	if v == nil || v.Owner != owner {
		return false
	}
	if flags&Apply != 0 {
		v.Placed = false
		v.Ghost = false
	}
	return true
}

// StartVehicle clears the stopped flag so the vehicle runs its orders.
func (e *Executor) StartVehicle(owner world.CompanyID, id world.VehicleID, flags Flags) bool {
	v := e.Map.Vehicles.Get(id)
	if v == nil || v.Owner != owner {
		return false
	}
	if flags&Apply != 0 {
		v.Stopped = false
	}
	return true
}

// InsertOrder appends a stop to a vehicle's schedule.
func (e *Executor) InsertOrder(owner world.CompanyID, id world.VehicleID, order world.Order, flags Flags) bool {
	v := e.Map.Vehicles.Get(id)
	if v == nil || v.Owner != owner {
		return false
	}
	if flags&Apply != 0 {
		v.Orders = append(v.Orders, order)
	}
	return true
}

// SkipOrder rotates a vehicle's schedule forward by one stop, used to
// stagger departures across a fleet.
func (e *Executor) SkipOrder(owner world.CompanyID, id world.VehicleID, flags Flags) bool {
	v := e.Map.Vehicles.Get(id)
	if v == nil || v.Owner != owner || len(v.Orders) == 0 {
		return false
	}
	if flags&Apply != 0 {
		first := v.Orders[0]
		copy(v.Orders, v.Orders[1:])
		v.Orders[len(v.Orders)-1] = first
	}
	return true
}
