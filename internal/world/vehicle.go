package world

// Order is one stop in a vehicle's schedule.
type Order struct {
	Station     StationID
	WaitForLoad bool
}

// Vehicle is one owned transport unit (a whole coupled consist counts as
// one vehicle here; Units lists its catalog entries).
type Vehicle struct {
	ID      VehicleID
	Owner   CompanyID
	Units   []uint8 // vehicle catalog ids making up the consist
	Cargo   CargoType
	Orders  []Order
	Stopped bool
	Placed  bool // on the network; must be picked up before selling
	Ghost   bool

	RefundCost int64
}

// VehicleTable holds all vehicles in the world.
type VehicleTable struct {
	nextID   VehicleID
	vehicles map[VehicleID]*Vehicle
}

// NewVehicleTable creates an empty vehicle table.
func NewVehicleTable() *VehicleTable {
	return &VehicleTable{vehicles: make(map[VehicleID]*Vehicle)}
}

// Add registers a new vehicle and returns it.
func (vt *VehicleTable) Add(owner CompanyID, units []uint8, cargo CargoType, refund int64) *Vehicle {
	id := vt.nextID
	vt.nextID++
	v := &Vehicle{ID: id, Owner: owner, Units: units, Cargo: cargo, RefundCost: refund}
	vt.vehicles[id] = v
	return v
}

// All returns every vehicle in ascending id order.
func (vt *VehicleTable) All() []*Vehicle {
	var out []*Vehicle
	for id := VehicleID(0); id < vt.nextID; id++ {
		if v := vt.vehicles[id]; v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Restore re-registers a vehicle under its original id, advancing the id
// counter past it so later Adds never collide.
func (vt *VehicleTable) Restore(v *Vehicle) {
	vt.vehicles[v.ID] = v
	if v.ID >= vt.nextID {
		vt.nextID = v.ID + 1
	}
}

// Get returns the vehicle with the given id, or nil.
func (vt *VehicleTable) Get(id VehicleID) *Vehicle {
	return vt.vehicles[id]
}

// Remove deletes a vehicle.
func (vt *VehicleTable) Remove(id VehicleID) {
	delete(vt.vehicles, id)
}

// OwnedCount returns how many vehicles a company owns.
func (vt *VehicleTable) OwnedCount(owner CompanyID) int {
	n := 0
	for _, v := range vt.vehicles {
		if v.Owner == owner {
			n++
		}
	}
	return n
}
