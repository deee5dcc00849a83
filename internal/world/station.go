package world

// Station is a committed, operational station. Speculative AI placements
// do not appear here until promoted.
type Station struct {
	ID    StationID
	Owner CompanyID
	Pos   Pos2
	BaseZ uint8
}

// StationTable holds the world's stations. Capacity is fixed: the AI
// refuses to commit a plan when fewer than eight slots remain free.
type StationTable struct {
	capacity int
	nextID   StationID
	stations map[StationID]*Station
}

// NewStationTable creates an empty table with the given slot capacity.
func NewStationTable(capacity int) *StationTable {
	return &StationTable{
		capacity: capacity,
		stations: make(map[StationID]*Station),
	}
}

// Add registers a new station and returns its id, or NullStationID when
// the table is full.
func (st *StationTable) Add(owner CompanyID, pos Pos2, baseZ uint8) StationID {
	if len(st.stations) >= st.capacity {
		return NullStationID
	}
	id := st.nextID
	st.nextID++
	st.stations[id] = &Station{ID: id, Owner: owner, Pos: pos, BaseZ: baseZ}
	return id
}

// Owned returns the company's stations in ascending id order.
func (st *StationTable) Owned(owner CompanyID) []*Station {
	var out []*Station
	for id := StationID(0); id < st.nextID; id++ {
		if s := st.stations[id]; s != nil && s.Owner == owner {
			out = append(out, s)
		}
	}
	return out
}

// All returns every station in ascending id order.
func (st *StationTable) All() []*Station {
	var out []*Station
	for id := StationID(0); id < st.nextID; id++ {
		if s := st.stations[id]; s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Restore re-registers a station under its original id, advancing the id
// counter past it so later Adds never collide.
func (st *StationTable) Restore(s *Station) {
	st.stations[s.ID] = s
	if s.ID >= st.nextID {
		st.nextID = s.ID + 1
	}
}

// Remove deletes a station by id.
func (st *StationTable) Remove(id StationID) {
	delete(st.stations, id)
}

// Get returns the station with the given id, or nil.
func (st *StationTable) Get(id StationID) *Station {
	return st.stations[id]
}

// Count returns the number of stations in use.
func (st *StationTable) Count() int { return len(st.stations) }

// FreeSlots returns the remaining station capacity.
func (st *StationTable) FreeSlots() int { return st.capacity - len(st.stations) }

// OwnedCount returns how many stations a company owns.
func (st *StationTable) OwnedCount(owner CompanyID) int {
	n := 0
	for _, s := range st.stations {
		if s.Owner == owner {
			n++
		}
	}
	return n
}
