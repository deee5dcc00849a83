package world

// Industry produces up to two cargo types and accepts the cargo listed in
// ReceivedCargo. Production figures drive thought-generation thresholds.
type Industry struct {
	ID           IndustryID
	Name         string
	Pos          Pos2
	Town         TownID
	BuiltOnWater bool

	ProducedCargo      [2]CargoType
	ProducedLastMonth  [2]uint16
	DailyProduction    [2]uint8
	ReceivedCargo      uint32 // bitset of accepted cargo types
}

// Industry returns the industry with the given id, or nil.
func (m *Map) Industry(id IndustryID) *Industry {
	for _, ind := range m.Industries {
		if ind.ID == id {
			return ind
		}
	}
	return nil
}
