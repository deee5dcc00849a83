package world

// Town is a population center. Population gates which thought archetypes
// may target it; PopulationCapacity gates inter-town cargo routes.
type Town struct {
	ID                 TownID
	Name               string
	Pos                Pos2
	Population         int32
	PopulationCapacity int32
}

// Town returns the town with the given id, or nil.
func (m *Map) Town(id TownID) *Town {
	for _, t := range m.Towns {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// RequiredCargoTypes scans the 11x11 tile box around the town center and
// returns the bitset of cargo types its buildings collectively want. A
// cargo counts only once at least four buildings ask for it, so a lone
// outlier building does not create a route target.
func (m *Map) RequiredCargoTypes(town *Town) uint32 {
	var scores [32]int
	center := ToTile(town.Pos)
	m.EachTileInBox(
		TilePos{X: center.X - 5, Y: center.Y - 5},
		TilePos{X: center.X + 5, Y: center.Y + 5},
		func(_ TilePos, t *Tile) {
			for _, el := range t.Elements {
				if el.Kind != KindBuilding {
					continue
				}
				for c := 0; c < 32; c++ {
					if el.RequiredCargo&(1<<c) != 0 {
						scores[c] += 8
					}
				}
			}
		})
	var mask uint32
	for c := 0; c < 32; c++ {
		if scores[c] >= 32 {
			mask |= 1 << c
		}
	}
	return mask
}
