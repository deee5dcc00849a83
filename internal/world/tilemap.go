package world

// Map is the square tile grid plus the town, industry and station tables
// that live on it.
type Map struct {
	Cols int32 // width in tiles
	Rows int32 // height in tiles

	tiles []Tile

	Towns      []*Town
	Industries []*Industry
	Stations   *StationTable
	Vehicles   *VehicleTable
}

// NewMap creates an empty map of the given tile dimensions.
func NewMap(cols, rows int32) *Map {
	return &Map{
		Cols:     cols,
		Rows:     rows,
		tiles:    make([]Tile, cols*rows),
		Stations: NewStationTable(1024),
		Vehicles: NewVehicleTable(),
	}
}

// Width returns the map width in world units.
func (m *Map) Width() int32 { return m.Cols * TileSize }

// Height returns the map height in world units.
func (m *Map) Height() int32 { return m.Rows * TileSize }

// ValidTile reports whether a tile coordinate is on the map.
func (m *Map) ValidTile(t TilePos) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < m.Cols && t.Y < m.Rows
}

// ValidCoords reports whether a world position is on the map.
func (m *Map) ValidCoords(p Pos2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width() && p.Y < m.Height()
}

// Tile returns the tile at a tile coordinate, or nil when off-map.
func (m *Map) Tile(t TilePos) *Tile {
	if !m.ValidTile(t) {
		return nil
	}
	return &m.tiles[t.Y*m.Cols+t.X]
}

// TileAt returns the tile containing a world position.
func (m *Map) TileAt(p Pos2) *Tile {
	return m.Tile(ToTile(p))
}

// SurfaceAt returns the surface of the tile containing p, or nil off-map.
func (m *Map) SurfaceAt(p Pos2) *Surface {
	t := m.TileAt(p)
	if t == nil {
		return nil
	}
	return &t.Surface
}

// InsertElement places an element on the tile containing p. Returns false
// when p is off-map.
func (m *Map) InsertElement(p Pos2, el *Element) bool {
	t := m.TileAt(p)
	if t == nil {
		return false
	}
	t.Elements = append(t.Elements, el)
	return true
}

// RemoveElement detaches an element from the tile containing p.
func (m *Map) RemoveElement(p Pos2, el *Element) bool {
	t := m.TileAt(p)
	if t == nil {
		return false
	}
	for i, e := range t.Elements {
		if e == el {
			t.Elements = append(t.Elements[:i], t.Elements[i+1:]...)
			return true
		}
	}
	return false
}

// clampTile clamps a tile coordinate onto the map.
func (m *Map) clampTile(t TilePos) TilePos {
	if t.X < 0 {
		t.X = 0
	}
	if t.Y < 0 {
		t.Y = 0
	}
	if t.X >= m.Cols {
		t.X = m.Cols - 1
	}
	if t.Y >= m.Rows {
		t.Y = m.Rows - 1
	}
	return t
}

// EachTileInBox calls fn for every tile in the clamped inclusive box.
func (m *Map) EachTileInBox(p1, p2 TilePos, fn func(TilePos, *Tile)) {
	p1 = m.clampTile(p1)
	p2 = m.clampTile(p2)
	for y := p1.Y; y <= p2.Y; y++ {
		for x := p1.X; x <= p2.X; x++ {
			tp := TilePos{X: x, Y: y}
			fn(tp, m.Tile(tp))
		}
	}
}

// CountNearbyWaterTiles counts water tiles in an 11x11 tile box around a
// position. Water-based thought archetypes require at least 20.
func (m *Map) CountNearbyWaterTiles(p Pos2) int {
	center := ToTile(p)
	count := 0
	m.EachTileInBox(
		TilePos{X: center.X - 5, Y: center.Y - 5},
		TilePos{X: center.X + 5, Y: center.Y + 5},
		func(_ TilePos, t *Tile) {
			if t.Surface.IsWater() {
				count++
			}
		})
	return count
}

// BuildingCountInBox counts building elements in the inclusive tile box.
func (m *Map) BuildingCountInBox(p1, p2 TilePos) int {
	count := 0
	m.EachTileInBox(p1, p2, func(_ TilePos, t *Tile) {
		for _, el := range t.Elements {
			if el.Kind == KindBuilding {
				count++
			}
		}
	})
	return count
}

// SurfaceBaseZRange returns the min and max surface base-z in the box.
func (m *Map) SurfaceBaseZRange(p1, p2 TilePos) (minZ, maxZ uint8) {
	minZ = 0xFF
	m.EachTileInBox(p1, p2, func(_ TilePos, t *Tile) {
		z := t.Surface.BaseZ
		if z < minZ {
			minZ = z
		}
		if z > maxZ {
			maxZ = z
		}
	})
	if minZ == 0xFF {
		minZ = 0
	}
	return minZ, maxZ
}

// CargoProducedAround returns the bitset of cargo generated within a tile
// radius of p: industry outputs plus building-generated cargo.
func (m *Map) CargoProducedAround(p Pos2, radiusTiles int32) uint32 {
	var mask uint32
	for _, ind := range m.Industries {
		if ManhattanDistance(ind.Pos, p) <= radiusTiles*TileSize {
			for _, c := range ind.ProducedCargo {
				if c != NullCargoType {
					mask |= 1 << c
				}
			}
		}
	}
	center := ToTile(p)
	m.EachTileInBox(
		TilePos{X: center.X - radiusTiles, Y: center.Y - radiusTiles},
		TilePos{X: center.X + radiusTiles, Y: center.Y + radiusTiles},
		func(_ TilePos, t *Tile) {
			for _, el := range t.Elements {
				if el.Kind == KindBuilding {
					mask |= el.ProducedCargo
				}
			}
		})
	return mask
}

// CargoAcceptedAround returns the bitset of cargo wanted within a tile
// radius of p: industry inputs plus building demand.
func (m *Map) CargoAcceptedAround(p Pos2, radiusTiles int32) uint32 {
	var mask uint32
	for _, ind := range m.Industries {
		if ManhattanDistance(ind.Pos, p) <= radiusTiles*TileSize {
			mask |= ind.ReceivedCargo
		}
	}
	center := ToTile(p)
	m.EachTileInBox(
		TilePos{X: center.X - radiusTiles, Y: center.Y - radiusTiles},
		TilePos{X: center.X + radiusTiles, Y: center.Y + radiusTiles},
		func(_ TilePos, t *Tile) {
			for _, el := range t.Elements {
				if el.Kind == KindBuilding {
					mask |= el.RequiredCargo
				}
			}
		})
	return mask
}

// MostCommonBuildingCargo returns the cargo type generated by the most
// buildings on the map. Falls back to cargo 0 (passengers) on an empty map.
func (m *Map) MostCommonBuildingCargo() CargoType {
	var counts [32]int
	for i := range m.tiles {
		for _, el := range m.tiles[i].Elements {
			if el.Kind != KindBuilding {
				continue
			}
			for c := 0; c < 32; c++ {
				if el.ProducedCargo&(1<<c) != 0 {
					counts[c]++
				}
			}
		}
	}
	best := 0
	for c := 1; c < 32; c++ {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return CargoType(best)
}
