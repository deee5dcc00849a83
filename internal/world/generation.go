// World generation using layered simplex noise: a heightmap quantized into
// surface base-z steps, water below sea level, then towns on flat land and
// industries scattered around them.
package world

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Cols       int32   // map width in tiles
	Rows       int32   // map height in tiles
	Seed       int64   // noise + placement seed
	SeaLevel   float64 // normalized elevation below which tiles are water
	Towns      int     // towns to place
	Industries int     // industries to place
}

// DefaultGenConfig returns a full-size world.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Cols:       384,
		Rows:       384,
		Seed:       42,
		SeaLevel:   0.22,
		Towns:      40,
		Industries: 60,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Cols:       64,
		Rows:       64,
		Seed:       42,
		SeaLevel:   0.25,
		Towns:      8,
		Industries: 12,
	}
}

// Generate creates a complete map with terrain, towns and industries.
func Generate(cfg GenConfig) *Map {
	m := NewMap(cfg.Cols, cfg.Rows)

	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	rng := rand.New(rand.NewSource(cfg.Seed + 100))

	for y := int32(0); y < cfg.Rows; y++ {
		for x := int32(0); x < cfg.Cols; x++ {
			elev := octaveNoise(elevNoise, float64(x), float64(y), 4, 0.04, 0.5)

			// Continental shaping: push the borders underwater.
			cx := float64(x)/float64(cfg.Cols)*2 - 1
			cy := float64(y)/float64(cfg.Rows)*2 - 1
			elev *= 1.0 - math.Pow(math.Sqrt(cx*cx+cy*cy)*0.85, 3)

			t := m.Tile(TilePos{X: x, Y: y})
			if elev < cfg.SeaLevel {
				t.Surface.BaseZ = uint8(cfg.SeaLevel * 40)
				t.Surface.Water = t.Surface.BaseZ + 1
			} else {
				t.Surface.BaseZ = uint8(elev * 40)
				if rough := octaveNoise(elevNoise, float64(x)+512, float64(y), 2, 0.3, 0.5); rough > 0.72 {
					t.Surface.Slope = 1
				}
			}
		}
	}

	placeTowns(m, cfg, rng)
	placeIndustries(m, cfg, rng)
	return m
}

// placeTowns seeds towns on dry, flat tiles with a minimum separation, and
// fills their surroundings with buildings so cargo demand exists.
func placeTowns(m *Map, cfg GenConfig, rng *rand.Rand) {
	const minSeparation = 24 * TileSize

	// Bounded attempts: a cramped map ends up with fewer towns rather
	// than spinning forever.
	for attempts := 0; len(m.Towns) < cfg.Towns && attempts < cfg.Towns*500; attempts++ {
		tp := TilePos{X: rng.Int31n(cfg.Cols), Y: rng.Int31n(cfg.Rows)}
		t := m.Tile(tp)
		if t.Surface.IsWater() || t.Surface.Slope != 0 {
			continue
		}
		pos := ToWorld(tp)
		tooClose := false
		for _, other := range m.Towns {
			if ManhattanDistance(other.Pos, pos) < minSeparation {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		pop := 400 + rng.Int31n(2200)
		town := &Town{
			ID:                 TownID(len(m.Towns)),
			Name:               fmt.Sprintf("Town %d", len(m.Towns)+1),
			Pos:                pos,
			Population:         pop,
			PopulationCapacity: pop + rng.Int31n(1500),
		}
		m.Towns = append(m.Towns, town)

		// Buildings generate passengers/mail and want goods/food delivered.
		buildings := 4 + int(pop/200)
		for i := 0; i < buildings; i++ {
			bp := pos.Add(Pos2{
				X: (rng.Int31n(9) - 4) * TileSize,
				Y: (rng.Int31n(9) - 4) * TileSize,
			})
			bt := m.TileAt(bp)
			if bt == nil || bt.Surface.IsWater() {
				continue
			}
			m.InsertElement(bp, &Element{
				Kind:          KindBuilding,
				BaseZ:         bt.Surface.BaseZ,
				Owner:         NullCompanyID,
				ObjectID:      uint8(rng.Intn(8)),
				ProducedCargo: 1<<0 | 1<<1, // passengers, mail
				RequiredCargo: 1<<4 | 1<<5, // goods, food
			})
		}
	}
}

// placeIndustries scatters industries: water-built ones on coastal water,
// the rest on dry land near a town.
func placeIndustries(m *Map, cfg GenConfig, rng *rand.Rand) {
	for attempts := 0; len(m.Industries) < cfg.Industries && len(m.Towns) > 0 && attempts < cfg.Industries*500; attempts++ {
		town := m.Towns[rng.Intn(len(m.Towns))]
		pos := town.Pos.Add(Pos2{
			X: (rng.Int31n(41) - 20) * TileSize,
			Y: (rng.Int31n(41) - 20) * TileSize,
		})
		t := m.TileAt(pos)
		if t == nil {
			continue
		}
		onWater := t.Surface.IsWater()
		if onWater && rng.Intn(4) != 0 {
			continue // most industries stay on land
		}

		produced := CargoType(2 + rng.Intn(3)) // coal, ore, grain
		ind := &Industry{
			ID:           IndustryID(len(m.Industries)),
			Name:         fmt.Sprintf("Industry %d", len(m.Industries)+1),
			Pos:          pos,
			Town:         town.ID,
			BuiltOnWater: onWater,
			ProducedCargo: [2]CargoType{
				produced,
				NullCargoType,
			},
			ProducedLastMonth: [2]uint16{uint16(100 + rng.Intn(300)), 0},
			DailyProduction:   [2]uint8{uint8(4 + rng.Intn(12)), 0},
			ReceivedCargo:     1 << uint(2+rng.Intn(3)),
		}
		if rng.Intn(3) == 0 {
			ind.ProducedCargo[1] = CargoType(2 + rng.Intn(3))
			ind.ProducedLastMonth[1] = uint16(rng.Intn(200))
			ind.DailyProduction[1] = uint8(rng.Intn(8))
		}
		m.Industries = append(m.Industries, ind)
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
