// Package world holds the tile grid and everything the company AI queries
// from it: surface heights, placed track/road/station elements, towns,
// industries and stations. It is the spatial store the planning code reads
// and the command layer mutates.
package world

import "math"

// World units. A tile is 32 world units on a side; vertical heights are
// stored in small-z steps of 4 units.
const (
	TileSize   = 32
	SmallZStep = 4
)

// Pos2 is a position in world units.
type Pos2 struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Pos3 is a position in world units with height.
type Pos3 struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	Z int32 `json:"z"`
}

// TilePos is a position in tile coordinates.
type TilePos struct {
	X int32
	Y int32
}

// RotationOffset maps a rotation (0-3) to the world-unit offset of the next
// tile in that direction.
var RotationOffset = [4]Pos2{
	{X: TileSize, Y: 0},
	{X: 0, Y: TileSize},
	{X: -TileSize, Y: 0},
	{X: 0, Y: -TileSize},
}

// Add returns p + q.
func (p Pos2) Add(q Pos2) Pos2 {
	return Pos2{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Pos2) Sub(q Pos2) Pos2 {
	return Pos2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by k.
func (p Pos2) Mul(k int32) Pos2 {
	return Pos2{X: p.X * k, Y: p.Y * k}
}

// XY returns the horizontal components of a Pos3.
func (p Pos3) XY() Pos2 {
	return Pos2{X: p.X, Y: p.Y}
}

// ToTile converts world units to tile coordinates.
func ToTile(p Pos2) TilePos {
	return TilePos{X: p.X / TileSize, Y: p.Y / TileSize}
}

// ToWorld converts tile coordinates to world units (tile origin corner).
func ToWorld(t TilePos) Pos2 {
	return Pos2{X: t.X * TileSize, Y: t.Y * TileSize}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// ManhattanDistance returns |dx| + |dy| in world units.
func ManhattanDistance(a, b Pos2) int32 {
	return abs32(a.X-b.X) + abs32(a.Y-b.Y)
}

// Distance2D returns the Euclidean distance between two points in world
// units, truncated to an integer.
func Distance2D(a, b Pos2) int32 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return int32(math.Sqrt(dx*dx + dy*dy))
}

// Distance3D returns the Euclidean distance including height.
func Distance3D(a, b Pos3) int32 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return int32(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Pos2) Pos2 {
	return Pos2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
