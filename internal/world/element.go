package world

// ElementKind discriminates the element union stored on a tile.
type ElementKind uint8

const (
	KindTrack ElementKind = iota
	KindRoad
	KindStation
	KindBuilding
	KindTree
)

// Element is one placed object on a tile above the surface. Fields are a
// union over kinds; only the fields relevant to an element's kind are
// meaningful.
type Element struct {
	Kind  ElementKind
	BaseZ uint8 // height in small-z steps
	Owner CompanyID

	// Tentative placement state. Ghost elements are pure previews;
	// AiAllocated elements are the AI's free, reversible trial builds.
	Ghost       bool
	AiAllocated bool

	// Track / road
	ObjectID      uint8 // track/road/station/building/tree catalog id
	PieceID       uint8 // track or road piece id (0 = straight)
	Rotation      uint8
	SequenceIndex uint8
	Mods          uint8 // placed modification bitset
	Bridge        uint8 // bridge object id, 0xFF = none
	HasStation    bool  // a station element shares this track/road tile

	// Signals on a track element. SignalSides bit0 = facing side, bit1 =
	// trailing side.
	HasSignal   bool
	SignalObjID uint8
	SignalSides uint8

	// Station
	Station StationID

	// Building / tree
	Indestructible bool
	IsHeadquarters bool
	RequiredCargo  uint32 // bitset of cargo this building wants delivered
	ProducedCargo  uint32 // bitset of cargo this building generates
}

// Surface is the ground layer of a tile.
type Surface struct {
	BaseZ uint8 // height in small-z steps
	Slope uint8 // nonzero = sloped
	Water uint8 // water surface height in small-z steps, 0 = dry
}

// BaseHeight returns the surface height in world units.
func (s *Surface) BaseHeight() int32 {
	return int32(s.BaseZ) * SmallZStep
}

// IsWater reports whether the tile is open water.
func (s *Surface) IsWater() bool {
	return s.Water != 0
}

// Tile is one cell of the map: a surface plus any stacked elements.
type Tile struct {
	Surface  Surface
	Elements []*Element
}
