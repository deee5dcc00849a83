package company

import (
	"github.com/google/uuid"

	"github.com/talgya/tycoon-world/internal/world"
)

// MaxThoughts is the number of thought slots per company.
const MaxThoughts = 60

// NullThoughtID marks "no active thought".
const NullThoughtID uint8 = 0xFF

// ThinkState is the top-level planner state. Values are persisted; keep
// them stable.
type ThinkState uint8

const (
	StateSelect    ThinkState = 0  // idle gate between planning rounds
	StateReview    ThinkState = 1  // walk thoughts looking for work
	StateCreate    ThinkState = 2  // build a new thought, 14 sub-steps
	StateSpeculate ThinkState = 3  // place allocated assets, 6 sub-steps
	StateCommit    ThinkState = 4  // convert to paid assets, 4 sub-steps
	stateUnused5   ThinkState = 5  //lint:ignore U1000 slot kept for save parity
	StateAbandon   ThinkState = 6  // unwind a failed plan, 5 sub-steps
	StateRetire    ThinkState = 7  // dismantle an unprofitable route
	StateReequip   ThinkState = 8  // renew an operating route's fleet
	stateUnused9   ThinkState = 9  //lint:ignore U1000 slot kept for save parity
	StateShutdown  ThinkState = 10 // liquidate everything and fold
)

// StatusFlags describe company-level conditions the planner reacts to.
type StatusFlags uint16

const (
	StatusBankrupt StatusFlags = 1 << iota
	StatusEstablished      // opened its first route; keeps the company alive
	StatusAbandonRequested // external demand to drop the current plan
	StatusRouteCommitted   // at least one plan passed final approval
)

// PlaystyleFlags restrict which thought archetypes a competitor will
// entertain. Each bit is a permission; archetype validation rejects
// thoughts whose flags lack a matching permission.
type PlaystyleFlags uint16

const (
	PlayLongTrainRoutes PlaystyleFlags = 1 << iota
	PlayPassengerRoad
	PlayCargoRoad
	PlayTownTrams
	PlayAir
	PlayWater
	PlayLoadAtOrigin
	PlayOnlyLoadAtOrigin // reject anything that does not wait for full loads
	PlayHomeTownBound    // first route must touch the home town
)

// Scratch is the planner's working memory. It persists with the company
// so a plan can resume mid-construction after a save/load.
type Scratch struct {
	// Station slot currently being worked (0xFF = start fresh) and the
	// side bits still pending on it.
	StationCursor uint8
	LinkFlags     uint8

	// Track construction cursor and its target, one link at a time.
	CursorPos   world.Pos2
	CursorBaseZ uint8
	CursorRot   uint8
	TargetPos   world.Pos2
	TargetBaseZ uint8
	TargetRot   uint8

	// Chunked map sweep position for removal passes.
	SweepPos world.Pos2

	// Paced work counter and its threshold (aggressiveness driven), plus
	// the hard cap counter for incremental track removal.
	StepCounter   uint16
	PaceThreshold uint16
	RemovalSteps  uint16

	// Clearage paid while placing allocated assets; folded into the
	// thought's estimate at the end of speculation.
	ClearageCost int64
}

// Company is a player or AI competitor.
type Company struct {
	ID         world.CompanyID
	ExternalID uuid.UUID
	Name       string
	IsPlayer   bool

	Funds int64
	Loan  int64
	Flags StatusFlags

	// Competitor ratings, 1..9 where used as table indices.
	Intelligence    uint8
	Aggressiveness  uint8
	Competitiveness uint8

	Playstyle PlaystyleFlags
	HomeTown  world.TownID

	StartedDay      uint32
	HeadquartersPos world.Pos3
	HasHeadquarters bool

	State         ThinkState
	SubStep       uint8
	ActiveThought uint8
	Thoughts      [MaxThoughts]Thought

	// Planning round bookkeeping.
	IdleCounter       uint16 // ticks spent gating in StateSelect
	PlacementAttempts uint16 // station placement budget this plan
	BridgeChoices     [3]uint8 // pre-chosen bridge object per clearance class
	RepeatArchetype   uint8 // last generated archetype, 0xFF = none
	RevenueEstimate   int64

	Scratch Scratch
}

// New returns a company with empty thought slots and a fresh planner.
func New(id world.CompanyID, name string) *Company {
	c := &Company{
		ID:              id,
		ExternalID:      uuid.New(),
		Name:            name,
		ActiveThought:   NullThoughtID,
		RepeatArchetype: 0xFF,
	}
	for i := range c.Thoughts {
		c.Thoughts[i].Clear()
	}
	c.Scratch.StationCursor = 0xFF
	return c
}

// Bankrupt reports whether the company is out of money.
func (c *Company) Bankrupt() bool { return c.Flags&StatusBankrupt != 0 }

// Thought returns the active thought, or nil when none is selected.
func (c *Company) ActiveThoughtRef() *Thought {
	if c.ActiveThought >= MaxThoughts {
		return nil
	}
	return &c.Thoughts[c.ActiveThought]
}

// FreeThoughtSlot returns the index of the first empty slot, or
// NullThoughtID when all are in use.
func (c *Company) FreeThoughtSlot() uint8 {
	for i := range c.Thoughts {
		if c.Thoughts[i].Type == NullThoughtType {
			return uint8(i)
		}
	}
	return NullThoughtID
}

// HighestThoughtSlot returns the highest occupied slot index, or
// NullThoughtID when the company has no thoughts at all.
func (c *Company) HighestThoughtSlot() uint8 {
	for i := MaxThoughts - 1; i >= 0; i-- {
		if c.Thoughts[i].Type != NullThoughtType {
			return uint8(i)
		}
	}
	return NullThoughtID
}

// HasThoughts reports whether any slot is occupied.
func (c *Company) HasThoughts() bool {
	return c.HighestThoughtSlot() != NullThoughtID
}

// SetState moves the planner to a new state at sub-step zero.
func (c *Company) SetState(s ThinkState) {
	c.State = s
	c.SubStep = 0
}

// AgeDays returns the company age for the given current day.
func (c *Company) AgeDays(day uint32) uint32 {
	if day < c.StartedDay {
		return 0
	}
	return day - c.StartedDay
}
