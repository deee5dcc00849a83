// Package commands is the single boundary through which companies change
// the world. Every placement and removal goes through an Executor method
// that validates, prices, applies and charges in one step, so planner
// code never mutates tiles or tables directly.
package commands

import (
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/world"
)

// Flags modify command execution.
type Flags uint8

const (
	// Apply commits the change. Without it the command only prices and
	// validates.
	Apply Flags = 1 << iota
	// Ghost marks placed elements as previews.
	Ghost
	// AiAllocated marks placed elements as speculative, unpaid assets.
	AiAllocated
	// NoPayment skips the treasury charge (used for the free retry after
	// a paid placement fails on funds).
	NoPayment
	// NoErrorWindow suppresses user-facing error reporting.
	NoErrorWindow
)

// Treasury answers affordability questions and applies charges. Negative
// costs are refunds.
type Treasury interface {
	CanAfford(owner world.CompanyID, cost int64) bool
	Charge(owner world.CompanyID, cost int64)
}

// Executor runs commands against a map with a catalog and economy for
// pricing.
type Executor struct {
	Map      *world.Map
	Catalog  *catalog.Catalog
	Economy  *catalog.Economy
	Treasury Treasury

	lastPlacedStation world.StationID
}

// NewExecutor wires a command executor.
func NewExecutor(m *world.Map, cat *catalog.Catalog, eco *catalog.Economy, t Treasury) *Executor {
	return &Executor{
		Map:               m,
		Catalog:           cat,
		Economy:           eco,
		Treasury:          t,
		lastPlacedStation: world.NullStationID,
	}
}

// LastPlacedStation returns the station id registered by the most recent
// successful station placement.
func (e *Executor) LastPlacedStation() world.StationID {
	return e.lastPlacedStation
}

// settle validates affordability and applies the charge. Returns false
// when the owner cannot pay.
func (e *Executor) settle(owner world.CompanyID, cost int64, flags Flags) bool {
	if flags&NoPayment != 0 {
		return true
	}
	if cost > 0 && !e.Treasury.CanAfford(owner, cost) {
		return false
	}
	if flags&Apply != 0 {
		e.Treasury.Charge(owner, cost)
	}
	return true
}

// clearTileCost prices removing trees and small obstacles on a tile and,
// when applying, removes them. Buildings and indestructible elements
// block; the caller must treat a negative return as failure.
func (e *Executor) clearTileCost(p world.Pos2, flags Flags) int64 {
	t := e.Map.TileAt(p)
	if t == nil {
		return -1
	}
	var cost int64
	var cleared []*world.Element
	for _, el := range t.Elements {
		switch el.Kind {
		case world.KindTree:
			cost += e.Economy.InflationAdjustedCost(4, 0, catalog.ShiftTreeClear)
			cleared = append(cleared, el)
		case world.KindBuilding:
			if el.Indestructible || el.IsHeadquarters {
				return -1
			}
			cost += e.Economy.InflationAdjustedCost(32, 0, catalog.ShiftBuildingClear)
			cleared = append(cleared, el)
		}
	}
	if flags&Apply != 0 {
		for _, el := range cleared {
			e.Map.RemoveElement(p, el)
		}
	}
	return cost
}

// elementBlocked reports whether an existing element prevents placement
// by this owner at this height.
func elementBlocked(el *world.Element, owner world.CompanyID, baseZ uint8) bool {
	if el.Kind == world.KindTree {
		return false
	}
	if el.BaseZ != baseZ {
		return false
	}
	return el.Owner != owner
}
