// Simulation ties together the world, the catalog and the companies and
// runs them each tick.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tycoon-world/internal/ai"
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/world"
)

// Simulation holds the complete world state and wires systems together.
type Simulation struct {
	WorldMap  *world.Map
	Catalog   *catalog.Catalog
	Economy   *catalog.Economy
	Companies *company.Manager
	Exec      *commands.Executor
	AI        *ai.Context

	Events   []Event // Recent events (ring buffer in production)
	LastTick uint64  // Most recent tick processed

	// Statistics tracked per day.
	Stats SimStats
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "company", "route", "finance"
}

// SimStats tracks aggregate world statistics.
type SimStats struct {
	ActiveCompanies int   `json:"active_companies"`
	RoutesOperating int   `json:"routes_operating"`
	RoutesPlanned   int   `json:"routes_planned"`
	StationCount    int   `json:"station_count"`
	VehicleCount    int   `json:"vehicle_count"`
	TotalFunds      int64 `json:"total_funds"`
	TotalLoans      int64 `json:"total_loans"`
}

// NewSimulation wires a simulation from generated components.
func NewSimulation(m *world.Map, cat *catalog.Catalog, eco *catalog.Economy, mgr *company.Manager, ctx *ai.Context) *Simulation {
	sim := &Simulation{
		WorldMap:  m,
		Catalog:   cat,
		Economy:   eco,
		Companies: mgr,
		Exec:      ctx.Exec,
		AI:        ctx,
	}
	sim.updateStats()
	return sim
}

// RecordEvent appends a notable occurrence for the daily report.
func (s *Simulation) RecordEvent(tick uint64, category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Tick:        tick,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
}

// TickStep runs every tick: one bounded planning step per company, in
// registration order so runs are reproducible from a seed.
func (s *Simulation) TickStep(tick uint64) {
	s.LastTick = tick
	for _, c := range s.Companies.All() {
		before := c.Name
		s.AI.Think(c)

		// Think may have folded the company.
		if s.Companies.Get(c.ID) == nil {
			s.RecordEvent(tick, "company", "%s has folded", before)
		}
	}
}

// TickDay runs every sim-day: calendar advance, statistics, daily summary.
func (s *Simulation) TickDay(tick uint64) {
	s.AI.Day = Day(tick)
	s.AI.Year = Year(tick)
	s.updateStats()

	eventCounts := make(map[string]int)
	for _, e := range s.Events {
		eventCounts[e.Category]++
	}

	slog.Info("daily report",
		"tick", tick,
		"time", SimTime(tick),
		"companies", s.Stats.ActiveCompanies,
		"routes_operating", s.Stats.RoutesOperating,
		"routes_planned", s.Stats.RoutesPlanned,
		"stations", s.Stats.StationCount,
		"vehicles", s.Stats.VehicleCount,
		"total_funds", humanize.Comma(s.Stats.TotalFunds),
		"total_loans", humanize.Comma(s.Stats.TotalLoans),
		"events_company", eventCounts["company"],
		"events_route", eventCounts["route"],
	)

	recentStart := 0
	if len(s.Events) > 20 {
		recentStart = len(s.Events) - 20
	}
	for _, e := range s.Events[recentStart:] {
		slog.Info("event", "category", e.Category, "description", e.Description)
	}
}

// TickMonth runs every sim-month: route receipts, running costs and
// inflation drift.
func (s *Simulation) TickMonth(tick uint64) {
	s.Economy.InflateMonthly()
	for _, c := range s.Companies.All() {
		if c.IsPlayer {
			continue
		}
		s.AI.AccrueMonthly(c)
	}

	slog.Info("monthly accounts",
		"tick", tick,
		"time", SimTime(tick),
		"events_this_month", len(s.Events),
	)
	// Trim old events to prevent unbounded growth (keep last 1000).
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}

// TickYear runs every sim-year: a standings summary.
func (s *Simulation) TickYear(tick uint64) {
	for _, c := range s.Companies.All() {
		operating := 0
		for i := range c.Thoughts {
			if c.Thoughts[i].Type != company.NullThoughtType && c.Thoughts[i].NumVehicles > 0 {
				operating++
			}
		}
		slog.Info("yearly standings",
			"year", Year(tick),
			"company", c.Name,
			"funds", humanize.Comma(c.Funds),
			"loan", humanize.Comma(c.Loan),
			"routes", operating,
			"bankrupt", c.Bankrupt(),
		)
	}
}

func (s *Simulation) updateStats() {
	stats := SimStats{}
	for _, c := range s.Companies.All() {
		stats.ActiveCompanies++
		stats.TotalFunds += c.Funds
		stats.TotalLoans += c.Loan
		for i := range c.Thoughts {
			t := &c.Thoughts[i]
			if t.Type == company.NullThoughtType {
				continue
			}
			if t.NumVehicles > 0 {
				stats.RoutesOperating++
			} else {
				stats.RoutesPlanned++
			}
			stats.VehicleCount += int(t.NumVehicles)
		}
		stats.StationCount += len(s.WorldMap.Stations.Owned(c.ID))
	}
	s.Stats = stats
}
