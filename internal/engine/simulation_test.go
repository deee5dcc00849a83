package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tycoon-world/internal/ai"
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/gamerand"
	"github.com/talgya/tycoon-world/internal/world"
)

func newTestSimulation(t *testing.T) (*Simulation, *company.Manager) {
	t.Helper()
	m := world.Generate(world.SmallTestConfig())
	cat := catalog.Default()
	eco := catalog.NewEconomy()
	mgr := company.NewManager(200000)
	ctx := &ai.Context{
		Map:       m,
		Catalog:   cat,
		Economy:   eco,
		Exec:      commands.NewExecutor(m, cat, eco, mgr),
		Companies: mgr,
		Rand:      gamerand.NewStream(3),
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Year:      StartYear,
	}
	return NewSimulation(m, cat, eco, mgr, ctx), mgr
}

func TestTickStepRunsEveryCompany(t *testing.T) {
	sim, mgr := newTestSimulation(t)
	a := company.New(1, "a")
	a.Funds = 50000
	b := company.New(2, "b")
	b.Funds = 50000
	mgr.Add(a)
	mgr.Add(b)

	sim.TickStep(1)
	assert.Equal(t, uint64(1), sim.CurrentTick())
	// Both companies moved off the idle gate.
	assert.Equal(t, uint16(1), a.IdleCounter)
	assert.Equal(t, uint16(1), b.IdleCounter)
}

func TestTickDayAdvancesCalendar(t *testing.T) {
	sim, _ := newTestSimulation(t)
	tick := uint64(TicksPerDay * 45)
	sim.TickDay(tick)
	assert.Equal(t, uint32(45), sim.AI.Day)
	assert.Equal(t, uint16(StartYear), sim.AI.Year)
}

func TestTickMonthInflatesAndTrimsEvents(t *testing.T) {
	sim, _ := newTestSimulation(t)
	before := sim.Economy.InflationFactors[0]
	for i := 0; i < 1500; i++ {
		sim.RecordEvent(uint64(i), "company", "event %d", i)
	}

	sim.TickMonth(TicksPerMonth)
	assert.Greater(t, sim.Economy.InflationFactors[0], before)
	assert.Len(t, sim.Events, 1000)
}

func TestStatsCountRoutes(t *testing.T) {
	sim, mgr := newTestSimulation(t)
	c := company.New(1, "a")
	c.Funds = 100
	c.Loan = 50
	mgr.Add(c)

	c.Thoughts[0].Clear()
	c.Thoughts[0].Type = 5
	c.Thoughts[0].NumVehicles = 2
	c.Thoughts[1].Clear()
	c.Thoughts[1].Type = 3

	sim.updateStats()
	require.Equal(t, 1, sim.Stats.ActiveCompanies)
	assert.Equal(t, 1, sim.Stats.RoutesOperating)
	assert.Equal(t, 1, sim.Stats.RoutesPlanned)
	assert.Equal(t, 2, sim.Stats.VehicleCount)
	assert.Equal(t, int64(100), sim.Stats.TotalFunds)
	assert.Equal(t, int64(50), sim.Stats.TotalLoans)
}
