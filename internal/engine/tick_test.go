package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepFiresCallbacksOnBoundaries(t *testing.T) {
	e := NewEngine()
	var ticks, days, months, years int
	e.OnTick = func(uint64) { ticks++ }
	e.OnDay = func(uint64) { days++ }
	e.OnMonth = func(uint64) { months++ }
	e.OnYear = func(uint64) { years++ }

	for i := 0; i < TicksPerYear; i++ {
		e.Step()
	}
	assert.Equal(t, TicksPerYear, ticks)
	assert.Equal(t, DaysPerMonth*MonthsPerYear, days)
	assert.Equal(t, MonthsPerYear, months)
	assert.Equal(t, 1, years)
}

func TestCalendarHelpers(t *testing.T) {
	assert.Equal(t, uint32(0), Day(0))
	assert.Equal(t, uint32(1), Day(TicksPerDay))
	assert.Equal(t, uint16(StartYear), Year(0))
	assert.Equal(t, uint16(StartYear+1), Year(TicksPerYear))
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "1 Jan 1900", SimTime(0))
	assert.Equal(t, "2 Jan 1900", SimTime(TicksPerDay))
	assert.Equal(t, "1 Feb 1900", SimTime(TicksPerMonth))
	assert.Equal(t, "1 Jan 1901", SimTime(TicksPerYear))
}
