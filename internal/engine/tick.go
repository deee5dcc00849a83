// Package engine provides the tick-based simulation loop that drives
// company planning, cargo accounting and the calendar.
package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// Calendar constants. One planner step runs per company per tick.
const (
	TicksPerDay   = 4
	DaysPerMonth  = 30
	MonthsPerYear = 12
	TicksPerMonth = TicksPerDay * DaysPerMonth
	TicksPerYear  = TicksPerMonth * MonthsPerYear

	StartYear = 1900
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval
	Running  bool

	// Callbacks for each tick layer — populated during setup.
	OnTick  func(tick uint64)
	OnDay   func(tick uint64)
	OnMonth func(tick uint64)
	OnYear  func(tick uint64)
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: 50 * time.Millisecond,
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}

// Step advances the simulation by one tick. Exposed so headless drivers
// and tests can run the clock without the timed loop.
func (e *Engine) Step() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
	if e.Tick%TicksPerDay == 0 && e.OnDay != nil {
		e.OnDay(e.Tick)
	}
	if e.Tick%TicksPerMonth == 0 && e.OnMonth != nil {
		e.OnMonth(e.Tick)
	}
	if e.Tick%TicksPerYear == 0 && e.OnYear != nil {
		e.OnYear(e.Tick)
	}
}

// Day returns the simulation day for a tick.
func Day(tick uint64) uint32 {
	return uint32(tick / TicksPerDay)
}

// Year returns the calendar year for a tick.
func Year(tick uint64) uint16 {
	return uint16(StartYear + tick/TicksPerYear)
}

var monthNames = [MonthsPerYear]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// SimTime returns a human-readable simulation date from a tick number.
func SimTime(tick uint64) string {
	days := tick / TicksPerDay
	day := days%DaysPerMonth + 1
	months := days / DaysPerMonth
	month := months % MonthsPerYear
	year := StartYear + months/MonthsPerYear

	return fmt.Sprintf("%d %s %d", day, monthNames[month], year)
}
