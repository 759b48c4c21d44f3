// Package engine provides the simulation clock and the loop that advances the
// sector and its diplomacy brains.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Calendar.
const (
	DaysPerMonth = 30
	DaysPerCycle = 360
	StartCycle   = 206
)

// Engine drives the simulation forward in steps of simulated days.
type Engine struct {
	Day      float64       // Simulated days elapsed (monotonic)
	Step     float64       // Simulated days per step at speed 1
	Speed    float64       // Multiplier: 1.0 = normal, 0 = paused
	Interval time.Duration // Real time between steps

	// Callbacks for each clock layer, populated during setup. A non-nil error
	// from OnAdvance stops the engine.
	OnAdvance func(days float64) error // Every step
	OnDay     func(day int)            // Each whole day crossed
	OnMonth   func(month int)          // Each 30 days crossed
}

// NewEngine creates an engine that advances a quarter day per second.
func NewEngine() *Engine {
	return &Engine{
		Step:     0.25,
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run advances in real time until ctx is cancelled or a callback fails.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation engine started", "day", e.Day, "speed", e.Speed)
	defer slog.Info("simulation engine stopped", "day", e.Day)

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if e.Speed <= 0 {
			continue
		}
		if err := e.advance(e.Step * e.Speed); err != nil {
			return err
		}
	}
}

// RunDays fast-forwards by days without waiting on the wall clock.
func (e *Engine) RunDays(ctx context.Context, days float64) error {
	if e.Step <= 0 {
		return fmt.Errorf("engine step must be positive, got %v", e.Step)
	}
	target := e.Day + days
	for e.Day < target {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := math.Min(e.Step*math.Max(e.Speed, 1), target-e.Day)
		if err := e.advance(step); err != nil {
			return err
		}
	}
	return nil
}

// advance moves the clock by days and fires the callbacks.
func (e *Engine) advance(days float64) error {
	before := e.Day
	e.Day += days

	if e.OnAdvance != nil {
		if err := e.OnAdvance(days); err != nil {
			return fmt.Errorf("advance at day %.2f: %w", e.Day, err)
		}
	}

	for d := int(before) + 1; d <= int(e.Day); d++ {
		if e.OnDay != nil {
			e.OnDay(d)
		}
		if d%DaysPerMonth == 0 && e.OnMonth != nil {
			e.OnMonth(d / DaysPerMonth)
		}
	}
	return nil
}

// SimTime returns a human-readable date for a day count.
func SimTime(day float64) string {
	whole := int(day)
	cycle := StartCycle + whole/DaysPerCycle
	month := whole%DaysPerCycle/DaysPerMonth + 1
	dom := whole%DaysPerMonth + 1
	return fmt.Sprintf("c.%d, month %d, day %d", cycle, month, dom)
}
