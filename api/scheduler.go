/*
scheduler.go - Periodic day-rollover tick

PURPOSE:
  Runs the engine's lazy date-rollover check on a wall-clock tick so a
  worker who forgot to clock out still has the stale day migrated to
  history once the calendar date changes. The tick performs no other
  mutation.

CONFIGURATION:
  - Interval: how often to check (default: 1 second, matching the UI's
    live clock tick; the sweep is a no-op while the date is unchanged)

USAGE:
  scheduler := NewRolloverScheduler(engine, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/timeclock/clock"
)

// RolloverScheduler drives Engine.CheckNewDay on a fixed interval.
type RolloverScheduler struct {
	Engine   *clock.Engine
	Interval time.Duration
	Log      zerolog.Logger

	mu     sync.Mutex
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewRolloverScheduler creates a scheduler with the default interval.
func NewRolloverScheduler(engine *clock.Engine, log zerolog.Logger) *RolloverScheduler {
	return &RolloverScheduler{
		Engine:   engine,
		Interval: time.Second,
		Log:      log,
	}
}

// Start begins the periodic sweep. The first check runs immediately.
func (rs *RolloverScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		return
	}
	rs.ticker = time.NewTicker(rs.Interval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)
	go rs.run()

	rs.Log.Info().Dur("interval", rs.Interval).Msg("rollover scheduler started")
}

// Stop halts the sweep and waits for an in-flight check to finish.
func (rs *RolloverScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker == nil {
		return
	}
	rs.ticker.Stop()
	close(rs.stop)
	rs.wg.Wait()
	rs.ticker = nil
	rs.Log.Info().Msg("rollover scheduler stopped")
}

func (rs *RolloverScheduler) run() {
	defer rs.wg.Done()

	rs.check()
	for {
		select {
		case <-rs.ticker.C:
			rs.check()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RolloverScheduler) check() {
	if err := rs.Engine.CheckNewDay(context.Background()); err != nil {
		rs.Log.Error().Err(err).Msg("day rollover sweep failed")
	}
}
