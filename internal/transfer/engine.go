package transfer

import (
	"fmt"
	"math"
)

// Drawer is the randomness an Engine draws from. Between returns a value in
// [lo, hi), or lo when hi <= lo.
type Drawer interface {
	Between(lo, hi float64) float64
}

// Options bounds the per-tick draws.
type Options struct {
	ChunkMinMB  float64
	ChunkMaxMB  float64
	SpeedMinMBs float64
	SpeedMaxMBs float64
}

// DefaultOptions moves 3-5 MB per tick and reports 15-20 MB/s.
func DefaultOptions() Options {
	return Options{
		ChunkMinMB:  3,
		ChunkMaxMB:  5,
		SpeedMinMBs: 15,
		SpeedMaxMBs: 20,
	}
}

// Validate checks that every tick makes progress.
func (o Options) Validate() error {
	if !(o.ChunkMinMB > 0) {
		return fmt.Errorf("chunk-min must be > 0")
	}
	if o.ChunkMaxMB < o.ChunkMinMB {
		return fmt.Errorf("chunk-max must be >= chunk-min")
	}
	if !(o.SpeedMinMBs > 0) {
		return fmt.Errorf("speed-min must be > 0")
	}
	if o.SpeedMaxMBs < o.SpeedMinMBs {
		return fmt.Errorf("speed-max must be >= speed-min")
	}
	return nil
}

// Engine advances runs one tick at a time.
type Engine struct {
	rnd  Drawer
	opts Options
}

// NewEngine returns an Engine drawing from rnd.
func NewEngine(rnd Drawer, opts Options) (*Engine, error) {
	if rnd == nil {
		return nil, fmt.Errorf("random source is nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{rnd: rnd, opts: opts}, nil
}

// Options returns the draw bounds in use.
func (e *Engine) Options() Options {
	return e.opts
}

// Tick applies one simulation step and returns the next snapshot.
// A complete run is returned unchanged.
//
// A chunk never spills into the next category: whatever exceeds the room
// left in the current category is dropped.
func (e *Engine) Tick(run Run) Run {
	if run.State == Complete {
		return run
	}
	if run.CurrentIndex >= len(run.Categories) {
		return finish(run)
	}
	next := run
	cat := next.Categories[next.CurrentIndex]

	chunk := e.rnd.Between(e.opts.ChunkMinMB, e.opts.ChunkMaxMB)
	room := cat.SizeMB - next.CategoryMB
	filled := chunk >= room
	if filled {
		chunk = room
	}
	next.CategoryMB += chunk
	next.TransferredMB = math.Min(next.TransferredMB+chunk, next.TotalSizeMB)
	if filled {
		next.CurrentIndex++
		next.CategoryMB = 0
	}

	next.SpeedMBs = math.Round(e.rnd.Between(e.opts.SpeedMinMBs, e.opts.SpeedMaxMBs)*10) / 10
	next.Ticks++

	if next.CurrentIndex >= len(next.Categories) || next.TransferredMB >= next.TotalSizeMB {
		return finish(next)
	}
	return next
}
