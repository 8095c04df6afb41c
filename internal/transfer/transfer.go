// Package transfer simulates a category-by-category data transfer.
//
// A Run is a plain value. Engine.Tick never mutates its argument; it returns
// the next snapshot, which the caller stores in place of the old one.
package transfer

import (
	"errors"
	"fmt"
	"math"
)

// State is the lifecycle of a Run.
type State int

const (
	// Running means categories remain to be transferred.
	Running State = iota
	// Complete is terminal.
	Complete
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrEmptySelection is returned when a run is started without categories.
	ErrEmptySelection = errors.New("no categories selected")
	// ErrInvalidCategory is returned for a category without a positive size.
	ErrInvalidCategory = errors.New("invalid category")
)

// Category is a named bucket of data transferred as a unit.
type Category struct {
	Name   string
	SizeMB float64
}

// Run is one simulated transfer over an ordered set of categories.
type Run struct {
	Categories    []Category
	TotalSizeMB   float64
	TransferredMB float64
	// CurrentIndex points at the category being transferred; it equals
	// len(Categories) once the run is complete.
	CurrentIndex int
	// CategoryMB is the amount moved for the current category.
	CategoryMB float64
	SpeedMBs   float64
	State      State
	Ticks      int
}

// Start builds a Running run over a copy of categories.
func Start(categories []Category) (Run, error) {
	if len(categories) == 0 {
		return Run{}, ErrEmptySelection
	}
	cats := make([]Category, len(categories))
	copy(cats, categories)
	total := 0.0
	for _, c := range cats {
		if !(c.SizeMB > 0) || math.IsInf(c.SizeMB, 1) {
			return Run{}, fmt.Errorf("%w: %q has size %v", ErrInvalidCategory, c.Name, c.SizeMB)
		}
		total += c.SizeMB
	}
	return Run{
		Categories:  cats,
		TotalSizeMB: total,
		State:       Running,
	}, nil
}

// Current returns the category in flight.
func (r Run) Current() (Category, bool) {
	if r.CurrentIndex < 0 || r.CurrentIndex >= len(r.Categories) {
		return Category{}, false
	}
	return r.Categories[r.CurrentIndex], true
}

// ProgressPercent reports overall progress in [0, 100].
func (r Run) ProgressPercent() float64 {
	if r.State == Complete {
		return 100
	}
	if r.TotalSizeMB <= 0 {
		return 0
	}
	return math.Min(100, r.TransferredMB/r.TotalSizeMB*100)
}

// ETASeconds estimates the remaining time from the last speed sample.
// It is 0 when the run is complete or no sample exists yet.
func (r Run) ETASeconds() int {
	if r.State == Complete || r.SpeedMBs <= 0 {
		return 0
	}
	remaining := r.TotalSizeMB - r.TransferredMB
	if remaining <= 0 {
		return 0
	}
	return int(math.Round(remaining / r.SpeedMBs))
}

// StatusLine is a short human description of what the run is doing.
func (r Run) StatusLine() string {
	if r.State == Complete {
		return "All data transferred!"
	}
	if r.Ticks == 0 {
		return "Initializing..."
	}
	if cat, ok := r.Current(); ok {
		return fmt.Sprintf("Transferring %s...", cat.Name)
	}
	return "Initializing..."
}

func finish(r Run) Run {
	r.State = Complete
	r.CurrentIndex = len(r.Categories)
	r.CategoryMB = 0
	r.TransferredMB = r.TotalSizeMB
	r.SpeedMBs = 0
	return r
}
