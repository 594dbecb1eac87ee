// Package planner computes the slot-level consequences of reshaping one
// occurrence of an availability window. It is pure: callers load the
// current slots, the planner returns what to keep, delete, and create,
// and the service applies the plan transactionally.
package planner

import (
	"sort"

	"mediq/pkg/model"
	"mediq/pkg/timewindow"
)

// Shape classifies a proposed window relative to the current one.
type Shape string

const (
	// Outside: the proposed window shares no time with the current one.
	// All slots are retiled and every appointment must find capacity in
	// the new slots or the reshape fails.
	Outside Shape = "outside"

	// Shrunk: the proposed window sits inside the current one. Slots
	// falling outside survive nowhere; their appointments migrate into
	// remaining capacity or are orphaned.
	Shrunk Shape = "shrunk"

	// Expanded: the proposed window extends past the current one on at
	// least one side. In-window slots survive untouched and the added
	// regions are tiled with fresh slots.
	Expanded Shape = "expanded"
)

// Classify maps a (current, proposed) window pair to its Shape. Callers
// must reject identical windows before classifying.
func Classify(current, proposed timewindow.Interval) Shape {
	if !current.Overlaps(proposed) {
		return Outside
	}
	if current.Contains(proposed) {
		return Shrunk
	}
	return Expanded
}

// Plan is the slot delta for one reshaped occurrence.
type Plan struct {
	Shape  Shape
	Keep   []*model.Slot // existing slots that survive
	Delete []*model.Slot // existing slots to remove; their appointments migrate
	Create []model.Slot  // new elastic slots to insert, times only
}

// Reshape computes the plan for replacing the current window with the
// proposed one. Existing slots whose interval lies fully inside the
// proposed window survive; the rest are deleted. New slots are tiled
// over the parts of the proposed window not covered by the current one,
// skipping intervals an existing slot already occupies and dropping any
// remainder shorter than slotDurationMin.
func Reshape(current, proposed timewindow.Interval, existing []*model.Slot, slotDurationMin int) *Plan {
	plan := &Plan{Shape: Classify(current, proposed)}

	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s.Key()] = struct{}{}

		iv, err := timewindow.NewInterval(s.StartTime, s.EndTime)
		if err != nil || !proposed.Contains(iv) {
			plan.Delete = append(plan.Delete, s)
			continue
		}
		plan.Keep = append(plan.Keep, s)
	}

	for _, region := range uncoveredRegions(current, proposed) {
		for _, iv := range timewindow.Tile(region, slotDurationMin) {
			candidate := model.Slot{
				StartTime: iv.StartClock(),
				EndTime:   iv.EndClock(),
				IsElastic: true,
			}
			if _, exists := taken[candidate.Key()]; exists {
				continue
			}
			plan.Create = append(plan.Create, candidate)
		}
	}

	sort.Slice(plan.Keep, func(i, j int) bool {
		return plan.Keep[i].StartTime < plan.Keep[j].StartTime
	})
	sort.Slice(plan.Create, func(i, j int) bool {
		return plan.Create[i].StartTime < plan.Create[j].StartTime
	})

	return plan
}

// uncoveredRegions returns the parts of proposed not covered by current.
func uncoveredRegions(current, proposed timewindow.Interval) []timewindow.Interval {
	if !current.Overlaps(proposed) {
		return []timewindow.Interval{proposed}
	}

	var regions []timewindow.Interval
	if proposed.Start < current.Start {
		regions = append(regions, timewindow.Interval{Start: proposed.Start, End: current.Start})
	}
	if proposed.End > current.End {
		regions = append(regions, timewindow.Interval{Start: current.End, End: proposed.End})
	}
	return regions
}
