// Package schedule binds an unscheduled match plan to concrete start
// and end times by walking a sequence of MatchPeriodClocks — one per
// declared period of the requested MatchType — and handing out their
// slots to match numbers in plan order.
//
// Grounded on spec.md §4.3: all arenas in a given match number share
// one slot (they run simultaneously), so the binder advances a single
// clock sequence per match number, not one clock per arena.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/compcore/compcore/internal/clock"
	"github.com/compcore/compcore/internal/compstate"
	"github.com/compcore/compcore/internal/loader"
)

// Bind resolves plan into scheduled Match records of matchType, using
// the periods and delays of cfg whose Type matches. It returns
// PlanExceedsPeriodsError if there are more match numbers than
// available slots, or ReferenceError if the plan names an unknown
// team or arena.
func Bind(
	reg *compstate.Registry,
	arenas map[compstate.ArenaID]compstate.Arena,
	plan loader.Plan,
	cfg loader.ScheduleConfig,
	matchType compstate.MatchType,
) ([]*compstate.Match, error) {
	slots := SlotsForType(cfg, matchType)

	if len(plan.Numbers) > len(slots) {
		return nil, &compstate.PlanExceedsPeriodsError{
			MatchType:      matchType,
			Planned:        len(plan.Numbers),
			AvailableSlots: len(slots),
		}
	}

	var matches []*compstate.Match
	for i, num := range plan.Numbers {
		start := slots[i]
		end := start.Add(cfg.SlotLength)

		arenaPlan := plan.Matches[num]
		arenaIDs := make([]string, 0, len(arenaPlan))
		for a := range arenaPlan {
			arenaIDs = append(arenaIDs, string(a))
		}
		sort.Strings(arenaIDs)

		for _, aStr := range arenaIDs {
			arenaID := compstate.ArenaID(aStr)
			if _, ok := arenas[arenaID]; !ok {
				return nil, &compstate.ReferenceError{Kind: "arena", Value: aStr}
			}

			teams := arenaPlan[arenaID]
			for _, slot := range teams {
				if slot == nil {
					continue
				}
				if _, ok := reg.Team(*slot); !ok {
					return nil, &compstate.ReferenceError{Kind: "team", Value: string(*slot)}
				}
			}
			teams = reg.ApplyDropouts(teams, num)

			matches = append(matches, &compstate.Match{
				Num:         num,
				Arena:       arenaID,
				Type:        matchType,
				DisplayName: fmt.Sprintf("%s match %d", matchType, num),
				Teams:       teams,
				StartTime:   start,
				EndTime:     end,
			})
		}
	}
	return matches, nil
}

// SlotsForType concatenates the slots of every period matching
// matchType, in schedule.yaml declaration order, with each period's
// clock fed only the delays whose trigger time falls within that
// period's window.
func SlotsForType(cfg loader.ScheduleConfig, matchType compstate.MatchType) []time.Time {
	var out []time.Time
	for _, p := range cfg.Periods {
		if p.Type != matchType {
			continue
		}

		var delays []clock.Delay
		for _, d := range cfg.Delays {
			if !d.Time.Before(p.Start) && !d.Time.After(p.MaxEnd) {
				delays = append(delays, clock.Delay{Time: d.Time, Duration: d.Duration})
			}
		}

		c := clock.New(clock.Period{
			Description: p.Description,
			Start:       p.Start,
			PlannedEnd:  p.End,
			MaxEnd:      p.MaxEnd,
			Type:        p.Type,
		}, delays)

		out = append(out, c.Slots(cfg.SlotLength, cfg.Gap)...)
	}
	return out
}
