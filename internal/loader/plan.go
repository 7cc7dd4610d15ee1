package loader

import (
	"fmt"
	"sort"

	"github.com/compcore/compcore/internal/compstate"
)

// Plan is an unscheduled match plan: for every match number, the teams
// assigned to each arena slot, in declared slot order. A nil team
// pointer is an intentional Empty slot.
type Plan struct {
	Numbers []compstate.MatchNumber
	Matches map[compstate.MatchNumber]map[compstate.ArenaID][]*compstate.TeamID
}

type planFile struct {
	Matches map[int]map[string][]*string `yaml:"matches"`
}

// loadPlan parses a league.yaml- or knockout.yaml-shaped file into a
// Plan. teamsPerArena bounds every arena's slot count from
// arenas.yaml's declared capacity (a knockout match may use fewer
// slots than the arena holds, e.g. a head-to-head pairing in a
// 4-slot arena, but never more). Within a single plan, an arena's
// slot count must also stay the same across every match that uses
// it — per spec.md §4.2, the loader rejects plans whose arena
// capacity is inconsistent, such as arena A taking 4 team slots in
// match 0 but only 3 in match 1.
func loadPlan(path string, teamsPerArena int) (Plan, error) {
	var raw planFile
	if err := decodeYAMLFile(path, &raw); err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Matches: make(map[compstate.MatchNumber]map[compstate.ArenaID][]*compstate.TeamID, len(raw.Matches)),
	}

	nums := make([]int, 0, len(raw.Matches))
	for n := range raw.Matches {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	arenaWidth := make(map[compstate.ArenaID]int, len(raw.Matches))
	firstSeenMatch := make(map[compstate.ArenaID]int, len(raw.Matches))

	for _, n := range nums {
		matchNum := compstate.MatchNumber(n)
		plan.Numbers = append(plan.Numbers, matchNum)

		arenaSlots := raw.Matches[n]
		arenaIDs := make([]string, 0, len(arenaSlots))
		for a := range arenaSlots {
			arenaIDs = append(arenaIDs, a)
		}
		sort.Strings(arenaIDs)

		byArena := make(map[compstate.ArenaID][]*compstate.TeamID, len(arenaSlots))
		for _, a := range arenaIDs {
			slots := arenaSlots[a]
			arenaID := compstate.ArenaID(a)

			if teamsPerArena > 0 && len(slots) > teamsPerArena {
				return Plan{}, &compstate.SchemaError{
					Code: compstate.ErrCodeSchema,
					Message: fmt.Sprintf(
						"match %d: arena %s has %d team slots, exceeding the declared capacity of %d",
						n, arenaID, len(slots), teamsPerArena,
					),
					Location: compstate.Location{Path: path},
				}
			}
			if width, seen := arenaWidth[arenaID]; seen && width != len(slots) {
				return Plan{}, &compstate.SchemaError{
					Code: compstate.ErrCodeSchema,
					Message: fmt.Sprintf(
						"arena %s has inconsistent capacity: %d team slots in match %d but %d in match %d",
						arenaID, width, firstSeenMatch[arenaID], len(slots), n,
					),
					Location: compstate.Location{Path: path},
				}
			}
			arenaWidth[arenaID] = len(slots)
			if _, seen := firstSeenMatch[arenaID]; !seen {
				firstSeenMatch[arenaID] = n
			}

			teams := make([]*compstate.TeamID, len(slots))
			for i, slot := range slots {
				if slot == nil {
					continue
				}
				id := compstate.TeamID(*slot)
				teams[i] = &id
			}
			byArena[arenaID] = teams
		}
		plan.Matches[matchNum] = byArena
	}

	return plan, nil
}
