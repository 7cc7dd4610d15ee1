package knockout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/compcore/compcore/internal/compstate"
	"github.com/compcore/compcore/internal/loader"
	"github.com/compcore/compcore/internal/schedule"
)

// Static team-slot placeholder prefixes a knockout.yaml plan may use in
// place of a literal TeamID, per spec.md §4.6's "static" variant.
const (
	seedPrefix   = "seed:"   // "seed:3" -> the 3rd-placed league seed
	winnerPrefix = "winner:" // "winner:12" -> the winner of match 12
)

// BuildStaticBracket binds a knockout.yaml plan's explicit matches to
// concrete times and teams, resolving "seed:N" and "winner:N"
// placeholders against seeds and previously-resolved matches
// respectively. Unlike BuildSeededBracket, the bracket shape itself
// comes entirely from the plan; this function only resolves slot
// contents and timing.
func BuildStaticBracket(
	reg *compstate.Registry,
	arenas map[compstate.ArenaID]compstate.Arena,
	plan loader.Plan,
	cfg loader.ScheduleConfig,
	seeds []compstate.TeamID,
	knockoutScores map[compstate.MatchID]*compstate.ScoreReport,
	detector *TieDetector,
	resolved map[compstate.MatchID][]compstate.TeamID,
) ([]*compstate.Match, []TiebreakerNeed, error) {
	slots := schedule.SlotsForType(cfg, compstate.Knockout)
	if len(plan.Numbers) > len(slots) {
		return nil, nil, &compstate.PlanExceedsPeriodsError{
			MatchType:      compstate.Knockout,
			Planned:        len(plan.Numbers),
			AvailableSlots: len(slots),
		}
	}

	byNum := map[compstate.MatchNumber][]*compstate.Match{}
	var matches []*compstate.Match
	var needs []TiebreakerNeed

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
				return nil, nil, &compstate.ReferenceError{Kind: "arena", Value: aStr}
			}

			rawTeams := arenaPlan[arenaID]
			teams := make([]*compstate.TeamID, len(rawTeams))
			for slotIdx, slot := range rawTeams {
				if slot == nil {
					continue
				}
				slotTeam, need, err := resolveStaticSlot(string(*slot), reg, seeds, byNum, knockoutScores, detector, resolved)
				if err != nil {
					return nil, nil, err
				}
				if need != nil {
					needs = append(needs, *need)
				}
				teams[slotIdx] = &slotTeam
			}

			m := &compstate.Match{
				Num:         num,
				Arena:       arenaID,
				Type:        compstate.Knockout,
				DisplayName: fmt.Sprintf("Knockout match %d", num),
				Teams:       teams,
				StartTime:   start,
				EndTime:     end,
			}
			matches = append(matches, m)
			byNum[num] = append(byNum[num], m)
		}
	}

	return matches, needs, nil
}

func resolveStaticSlot(
	raw string,
	reg *compstate.Registry,
	seeds []compstate.TeamID,
	built map[compstate.MatchNumber][]*compstate.Match,
	knockoutScores map[compstate.MatchID]*compstate.ScoreReport,
	detector *TieDetector,
	resolved map[compstate.MatchID][]compstate.TeamID,
) (compstate.TeamID, *TiebreakerNeed, error) {
	switch {
	case strings.HasPrefix(raw, seedPrefix):
		n, err := strconv.Atoi(strings.TrimPrefix(raw, seedPrefix))
		if err != nil || n < 1 || n > len(seeds) {
			return "", nil, &compstate.ReferenceError{Kind: "seed", Value: raw}
		}
		return seeds[n-1], nil, nil

	case strings.HasPrefix(raw, winnerPrefix):
		n, err := strconv.Atoi(strings.TrimPrefix(raw, winnerPrefix))
		if err != nil {
			return "", nil, &compstate.ReferenceError{Kind: "match", Value: raw}
		}
		parents, ok := built[compstate.MatchNumber(n)]
		if !ok || len(parents) == 0 {
			return "", nil, &compstate.ReferenceError{Kind: "match", Value: raw}
		}
		parent := parents[0]
		if order, ok := resolved[parent.ID()]; ok && len(order) > 0 {
			return order[0], nil, nil
		}
		report, ok := knockoutScores[parent.ID()]
		if !ok {
			return UnknownTeam, nil, nil
		}
		ranked := RankMatch(report)
		if len(ranked) == 0 {
			return UnknownTeam, nil, nil
		}
		if tied, needed := detector.CheckCutoff(parent.ID(), ranked, 1); needed {
			return UnknownTeam, &TiebreakerNeed{ParentMatch: parent.ID(), Cutoff: 1, Tied: tied}, nil
		}
		return ranked[0].ID, nil, nil

	default:
		id := compstate.TeamID(raw)
		if _, ok := reg.Team(id); !ok {
			return "", nil, &compstate.ReferenceError{Kind: "team", Value: raw}
		}
		return id, nil, nil
	}
}
