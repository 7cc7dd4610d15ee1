package knockout

import (
	"fmt"
	"math"

	"github.com/compcore/compcore/internal/compstate"
	"github.com/compcore/compcore/internal/loader"
	"github.com/compcore/compcore/internal/schedule"
)

// UnknownTeam marks a knockout slot whose occupant cannot yet be
// determined (the predecessor match has not been scored), distinct
// from a true Empty/bye slot.
const UnknownTeam compstate.TeamID = "???"

// TiebreakerNeed reports that a knockout match's ranking is ambiguous
// at the cutoff required for progression, and names the tied teams a
// Tiebreaker match must be scheduled between.
type TiebreakerNeed struct {
	ParentMatch compstate.MatchID
	Cutoff      int
	Tied        []compstate.TeamID
}

// groupSize is fixed at 4, matching the automatic scheduler's
// constraint: it only operates on four-slot arenas with the top two
// teams advancing.
const groupSize = 4
const advancing = 2

// BuildSeededBracket constructs the full knockout bracket from an
// ordered list of league seeds (best first), filling later rounds'
// teams from knockoutScores as they become available. Matches whose
// predecessor is not yet resolved get UnknownTeam placeholders; their
// slot times are still scheduled eagerly, as the full bracket shape is
// fixed once the seed count is known.
func BuildSeededBracket(
	arenas []compstate.ArenaID,
	seeds []compstate.TeamID,
	cfg loader.ScheduleConfig,
	startNum compstate.MatchNumber,
	knockoutScores map[compstate.MatchID]*compstate.ScoreReport,
	rng *Random,
	detector *TieDetector,
	resolved map[compstate.MatchID][]compstate.TeamID,
) ([]compstate.KnockoutRound, []*compstate.Match, []TiebreakerNeed, error) {
	if len(arenas) == 0 {
		return nil, nil, nil, fmt.Errorf("knockout scheduling requires at least one arena")
	}

	firstRound := FirstRoundGroups(seeds, groupSize)
	totalRounds := int(math.Round(math.Log2(float64(len(firstRound))))) + 1

	slots := schedule.SlotsForType(cfg, compstate.Knockout)

	var rounds []compstate.KnockoutRound
	var allMatches []*compstate.Match
	var needs []TiebreakerNeed

	matchNum := startNum
	slotIdx := 0
	currentTeams := firstRound

	for roundIdx := 0; ; roundIdx++ {
		roundsRemaining := totalRounds - 1 - roundIdx
		var round compstate.KnockoutRound

		for i, group := range currentTeams {
			if slotIdx >= len(slots) {
				return nil, nil, nil, &compstate.OutOfTimeError{Period: "knockout"}
			}
			start := slots[slotIdx]
			end := start.Add(cfg.SlotLength)
			slotIdx++

			arenaID := arenas[i%len(arenas)]

			shuffled := make([]compstate.TeamID, len(group))
			copy(shuffled, group)
			rng.ShuffleTeams(shuffled)

			teams := make([]*compstate.TeamID, groupSize)
			for j := 0; j < groupSize; j++ {
				if j >= len(shuffled) {
					continue
				}
				id := shuffled[j]
				teams[j] = &id
			}

			m := &compstate.Match{
				Num:                matchNum,
				Arena:              arenaID,
				Type:               compstate.Knockout,
				DisplayName:        displayName(roundsRemaining, i, matchNum),
				Teams:              teams,
				StartTime:          start,
				EndTime:            end,
				UseResolvedRanking: roundsRemaining != 0,
			}
			round = append(round, m)
			allMatches = append(allMatches, m)
			matchNum++
		}
		rounds = append(rounds, round)

		if len(round) == 1 {
			break
		}

		var nextTeams [][]compstate.TeamID
		for i := 0; i < len(round); i += 2 {
			var winners []compstate.TeamID
			for _, parent := range round[i : i+2] {
				winners = append(winners, resolveWinners(parent.ID(), knockoutScores, resolved)...)
			}
			nextTeams = append(nextTeams, winners)
		}
		currentTeams = nextTeams

		// Collect tiebreaker needs raised while resolving this round's
		// predecessors. A predecessor already present in resolved has
		// had its tiebreaker scored, so it is no longer ambiguous.
		for i := 0; i < len(round); i++ {
			if _, already := resolved[round[i].ID()]; already {
				continue
			}
			report, ok := knockoutScores[round[i].ID()]
			if !ok {
				continue
			}
			ranked := RankMatch(report)
			if tied, needed := detector.CheckCutoff(round[i].ID(), ranked, advancing); needed {
				needs = append(needs, TiebreakerNeed{ParentMatch: round[i].ID(), Cutoff: advancing, Tied: tied})
			}
		}
	}

	return rounds, allMatches, needs, nil
}

// resolveWinners returns the top `advancing` teams of match's
// ScoreReport if scored and unambiguous, the resolved order from a
// scored tiebreaker if one is available in resolved, or a slice of
// UnknownTeam placeholders (length `advancing`) otherwise. Detecting and
// recording ambiguity is the caller's responsibility (via
// TieDetector.CheckCutoff), since the same match is only inspected once
// per round regardless of how many siblings reference it.
func resolveWinners(match compstate.MatchID, scores map[compstate.MatchID]*compstate.ScoreReport, resolved map[compstate.MatchID][]compstate.TeamID) []compstate.TeamID {
	if order, ok := resolved[match]; ok {
		out := make([]compstate.TeamID, advancing)
		for i := range out {
			if i < len(order) {
				out[i] = order[i]
			} else {
				out[i] = UnknownTeam
			}
		}
		return out
	}

	report, ok := scores[match]
	if !ok {
		return []compstate.TeamID{UnknownTeam, UnknownTeam}
	}

	ranked := RankMatch(report)
	if len(ranked) < advancing {
		return []compstate.TeamID{UnknownTeam, UnknownTeam}
	}

	boundary := ranked[advancing-1].RawPoints
	if advancing < len(ranked) && ranked[advancing].RawPoints == boundary {
		return []compstate.TeamID{UnknownTeam, UnknownTeam}
	}

	out := make([]compstate.TeamID, advancing)
	for i := 0; i < advancing; i++ {
		out[i] = ranked[i].ID
	}
	return out
}

// displayName mirrors the conventional knockout match naming scheme:
// the last round is the Final, the one before it the Semis, the one
// before that the Quarters, and earlier rounds are named generically.
func displayName(roundsRemaining, roundPosition int, num compstate.MatchNumber) string {
	switch roundsRemaining {
	case 0:
		return fmt.Sprintf("Final (#%d)", num)
	case 1:
		return fmt.Sprintf("Semi %d (#%d)", roundPosition+1, num)
	case 2:
		return fmt.Sprintf("Quarter %d (#%d)", roundPosition+1, num)
	default:
		return fmt.Sprintf("Match %d", num)
	}
}
