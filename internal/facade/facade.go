// Package facade composes every computation stage — loading, league
// scheduling and scoring, knockout seeding and bracket construction, and
// the winners resolver — into one Competition value, and answers
// time-parameterised queries against it.
//
// Grounded on the teacher's internal/engine.Engine: a single
// construction pass (there: the Run loop processing every queued event;
// here: one eager evaluation of the whole compstate) that produces a
// value callers then query. Failures are returned as errors; log/slog
// records each evaluation's start, any failed stage, each materialized
// tiebreaker (at debug level) and a completion summary. Unlike the teacher's Engine, there is no event
// queue and no goroutine — every CompCore query is a pure function of
// the already-computed state and a `now` argument, per spec.md §5's
// single-threaded, no-reentrancy evaluation model.
package facade

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/compcore/compcore/internal/compstate"
	"github.com/compcore/compcore/internal/knockout"
	"github.com/compcore/compcore/internal/loader"
	"github.com/compcore/compcore/internal/schedule"
	"github.com/compcore/compcore/internal/scoring"
	"github.com/compcore/compcore/internal/winners"
)

// groupSize mirrors internal/knockout's fixed 4-team knockout arena
// capacity (see knockout.BuildSeededBracket).
const groupSize = 4

// PendingSeedTiebreaker reports that knockout seeding cannot proceed
// because the standings boundary at the first-round slot count falls
// inside a tied group; the competition will schedule a Tiebreaker match
// among Tied and knockout rounds will be empty until a scoresheet
// resolving them is loaded.
type PendingSeedTiebreaker struct {
	Tied []compstate.TeamID
}

// Competition is one fully-evaluated compstate: every scheduled match,
// league standings, the knockout bracket (if computable yet), and
// resolved awards. It is immutable once built — every query method is a
// pure function of this value and an argument, never of wall-clock time.
type Competition struct {
	EvalID string // diagnostic correlation id, logged only, never affects results

	Arenas     map[compstate.ArenaID]compstate.Arena
	ArenaOrder []compstate.ArenaID
	Registry   *compstate.Registry

	Schedule loader.ScheduleConfig

	LeagueMatches   []*compstate.Match
	KnockoutMatches []*compstate.Match
	KnockoutRounds  []compstate.KnockoutRound

	// LeagueScores holds every league scoresheet found at load time,
	// keyed by match. A league match missing here is either still
	// upcoming or, if its slot has already elapsed, surfaced by
	// StateAt's MissingScores (spec.md §7: degrades to "not yet
	// scored" for standings — scoring.Accumulate simply never sees
	// it — but is surfaced on query).
	LeagueScores map[compstate.MatchID]*compstate.ScoreReport

	Standings []compstate.Standing

	Awards *winners.Result

	PendingSeedTiebreaker *PendingSeedTiebreaker
	TiebreakerNeeds       []knockout.TiebreakerNeed

	Venue compstate.Venue
}

// Load reads dir's compstate directory and evaluates it fully: binding
// the league schedule, normalising scores into standings, seeding and
// building the knockout bracket (static or automatic, per whether
// knockout.yaml is present), and resolving awards.
//
// The evaluation is eager and total: everything queryable via StateAt,
// Standings, MatchesAt, and NextMatchSlot is computed once here, exactly
// the "full evaluation from compstate to Competition object" spec.md §5
// describes.
func Load(dir string, mode loader.Mode) (*Competition, error) {
	evalID := uuid.NewString()
	slog.Info("evaluation starting", "eval_id", evalID, "compstate_dir", dir)

	res, errs := loader.Load(dir, mode)
	if len(errs) > 0 {
		slog.Error("evaluation failed during load", "eval_id", evalID, "error_count", len(errs))
		return nil, errs[0]
	}

	reg := compstate.NewRegistry(res.Teams)

	leagueMatches, err := schedule.Bind(reg, res.Arenas, res.LeaguePlan, res.Schedule, compstate.League)
	if err != nil {
		slog.Error("league scheduling failed", "eval_id", evalID, "error", err)
		return nil, err
	}

	leaguePoints := map[compstate.MatchID]compstate.LeaguePoints{}
	for matchID, report := range res.LeagueScores {
		leaguePoints[matchID] = scoring.Normalize(report)
	}
	stats := scoring.Accumulate(res.LeagueScores, leaguePoints)
	standings := scoring.BuildStandings(stats, scoring.DefaultTieBreakChain(reg.Order()))

	c := &Competition{
		EvalID:        evalID,
		Arenas:        res.Arenas,
		ArenaOrder:    res.ArenaOrder,
		Registry:      reg,
		Schedule:      res.Schedule,
		LeagueMatches: leagueMatches,
		LeagueScores:  res.LeagueScores,
		Standings:     standings,
		Venue:         res.Venue,
	}

	knockoutWinner, err := c.buildKnockout(reg, res)
	if err != nil {
		slog.Error("knockout scheduling failed", "eval_id", evalID, "error", err)
		return nil, err
	}

	c.Awards = winners.Resolve(standings, knockoutWinner, res.Awards)

	slog.Info("evaluation complete",
		"eval_id", evalID,
		"league_matches", len(leagueMatches),
		"knockout_matches", len(c.KnockoutMatches),
		"standings_entries", len(standings),
	)
	return c, nil
}

// buildKnockout constructs either the static or automatic bracket,
// depending on whether res.KnockoutPlan is present, and returns the
// resolved knockout champion if the final has been decided.
func (c *Competition) buildKnockout(reg *compstate.Registry, res *loader.Result) (*compstate.TeamID, error) {
	detector := knockout.NewTieDetector()

	if res.KnockoutPlan != nil {
		return c.buildStaticKnockout(reg, res, detector)
	}
	return c.buildSeededKnockout(res, detector)
}

// buildStaticKnockout resolves a knockout.yaml plan in two passes: the
// first discovers which "winner:N" placeholders and the final are
// ambiguous, materializes a Tiebreaker match for each (spec.md §4.6 —
// "it occupies one match slot from the clock"), then the second
// rebuilds the bracket feeding back any of those tiebreakers that
// already have a scoresheet, via ResolveWithTiebreaker.
func (c *Competition) buildStaticKnockout(reg *compstate.Registry, res *loader.Result, detector *knockout.TieDetector) (*compstate.TeamID, error) {
	seeds := c.flattenedSeeds()

	draft, needs, err := knockout.BuildStaticBracket(reg, res.Arenas, *res.KnockoutPlan, res.Schedule, seeds, res.KnockoutScores, detector, nil)
	if err != nil {
		return nil, err
	}
	if need := finalTieNeed(draft, res.KnockoutScores); need != nil {
		needs = append(needs, *need)
	}

	tiebreakers := c.materializeTiebreakers(needs, res.Schedule, len(res.KnockoutPlan.Numbers), nextMatchNumber(draft))
	resolved := resolveBracketTiebreakers(needs, tiebreakers, res.KnockoutScores)

	matches, remaining, err := knockout.BuildStaticBracket(reg, res.Arenas, *res.KnockoutPlan, res.Schedule, seeds, res.KnockoutScores, knockout.NewTieDetector(), resolved)
	if err != nil {
		return nil, err
	}
	remaining = appendOutstandingFinalNeed(remaining, matches, res.KnockoutScores, resolved)

	c.KnockoutMatches = append(matches, tiebreakers...)
	c.TiebreakerNeeds = remaining
	return finalWinner(matches, res.KnockoutScores, resolved), nil
}

// buildSeededKnockout mirrors buildStaticKnockout's two-pass shape for
// the automatic bracket, additionally covering the seed-selection
// boundary tie (spec.md §8 scenario 6): when the top-K cutoff falls
// inside a tied standings group and no seeding scoresheet resolves it
// yet, a Tiebreaker match is still materialized so it appears in
// upcoming_matches, even though the bracket itself cannot be built
// until it is scored.
func (c *Competition) buildSeededKnockout(res *loader.Result, detector *knockout.TieDetector) (*compstate.TeamID, error) {
	seeds, tied, needsTiebreaker, k := c.selectSeeds(res.Arenas)

	var seedNeed *knockout.TiebreakerNeed
	if needsTiebreaker {
		if order, ok := c.resolveSeedTiebreaker(tied, res.KnockoutScores); ok {
			remaining := k - len(seeds)
			if remaining > len(order) {
				remaining = len(order)
			}
			seeds = append(seeds, order[:remaining]...)
		} else {
			seedNeed = &knockout.TiebreakerNeed{Cutoff: k, Tied: tied}
			c.PendingSeedTiebreaker = &PendingSeedTiebreaker{Tied: tied}
		}
	}
	if len(seeds) == 0 || seedNeed != nil {
		if seedNeed != nil {
			c.KnockoutMatches = c.materializeTiebreakers([]knockout.TiebreakerNeed{*seedNeed}, res.Schedule, 0, 0)
			c.TiebreakerNeeds = []knockout.TiebreakerNeed{*seedNeed}
		}
		return nil, nil
	}

	rng := knockout.NewRandom(seedBytes(seeds))
	_, draft, needs, err := knockout.BuildSeededBracket(c.ArenaOrder, seeds, res.Schedule, 0, res.KnockoutScores, rng, detector, nil)
	if err != nil {
		return nil, err
	}
	if need := finalTieNeed(draft, res.KnockoutScores); need != nil {
		needs = append(needs, *need)
	}
	if seedNeed != nil {
		needs = append([]knockout.TiebreakerNeed{*seedNeed}, needs...)
	}

	tiebreakers := c.materializeTiebreakers(needs, res.Schedule, len(draft), nextMatchNumber(draft))
	resolved := resolveBracketTiebreakers(needs, tiebreakers, res.KnockoutScores)

	rng2 := knockout.NewRandom(seedBytes(seeds))
	rounds, matches, remaining, err := knockout.BuildSeededBracket(c.ArenaOrder, seeds, res.Schedule, 0, res.KnockoutScores, rng2, knockout.NewTieDetector(), resolved)
	if err != nil {
		return nil, err
	}
	remaining = appendOutstandingFinalNeed(remaining, matches, res.KnockoutScores, resolved)

	c.KnockoutRounds = rounds
	c.KnockoutMatches = append(matches, tiebreakers...)
	c.TiebreakerNeeds = remaining
	return finalWinner(matches, res.KnockoutScores, resolved), nil
}

// materializeTiebreakers schedules one Tiebreaker match per need, each
// drawing the next available knockout slot after the usedSlots already
// consumed by the regular bracket and numbered sequentially from
// nextNum. A need's position in needs is deterministic given the same
// scores, so re-evaluating the same compstate always assigns a given
// tiebreaker the same arena, number and slot — letting an operator file
// its scoresheet ahead of the next evaluation and have it recognised.
func (c *Competition) materializeTiebreakers(needs []knockout.TiebreakerNeed, cfg loader.ScheduleConfig, usedSlots int, nextNum compstate.MatchNumber) []*compstate.Match {
	if len(needs) == 0 {
		return nil
	}
	slots := schedule.SlotsForType(cfg, compstate.Knockout)

	var out []*compstate.Match
	for i, need := range needs {
		idx := usedSlots + i
		if idx >= len(slots) {
			break
		}
		start := slots[idx]
		arena := c.ArenaOrder[i%len(c.ArenaOrder)]

		teams := make([]*compstate.TeamID, len(need.Tied))
		for j := range need.Tied {
			id := need.Tied[j]
			teams[j] = &id
		}

		round := "seed"
		if need.ParentMatch != (compstate.MatchID{}) {
			round = fmt.Sprintf("%s#%d", need.ParentMatch.Arena, need.ParentMatch.Num)
		}
		slog.Debug("materializing tiebreaker",
			"round", round,
			"tiebreaker_id", compstate.TiebreakerID(round, need.Tied),
			"tied", need.Tied,
		)

		out = append(out, &compstate.Match{
			Num:         nextNum + compstate.MatchNumber(i),
			Arena:       arena,
			Type:        compstate.Tiebreaker,
			DisplayName: tiebreakerDisplayName(need),
			Teams:       teams,
			StartTime:   start,
			EndTime:     start.Add(cfg.SlotLength),
		})
	}
	return out
}

func tiebreakerDisplayName(need knockout.TiebreakerNeed) string {
	if need.ParentMatch == (compstate.MatchID{}) {
		return "Seeding tiebreaker"
	}
	return fmt.Sprintf("Tiebreaker for %s#%d", need.ParentMatch.Arena, need.ParentMatch.Num)
}

// resolveBracketTiebreakers checks each need's materialized match for a
// scoresheet and, if one is present, resolves the tied parent match's
// effective order via ResolveWithTiebreaker. Seed-level needs (no
// ParentMatch) are excluded — those are resolved by resolveSeedTiebreaker
// instead, since they rank the whole tied group rather than overriding
// one match's progression.
func resolveBracketTiebreakers(needs []knockout.TiebreakerNeed, tiebreakers []*compstate.Match, knockoutScores map[compstate.MatchID]*compstate.ScoreReport) map[compstate.MatchID][]compstate.TeamID {
	resolved := map[compstate.MatchID][]compstate.TeamID{}
	for i, need := range needs {
		if need.ParentMatch == (compstate.MatchID{}) {
			continue
		}
		if i >= len(tiebreakers) {
			continue
		}
		report, ok := knockoutScores[tiebreakers[i].ID()]
		if !ok {
			continue
		}
		parentReport, ok := knockoutScores[need.ParentMatch]
		if !ok {
			continue
		}
		ranked := knockout.RankMatch(parentReport)
		resolved[need.ParentMatch] = knockout.ResolveWithTiebreaker(ranked, report, need.Cutoff)
	}
	return resolved
}

// finalTieNeed reports a TiebreakerNeed if the last-built match (the
// final, by build-order convention) is scored but tied for first, so
// that case — otherwise invisible to the round-progression loop inside
// BuildSeededBracket/BuildStaticBracket, since the final has no next
// round to detect it from — still gets a scheduled Tiebreaker.
func finalTieNeed(matches []*compstate.Match, scores map[compstate.MatchID]*compstate.ScoreReport) *knockout.TiebreakerNeed {
	if len(matches) == 0 {
		return nil
	}
	final := matches[len(matches)-1]
	report, ok := scores[final.ID()]
	if !ok {
		return nil
	}
	ranked := knockout.RankMatch(report)
	if len(ranked) < 2 || ranked[0].RawPoints != ranked[1].RawPoints {
		return nil
	}
	top := ranked[0].RawPoints
	var tied []compstate.TeamID
	for _, r := range ranked {
		if r.RawPoints == top {
			tied = append(tied, r.ID)
		}
	}
	return &knockout.TiebreakerNeed{ParentMatch: final.ID(), Cutoff: 1, Tied: tied}
}

// appendOutstandingFinalNeed re-checks the final after a rebuild pass:
// if it is still tied and resolved holds no answer for it yet, the need
// belongs in the reported remaining set even though the fresh detector
// used for that pass never saw it (the final has no sibling to trigger
// CheckCutoff from).
func appendOutstandingFinalNeed(needs []knockout.TiebreakerNeed, matches []*compstate.Match, scores map[compstate.MatchID]*compstate.ScoreReport, resolved map[compstate.MatchID][]compstate.TeamID) []knockout.TiebreakerNeed {
	need := finalTieNeed(matches, scores)
	if need == nil {
		return needs
	}
	if _, ok := resolved[need.ParentMatch]; ok {
		return needs
	}
	return append(needs, *need)
}

func nextMatchNumber(matches []*compstate.Match) compstate.MatchNumber {
	var max compstate.MatchNumber
	for _, m := range matches {
		if m.Num > max {
			max = m.Num
		}
	}
	return max + 1
}

// selectSeeds picks the first-round slot count K (the fixed knockout
// group size times the number of arenas, capped at however many teams
// are actually eligible) and delegates the boundary-tie check to
// knockout.SelectSeeds. The pool it draws from is standings filtered
// down to knockout-eligible teams (spec.md §4.4's default rule: no
// dropouts, played at least one league match), not the raw standings —
// a team that dropped out mid-competition but still accumulated league
// points must not be seedable.
func (c *Competition) selectSeeds(arenas map[compstate.ArenaID]compstate.Arena) (seeds, tied []compstate.TeamID, needsTiebreaker bool, k int) {
	eligible := c.eligibleStandings()

	k = groupSize * len(arenas)
	total := 0
	for _, s := range eligible {
		total += len(s.Teams)
	}
	if k > total {
		k = total
	}
	seeds, tied, needsTiebreaker = knockout.SelectSeeds(eligible, k)
	return seeds, tied, needsTiebreaker, k
}

// eligibleStandings filters c.Standings down to the teams
// Registry.KnockoutEligible admits, preserving position order and
// dropping any tied group left empty once its ineligible members are
// removed. firstKnockoutMatch is set one past the last league match
// number, so any team that dropped out at or before the league's final
// match is excluded regardless of when exactly knockout matches end up
// numbered.
func (c *Competition) eligibleStandings() []compstate.Standing {
	played := map[compstate.TeamID]bool{}
	var lastLeagueMatch compstate.MatchNumber
	for _, m := range c.LeagueMatches {
		if m.Num > lastLeagueMatch {
			lastLeagueMatch = m.Num
		}
		for _, id := range m.PresentTeams() {
			played[id] = true
		}
	}

	allowed := map[compstate.TeamID]bool{}
	for _, id := range c.Registry.KnockoutEligible(played, lastLeagueMatch+1) {
		allowed[id] = true
	}

	out := make([]compstate.Standing, 0, len(c.Standings))
	for _, s := range c.Standings {
		var teams []compstate.TeamID
		for _, id := range s.Teams {
			if allowed[id] {
				teams = append(teams, id)
			}
		}
		if len(teams) == 0 {
			continue
		}
		out = append(out, compstate.Standing{Position: s.Position, Teams: teams, Points: s.Points})
	}
	return out
}

// flattenedSeeds returns every knockout-eligible team in standings
// order, used to resolve "seed:N" placeholders in a static knockout
// plan — unlike the automatic variant, a static plan may reference any
// seed position, not just the first-round slot count, but the pool it
// indexes into is the same eligible set.
func (c *Competition) flattenedSeeds() []compstate.TeamID {
	var out []compstate.TeamID
	for _, s := range c.eligibleStandings() {
		out = append(out, s.Teams...)
	}
	return out
}

// resolveSeedTiebreaker looks for a knockout scoresheet whose team set
// is exactly tied: that scoresheet is the Tiebreaker match spec.md §8
// scenario 6 describes as "auto-inserted before knockout seeding". The
// compstate format has no dedicated tiebreaker/ directory (spec.md §6
// lists only league/ and knockout/), so a seeding-stage tiebreaker's
// scoresheet is expected to be filed under knockout/ like any other
// match; it is identified by team-set match rather than match number,
// since no match number is reserved for it ahead of time.
func (c *Competition) resolveSeedTiebreaker(tied []compstate.TeamID, knockoutScores map[compstate.MatchID]*compstate.ScoreReport) ([]compstate.TeamID, bool) {
	want := map[compstate.TeamID]bool{}
	for _, id := range tied {
		want[id] = true
	}
	for _, report := range knockoutScores {
		if len(report.Teams) != len(want) {
			continue
		}
		match := true
		for id := range report.Teams {
			if !want[id] {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		return knockout.RankTiebreaker(report), true
	}
	return nil, false
}

// seedBytes derives a deterministic PRNG seed from the ordered seed
// list itself, so that re-evaluating the same standings produces the
// same shuffle (spec.md §5: "re-evaluating the same inputs produces
// byte-equal outputs").
func seedBytes(seeds []compstate.TeamID) []byte {
	var out []byte
	for _, id := range seeds {
		out = append(out, []byte(id)...)
	}
	return out
}

// finalWinner returns the winner of the final knockout match, or nil
// while it is undecided. The final is always the last match in matches'
// build order. A tied final resolved by a scored Tiebreaker match
// surfaces here too: its resolved order takes precedence over the
// final's own raw scoresheet. Otherwise the top-ranked team of the
// final's scoresheet wins; an unscored final or an unbroken tie for
// first gives nil.
func finalWinner(matches []*compstate.Match, scores map[compstate.MatchID]*compstate.ScoreReport, resolved map[compstate.MatchID][]compstate.TeamID) *compstate.TeamID {
	if len(matches) == 0 {
		return nil
	}
	final := matches[len(matches)-1]

	if order, ok := resolved[final.ID()]; ok && len(order) > 0 {
		id := order[0]
		return &id
	}

	report, ok := scores[final.ID()]
	if !ok {
		return nil
	}
	ranked := knockout.RankMatch(report)
	if len(ranked) == 0 {
		return nil
	}
	// A genuine tie for first in the final always spawns a tiebreaker
	// per spec.md §4.7; if ranked still shows an unbroken tie here, no
	// such tiebreaker has been scored yet, so there is no winner.
	if len(ranked) > 1 && ranked[0].RawPoints == ranked[1].RawPoints {
		return nil
	}
	id := ranked[0].ID
	return &id
}

// State is the answer to StateAt: the matches in progress at now, the
// next ones to come, how far behind schedule the enclosing period has
// slipped, current standings, and the knockout bracket as built so far.
type State struct {
	CurrentMatches  []*compstate.Match
	UpcomingMatches []*compstate.Match
	DelayedBy       time.Duration
	Standings       []compstate.Standing
	KnockoutRounds  []compstate.KnockoutRound

	// MissingScores lists, as of now, every league match whose slot has
	// already ended but which has no scoresheet on file — spec.md §7's
	// MissingScoreError, degraded for standings (the match just never
	// contributes) but surfaced here for an operator to chase down.
	MissingScores []*compstate.MissingScoreError
}

// StateAt answers spec.md §4.8's state_at query: every match in
// progress at now, every match still to come (earliest first),
// cumulative delay applied by now, current standings, and the knockout
// bracket built so far. Pure function of c and now.
func (c *Competition) StateAt(now time.Time) State {
	all := c.allMatches()

	var current, upcoming []*compstate.Match
	for _, m := range all {
		switch {
		case !m.StartTime.After(now) && m.EndTime.After(now):
			current = append(current, m)
		case m.StartTime.After(now):
			upcoming = append(upcoming, m)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].StartTime.Before(upcoming[j].StartTime) })

	return State{
		CurrentMatches:  current,
		UpcomingMatches: upcoming,
		DelayedBy:       c.delayedBy(now),
		Standings:       c.Standings,
		KnockoutRounds:  c.KnockoutRounds,
		MissingScores:   c.missingScoresAt(now),
	}
}

// missingScoresAt reports every league match whose EndTime has already
// elapsed as of now but which has no entry in c.LeagueScores.
func (c *Competition) missingScoresAt(now time.Time) []*compstate.MissingScoreError {
	var out []*compstate.MissingScoreError
	for _, m := range c.LeagueMatches {
		if m.EndTime.After(now) {
			continue
		}
		if _, ok := c.LeagueScores[m.ID()]; ok {
			continue
		}
		out = append(out, &compstate.MissingScoreError{Match: m.ID()})
	}
	return out
}

// MatchesAt returns every match whose [StartTime, EndTime) window
// contains now.
func (c *Competition) MatchesAt(now time.Time) []*compstate.Match {
	var out []*compstate.Match
	for _, m := range c.allMatches() {
		if !m.StartTime.After(now) && m.EndTime.After(now) {
			out = append(out, m)
		}
	}
	return out
}

// NextMatchSlot returns the earliest StartTime strictly after now and
// every match sharing it, or ok=false if no match starts after now.
func (c *Competition) NextMatchSlot(now time.Time) (start time.Time, matches []*compstate.Match, ok bool) {
	for _, m := range c.allMatches() {
		if !m.StartTime.After(now) {
			continue
		}
		if !ok || m.StartTime.Before(start) {
			start = m.StartTime
			matches = []*compstate.Match{m}
			ok = true
			continue
		}
		if m.StartTime.Equal(start) {
			matches = append(matches, m)
		}
	}
	return start, matches, ok
}

func (c *Competition) allMatches() []*compstate.Match {
	out := make([]*compstate.Match, 0, len(c.LeagueMatches)+len(c.KnockoutMatches))
	out = append(out, c.LeagueMatches...)
	out = append(out, c.KnockoutMatches...)
	return out
}

// delayedBy sums every schedule delay whose trigger time is at or
// before now: the cumulative shift every not-yet-started slot has
// absorbed. Delays are applied in sequence by internal/clock at
// build time, so this is a presentation-only re-derivation, not a
// second source of truth for slot times.
func (c *Competition) delayedBy(now time.Time) time.Duration {
	var total time.Duration
	for _, d := range c.Schedule.Delays {
		if !d.Time.After(now) {
			total += d.Duration
		}
	}
	return total
}
