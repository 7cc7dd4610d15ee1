// Package clock resolves a MatchPeriod and its applicable Delays into a
// monotonic sequence of match slot start times.
//
// The algorithm is grounded on the teacher codebase's Clock
// (internal/engine/clock.go): there, a monotonic logical clock hands out
// strictly increasing sequence numbers for event ordering. Here, the
// same cursor-advance shape hands out strictly increasing match slot
// start times, generalised to also account for delays that land on or
// before the cursor before each slot is emitted.
package clock

import (
	"time"

	"github.com/compcore/compcore/internal/compstate"
)

// Delay shifts every slot whose pre-delay start is at or after Time by
// Duration.
type Delay struct {
	Time     time.Time
	Duration time.Duration
}

// Period is a planned contiguous scheduling window.
type Period struct {
	Description string
	Start       time.Time
	PlannedEnd  time.Time
	MaxEnd      time.Time
	Type        compstate.MatchType
}

// MatchPeriodClock resolves a Period and its Delays into a sequence of
// slot start times, advancing a cursor one slot at a time.
//
// Delays are applied exactly once, in Time order, the moment the cursor
// reaches or passes their trigger time. A delay inserted during an
// already-emitted slot does not retroactively shift that slot — only
// the cursor's current and future position can be pushed forward, never
// a start time already handed out.
type MatchPeriodClock struct {
	period      Period
	delays      []Delay
	cursor      time.Time
	nextDelay   int // index into delays of the next not-yet-applied delay

	// slotLength and gap remember the most recent values passed to
	// NextSlot/Slots, so CurrentSlot can replay the same slot sequence
	// without requiring the caller to repeat them.
	slotLength time.Duration
	gap        time.Duration
}

// New creates a clock for period, with delays sorted by Time. Delays
// whose Time is at or before period.Start are applied immediately so
// that CurrentTime reflects them before the first slot is read.
func New(period Period, delays []Delay) *MatchPeriodClock {
	sorted := make([]Delay, len(delays))
	copy(sorted, delays)
	// Stable insertion sort: delay lists are short and the teacher's
	// style favours explicit, obviously-correct code over sort.Slice
	// closures for small collections like this.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Time.Before(sorted[j-1].Time); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	c := &MatchPeriodClock{
		period: period,
		delays: sorted,
		cursor: period.Start,
	}
	c.applyDueDelays()
	return c
}

// applyDueDelays shifts the cursor forward by every not-yet-applied
// delay whose trigger time is at or before the cursor's current
// position, in order.
func (c *MatchPeriodClock) applyDueDelays() {
	for c.nextDelay < len(c.delays) {
		d := c.delays[c.nextDelay]
		if d.Time.After(c.cursor) {
			break
		}
		c.cursor = c.cursor.Add(d.Duration)
		c.nextDelay++
	}
}

// CurrentTime returns the cursor's current position, after applying any
// delays due at or before it.
func (c *MatchPeriodClock) CurrentTime() time.Time {
	return c.cursor
}

// AdvanceTime moves the cursor forward by d, then applies any delays now
// due.
func (c *MatchPeriodClock) AdvanceTime(d time.Duration) {
	c.cursor = c.cursor.Add(d)
	c.applyDueDelays()
}

// OutOfTime reports whether a slot of the given length starting at the
// current cursor position would end after the period's max end.
func (c *MatchPeriodClock) OutOfTime(slotLength time.Duration) bool {
	return c.cursor.Add(slotLength).After(c.period.MaxEnd)
}

// NextSlot returns the current slot start time if one is available
// (i.e. a slot of slotLength starting now would not exceed max_end), and
// advances the cursor past it (by slotLength+gap) for the next call.
// It returns compstate.OutOfTimeError if no further slot fits.
func (c *MatchPeriodClock) NextSlot(slotLength, gap time.Duration) (time.Time, error) {
	c.slotLength = slotLength
	c.gap = gap
	if c.OutOfTime(slotLength) {
		return time.Time{}, &compstate.OutOfTimeError{Period: c.period.Description}
	}
	start := c.cursor
	c.AdvanceTime(slotLength + gap)
	return start, nil
}

// CurrentSlot reports the start time of the slot in progress at now, if
// any: the slot whose [start, start+slotLength) window contains now.
// It replays the period from its original start using the slotLength
// and gap most recently passed to NextSlot or Slots, rather than
// consulting this clock's own cursor, since the cursor only moves
// forward past slots already handed out and cannot answer a query about
// an arbitrary point in time. Returns false if this clock has not yet
// been asked for any slots, or if now falls before the first slot,
// after the last, or in a gap between two slots.
func (c *MatchPeriodClock) CurrentSlot(now time.Time) (time.Time, bool) {
	if c.slotLength == 0 {
		return time.Time{}, false
	}
	replay := New(c.period, c.delays)
	for {
		start, err := replay.NextSlot(c.slotLength, c.gap)
		if err != nil {
			return time.Time{}, false
		}
		if start.After(now) {
			return time.Time{}, false
		}
		if now.Before(start.Add(c.slotLength)) {
			return start, true
		}
	}
}

// Slots returns every available slot start time for the period, given a
// fixed slotLength and inter-match gap. This exhausts the clock; create
// a fresh clock via New to iterate again.
func (c *MatchPeriodClock) Slots(slotLength, gap time.Duration) []time.Time {
	var out []time.Time
	for {
		start, err := c.NextSlot(slotLength, gap)
		if err != nil {
			break
		}
		out = append(out, start)
	}
	return out
}
