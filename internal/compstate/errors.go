package compstate

import "fmt"

// ErrorCode is a short, stable identifier for a CompCore error, in an
// E0xx-style namespace (E001–E007) modelled on the codes the teacher's
// compiler/CLI layers use for validation and load errors.
type ErrorCode string

const (
	ErrCodeSchema          ErrorCode = "E001" // malformed compstate input
	ErrCodeReference       ErrorCode = "E002" // unknown team/arena reference
	ErrCodePlanExceeds     ErrorCode = "E003" // more matches planned than slots
	ErrCodeMissingScore    ErrorCode = "E004" // completed match has no scoresheet
	ErrCodeOutOfTime       ErrorCode = "E005" // clock asked for a slot past max_end
	ErrCodeScorer          ErrorCode = "E006" // scoring collaborator returned invalid data
	ErrCodeArenaMismatch   ErrorCode = "E007" // scoresheet arena does not match match plan
)

// Location pinpoints a file and, where available, a line within the
// compstate directory that an error was detected at.
type Location struct {
	Path string
	Line int
}

func (l Location) String() string {
	if l.Path == "" {
		return ""
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	}
	return l.Path
}

// SchemaError reports malformed compstate input detected by the
// deserialiser boundary (missing fields, wrong types, duplicate keys).
type SchemaError struct {
	Code     ErrorCode
	Message  string
	Location Location
}

func (e *SchemaError) Error() string {
	if loc := e.Location.String(); loc != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, loc, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ReferenceError reports a scoresheet or plan entry referencing an
// unknown team or arena.
type ReferenceError struct {
	Kind     string // "team" | "arena"
	Value    string
	Location Location
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("[%s] unknown %s %q referenced at %s", ErrCodeReference, e.Kind, e.Value, e.Location)
}

// PlanExceedsPeriodsError reports a match plan with more matches than the
// schedule's periods have slots for.
type PlanExceedsPeriodsError struct {
	MatchType     MatchType
	Planned       int
	AvailableSlots int
}

func (e *PlanExceedsPeriodsError) Error() string {
	return fmt.Sprintf(
		"[%s] %s plan has %d matches but only %d slots are available before max_end",
		ErrCodePlanExceeds, e.MatchType, e.Planned, e.AvailableSlots,
	)
}

// MissingScoreError reports a scheduled-complete match with no scoresheet.
// It is recoverable: standings treat the match as not-yet-scored, but the
// condition is surfaced on query.
type MissingScoreError struct {
	Match MatchID
}

func (e *MissingScoreError) Error() string {
	return fmt.Sprintf("[%s] no scoresheet for match %s/%d", ErrCodeMissingScore, e.Match.Arena, e.Match.Num)
}

// OutOfTimeError reports that the clock was asked for a slot that would
// start or end past the period's max_end.
type OutOfTimeError struct {
	Period string
}

func (e *OutOfTimeError) Error() string {
	return fmt.Sprintf("[%s] ran out of time scheduling period %q", ErrCodeOutOfTime, e.Period)
}

// ScorerError reports that the scoring collaborator returned invalid
// data: an unknown team, a duplicated team, or a malformed result.
type ScorerError struct {
	Message string
}

func (e *ScorerError) Error() string {
	return fmt.Sprintf("[%s] scorer error: %s", ErrCodeScorer, e.Message)
}

// ScoresheetArenaMismatchError reports a scoresheet filed under an arena
// that the match plan does not place that match number in.
type ScoresheetArenaMismatchError struct {
	Match    MatchID
	PlanArena ArenaID
}

func (e *ScoresheetArenaMismatchError) Error() string {
	return fmt.Sprintf(
		"[%s] scoresheet for match %d filed under arena %s but plan places it in %s",
		ErrCodeArenaMismatch, e.Match.Num, e.Match.Arena, e.PlanArena,
	)
}
