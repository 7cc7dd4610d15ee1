package compstate

// Arena is one physical competition arena.
type Arena struct {
	ID          ArenaID
	DisplayName string
	Colour      string
}

// RawScoresheet is the raw per-team data handed to the Scorer
// collaborator for one match: whatever the host's scoring module needs
// to compute game points and disqualifications.
type RawScoresheet struct {
	Arena ArenaID
	Num   MatchNumber
	Teams map[TeamID]ScoreTeamData
	Other map[string]any
}

// GamePoints is a single team's raw in-game score for one match, prior
// to league-points normalisation.
type GamePoints int

// Scorer is the pluggable, per-game scoring collaborator. CompCore never
// evaluates game-specific logic itself — a host process supplies an
// implementation (e.g. by shelling out to the compstate's scoring/score.py)
// and the core invokes only these two pure methods.
type Scorer interface {
	CalculateScores(sheet RawScoresheet) (map[TeamID]GamePoints, error)
	TeamsDisqualified(sheet RawScoresheet) ([]TeamID, error)
}
