package loader

import (
	"sort"

	"github.com/compcore/compcore/internal/compstate"
)

type teamsFile struct {
	Teams map[string]struct {
		Name            string `yaml:"name"`
		Rookie          bool   `yaml:"rookie"`
		DroppedOutAfter *int   `yaml:"dropped_out_after"`
	} `yaml:"teams"`
}

// loadTeams resolves the open question in spec.md §9 ("ordered vs
// unordered mappings") by returning teams sorted alphabetically on
// TeamID, rather than relying on YAML map insertion order, which Go's
// map type does not preserve.
func loadTeams(path string) ([]*compstate.Team, error) {
	var raw teamsFile
	if err := decodeYAMLFile(path, &raw); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(raw.Teams))
	for id := range raw.Teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*compstate.Team, 0, len(ids))
	for _, id := range ids {
		t := raw.Teams[id]
		team := &compstate.Team{
			ID:     compstate.TeamID(id),
			Name:   t.Name,
			Rookie: t.Rookie,
		}
		if t.DroppedOutAfter != nil {
			n := compstate.MatchNumber(*t.DroppedOutAfter)
			team.DroppedOutAfter = &n
		}
		out = append(out, team)
	}
	return out, nil
}
