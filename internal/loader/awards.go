package loader

import (
	"fmt"
	"os"
	"sort"

	"github.com/compcore/compcore/internal/compstate"
)

// loadAwards parses awards.yaml, whose values are either a single TeamId
// scalar or a list of TeamId scalars. Its absence is not an error: a
// competition need not declare any awards yet.
func loadAwards(path string) (map[compstate.AwardKind][]compstate.TeamID, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[compstate.AwardKind][]compstate.TeamID{}, nil
	}

	var raw map[string]any
	if err := decodeYAMLFile(path, &raw); err != nil {
		return nil, err
	}

	out := make(map[compstate.AwardKind][]compstate.TeamID, len(raw))
	kinds := make([]string, 0, len(raw))
	for k := range raw {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		switch v := raw[kind].(type) {
		case string:
			out[compstate.AwardKind(kind)] = []compstate.TeamID{compstate.TeamID(v)}
		case []any:
			teams := make([]compstate.TeamID, 0, len(v))
			for _, e := range v {
				s, ok := e.(string)
				if !ok {
					return nil, &compstate.SchemaError{
						Code:     compstate.ErrCodeSchema,
						Message:  fmt.Sprintf("awards.yaml: %s entry is not a team id", kind),
						Location: compstate.Location{Path: path},
					}
				}
				teams = append(teams, compstate.TeamID(s))
			}
			out[compstate.AwardKind(kind)] = teams
		default:
			return nil, &compstate.SchemaError{
				Code:     compstate.ErrCodeSchema,
				Message:  fmt.Sprintf("awards.yaml: %s has unsupported value shape", kind),
				Location: compstate.Location{Path: path},
			}
		}
	}

	return out, nil
}
