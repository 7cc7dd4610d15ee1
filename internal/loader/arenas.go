package loader

import (
	"github.com/compcore/compcore/internal/compstate"
)

type arenasFile struct {
	Arenas map[string]struct {
		DisplayName string `yaml:"display_name"`
		Colour      string `yaml:"colour"`
	} `yaml:"arenas"`
	TeamsPerArena int `yaml:"teams_per_arena"`
}

func loadArenas(path string) (map[compstate.ArenaID]compstate.Arena, int, error) {
	var raw arenasFile
	if err := decodeYAMLFile(path, &raw); err != nil {
		return nil, 0, err
	}

	out := make(map[compstate.ArenaID]compstate.Arena, len(raw.Arenas))
	for id, a := range raw.Arenas {
		out[compstate.ArenaID(id)] = compstate.Arena{
			ID:          compstate.ArenaID(id),
			DisplayName: a.DisplayName,
			Colour:      a.Colour,
		}
	}
	return out, raw.TeamsPerArena, nil
}
