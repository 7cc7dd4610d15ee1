package loader

import (
	"os"

	"github.com/compcore/compcore/internal/compstate"
)

type shepherdingFile struct {
	Regions []struct {
		Name    string   `yaml:"name"`
		Colour  string   `yaml:"colour"`
		Regions []string `yaml:"regions"`
	} `yaml:"regions"`
}

// loadVenue parses shepherding.yaml, which core never inspects beyond
// pass-through exposure. Its absence is not an error.
func loadVenue(path string) (compstate.Venue, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return compstate.Venue{}, nil
	}

	var raw shepherdingFile
	if err := decodeYAMLFile(path, &raw); err != nil {
		return compstate.Venue{}, err
	}

	venue := compstate.Venue{}
	for _, s := range raw.Regions {
		regions := make([]compstate.ShepherdRegion, 0, len(s.Regions))
		for _, r := range s.Regions {
			regions = append(regions, compstate.ShepherdRegion(r))
		}
		venue.Shepherds = append(venue.Shepherds, compstate.Shepherd{
			Name:    s.Name,
			Colour:  s.Colour,
			Regions: regions,
		})
	}
	return venue, nil
}
