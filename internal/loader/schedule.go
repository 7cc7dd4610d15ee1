package loader

import (
	"fmt"
	"time"

	"github.com/compcore/compcore/internal/compstate"
)

// PeriodSpec is one parsed match_periods entry.
type PeriodSpec struct {
	Description string
	Start       time.Time
	End         time.Time
	MaxEnd      time.Time
	Type        compstate.MatchType
}

// DelaySpec is one parsed delays entry.
type DelaySpec struct {
	Time     time.Time
	Duration time.Duration
}

// ScheduleConfig is the parsed contents of schedule.yaml.
type ScheduleConfig struct {
	SlotLength time.Duration
	Gap        time.Duration
	Periods    []PeriodSpec
	Delays     []DelaySpec
}

type schedulePeriodFile struct {
	Description string    `yaml:"description"`
	StartTime   time.Time `yaml:"start_time"`
	EndTime     time.Time `yaml:"end_time"`
	MaxEndTime  time.Time `yaml:"max_end_time"`
	Type        string    `yaml:"type"`
}

type scheduleDelayFile struct {
	Time  time.Time `yaml:"time"`
	Delay int       `yaml:"delay"`
}

type scheduleFile struct {
	MatchSlotLengthSeconds int                  `yaml:"match_slot_length_seconds"`
	MatchPeriodGapSeconds  int                  `yaml:"match_period_gap_seconds"`
	MatchPeriods           []schedulePeriodFile `yaml:"match_periods"`
	Delays                 []scheduleDelayFile  `yaml:"delays"`
}

func parseMatchType(s string) (compstate.MatchType, error) {
	switch s {
	case "league":
		return compstate.League, nil
	case "knockout":
		return compstate.Knockout, nil
	case "tiebreaker":
		return compstate.Tiebreaker, nil
	default:
		return 0, fmt.Errorf("unknown match period type %q", s)
	}
}

func loadSchedule(path string) (ScheduleConfig, error) {
	var raw scheduleFile
	if err := decodeYAMLFile(path, &raw); err != nil {
		return ScheduleConfig{}, err
	}

	cfg := ScheduleConfig{
		SlotLength: time.Duration(raw.MatchSlotLengthSeconds) * time.Second,
		Gap:        time.Duration(raw.MatchPeriodGapSeconds) * time.Second,
	}

	for _, p := range raw.MatchPeriods {
		mt, err := parseMatchType(p.Type)
		if err != nil {
			return ScheduleConfig{}, &compstate.SchemaError{
				Code:     compstate.ErrCodeSchema,
				Message:  err.Error(),
				Location: compstate.Location{Path: path},
			}
		}
		cfg.Periods = append(cfg.Periods, PeriodSpec{
			Description: p.Description,
			Start:       p.StartTime,
			End:         p.EndTime,
			MaxEnd:      p.MaxEndTime,
			Type:        mt,
		})
	}

	for _, d := range raw.Delays {
		cfg.Delays = append(cfg.Delays, DelaySpec{
			Time:     d.Time,
			Duration: time.Duration(d.Delay) * time.Second,
		})
	}

	return cfg, nil
}
