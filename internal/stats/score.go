package stats

import (
	"errors"
	"math"

	"waste-monitor-backend/internal/model"
)

// ErrBinNotFound is returned when a score is requested for a bin with no readings.
var ErrBinNotFound = errors.New("no readings for bin")

// Scoring rubric. The thresholds are strict: a value equal to a threshold
// does not cross it.
const (
	baseScore = 100

	moistureHigh        = 750.0
	moistureHighPenalty = 30
	moistureMid         = 600.0
	moistureMidPenalty  = 15

	weightHigh        = 3.0
	weightHighPenalty = 20
	weightMid         = 1.5
	weightMidPenalty  = 7

	entriesBonusAbove = 15
	entriesBonus      = 5
)

// Stats is the subset of a bin summary the scorer looks at. Zero values stand
// in for missing fields.
type Stats struct {
	AvgMoisture float64
	AvgWeight   float64
	Entries     int
}

// ScoredBin is a bin summary with its segregation score.
type ScoredBin struct {
	BinSummary
	Score int `json:"score"`
}

// Score maps bin statistics to a segregation score in [0, 100].
func Score(s Stats) int {
	score := float64(baseScore)

	if s.AvgMoisture > moistureHigh {
		score -= moistureHighPenalty
	} else if s.AvgMoisture > moistureMid {
		score -= moistureMidPenalty
	}

	if s.AvgWeight > weightHigh {
		score -= weightHighPenalty
	} else if s.AvgWeight > weightMid {
		score -= weightMidPenalty
	}

	if s.Entries > entriesBonusAbove {
		score += entriesBonus
	}

	return int(math.Max(0, math.Min(100, math.Round(score))))
}

// Stats returns the scorer's view of the summary.
func (b BinSummary) Stats() Stats {
	return Stats{AvgMoisture: b.AvgMoisture, AvgWeight: b.AvgWeight, Entries: b.Entries}
}

// WithScore attaches the segregation score.
func (b BinSummary) WithScore() ScoredBin {
	return ScoredBin{BinSummary: b, Score: Score(b.Stats())}
}

// ScoreBin summarizes and scores the readings of one bin. Readings belonging to
// other bins are ignored.
func ScoreBin(binID string, readings []model.Reading) (ScoredBin, error) {
	var own []model.Reading
	for _, r := range readings {
		if r.BinID == binID {
			own = append(own, r)
		}
	}
	if len(own) == 0 {
		return ScoredBin{}, ErrBinNotFound
	}
	return Summarize(binID, own).WithScore(), nil
}
