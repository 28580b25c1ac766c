package stats

import (
	"sort"

	"waste-monitor-backend/internal/model"
)

// RankLimit bounds both ranking lists.
const RankLimit = 10

// Ranking holds the best and worst scoring bins.
type Ranking struct {
	Performers []ScoredBin `json:"performers"`
	Offenders  []ScoredBin `json:"offenders"`
}

// Rank scores every bin in readings and returns up to limit bins in each
// direction. Equal scores keep first-appearance order.
func Rank(readings []model.Reading, limit int) Ranking {
	bins := ByBin(readings)
	scored := make([]ScoredBin, len(bins))
	for i, b := range bins {
		scored[i] = b.WithScore()
	}

	performers := make([]ScoredBin, len(scored))
	copy(performers, scored)
	sort.SliceStable(performers, func(i, j int) bool { return performers[i].Score > performers[j].Score })

	offenders := make([]ScoredBin, len(scored))
	copy(offenders, scored)
	sort.SliceStable(offenders, func(i, j int) bool { return offenders[i].Score < offenders[j].Score })

	return Ranking{
		Performers: head(performers, limit),
		Offenders:  head(offenders, limit),
	}
}

func head(bins []ScoredBin, n int) []ScoredBin {
	if len(bins) > n {
		return bins[:n]
	}
	return bins
}
