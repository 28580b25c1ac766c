package stats

import (
	"sort"

	"waste-monitor-backend/internal/model"
)

// BinSummary aggregates the readings of one bin.
type BinSummary struct {
	BinID       string  `json:"binId"`
	TotalKg     float64 `json:"totalKg"`
	AvgWeight   float64 `json:"avgWeight"`
	AvgMoisture float64 `json:"avgMoisture"`
	Entries     int     `json:"entries"`
}

// Summarize aggregates readings under the given bin id. An empty selection
// yields zero averages.
func Summarize(binID string, readings []model.Reading) BinSummary {
	var totalKg, moistureSum float64
	for _, r := range readings {
		totalKg += r.WeightKg
		moistureSum += r.MoistureRaw
	}
	n := len(readings)
	return BinSummary{
		BinID:       binID,
		TotalKg:     round2(totalKg),
		AvgWeight:   round2(average(totalKg, n)),
		AvgMoisture: round2(average(moistureSum, n)),
		Entries:     n,
	}
}

// ByBin groups readings by exact bin id, in order of first appearance.
func ByBin(readings []model.Reading) []BinSummary {
	var order []string
	groups := make(map[string][]model.Reading)
	for _, r := range readings {
		if _, ok := groups[r.BinID]; !ok {
			order = append(order, r.BinID)
		}
		groups[r.BinID] = append(groups[r.BinID], r)
	}

	out := make([]BinSummary, 0, len(order))
	for _, id := range order {
		out = append(out, Summarize(id, groups[id]))
	}
	return out
}

// SortByEntries orders bins by entry count, most first. Ties keep input order.
func SortByEntries(bins []BinSummary) {
	sort.SliceStable(bins, func(i, j int) bool { return bins[i].Entries > bins[j].Entries })
}
