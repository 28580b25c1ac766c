package stats

import (
	"sort"

	"waste-monitor-backend/internal/model"
)

const dateLayout = "2006-01-02"

// DailySummary aggregates the readings of one UTC calendar day.
type DailySummary struct {
	Date        string  `json:"date"`
	TotalKg     float64 `json:"totalKg"`
	AvgMoisture float64 `json:"avgMoisture"`
	Count       int     `json:"count"`
}

type dayAcc struct {
	totalKg     float64
	moistureSum float64
	count       int
}

// ByDate groups readings by UTC date, newest date first. Days without
// readings are absent.
func ByDate(readings []model.Reading) []DailySummary {
	groups := make(map[string]*dayAcc)
	for _, r := range readings {
		key := r.Timestamp.UTC().Format(dateLayout)
		acc, ok := groups[key]
		if !ok {
			acc = &dayAcc{}
			groups[key] = acc
		}
		acc.totalKg += r.WeightKg
		acc.moistureSum += r.MoistureRaw
		acc.count++
	}

	out := make([]DailySummary, 0, len(groups))
	for date, acc := range groups {
		out = append(out, DailySummary{
			Date:        date,
			TotalKg:     round2(acc.totalKg),
			AvgMoisture: round2(average(acc.moistureSum, acc.count)),
			Count:       acc.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
