package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waste-monitor-backend/internal/model"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func reading(bin string, weight, moisture float64, at time.Time) model.Reading {
	return model.Reading{
		ID:          fmt.Sprintf("%s-%d", bin, at.UnixNano()),
		BinID:       bin,
		WeightKg:    weight,
		MoistureRaw: moisture,
		WasteTag:    "mixed",
		Timestamp:   at,
	}
}

func TestNormalizeDays(t *testing.T) {
	testCases := map[string]int{
		"":     7,
		"0":    7,
		"-3":   7,
		"abc":  7,
		"10.5": 7,
		"1":    1,
		"10":   10,
		"30":   30,
		"45":   30,
	}
	for raw, want := range testCases {
		assert.Equal(t, want, NormalizeDays(raw), "days=%q", raw)
	}
}

func TestFilterByDays(t *testing.T) {
	cutoff := now.Add(-2 * 24 * time.Hour)
	readings := []model.Reading{
		reading("a", 1, 1, cutoff.Add(-time.Millisecond)),
		reading("b", 1, 1, cutoff),
		reading("c", 1, 1, now),
		reading("d", 1, 1, cutoff.Add(time.Hour)),
	}

	got := FilterByDays(readings, 2, now)

	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].BinID, "reading exactly at the cutoff is included")
	assert.Equal(t, "c", got[1].BinID)
	assert.Equal(t, "d", got[2].BinID)
}

func TestByDate(t *testing.T) {
	day1 := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	plus2 := time.FixedZone("UTC+2", 2*60*60)

	readings := []model.Reading{
		reading("a", 1.1, 500, day1.Add(1*time.Hour)),
		reading("b", 2.2, 601, day1.Add(23*time.Hour)),
		reading("a", 0.5, 400, day2.Add(30*time.Minute)),
		// 01:00 local is 23:00 UTC on the previous day
		reading("c", 1, 300, time.Date(2024, 6, 15, 1, 0, 0, 0, plus2)),
	}

	got := ByDate(readings)

	require.Len(t, got, 2)
	assert.Equal(t, DailySummary{Date: "2024-06-15", TotalKg: 0.5, AvgMoisture: 400, Count: 1}, got[0])
	assert.Equal(t, "2024-06-14", got[1].Date)
	assert.Equal(t, 3, got[1].Count)
	assert.Equal(t, 4.3, got[1].TotalKg)
	assert.Equal(t, 467.0, got[1].AvgMoisture)
}

func TestByDate_Empty(t *testing.T) {
	got := ByDate(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestByBin(t *testing.T) {
	readings := []model.Reading{
		reading("BIN-001", 1, 500, now),
		reading("bin-001", 4, 100, now),
		reading("BIN-001", 2, 700, now),
		reading("BIN-001", 3, 900, now),
	}

	got := ByBin(readings)

	require.Len(t, got, 2)
	assert.Equal(t, BinSummary{BinID: "BIN-001", TotalKg: 6, AvgWeight: 2, AvgMoisture: 700, Entries: 3}, got[0])
	assert.Equal(t, BinSummary{BinID: "bin-001", TotalKg: 4, AvgWeight: 4, AvgMoisture: 100, Entries: 1}, got[1])
}

func TestSummarize_Rounding(t *testing.T) {
	readings := []model.Reading{
		reading("x", 1, 1, now),
		reading("x", 1, 1, now),
		reading("x", 0.005, 2, now),
	}

	got := Summarize("x", readings)

	assert.Equal(t, 2.01, got.TotalKg)
	assert.Equal(t, 0.67, got.AvgWeight)
	assert.Equal(t, 1.33, got.AvgMoisture)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, BinSummary{BinID: "none"}, Summarize("none", nil))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, round2(1.005))
	assert.Equal(t, -1.01, round2(-1.005))
	assert.Equal(t, 2.35, round2(2.345))
	assert.Equal(t, 0.0, round2(0.004))
}

func TestSortByEntries(t *testing.T) {
	bins := []BinSummary{
		{BinID: "a", Entries: 1},
		{BinID: "b", Entries: 3},
		{BinID: "c", Entries: 1},
		{BinID: "d", Entries: 2},
	}
	SortByEntries(bins)

	var ids []string
	for _, b := range bins {
		ids = append(ids, b.BinID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestScore(t *testing.T) {
	testCases := []struct {
		name  string
		stats Stats
		want  int
	}{
		{"empty record", Stats{}, 100},
		{"moisture at 600", Stats{AvgMoisture: 600}, 100},
		{"moisture just above 600", Stats{AvgMoisture: 600.01}, 85},
		{"moisture at 750", Stats{AvgMoisture: 750}, 85},
		{"moisture just above 750", Stats{AvgMoisture: 750.01}, 70},
		{"weight at 1.5", Stats{AvgWeight: 1.5}, 100},
		{"weight just above 1.5", Stats{AvgWeight: 1.51}, 93},
		{"weight at 3", Stats{AvgWeight: 3}, 93},
		{"weight just above 3", Stats{AvgWeight: 3.01}, 80},
		{"15 entries", Stats{Entries: 15}, 100},
		{"16 entries clamps to 100", Stats{Entries: 16}, 100},
		{"bonus offsets penalty", Stats{AvgMoisture: 700, Entries: 16}, 90},
		{"worst case", Stats{AvgMoisture: 10000, AvgWeight: 100}, 50},
		{"all penalties with bonus", Stats{AvgMoisture: 800, AvgWeight: 4, Entries: 20}, 55},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.stats))
		})
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	for _, m := range []float64{-1e9, 0, 650, 1e9} {
		for _, w := range []float64{-1e9, 0, 2, 1e9} {
			for _, e := range []int{-5, 0, 16, 1 << 30} {
				s := Score(Stats{AvgMoisture: m, AvgWeight: w, Entries: e})
				assert.GreaterOrEqual(t, s, 0)
				assert.LessOrEqual(t, s, 100)
			}
		}
	}
}

func TestScoreBin(t *testing.T) {
	readings := []model.Reading{
		reading("BIN-001", 1, 500, now),
		reading("BIN-002", 9, 900, now),
		reading("BIN-001", 2, 700, now),
		reading("BIN-001", 3, 900, now),
	}

	got, err := ScoreBin("BIN-001", readings)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.TotalKg)
	assert.Equal(t, 2.0, got.AvgWeight)
	assert.Equal(t, 700.0, got.AvgMoisture)
	assert.Equal(t, 3, got.Entries)
	assert.Equal(t, 78, got.Score)

	_, err = ScoreBin("UNKNOWN-BIN", readings)
	assert.ErrorIs(t, err, ErrBinNotFound)
}

func TestRank(t *testing.T) {
	var readings []model.Reading
	// bin-00..bin-11: even bins are wet (score 85), odd bins are dry (100)
	for i := 0; i < 12; i++ {
		moisture := 100.0
		if i%2 == 0 {
			moisture = 700
		}
		readings = append(readings, reading(fmt.Sprintf("bin-%02d", i), 1, moisture, now))
	}
	readings = append(readings, reading("soaked", 5, 900, now))

	got := Rank(readings, RankLimit)

	require.Len(t, got.Performers, 10)
	require.Len(t, got.Offenders, 10)
	assert.Equal(t, "bin-01", got.Performers[0].BinID)
	assert.Equal(t, 100, got.Performers[0].Score)
	assert.Equal(t, "soaked", got.Offenders[0].BinID)
	assert.Equal(t, 50, got.Offenders[0].Score)
	assert.Equal(t, "bin-00", got.Offenders[1].BinID)

	for i := 1; i < len(got.Performers); i++ {
		assert.GreaterOrEqual(t, got.Performers[i-1].Score, got.Performers[i].Score)
		assert.LessOrEqual(t, got.Offenders[i-1].Score, got.Offenders[i].Score)
	}
}

func TestRank_FewBins(t *testing.T) {
	readings := []model.Reading{
		reading("wet", 1, 800, now),
		reading("dry", 1, 100, now),
	}

	got := Rank(readings, RankLimit)

	require.Len(t, got.Performers, 2)
	require.Len(t, got.Offenders, 2)
	assert.Equal(t, "dry", got.Performers[0].BinID)
	assert.Equal(t, "wet", got.Offenders[0].BinID)

	empty := Rank(nil, RankLimit)
	assert.NotNil(t, empty.Performers)
	assert.Empty(t, empty.Offenders)
}
