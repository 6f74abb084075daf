package dashboard

import (
	"cmp"
	"slices"

	"mlbstats/internal"
)

const (
	DefaultTopHomeRuns = 10
	DefaultTopPlayers  = 20
)

type YearCount struct {
	Year       int `json:"year"`
	Cumulative int `json:"cumulative"`
}

type LeagueCount struct {
	League string `json:"league"`
	Count  int    `json:"count"`
}

// BestFilter narrows the best-per-player view. Empty Leagues keeps every league; a nil MinAvg
// falls back to the median batting average.
type BestFilter struct {
	Leagues []string
	MinAvg  *float64
	TopN    int
}

// Filters is the domain of each dashboard control, computed from the stored batting records.
type Filters struct {
	Leagues   []string `json:"leagues"`
	MinAvg    float64  `json:"minAvg"`
	MaxAvg    float64  `json:"maxAvg"`
	MedianAvg float64  `json:"medianAvg"`
	Players   int      `json:"players"`
}

// TopHomeRuns returns the n career home-run leaders, most first.
func TopHomeRuns(records []internal.HomeRunRecord, n int) []internal.HomeRunRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b internal.HomeRunRecord) int {
		return cmp.Compare(b.CareerHomeRuns, a.CareerHomeRuns)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// CumulativeByYear counts records set up to and including each season. Records without a
// year are not counted.
func CumulativeByYear(records []internal.BattingRecord) []YearCount {
	years := make([]int, 0, len(records))
	for _, r := range records {
		if r.Year != nil {
			years = append(years, *r.Year)
		}
	}
	slices.Sort(years)

	var out []YearCount
	for i, y := range years {
		if len(out) > 0 && out[len(out)-1].Year == y {
			out[len(out)-1].Cumulative = i + 1
			continue
		}
		out = append(out, YearCount{Year: y, Cumulative: i + 1})
	}
	return out
}

// CountByLeague counts batting records per league, largest share first.
func CountByLeague(records []internal.BattingRecord) []LeagueCount {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		if _, ok := counts[r.League]; !ok {
			order = append(order, r.League)
		}
		counts[r.League]++
	}

	out := make([]LeagueCount, 0, len(order))
	for _, league := range order {
		out = append(out, LeagueCount{League: league, Count: counts[league]})
	}
	slices.SortStableFunc(out, func(a, b LeagueCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// BestPerPlayer keeps each player's highest batting average, then applies the filter and
// returns at most TopN records, best first.
func BestPerPlayer(records []internal.BattingRecord, filter BestFilter) []internal.BattingRecord {
	sorted := sortedByAverage(records)

	minAvg := Median(records)
	if filter.MinAvg != nil {
		minAvg = *filter.MinAvg
	}
	topN := filter.TopN
	if topN <= 0 {
		topN = DefaultTopPlayers
	}

	seen := map[string]struct{}{}
	out := make([]internal.BattingRecord, 0, topN)
	for _, r := range sorted {
		if _, dup := seen[r.Name]; dup {
			continue
		}
		seen[r.Name] = struct{}{}

		if len(filter.Leagues) > 0 && !slices.Contains(filter.Leagues, r.League) {
			continue
		}
		if r.BattingAverage < minAvg {
			continue
		}
		out = append(out, r)
		if len(out) == topN {
			break
		}
	}
	return out
}

// Median is the middle batting average, interpolated between the two middle values for an
// even count. It is 0 for no records.
func Median(records []internal.BattingRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	avgs := make([]float64, 0, len(records))
	for _, r := range records {
		avgs = append(avgs, r.BattingAverage)
	}
	slices.Sort(avgs)
	mid := len(avgs) / 2
	if len(avgs)%2 == 1 {
		return avgs[mid]
	}
	return (avgs[mid-1] + avgs[mid]) / 2
}

func FilterDomains(records []internal.BattingRecord) Filters {
	f := Filters{Leagues: []string{}}
	if len(records) == 0 {
		return f
	}

	players := map[string]struct{}{}
	f.MinAvg, f.MaxAvg = records[0].BattingAverage, records[0].BattingAverage
	for _, r := range records {
		if !slices.Contains(f.Leagues, r.League) {
			f.Leagues = append(f.Leagues, r.League)
		}
		players[r.Name] = struct{}{}
		f.MinAvg = min(f.MinAvg, r.BattingAverage)
		f.MaxAvg = max(f.MaxAvg, r.BattingAverage)
	}
	f.MedianAvg = Median(records)
	f.Players = len(players)
	return f
}

func sortedByAverage(records []internal.BattingRecord) []internal.BattingRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b internal.BattingRecord) int {
		return cmp.Compare(b.BattingAverage, a.BattingAverage)
	})
	return out
}
