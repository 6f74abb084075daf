package pipeline

import (
	"errors"
	"fmt"

	"mlbstats/internal"
	"mlbstats/internal/config"
	"mlbstats/internal/util"
)

var ErrInvalidValue = errors.New("required numeric field is not a number")

// Definition is everything the pipeline knows about one record category: where its table is,
// how its row shapes map to fields, and which noise is trimmed from the result.
type Definition struct {
	Category  internal.Category
	URL       string
	Anchor    Locator
	Layouts   map[int]Layout
	StopClass string
	Exclude   []string
	DedupeKey []internal.Field
	Window    Window
	Table     internal.Table
}

var (
	// Season records: the 6-cell rows open a league block with a leading rank/era cell.
	battingLayouts = map[int]Layout{
		6: {
			internal.FieldLeague: {Index: 1},
			internal.FieldName:   {Index: 2},
			internal.FieldTeam:   {Index: 3},
			internal.FieldValue:  {Index: 4},
			internal.FieldYear:   {Index: 5},
		},
		5: {
			internal.FieldLeague: {Index: 0},
			internal.FieldName:   {Index: 1},
			internal.FieldTeam:   {Index: 2},
			internal.FieldValue:  {Index: 3},
			internal.FieldYear:   {Index: 4},
		},
	}

	homeRunLayouts = map[int]Layout{
		6: {
			internal.FieldName:  {Index: 2, Link: true},
			internal.FieldValue: {Index: 5, Link: true},
		},
		5: {
			internal.FieldName:  {Index: 1, Link: true},
			internal.FieldValue: {Index: 4, Link: true},
		},
		4: {
			internal.FieldName:  {Index: 0, Link: true},
			internal.FieldValue: {Index: 3, Link: true},
		},
	}

	strikeoutLayouts = map[int]Layout{
		6: {
			internal.FieldLeague: {Index: 1},
			internal.FieldName:   {Index: 2, Link: true},
			internal.FieldValue:  {Index: 5},
		},
		5: {
			internal.FieldLeague: {Index: 0},
			internal.FieldName:   {Index: 1, Link: true},
			internal.FieldValue:  {Index: 4},
		},
	}
)

// Definitions resolves the configured sources into the three category definitions, in run order.
func Definitions(sources config.Sources) ([]Definition, error) {
	batting, err := ParseLocator(sources.Batting.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%s anchor: %w", internal.CategoryBatting, err)
	}
	homeRuns, err := ParseLocator(sources.HomeRuns.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%s anchor: %w", internal.CategoryHomeRuns, err)
	}
	strikeouts, err := ParseLocator(sources.Strikeouts.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%s anchor: %w", internal.CategoryStrikeout, err)
	}

	return []Definition{
		{
			Category:  internal.CategoryBatting,
			URL:       sources.Batting.URL,
			Anchor:    batting,
			Layouts:   battingLayouts,
			StopClass: sources.Batting.StopClass,
			Exclude:   sources.Batting.Exclude,
			DedupeKey: []internal.Field{internal.FieldName, internal.FieldValue},
			Window:    windowFor(sources.Batting),
			Table:     internal.TableBatting,
		},
		{
			Category:  internal.CategoryHomeRuns,
			URL:       sources.HomeRuns.URL,
			Anchor:    homeRuns,
			Layouts:   homeRunLayouts,
			StopClass: sources.HomeRuns.StopClass,
			Exclude:   sources.HomeRuns.Exclude,
			DedupeKey: []internal.Field{internal.FieldName},
			Window:    windowFor(sources.HomeRuns),
			Table:     internal.TableHomeRuns,
		},
		{
			Category:  internal.CategoryStrikeout,
			URL:       sources.Strikeouts.URL,
			Anchor:    strikeouts,
			Layouts:   strikeoutLayouts,
			StopClass: sources.Strikeouts.StopClass,
			Exclude:   sources.Strikeouts.Exclude,
			DedupeKey: []internal.Field{internal.FieldLeague, internal.FieldName},
			Window:    windowFor(sources.Strikeouts),
			Table:     internal.TableStrikeouts,
		},
	}, nil
}

func windowFor(s config.Source) Window {
	return Window{Head: s.TopN, TrimTail: s.TailTrim}
}

// BuildRecord coerces a raw record into the typed record of its category. Batting averages and
// home-run totals are required; years and strikeout totals may be null.
func BuildRecord(category internal.Category, raw internal.RawRecord) (internal.Record, error) {
	switch category {
	case internal.CategoryBatting:
		avg := util.CoerceFloat(raw.Value)
		if avg == nil {
			return nil, fmt.Errorf("%w: batting average %q", ErrInvalidValue, raw.Value)
		}
		return internal.BattingRecord{
			League:         raw.League,
			Name:           raw.Name,
			Team:           raw.Team,
			BattingAverage: *avg,
			Year:           util.CoerceInt(raw.Year),
		}, nil
	case internal.CategoryHomeRuns:
		hr := util.CoerceInt(raw.Value)
		if hr == nil {
			return nil, fmt.Errorf("%w: career home runs %q", ErrInvalidValue, raw.Value)
		}
		return internal.HomeRunRecord{Name: raw.Name, CareerHomeRuns: *hr}, nil
	case internal.CategoryStrikeout:
		return internal.StrikeoutRecord{
			League:           raw.League,
			Name:             raw.Name,
			CareerStrikeouts: util.CoerceInt(raw.Value),
		}, nil
	default:
		return nil, fmt.Errorf("unknown category: %s", category)
	}
}
