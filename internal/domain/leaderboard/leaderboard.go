// Package leaderboard derives ranked views over items.
package leaderboard

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/flagrank/internal/domain/model"
)

// Metric selects the value items are ranked by.
type Metric string

// Supported metrics.
const (
	MetricRating  Metric = "rating"
	MetricWinRate Metric = "winrate"
	MetricWins    Metric = "wins"
	MetricLosses  Metric = "losses"
)

// Metrics lists every metric in page order.
var Metrics = []Metric{MetricRating, MetricWinRate, MetricWins, MetricLosses}

// ParseMetric accepts a metric name; the empty string means rating.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case "", MetricRating:
		return MetricRating, nil
	case MetricWinRate, "win-rate", "win_rate":
		return MetricWinRate, nil
	case MetricWins:
		return MetricWins, nil
	case MetricLosses:
		return MetricLosses, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Entry is one ranked row.
type Entry struct {
	Rank      int
	Item      model.Item
	Value     float64
	Formatted string
}

// WinRate is the Laplace-smoothed win rate
// (wins + draws/2 + 1) / (games + 2). An unplayed item scores exactly 0.5.
func WinRate(i model.Item) float64 {
	return (float64(i.Wins) + float64(i.Draws)/2 + 1) / float64(i.Games()+2)
}

// Value returns the metric value for an item.
func Value(m Metric, i model.Item) float64 {
	switch m {
	case MetricWinRate:
		return WinRate(i)
	case MetricWins:
		return float64(i.Wins)
	case MetricLosses:
		return float64(i.Losses)
	default:
		return i.Rating
	}
}

// Format renders a metric value the way the leaders page shows it.
func Format(m Metric, v float64) string {
	switch m {
	case MetricWinRate:
		return strconv.FormatFloat(roundHalfUp(v*1000)/10, 'f', -1, 64) + "%"
	case MetricWins:
		return strconv.Itoa(int(v)) + " wins"
	case MetricLosses:
		return strconv.Itoa(int(v)) + " losses"
	default:
		return strconv.Itoa(int(roundHalfUp(v)))
	}
}

// Build ranks items by metric, highest first, using standard competition
// ranking: exact ties share a rank and the next distinct value skips ahead
// by the size of the tie (1,1,3). The input slice is not modified.
func Build(items []model.Item, m Metric) []Entry {
	out := make([]Entry, len(items))
	for i, it := range items {
		v := Value(m, it)
		out[i] = Entry{Item: it, Value: v, Formatted: Format(m, v)}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		// Display order only; ties share a rank regardless.
		if out[i].Item.Name != out[j].Item.Name {
			return out[i].Item.Name < out[j].Item.Name
		}
		return out[i].Item.Code < out[j].Item.Code
	})

	assignRanksWithTies(out)
	return out
}

// Top truncates a built board to at most n rows; n <= 0 keeps everything.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// assignRanksWithTies assigns competition ranks to entries sorted by value
// descending.
func assignRanksWithTies(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Value == entries[i-1].Value {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
