// Package types contains the views returned across the service boundary.
package types

import (
	"github.com/okian/flagrank/internal/domain/leaderboard"
	"github.com/okian/flagrank/internal/domain/match"
	"github.com/okian/flagrank/internal/domain/model"
	"github.com/okian/flagrank/internal/domain/rating"
)

// ItemView is an item with its derived statistics.
type ItemView struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	URL     string  `json:"url"`
	Rating  float64 `json:"rating"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
}

// MatchView is an issued comparison.
type MatchView struct {
	MatchID string   `json:"match_id"`
	A       ItemView `json:"a"`
	B       ItemView `json:"b"`
}

// DeltaView is one side's rating change after an outcome.
type DeltaView struct {
	Code     string  `json:"code"`
	Result   string  `json:"result"`
	Expected float64 `json:"expected"`
	Delta    float64 `json:"delta"`
	Rating   float64 `json:"rating"`
}

// OutcomeView is the applied result of a submitted outcome.
type OutcomeView struct {
	MatchID string    `json:"match_id"`
	Outcome string    `json:"outcome"`
	A       DeltaView `json:"a"`
	B       DeltaView `json:"b"`
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// NewItemView derives the view of an item.
func NewItemView(i model.Item) ItemView {
	return ItemView{
		Code:    i.Code,
		Name:    i.Name,
		URL:     i.URL,
		Rating:  i.Rating,
		Wins:    i.Wins,
		Losses:  i.Losses,
		Draws:   i.Draws,
		Games:   i.Games(),
		WinRate: leaderboard.WinRate(i),
	}
}

// NewDeltaView builds a delta view. after is the item once the change applied.
func NewDeltaView(after model.Item, c rating.Change) DeltaView {
	return DeltaView{
		Code:     after.Code,
		Result:   c.Result.String(),
		Expected: c.Expected,
		Delta:    c.Delta,
		Rating:   after.Rating,
	}
}

// NewOutcomeView builds the view of a resolution given both items after it.
func NewOutcomeView(r match.Resolution, a, b model.Item) OutcomeView {
	return OutcomeView{
		MatchID: r.Match.ID,
		Outcome: r.Outcome.String(),
		A:       NewDeltaView(a, r.A),
		B:       NewDeltaView(b, r.B),
	}
}

// NewLeaderboard converts ranked entries into rows.
func NewLeaderboard(entries []leaderboard.Entry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			Rank:      e.Rank,
			Code:      e.Item.Code,
			Name:      e.Item.Name,
			URL:       e.Item.URL,
			Value:     e.Value,
			Formatted: e.Formatted,
		}
	}
	return out
}
