// Package model contains domain models passed between layers.
package model

import "time"

// DefaultRating is the rating every item starts from.
const DefaultRating = 1500.0

// Item is a rateable entry keyed by its code. The JSON shape is the
// persisted snapshot format.
type Item struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	URL    string  `json:"url"`
	Rating float64 `json:"rating"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Draws  int     `json:"draws"`
}

// Games returns the number of comparisons the item took part in.
func (i Item) Games() int {
	return i.Wins + i.Losses + i.Draws
}

// Record adds one result to the item's record.
func (i *Item) Record(r Result) {
	switch r {
	case Win:
		i.Wins++
	case Loss:
		i.Losses++
	case Draw:
		i.Draws++
	}
}

// PendingMatch is an issued comparison awaiting an outcome. It refers to
// items by code only so resolution always reads live state.
type PendingMatch struct {
	ID        string
	A         string
	B         string
	CreatedAt time.Time
}
