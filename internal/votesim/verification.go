package votesim

import (
	"fmt"

	"github.com/okian/flagrank/internal/domain/types"
)

// VerifyGames checks that every accepted vote added exactly one game to
// each side. It assumes no other client voted during the run.
func VerifyGames(before, after, accepted int) error {
	if got, want := after-before, 2*accepted; got != want {
		return fmt.Errorf("%w: games grew by %d, want %d for %d accepted votes",
			ErrGamesMismatch, got, want, accepted)
	}
	return nil
}

// VerifyBoard checks that entries are sorted by value descending and carry
// competition ranks: equal values share a rank and the next distinct value
// takes its 1-based position.
func VerifyBoard(metric string, entries []types.LeaderboardEntry) error {
	for i, e := range entries {
		if i == 0 {
			if e.Rank != 1 {
				return fmt.Errorf("%w: %s: first rank is %d", ErrBoardOrder, metric, e.Rank)
			}
			continue
		}

		prev := entries[i-1]
		switch {
		case e.Value > prev.Value:
			return fmt.Errorf("%w: %s: entry %d (%s) outranks entry %d (%s)",
				ErrBoardOrder, metric, i, e.Code, i-1, prev.Code)
		case e.Value == prev.Value && e.Rank != prev.Rank:
			return fmt.Errorf("%w: %s: tied entries %s and %s have ranks %d and %d",
				ErrBoardOrder, metric, prev.Code, e.Code, prev.Rank, e.Rank)
		case e.Value < prev.Value && e.Rank != i+1:
			return fmt.Errorf("%w: %s: entry %d (%s) has rank %d, want %d",
				ErrBoardOrder, metric, i, e.Code, e.Rank, i+1)
		}
	}
	return nil
}
