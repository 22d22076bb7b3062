// Package scoring implements the per-round Spades bag/nil/contract math and
// game-over detection described for the A+C / B+D partnerships.
package scoring

// Partnership identifies one of the two fixed teams.
type Partnership int

const (
	TeamAC Partnership = iota
	TeamBD
)

// TeamState is one partnership's running score across the game.
type TeamState struct {
	CumulativePoints int
	Bags             int
}

// RoundResult records a single partnership's score delta for one round, for
// diagnostics and the end-to-end scenario tests in spec scenarios S1-S3.
type RoundResult struct {
	Delta       int
	BagsGained  int
	BagPenalty  bool
	NilApplied  [2]bool // per-partner, true if that partner bid nil this round
	NilSucceeded [2]bool
}

// ApplyRound updates ts in place for one completed round and returns the
// delta breakdown. bidA and bidB are the two partners' bids (0 means nil).
// tricksWon is the partnership's total tricks won this round. nilWonTrickA/B
// report whether the corresponding nil bidder (bid == 0) won at least one
// trick this round; the flag is ignored for a partner whose bid was not nil.
func (ts *TeamState) ApplyRound(bidA, bidB, tricksWon int, nilWonTrickA, nilWonTrickB bool) RoundResult {
	bid := bidA + bidB
	result := RoundResult{}

	before := ts.CumulativePoints
	if tricksWon >= bid {
		bags := tricksWon - bid
		ts.Bags += bags
		ts.CumulativePoints += bags + bid*10
		result.BagsGained = bags
	} else {
		ts.CumulativePoints -= bid * 10
	}

	if bidA == 0 {
		result.NilApplied[0] = true
		if !nilWonTrickA {
			ts.CumulativePoints += 100
			result.NilSucceeded[0] = true
		} else {
			ts.CumulativePoints -= 100
		}
	}
	if bidB == 0 {
		result.NilApplied[1] = true
		if !nilWonTrickB {
			ts.CumulativePoints += 100
			result.NilSucceeded[1] = true
		} else {
			ts.CumulativePoints -= 100
		}
	}

	if ts.Bags >= 10 {
		ts.Bags -= 10
		ts.CumulativePoints -= 100
		result.BagPenalty = true
	}

	result.Delta = ts.CumulativePoints - before
	return result
}

// GameOver reports whether the game has ended given both partnerships'
// cumulative points and the configured max-points target. Per spec §4.2/§9:
// if only one partnership has crossed the target, it wins; if both crossed
// in the same round, the strictly higher score wins; an exact tie continues
// play into another round.
func GameOver(teamAC, teamBD TeamState, maxPoints int) (over bool, winner Partnership) {
	aReached := teamAC.CumulativePoints >= maxPoints
	bReached := teamBD.CumulativePoints >= maxPoints

	switch {
	case aReached && bReached:
		if teamAC.CumulativePoints == teamBD.CumulativePoints {
			return false, -1
		}
		if teamAC.CumulativePoints > teamBD.CumulativePoints {
			return true, TeamAC
		}
		return true, TeamBD
	case aReached:
		return true, TeamAC
	case bReached:
		return true, TeamBD
	default:
		return false, -1
	}
}
