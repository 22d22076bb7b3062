package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeBidExactly(t *testing.T) {
	ts := TeamState{}
	res := ts.ApplyRound(3, 3, 6, false, false)
	require.Equal(t, 60, ts.CumulativePoints)
	require.Equal(t, 0, ts.Bags)
	require.Equal(t, 60, res.Delta)
}

func TestOverbidGainsBags(t *testing.T) {
	ts := TeamState{}
	ts.ApplyRound(2, 2, 6, false, false)
	require.Equal(t, 42, ts.CumulativePoints)
	require.Equal(t, 2, ts.Bags)
}

func TestMissedBidPenaltyIsNegativeBidTimesTen(t *testing.T) {
	ts := TeamState{}
	ts.ApplyRound(3, 2, 3, false, false)
	require.Equal(t, -50, ts.CumulativePoints)
	require.Equal(t, 0, ts.Bags)
}

func TestBagPenaltyAtTen(t *testing.T) {
	ts := TeamState{Bags: 7}
	res := ts.ApplyRound(1, 1, 5, false, false)
	require.Equal(t, 0, ts.Bags)
	require.True(t, res.BagPenalty)
	// bags gained = 5-2=3 -> 7+3=10 -> penalty to 0; contract = 2*10+3=23; net = 23-100=-77
	require.Equal(t, -77, res.Delta)
}

func TestNilBidSuccess(t *testing.T) {
	ts := TeamState{}
	res := ts.ApplyRound(0, 6, 6, false, false)
	require.True(t, res.NilApplied[0])
	require.True(t, res.NilSucceeded[0])
	require.Equal(t, 160, ts.CumulativePoints)
}

func TestNilBidFailure(t *testing.T) {
	ts := TeamState{}
	res := ts.ApplyRound(0, 6, 7, true, false)
	require.True(t, res.NilApplied[0])
	require.False(t, res.NilSucceeded[0])
	// contract: bid=6, tricks=7 -> bags=1, +60+1=61; nil fails -100 => -39
	require.Equal(t, -39, ts.CumulativePoints)
}

func TestGameOverSingleCrossing(t *testing.T) {
	over, winner := GameOver(TeamState{CumulativePoints: 510}, TeamState{CumulativePoints: 200}, 500)
	require.True(t, over)
	require.Equal(t, TeamAC, winner)
}

func TestGameOverTieContinues(t *testing.T) {
	over, _ := GameOver(TeamState{CumulativePoints: 500}, TeamState{CumulativePoints: 500}, 500)
	require.False(t, over)
}

func TestGameOverBothCrossHigherWins(t *testing.T) {
	over, winner := GameOver(TeamState{CumulativePoints: 520}, TeamState{CumulativePoints: 505}, 500)
	require.True(t, over)
	require.Equal(t, TeamAC, winner)
}
