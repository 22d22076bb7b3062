package cards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOrderedDeckIsComplete(t *testing.T) {
	d := NewOrderedDeck()
	require.Equal(t, 52, d.Remaining())

	seen := make(map[Card]bool)
	for _, c := range d.cards {
		require.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
	require.Len(t, seen, 52)
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	d1 := NewOrderedDeck()
	d1.Shuffle(rand.New(rand.NewSource(42)))

	d2 := NewOrderedDeck()
	d2.Shuffle(rand.New(rand.NewSource(42)))

	require.Equal(t, d1.cards, d2.cards)
}

func TestDrawRemovesFromFront(t *testing.T) {
	d := NewOrderedDeck()
	hand := d.Draw(13)
	require.Len(t, hand, 13)
	require.Equal(t, 39, d.Remaining())
	require.Equal(t, Card{Suit: Club, Rank: Two}, hand[0])
}

func TestSortHandOrdersBySuitThenRank(t *testing.T) {
	hand := []Card{
		{Suit: Spade, Rank: Two},
		{Suit: Club, Rank: Ace},
		{Suit: Club, Rank: Two},
	}
	SortHand(hand)
	require.Equal(t, []Card{
		{Suit: Club, Rank: Two},
		{Suit: Club, Rank: Ace},
		{Suit: Spade, Rank: Two},
	}, hand)
}

func TestTrickWinnerLeadingSuit(t *testing.T) {
	trick := [4]Card{
		{Suit: Heart, Rank: Ten},
		{Suit: Heart, Rank: King},
		{Suit: Club, Rank: Ace},
		{Suit: Heart, Rank: Jack},
	}
	require.Equal(t, 1, TrickWinner(trick, Heart))
}

func TestTrickWinnerSpadeTrumps(t *testing.T) {
	trick := [4]Card{
		{Suit: Heart, Rank: Ace},
		{Suit: Spade, Rank: Two},
		{Suit: Heart, Rank: King},
		{Suit: Club, Rank: Ace},
	}
	require.Equal(t, 1, TrickWinner(trick, Heart))
}

func TestTrickWinnerHighestSpadeAmongMultiple(t *testing.T) {
	trick := [4]Card{
		{Suit: Spade, Rank: Three},
		{Suit: Spade, Rank: King},
		{Suit: Heart, Rank: Ace},
		{Suit: Spade, Rank: Jack},
	}
	require.Equal(t, 1, TrickWinner(trick, Heart))
}

func TestHasSuit(t *testing.T) {
	hand := []Card{{Suit: Club, Rank: Two}, {Suit: Heart, Rank: Ace}}
	require.True(t, HasSuit(hand, Club))
	require.False(t, HasSuit(hand, Spade))
}
