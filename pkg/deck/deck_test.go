package deck

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := New()

	assert.Equal(t, 52, deck.CardsLeft())

	assert.Equal(t, Card{Rank: 2, Suit: Clubs, Value: 2}, *deck.Cards[0])
	assert.Equal(t, Card{Rank: 14, Suit: Spades, Value: 14}, *deck.Cards[51])

	// every suit and rank combination appears exactly once
	seen := make(map[string]bool)
	for _, card := range deck.Cards {
		key := fmt.Sprintf("%s-%d", card.Suit, card.Rank)
		assert.False(t, seen[key], "duplicate card %s", key)
		seen[key] = true
		assert.Equal(t, card.Rank, card.Value)
	}
	assert.Len(t, seen, 52)
}

func TestDeck_Shuffle(t *testing.T) {
	deck := New()
	unshuffled := deck.HashCode()

	deck.Shuffle(1)
	assert.Equal(t, int64(1), deck.GetSeed())
	assert.Equal(t, 52, deck.CardsLeft())
	assert.NotEqual(t, unshuffled, deck.HashCode())

	shuffledOnce := deck.HashCode()

	// same seed produces the same order
	deck2 := New()
	deck2.Shuffle(1)
	assert.Equal(t, shuffledOnce, deck2.HashCode())

	// another shuffle with a fresh seed changes the order
	deck.Shuffle(0)
	assert.NotEqual(t, shuffledOnce, deck.HashCode())

	assert.Panics(t, func() {
		deck.Shuffle(-1)
	})
}

func TestDeck_ShufflePreservesCards(t *testing.T) {
	deck := New()
	deck.Shuffle(42)

	seen := make(map[string]bool)
	for _, card := range deck.Cards {
		seen[fmt.Sprintf("%s-%d", card.Suit, card.Rank)] = true
	}

	assert.Len(t, seen, 52)
}

func TestDeck_ShuffleIsUnbiased(t *testing.T) {
	// the two of clubs starts at position 0 in an unshuffled deck. Over many
	// shuffles it should land roughly uniformly across all positions.
	const trials = 5200
	positions := make([]int, 52)

	for i := 0; i < trials; i++ {
		deck := New()
		deck.Shuffle(int64(i + 1))

		for pos, card := range deck.Cards {
			if card.Rank == 2 && card.Suit == Clubs {
				positions[pos]++
				break
			}
		}
	}

	// expected count per position is trials/52 = 100
	for pos, count := range positions {
		assert.Greater(t, count, 40, "position %d underrepresented", pos)
		assert.Less(t, count, 200, "position %d overrepresented", pos)
	}
}

func TestDeck_Draw(t *testing.T) {
	deck := New()

	if !deck.CanDraw(52) {
		t.Errorf("expected CanDraw(52) to be true")
	}

	if deck.CanDraw(53) {
		t.Errorf("expected CanDraw(53) to be false")
	}

	for i := 0; i < 52; i++ {
		card, err := deck.Draw()
		if card == nil {
			t.Error("expected card, got nil")
		}

		if err != nil {
			t.Errorf("expected err to be nil, got %v", err)
		}
	}

	card, err := deck.Draw()
	assert.Nil(t, card)
	assert.Equal(t, ErrEndOfDeck, err)
	assert.Equal(t, 0, deck.CardsLeft())
}
