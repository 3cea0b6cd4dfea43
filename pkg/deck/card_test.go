package deck

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestNewCard(t *testing.T) {
	a := assert.New(t)

	c := NewCard(Hearts, 2)
	a.Equal(2, c.Value)

	a.Equal(11, NewCard(Clubs, Jack).Value)
	a.Equal(12, NewCard(Clubs, Queen).Value)
	a.Equal(13, NewCard(Clubs, King).Value)
	a.Equal(14, NewCard(Clubs, Ace).Value)

	a.PanicsWithValue("invalid rank: 1", func() {
		NewCard(Hearts, 1)
	})

	a.PanicsWithValue("invalid rank: 15", func() {
		NewCard(Hearts, 15)
	})
}

func TestCard_String(t *testing.T) {
	a := assert.New(t)

	a.Equal("2♡", NewCard(Hearts, 2).String())
	a.Equal("10♣", NewCard(Clubs, 10).String())
	a.Equal("J♢", NewCard(Diamonds, Jack).String())
	a.Equal("Q♠", NewCard(Spades, Queen).String())
	a.Equal("K♡", NewCard(Hearts, King).String())
	a.Equal("A♠", NewCard(Spades, Ace).String())
}

func TestCard_Equal(t *testing.T) {
	a := assert.New(t)

	a.True(NewCard(Hearts, 2).Equal(NewCard(Hearts, 2)))
	a.False(NewCard(Hearts, 2).Equal(NewCard(Spades, 2)))
	a.False(NewCard(Hearts, 2).Equal(NewCard(Hearts, 3)))
}

func TestCard_Beats(t *testing.T) {
	a := assert.New(t)

	a.True(NewCard(Hearts, Ace).Beats(NewCard(Spades, King)))
	a.False(NewCard(Spades, King).Beats(NewCard(Hearts, Ace)))

	// equal rank falls back to the suit order
	a.True(NewCard(Spades, 7).Beats(NewCard(Hearts, 7)))
	a.True(NewCard(Hearts, 7).Beats(NewCard(Diamonds, 7)))
	a.True(NewCard(Diamonds, 7).Beats(NewCard(Clubs, 7)))
	a.False(NewCard(Clubs, 7).Beats(NewCard(Spades, 7)))
}

func TestCardFromString(t *testing.T) {
	a := assert.New(t)

	a.Nil(CardFromString(""))
	a.Equal(Card{Suit: Hearts, Rank: 2, Value: 2}, *CardFromString("2h"))
	a.Equal(Card{Suit: Spades, Rank: 14, Value: 14}, *CardFromString("14s"))

	a.Panics(func() {
		CardFromString("15h")
	})

	a.Panics(func() {
		CardFromString("2x")
	})
}

func TestCardsToString(t *testing.T) {
	a := assert.New(t)

	cards := CardsFromString("2c,13h,14s")
	a.Len(cards, 3)
	a.Equal("2c,13h,14s", CardsToString(cards))
	a.Equal("", CardsToString(nil))
	a.Empty(CardsFromString(""))
}
