package poker

import (
	"fmt"
	"math/rand/v2"
)

// Deck is a pool of cards drawn from without replacement. Draws are
// uniform over the cards remaining. A deck is not safe for concurrent use;
// give each goroutine its own deck and RNG.
type Deck struct {
	cards [52]Card
	size  int
	next  int
	rng   *rand.Rand // Random source for deterministic draws
}

// NewDeck creates a full 52-card deck driven by rng.
func NewDeck(rng *rand.Rand) *Deck {
	return NewDeckExcluding(rng, 0)
}

// NewDeckExcluding creates a deck with the dead cards left out.
func NewDeckExcluding(rng *rand.Rand, dead Hand) *Deck {
	d := &Deck{rng: rng}
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			c := NewCard(rank, suit)
			if dead.HasCard(c) {
				continue
			}
			d.cards[d.size] = c
			d.size++
		}
	}
	return d
}

// Draw deals n cards. The returned slice aliases the deck's arena and is
// valid until the next Reset.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n > d.size-d.next {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, d.size-d.next)
	}
	start := d.next
	for range n {
		d.drawOne()
	}
	return d.cards[start:d.next], nil
}

// DrawOne deals a single card.
func (d *Deck) DrawOne() (Card, error) {
	if d.next >= d.size {
		return 0, fmt.Errorf("%w: deck is empty", ErrInsufficientCards)
	}
	return d.drawOne(), nil
}

// drawOne swaps a uniform pick from the undrawn region up to the cursor,
// an incremental Fisher-Yates step.
func (d *Deck) drawOne() Card {
	span := d.size - d.next
	var j int
	if d.rng != nil {
		j = d.next + d.rng.IntN(span)
	} else {
		j = d.next + rand.IntN(span)
	}
	d.cards[d.next], d.cards[j] = d.cards[j], d.cards[d.next]
	c := d.cards[d.next]
	d.next++
	return c
}

// Reset returns every drawn card to the deck.
func (d *Deck) Reset() {
	d.next = 0
}

// CardsRemaining returns the number of undrawn cards.
func (d *Deck) CardsRemaining() int {
	return d.size - d.next
}
