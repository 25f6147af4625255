package vocab

// Deck is a flashcard cursor over a word list. Navigation wraps around
// and flipping shows the back of the current card.
type Deck struct {
	words   []Word
	index   int
	flipped bool
}

// NewDeck returns a deck positioned on the first card.
func NewDeck(words []Word) *Deck {
	return &Deck{words: words}
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.words) }

// Index returns the current card position.
func (d *Deck) Index() int { return d.index }

// Current returns the current card, or false when the deck is empty.
func (d *Deck) Current() (Word, bool) {
	if len(d.words) == 0 {
		return Word{}, false
	}
	return d.words[d.index], true
}

// Flipped reports whether the back of the current card is showing.
func (d *Deck) Flipped() bool { return d.flipped }

// Flip toggles the current card.
func (d *Deck) Flip() { d.flipped = !d.flipped }

// Next moves to the following card, wrapping to the first.
func (d *Deck) Next() {
	if len(d.words) == 0 {
		return
	}
	d.flipped = false
	d.index = (d.index + 1) % len(d.words)
}

// Prev moves to the previous card, wrapping to the last.
func (d *Deck) Prev() {
	if len(d.words) == 0 {
		return
	}
	d.flipped = false
	d.index = (d.index - 1 + len(d.words)) % len(d.words)
}
