package deck

import (
	"errors"

	"github.com/conorfennell/flashcards/internal/domain"
)

// ErrSessionEmpty is returned when grading a session with no cards.
var ErrSessionEmpty = errors.New("study session has no cards")

// Session walks a fixed queue of cards for study. The queue is chosen when
// the session starts and does not change as cards are reviewed.
type Session struct {
	deck  *Deck
	queue []*domain.Card
	pos   int
}

// NewSession starts a session over the cards selected by q.
func (d *Deck) NewSession(q Query) *Session {
	return &Session{deck: d, queue: d.Select(q)}
}

// Len returns the number of cards in the queue.
func (s *Session) Len() int {
	return len(s.queue)
}

// Position returns the 0-based index of the current card.
func (s *Session) Position() int {
	return s.pos
}

// Current returns the card under study, or nil for an empty session.
func (s *Session) Current() *domain.Card {
	if len(s.queue) == 0 {
		return nil
	}
	return s.queue[s.pos]
}

// Next moves forward; it reports false when already on the last card.
func (s *Session) Next() bool {
	if s.pos >= len(s.queue)-1 {
		return false
	}
	s.pos++
	return true
}

// Prev moves back; it reports false when already on the first card.
func (s *Session) Prev() bool {
	if s.pos == 0 {
		return false
	}
	s.pos--
	return true
}

// Reset returns to the first card.
func (s *Session) Reset() {
	s.pos = 0
}

// Done reports whether the current card is the last one.
func (s *Session) Done() bool {
	return s.pos >= len(s.queue)-1
}

// Grade reviews the current card with quality and moves to the next one,
// staying on the last card when the queue is exhausted.
func (s *Session) Grade(quality int) (*domain.Card, error) {
	c := s.Current()
	if c == nil {
		return nil, ErrSessionEmpty
	}
	reviewed, err := s.deck.Review(c.ID, quality)
	if err != nil {
		return nil, err
	}
	s.Next()
	return reviewed, nil
}
