package deck

import (
	"strings"
	"time"

	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/search"
)

// Search ranks candidates by similarity to query and drops those that
// share no token with it.
func Search(query string, candidates []*domain.Card) []*domain.Card {
	scored := search.Rank(query, candidates, (*domain.Card).Document)
	out := make([]*domain.Card, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}

// FilterDue keeps the cards due at or before now.
func FilterDue(candidates []*domain.Card, now time.Time) []*domain.Card {
	var out []*domain.Card
	for _, c := range candidates {
		if c.IsDue(now) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByTag keeps the cards carrying tag.
func FilterByTag(candidates []*domain.Card, tag string) []*domain.Card {
	var out []*domain.Card
	for _, c := range candidates {
		if c.HasTag(tag) {
			out = append(out, c)
		}
	}
	return out
}

// Query selects cards the way the study and browse views do.
type Query struct {
	Text    string // ranked search when not blank
	Tag     string // tag filter when not empty
	OnlyDue bool   // keep only cards due now
}

// Select applies the due filter, then the tag filter, then the ranked
// search, in that order.
func (d *Deck) Select(q Query) []*domain.Card {
	cards := d.Cards()
	if q.OnlyDue {
		cards = FilterDue(cards, d.now())
	}
	if q.Tag != "" {
		cards = FilterByTag(cards, q.Tag)
	}
	if strings.TrimSpace(q.Text) != "" {
		cards = Search(q.Text, cards)
	}
	return cards
}
