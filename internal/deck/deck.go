// Package deck is the working copy of a card collection and the operations
// a presentation layer performs on it.
//
// A Deck is owned by its caller and is not safe for concurrent use. It is
// loaded from and saved to a storage.Store explicitly; nothing is written
// behind the caller's back.
package deck

import (
	"fmt"
	"slices"
	"time"

	"github.com/conorfennell/flashcards/internal/autotag"
	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/logger"
	"github.com/conorfennell/flashcards/internal/sm2"
	"github.com/conorfennell/flashcards/internal/storage"
)

// Deck holds the cards being worked on, newest first.
type Deck struct {
	cards          []*domain.Card
	autoTags       func(front, back string) []string
	params         *sm2.Params
	newID          func() string
	now            func() time.Time
	log            *logger.Logger
	skipDuplicates bool
	onReview       func(domain.ReviewLog)
}

// Option configures a Deck.
type Option func(*Deck)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Deck) { d.now = now }
}

// WithIDGenerator replaces storage.NewID.
func WithIDGenerator(newID func() string) Option {
	return func(d *Deck) { d.newID = newID }
}

// WithLogger sets the logger used for import summaries.
func WithLogger(log *logger.Logger) Option {
	return func(d *Deck) { d.log = log }
}

// WithTagger replaces the default auto-tagger.
func WithTagger(t *autotag.Tagger) Option {
	return func(d *Deck) { d.autoTags = t.Tags }
}

// WithParams replaces the default SM-2 constants.
func WithParams(p *sm2.Params) Option {
	return func(d *Deck) { d.params = p }
}

// WithSkipDuplicates makes imports skip records whose content matches a
// card already in the deck.
func WithSkipDuplicates(skip bool) Option {
	return func(d *Deck) { d.skipDuplicates = skip }
}

// WithReviewHook registers a function called after every successful review.
func WithReviewHook(fn func(domain.ReviewLog)) Option {
	return func(d *Deck) { d.onReview = fn }
}

// New builds a deck over a copy of cards.
func New(cards []domain.Card, opts ...Option) *Deck {
	d := &Deck{
		autoTags: autotag.AutoTags,
		params:   sm2.DefaultParams(),
		newID:    storage.NewID,
		now:      time.Now,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.cards = make([]*domain.Card, len(cards))
	for i := range cards {
		d.cards[i] = cards[i].Clone()
	}
	return d
}

// Load builds a deck from the durable store.
func Load(s storage.Store, opts ...Option) *Deck {
	return New(s.Load(), opts...)
}

// Save writes the working copy to s. The deck is unchanged whether or not
// the save succeeds.
func (d *Deck) Save(s storage.Store) error {
	return s.Save(d.Snapshot())
}

// Cards returns the working copy in deck order. The slice is fresh; the
// cards are the deck's own.
func (d *Deck) Cards() []*domain.Card {
	return slices.Clone(d.cards)
}

// Snapshot returns a deep copy of every card, suitable for saving.
func (d *Deck) Snapshot() []domain.Card {
	out := make([]domain.Card, len(d.cards))
	for i, c := range d.cards {
		out[i] = *c.Clone()
	}
	return out
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Get returns the card with id.
func (d *Deck) Get(id string) (*domain.Card, error) {
	i := d.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return d.cards[i], nil
}

func (d *Deck) index(id string) int {
	return slices.IndexFunc(d.cards, func(c *domain.Card) bool { return c.ID == id })
}

// Tags returns every distinct tag in the deck, sorted.
func (d *Deck) Tags() []string {
	var all []string
	for _, c := range d.cards {
		all = append(all, c.Tags...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// newCard builds a validated card with fresh scheduling state and auto tags,
// without adding it to the deck.
func (d *Deck) newCard(front, back, notes string) (*domain.Card, error) {
	c, err := domain.NewCard(d.newID(), front, back, notes, d.now())
	if err != nil {
		return nil, err
	}
	c.SetTags(d.autoTags(front, back))
	return c, nil
}

// CreateCard adds a new card at the front of the deck. Front and back must
// be non-blank; otherwise the error wraps domain.ErrValidation and the deck
// is unchanged.
func (d *Deck) CreateCard(front, back, notes string) (*domain.Card, error) {
	c, err := d.newCard(front, back, notes)
	if err != nil {
		return nil, err
	}
	d.cards = slices.Insert(d.cards, 0, c)
	return c, nil
}

// CardUpdate carries the content fields to change; nil fields are kept.
type CardUpdate struct {
	Front *string `json:"front"`
	Back  *string `json:"back"`
	Notes *string `json:"notes"`
}

// UpdateCard edits the content of a card. Scheduling state and tags are
// left alone. The edit is rejected as a whole if it sets front or back to
// blank text; fields it does not touch are not rechecked, so a loaded card
// with blank content can still be edited.
func (d *Deck) UpdateCard(id string, u CardUpdate) (*domain.Card, error) {
	c, err := d.Get(id)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateEdit(u.Front, u.Back); err != nil {
		return nil, err
	}
	if u.Front != nil {
		c.Front = *u.Front
	}
	if u.Back != nil {
		c.Back = *u.Back
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	return c, nil
}

// DeleteCard removes a card from the deck.
func (d *Deck) DeleteCard(id string) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	d.cards = slices.Delete(d.cards, i, i+1)
	return nil
}

// Retag replaces a card's tags with those derived from its current front and back.
func (d *Deck) Retag(id string) (*domain.Card, error) {
	c, err := d.Get(id)
	if err != nil {
		return nil, err
	}
	c.SetTags(d.autoTags(c.Front, c.Back))
	return c, nil
}

// ClearTags empties a card's tags.
func (d *Deck) ClearTags(id string) (*domain.Card, error) {
	c, err := d.Get(id)
	if err != nil {
		return nil, err
	}
	c.ClearTags()
	return c, nil
}

// Review applies a 0-5 quality rating to a card and reschedules it.
func (d *Deck) Review(id string, quality int) (*domain.Card, error) {
	c, err := d.Get(id)
	if err != nil {
		return nil, err
	}
	now := d.now()
	next, err := d.params.NextState(sm2.State{
		EF:           c.EF,
		Reps:         c.Reps,
		IntervalDays: c.IntervalDays,
		Due:          c.Due,
	}, sm2.Quality(quality), now)
	if err != nil {
		return nil, err
	}

	c.EF = next.EF
	c.Reps = next.Reps
	c.IntervalDays = next.IntervalDays
	c.Due = next.Due

	if d.onReview != nil {
		d.onReview(domain.ReviewLog{
			CardID:       c.ID,
			Timestamp:    now.UTC(),
			Quality:      quality,
			IntervalDays: c.IntervalDays,
			EF:           c.EF,
		})
	}
	return c, nil
}
