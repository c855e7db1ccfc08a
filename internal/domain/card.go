package domain

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	// DefaultEF is the easiness factor given to every new card.
	DefaultEF = 2.5
	// MinEF is the floor the easiness factor is clamped to.
	MinEF = 1.3
)

// Card represents a single question/answer study card together with its
// spaced-repetition state.
type Card struct {
	ID           string    `json:"id" yaml:"id" validate:"required"`
	Front        string    `json:"front" yaml:"front" validate:"notblank"`
	Back         string    `json:"back" yaml:"back" validate:"notblank"`
	Notes        string    `json:"notes" yaml:"notes"`
	Tags         []string  `json:"tags" yaml:"tags"`
	EF           float64   `json:"ef" yaml:"ef" validate:"gte=1.3"`
	Reps         int       `json:"reps" yaml:"reps" validate:"gte=0"`
	IntervalDays int       `json:"interval_days" yaml:"interval_days" validate:"gte=0"`
	Due          time.Time `json:"due" yaml:"due"`
}

// ReviewLog records a single review event for a card.
// Quality is the 0-5 rating given by the reviewer; IntervalDays and EF are
// the values the card was left with after the review.
type ReviewLog struct {
	CardID       string    `json:"card_id"`
	Timestamp    time.Time `json:"timestamp"`
	Quality      int       `json:"quality"`
	IntervalDays int       `json:"interval_days"`
	EF           float64   `json:"ef"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// NewCard builds a card with the default scheduling state, due immediately.
// Tags are left empty; callers decide how to derive them.
func NewCard(id, front, back, notes string, now time.Time) (*Card, error) {
	c := &Card{
		ID:    id,
		Front: front,
		Back:  back,
		Notes: notes,
		Tags:  []string{},
		EF:    DefaultEF,
		Due:   now.UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the card invariants and reports every violated field.
// The returned error wraps ErrValidation.
func (c *Card) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fe.Field()+" is required")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// ValidateEdit checks the content an edit sets; nil fields are not being
// changed and are not checked. The returned error wraps ErrValidation.
func ValidateEdit(front, back *string) error {
	var msgs []string
	if front != nil && validate.Var(*front, "notblank") != nil {
		msgs = append(msgs, "front is required")
	}
	if back != nil && validate.Var(*back, "notblank") != nil {
		msgs = append(msgs, "back is required")
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// SetTags replaces the tag set. Blank labels are dropped, duplicates
// collapsed and the result kept sorted.
func (c *Card) SetTags(tags []string) {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	c.Tags = slices.Compact(out)
}

// ClearTags empties the tag set.
func (c *Card) ClearTags() {
	c.Tags = []string{}
}

// HasTag reports whether the card carries the given label.
func (c *Card) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// Document is the text the card contributes to search.
func (c *Card) Document() string {
	return c.Front + " " + c.Back + " " + c.Notes
}

// IsDue reports whether the card is due for review at now.
func (c *Card) IsDue(now time.Time) bool {
	return !c.Due.After(now)
}

// Clone returns a copy that shares no tag storage with c.
func (c *Card) Clone() *Card {
	out := *c
	out.Tags = slices.Clone(c.Tags)
	return &out
}
