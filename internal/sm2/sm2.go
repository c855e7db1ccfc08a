// Package sm2 implements the SM-2 spaced repetition update.
package sm2

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidQuality is returned for ratings outside 0..5.
var ErrInvalidQuality = errors.New("sm2: quality must be between 0 and 5")

// Quality is the reviewer's 0-5 assessment of recall.
type Quality int

const (
	Blackout  Quality = 0 // Total failure to recall.
	Incorrect Quality = 1
	Familiar  Quality = 2 // Wrong, but the answer felt familiar.
	Hard      Quality = 3 // Correct with serious difficulty.
	Good      Quality = 4
	Perfect   Quality = 5
)

// IsValid reports whether q is within 0..5.
func (q Quality) IsValid() bool {
	return q >= Blackout && q <= Perfect
}

// Passed reports whether q counts as a successful recall.
func (q Quality) Passed(threshold Quality) bool {
	return q >= threshold
}

// Params holds the constants of the algorithm.
type Params struct {
	MinEF          float64 // floor for the easiness factor
	FirstInterval  int     // days after the first successful review
	SecondInterval int     // days after the second successful review
	PassThreshold  Quality // lowest quality that counts as recalled
}

// DefaultParams returns the classic SM-2 constants.
func DefaultParams() *Params {
	return &Params{
		MinEF:          1.3,
		FirstInterval:  1,
		SecondInterval: 6,
		PassThreshold:  Hard,
	}
}

// State is the scheduling state of a card.
type State struct {
	EF           float64
	Reps         int
	IntervalDays int
	Due          time.Time
}

// NextState applies one review of quality q at time now.
// A failed review restarts the repetition count with a one day interval.
// A passed review grows the interval: FirstInterval, SecondInterval, then
// the previous interval times the prior easiness factor, rounded half away
// from zero. The easiness factor is updated on every review and never drops
// below MinEF.
func (p *Params) NextState(s State, q Quality, now time.Time) (State, error) {
	if !q.IsValid() {
		return s, fmt.Errorf("%w: got %d", ErrInvalidQuality, int(q))
	}

	next := s
	if !q.Passed(p.PassThreshold) {
		next.Reps = 0
		next.IntervalDays = p.FirstInterval
	} else {
		switch {
		case s.Reps <= 0:
			next.IntervalDays = p.FirstInterval
		case s.Reps == 1:
			next.IntervalDays = p.SecondInterval
		default:
			next.IntervalDays = int(math.Round(float64(s.IntervalDays) * s.EF))
		}
		next.Reps = max(s.Reps, 0) + 1
	}

	next.EF = p.nextEF(s.EF, q)
	next.Due = NextDueDate(now, next.IntervalDays)
	return next, nil
}

// nextEF applies EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)), clamped to MinEF.
func (p *Params) nextEF(ef float64, q Quality) float64 {
	d := float64(Perfect - q)
	return math.Max(p.MinEF, ef+(0.1-d*(0.08+d*0.02)))
}

// NextDueDate returns now plus the given number of whole days, in UTC.
func NextDueDate(now time.Time, intervalDays int) time.Time {
	return now.UTC().Add(time.Duration(intervalDays) * 24 * time.Hour)
}
