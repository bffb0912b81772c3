package calibration

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Slots is the fixed number of risk-weight categories.
const Slots = 5

// Budget is the total percentage-point allocation a weight vector must hold.
const Budget = 100

var (
	ErrPivotOutOfRange = errors.New("pivot index out of range")
	ErrBadVectorLength = errors.New("weight vector must have exactly 5 entries")
)

// Calibrator redistributes a fixed budget of 100 percentage points across
// the 5 weight slots after a user edits one of them. The edited (pivot)
// slot is held fixed; the surplus or shortfall is spread across the other
// four slots one point at a time, in a random order drawn per call.
type Calibrator struct {
	rng *rand.Rand
}

// New creates a Calibrator with its own time-seeded source.
func New() *Calibrator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a Calibrator backed by the given source. Tests pass
// a seeded *rand.Rand to make the distribution order reproducible.
func NewWithRand(rng *rand.Rand) *Calibrator {
	return &Calibrator{rng: rng}
}

// Calibrate restores the sum-to-100 invariant over weights, holding the
// slot at pivot fixed. Adjustments of ±1 are applied to the remaining
// four slots: additions walk a random permutation of those indices in
// forward order, subtractions walk it in reverse, cycling until the
// deficit is exhausted. The input slice is not modified.
func (c *Calibrator) Calibrate(pivot int, weights []int) ([]int, error) {
	if pivot < 0 || pivot >= Slots {
		return nil, fmt.Errorf("%w: %d", ErrPivotOutOfRange, pivot)
	}
	if len(weights) != Slots {
		return nil, fmt.Errorf("%w: got %d", ErrBadVectorLength, len(weights))
	}

	out := make([]int, Slots)
	copy(out, weights)

	deficit := Budget
	for _, w := range out {
		deficit -= w
	}
	if deficit == 0 {
		return out, nil
	}

	order := c.distributionOrder(pivot)

	// One unit per step over a cyclic walk of the permutation. Additions
	// go forward, subtractions go backward.
	for step := 0; deficit != 0; step++ {
		if deficit > 0 {
			out[order[step%len(order)]]++
			deficit--
		} else {
			out[order[len(order)-1-step%len(order)]]--
			deficit++
		}
	}

	return out, nil
}

// distributionOrder returns a uniformly random permutation of the four
// non-pivot indices.
func (c *Calibrator) distributionOrder(pivot int) []int {
	order := make([]int, 0, Slots-1)
	for i := 0; i < Slots; i++ {
		if i != pivot {
			order = append(order, i)
		}
	}
	c.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
