package roulette

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// SpinSize is how many teams one spin hands to a player.
const SpinSize = 3

var (
	ErrInsufficientCatalog = errors.New("insufficient catalog")
	ErrInvalidCount        = errors.New("pick count must be greater than zero")
)

// Picker draws distinct indices from [0, size).
type Picker interface {
	Pick(size, count int) ([]int, error)
}

// RandomPicker owns its generator; safe for concurrent use.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPicker seeds from the clock when seed is zero.
func NewRandomPicker(seed uint64) *RandomPicker {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomPicker{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Pick runs a partial Fisher-Yates shuffle over a sparse swap table, so it
// costs O(count) regardless of size and never retries a draw.
func (p *RandomPicker) Pick(size, count int) ([]int, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	if size < count {
		return nil, fmt.Errorf("%w: need %d teams, catalog has %d", ErrInsufficientCatalog, count, size)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	swapped := make(map[int]int, count*2)
	out := make([]int, count)
	for i := 0; i < count; i++ {
		j := i + p.rng.IntN(size-i)

		vj, ok := swapped[j]
		if !ok {
			vj = j
		}
		vi, ok := swapped[i]
		if !ok {
			vi = i
		}

		out[i] = vj
		swapped[j] = vi
	}

	return out, nil
}
