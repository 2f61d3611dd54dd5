package placement

import (
	"math/rand"
	"time"
)

//go:generate mockgen -source random.go -destination ./mocks/random.go -package mock_placement

// RandomSource supplies the random draws the Engine makes while placing segments
type RandomSource interface {
	// Coin returns true (heads) when the engine should try to insert free space next, and
	// false (tails) when it should place a segment
	Coin() bool
	// Intn returns a uniformly distributed integer in [0, n). n is always greater than 0.
	Intn(n int) int
}

type mathRandSource struct {
	rand *rand.Rand
}

var _ RandomSource = &mathRandSource{}

// NewRandomSource returns a RandomSource backed by math/rand with the provided seed
func NewRandomSource(seed int64) RandomSource {
	return &mathRandSource{rand: rand.New(rand.NewSource(seed))}
}

func newUnseededRandomSource() RandomSource {
	return NewRandomSource(time.Now().UnixNano())
}

func (s *mathRandSource) Coin() bool {
	return s.rand.Intn(2) == 0
}

func (s *mathRandSource) Intn(n int) int {
	return s.rand.Intn(n)
}
