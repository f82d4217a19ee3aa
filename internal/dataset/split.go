package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInvalidFraction reports a test fraction outside the open (0,1) range.
var ErrInvalidFraction = errors.New("invalid test fraction")

// Split partitions the index set 0..n-1 into disjoint train and test
// subsets. The shuffle is driven by a fixed-seed source, so identical seed
// and n always produce the identical partition; the test side holds
// round(testFraction*n) indices. Together both sides cover the input
// exactly once.
func Split(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFraction, testFraction)
	}
	if n <= 0 {
		return nil, nil, nil
	}

	shuffled := make([]int, n)
	for i := range shuffled {
		shuffled[i] = i
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testSize := int(math.Round(testFraction * float64(n)))
	trainSize := n - testSize

	return shuffled[:trainSize], shuffled[trainSize:], nil
}
