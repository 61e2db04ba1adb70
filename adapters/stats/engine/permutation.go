package engine

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/stat"
)

// permutationStream names the RNG streams so permutation seeds never collide
// with other seeded operations.
const permutationStream = "pairwise-permutation"

// permutationPValue estimates significance empirically: shuffle x, recompute
// the correlation, and count permutations at least as extreme as the observed
// one. p = (hits + 1) / (shuffles + 1), so p never reaches zero. Each
// permutation index gets its own seeded stream, which keeps the result
// identical regardless of worker scheduling.
func (e *Engine) permutationPValue(ctx context.Context, x, y []float64, observed float64) float64 {
	if len(x) < 4 {
		return 1.0
	}
	absObs := math.Abs(observed)

	var hits int64
	sem := semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	launched := 0
	for i := 0; i < e.shuffles; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		launched++
		go func(index int) {
			defer sem.Release(1)
			if e.permutedAtLeast(ctx, x, y, index, absObs) {
				atomic.AddInt64(&hits, 1)
			}
		}(i)
	}
	// Wait for outstanding workers.
	if err := sem.Acquire(context.Background(), int64(runtime.GOMAXPROCS(0))); err == nil {
		sem.Release(int64(runtime.GOMAXPROCS(0)))
	}
	if launched < e.shuffles {
		// Cancelled mid-run; the honest answer is "no evidence".
		return 1.0
	}
	return (float64(atomic.LoadInt64(&hits)) + 1.0) / (float64(e.shuffles) + 1.0)
}

// permutedAtLeast shuffles a copy of x with the stream for this permutation
// index and reports whether the permuted |r| reaches the observed |r|.
func (e *Engine) permutedAtLeast(ctx context.Context, x, y []float64, index int, absObs float64) bool {
	stream, err := e.rng.SeededStream(ctx, permutationStream, e.seed+int64(index))
	if err != nil {
		stream = rand.New(rand.NewSource(e.seed + int64(index)))
	}
	shuffled := make([]float64, len(x))
	copy(shuffled, x)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := stream.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	r := stat.Correlation(shuffled, y, nil)
	return math.Abs(r) >= absObs
}
