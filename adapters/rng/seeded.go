// Package rng provides the deterministic random source used by the
// permutation engine.
package rng

import (
	"context"
	"hash/fnv"
	"math/rand"
)

// SeededSource derives independent deterministic streams from a name and a
// base seed. Mixing the name in keeps unrelated operations from sharing a
// stream even when they use the same seed.
type SeededSource struct{}

func New() *SeededSource {
	return &SeededSource{}
}

func (s *SeededSource) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64()))), nil
}
