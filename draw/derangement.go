// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"errors"
	"math/rand/v2"
)

// attemptFactor bounds both the number of rejection-sampling shuffles and the
// number of full repair scans at attemptFactor*n.
const attemptFactor = 100

var (
	ErrTooFewIDs       = errors.New("derangement needs at least two identifiers")
	ErrDuplicateID     = errors.New("derangement identifiers must be unique")
	ErrRepairExhausted = errors.New("fixed-point repair exceeded its scan limit")
)

// Derange returns a permutation of ids with no fixed points: result[i] is the
// target assigned to ids[i] and result[i] != ids[i] for every i.
//
// Uniform shuffles are drawn until one is a derangement, which samples
// uniformly over all derangements (roughly 1 in e shuffles qualifies). If no
// shuffle qualifies within the attempt limit, the last shuffle is repaired by
// swapping each self-assignment with its cyclic neighbour.
//
// rng may be nil to use the goroutine-safe global source. A non-nil rng must
// not be shared between goroutines.
func Derange[T comparable](ids []T, rng *rand.Rand) ([]T, error) {
	n := len(ids)
	if n < 2 {
		return nil, ErrTooFewIDs
	}

	seen := make(map[T]struct{}, n)
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateID
		}
		seen[id] = struct{}{}
	}

	limit := attemptFactor * n
	targets := make([]T, n)
	for attempt := 0; attempt < limit; attempt++ {
		copy(targets, ids)
		shuffle(targets, rng)
		if fixedPoints(ids, targets) == 0 {
			return targets, nil
		}
	}

	if err := repair(ids, targets, limit); err != nil {
		return nil, err
	}
	return targets, nil
}

// shuffle is Fisher-Yates from the last element down to the second.
func shuffle[T any](s []T, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		s[i], s[j] = s[j], s[i]
	}
}

// repair removes fixed points in place. Every swap clears position i and
// cannot create a fixed point at i or its neighbour, so for unique ids the
// fixed-point count strictly decreases.
func repair[T comparable](ids, targets []T, maxScans int) error {
	n := len(ids)
	for scan := 0; scan < maxScans; scan++ {
		clean := true
		for i := 0; i < n; i++ {
			if targets[i] != ids[i] {
				continue
			}
			next := (i + 1) % n
			targets[i], targets[next] = targets[next], targets[i]
			clean = false
			break
		}
		if clean {
			return nil
		}
	}
	return ErrRepairExhausted
}

func fixedPoints[T comparable](ids, targets []T) int {
	count := 0
	for i := range ids {
		if ids[i] == targets[i] {
			count++
		}
	}
	return count
}
