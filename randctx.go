/*
Copyright 2024 Simon Murray

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package arith

import "math/rand"

// StdRand is a minimal math/rand-backed source for the Rand()/RandN(n)
// half of Ctx, for callers that don't already own a PRNG of their own.
// It is seeded explicitly by the caller rather than drawing from the
// global source, so a run is reproducible under a shared seed.
type StdRand struct {
	r *rand.Rand
}

// NewStdRand constructs a StdRand seeded with seed.
func NewStdRand(seed int64) *StdRand {
	return &StdRand{r: rand.New(rand.NewSource(seed))}
}

// Rand returns a pseudo-random float in [0,1).
func (s *StdRand) Rand() float64 {
	return s.r.Float64()
}

// RandN returns a pseudo-random integer in [0,n). It returns 0 for
// n <= 0 rather than panicking, since callers occasionally compute n
// from an empty collection.
func (s *StdRand) RandN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}
