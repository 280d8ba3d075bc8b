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

import (
	"fmt"

	"github.com/spjmurray/go-util/pkg/set"
)

// ApplyUpdate implements apply_update: it scores every candidate that
// survives IsPermittedUpdate, de-duplicating (var, delta) pairs two
// proposers happened to emit identically, caps the pool at
// cfg.MaxCandidates by dropping random entries when oversized, selects
// one by weighted probability over score, and commits it through the
// value-update engine. It reports whether any move was committed.
func (e *Engine[N]) ApplyUpdate(candidates []Move[N]) (bool, error) {
	dedup := set.New[string]()
	var pool []Move[N]
	for _, c := range candidates {
		delta, ok := e.IsPermittedUpdate(c.Var, c.Delta)
		if !ok {
			continue
		}
		c.Delta = delta

		key := fmt.Sprintf("%d:%s", c.Var, delta.String())
		if setContains(dedup, key) {
			continue
		}
		dedup.Add(key)

		c.Score = e.ComputeScore(c.Var, delta)
		pool = append(pool, c)
	}
	if len(pool) == 0 {
		return false, nil
	}

	for len(pool) > e.cfg.MaxCandidates {
		drop := e.ctx.RandN(len(pool))
		pool = append(pool[:drop], pool[drop+1:]...)
	}

	chosen, ok := e.weightedPick(pool)
	if !ok {
		return false, nil
	}

	cur := e.ts.Var(chosen.Var).Value()
	newVal, err := cur.Add(chosen.Delta)
	if err != nil {
		return false, nil //nolint:nilerr
	}
	if err := e.Update(chosen.Var, newVal); err != nil {
		return false, err
	}
	e.recordMove(chosen.Var, chosen.Delta)
	e.stats.Moves++

	return true, nil
}

// weightedPick selects one move from pool with probability proportional
// to its score, falling back to a uniform pick when every score is
// non-positive.
func (e *Engine[N]) weightedPick(pool []Move[N]) (Move[N], bool) {
	var total float64
	for _, m := range pool {
		total += m.Score
	}
	if total <= 0 {
		return pool[e.ctx.RandN(len(pool))], true
	}

	target := e.ctx.Rand() * total
	var acc float64
	for _, m := range pool {
		acc += m.Score
		if target < acc {
			return m, true
		}
	}
	return pool[len(pool)-1], true
}
