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

import "github.com/spjmurray/go-sls-arith/pkg/term"

// CheckInvariants recomputes every atom's cached ArgsValue from its
// current argument values and verifies it against the cache, and
// verifies every atom's Boolean assignment agrees with its truth. It
// returns ErrInvariant on the first mismatch found; callers are expected
// to run it only in developer builds, not on the hot path.
func (e *Engine[N]) CheckInvariants() error {
	valueOf := func(v term.VarID) N { return e.ts.Value(v) }

	for bv, a := range e.as.Atoms() {
		recomputed, err := a.Eval(valueOf)
		if err != nil {
			return err
		}
		if recomputed.Cmp(a.ArgsValue) != 0 {
			return ErrInvariant
		}

		positive := e.ctx.IsTrue(Literal{BoolVar: bv})
		if !dtt(positive, a, e.atomIsInt(a)).IsZero() {
			return ErrInvariant
		}
	}
	return nil
}
