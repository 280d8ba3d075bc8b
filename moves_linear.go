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
	"github.com/spjmurray/go-sls-arith/pkg/atom"
	"github.com/spjmurray/go-sls-arith/pkg/num"
)

// findLinearMoves implements find_linear_moves for a single atom
// argument with coefficient c: if the atom currently satisfies its
// polarity, it proposes moves that push it one step further from the
// boundary (symmetric +1/-1 for EQ); if it doesn't, it proposes the
// minimal-magnitude delta that would satisfy it.
func findLinearMoves[N num.Num[N]](positive bool, op atom.Op, argsValue, c N, isInt bool) []N {
	val, effOp := effective(positive, op, argsValue)
	zero := num.Zero[N]()

	if c.IsZero() {
		return nil
	}

	switch effOp {
	case atom.OpEQ:
		if val.IsZero() {
			one := num.One[N]()
			return []N{one, one.Neg()}
		}
		q, err := val.Neg().Quo(c)
		if err != nil {
			return nil
		}
		rem := val.Neg().Rem(c)
		if !rem.IsZero() {
			return nil
		}
		return []N{q}

	default: // LE or LT, already in positive-polarity shape
		satisfied := val.Sign() < 0 || (effOp == atom.OpLE && val.Sign() == 0)
		if satisfied {
			// Push one unit further from the boundary in whichever
			// direction c's sign drives the value down.
			step := num.One[N]()
			if c.Sign() > 0 {
				step = step.Neg()
			}
			return []N{step}
		}

		absC := c.Abs()
		q, err := val.DivCeil(absC)
		if err != nil {
			return nil
		}
		delta := q.Neg()
		if c.Sign() < 0 {
			delta = q
		}
		if delta.Cmp(zero) == 0 {
			return nil
		}
		return []N{delta}
	}
}
