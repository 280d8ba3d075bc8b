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
	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// FindResetMoves implements find_reset_moves: every non-linear variable
// reachable from vars is reset to a small random value and its tabu
// ban lifted. A variable defined as a sum or product has no value of
// its own to reset directly — it is recomputed by propagation — so
// add_reset_update instead recurses into its argument variables.
func (e *Engine[N]) FindResetMoves(vars []term.VarID) {
	seen := map[term.VarID]bool{}
	var walk func(v term.VarID)
	walk = func(v term.VarID) {
		if seen[v] {
			return
		}
		seen[v] = true

		vr := e.ts.Var(v)
		switch vr.Def {
		case term.DefSum:
			s := e.ts.Sum(term.SumID(vr.DefIdx))
			for _, arg := range s.Args {
				walk(arg.Var)
			}
		case term.DefMul:
			m := e.ts.Mul(term.MulID(vr.DefIdx))
			for _, f := range m.Monomial {
				walk(f.Var)
			}
		default:
			e.AddResetUpdate(v)
		}
	}
	for _, v := range vars {
		walk(v)
	}
}

// AddResetUpdate implements add_reset_update for a single variable: pick
// a random delta in [-2,2], clamp the resulting value into v's bounds
// and finite domain if any, clear its tabu ban, and commit through the
// update engine.
func (e *Engine[N]) AddResetUpdate(v term.VarID) {
	vr := e.ts.Var(v)
	vr.SetStep(vr.LastStep, 0, vr.LastDelta)

	cur := vr.Value()

	if len(vr.FiniteDomain) > 0 {
		pick := vr.FiniteDomain[e.ctx.RandN(len(vr.FiniteDomain))]
		if pick.Cmp(cur) != 0 {
			_ = e.Update(v, pick)
		}
		return
	}

	delta := num.Zero[N]().FromInt(int64(e.ctx.RandN(5) - 2))
	newVal, err := cur.Add(delta)
	if err != nil {
		return
	}
	if !vr.InRange(newVal) {
		return
	}
	if vr.InBounds(cur) && !vr.InBounds(newVal) {
		if clamped, ok := clampToBound(vr, newVal); ok {
			newVal = clamped
		} else {
			return
		}
	}
	if newVal.Cmp(cur) == 0 {
		return
	}

	_ = e.Update(v, newVal)
}
