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

// IsPermittedUpdate implements is_permitted_update: it rejects a
// candidate delta of zero, one that would exactly undo the last
// committed move, or one banned by the tabu window (when tabu mode is
// active), and clamps a bound-crossing delta to land exactly on the
// boundary instead of rejecting it outright. It returns the (possibly
// clamped) delta and whether the move is permitted at all.
func (e *Engine[N]) IsPermittedUpdate(v term.VarID, delta N) (N, bool) {
	if delta.IsZero() {
		return delta, false
	}
	if e.hasLast && v == e.lastVar && delta.Cmp(e.lastDelta.Neg()) == 0 {
		return delta, false
	}

	vr := e.ts.Var(v)
	if e.tabuActive && vr.IsTabu(e.step) {
		return delta, false
	}

	cur := vr.Value()
	newVal, err := cur.Add(delta)
	if err != nil {
		return delta, false
	}
	if !vr.InRange(newVal) {
		return delta, false
	}
	if !vr.InBounds(cur) || vr.InBounds(newVal) {
		return delta, true
	}

	clamped, ok := clampToBound(vr, newVal)
	if !ok {
		return delta, false
	}
	newDelta, err := clamped.Sub(cur)
	if err != nil || newDelta.IsZero() {
		return delta, false
	}
	return newDelta, true
}

// clampToBound pulls newVal back onto whichever of v's bounds it
// crossed, nudging off a strict integer boundary by one unit so the
// clamped value itself remains admissible.
func clampToBound[N num.Num[N]](v *term.Var[N], newVal N) (N, bool) {
	if v.Lo != nil && newVal.Cmp(v.Lo.Value) < 0 {
		b := v.Lo.Value
		if v.Lo.Strict && v.IsInt() {
			if bumped, err := b.Add(num.One[N]()); err == nil {
				b = bumped
			}
		}
		return b, true
	}
	if v.Hi != nil && newVal.Cmp(v.Hi.Value) > 0 {
		b := v.Hi.Value
		if v.Hi.Strict && v.IsInt() {
			if bumped, err := b.Sub(num.One[N]()); err == nil {
				b = bumped
			}
		}
		return b, true
	}
	var zero N
	return zero, false
}

// recordMove sets last_var/last_delta and the tabu ban window for v
// after a move on v is committed.
func (e *Engine[N]) recordMove(v term.VarID, delta N) {
	e.lastVar = v
	e.lastDelta = delta
	e.hasLast = true
	e.step++

	ban := e.step + 3 + e.ctx.RandN(10)
	e.ts.Var(v).SetStep(e.step, ban, delta)
}
