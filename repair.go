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
	"github.com/spjmurray/go-util/pkg/set"
	"github.com/spjmurray/go-util/pkg/slices"

	"github.com/spjmurray/go-sls-arith/pkg/atom"
	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// Repair implements repair(lit) for a Bool literal assigned true whose
// atom is currently false (spec §4.F): try the linear/quadratic
// proposers over every nonlinear group, retry once with tabu disabled
// on failure, and fall back to resetting every nonlinear variable.
func (e *Engine[N]) Repair(lit Literal) error {
	a := e.ctx.Atom(lit.BoolVar)
	if a == nil {
		return ErrUnexpected
	}

	if ok, err := e.findNLMoves(lit, a); err != nil {
		return err
	} else if ok {
		e.stats.Repairs++
		return nil
	}

	e.tabuActive = false
	ok, err := e.findNLMoves(lit, a)
	e.tabuActive = true
	if err != nil {
		return err
	}
	if ok {
		e.stats.Repairs++
		return nil
	}

	var vars []term.VarID
	for v := range a.Nonlinear {
		vars = append(vars, v)
	}
	e.FindResetMoves(vars)
	e.stats.FailedRepairs++
	return nil
}

// findNLMoves implements find_nl_moves: for each inner variable x
// occurring in a, classify the group as linear or quadratic in x and
// gather candidate deltas from the matching proposer, then commit the
// best one through ApplyUpdate.
func (e *Engine[N]) findNLMoves(lit Literal, a *atom.Atom[N]) (bool, error) {
	positive := !lit.Negated
	isInt := e.atomIsInt(a)

	var candidates []Move[N]
	for x := range a.Nonlinear {
		for _, delta := range e.nlCandidateDeltas(a, x, positive, isInt) {
			candidates = append(candidates, Move[N]{Var: x, Delta: delta})
		}
	}

	if len(candidates) == 0 {
		return false, nil
	}
	return e.ApplyUpdate(candidates)
}

// nlCandidateDeltas classifies x's nonlinear group within a (is_linear,
// then is_quadratic) and feeds whichever shape matches to the matching
// proposer; shared by find_nl_moves and the hillclimb branch of
// global_search, which both need "every candidate (v,delta)" for a
// variable that may only reach a through a product (spec §4.G).
func (e *Engine[N]) nlCandidateDeltas(a *atom.Atom[N], x term.VarID, positive bool, isInt bool) []N {
	group := a.Nonlinear[x]
	if len(group) == 0 {
		return nil
	}
	if c, ok := isLinear(e.ts, x, group); ok {
		return findLinearMoves(positive, a.Op, a.ArgsValue, c, isInt)
	}
	if qa, b, ok := isQuadratic(e.ts, x, group); ok {
		cur := e.ts.Value(x)
		rest, err := a.ArgsValue.Sub(mustQuadContribution(qa, b, cur))
		if err != nil {
			return nil
		}
		return findQuadraticMoves(qa, b, rest, cur)
	}
	return nil
}

// mustQuadContribution returns a*cur^2 + b*cur, the part of ArgsValue
// attributable to x's own quadratic and linear terms, so findNLMoves can
// subtract it out to get "rest" for findQuadraticMoves.
func mustQuadContribution[N num.Num[N]](a, b, cur N) N {
	sq, err := cur.Mul(cur)
	if err != nil {
		return num.Zero[N]()
	}
	axx, err := a.Mul(sq)
	if err != nil {
		return num.Zero[N]()
	}
	bx, err := b.Mul(cur)
	if err != nil {
		return num.Zero[N]()
	}
	total, err := axx.Add(bx)
	if err != nil {
		return num.Zero[N]()
	}
	return total
}

// mulValueWithout implements mul_value_without(outer, x): the current
// value of outer's monomial with every power of x dropped, i.e. the
// product of outer's other factors held at their current values. outer
// that is not itself a product variable (a direct, non-product
// occurrence of x) contributes no other factors, so the answer is 1.
func mulValueWithout[N num.Num[N]](ts *term.Store[N], outer, x term.VarID) (N, error) {
	vr := ts.Var(outer)
	if vr.Def != term.DefMul {
		return num.One[N](), nil
	}
	mul := ts.Mul(term.MulID(vr.DefIdx))
	return mul.ValueWithout(x, func(w term.VarID) N { return ts.Value(w) })
}

// isLinear implements is_linear (original_source/src/ast/sls/sls_arith_base.cpp:1736-1751):
// true either for a single entry that is itself x's direct occurrence
// (b=c), or when every entry in the group has power 1, with b the sum of
// each entry's coefficient scaled by mul_value_without(outer, x) for
// entries that reach x through a product, and added bare for x's own
// direct occurrence. An entry whose outer variable is neither x nor a
// product containing x makes it fail.
func isLinear[N num.Num[N]](ts *term.Store[N], x term.VarID, group []atom.NonlinearEntry[N]) (N, bool) {
	if len(group) == 1 && group[0].Power == 1 && group[0].OuterVar == x {
		return group[0].Coeff, true
	}
	b := num.Zero[N]()
	for _, e := range group {
		if e.Power != 1 {
			return b, false
		}
		contribution := e.Coeff
		if e.OuterVar != x {
			ov := ts.Var(e.OuterVar)
			if ov.Def != term.DefMul {
				return b, false
			}
			if _, ok := ts.Mul(term.MulID(ov.DefIdx)).PowerOfVar(x); !ok {
				return b, false
			}
			factor, err := mulValueWithout(ts, e.OuterVar, x)
			if err != nil {
				return b, false
			}
			c, err := e.Coeff.Mul(factor)
			if err != nil {
				return b, false
			}
			contribution = c
		}
		sum, err := b.Add(contribution)
		if err != nil {
			return b, false
		}
		b = sum
	}
	return b, !b.IsZero()
}

// isQuadratic implements is_quadratic (original_source/src/ast/sls/sls_arith_base.cpp:1754-1772):
// groups power-1 and power-2 entries into b and a respectively, each
// scaled by mul_value_without(outer, x) except for x's own direct
// (power-1) occurrence; fails on any power >= 3.
func isQuadratic[N num.Num[N]](ts *term.Store[N], x term.VarID, group []atom.NonlinearEntry[N]) (N, N, bool) {
	a := num.Zero[N]()
	b := num.Zero[N]()
	for _, e := range group {
		switch e.Power {
		case 1:
			contribution := e.Coeff
			if e.OuterVar != x {
				factor, err := mulValueWithout(ts, e.OuterVar, x)
				if err != nil {
					return a, b, false
				}
				c, err := e.Coeff.Mul(factor)
				if err != nil {
					return a, b, false
				}
				contribution = c
			}
			sum, err := b.Add(contribution)
			if err != nil {
				return a, b, false
			}
			b = sum
		case 2:
			factor, err := mulValueWithout(ts, e.OuterVar, x)
			if err != nil {
				return a, b, false
			}
			contribution, err := e.Coeff.Mul(factor)
			if err != nil {
				return a, b, false
			}
			sum, err := a.Add(contribution)
			if err != nil {
				return a, b, false
			}
			a = sum
		default:
			return a, b, false
		}
	}
	if a.IsZero() && b.IsZero() {
		return a, b, false
	}
	return a, b, true
}

// findLinMoves implements find_lin_moves: the lighter-weight entry point
// used at unit-propagation time, as distinct from find_nl_moves used by
// full repair. It iterates every linear argument of a's canonical form,
// skipping variables already pinned by their bounds, and feeds each
// into the linear proposer; ApplyUpdate picks the best candidate.
func (e *Engine[N]) findLinMoves(lit Literal, a *atom.Atom[N]) (bool, error) {
	positive := !lit.Negated
	isInt := e.atomIsInt(a)

	var candidates []Move[N]
	for _, arg := range a.Args {
		if e.ts.Var(arg.Var).IsFixed() {
			continue
		}
		for _, delta := range findLinearMoves(positive, a.Op, a.ArgsValue, arg.Coeff, isInt) {
			candidates = append(candidates, Move[N]{Var: arg.Var, Delta: delta})
		}
	}
	if len(candidates) == 0 {
		return false, nil
	}
	return e.ApplyUpdate(candidates)
}

// RepairUp implements repair_up: recompute a definition node's own
// value from its definition.
func (e *Engine[N]) RepairUp(v term.VarID) error {
	vr := e.ts.Var(v)
	lookup := func(w term.VarID) N { return e.ts.Value(w) }

	var newVal N
	var err error
	switch vr.Def {
	case term.DefSum:
		newVal, err = e.ts.Sum(term.SumID(vr.DefIdx)).Eval(lookup)
	case term.DefMul:
		newVal, err = e.ts.Mul(term.MulID(vr.DefIdx)).Eval(lookup)
	case term.DefOp:
		newVal, err = e.ts.Op(term.OpID(vr.DefIdx)).Eval(lookup)
	default:
		return ErrUnexpected
	}
	if err != nil {
		return err
	}
	return e.Update(v, newVal)
}

// RepairDown implements repair_down for an OpKind-defined variable: it
// attempts to move the op's inputs so the stored value matches the
// variable's own current value. MOD adjusts arg1 by the delta between
// the wanted and current remainder; REM/IDIV/DIV "bail": the inputs are
// left as they are and the variable is reset to its freshly evaluated
// definition through RepairUp (DIV does not solve for either argument)
// (spec §4.F, §9 Open Questions); POWER/TO_INT/TO_REAL have no repair
// direction and return ErrNotImplemented.
func (e *Engine[N]) RepairDown(v term.VarID) error {
	vr := e.ts.Var(v)
	if vr.Def != term.DefOp {
		return ErrUnexpected
	}
	op := e.ts.Op(term.OpID(vr.DefIdx))

	switch op.Kind {
	case term.OpMod:
		return e.repairDownMod(op, vr.Value())
	case term.OpAbs:
		return e.repairDownAbs(op, vr.Value())
	case term.OpRem, term.OpIDiv, term.OpDiv:
		return e.RepairUp(v)
	case term.OpPower, term.OpToInt, term.OpToReal:
		return ErrNotImplemented
	default:
		return ErrNotImplemented
	}
}

// repairDownMod adjusts arg1 so x mod arg2 == val, by shifting arg1 by
// the signed difference between the wanted and current remainder.
func (e *Engine[N]) repairDownMod(op *term.Op[N], val N) error {
	divisor := e.ts.Value(op.Arg2)
	if divisor.IsZero() {
		return ErrNotImplemented
	}
	cur := e.ts.Value(op.Arg1)
	curMod := cur.Mod(divisor)

	delta, err := val.Sub(curMod)
	if err != nil {
		return err
	}
	newVal, err := cur.Add(delta)
	if err != nil {
		return err
	}
	return e.Update(op.Arg1, newVal)
}

// repairDownAbs sets arg1 to +/-val, preferring to keep arg1's current
// sign when val is nonzero.
func (e *Engine[N]) repairDownAbs(op *term.Op[N], val N) error {
	cur := e.ts.Value(op.Arg1)
	target := val
	if cur.Sign() < 0 {
		target = val.Neg()
	}
	return e.Update(op.Arg1, target)
}

// RepairDistinct implements the distinct-group repair path: probe
// successive offsets of the colliding variable's value until it no
// longer collides with any sibling in the group, capping the number of
// probes before falling back to a reset.
func (e *Engine[N]) RepairDistinct(d *atom.Distinct[N]) error {
	x, _, ok := d.Violated(func(v term.VarID) N { return e.ts.Value(v) })
	if !ok {
		return nil
	}

	// Collect every sibling's current value via Permute over the
	// group's pairs, the same pairwise-enumeration shape the teacher
	// uses for AtMostOneOf, rather than re-walking d.Vars by hand.
	taken := set.New[string]()
	for a, b := range slices.Permute(d.Vars) {
		switch {
		case a == x:
			taken.Add(e.ts.Value(b).String())
		case b == x:
			taken.Add(e.ts.Value(a).String())
		}
	}

	cur := e.ts.Value(x)
	vr := e.ts.Var(x)
	const maxProbes = 8

	for offset := int64(1); offset <= maxProbes; offset++ {
		step := num.Zero[N]().FromInt(offset)
		for _, delta := range []N{step, step.Neg()} {
			candidate, err := cur.Add(delta)
			if err != nil {
				continue
			}
			if vr.InRange(candidate) && vr.InBounds(candidate) && !setContains(taken, candidate.String()) {
				return e.Update(x, candidate)
			}
		}
	}

	e.AddResetUpdate(x)
	return nil
}
