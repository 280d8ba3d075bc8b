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
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

type pendingChange[N any] struct {
	v   term.VarID
	val N
}

// Update assigns v := newValue, propagating the change through every
// dependent atom, product and sum before returning (spec §4.D steps
// 1-7), and re-flips any Boolean variable whose atom truth no longer
// matches its assignment. On overflow or an out-of-range/out-of-bounds
// value it aborts without having committed anything, including any
// parent propagation the root change would otherwise have triggered:
// simulateCascade replays the entire work-stack walk — root, every
// product/sum parent it reaches, and every atom's args_value delta —
// against an in-memory overlay before commitVar is ever called, so a
// parent three hops away overflowing is caught up front rather than
// after the root and any intermediate variables are already committed.
func (e *Engine[N]) Update(v term.VarID, newValue N) error {
	vr := e.ts.Var(v)
	old := vr.Value()

	if old.Cmp(newValue) == 0 {
		return nil
	}
	if !vr.InRange(newValue) {
		e.stats.FailedUpdates++
		return nil
	}
	if vr.InBounds(old) && !vr.InBounds(newValue) {
		e.stats.FailedUpdates++
		return nil
	}
	if err := e.simulateCascade(v, newValue); err != nil {
		e.stats.FailedUpdates++
		return nil //nolint:nilerr // overflow anywhere in the cascade is "move not applicable", never surfaced
	}

	// The simulation above already proved this exact cascade - same
	// order, same deltas - overflow-free, so the real walk below cannot
	// fail on arithmetic; commitVar's own error returns are a defensive
	// backstop, not an expected path.
	//
	// Explicit work stack replaces recursion over sum/product parents
	// (§9): each entry is a variable already known to need a new
	// value; commitVar applies it and pushes any parent whose
	// recomputed value actually changed.
	e.updateStack = e.updateStack[:0]
	e.updateStack = append(e.updateStack, v)
	pending := map[term.VarID]N{v: newValue}

	for len(e.updateStack) > 0 {
		cur := e.updateStack[len(e.updateStack)-1]
		e.updateStack = e.updateStack[:len(e.updateStack)-1]

		val, ok := pending[cur]
		if !ok {
			continue
		}
		delete(pending, cur)

		changed, err := e.commitVar(cur, val)
		if err != nil {
			return err
		}
		for _, p := range changed {
			pending[p.v] = p.val
			e.updateStack = append(e.updateStack, p.v)
		}
	}

	e.stats.Updates++

	return nil
}

// simulateCascade replays the same work-stack walk Update's commit loop
// performs, but against a pure in-memory overlay (valueOf falls back to
// the real store only for variables the walk hasn't touched yet, and
// every atom's args_value delta accumulates in atomVals rather than on
// the atom itself) so it can detect an overflow anywhere in the
// cascade - a parent sum, a downstream product, any atom's args_value
// arithmetic - before a single real mutation happens.
func (e *Engine[N]) simulateCascade(root term.VarID, newValue N) error {
	planned := map[term.VarID]N{}
	atomVals := map[atom.BoolVar]N{}

	valueOf := func(w term.VarID) N {
		if val, ok := planned[w]; ok {
			return val
		}
		return e.ts.Value(w)
	}

	stack := []term.VarID{root}
	pending := map[term.VarID]N{root: newValue}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		val, ok := pending[cur]
		if !ok {
			continue
		}
		delete(pending, cur)

		old := valueOf(cur)
		delta, err := val.Sub(old)
		if err != nil {
			return err
		}

		vr := e.ts.Var(cur)
		for _, occ := range vr.LinearOccurs {
			bv := atom.BoolVar(occ.BoolVar)
			a := e.as.Atom(bv)
			if a == nil {
				continue
			}
			change, err := occ.Coeff.Mul(delta)
			if err != nil {
				return err
			}
			base, ok := atomVals[bv]
			if !ok {
				base = a.ArgsValue
			}
			newArgsValue, err := base.Add(change)
			if err != nil {
				return err
			}
			atomVals[bv] = newArgsValue
		}

		planned[cur] = val

		for _, mulID := range vr.Muls {
			m := e.ts.Mul(mulID)
			newVal, err := m.Eval(valueOf)
			if err != nil {
				return err
			}
			if newVal.Cmp(valueOf(m.Var)) != 0 {
				pending[m.Var] = newVal
				stack = append(stack, m.Var)
			}
		}
		for _, sumID := range vr.Adds {
			s := e.ts.Sum(sumID)
			newVal, err := s.Eval(valueOf)
			if err != nil {
				return err
			}
			if newVal.Cmp(valueOf(s.Var)) != 0 {
				pending[s.Var] = newVal
				stack = append(stack, s.Var)
			}
		}
	}

	return nil
}

// commitVar performs steps 3-7 of spec §4.D for a single variable
// already cleared to take val: update dependent atoms' cached
// args_value (flipping Boolean vars whose truth now disagrees),
// commit the value, notify the context, and return the set of
// product/sum parents whose recomputed value actually changed (for the
// caller to enqueue).
func (e *Engine[N]) commitVar(v term.VarID, val N) ([]pendingChange[N], error) {
	vr := e.ts.Var(v)
	old := vr.Value()

	delta, err := val.Sub(old)
	if err != nil {
		return nil, nil //nolint:nilerr
	}

	var toFlip []atom.BoolVar
	for _, occ := range vr.LinearOccurs {
		bv := atom.BoolVar(occ.BoolVar)
		a := e.as.Atom(bv)
		if a == nil {
			continue
		}
		change, err := occ.Coeff.Mul(delta)
		if err != nil {
			return nil, nil //nolint:nilerr
		}
		newArgsValue, err := a.ArgsValue.Add(change)
		if err != nil {
			return nil, nil //nolint:nilerr
		}
		a.ArgsValue = newArgsValue

		positive := e.ctx.IsTrue(Literal{BoolVar: bv})
		if !dtt(positive, a, e.atomIsInt(a)).IsZero() {
			toFlip = append(toFlip, bv)
		}
	}

	vr.SetValue(val)
	e.ctx.NewValueEH(vr.Expr)

	for _, bv := range toFlip {
		a := e.as.Atom(bv)
		positive := e.ctx.IsTrue(Literal{BoolVar: bv})
		if !dtt(positive, a, e.atomIsInt(a)).IsZero() {
			if err := e.ctx.Flip(bv); err != nil {
				return nil, err
			}
		}
	}

	var changed []pendingChange[N]
	for _, mulID := range vr.Muls {
		m := e.ts.Mul(mulID)
		newVal, err := m.Eval(func(w term.VarID) N { return e.ts.Value(w) })
		if err != nil {
			continue
		}
		if newVal.Cmp(e.ts.Value(m.Var)) != 0 {
			changed = append(changed, pendingChange[N]{v: m.Var, val: newVal})
		}
	}
	for _, sumID := range vr.Adds {
		s := e.ts.Sum(sumID)
		newVal, err := s.Eval(func(w term.VarID) N { return e.ts.Value(w) })
		if err != nil {
			continue
		}
		if newVal.Cmp(e.ts.Value(s.Var)) != 0 {
			changed = append(changed, pendingChange[N]{v: s.Var, val: newVal})
		}
	}

	return changed, nil
}
