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
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// initBounds implements spec §4.H. Variables are interned children
// before parents (§9 "arena indices, never pointers"), so a single
// forward pass over ascending VarID propagates every child's bound to
// its sum/product/op parent without recursion. It then walks unit
// literals to install direct comparison bounds, and top-level equality
// disjunctions to install finite domains.
func (e *Engine[N]) initBounds() {
	for id, vr := range e.ts.Vars() {
		switch vr.Def {
		case term.DefSum:
			e.boundSum(id, e.ts.Sum(term.SumID(vr.DefIdx)))
		case term.DefMul:
			e.boundMul(id, e.ts.Mul(term.MulID(vr.DefIdx)))
		case term.DefOp:
			e.boundOp(id, e.ts.Op(term.OpID(vr.DefIdx)))
		}
	}

	e.installUnitBounds()
	e.installFiniteDomains()
}

// boundSum tightens v's bound by interval arithmetic over its children:
// [Σ lo_i, Σ hi_i] with coeff folded in (a negative coefficient swaps a
// child's lo/hi contribution).
func (e *Engine[N]) boundSum(v term.VarID, s *term.Sum[N]) {
	lo, hi := s.Coeff, s.Coeff
	haveLo, haveHi := true, true

	for _, arg := range s.Args {
		cv := e.ts.Var(arg.Var)
		clo, chi, okLo, okHi := scaledBound(cv, arg.Coeff)
		if okLo {
			sum, err := lo.Add(clo)
			if err == nil {
				lo = sum
			} else {
				haveLo = false
			}
		} else {
			haveLo = false
		}
		if okHi {
			sum, err := hi.Add(chi)
			if err == nil {
				hi = sum
			} else {
				haveHi = false
			}
		} else {
			haveHi = false
		}
	}

	vr := e.ts.Var(v)
	if haveLo {
		term.AddGeBound(&vr.Lo, lo)
	}
	if haveHi {
		term.AddLeBound(&vr.Hi, hi)
	}
}

// scaledBound returns the interval [cv*coeff, cv*coeff] oriented as a
// (lo, hi) pair, folding in coeff's sign, and whether each side is
// actually known (both bounds present on cv).
func scaledBound[N num.Num[N]](cv *term.Var[N], coeff N) (lo, hi N, okLo, okHi bool) {
	if cv.Lo == nil || cv.Hi == nil {
		return lo, hi, false, false
	}
	a, err1 := coeff.Mul(cv.Lo.Value)
	b, err2 := coeff.Mul(cv.Hi.Value)
	if err1 != nil || err2 != nil {
		return lo, hi, false, false
	}
	if coeff.Sign() < 0 {
		a, b = b, a
	}
	return a, b, true, true
}

// boundMul installs the product's bound only when every factor has a
// known non-negative lower bound, per spec §4.H (the mixed-sign case is
// not attempted).
func (e *Engine[N]) boundMul(v term.VarID, m *term.Mul[N]) {
	lo, hi := num.One[N](), num.One[N]()
	for _, f := range m.Monomial {
		cv := e.ts.Var(f.Var)
		if cv.Lo == nil || cv.Hi == nil {
			return
		}
		if cv.Lo.Value.Sign() < 0 {
			return
		}
		flo, err1 := cv.Lo.Value.PowerOf(f.Power)
		fhi, err2 := cv.Hi.Value.PowerOf(f.Power)
		if err1 != nil || err2 != nil {
			return
		}
		nlo, err3 := lo.Mul(flo)
		nhi, err4 := hi.Mul(fhi)
		if err3 != nil || err4 != nil {
			return
		}
		lo, hi = nlo, nhi
	}

	vr := e.ts.Var(v)
	term.AddGeBound(&vr.Lo, lo)
	term.AddLeBound(&vr.Hi, hi)
}

// boundOp installs the direct bounds spec §4.H names: [0, divisor-1] for
// mod by a constant positive divisor, and a lower bound of 0 for abs.
func (e *Engine[N]) boundOp(v term.VarID, o *term.Op[N]) {
	vr := e.ts.Var(v)
	switch o.Kind {
	case term.OpMod:
		divisor := e.ts.Var(o.Arg2)
		if divisor.Lo == nil || divisor.Hi == nil || divisor.Lo.Value.Cmp(divisor.Hi.Value) != 0 {
			return
		}
		d := divisor.Lo.Value
		if d.Sign() <= 0 {
			return
		}
		one := num.One[N]()
		hi, err := d.Sub(one)
		if err != nil {
			return
		}
		term.AddGeBound(&vr.Lo, num.Zero[N]())
		term.AddLeBound(&vr.Hi, hi)
	case term.OpAbs:
		term.AddGeBound(&vr.Lo, num.Zero[N]())
	}
}

// installUnitBounds walks every currently unit literal whose atom is a
// single-variable linear (in)equality and installs a direct bound on
// that variable, converting a strict integer bound to non-strict by one
// unit per spec §4.H.
func (e *Engine[N]) installUnitBounds() {
	for lit := range e.ctx.UnitLiterals() {
		a := e.ctx.Atom(lit.BoolVar)
		if a == nil || len(a.Args) != 1 || !a.IsLinear {
			continue
		}
		arg := a.Args[0]
		if arg.Coeff.IsZero() {
			continue
		}
		positive := !lit.Negated

		// Rewrite coeff + c*v OP 0 into its positive-polarity shape: a
		// negated read negates both sides and swaps LE/LT, exactly as
		// dtt's effective() does for the value form.
		c, k, op := arg.Coeff, a.Coeff, a.Op
		if !positive {
			c, k = c.Neg(), k.Neg()
			switch op {
			case atom.OpLE:
				op = atom.OpLT
			case atom.OpLT:
				op = atom.OpLE
			default:
				continue // EQ's negation (distinctness) yields no bound
			}
		}

		vr := e.ts.Var(arg.Var)
		switch op {
		case atom.OpEQ:
			if !k.Neg().Rem(c).IsZero() {
				continue
			}
			bound, err := k.Neg().Quo(c)
			if err != nil {
				continue
			}
			term.AddGeBound(&vr.Lo, bound)
			term.AddLeBound(&vr.Hi, bound)
		case atom.OpLE, atom.OpLT:
			strict := op == atom.OpLT
			if c.Sign() > 0 {
				bound, err := k.Neg().DivFloor(c)
				if err != nil {
					continue
				}
				installHi(vr, bound, strict, vr.IsInt())
			} else {
				bound, err := k.Neg().DivCeil(c)
				if err != nil {
					continue
				}
				installLo(vr, bound, strict, vr.IsInt())
			}
		}
	}
}

// installHi tightens vr's upper bound to bound, non-strict unless
// strict is set; on an integer sort a strict bound is converted to
// non-strict by subtracting one, per spec §4.H.
func installHi[N num.Num[N]](vr *term.Var[N], bound N, strict, isInt bool) {
	if strict {
		if isInt {
			if b, err := bound.Sub(num.One[N]()); err == nil {
				term.AddLeBound(&vr.Hi, b)
			}
			return
		}
		term.AddLtBound(&vr.Hi, bound)
		return
	}
	term.AddLeBound(&vr.Hi, bound)
}

// installLo is installHi's lower-bound counterpart.
func installLo[N num.Num[N]](vr *term.Var[N], bound N, strict, isInt bool) {
	if strict {
		if isInt {
			if b, err := bound.Add(num.One[N]()); err == nil {
				term.AddGeBound(&vr.Lo, b)
			}
			return
		}
		term.AddGtBound(&vr.Lo, bound)
		return
	}
	term.AddGeBound(&vr.Lo, bound)
}

// installFiniteDomains walks top-level assertions that are disjunctions
// of x = numeral literals sharing the same variable, installing the
// admissible value set as x's finite domain.
func (e *Engine[N]) installFiniteDomains() {
	for c := range e.ctx.Clauses() {
		if len(c.Literals) < 2 {
			continue
		}
		var target term.VarID
		haveTarget := false
		var domain []N
		ok := true

		for _, lit := range c.Literals {
			a := e.ctx.Atom(lit.BoolVar)
			if a == nil || lit.Negated || a.Op != atom.OpEQ || len(a.Args) != 1 || !a.IsLinear {
				ok = false
				break
			}
			arg := a.Args[0]
			if haveTarget && arg.Var != target {
				ok = false
				break
			}
			target, haveTarget = arg.Var, true

			bound, err := a.Coeff.Neg().Quo(arg.Coeff)
			if err != nil || !a.Coeff.Neg().Rem(arg.Coeff).IsZero() {
				ok = false
				break
			}
			domain = append(domain, bound)
		}

		if ok && haveTarget && len(domain) > 0 {
			e.ts.Var(target).FiniteDomain = domain
		}
	}
}
