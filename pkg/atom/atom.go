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

package atom

import (
	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// Arg is one (coefficient, variable) pair of an atom's canonical linear
// form, coeff + Σ cᵢ·argᵢ ⋈ 0.
type Arg[N num.Num[N]] struct {
	Coeff N
	Var   term.VarID
}

// NonlinearEntry is one contribution of an "inner" variable x to a
// product that appears, with the given coefficient and power, inside
// this atom. Grouped by x in Atom.Nonlinear so move proposers can ask
// "what does this atom look like as a function of x alone".
type NonlinearEntry[N num.Num[N]] struct {
	// OuterVar is the product (or plain) variable this contribution
	// belongs to — Arg.Var of the atom argument it came from.
	OuterVar term.VarID
	Coeff    N
	Power    uint
}

// Atom is a canonicalised (in)equality attached to a Boolean variable:
// coeff + Σ cᵢ·argᵢ ⋈ 0.
type Atom[N num.Num[N]] struct {
	BoolVar BoolVar
	Op      Op
	Coeff   N

	// Args holds one entry per distinct variable occurring in the
	// atom, sorted and folded by variable id.
	Args []Arg[N]

	// Monomials[i] is non-nil when Args[i].Var is a product variable,
	// exposing its underlying monomial; nil for plain variables.
	Monomials [][]term.MulFactor

	// Nonlinear groups, by inner factor variable, every (outer
	// variable, coefficient, power) triple through which that
	// variable's value reaches this atom. Populated for every
	// argument, linear or not, since find_nl_moves iterates it
	// uniformly.
	Nonlinear map[term.VarID][]NonlinearEntry[N]

	// ArgsValue caches coeff + Σ cᵢ·value(argᵢ); kept consistent by the
	// value-update engine.
	ArgsValue N

	// IsLinear is false if any argument is a product variable.
	IsLinear bool
}

// Eval recomputes ArgsValue from current argument values; used to
// (re)establish the cache and by CheckInvariants to detect staleness.
func (a *Atom[N]) Eval(valueOf func(term.VarID) N) (N, error) {
	sum := a.Coeff
	for _, arg := range a.Args {
		prod, err := arg.Coeff.Mul(valueOf(arg.Var))
		if err != nil {
			return sum, err
		}
		sum, err = sum.Add(prod)
		if err != nil {
			return sum, err
		}
	}
	return sum, nil
}
