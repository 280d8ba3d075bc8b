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
	"iter"

	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// Store is the arena of atoms and the bool-var <-> atom bijection. Some
// Bool variables the caller registers via InitBoolVar never get an
// arithmetic atom (they're pure Boolean connectives) and are simply
// absent from boolVar2Atom.
type Store[N num.Num[N]] struct {
	atoms        []Atom[N]
	boolVar2Atom map[BoolVar]int

	distincts   []*Distinct[N]
	varDistinct map[term.VarID][]int
}

// NewStore creates an empty atom table.
func NewStore[N num.Num[N]]() *Store[N] {
	return &Store[N]{
		boolVar2Atom: map[BoolVar]int{},
		varDistinct:  map[term.VarID][]int{},
	}
}

// InitBoolVar registers bv as a known Boolean variable with no
// arithmetic atom attached (it is ignored by arithmetic repair/search
// until, if ever, InitIneq attaches one). Calling it for a bv that
// already has an atom is a no-op.
func (s *Store[N]) InitBoolVar(bv BoolVar) {
	if _, ok := s.boolVar2Atom[bv]; !ok {
		s.boolVar2Atom[bv] = -1
	}
}

// Atom returns the atom bound to bv, or nil if bv has none.
func (s *Store[N]) Atom(bv BoolVar) *Atom[N] {
	idx, ok := s.boolVar2Atom[bv]
	if !ok || idx < 0 {
		return nil
	}
	return &s.atoms[idx]
}

// Atoms iterates over every registered atom together with its Boolean
// variable.
func (s *Store[N]) Atoms() iter.Seq2[BoolVar, *Atom[N]] {
	return func(yield func(BoolVar, *Atom[N]) bool) {
		for i := range s.atoms {
			if !yield(s.atoms[i].BoolVar, &s.atoms[i]) {
				return
			}
		}
	}
}

// InitIneq builds and attaches the canonical atom `coeff + Σcᵢ·argᵢ ⋈ 0`
// for bv from the expression e (init_ineq steps (i)-(v)): e is walked
// with add_args into a folded, sorted linear term; product arguments
// expose their monomial; back-references are installed into each
// argument variable's LinearOccurs list; and the nonlinear grouping by
// inner factor variable is built for every argument, linear or not.
func (s *Store[N]) InitIneq(ts *term.Store[N], bv BoolVar, op Op, e term.Expr[N]) (*Atom[N], error) {
	lt := term.LinearTerm[N]{Coeff: num.Zero[N]()}
	if err := ts.AddArgs(&lt, e, num.One[N]()); err != nil {
		return nil, err
	}
	term.FoldLinearTerm(&lt)

	a := Atom[N]{
		BoolVar:   bv,
		Op:        op,
		Coeff:     lt.Coeff,
		Args:      make([]Arg[N], len(lt.Args)),
		Monomials: make([][]term.MulFactor, len(lt.Args)),
		Nonlinear: map[term.VarID][]NonlinearEntry[N]{},
		IsLinear:  true,
	}

	for i, sa := range lt.Args {
		a.Args[i] = Arg[N]{Coeff: sa.Coeff, Var: sa.Var}

		v := ts.Var(sa.Var)
		v.LinearOccurs = append(v.LinearOccurs, term.LinearOccur[N]{Coeff: sa.Coeff, BoolVar: int(bv)})

		if v.Def == term.DefMul {
			mono := ts.Mul(term.MulID(v.DefIdx)).Monomial
			a.Monomials[i] = mono
			a.IsLinear = false
			for _, f := range mono {
				a.Nonlinear[f.Var] = append(a.Nonlinear[f.Var], NonlinearEntry[N]{
					OuterVar: sa.Var,
					Coeff:    sa.Coeff,
					Power:    f.Power,
				})
			}
			continue
		}

		a.Nonlinear[sa.Var] = append(a.Nonlinear[sa.Var], NonlinearEntry[N]{
			OuterVar: sa.Var,
			Coeff:    sa.Coeff,
			Power:    1,
		})
	}

	valueOf := func(w term.VarID) N { return ts.Value(w) }
	val, err := a.Eval(valueOf)
	if err != nil {
		return nil, err
	}
	a.ArgsValue = val

	idx := len(s.atoms)
	s.atoms = append(s.atoms, a)
	s.boolVar2Atom[bv] = idx

	return &s.atoms[idx], nil
}

// Distinct registers a `distinct(vars...)` group and returns its index,
// reusable with RepairDistinct/Violated lookups.
func (s *Store[N]) Distinct(vars []term.VarID) int {
	idx := len(s.distincts)
	s.distincts = append(s.distincts, NewDistinct[N](vars))
	for _, v := range vars {
		s.varDistinct[v] = append(s.varDistinct[v], idx)
	}
	return idx
}

// DistinctGroup returns the distinct group at idx.
func (s *Store[N]) DistinctGroup(idx int) *Distinct[N] {
	return s.distincts[idx]
}

// DistinctGroupsOf returns every distinct group v participates in.
func (s *Store[N]) DistinctGroupsOf(v term.VarID) []int {
	return s.varDistinct[v]
}

// NumDistinctGroups returns how many distinct groups are registered.
func (s *Store[N]) NumDistinctGroups() int {
	return len(s.distincts)
}
