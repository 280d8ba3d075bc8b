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

package term

import "github.com/spjmurray/go-sls-arith/pkg/num"

// MulFactor is one (variable, power) pair in a monomial.
type MulFactor struct {
	Var   VarID
	Power uint
}

// Mul is var = product(value(w)^p) over the monomial, sorted by variable
// id with like factors merged.
type Mul[N num.Num[N]] struct {
	Var      VarID
	Monomial []MulFactor
}

// Eval recomputes the product's value from current argument values,
// returning ErrOverflow-wrapped errors from the backend on overflow.
func (m *Mul[N]) Eval(valueOf func(VarID) N) (N, error) {
	prod := num.One[N]()
	for _, f := range m.Monomial {
		p, err := valueOf(f.Var).PowerOf(f.Power)
		if err != nil {
			return prod, err
		}
		prod, err = prod.Mul(p)
		if err != nil {
			return prod, err
		}
	}
	return prod, nil
}

// ValueWithout computes the product's value with the factor attributed
// to x removed entirely (all powers of x dropped). Used by the
// linear/quadratic move proposers (mul_value_without in the source).
func (m *Mul[N]) ValueWithout(x VarID, valueOf func(VarID) N) (N, error) {
	prod := num.One[N]()
	for _, f := range m.Monomial {
		if f.Var == x {
			continue
		}
		p, err := valueOf(f.Var).PowerOf(f.Power)
		if err != nil {
			return prod, err
		}
		prod, err = prod.Mul(p)
		if err != nil {
			return prod, err
		}
	}
	return prod, nil
}

// PowerOfVar returns the power of x within the monomial and whether it
// occurs at all.
func (m *Mul[N]) PowerOfVar(x VarID) (uint, bool) {
	for _, f := range m.Monomial {
		if f.Var == x {
			return f.Power, true
		}
	}
	return 0, false
}
