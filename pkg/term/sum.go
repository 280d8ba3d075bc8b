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

// SumArg is one coefficient/variable pair in a Sum or LinearTerm.
type SumArg[N num.Num[N]] struct {
	Coeff N
	Var   VarID
}

// Sum is var = coeff + sum(c_i * arg_i), args sorted by variable id with
// duplicates folded.
type Sum[N num.Num[N]] struct {
	Var   VarID
	Coeff N
	Args  []SumArg[N]
}

// Eval recomputes the sum's value from current argument values.
func (s *Sum[N]) Eval(valueOf func(VarID) N) (N, error) {
	sum := s.Coeff
	var err error
	for _, a := range s.Args {
		term, e := a.Coeff.Mul(valueOf(a.Var))
		if e != nil {
			return sum, e
		}
		sum, err = sum.Add(term)
		if err != nil {
			return sum, err
		}
	}
	return sum, nil
}

// LinearTerm accumulates add_args's walk over an expression: a constant
// coefficient plus a set of (coeff, var) pairs, prior to folding and
// sorting into a Sum or an atom's args.
type LinearTerm[N num.Num[N]] struct {
	Coeff N
	Args  []SumArg[N]
}
