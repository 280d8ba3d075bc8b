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
)

// findQuadraticMoves implements find_quadratic_moves for an atom
// restricted to x: a*x^2 + b*x + rest ⋈ 0, where rest is everything the
// atom's current args_value attributes to terms other than x's own
// quadratic and linear contribution. Roots are found via the
// discriminant d = b^2 - 4*a*rest; candidates are the roots themselves
// and their immediate integer neighbours (a floor/ceil stand-in), since
// an exact continued-fraction floor of a big.Rat root buys nothing a
// local search step wouldn't already explore on the next move.
func findQuadraticMoves[N num.Num[N]](a, b, rest, cur N) []N {
	if a.IsZero() {
		return nil
	}

	bb, err := b.Mul(b)
	if err != nil {
		return nil
	}
	four := num.Zero[N]().FromInt(4)
	fourA, err := four.Mul(a)
	if err != nil {
		return nil
	}
	fourAC, err := fourA.Mul(rest)
	if err != nil {
		return nil
	}
	d, err := bb.Sub(fourAC)
	if err != nil {
		return nil
	}
	if d.Sign() < 0 {
		return nil
	}

	sqrtD := num.Sqrt(d, 2)
	twoA, err := num.Zero[N]().FromInt(2).Mul(a)
	if err != nil || twoA.IsZero() {
		return nil
	}

	negB := b.Neg()
	num1, err1 := negB.Add(sqrtD)
	num2, err2 := negB.Sub(sqrtD)
	if err1 != nil || err2 != nil {
		return nil
	}

	root1, e1 := num1.Quo(twoA)
	root2, e2 := num2.Quo(twoA)
	if e1 != nil || e2 != nil {
		return nil
	}

	one := num.One[N]()
	candidates := []N{root1, root2}
	if v, err := root1.Add(one); err == nil {
		candidates = append(candidates, v)
	}
	if v, err := root1.Sub(one); err == nil {
		candidates = append(candidates, v)
	}
	if v, err := root2.Add(one); err == nil {
		candidates = append(candidates, v)
	}
	if v, err := root2.Sub(one); err == nil {
		candidates = append(candidates, v)
	}

	var deltas []N
	seen := map[string]bool{}
	for _, c := range candidates {
		delta, err := c.Sub(cur)
		if err != nil || delta.IsZero() {
			continue
		}
		key := delta.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		deltas = append(deltas, delta)
	}
	return deltas
}
