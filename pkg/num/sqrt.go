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

package num

// IntSqrt computes the integer square root of a non-negative d using the
// recursive refinement:
//
//	i = 1,     3,     5,     7,      9, ...
//	    d, d - 1, d - 4, d - 9, d - 16,
//
// i.e. sq = 2*IntSqrt(d/4) + 1, corrected down by one if it overshoots.
// This is the exact helper the quadratic move proposer relies on to
// compute the discriminant root; d < 0 is the caller's responsibility to
// exclude.
func IntSqrt[T Num[T]](d T) T {
	one := d.FromInt(1)
	if d.Cmp(one) <= 0 {
		if d.Sign() < 0 {
			return d.FromInt(0)
		}
		return d
	}
	four := d.FromInt(4)
	quarter, _ := d.DivFloor(four)
	half := IntSqrt(quarter)
	two := d.FromInt(2)
	doubled, _ := two.Mul(half)
	sq, _ := doubled.Add(one)
	sqSq, _ := sq.Mul(sq)
	if sqSq.Cmp(d) <= 0 {
		return sq
	}
	sqMinus1, _ := sq.Sub(one)
	return sqMinus1
}

// Sqrt is an alias used by the Rational/Checked64 RootOf(2) fast path;
// general k-th roots go through newtonRoot.
func Sqrt[T Num[T]](a T, k uint) T {
	if k == 2 && a.Sign() >= 0 {
		return IntSqrt(a)
	}
	return newtonRoot(a, k)
}

// newtonRoot implements the general integer k'th root via the Newton
// iteration x_{n+1} = ((k-1)*x_n + a/x_n^(k-1)) / k, halted as soon as the
// sequence stops decreasing, matching root_of(k,a) from the source
// algorithm. Requires a >= 0, k >= 1.
func newtonRoot[T Num[T]](a T, k uint) T {
	zero := a.FromInt(0)
	if a.Sign() <= 0 || k == 0 {
		return zero
	}
	one := a.FromInt(1)
	if k == 1 {
		return a
	}

	x := a
	kMinus1 := a.FromInt(int64(k - 1))
	kNum := a.FromInt(int64(k))

	for {
		xPow, err := x.PowerOf(k - 1)
		if err != nil || xPow.IsZero() {
			break
		}
		quot, err := a.DivFloor(xPow)
		if err != nil {
			break
		}
		lhs, _ := kMinus1.Mul(x)
		sum, _ := lhs.Add(quot)
		next, err := sum.DivFloor(kNum)
		if err != nil {
			break
		}
		if next.Cmp(x) >= 0 {
			break
		}
		x = next
	}

	for {
		xp, err := x.Add(one)
		if err != nil {
			break
		}
		p, err := xp.PowerOf(k)
		if err != nil {
			break
		}
		if p.Cmp(a) <= 0 {
			x = xp
			continue
		}
		break
	}
	for {
		p, err := x.PowerOf(k)
		if err != nil || p.Cmp(a) <= 0 {
			break
		}
		x, _ = x.Sub(one)
	}
	return x
}
