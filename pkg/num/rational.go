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

import "math/big"

// Rational is the arbitrary precision backend, a thin wrapper over
// math/big.Rat. It never overflows: every method that returns an error
// does so only to satisfy the Num[T] contract and always returns nil.
type Rational struct {
	r *big.Rat
}

var zeroRat = new(big.Rat)

func ratOf(r *big.Rat) Rational {
	if r == nil {
		r = new(big.Rat)
	}
	return Rational{r: r}
}

// RatFromInt64 constructs a Rational with integer value n.
func RatFromInt64(n int64) Rational {
	return Rational{r: new(big.Rat).SetInt64(n)}
}

// RatFromBig constructs a Rational from a math/big.Rat, taking ownership
// of the pointer's value (it is copied defensively).
func RatFromBig(r *big.Rat) Rational {
	return Rational{r: new(big.Rat).Set(r)}
}

// RatFromFrac constructs a Rational equal to num/den.
func RatFromFrac(num, den int64) Rational {
	return Rational{r: big.NewRat(num, den)}
}

func (a Rational) rat() *big.Rat {
	if a.r == nil {
		return zeroRat
	}
	return a.r
}

// Big exposes the underlying big.Rat for callers that need to round-trip
// through the AST layer's numeral representation.
func (a Rational) Big() *big.Rat {
	return new(big.Rat).Set(a.rat())
}

func (a Rational) Add(o Rational) (Rational, error) {
	return ratOf(new(big.Rat).Add(a.rat(), o.rat())), nil
}

func (a Rational) Sub(o Rational) (Rational, error) {
	return ratOf(new(big.Rat).Sub(a.rat(), o.rat())), nil
}

func (a Rational) Neg() Rational {
	return ratOf(new(big.Rat).Neg(a.rat()))
}

func (a Rational) Mul(o Rational) (Rational, error) {
	return ratOf(new(big.Rat).Mul(a.rat(), o.rat())), nil
}

// Quo is exact division: over the rationals, truncation toward zero is
// the same thing as division.
func (a Rational) Quo(o Rational) (Rational, error) {
	return ratOf(new(big.Rat).Quo(a.rat(), o.rat())), nil
}

// Rem is the remainder of truncated division: a - trunc(a/o)*o.
func (a Rational) Rem(o Rational) Rational {
	if o.IsZero() {
		return RatFromInt64(0)
	}
	q := new(big.Rat).Quo(a.rat(), o.rat())
	qi := new(big.Int).Quo(q.Num(), q.Denom())
	qr := new(big.Rat).SetInt(qi)
	return ratOf(new(big.Rat).Sub(a.rat(), new(big.Rat).Mul(qr, o.rat())))
}

func (a Rational) DivFloor(o Rational) (Rational, error) {
	return ratOf(new(big.Rat).Quo(a.rat(), o.rat())), nil
}

func (a Rational) DivCeil(o Rational) (Rational, error) {
	return ratOf(new(big.Rat).Quo(a.rat(), o.rat())), nil
}

// Mod is undefined over the rationals in the classical sense; the local
// search engine never calls Mod on a Rational-instantiated engine since
// MOD/REM/IDIV terms only arise over integer sorts, but the method is
// implemented for contract completeness: a mod b == a - b*floor(a/b).
func (a Rational) Mod(o Rational) Rational {
	if o.IsZero() {
		return RatFromInt64(0)
	}
	q := new(big.Rat).Quo(a.rat(), o.rat())
	qi := new(big.Int).Div(q.Num(), q.Denom())
	qr := new(big.Rat).SetInt(qi)
	return ratOf(new(big.Rat).Sub(a.rat(), new(big.Rat).Mul(qr, o.rat())))
}

func (a Rational) Abs() Rational {
	return ratOf(new(big.Rat).Abs(a.rat()))
}

func (a Rational) Sign() int {
	return a.rat().Sign()
}

func (a Rational) Cmp(o Rational) int {
	return a.rat().Cmp(o.rat())
}

func (a Rational) IsZero() bool {
	return a.rat().Sign() == 0
}

func (a Rational) PowerOf(k uint) (Rational, error) {
	result := RatFromInt64(1)
	base := a
	for k > 0 {
		if k&1 == 1 {
			result, _ = result.Mul(base)
		}
		base, _ = base.Mul(base)
		k >>= 1
	}
	return result, nil
}

func (a Rational) RootOf(k uint) Rational {
	return Sqrt(a, k)
}

func (a Rational) Int64() (int64, bool) {
	if !a.rat().IsInt() {
		return 0, false
	}
	n := a.rat().Num()
	if !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}

func (a Rational) FromInt(i int64) Rational {
	return RatFromInt64(i)
}

func (a Rational) String() string {
	return a.rat().RatString()
}

// Float64 returns the nearest float64 approximation, for diagnostics and
// the lookahead scorer's sigmoidal shaping (score.go); never used for a
// decision that must be exact.
func (a Rational) Float64() float64 {
	f, _ := a.rat().Float64()
	return f
}
