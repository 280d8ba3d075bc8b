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
)

// dtt is the distance-to-true metric: 0 when the atom, read with the
// given polarity (positive == the Boolean variable assigned true),
// currently satisfies that polarity; otherwise a positive penalty
// growing with how far from true it is.
func dtt[N num.Num[N]](positive bool, a *atom.Atom[N], isInt bool) N {
	return dttOf(positive, a.Op, a.ArgsValue, isInt)
}

// dttWithChange is the O(1) variant used by ComputeScore: given the raw
// change to a's cached ArgsValue a hypothetical move would cause (already
// folded through any coefficient and, for a move on a variable reaching
// the atom through a product, through mul_value_without), it reports the
// resulting dtt without touching anything else in the atom.
func dttWithChange[N num.Num[N]](positive bool, a *atom.Atom[N], change N, isInt bool) (N, bool) {
	newVal, err := a.ArgsValue.Add(change)
	if err != nil {
		return num.Zero[N](), false
	}
	return dttOf(positive, a.Op, newVal, isInt), true
}

// effective rewrites (op, val) for a negative polarity read into the
// equivalent positive-polarity comparison: "not (val <= 0)" becomes
// "-val < 0", and so on. EQ's negation is not expressible as a sign
// flip and is left to callers that need it (dttOf handles it directly).
func effective[N num.Num[N]](positive bool, op atom.Op, val N) (N, atom.Op) {
	if positive {
		return val, op
	}
	val = val.Neg()
	switch op {
	case atom.OpLE:
		op = atom.OpLT
	case atom.OpLT:
		op = atom.OpLE
	}
	return val, op
}

func dttOf[N num.Num[N]](positive bool, op atom.Op, val N, isInt bool) N {
	val, op = effective(positive, op, val)

	switch op {
	case atom.OpLE:
		if val.Sign() <= 0 {
			return num.Zero[N]()
		}
		return val
	case atom.OpLT:
		if val.Sign() < 0 {
			return num.Zero[N]()
		}
		if isInt {
			if bumped, err := val.Add(num.One[N]()); err == nil {
				return bumped
			}
			return val
		}
		if val.IsZero() {
			return num.One[N]()
		}
		return val
	default: // OpEQ
		// Negation doesn't change zero-ness, so the Neg() above was a
		// no-op here; distinctness (wanting EQ false) is satisfied
		// exactly when the value is non-zero.
		satisfied := val.IsZero()
		if !positive {
			satisfied = !satisfied
		}
		if satisfied {
			return num.Zero[N]()
		}
		return num.One[N]()
	}
}
