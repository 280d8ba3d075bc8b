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

// LinearOccur records one atom (identified by its bool variable, owned by
// the atom package but passed through opaquely here) whose cached linear
// sum depends on this variable with the given coefficient.
type LinearOccur[N num.Num[N]] struct {
	Coeff N
	// BoolVar is the bool variable of the dependent atom, stored as a
	// plain int to avoid a package import cycle with pkg/atom.
	BoolVar int
}

// Var is one interned arithmetic subterm.
type Var[N num.Num[N]] struct {
	Expr ExprID

	value     N
	bestValue N

	Lo *Bound[N]
	Hi *Bound[N]

	Range Range[N]

	Def    DefKind
	DefIdx int // index into Sums/Muls/Ops depending on Def

	Muls []MulID // product monomials containing this variable
	Adds []SumID // sums containing this variable

	LinearOccurs []LinearOccur[N]

	FiniteDomain []N // explicit admissible values, nil if unconstrained

	LastStep     int
	BanUntilStep int
	LastDelta    N

	Sort Sort
}

// IsInt reports whether the variable has integer sort.
func (v *Var[N]) IsInt() bool {
	return v.Sort == SortInt
}

// Value returns the variable's current value.
func (v *Var[N]) Value() N {
	return v.value
}

// BestValue returns the last value saved by SaveBestValues.
func (v *Var[N]) BestValue() N {
	return v.bestValue
}

// SetValue assigns the variable's current value. It performs no
// consistency checks; callers must go through the engine's update
// propagation to keep derived state consistent.
func (v *Var[N]) SetValue(val N) {
	v.value = val
}

// SetBestValue snapshots the current value as the best known value.
func (v *Var[N]) SetBestValue() {
	v.bestValue = v.value
}

// InRange reports whether val is admissible for overflow-protection
// purposes.
func (v *Var[N]) InRange(val N) bool {
	return v.Range.InRange(val)
}

// InBounds reports whether val satisfies the variable's logical bounds.
func (v *Var[N]) InBounds(val N) bool {
	return InBounds(v.Lo, v.Hi, val)
}

// IsFixed reports whether the variable's bounds pin it to a single value
// equal to its current one.
func (v *Var[N]) IsFixed() bool {
	return v.Lo != nil && v.Hi != nil && v.Lo.Value.Cmp(v.Hi.Value) == 0 && v.Lo.Value.Cmp(v.value) == 0
}

// IsTabu reports whether this variable is still inside the ban window
// from a prior move at the given step. Rejecting a delta that exactly
// reverses the last committed move is left to the caller, which knows
// the global last-move state.
func (v *Var[N]) IsTabu(step int) bool {
	return step < v.BanUntilStep
}

// SetStep records that this variable was moved by delta at the given
// step, with its tabu ban lifted at banUntil.
func (v *Var[N]) SetStep(step, banUntil int, delta N) {
	v.LastStep = step
	v.BanUntilStep = banUntil
	v.LastDelta = delta
}
