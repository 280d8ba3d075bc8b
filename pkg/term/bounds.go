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

// Bound is a one-sided constraint on a variable's value.
type Bound[N num.Num[N]] struct {
	Strict bool
	Value  N
}

// Range bounds the admissible value window used purely for overflow
// protection and is distinct from the logical Lo/Hi bounds derived from
// the input problem. Its only mutators, AddLo and AddHi, tighten it;
// nothing in this package widens it.
type Range[N num.Num[N]] struct {
	Lo *N
	Hi *N
}

// InRange reports whether v falls inside the range, treating a nil
// bound as unbounded on that side.
func (r Range[N]) InRange(v N) bool {
	if r.Lo != nil && v.Cmp(*r.Lo) < 0 {
		return false
	}
	if r.Hi != nil && v.Cmp(*r.Hi) > 0 {
		return false
	}
	return true
}

// AddLo tightens r to be at least as restrictive as lo.
func (r *Range[N]) AddLo(lo N) {
	if r.Lo == nil || lo.Cmp(*r.Lo) > 0 {
		v := lo
		r.Lo = &v
	}
}

// AddHi tightens r to be at least as restrictive as hi.
func (r *Range[N]) AddHi(hi N) {
	if r.Hi == nil || hi.Cmp(*r.Hi) < 0 {
		v := hi
		r.Hi = &v
	}
}

// InBounds reports whether value satisfies the (possibly strict) logical
// Lo/Hi bounds of a variable.
func InBounds[N num.Num[N]](lo, hi *Bound[N], value N) bool {
	if lo != nil {
		if value.Cmp(lo.Value) < 0 {
			return false
		}
		if lo.Strict && value.Cmp(lo.Value) == 0 {
			return false
		}
	}
	if hi != nil {
		if value.Cmp(hi.Value) > 0 {
			return false
		}
		if hi.Strict && value.Cmp(hi.Value) == 0 {
			return false
		}
	}
	return true
}

// AddLeBound tightens dst's Hi bound to be <= n (non-strict).
func AddLeBound[N num.Num[N]](dst **Bound[N], n N) {
	tightenBound(dst, n, false, true)
}

// AddGeBound tightens dst's Lo bound to be >= n (non-strict).
func AddGeBound[N num.Num[N]](dst **Bound[N], n N) {
	tightenBound(dst, n, false, false)
}

// AddLtBound tightens dst's Hi bound to be < n (strict).
func AddLtBound[N num.Num[N]](dst **Bound[N], n N) {
	tightenBound(dst, n, true, true)
}

// AddGtBound tightens dst's Lo bound to be > n (strict).
func AddGtBound[N num.Num[N]](dst **Bound[N], n N) {
	tightenBound(dst, n, true, false)
}

func tightenBound[N num.Num[N]](dst **Bound[N], n N, strict bool, upper bool) {
	cur := *dst
	if cur == nil {
		*dst = &Bound[N]{Strict: strict, Value: n}
		return
	}
	cmp := n.Cmp(cur.Value)
	switch {
	case upper && cmp < 0, !upper && cmp > 0:
		*dst = &Bound[N]{Strict: strict, Value: n}
	case cmp == 0 && strict && !cur.Strict:
		*dst = &Bound[N]{Strict: true, Value: n}
	}
}
