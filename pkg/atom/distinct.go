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
	"github.com/spjmurray/go-util/pkg/set"

	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// Distinct tracks a `distinct(v1, v2, ...)` group, reduced to pairwise
// disequalities kept outside the ordinary atom table (eval_distinct /
// repair_distinct in the source algorithm). It has no single canonical
// linear form, so it is not an Atom.
type Distinct[N num.Num[N]] struct {
	Vars    []term.VarID
	members set.Set[term.VarID]
}

// NewDistinct builds a group over vars.
func NewDistinct[N num.Num[N]](vars []term.VarID) *Distinct[N] {
	m := set.New[term.VarID]()
	for _, v := range vars {
		m.Add(v)
	}
	return &Distinct[N]{Vars: append([]term.VarID(nil), vars...), members: m}
}

// Contains reports whether v belongs to this group.
func (d *Distinct[N]) Contains(v term.VarID) bool {
	for w := range d.members.All() {
		if w == v {
			return true
		}
	}
	return false
}

// Violated scans the group's current values for a colliding pair,
// returning it if found. O(n^2) in the group size, matching
// eval_distinct's naive pairwise scan — distinct groups in practice are
// small (puzzle-style constraints).
func (d *Distinct[N]) Violated(valueOf func(term.VarID) N) (term.VarID, term.VarID, bool) {
	for i := 0; i < len(d.Vars); i++ {
		vi := valueOf(d.Vars[i])
		for j := i + 1; j < len(d.Vars); j++ {
			if vi.Cmp(valueOf(d.Vars[j])) == 0 {
				return d.Vars[i], d.Vars[j], true
			}
		}
	}
	return 0, 0, false
}

// Taken reports whether some member of the group other than exclude
// currently holds value v.
func (d *Distinct[N]) Taken(valueOf func(term.VarID) N, exclude term.VarID, v N) bool {
	for _, w := range d.Vars {
		if w == exclude {
			continue
		}
		if valueOf(w).Cmp(v) == 0 {
			return true
		}
	}
	return false
}
