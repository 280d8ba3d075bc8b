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

// Package atom canonicalises linear and non-linear (in)equalities into
// a table of Atom nodes, each attached to a Boolean variable owned by
// the caller's SMT context.
package atom

// BoolVar is a caller-owned Boolean variable identifier. The atom store
// never allocates these itself; it only ever indexes into a map keyed
// by values the caller supplies via InitBoolVar/InitIneq.
type BoolVar int

// Op discriminates the comparison an Atom represents: coeff + Σcᵢ·argᵢ ⋈ 0.
type Op int

const (
	OpLE Op = iota // <= 0
	OpLT           // < 0
	OpEQ           // == 0
)

func (o Op) String() string {
	switch o {
	case OpLE:
		return "<="
	case OpLT:
		return "<"
	case OpEQ:
		return "="
	default:
		return "?"
	}
}
