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
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// Engine owns the term DAG, the atom table, and every piece of mutable
// search state for the lifetime of the solver. It is not safe for
// concurrent use by multiple goroutines — like the teacher's CDCL
// Solver, it carries no locking, because there is exactly one caller
// driving it synchronously.
type Engine[N num.Num[N]] struct {
	ts  *term.Store[N]
	as  *atom.Store[N]
	ctx Ctx[N]
	cfg Config

	// weight/touched back the PAWS and UCB bookkeeping described in
	// spec §4.G, keyed by root assertion.
	weight       map[atom.BoolVar]int
	touched      map[atom.BoolVar]float64
	touchedTotal float64

	lastVar   term.VarID
	lastDelta N
	hasLast   bool

	step              int
	movesSinceRestart int
	restartNext       int
	restartK          int

	// tabuActive is the flet<bool>-style scoped toggle the source
	// algorithm uses to retry repair without the tabu check.
	tabuActive bool

	// fixableCache memoises the fixable-variable closure keyed by the
	// root assertion's Boolean variable (§4.G / §9 supplement).
	fixableCache map[atom.BoolVar][]term.VarID

	// updateStack is Update's explicit work-stack, used in place of
	// recursion over sum/product parents (§9).
	updateStack []term.VarID

	stats Stats
}

// NewEngine constructs an engine over an already-populated term/atom
// store pair, driven by ctx.
func NewEngine[N num.Num[N]](ts *term.Store[N], as *atom.Store[N], ctx Ctx[N], cfg Config) *Engine[N] {
	return &Engine[N]{
		ts:           ts,
		as:           as,
		ctx:          ctx,
		cfg:          cfg,
		weight:       map[atom.BoolVar]int{},
		touched:      map[atom.BoolVar]float64{},
		fixableCache: map[atom.BoolVar][]term.VarID{},
		restartNext:  cfg.RestartBase,
		restartK:     1,
		tabuActive:   true,
	}
}

// Terms returns the underlying term DAG store.
func (e *Engine[N]) Terms() *term.Store[N] {
	return e.ts
}

// Atoms returns the underlying atom table.
func (e *Engine[N]) Atoms() *atom.Store[N] {
	return e.as
}

// RegisterTerm interns e into the term DAG, returning its variable.
func (e *Engine[N]) RegisterTerm(expr term.Expr[N]) term.VarID {
	return e.ts.RegisterTerm(expr)
}

// InitBoolVar registers bv as known, with no arithmetic atom attached
// until InitIneq is called for it.
func (e *Engine[N]) InitBoolVar(bv atom.BoolVar) {
	e.as.InitBoolVar(bv)
}

// InitIneq attaches a canonical (in)equality atom to bv, built from expr.
func (e *Engine[N]) InitIneq(bv atom.BoolVar, op atom.Op, expr term.Expr[N]) (*atom.Atom[N], error) {
	return e.as.InitIneq(e.ts, bv, op, expr)
}

// Initialize computes bound and finite-domain information for every
// variable (spec §4.H), implemented in bounds_init.go.
func (e *Engine[N]) Initialize() {
	e.initBounds()
}

// StartPropagation seeds PAWS weights and UCB touch counters for every
// root assertion. Per spec §6, when ArithUseLookahead is false this is
// a no-op and the caller should not invoke GlobalSearch.
func (e *Engine[N]) StartPropagation() bool {
	if !e.cfg.ArithUseLookahead {
		return false
	}

	for bv := range e.as.Atoms() {
		e.weight[bv] = e.cfg.PawsInit
		e.touched[bv] = 1
	}
	e.touchedTotal = float64(len(e.weight))

	return true
}

// Propagate is always a no-op: the source algorithm documents it this
// way (propagation is driven externally by PropagateLiteral).
func (e *Engine[N]) Propagate() bool {
	return false
}

// SetValue assigns e's variable to v through full update propagation.
func (e *Engine[N]) SetValue(expr term.ExprID, v N) error {
	vid, ok := e.ts.LookupVar(expr)
	if !ok {
		return ErrUnexpected
	}
	return e.Update(vid, v)
}

// GetValue returns the current value of expr's variable.
func (e *Engine[N]) GetValue(expr term.ExprID) (N, bool) {
	vid, ok := e.ts.LookupVar(expr)
	if !ok {
		var zero N
		return zero, false
	}
	return e.ts.Value(vid), true
}

// IsFixed reports whether expr's variable is pinned to a single
// admissible value, and if so what it is.
func (e *Engine[N]) IsFixed(expr term.ExprID) (N, bool) {
	vid, ok := e.ts.LookupVar(expr)
	if !ok {
		var zero N
		return zero, false
	}
	v := e.ts.Var(vid)
	if !v.IsFixed() {
		var zero N
		return zero, false
	}
	return v.Value(), true
}

// IsSat reports whether every atom's truth matches its Boolean
// assignment.
func (e *Engine[N]) IsSat() bool {
	for bv, a := range e.as.Atoms() {
		lit := Literal{BoolVar: bv}
		positive := e.ctx.IsTrue(lit)
		isInt := e.atomIsInt(a)
		if !dtt(positive, a, isInt).IsZero() {
			return false
		}
	}
	return true
}

// SaveBestValues snapshots every variable's current value as its best
// known value.
func (e *Engine[N]) SaveBestValues() {
	for _, v := range e.ts.Vars() {
		v.SetBestValue()
	}
}

// PropagateLiteral notifies the engine that lit was just assigned by the
// owning context's CDCL propagation: if lit's atom disagrees with the
// new assignment, it tries the lightweight findLinMoves repair first and
// only falls through to full Repair (find_nl_moves, then reset) if that
// fails to find an applicable move.
func (e *Engine[N]) PropagateLiteral(lit Literal) error {
	a := e.ctx.Atom(lit.BoolVar)
	if a == nil {
		return nil
	}
	positive := !lit.Negated
	if dtt(positive, a, e.atomIsInt(a)).IsZero() {
		return nil
	}

	ok, err := e.findLinMoves(lit, a)
	if err != nil {
		return err
	}
	if ok {
		e.stats.Repairs++
		return nil
	}

	return e.Repair(lit)
}

// RepairLiteral is the external entry point for repair(lit), exposed
// directly for callers (e.g. a CDCL driver) that want to force a repair
// attempt outside of PropagateLiteral's inline dispatch.
func (e *Engine[N]) RepairLiteral(lit Literal) error {
	return e.Repair(lit)
}

func (e *Engine[N]) atomIsInt(a *atom.Atom[N]) bool {
	for _, arg := range a.Args {
		if e.ts.Var(arg.Var).IsInt() {
			return true
		}
	}
	return false
}
