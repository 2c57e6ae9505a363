// Package solver implements a small boolean constraint solver used by the
// timetable generation engine. Models are built from boolean variables plus
// at-most-one and linear cardinality constraints, then solved by a
// propagate-and-backtrack search under a wall-clock budget.
package solver

import (
	"time"
)

// Status is the outcome of a Solve call.
type Status int

const (
	// StatusUnknown means the budget expired before the search finished.
	StatusUnknown Status = iota
	// StatusFeasible means a full assignment satisfying every constraint was found.
	StatusFeasible
	// StatusInfeasible means the search space was exhausted without a solution.
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	}
	return "unknown"
}

// Var is a handle to one boolean variable in a model.
type Var int

type constraintKind int

const (
	kindAtMostOne constraintKind = iota
	kindAtLeast
	kindAtMost
)

type constraint struct {
	kind  constraintKind
	vars  []Var
	bound int
}

// Model accumulates variables and constraints.
type Model struct {
	names       []string
	constraints []constraint
	// watch[v] lists the constraints mentioning v.
	watch [][]int
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewBoolVar declares a boolean variable. The name is for diagnostics only.
func (m *Model) NewBoolVar(name string) Var {
	v := Var(len(m.names))
	m.names = append(m.names, name)
	m.watch = append(m.watch, nil)
	return v
}

// Name returns the diagnostic name of a variable.
func (m *Model) Name(v Var) string {
	return m.names[v]
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int {
	return len(m.names)
}

// NumConstraints returns the number of posted constraints.
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

func (m *Model) post(c constraint) {
	idx := len(m.constraints)
	m.constraints = append(m.constraints, c)
	for _, v := range c.vars {
		m.watch[v] = append(m.watch[v], idx)
	}
}

// AddAtMostOne posts: at most one of vars is true.
func (m *Model) AddAtMostOne(vars []Var) {
	if len(vars) < 2 {
		return
	}
	m.post(constraint{kind: kindAtMostOne, vars: vars})
}

// AddLinearAtLeast posts: sum(vars) >= min.
func (m *Model) AddLinearAtLeast(vars []Var, min int) {
	if min <= 0 {
		return
	}
	m.post(constraint{kind: kindAtLeast, vars: vars, bound: min})
}

// AddLinearAtMost posts: sum(vars) <= max.
func (m *Model) AddLinearAtMost(vars []Var, max int) {
	if max >= len(vars) {
		return
	}
	m.post(constraint{kind: kindAtMost, vars: vars, bound: max})
}

// Result carries the outcome of a Solve call.
type Result struct {
	Status  Status
	Elapsed time.Duration
	values  []int8
}

// Value reports the solved value of v. Only meaningful for StatusFeasible.
func (r Result) Value(v Var) bool {
	if int(v) >= len(r.values) {
		return false
	}
	return r.values[v] == assignedTrue
}

const (
	unassigned    int8 = 0
	assignedTrue  int8 = 1
	assignedFalse int8 = -1
)

type searchState struct {
	model    *Model
	values   []int8
	trail    []Var
	deadline time.Time
	nodes    int
	expired  bool
}

// Solve searches for a satisfying assignment within the timeout. The search
// prefers leaving variables false, so a feasible result carries the trues the
// bounds demand rather than every value the constraints would tolerate.
func (m *Model) Solve(timeout time.Duration) Result {
	start := time.Now()
	st := &searchState{
		model:    m,
		values:   make([]int8, len(m.names)),
		deadline: start.Add(timeout),
	}

	// Infeasibility can be structural: an at-least bound no subset can meet.
	for _, c := range m.constraints {
		if c.kind == kindAtLeast && c.bound > len(c.vars) {
			return Result{Status: StatusInfeasible, Elapsed: time.Since(start)}
		}
	}

	ok := st.search()
	elapsed := time.Since(start)
	if st.expired {
		return Result{Status: StatusUnknown, Elapsed: elapsed}
	}
	if !ok {
		return Result{Status: StatusInfeasible, Elapsed: elapsed}
	}
	return Result{Status: StatusFeasible, Elapsed: elapsed, values: st.values}
}

func (st *searchState) search() bool {
	st.nodes++
	if st.nodes&1023 == 0 && time.Now().After(st.deadline) {
		st.expired = true
		return false
	}

	v, done := st.pickVar()
	if done {
		return st.allSatisfied()
	}

	// False first keeps solutions sparse: a variable only becomes true when
	// an at-least bound forces it, so feasible schedules never fill every
	// free cell.
	for _, value := range []int8{assignedFalse, assignedTrue} {
		mark := len(st.trail)
		if st.assign(v, value) && st.propagate(v) {
			if st.search() {
				return true
			}
		}
		st.undo(mark)
		if st.expired {
			return false
		}
	}
	return false
}

// pickVar chooses the unassigned variable watched by the most constraints.
func (st *searchState) pickVar() (Var, bool) {
	best := Var(-1)
	bestWatch := -1
	for i := range st.values {
		if st.values[i] != unassigned {
			continue
		}
		if w := len(st.model.watch[i]); w > bestWatch {
			best = Var(i)
			bestWatch = w
		}
	}
	if best < 0 {
		return 0, true
	}
	return best, false
}

func (st *searchState) assign(v Var, value int8) bool {
	switch st.values[v] {
	case unassigned:
		st.values[v] = value
		st.trail = append(st.trail, v)
		return true
	case value:
		return true
	}
	return false
}

func (st *searchState) undo(mark int) {
	for len(st.trail) > mark {
		v := st.trail[len(st.trail)-1]
		st.trail = st.trail[:len(st.trail)-1]
		st.values[v] = unassigned
	}
}

// propagate applies unit consequences of the constraints watching v. Returns
// false on a detected conflict.
func (st *searchState) propagate(v Var) bool {
	queue := []Var{v}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ci := range st.model.watch[cur] {
			forced, ok := st.check(st.model.constraints[ci])
			if !ok {
				return false
			}
			queue = append(queue, forced...)
		}
	}
	return true
}

// check evaluates a constraint under the current partial assignment, applying
// forced assignments. Returns the newly forced variables and whether the
// constraint is still satisfiable.
func (st *searchState) check(c constraint) ([]Var, bool) {
	trueCount := 0
	free := 0
	for _, v := range c.vars {
		switch st.values[v] {
		case assignedTrue:
			trueCount++
		case unassigned:
			free++
		}
	}

	var forced []Var
	switch c.kind {
	case kindAtMostOne:
		if trueCount > 1 {
			return nil, false
		}
		if trueCount == 1 && free > 0 {
			for _, v := range c.vars {
				if st.values[v] == unassigned {
					if !st.assign(v, assignedFalse) {
						return nil, false
					}
					forced = append(forced, v)
				}
			}
		}
	case kindAtLeast:
		if trueCount+free < c.bound {
			return nil, false
		}
		if trueCount < c.bound && trueCount+free == c.bound {
			for _, v := range c.vars {
				if st.values[v] == unassigned {
					if !st.assign(v, assignedTrue) {
						return nil, false
					}
					forced = append(forced, v)
				}
			}
		}
	case kindAtMost:
		if trueCount > c.bound {
			return nil, false
		}
		if trueCount == c.bound && free > 0 {
			for _, v := range c.vars {
				if st.values[v] == unassigned {
					if !st.assign(v, assignedFalse) {
						return nil, false
					}
					forced = append(forced, v)
				}
			}
		}
	}
	return forced, true
}

func (st *searchState) allSatisfied() bool {
	for _, c := range st.model.constraints {
		trueCount := 0
		for _, v := range c.vars {
			if st.values[v] == assignedTrue {
				trueCount++
			}
		}
		switch c.kind {
		case kindAtMostOne:
			if trueCount > 1 {
				return false
			}
		case kindAtLeast:
			if trueCount < c.bound {
				return false
			}
		case kindAtMost:
			if trueCount > c.bound {
				return false
			}
		}
	}
	return true
}
