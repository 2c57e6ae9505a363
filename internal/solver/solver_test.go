package solver

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveTrivialFeasible(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddAtMostOne([]Var{a, b})
	m.AddLinearAtLeast([]Var{a, b}, 1)

	res := m.Solve(time.Second)
	require.Equal(t, StatusFeasible, res.Status)
	assert.False(t, res.Value(a) && res.Value(b))
	assert.True(t, res.Value(a) || res.Value(b))
}

func TestSolveInfeasibleBound(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	// Requires both true but forbids two trues.
	m.AddLinearAtLeast([]Var{a, b}, 2)
	m.AddAtMostOne([]Var{a, b})

	res := m.Solve(time.Second)
	assert.Equal(t, StatusInfeasible, res.Status)
}

func TestSolveStructuralInfeasible(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	m.AddLinearAtLeast([]Var{a}, 2)

	res := m.Solve(time.Second)
	assert.Equal(t, StatusInfeasible, res.Status)
}

func TestSolveAtMostBound(t *testing.T) {
	m := NewModel()
	vars := make([]Var, 6)
	for i := range vars {
		vars[i] = m.NewBoolVar(fmt.Sprintf("x%d", i))
	}
	m.AddLinearAtLeast(vars, 3)
	m.AddLinearAtMost(vars, 3)

	res := m.Solve(time.Second)
	require.Equal(t, StatusFeasible, res.Status)
	count := 0
	for _, v := range vars {
		if res.Value(v) {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestSolveDoesNotFillFreeCells(t *testing.T) {
	// Five candidate cells with a lower bound of two: the solution books
	// exactly two and leaves the rest empty. An unconstrained variable
	// stays false.
	m := NewModel()
	idle := m.NewBoolVar("idle")
	cells := make([]Var, 5)
	for i := range cells {
		cells[i] = m.NewBoolVar(fmt.Sprintf("cell%d", i))
	}
	m.AddLinearAtLeast(cells, 2)

	res := m.Solve(time.Second)
	require.Equal(t, StatusFeasible, res.Status)
	booked := 0
	for _, v := range cells {
		if res.Value(v) {
			booked++
		}
	}
	assert.Equal(t, 2, booked)
	assert.False(t, res.Value(idle))
}

func TestSolveSchedulingShape(t *testing.T) {
	// Two teachers, two day/slot cells, one room. Each teacher needs one
	// session; the room holds one session per cell.
	m := NewModel()
	type key struct{ teacher, cell int }
	vars := map[key]Var{}
	for teacher := 0; teacher < 2; teacher++ {
		for cell := 0; cell < 2; cell++ {
			vars[key{teacher, cell}] = m.NewBoolVar(fmt.Sprintf("t%d-c%d", teacher, cell))
		}
	}
	for teacher := 0; teacher < 2; teacher++ {
		m.AddLinearAtLeast([]Var{vars[key{teacher, 0}], vars[key{teacher, 1}]}, 1)
	}
	for cell := 0; cell < 2; cell++ {
		m.AddAtMostOne([]Var{vars[key{0, cell}], vars[key{1, cell}]})
	}

	res := m.Solve(time.Second)
	require.Equal(t, StatusFeasible, res.Status)
	for cell := 0; cell < 2; cell++ {
		assert.False(t, res.Value(vars[key{0, cell}]) && res.Value(vars[key{1, cell}]))
	}
}

func TestSolveTimeoutReturnsUnknown(t *testing.T) {
	// A large pigeonhole-style instance the search cannot finish instantly.
	m := NewModel()
	const n = 24
	grid := make([][]Var, n)
	for i := range grid {
		grid[i] = make([]Var, n-1)
		for j := range grid[i] {
			grid[i][j] = m.NewBoolVar(fmt.Sprintf("p%d-h%d", i, j))
		}
		m.AddLinearAtLeast(grid[i], 1)
	}
	for j := 0; j < n-1; j++ {
		col := make([]Var, n)
		for i := 0; i < n; i++ {
			col[i] = grid[i][j]
		}
		m.AddAtMostOne(col)
	}

	res := m.Solve(time.Millisecond)
	assert.NotEqual(t, StatusFeasible, res.Status)
}

func TestModelCounts(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddAtMostOne([]Var{a, b})
	m.AddLinearAtMost([]Var{a, b}, 1)
	// Vacuous bounds are dropped.
	m.AddLinearAtMost([]Var{a, b}, 2)
	m.AddLinearAtLeast([]Var{a, b}, 0)

	assert.Equal(t, 2, m.NumVars())
	assert.Equal(t, 2, m.NumConstraints())
	assert.Equal(t, "a", m.Name(a))
}
