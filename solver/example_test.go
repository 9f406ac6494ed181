// File: solver/example_test.go
package solver_test

import (
	"fmt"

	"github.com/katalvlaran/absorb/fixedeffect"
	"github.com/katalvlaran/absorb/solver"
)

////////////////////////////////////////////////////////////////////////////////
// Example: New / SolveResiduals
////////////////////////////////////////////////////////////////////////////////

// ExampleNew projects a response onto the orthogonal complement of one
// categorical effect, which for a single pure effect is exactly
// within-group demeaning.
func ExampleNew() {
	group, _ := fixedeffect.GroupStrings([]string{"a", "a", "b", "b"})
	s, _ := solver.New([]*fixedeffect.FixedEffect{group}, nil, solver.Cholesky)

	r := []float64{1, 3, 10, 14}
	if _, _, err := s.SolveResiduals(r, 1000, 1e-10); err != nil {
		fmt.Println("solve failed:", err)
		return
	}
	fmt.Printf("%.0f\n", r)

	// Output:
	// [-1 1 -2 2]
}

////////////////////////////////////////////////////////////////////////////////
// Example: MethodFromString
////////////////////////////////////////////////////////////////////////////////

// ExampleMethodFromString parses a backend tag from configuration text.
func ExampleMethodFromString() {
	m, _ := solver.MethodFromString("Cholesky")
	fmt.Println(m)

	_, err := solver.MethodFromString("gauss")
	fmt.Println(err)

	// Output:
	// cholesky
	// solver: unknown method: "gauss"
}
