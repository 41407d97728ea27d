package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeExampleProblem(t *testing.T) {
	// the example from the help text runs the whole pipeline cleanly,
	// including coverage validation
	assert.NoError(t, Describe([]byte(exampleProblem), true))
}

func TestDescribeRejectsInteriorCondition(t *testing.T) {
	bad := []byte(`
Coordinates: [x]
Time: t
Functions: [u]
Domains:
  x: {Lower: 0, Upper: 1}
  t: {Lower: 0, Upper: 10}
Equations:
  - "D(u(t,x), t) ~ D2(u(t,x), x)"
Conditions:
  - "u(t, 0.5) ~ 0"
`)
	assert.Error(t, Describe(bad, false))
}
