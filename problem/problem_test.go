package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/pdemeta/varmap"
)

var heatYAML = []byte(`
Title: "1D heat equation"
Coordinates: [x]
Time: t
Functions: [u]
Parameters: [alpha]
Domains:
  x: {Lower: 0, Upper: 1}
  t: {Lower: 0, Upper: 10}
Equations:
  - "D(u(t,x), t) ~ alpha * D2(u(t,x), x)"
Conditions:
  - "u(t, 0) ~ 0"
  - "u(t, 1) ~ 0"
  - "u(0, x) ~ sin(x)"
`)

func TestLoadHeatProblem(t *testing.T) {
	in, err := Load(heatYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, in.Coordinates)
	assert.Equal(t, "t", in.Time)
	assert.Equal(t, []string{"u"}, in.Functions)
	assert.Equal(t, []string{"alpha"}, in.Parameters)
	assert.Equal(t, varmap.Domain{Lower: 0, Upper: 1}, in.Domains["x"])
	require.Len(t, in.Equations, 1)
	require.Len(t, in.Conditions, 3)
	assert.Equal(t, "u(t, 0) ~ 0", in.Conditions[0].String())

	// the compiled input builds cleanly
	_, err = varmap.Build(in)
	assert.NoError(t, err)
}

func TestFlattenConditions(t *testing.T) {
	// nested groups flatten depth-first, order preserved
	{
		raw := []interface{}{
			"a ~ 0",
			[]interface{}{"b ~ 0", []interface{}{"c ~ 0"}},
			"d ~ 0",
		}
		flat, err := FlattenConditions(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"a ~ 0", "b ~ 0", "c ~ 0", "d ~ 0"}, flat)
	}
	// non-string leaves are schema errors
	{
		_, err := FlattenConditions([]interface{}{42})
		var se *SchemaError
		require.ErrorAs(t, err, &se)
	}
}

func TestLoadNestedConditionGroups(t *testing.T) {
	in, err := Load([]byte(`
Coordinates: [x]
Time: t
Functions: [u]
Domains:
  x: {Lower: 0, Upper: 1}
  t: {Lower: 0, Upper: 1}
Equations:
  - "D(u(t,x), t) ~ D2(u(t,x), x)"
Conditions:
  - ["u(t, 0) ~ 0", "u(t, 1) ~ 0"]
  - "u(0, x) ~ 0"
`))
	require.NoError(t, err)
	require.Len(t, in.Conditions, 3)
	assert.Equal(t, "u(t, 0) ~ 0", in.Conditions[0].String())
	assert.Equal(t, "u(t, 1) ~ 0", in.Conditions[1].String())
	assert.Equal(t, "u(0, x) ~ 0", in.Conditions[2].String())
}

func TestSchemaErrors(t *testing.T) {
	// no unknown functions
	{
		_, err := Load([]byte("Coordinates: [x]\nDomains:\n  x: {Lower: 0, Upper: 1}\n"))
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "Functions", se.Field)
	}
	// declared coordinate without a domain entry
	{
		_, err := Load([]byte("Coordinates: [x]\nFunctions: [u]\n"))
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "Domains", se.Field)
	}
	// unparseable equation text names the entry
	{
		_, err := Load([]byte(`
Coordinates: [x]
Functions: [u]
Domains:
  x: {Lower: 0, Upper: 1}
Equations:
  - "u(x ~ 0"
`))
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "Equations[0]", se.Field)
	}
	// malformed YAML
	{
		_, err := Load([]byte(":\n  - ]["))
		var se *SchemaError
		require.ErrorAs(t, err, &se)
	}
}
