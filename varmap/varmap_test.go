package varmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/pdemeta/symbolic"
)

func mustEq(t *testing.T, s string) symbolic.Equation {
	eq, err := symbolic.ParseEquation(s)
	require.NoError(t, err)
	return eq
}

func heatInput(t *testing.T) Input {
	return Input{
		Coordinates: []string{"x"},
		Time:        "t",
		Functions:   []string{"u"},
		Parameters:  []string{"alpha"},
		Domains: map[string]Domain{
			"x": {Lower: 0, Upper: 1},
			"t": {Lower: 0, Upper: 10},
		},
		Equations: []symbolic.Equation{
			mustEq(t, "D(u(t,x), t) ~ alpha * D2(u(t,x), x)"),
		},
		Conditions: []symbolic.Equation{
			mustEq(t, "u(t, 0) ~ 0"),
			mustEq(t, "u(t, 1) ~ 0"),
			mustEq(t, "u(0, x) ~ sin(x)"),
		},
	}
}

func TestBuildHeatEquation(t *testing.T) {
	vm, err := Build(heatInput(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"u"}, vm.Unknowns())
	assert.Equal(t, []string{"x"}, vm.SpatialCoordinates())
	assert.Equal(t, []string{"x", "t"}, vm.AllCoordinates())

	tc, ok := vm.TimeCoordinate()
	assert.True(t, ok)
	assert.Equal(t, "t", tc)

	sig, ok := vm.SignatureOf("u")
	assert.True(t, ok)
	assert.Equal(t, Signature{"t", "x"}, sig)

	spatialSig, ok := vm.SpatialSignatureOf("u")
	assert.True(t, ok)
	assert.Equal(t, Signature{"x"}, spatialSig)

	d, ok := vm.DomainOf("x")
	assert.True(t, ok)
	assert.Equal(t, Domain{Lower: 0, Upper: 1}, d)

	assert.Equal(t, 2, vm.MaxDerivativeOrder("x"))
	assert.Equal(t, 1, vm.MaxDerivativeOrder("t"))
}

func TestIndexBijection(t *testing.T) {
	// 2D problem: index order follows first discovery among the equations
	in := Input{
		Time:      "t",
		Functions: []string{"u"},
		Domains: map[string]Domain{
			"x": {Lower: 0, Upper: 1},
			"y": {Lower: -1, Upper: 1},
			"t": {Lower: 0, Upper: 5},
		},
		Equations: []symbolic.Equation{
			mustEq(t, "D(u(t,x,y), t) ~ D2(u(t,x,y), x) + D2(u(t,x,y), y)"),
		},
	}
	vm, err := Build(in)
	require.NoError(t, err)

	coords := vm.SpatialCoordinates()
	assert.Equal(t, []string{"x", "y"}, coords)
	// bijection onto {1..n}, index -> coordinate -> index is identity
	for i := 1; i <= len(coords); i++ {
		c, ok := vm.CoordinateAtIndex(i)
		require.True(t, ok)
		j, ok := vm.IndexOfCoordinate(c)
		require.True(t, ok)
		assert.Equal(t, i, j)
	}
	_, ok := vm.CoordinateAtIndex(0)
	assert.False(t, ok)
	_, ok = vm.CoordinateAtIndex(len(coords) + 1)
	assert.False(t, ok)
}

func TestBuildIdempotent(t *testing.T) {
	in := heatInput(t)
	vm1, err := Build(in)
	require.NoError(t, err)
	vm2, err := Build(in)
	require.NoError(t, err)
	assert.Equal(t, vm1, vm2)
}

func TestDomainResolutionFailures(t *testing.T) {
	// coordinate in a signature but absent from the domain table
	{
		in := heatInput(t)
		delete(in.Domains, "x")
		_, err := Build(in)
		var dre *DomainResolutionError
		require.ErrorAs(t, err, &dre)
		assert.Equal(t, "x", dre.Coordinate)
	}
	// non-finite bound
	{
		in := heatInput(t)
		in.Domains["x"] = Domain{Lower: 0, Upper: math.Inf(1)}
		_, err := Build(in)
		var dre *DomainResolutionError
		require.ErrorAs(t, err, &dre)
		assert.Equal(t, "x", dre.Coordinate)
	}
	// inverted bounds
	{
		in := heatInput(t)
		in.Domains["x"] = Domain{Lower: 1, Upper: 0}
		_, err := Build(in)
		var dre *DomainResolutionError
		require.ErrorAs(t, err, &dre)
	}
	// degenerate width below tolerance is rejected rather than guessed at
	{
		in := heatInput(t)
		in.Domains["x"] = Domain{Lower: 0, Upper: 1e-12}
		_, err := Build(in)
		var dre *DomainResolutionError
		require.ErrorAs(t, err, &dre)
	}
}

func TestSignatureInconsistency(t *testing.T) {
	in := heatInput(t)
	in.Equations = append(in.Equations, mustEq(t, "u(x, t) ~ 0"))
	_, err := Build(in)
	var sie *SignatureInconsistencyError
	require.ErrorAs(t, err, &sie)
	assert.Equal(t, "u", sie.Tag)
	assert.Equal(t, Signature{"t", "x"}, sie.Want)
	assert.Equal(t, Signature{"x", "t"}, sie.Got)
}

func TestRegisterUnknown(t *testing.T) {
	vm, err := Build(heatInput(t))
	require.NoError(t, err)

	unknownsBefore := vm.Unknowns()
	require.NoError(t, vm.RegisterUnknown("v", Signature{"t", "x"}))

	// append only, never renumber
	assert.Equal(t, []string{"u", "v"}, vm.Unknowns())
	assert.Equal(t, []string{"u"}, unknownsBefore, "previously handed-out slices stay valid")
	sig, ok := vm.SignatureOf("v")
	assert.True(t, ok)
	assert.Equal(t, Signature{"t", "x"}, sig)

	// re-registering the same signature is a no-op
	require.NoError(t, vm.RegisterUnknown("v", Signature{"t", "x"}))
	assert.Equal(t, []string{"u", "v"}, vm.Unknowns())

	// conflicting signature for an existing tag is never resolved silently
	{
		err := vm.RegisterUnknown("u", Signature{"x", "t"})
		var sie *SignatureInconsistencyError
		require.ErrorAs(t, err, &sie)
	}
	// a new coordinate without a domain is fatal
	{
		err := vm.RegisterUnknown("w", Signature{"t", "z"})
		var dre *DomainResolutionError
		require.ErrorAs(t, err, &dre)
		assert.Equal(t, "z", dre.Coordinate)
	}
}

func TestRegisterUnknownNewCoordinate(t *testing.T) {
	in := heatInput(t)
	in.Domains["y"] = Domain{Lower: 0, Upper: 2}
	vm, err := Build(in)
	require.NoError(t, err)

	// y is declared but unused, so it has no index yet
	_, ok := vm.IndexOfCoordinate("y")
	assert.False(t, ok)

	require.NoError(t, vm.RegisterUnknown("v", Signature{"t", "y"}))
	assert.Equal(t, []string{"x", "y"}, vm.SpatialCoordinates())
	i, ok := vm.IndexOfCoordinate("y")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	// existing assignments kept
	i, ok = vm.IndexOfCoordinate("x")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}
