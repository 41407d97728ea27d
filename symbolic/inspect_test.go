package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountDerivativeOrder(t *testing.T) {
	u := App("u", Sym("t"), Sym("x"))
	// D2(u, x)
	{
		e := DN(u, "x", 2)
		assert.Equal(t, 2, CountDerivativeOrder(e, "x"))
		assert.Equal(t, 0, CountDerivativeOrder(e, "t"))
	}
	// nested D(D(u, x), x) sums the orders
	{
		e := D(D(u, "x"), "x")
		assert.Equal(t, 2, CountDerivativeOrder(e, "x"))
	}
	// mixed D(D(u, t), x) counts each coordinate separately
	{
		e := D(D(u, "t"), "x")
		assert.Equal(t, 1, CountDerivativeOrder(e, "x"))
		assert.Equal(t, 1, CountDerivativeOrder(e, "t"))
	}
	// derivatives inside larger expressions are still found
	{
		e := Add(Mul(Num(2), D(u, "x")), DN(u, "x", 3))
		assert.Equal(t, 4, CountDerivativeOrder(e, "x"))
	}
	// atoms carry no derivatives
	assert.Equal(t, 0, CountDerivativeOrder(Sym("x"), "x"))
}

func TestAllDerivativeOrders(t *testing.T) {
	u := App("u", Sym("t"), Sym("x"))
	// heat equation: orders {1} in t, {2} in x
	{
		eq := Eq(D(u, "t"), DN(u, "x", 2))
		assert.Equal(t, map[int]struct{}{1: {}}, AllDerivativeOrders(eq, "t"))
		assert.Equal(t, map[int]struct{}{2: {}}, AllDerivativeOrders(eq, "x"))
	}
	// advection-diffusion: both orders present in x
	{
		eq := Eq(D(u, "t"), Add(DN(u, "x", 2), D(u, "x")))
		assert.Equal(t, map[int]struct{}{1: {}, 2: {}}, AllDerivativeOrders(eq, "x"))
	}
	// zero order is excluded
	{
		eq := Eq(u, Num(0))
		assert.Empty(t, AllDerivativeOrders(eq, "x"))
	}
}

func TestContainsDerivative(t *testing.T) {
	u := App("u", Sym("t"), Sym("x"))
	assert.False(t, ContainsDerivative(u))
	assert.False(t, ContainsDerivative(Add(u, Num(1))))
	assert.True(t, ContainsDerivative(D(u, "x")))
	assert.True(t, ContainsDerivative(Mul(Num(2), Add(Sym("x"), D(u, "t")))))
}

func TestLocateDerivativeOrFunction(t *testing.T) {
	u := App("u", Sym("t"), Sym("x"))
	v := App("v", Sym("t"), Sym("x"))
	// first matching node in pre-order wins
	{
		e := Add(v, D(u, "x"))
		node, found := LocateDerivativeOrFunction(e, "u")
		assert.True(t, found)
		assert.True(t, node.Equal(D(u, "x")))
	}
	// a function application matches by its own tag only
	{
		node, found := LocateDerivativeOrFunction(Add(Num(1), u), "u")
		assert.True(t, found)
		assert.True(t, node.Equal(u))
	}
	{
		_, found := LocateDerivativeOrFunction(Add(Num(1), v), "u")
		assert.False(t, found)
	}
}

func TestCollectFunctionApplications(t *testing.T) {
	u0 := App("u", Sym("t"), Num(0))
	u1 := App("u", Sym("t"), Num(1))
	uG := App("u", Sym("t"), Sym("x"))
	v := App("v", Sym("t"), Sym("x"))
	// tag identity match, argument values irrelevant
	{
		e := Add(u0, Mul(Num(2), u1), uG, v)
		apps := CollectFunctionApplications(e, []string{"u"})
		assert.Len(t, apps, 3)
		assert.True(t, apps[0].Equal(u0))
		assert.True(t, apps[1].Equal(u1))
		assert.True(t, apps[2].Equal(uG))
	}
	// structurally identical occurrences collapse, first-encounter order kept
	{
		e := Eq(Add(D(u0, "x"), u0), u1)
		apps := CollectFunctionApplications(e, []string{"u", "v"})
		assert.Len(t, apps, 2)
		assert.True(t, apps[0].Equal(u0))
		assert.True(t, apps[1].Equal(u1))
	}
	// unlisted tags are ignored
	{
		apps := CollectFunctionApplications(Add(v, App("sin", Sym("x"))), []string{"u"})
		assert.Empty(t, apps)
	}
}
