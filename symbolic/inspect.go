package symbolic

// Structural queries over expression trees. All walks are pre-order, run in
// time linear in tree size, and do not deduplicate shared substructure.

// CountDerivativeOrder sums the order of every derivative operator with
// respect to coord found anywhere in e. Derivatives with respect to other
// coordinates contribute nothing, but their operands are still searched.
func CountDerivativeOrder(e Expr, coord string) (order int) {
	if d, ok := e.(Derivative); ok && d.Coord == coord {
		order = d.Order
	}
	for _, a := range e.Args() {
		order += CountDerivativeOrder(a, coord)
	}
	return
}

// AllDerivativeOrders returns the set of nonzero derivative orders with
// respect to coord found anywhere in either side of eq. Each derivative
// node contributes its total order including matching derivatives nested
// under it.
func AllDerivativeOrders(eq Equation, coord string) (orders map[int]struct{}) {
	orders = make(map[int]struct{})
	var walk func(e Expr)
	walk = func(e Expr) {
		if d, ok := e.(Derivative); ok && d.Coord == coord {
			if n := CountDerivativeOrder(d, coord); n > 0 {
				orders[n] = struct{}{}
			}
		}
		for _, a := range e.Args() {
			walk(a)
		}
	}
	walk(eq.LHS)
	walk(eq.RHS)
	return
}

// ContainsDerivative reports whether e contains any derivative operator,
// short-circuiting on the first one found.
func ContainsDerivative(e Expr) bool {
	if _, ok := e.(Derivative); ok {
		return true
	}
	for _, a := range e.Args() {
		if ContainsDerivative(a) {
			return true
		}
	}
	return false
}

// LocateDerivativeOrFunction returns the first subexpression of e, in
// pre-order, that is either a derivative operator or an application of tag.
func LocateDerivativeOrFunction(e Expr, tag string) (node Expr, found bool) {
	if _, ok := e.(Derivative); ok {
		return e, true
	}
	if f, ok := e.(FuncApp); ok && f.Tag == tag {
		return e, true
	}
	for _, a := range e.Args() {
		if node, found = LocateDerivativeOrFunction(a, tag); found {
			return
		}
	}
	return nil, false
}

// CollectFunctionApplications returns every application of one of tags found
// anywhere in e, matched by tag identity regardless of argument values.
// Structurally identical occurrences are collapsed; first-encounter order is
// preserved.
func CollectFunctionApplications(e Expr, tags []string) (apps []FuncApp) {
	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}
	seen := make(map[string]struct{})
	var walk func(e Expr)
	walk = func(e Expr) {
		if f, ok := e.(FuncApp); ok {
			if _, want := tagSet[f.Tag]; want {
				key := f.String()
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					apps = append(apps, f)
				}
			}
		}
		for _, a := range e.Args() {
			walk(a)
		}
	}
	walk(e)
	return
}
