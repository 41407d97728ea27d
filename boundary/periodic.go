package boundary

// PeriodicMap records, per (function, coordinate) pair, whether the
// boundary map contains a periodic pairing, plus one global flag letting a
// backend pick wrap-around index arithmetic once rather than branching per
// access. Derived from a BoundaryMap; recompute after re-assembly.
type PeriodicMap struct {
	flags map[FuncCoord]bool
	any   bool
}

func (pm *PeriodicMap) IsPeriodic(funcTag, coord string) bool {
	return pm.flags[FuncCoord{Func: funcTag, Coord: coord}]
}

// AnyPeriodic reports whether any pair in the system is periodic.
func (pm *PeriodicMap) AnyPeriodic() bool { return pm.any }

// AnalyzePeriodicity scans the assembled map for interface conditions whose
// two ends reference the same function, fix the same coordinate at opposite
// bounds, and agree on their free-coordinate signatures.
func AnalyzePeriodicity(bm *BoundaryMap) (pm *PeriodicMap) {
	pm = &PeriodicMap{flags: make(map[FuncCoord]bool)}
	for _, tag := range bm.Functions() {
		for _, coord := range bm.CoordinatesOf(tag) {
			pair := FuncCoord{Func: tag, Coord: coord}
			for _, b := range bm.Lookup(tag, coord) {
				if isPeriodic(b) {
					pm.flags[pair] = true
					pm.any = true
					break
				}
			}
		}
	}
	return
}

func isPeriodic(b Boundary) bool {
	switch v := b.(type) {
	case InterfaceBoundary:
		return v.IsPeriodicPair()
	case HigherOrderInterfaceBoundary:
		return v.IsPeriodicPair()
	}
	return false
}
