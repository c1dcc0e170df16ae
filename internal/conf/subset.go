package conf

// Subset reports whether the workload described by config a is entirely
// contained in the workload described by config b. Both values must have
// the same document shape: two objects compare via ObjectSubset, two arrays
// of objects via ArraySubset. Mismatched shapes are never a subset.
//
// The relation is reflexive (Subset(x, x) is true for any well-formed x)
// but not symmetric, and no union across multiple supersets is computed -
// callers check candidate supersets one at a time.
func Subset(a, b Value) bool {
	switch av := a.(type) {
	case Object:
		bv, ok := b.(Object)
		if !ok {
			return false
		}
		return ObjectSubset(av, bv)
	case List:
		bv, ok := b.(List)
		if !ok {
			return false
		}
		return ArraySubset(av, bv)
	default:
		return false
	}
}

// ObjectSubset reports whether every key of a is present in b with a
// covering value: list-valued fields by set containment, everything else by
// exact equality. Keys present only in b are irrelevant.
//
// Nested objects and arrays-of-objects compare by exact equality only; see
// the package comment for this limitation.
func ObjectSubset(a, b Object) bool {
	for key, av := range a {
		bv, ok := b[key]
		if !ok {
			return false
		}

		alist, aIsList := av.(List)
		blist, bIsList := bv.(List)

		if aIsList && bIsList {
			if !listSubset(alist, blist) {
				return false
			}
		} else if !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

// ArraySubset reports whether every object in a has at least one covering
// object in b per ObjectSubset. Order-independent; b may hold extras.
func ArraySubset(a, b List) bool {
	for _, av := range a {
		aobj, ok := av.(Object)
		if !ok {
			return false
		}

		found := false
		for _, bv := range b {
			bobj, ok := bv.(Object)
			if !ok {
				continue
			}
			if ObjectSubset(aobj, bobj) {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}
	return true
}

// listSubset reports whether every element of a occurs in b.
// Set containment: ordering and multiplicity are ignored.
func listSubset(a, b List) bool {
	for _, av := range a {
		found := false
		for _, bv := range b {
			if valueEqual(av, bv) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// valueEqual is the equality used for field values and list membership:
// numeric-aware for scalars, canonical-bytes for composites.
func valueEqual(a, b Value) bool {
	if IsScalar(a) || IsScalar(b) {
		return ScalarEqual(a, b)
	}
	return Equal(a, b)
}
