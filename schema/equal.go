package schema

// Equal reports whether a and b are structurally equal schema values.
// Key order is ignored. Cyclic structures compare equal when they unfold
// to the same infinite tree.
func Equal(a, b any) bool {
	return equal(a, b, make(map[[2]*Schema]bool))
}

func equal(a, b any, assumed map[[2]*Schema]bool) bool {
	switch x := a.(type) {
	case *Schema:
		y, ok := b.(*Schema)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		if x == nil || y == nil {
			return false
		}
		pair := [2]*Schema{x, y}
		if assumed[pair] {
			return true
		}
		assumed[pair] = true
		if len(x.values) != len(y.values) {
			return false
		}
		for k, xv := range x.values {
			yv, ok := y.values[k]
			if !ok || !equal(xv, yv, assumed) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equal(x[i], y[i], assumed) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		switch b.(type) {
		case *Schema, []any, nil:
			return false
		}
		return a == b
	}
}
