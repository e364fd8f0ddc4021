package normalizer

import (
	"fmt"
	"strconv"
)

// formatValue renders a keyword value the way it reads in a comment:
// integral numbers without a fraction, strings bare.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case nil:
		return "null"
	default:
		return fmt.Sprint(x)
	}
}
