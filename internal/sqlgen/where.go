package sqlgen

import (
	"strings"

	"github.com/sadopc/querycraft/internal/query"
)

// whereClause renders conditions in order. Every condition after the first
// is prefixed with its own logic connector (AND when unset); the first
// one's connector is ignored.
func whereClause(conds []query.Condition) string {
	var b strings.Builder
	for i, c := range conds {
		if i > 0 {
			logic := c.Logic
			if logic == "" {
				logic = "AND"
			}
			b.WriteString(" " + logic + " ")
		}
		if c.Not {
			b.WriteString("NOT ")
		}
		b.WriteString(comparison(c))
	}
	return b.String()
}

// comparison renders one predicate. The operator is matched
// case-insensitively for the forms that need special shapes; any other
// operator is written through verbatim.
func comparison(c query.Condition) string {
	op := c.Operator
	if op == "" {
		op = "="
	}
	value := literal(c.Value)

	switch strings.ToUpper(op) {
	case "IN":
		return c.Field + " IN (" + value + ")"
	case "BETWEEN":
		lo, hi := bounds(value)
		return c.Field + " BETWEEN " + lo + " AND " + hi
	case "LIKE":
		return c.Field + " LIKE " + value
	case "EXISTS":
		return "EXISTS (" + value + ")"
	default:
		return c.Field + " " + op + " " + value
	}
}

// bounds splits a BETWEEN value on commas. A missing upper bound renders
// as the word undefined so the gap stays visible in the output.
func bounds(value string) (string, string) {
	parts := strings.Split(value, ",")
	lo := strings.TrimSpace(parts[0])
	hi := "undefined"
	if len(parts) > 1 {
		hi = strings.TrimSpace(parts[1])
	}
	return lo, hi
}
