package query

// Choices offered for the enumerated fields of builder items. The empty
// function means "no function".
var (
	Functions  = []string{"", "COUNT", "SUM", "AVG", "MAX", "MIN"}
	JoinTypes  = []string{"INNER", "LEFT", "RIGHT", "FULL", "CROSS"}
	Operators  = []string{"=", "!=", ">", "<", ">=", "<=", "LIKE", "IN", "BETWEEN", "IS NULL"}
	Logics     = []string{"AND", "OR"}
	Directions = []string{"ASC", "DESC"}
)

// Cycle returns the choice after current, wrapping around. A current
// value that is not one of the choices yields the first choice.
func Cycle(choices []string, current string) string {
	if len(choices) == 0 {
		return current
	}
	for i, c := range choices {
		if c == current {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}
