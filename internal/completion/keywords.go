package completion

// CommonKeywords are SQL keywords shared across all dialects.
var CommonKeywords = []string{
	"SELECT", "DISTINCT", "FROM", "WHERE", "JOIN", "LEFT", "RIGHT", "INNER",
	"OUTER", "FULL", "CROSS", "ON", "AND", "OR", "NOT", "IN", "EXISTS",
	"BETWEEN", "LIKE", "IS", "NULL", "AS", "CASE", "WHEN", "THEN", "ELSE",
	"END", "INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "GROUP",
	"BY", "HAVING", "ORDER", "ASC", "DESC", "LIMIT", "OFFSET", "ALL", "ANY",
	"SOME", "UNION", "INTERSECT", "EXCEPT", "WITH", "TRUE", "FALSE",
	"DEFAULT", "CURRENT_TIMESTAMP", "CURRENT_DATE",
}

// dialectKeywords are added to CommonKeywords for a known dialect.
var dialectKeywords = map[string][]string{
	"postgres": {"ILIKE", "SIMILAR", "LATERAL", "RETURNING", "ARRAY", "INTERVAL", "SERIAL"},
	"mysql":    {"REGEXP", "RLIKE", "DIV", "XOR", "BINARY", "UNSIGNED", "AUTO_INCREMENT"},
	"sqlite":   {"GLOB", "REGEXP", "MATCH", "ESCAPE", "ROWID", "AUTOINCREMENT"},
	"duckdb":   {"ILIKE", "QUALIFY", "SAMPLE", "USING", "COLUMNS", "PIVOT", "UNPIVOT"},
}

// CommonFunctions are SQL functions shared across all dialects.
var CommonFunctions = []string{
	"COUNT", "SUM", "AVG", "MIN", "MAX", "COALESCE", "NULLIF", "CAST",
	"LOWER", "UPPER", "TRIM", "LENGTH", "SUBSTRING", "REPLACE", "ABS",
	"ROUND", "ROW_NUMBER", "RANK", "DENSE_RANK", "LAG", "LEAD",
}

// dialectFunctions are added to CommonFunctions for a known dialect.
var dialectFunctions = map[string][]string{
	"postgres": {"STRING_AGG", "ARRAY_AGG", "JSON_AGG", "DATE_TRUNC", "NOW", "TO_CHAR", "EXTRACT"},
	"mysql":    {"GROUP_CONCAT", "IFNULL", "NOW", "DATE_FORMAT", "CONCAT", "JSON_EXTRACT"},
	"sqlite":   {"GROUP_CONCAT", "IFNULL", "DATE", "DATETIME", "STRFTIME", "JSON_EXTRACT"},
	"duckdb":   {"STRING_AGG", "LIST", "DATE_TRUNC", "NOW", "STRFTIME", "REGEXP_MATCHES"},
}

// canonicalDialect folds adapter name aliases onto one key.
func canonicalDialect(dialect string) string {
	switch dialect {
	case "postgresql", "pg":
		return "postgres"
	case "sqlite3":
		return "sqlite"
	}
	return dialect
}

// KeywordsForDialect returns CommonKeywords plus the dialect's extras in a
// new slice.
func KeywordsForDialect(dialect string) []string {
	extra := dialectKeywords[canonicalDialect(dialect)]
	result := make([]string, 0, len(CommonKeywords)+len(extra))
	result = append(result, CommonKeywords...)
	return append(result, extra...)
}

// FunctionsForDialect returns CommonFunctions plus the dialect's extras in
// a new slice.
func FunctionsForDialect(dialect string) []string {
	extra := dialectFunctions[canonicalDialect(dialect)]
	result := make([]string, 0, len(CommonFunctions)+len(extra))
	result = append(result, CommonFunctions...)
	return append(result, extra...)
}
