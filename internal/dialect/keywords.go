package dialect

// coreKeywords is the ANSI-ish base shared by every dialect. Списка хватает,
// чтобы теги ключевых слов были стабильны для правил капитализации.
var coreKeywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "ORDER", "HAVING",
	"LIMIT", "OFFSET", "AS", "IN", "IS", "NOT", "NULL", "AND", "OR",
	"JOIN", "INNER", "OUTER", "LEFT", "RIGHT", "FULL", "CROSS", "ON",
	"UNION", "INTERSECT", "EXCEPT", "ALL", "DISTINCT", "ASC", "DESC",
	"NULLS", "FIRST", "LAST", "LIKE", "BETWEEN", "EXISTS",
	"CASE", "WHEN", "THEN", "ELSE", "END", "CAST", "WITH",
	"INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE",
	"CREATE", "TABLE", "VIEW", "INDEX", "DROP", "ALTER", "ADD",
	"PRIMARY", "FOREIGN", "KEY", "REFERENCES", "DEFAULT", "UNIQUE",
	"CONSTRAINT", "TRUE", "FALSE", "USING", "OVER", "PARTITION",
}

var postgresKeywords = []string{
	"ILIKE", "RETURNING", "LATERAL", "CONFLICT", "NOTHING", "EXCLUDED",
	"MATERIALIZED", "CONCURRENTLY", "TABLESAMPLE", "FETCH", "ONLY",
}

var mysqlKeywords = []string{
	"REPLACE", "STRAIGHT_JOIN", "DUPLICATE", "IGNORE", "DATABASES",
	"SHOW", "ENGINE", "AUTO_INCREMENT", "UNSIGNED", "ZEROFILL",
}

var bigqueryKeywords = []string{
	"STRUCT", "ARRAY", "UNNEST", "QUALIFY", "EXCLUDE", "WINDOW",
	"TABLESAMPLE", "PIVOT", "UNPIVOT",
}
