package facade

const (
	paramTable = "table"
	paramKey   = "key"
)

// MatchPath resolves the table and key path parameters. It reports false,
// a routing miss, unless both are present and non-empty.
func MatchPath(params map[string]string) (table, key string, ok bool) {
	table = params[paramTable]
	key = params[paramKey]
	if table == "" || key == "" {
		return "", "", false
	}
	return table, key, true
}
