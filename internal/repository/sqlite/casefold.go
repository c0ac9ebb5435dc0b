package sqlite

import (
	"database/sql/driver"
	"strings"
	"sync"

	sqlitedriver "modernc.org/sqlite"
)

// casefoldFunc names the SQL function text filters compare through. The
// built-in LIKE folds ASCII letters only.
const casefoldFunc = "casefold"

// registerCasefold installs casefold for every connection opened afterwards.
// The driver keeps one global registry, so it must run once per process.
var registerCasefold = sync.OnceValue(func() error {
	return sqlitedriver.RegisterDeterministicScalarFunction(casefoldFunc, 1, casefold)
})

func casefold(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
