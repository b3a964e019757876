// Package sqlutil builds driver-aware SQL text for the statements
// tablemapctl issues against user databases. Identifier quoting and
// placeholder syntax differ per driver, everything else is plain SQL.
package sqlutil

import (
	"fmt"
	"regexp"
	"strings"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QuoteIdent validates and quotes an SQL identifier, optionally
// schema-qualified like schema.table. Each dot-separated part is quoted
// according to the driver: pgx/postgres -> "name", mysql/mariadb/sqlite
// -> `name`, mssql/sqlserver -> [name].
func QuoteIdent(driver, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty identifier")
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if !identRe.MatchString(p) {
			return "", fmt.Errorf("invalid identifier: %s", name)
		}
		switch driver {
		case "pgx", "postgres":
			parts[i] = `"` + p + `"`
		case "mysql", "mariadb", "sqlite":
			parts[i] = "`" + p + "`"
		case "mssql", "sqlserver":
			parts[i] = "[" + p + "]"
		default:
			parts[i] = `"` + p + `"`
		}
	}
	return strings.Join(parts, "."), nil
}

// Placeholder returns the parameter placeholder for the driver and
// 1-based index. Postgres uses $1..$n, SQL Server @p1..@pn, the rest '?'.
func Placeholder(driver string, index int) string {
	switch driver {
	case "pgx", "postgres":
		return fmt.Sprintf("$%d", index)
	case "mssql", "sqlserver":
		return fmt.Sprintf("@p%d", index)
	default:
		return "?"
	}
}

// BuildSelect returns a SELECT over the named columns, or * when none
// are given. A non-positive limit means no limit clause. SQL Server
// spells the limit as TOP, the other supported drivers as LIMIT.
func BuildSelect(driver, table string, columns []string, limit int) (string, error) {
	qt, err := QuoteIdent(driver, table)
	if err != nil {
		return "", err
	}
	cols := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			if quoted[i], err = QuoteIdent(driver, c); err != nil {
				return "", err
			}
		}
		cols = strings.Join(quoted, ", ")
	}

	switch {
	case limit > 0 && (driver == "mssql" || driver == "sqlserver"):
		return fmt.Sprintf("SELECT TOP %d %s FROM %s", limit, cols, qt), nil
	case limit > 0:
		return fmt.Sprintf("SELECT %s FROM %s LIMIT %d", cols, qt, limit), nil
	default:
		return fmt.Sprintf("SELECT %s FROM %s", cols, qt), nil
	}
}

// BuildInsert returns a single-row INSERT with one placeholder per
// column, in column order.
func BuildInsert(driver, table string, columns []string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("no columns to insert")
	}
	qt, err := QuoteIdent(driver, table)
	if err != nil {
		return "", err
	}
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		if quoted[i], err = QuoteIdent(driver, c); err != nil {
			return "", err
		}
		placeholders[i] = Placeholder(driver, i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qt, strings.Join(quoted, ", "), strings.Join(placeholders, ", ")), nil
}

// ParseRenames parses a comma-separated list of source=target column
// pairs, as accepted by the tablemapctl copy command.
func ParseRenames(s string) (map[string]string, error) {
	renames := make(map[string]string)
	if s == "" {
		return renames, nil
	}
	for _, pair := range strings.Split(s, ",") {
		src, dst, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || src == "" || dst == "" {
			return nil, fmt.Errorf("invalid rename %q, want source=target", pair)
		}
		renames[src] = dst
	}
	return renames, nil
}
