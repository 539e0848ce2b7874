package storage

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

// A Dialect renders the engine specific parts of catalog queries.
//
// Every method that receives a placeholder embeds it as is;
// values are always bound by the caller.
type Dialect interface {
	Placeholder(n int) string

	// ArrayText renders a JSON array column as text.
	ArrayText(column string) string

	SearchJoin() string
	SearchMatch(ph string) string
	SearchRank(ph string) string

	// StoreContains is true when the JSON array column has an element equal to ph.
	StoreContains(column, ph string) string

	// StoreLike is true when the encoded JSON array column matches the pattern ph.
	StoreLike(column, ph string) string

	// UniqueStores selects distinct, ordered store names of table.
	UniqueStores(table string) string
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqliteDialect{}, nil
	case DriverPgx:
		return postgresDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported sql driver %q", driver)
}

// rebind replaces '?' placeholders with the dialect placeholders.
func rebind(d Dialect, query string) string {
	if _, ok := d.(sqliteDialect); ok {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString(d.Placeholder(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

type sqliteDialect struct{}

func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) ArrayText(column string) string {
	return "CAST(" + column + " AS TEXT)"
}

func (sqliteDialect) SearchJoin() string {
	return "JOIN products_fts ON products_fts.rowid = p.id"
}

func (sqliteDialect) SearchMatch(ph string) string {
	return "products_fts MATCH " + ph
}

func (sqliteDialect) SearchRank(string) string {
	return "products_fts.rank"
}

// json_each fails on malformed JSON, so invalid values are turned into NULL
// which expands to no elements.
func (sqliteDialect) StoreContains(column, ph string) string {
	return "EXISTS (SELECT 1 FROM json_each(CASE WHEN json_valid(" + column + ") THEN " +
		column + " END) AS s WHERE s.value = " + ph + ")"
}

func (sqliteDialect) StoreLike(column, ph string) string {
	return column + " LIKE " + ph
}

func (sqliteDialect) UniqueStores(table string) string {
	return "SELECT DISTINCT s.value FROM " + table + " AS src, " +
		"json_each(CASE WHEN json_valid(src.stores) THEN src.stores END) AS s " +
		"WHERE s.type = 'text' ORDER BY s.value"
}

type postgresDialect struct{}

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgresDialect) ArrayText(column string) string {
	return "CAST(" + column + " AS TEXT)"
}

func (postgresDialect) SearchJoin() string {
	return "JOIN products_fts ON products_fts.id = p.id"
}

func (postgresDialect) SearchMatch(ph string) string {
	return "products_fts.document @@ websearch_to_tsquery('simple', " + ph + ")"
}

func (postgresDialect) SearchRank(ph string) string {
	return "ts_rank(products_fts.document, websearch_to_tsquery('simple', " + ph + ")) DESC"
}

func (postgresDialect) StoreContains(column, ph string) string {
	return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(CASE WHEN jsonb_typeof(" + column +
		") = 'array' THEN " + column + " END) AS s(value) WHERE s.value = " + ph + ")"
}

func (postgresDialect) StoreLike(column, ph string) string {
	return "CAST(" + column + " AS TEXT) LIKE " + ph
}

func (postgresDialect) UniqueStores(table string) string {
	return "SELECT DISTINCT s.value FROM " + table + " AS src, " +
		"jsonb_array_elements_text(CASE WHEN jsonb_typeof(src.stores) = 'array' " +
		"THEN src.stores END) AS s(value) WHERE s.value IS NOT NULL ORDER BY s.value"
}
