package storage

import (
	"strings"

	"github.com/niksmo/snublejuice/internal/core/domain"
)

// Prefix of the tax-free columns. The hydrator uses
// the taxfreeMarker column to detect the joined projection.
const (
	taxfreePrefix = "t_"
	taxfreeMarker = taxfreePrefix + "id"
)

// A queryBuilder accumulates statement text and bind values.
// Each placeholder is emitted together with its value.
type queryBuilder struct {
	dialect   Dialect
	sb        strings.Builder
	args      []any
	searchRef string
}

func newQueryBuilder(d Dialect) *queryBuilder {
	return &queryBuilder{dialect: d}
}

func (b *queryBuilder) push(sql string) {
	b.sb.WriteString(sql)
}

// bind stores v and returns its placeholder.
func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

func (b *queryBuilder) build() (string, []any) {
	return b.sb.String(), b.args
}

// A predicate renders its clause when the filter field it owns is set.
type predicate func(b *queryBuilder, f domain.ProductFilter) (clause string, ok bool)

// The order is fixed to keep the emitted statement reproducible.
var productPredicates = []predicate{
	searchPredicate,
	equalPredicate("p.category", func(f domain.ProductFilter) *string { return f.Category }),
	equalPredicate("p.country", func(f domain.ProductFilter) *string { return f.Country }),
	storePredicate,
	storeLikePredicate,
	orderablePredicate,
	rangePredicate(">=", "p.price", func(f domain.ProductFilter) *float64 { return f.PriceMin }),
	rangePredicate("<=", "p.price", func(f domain.ProductFilter) *float64 { return f.PriceMax }),
	rangePredicate(">=", "p.volume", func(f domain.ProductFilter) *float64 { return f.VolumeMin }),
	rangePredicate("<=", "p.volume", func(f domain.ProductFilter) *float64 { return f.VolumeMax }),
	rangePredicate(">=", "p.alcohol", func(f domain.ProductFilter) *float64 { return f.AlcoholMin }),
	rangePredicate("<=", "p.alcohol", func(f domain.ProductFilter) *float64 { return f.AlcoholMax }),
	rangePredicate(">=", "p.year", func(f domain.ProductFilter) *int { return f.YearMin }),
	rangePredicate("<=", "p.year", func(f domain.ProductFilter) *int { return f.YearMax }),
}

func searchPredicate(b *queryBuilder, f domain.ProductFilter) (string, bool) {
	if f.Search == nil {
		return "", false
	}
	b.searchRef = b.bind(*f.Search)
	return b.dialect.SearchMatch(b.searchRef), true
}

func equalPredicate(
	column string, field func(domain.ProductFilter) *string,
) predicate {
	return func(b *queryBuilder, f domain.ProductFilter) (string, bool) {
		v := field(f)
		if v == nil {
			return "", false
		}
		return column + " = " + b.bind(*v), true
	}
}

func storePredicate(b *queryBuilder, f domain.ProductFilter) (string, bool) {
	if f.Store == nil {
		return "", false
	}
	return b.dialect.StoreContains("p.stores", b.bind(*f.Store)), true
}

func storeLikePredicate(b *queryBuilder, f domain.ProductFilter) (string, bool) {
	if f.StoreLike == nil {
		return "", false
	}
	pattern := "%" + *f.StoreLike + "%"
	return b.dialect.StoreLike("p.stores", b.bind(pattern)), true
}

// There is no "only non-orderable" mode.
func orderablePredicate(_ *queryBuilder, f domain.ProductFilter) (string, bool) {
	if f.Orderable == nil || !*f.Orderable {
		return "", false
	}
	return "p.orderable = TRUE", true
}

func rangePredicate[T int | float64](
	cmp, column string, field func(domain.ProductFilter) *T,
) predicate {
	return func(b *queryBuilder, f domain.ProductFilter) (string, bool) {
		v := field(f)
		if v == nil {
			return "", false
		}
		return column + " " + cmp + " " + b.bind(*v), true
	}
}

func productColumns(d Dialect) []string {
	return []string{
		"p.id AS id",
		"p.name AS name",
		"p.url AS url",
		"p.description AS description",
		"p.category AS category",
		"p.country AS country",
		"p.price AS price",
		"p.volume AS volume",
		"p.alcohol AS alcohol",
		"p.year AS year",
		d.ArrayText("p.prices") + " AS prices",
		d.ArrayText("p.stores") + " AS stores",
	}
}

func taxfreeColumns(d Dialect) []string {
	return []string{
		"t.id AS " + taxfreeMarker,
		"t.name AS " + taxfreePrefix + "name",
		"t.price AS " + taxfreePrefix + "price",
		"t.volume AS " + taxfreePrefix + "volume",
		"t.alcohol AS " + taxfreePrefix + "alcohol",
		"t.url AS " + taxfreePrefix + "url",
		d.ArrayText("t.stores") + " AS " + taxfreePrefix + "stores",
	}
}

// compileProductsQuery builds the statement for f and its bind values.
//
// Clause order: select, from, joins, predicates, rank, pagination.
func compileProductsQuery(d Dialect, f domain.ProductFilter) (string, []any) {
	b := newQueryBuilder(d)

	columns := productColumns(d)
	if f.Taxfree {
		columns = append(columns, taxfreeColumns(d)...)
	}
	b.push("SELECT " + strings.Join(columns, ", "))
	b.push(" FROM products p")

	if f.Search != nil {
		b.push(" " + d.SearchJoin())
	}
	if f.Taxfree {
		b.push(" JOIN taxfree t ON t.id = p.id")
	}

	var clauses []string
	for _, pred := range productPredicates {
		if clause, ok := pred(b, f); ok {
			clauses = append(clauses, clause)
		}
	}
	if len(clauses) != 0 {
		b.push(" WHERE " + strings.Join(clauses, " AND "))
	}

	if b.searchRef != "" {
		b.push(" ORDER BY " + d.SearchRank(b.searchRef))
	}

	b.push(" LIMIT " + b.bind(f.Limit))
	b.push(" OFFSET " + b.bind(f.Offset))

	return b.build()
}
