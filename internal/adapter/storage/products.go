package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/niksmo/snublejuice/internal/core/domain"
	"github.com/niksmo/snublejuice/internal/core/port"
)

var _ port.ProductsReader = (*ProductsRepository)(nil)

const (
	productsTable = "products"
	taxfreeTable  = "taxfree"
)

type ProductsRepository struct {
	sqldb   sqldb
	dialect Dialect
}

func NewProductsRepository(db SQLDB) ProductsRepository {
	return ProductsRepository{sqldb: db, dialect: db.Dialect()}
}

// ReadProducts runs one query for f and returns every hydrated row,
// or an error and no products.
func (r ProductsRepository) ReadProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ReadProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query, args := compileProductsQuery(r.dialect, f)

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer closeRows(op, rows)

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.Product, 0)
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p, err := hydrateProduct(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) ReadUniqueStores(
	ctx context.Context,
) (domain.StoresData, error) {
	const op = "ProductsRepository.ReadUniqueStores"

	vinmonopolet, err := r.readStrings(ctx, r.dialect.UniqueStores(productsTable))
	if err != nil {
		return domain.StoresData{}, fmt.Errorf("%s: %w", op, err)
	}

	taxfree, err := r.readStrings(ctx, r.dialect.UniqueStores(taxfreeTable))
	if err != nil {
		return domain.StoresData{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.StoresData{Vinmonopolet: vinmonopolet, Taxfree: taxfree}, nil
}

func (r ProductsRepository) ReadUniqueCountries(
	ctx context.Context,
) ([]string, error) {
	const op = "ProductsRepository.ReadUniqueCountries"

	query := `
		SELECT DISTINCT country FROM products
		WHERE country IS NOT NULL
		ORDER BY country;`

	countries, err := r.readStrings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return countries, nil
}

// readStrings collects the first column of every row, skipping NULLs.
func (r ProductsRepository) readStrings(
	ctx context.Context, query string,
) ([]string, error) {
	const op = "ProductsRepository.readStrings"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer closeRows(op, rows)

	vs := make([]string, 0)
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v.Valid {
			vs = append(vs, v.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vs, nil
}

func closeRows(op string, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "op", op, "err", err)
	}
}
