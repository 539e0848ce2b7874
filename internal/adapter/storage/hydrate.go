package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/niksmo/snublejuice/internal/core/domain"
)

var errMissingColumn = errors.New("missing column")

// jsonNull is the stored text of an array column without data.
const jsonNull = "null"

type columnKind int

const (
	kindText columnKind = iota
	kindInt
	kindFloat
	kindLenientFloat
)

var columnKinds = map[string]columnKind{
	"id":                      kindInt,
	"year":                    kindInt,
	"price":                   kindFloat,
	"volume":                  kindLenientFloat,
	"alcohol":                 kindLenientFloat,
	taxfreeMarker:             kindInt,
	taxfreePrefix + "price":   kindFloat,
	taxfreePrefix + "volume":  kindFloat,
	taxfreePrefix + "alcohol": kindFloat,
}

// A row holds the scanned values of one result row by column name.
type row map[string]any

func newScanDest(column string) any {
	kind, ok := columnKinds[column]
	if !ok {
		return new(sql.NullString)
	}
	switch kind {
	case kindInt:
		return new(sql.NullInt64)
	case kindFloat:
		return new(sql.NullFloat64)
	case kindLenientFloat:
		return new(any)
	default:
		return new(sql.NullString)
	}
}

func scanRow(rows *sql.Rows, columns []string) (row, error) {
	dest := make([]any, len(columns))
	for i, c := range columns {
		dest[i] = newScanDest(c)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	r := make(row, len(columns))
	for i, c := range columns {
		r[c] = dest[i]
	}
	return r, nil
}

func (r row) has(column string) bool {
	_, ok := r[column]
	return ok
}

func (r row) nullInt(column string) (sql.NullInt64, error) {
	v, ok := r[column].(*sql.NullInt64)
	if !ok {
		return sql.NullInt64{}, fmt.Errorf("%q: %w", column, errMissingColumn)
	}
	return *v, nil
}

func (r row) nullFloat(column string) (sql.NullFloat64, error) {
	v, ok := r[column].(*sql.NullFloat64)
	if !ok {
		return sql.NullFloat64{}, fmt.Errorf("%q: %w", column, errMissingColumn)
	}
	return *v, nil
}

func (r row) nullString(column string) (sql.NullString, error) {
	v, ok := r[column].(*sql.NullString)
	if !ok {
		return sql.NullString{}, fmt.Errorf("%q: %w", column, errMissingColumn)
	}
	return *v, nil
}

func (r row) requiredInt(column string) (int64, error) {
	v, err := r.nullInt(column)
	if err != nil {
		return 0, err
	}
	if !v.Valid {
		return 0, fmt.Errorf("%q: unexpected NULL", column)
	}
	return v.Int64, nil
}

func (r row) requiredString(column string) (string, error) {
	v, err := r.nullString(column)
	if err != nil {
		return "", err
	}
	if !v.Valid {
		return "", fmt.Errorf("%q: unexpected NULL", column)
	}
	return v.String, nil
}

func (r row) optString(column string) (*string, error) {
	v, err := r.nullString(column)
	if err != nil || !v.Valid {
		return nil, err
	}
	return &v.String, nil
}

func (r row) optFloat(column string) (*float64, error) {
	v, err := r.nullFloat(column)
	if err != nil || !v.Valid {
		return nil, err
	}
	return &v.Float64, nil
}

func (r row) optInt(column string) (*int, error) {
	v, err := r.nullInt(column)
	if err != nil || !v.Valid {
		return nil, err
	}
	n := int(v.Int64)
	return &n, nil
}

// floatOrZero never fails: a missing, NULL or non-numeric value reads as 0.
func (r row) floatOrZero(column string) float64 {
	var v any
	switch dest := r[column].(type) {
	case *sql.NullFloat64:
		return dest.Float64
	case *any:
		v = *dest
	}

	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case []byte:
		return parseFloatOrZero(column, string(n))
	case string:
		return parseFloatOrZero(column, n)
	default:
		return 0
	}
}

func parseFloatOrZero(column, s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		slog.Debug("skip non-numeric value",
			"op", "parseFloatOrZero", "column", column, "err", err)
		return 0
	}
	return f
}

// decodeJSONArray returns nil for NULL, the "null" literal and malformed JSON.
// "[]" decodes to an empty non-nil slice.
func decodeJSONArray[T any](column string, raw sql.NullString) []T {
	if !raw.Valid || strings.TrimSpace(raw.String) == jsonNull {
		return nil
	}
	var vs []T
	if err := json.Unmarshal([]byte(raw.String), &vs); err != nil {
		slog.Debug("skip malformed json array",
			"op", "decodeJSONArray", "column", column, "err", err)
		return nil
	}
	return vs
}

func hydrateProduct(r row) (p domain.Product, err error) {
	const op = "hydrateProduct"

	if p.ID, err = r.requiredInt("id"); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Name, err = r.requiredString("name"); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.URL, err = r.requiredString("url"); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Description, err = r.optString("description"); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Category, err = r.optString("category"); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Country, err = r.optString("country"); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Price, err = r.optFloat("price"); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	p.Volume = r.floatOrZero("volume")
	p.Alcohol = r.floatOrZero("alcohol")
	if p.Year, err = r.optInt("year"); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	prices, err := r.nullString("prices")
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	p.Prices = decodeJSONArray[float64]("prices", prices)

	stores, err := r.nullString("stores")
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	p.Stores = decodeJSONArray[string]("stores", stores)

	if p.Taxfree, err = hydrateTaxfree(r); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// hydrateTaxfree returns nil when the row has no tax-free projection.
// Once the marker column is present every tax-free column must be too.
func hydrateTaxfree(r row) (*domain.TaxfreeInfo, error) {
	if !r.has(taxfreeMarker) {
		return nil, nil
	}
	id, err := r.nullInt(taxfreeMarker)
	if err != nil {
		return nil, err
	}
	if !id.Valid {
		return nil, nil
	}

	name, err := r.nullString(taxfreePrefix + "name")
	if err != nil {
		return nil, projectionErr(err)
	}
	price, err := r.nullFloat(taxfreePrefix + "price")
	if err != nil {
		return nil, projectionErr(err)
	}
	volume, err := r.nullFloat(taxfreePrefix + "volume")
	if err != nil {
		return nil, projectionErr(err)
	}
	alcohol, err := r.nullFloat(taxfreePrefix + "alcohol")
	if err != nil {
		return nil, projectionErr(err)
	}
	url, err := r.nullString(taxfreePrefix + "url")
	if err != nil {
		return nil, projectionErr(err)
	}
	stores, err := r.nullString(taxfreePrefix + "stores")
	if err != nil {
		return nil, projectionErr(err)
	}

	return &domain.TaxfreeInfo{
		ID:      id.Int64,
		Name:    name.String,
		Price:   price.Float64,
		Volume:  volume.Float64,
		Alcohol: alcohol.Float64,
		URL:     url.String,
		Stores:  decodeJSONArray[string](taxfreePrefix+"stores", stores),
	}, nil
}

func projectionErr(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrTaxfreeProjection, err)
}
