package httphandler

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/niksmo/snublejuice/internal/core/domain"
)

// parseProductFilter maps the query string of GET /products to a filter.
// Empty values are treated as unset. All malformed values are reported.
func parseProductFilter(q url.Values) (domain.ProductFilter, error) {
	var (
		opts []domain.FilterOpt
		errs []error
	)

	text := func(key string, opt func(string) domain.FilterOpt) {
		if v := q.Get(key); v != "" {
			opts = append(opts, opt(v))
		}
	}
	number := func(key string, opt func(float64) domain.FilterOpt) {
		v := q.Get(key)
		if v == "" {
			return
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, paramErr(key, v))
			return
		}
		opts = append(opts, opt(n))
	}
	integer := func(key string, opt func(int) domain.FilterOpt) {
		v := q.Get(key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, paramErr(key, v))
			return
		}
		opts = append(opts, opt(n))
	}
	boolean := func(key string, opt func(bool) domain.FilterOpt) {
		v := q.Get(key)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, paramErr(key, v))
			return
		}
		opts = append(opts, opt(b))
	}

	text("q", domain.SearchOpt)
	text("category", domain.CategoryOpt)
	text("country", domain.CountryOpt)
	text("store", domain.StoreOpt)
	text("storelike", domain.StoreLikeOpt)
	boolean("orderable", domain.OrderableOpt)
	number("min_price", domain.PriceMinOpt)
	number("max_price", domain.PriceMaxOpt)
	number("min_volume", domain.VolumeMinOpt)
	number("max_volume", domain.VolumeMaxOpt)
	number("min_alcohol", domain.AlcoholMinOpt)
	number("max_alcohol", domain.AlcoholMaxOpt)
	integer("min_year", domain.YearMinOpt)
	integer("max_year", domain.YearMaxOpt)
	boolean("taxfree", domain.TaxfreeOpt)
	integer("limit", domain.LimitOpt)
	integer("offset", domain.OffsetOpt)

	if len(errs) != 0 {
		return domain.ProductFilter{}, errors.Join(errs...)
	}
	return domain.NewProductFilter(opts...), nil
}

func paramErr(key, value string) error {
	return fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, key, value)
}
