package domain

const (
	DefaultLimit  = 50
	DefaultOffset = 0
)

// A ProductFilter describes one catalog query.
//
// A nil field is not applied. Orderable only restricts when it points to true.
// Ranges are not validated: min > max yields an empty result.
type ProductFilter struct {
	Search    *string
	Category  *string
	Country   *string
	Store     *string
	StoreLike *string
	Orderable *bool

	PriceMin   *float64
	PriceMax   *float64
	VolumeMin  *float64
	VolumeMax  *float64
	AlcoholMin *float64
	AlcoholMax *float64
	YearMin    *int
	YearMax    *int

	Taxfree bool

	Limit  int
	Offset int
}

type FilterOpt func(*ProductFilter)

// NewProductFilter returns a filter with default pagination
// and the given options applied in order.
func NewProductFilter(opts ...FilterOpt) ProductFilter {
	f := ProductFilter{
		Limit:  DefaultLimit,
		Offset: DefaultOffset,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func SearchOpt(q string) FilterOpt {
	return func(f *ProductFilter) { f.Search = &q }
}

func CategoryOpt(category string) FilterOpt {
	return func(f *ProductFilter) { f.Category = &category }
}

func CountryOpt(country string) FilterOpt {
	return func(f *ProductFilter) { f.Country = &country }
}

// StoreOpt matches products whose store set has an element equal to store.
func StoreOpt(store string) FilterOpt {
	return func(f *ProductFilter) { f.Store = &store }
}

// StoreLikeOpt matches products whose encoded store set contains substr.
func StoreLikeOpt(substr string) FilterOpt {
	return func(f *ProductFilter) { f.StoreLike = &substr }
}

func OrderableOpt(orderable bool) FilterOpt {
	return func(f *ProductFilter) { f.Orderable = &orderable }
}

func PriceMinOpt(v float64) FilterOpt {
	return func(f *ProductFilter) { f.PriceMin = &v }
}

func PriceMaxOpt(v float64) FilterOpt {
	return func(f *ProductFilter) { f.PriceMax = &v }
}

func VolumeMinOpt(v float64) FilterOpt {
	return func(f *ProductFilter) { f.VolumeMin = &v }
}

func VolumeMaxOpt(v float64) FilterOpt {
	return func(f *ProductFilter) { f.VolumeMax = &v }
}

func AlcoholMinOpt(v float64) FilterOpt {
	return func(f *ProductFilter) { f.AlcoholMin = &v }
}

func AlcoholMaxOpt(v float64) FilterOpt {
	return func(f *ProductFilter) { f.AlcoholMax = &v }
}

func YearMinOpt(v int) FilterOpt {
	return func(f *ProductFilter) { f.YearMin = &v }
}

func YearMaxOpt(v int) FilterOpt {
	return func(f *ProductFilter) { f.YearMax = &v }
}

// TaxfreeOpt enables the tax-free join. Products without
// a tax-free record are excluded from the result.
func TaxfreeOpt(taxfree bool) FilterOpt {
	return func(f *ProductFilter) { f.Taxfree = taxfree }
}

func LimitOpt(limit int) FilterOpt {
	return func(f *ProductFilter) { f.Limit = limit }
}

func OffsetOpt(offset int) FilterOpt {
	return func(f *ProductFilter) { f.Offset = offset }
}
