package domain

type (
	// A Product is a catalog entry.
	//
	// Prices and Stores are nil when the store holds no sequence for them,
	// and empty when the store holds an empty array.
	// Taxfree is set only when the query joined the tax-free table.
	Product struct {
		ID          int64
		Name        string
		URL         string
		Description *string
		Category    *string
		Country     *string
		Price       *float64
		Volume      float64
		Alcohol     float64
		Year        *int
		Prices      []float64
		Stores      []string
		Taxfree     *TaxfreeInfo
	}

	// A TaxfreeInfo is the tax-free channel variant of a [Product]
	// with the same ID.
	TaxfreeInfo struct {
		ID      int64
		Name    string
		Price   float64
		Volume  float64
		Alcohol float64
		URL     string
		Stores  []string
	}
)

// StoresData holds distinct store names per sales channel.
type StoresData struct {
	Vinmonopolet []string
	Taxfree      []string
}
