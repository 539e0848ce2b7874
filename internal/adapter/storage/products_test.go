package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/niksmo/snublejuice/internal/core/domain"
	"github.com/niksmo/snublejuice/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) SQLDB {
	t.Helper()

	dsn := SQLiteDSN(filepath.Join(t.TempDir(), "catalog.db"))
	db, err := NewSQLDB(context.Background(), DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, migrations.Up(db.DB, DriverSQLite, nil))
	return db
}

// A productRecord is inserted as is. A nil value stores NULL.
type productRecord struct {
	id          int64
	name        string
	description any
	category    any
	country     any
	price       any
	volume      float64
	alcohol     float64
	year        any
	prices      any
	stores      any
	orderable   bool
}

type taxfreeRecord struct {
	id     int64
	name   string
	price  any
	stores any
}

func insertProducts(t *testing.T, db SQLDB, ps ...productRecord) {
	t.Helper()
	for _, p := range ps {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO products (id, name, url, description, category, country,
				price, volume, alcohol, year, prices, stores, orderable)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			p.id, p.name, "https://example.com/products/"+p.name, p.description,
			p.category, p.country, p.price, p.volume, p.alcohol, p.year,
			p.prices, p.stores, p.orderable,
		)
		require.NoError(t, err)
	}
}

func insertTaxfree(t *testing.T, db SQLDB, ts ...taxfreeRecord) {
	t.Helper()
	for _, tf := range ts {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO taxfree (id, name, price, volume, alcohol, url, stores)
			VALUES (?, ?, ?, ?, ?, ?, ?);`,
			tf.id, tf.name, tf.price, 1.0, 12.5,
			"https://example.com/taxfree/"+tf.name, tf.stores,
		)
		require.NoError(t, err)
	}
}

func catalogFixture() []productRecord {
	return []productRecord{
		{
			id: 1, name: "Red Wine A", description: "Dry red wine",
			category: "Rødvin", country: "France", price: 150.0,
			volume: 0.75, alcohol: 12.5, year: 2020,
			prices: "[140, 150]", stores: `["Oslo City","Bergen Storsenter"]`,
			orderable: true,
		},
		{
			id: 2, name: "White Wine B", category: "Hvitvin", country: "Germany",
			price: 120.0, volume: 0.5, alcohol: 9, year: 1998,
			prices: "[]", stores: `["Trondheim Solsiden"]`,
		},
		{
			id: 3, name: "Red Wine C", category: "Rødvin", country: "Italy",
			price: 300.0, volume: 1.5, alcohol: 14, year: nil,
			prices: nil, stores: "null",
		},
	}
}

func productIDs(ps []domain.Product) []int64 {
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProductsRepository_ReadProducts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	insertProducts(t, db, catalogFixture()...)
	insertTaxfree(t, db, taxfreeRecord{
		id: 1, name: "Red Wine A TF", price: 99.0, stores: `["Gardermoen"]`,
	})

	repo := NewProductsRepository(db)

	find := func(t *testing.T, opts ...domain.FilterOpt) []domain.Product {
		t.Helper()
		ps, err := repo.ReadProducts(ctx, domain.NewProductFilter(opts...))
		require.NoError(t, err)
		return ps
	}

	t.Run("NoFilter", func(t *testing.T) {
		assert.ElementsMatch(t, []int64{1, 2, 3}, productIDs(find(t)))
	})

	t.Run("Category", func(t *testing.T) {
		assert.ElementsMatch(t, []int64{1, 3},
			productIDs(find(t, domain.CategoryOpt("Rødvin"))))
		assert.Equal(t, []int64{2},
			productIDs(find(t, domain.CategoryOpt("Hvitvin"))))
	})

	t.Run("Country", func(t *testing.T) {
		assert.Equal(t, []int64{3}, productIDs(find(t, domain.CountryOpt("Italy"))))
	})

	t.Run("Ranges", func(t *testing.T) {
		assert.ElementsMatch(t, []int64{1, 3},
			productIDs(find(t, domain.AlcoholMinOpt(10))))
		assert.ElementsMatch(t, []int64{2},
			productIDs(find(t, domain.VolumeMaxOpt(0.6))))
		assert.ElementsMatch(t, []int64{1},
			productIDs(find(t, domain.YearMinOpt(2000))))
		assert.ElementsMatch(t, []int64{1, 2},
			productIDs(find(t, domain.PriceMinOpt(120), domain.PriceMaxOpt(150))))
	})

	t.Run("InvertedRangeIsEmpty", func(t *testing.T) {
		ps := find(t, domain.PriceMinOpt(500), domain.PriceMaxOpt(100))
		require.NotNil(t, ps)
		assert.Empty(t, ps)
	})

	t.Run("StoreExact", func(t *testing.T) {
		assert.Equal(t, []int64{1}, productIDs(find(t, domain.StoreOpt("Oslo City"))))
		assert.Empty(t, find(t, domain.StoreOpt("Oslo")))
	})

	t.Run("StoreLike", func(t *testing.T) {
		assert.Equal(t, []int64{1}, productIDs(find(t, domain.StoreLikeOpt("Oslo"))))
		assert.Equal(t, []int64{2}, productIDs(find(t, domain.StoreLikeOpt("Trond"))))
	})

	t.Run("Orderable", func(t *testing.T) {
		assert.Equal(t, []int64{1}, productIDs(find(t, domain.OrderableOpt(true))))
		assert.Len(t, find(t, domain.OrderableOpt(false)), 3)
	})

	t.Run("Taxfree", func(t *testing.T) {
		ps := find(t, domain.TaxfreeOpt(true))
		require.Len(t, ps, 1)

		p := ps[0]
		assert.Equal(t, int64(1), p.ID)
		require.NotNil(t, p.Taxfree)
		assert.Equal(t, "Red Wine A TF", p.Taxfree.Name)
		assert.Equal(t, 99.0, p.Taxfree.Price)
		assert.Equal(t, []string{"Gardermoen"}, p.Taxfree.Stores)
	})

	t.Run("TaxfreeWithStoreNarrows", func(t *testing.T) {
		ps := find(t, domain.TaxfreeOpt(true), domain.StoreOpt("Trondheim Solsiden"))
		assert.Empty(t, ps)
	})

	t.Run("WithoutTaxfreeNoSubRecord", func(t *testing.T) {
		for _, p := range find(t) {
			assert.Nil(t, p.Taxfree)
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		ps := find(t, domain.LimitOpt(1), domain.OffsetOpt(1))
		require.Len(t, ps, 1)
		assert.Equal(t, int64(2), ps[0].ID)

		assert.Empty(t, find(t, domain.OffsetOpt(10)))
	})

	t.Run("Search", func(t *testing.T) {
		assert.ElementsMatch(t, []int64{1, 3}, productIDs(find(t, domain.SearchOpt("red"))))
		assert.Equal(t, []int64{1},
			productIDs(find(t, domain.SearchOpt("dry"), domain.CategoryOpt("Rødvin"))))
	})

	t.Run("MalformedSearch", func(t *testing.T) {
		ps, err := repo.ReadProducts(ctx, domain.NewProductFilter(domain.SearchOpt(`"`)))
		require.Error(t, err)
		assert.Nil(t, ps)
	})

	t.Run("Arrays", func(t *testing.T) {
		byID := make(map[int64]domain.Product)
		for _, p := range find(t) {
			byID[p.ID] = p
		}

		assert.Equal(t, []float64{140, 150}, byID[1].Prices)

		require.NotNil(t, byID[2].Prices)
		assert.Empty(t, byID[2].Prices)

		assert.Nil(t, byID[3].Prices)
		assert.Nil(t, byID[3].Stores)
		assert.Nil(t, byID[3].Year)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.ReadProducts(ctx, domain.NewProductFilter())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestProductsRepository_MalformedStores(t *testing.T) {
	db := newTestDB(t)
	insertProducts(t, db,
		productRecord{id: 1, name: "Broken", stores: `["Oslo`},
		productRecord{id: 2, name: "Fine", stores: `["Oslo"]`},
	)
	repo := NewProductsRepository(db)

	ps, err := repo.ReadProducts(context.Background(),
		domain.NewProductFilter(domain.StoreOpt("Oslo")))
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, productIDs(ps))

	ps, err = repo.ReadProducts(context.Background(), domain.NewProductFilter())
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Nil(t, ps[0].Stores)
}

func TestProductsRepository_NonNumericMeasures(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	insertProducts(t, db, catalogFixture()...)

	_, err := db.ExecContext(ctx,
		`UPDATE products SET volume = 'abc', alcohol = 'n/a' WHERE id = 2;`)
	require.NoError(t, err)

	ps, err := NewProductsRepository(db).ReadProducts(ctx,
		domain.NewProductFilter(domain.CountryOpt("Germany")))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Zero(t, ps[0].Volume)
	assert.Zero(t, ps[0].Alcohol)
}

func TestProductsRepository_Metadata(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	insertProducts(t, db, catalogFixture()...)
	insertProducts(t, db, productRecord{
		id: 4, name: "Mystery", country: nil, stores: `["Oslo City"]`,
	})
	insertTaxfree(t, db,
		taxfreeRecord{id: 1, name: "A TF", stores: `["Gardermoen","Bergen Flesland"]`},
		taxfreeRecord{id: 2, name: "B TF", stores: `["Gardermoen"]`},
	)

	repo := NewProductsRepository(db)

	t.Run("UniqueStores", func(t *testing.T) {
		stores, err := repo.ReadUniqueStores(ctx)
		require.NoError(t, err)

		assert.Equal(t,
			[]string{"Bergen Storsenter", "Oslo City", "Trondheim Solsiden"},
			stores.Vinmonopolet,
		)
		assert.Equal(t, []string{"Bergen Flesland", "Gardermoen"}, stores.Taxfree)
	})

	t.Run("UniqueCountries", func(t *testing.T) {
		countries, err := repo.ReadUniqueCountries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"France", "Germany", "Italy"}, countries)
	})

	t.Run("EmptyCatalog", func(t *testing.T) {
		repo := NewProductsRepository(newTestDB(t))

		stores, err := repo.ReadUniqueStores(ctx)
		require.NoError(t, err)
		assert.Empty(t, stores.Vinmonopolet)
		assert.Empty(t, stores.Taxfree)

		countries, err := repo.ReadUniqueCountries(ctx)
		require.NoError(t, err)
		assert.NotNil(t, countries)
		assert.Empty(t, countries)
	})
}
