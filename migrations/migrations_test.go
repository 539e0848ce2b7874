package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUp(t *testing.T) {
	t.Run("SQLite", func(t *testing.T) {
		db := openSQLite(t)

		require.NoError(t, Up(db, "sqlite", nil))
		require.NoError(t, Up(db, "sqlite", nil), "second run has no change")

		for _, table := range []string{"products", "products_fts", "taxfree", "users"} {
			var name string
			err := db.QueryRow(
				`SELECT name FROM sqlite_master WHERE name = ?`, table,
			).Scan(&name)
			require.NoError(t, err, table)
		}
	})

	t.Run("FullTextTriggers", func(t *testing.T) {
		db := openSQLite(t)
		require.NoError(t, Up(db, "sqlite", nil))

		_, err := db.Exec(`INSERT INTO products (id, name, url) VALUES (1, 'Red Wine', 'u')`)
		require.NoError(t, err)

		var n int
		err = db.QueryRow(
			`SELECT count(*) FROM products_fts WHERE products_fts MATCH 'red'`,
		).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = db.Exec(`UPDATE products SET name = 'White Wine' WHERE id = 1`)
		require.NoError(t, err)
		err = db.QueryRow(
			`SELECT count(*) FROM products_fts WHERE products_fts MATCH 'red'`,
		).Scan(&n)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("UnsupportedDriver", func(t *testing.T) {
		require.Error(t, Up(openSQLite(t), "mysql", nil))
	})
}
