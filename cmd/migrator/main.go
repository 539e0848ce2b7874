package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/niksmo/snublejuice/internal/adapter/storage"
	"github.com/niksmo/snublejuice/migrations"
	"github.com/spf13/pflag"
)

const (
	storagePathFlag = "storage-path"
	driverFlag      = "driver"

	connectTimeout = 30 * time.Second
)

var drivers = []string{storage.DriverSQLite, storage.DriverPgx}

func main() {
	driver, storagePath := getFlagsValues()
	validateFlags(driver, storagePath)
	makeMigrations(driver, storagePath)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() (driver, storage string) {
	d := pflag.StringP(driverFlag, "d", "sqlite", "sqlite or pgx")
	storagePath := pflag.StringP(storagePathFlag, "s", "", "database file or DSN")
	pflag.Parse()
	return *d, *storagePath
}

func validateFlags(driver, storagePath string) {
	var errs []error

	if storagePath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", storagePathFlag))
	}

	if !slices.Contains(drivers, driver) {
		errs = append(errs, fmt.Errorf("--%s flag: want one of %q", driverFlag, drivers))
	}

	if len(errs) != 0 {
		slog.Error("invalid args", "err", errors.Join(errs...))
		fallDown()
	}
}

func makeMigrations(driver, storagePath string) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	dsn := storagePath
	if driver == storage.DriverSQLite {
		dsn = storage.SQLiteDSN(storagePath)
	}

	db, err := storage.NewSQLDB(ctx, driver, dsn)
	if err != nil {
		slog.Error("failed to connect", "err", err)
		fallDown()
	}
	defer db.Close()

	if err := migrations.Up(db.DB, driver, NewMigrationLogger()); err != nil {
		slog.Error("failed to migrate", "err", err)
		db.Close()
		fallDown()
	}
}

func fallDown() {
	os.Exit(2)
}
