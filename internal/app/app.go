package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/snublejuice/config"
	"github.com/niksmo/snublejuice/internal/adapter"
	"github.com/niksmo/snublejuice/internal/adapter/auth"
	"github.com/niksmo/snublejuice/internal/adapter/httphandler"
	"github.com/niksmo/snublejuice/internal/adapter/metrics"
	"github.com/niksmo/snublejuice/internal/adapter/storage"
	"github.com/niksmo/snublejuice/internal/core/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"
)

type repositories struct {
	products storage.ProductsRepository
	users    storage.UsersRepository
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	sqlDB      storage.SQLDB
	repos      repositories
	service    service.Service
	metrics    metrics.HTTPMetrics
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initMetrics()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initMetrics() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.NewHTTPMetrics(reg)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	dsn := app.cfg.SQLDB
	if app.cfg.SQLDriver == storage.DriverSQLite {
		dsn = storage.SQLiteDSN(dsn)
	}

	sqlDB, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDriver, dsn)
	if err != nil {
		app.fallDown(op, err)
	}

	app.sqlDB = sqlDB
	app.repos.products = storage.NewProductsRepository(sqlDB)
	app.repos.users = storage.NewUsersRepository(sqlDB)
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	tokens, err := auth.NewTokenManager(app.cfg.JWTKey)
	if err != nil {
		app.fallDown(op, err)
	}

	app.service = service.New(
		app.repos.products,
		app.repos.users,
		auth.NewBcryptHasher(bcrypt.DefaultCost),
		tokens,
	)
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	tlsCfg := app.cfg.TLS
	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, app.service, app.service)
	httphandler.RegisterAccount(mux, app.service, tlsCfg.Enabled())
	mux.Handle("GET /metrics", app.metrics.Handler())

	limiter := httphandler.NewRateLimiter(
		app.cfg.RateLimit.RPS,
		app.cfg.RateLimit.Burst,
		httphandler.OnLimitedOpt(app.metrics.RecordLimited),
	)

	handler := httphandler.Chain(mux,
		httphandler.RequestID,
		httphandler.Observe(app.metrics),
		limiter.Middleware,
		httphandler.AllowJSON,
	)

	var opts []httphandler.ServerOpt
	if tlsCfg.Enabled() {
		serverTLS, err := adapter.MakeServerTLSConfig(tlsCfg.ClientCA, tlsCfg.Cert, tlsCfg.Key)
		if err != nil {
			app.fallDown(op, err)
		}
		opts = append(opts, httphandler.TLSOpt(serverTLS))
	}

	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler, opts...)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.sqlDB.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
