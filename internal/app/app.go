package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/phlox/storefront/config"
	"github.com/phlox/storefront/internal/adapter/catalog"
	"github.com/phlox/storefront/internal/adapter/httphandler"
	"github.com/phlox/storefront/internal/adapter/kafka"
	"github.com/phlox/storefront/internal/adapter/storage"
	"github.com/phlox/storefront/internal/core/port"
	"github.com/phlox/storefront/internal/core/service"
	"github.com/phlox/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type analytics struct {
	orderProducer port.OrderPlacedProducer
	salesCounts   port.SalesCounts
	salesProc     port.SalesProcessor

	producer kafka.OrderPlacedProducer
	view     kafka.SalesCountsView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	catalog    catalog.Catalog
	db         storage.SQLDB
	carts      *storage.SessionCarts
	analytics  analytics
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	app.initStorage()
	app.initAnalytics()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	var (
		c   catalog.Catalog
		err error
	)
	if path := app.cfg.Store.CatalogFile; path != "" {
		c, err = catalog.NewFromFile(path)
	} else {
		c, err = catalog.New()
	}
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalog = c
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	db, err := storage.NewSQLDB(app.ctx, app.cfg.FeedbackDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.db = db

	if err := storage.Migrate(db.DB); err != nil {
		app.fallDown(op, err)
	}

	feedbackRepo := storage.NewFeedbackRepository(db)
	if err := feedbackRepo.Seed(app.ctx); err != nil {
		app.fallDown(op, err)
	}

	app.carts = storage.NewSessionCarts()
}

func (app *App) initAnalytics() {
	const op = "App.initAnalytics"

	if !app.cfg.AnalyticsEnabled() {
		slog.Info("analytics is disabled: no seed brokers configured")
		return
	}

	ctx := app.ctx
	broker := app.cfg.Broker

	srClient, err := sr.NewClient(sr.URLs(broker.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderSubject := broker.Topics.OrderPlaced + "-value"
	orderSerde, err := schema.NewSerdeOrderPlacedV1(
		ctx,
		schema.SubjectOpt(orderSubject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewOrderPlacedProducer(
		kafka.ProducerClientOpt(ctx, broker.SeedBrokers, broker.Topics.OrderPlaced),
		kafka.ProducerEncoderOpt(orderSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesProc, err := kafka.NewSalesCounterProcessor(
		broker.SeedBrokers,
		broker.Topics.OrderPlaced,
		broker.Consumers.SalesCounterGroup,
		orderSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesView, err := kafka.NewSalesCountsView(
		broker.SeedBrokers,
		broker.Consumers.SalesCounterGroup,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.analytics = analytics{
		orderProducer: producer,
		salesCounts:   salesView,
		salesProc:     salesProc,
		producer:      producer,
		view:          salesView,
	}
}

func (app *App) initCoreService() {
	app.service = service.New(
		app.catalog,
		app.carts,
		storage.NewFeedbackRepository(app.db),
		app.analytics.orderProducer,
		app.analytics.salesCounts,
		app.analytics.salesProc,
	)
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.service, app.cfg.AnalyticsEnabled())
	httphandler.RegisterCart(mux, app.service)
	httphandler.RegisterCheckout(mux, app.service, app.cfg.Store.AdminPhone)
	httphandler.RegisterFeedback(mux, app.service)

	handler := httphandler.WithSession(httphandler.AllowJSON(mux))
	httpServer := httphandler.NewHTTPServer(addr, handler)
	app.httpServer = httpServer
}

// Run starts the http server and, when analytics is wired, the sales
// processor and view. Blocks while the processor prepares.
func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	app.service.Run(app.ctx, stopFn)
	if app.cfg.AnalyticsEnabled() {
		go app.analytics.view.Run(app.ctx)
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()
	if app.cfg.AnalyticsEnabled() {
		app.analytics.producer.Close()
	}
	app.db.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
