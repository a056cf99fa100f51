package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/uptrace/bun/migrate"
	"github.com/vanaways/paylink/cashflows"
	"github.com/vanaways/paylink/db"
	"github.com/vanaways/paylink/db/migrations"
	"github.com/vanaways/paylink/docs"
	"github.com/vanaways/paylink/gateway"
	"github.com/vanaways/paylink/lib/logging"
	"github.com/vanaways/paylink/lib/service"
	"github.com/vanaways/paylink/lib/transport"
	"github.com/vanaways/paylink/rabbitmq"
	ddEcho "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// @title        Paylink
// @version      1.0.0
// @description  Hosted payment page service reconciling gateway payments against cashflow records.

// @BasePath  /

// @schemes  https http
func main() {

	c := &service.Config{}

	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := logging.Logger(c.LogFilePath)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	// Migrate the DB
	startupCtx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(startupCtx)
	if err != nil {
		logger.Fatalf("Error initializing db migrator: %v", err)
	}
	_, err = migrator.Migrate(startupCtx)
	if err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}
	// Setup exception tracking with Sentry if configured
	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"401"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}
	// Init the payment gateway client
	gatewayConfig, err := gateway.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading gateway config: %v", err)
	}
	gatewayClient := gateway.NewStripeClient(gatewayConfig)

	// Init the cashflow store (local database or remote API)
	storeConfig, err := cashflows.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading cashflow store config: %v", err)
	}
	cashflowStore, err := cashflows.InitStore(storeConfig, dbConn, logger)
	if err != nil {
		logger.Fatalf("Error initializing the %s cashflow store: %v", storeConfig.StoreKind, err)
	}

	// If no RABBITMQ_URI was provided we will not attempt to create a client
	// No rabbitmq features will be available in this case.
	var rabbitmqClient rabbitmq.Client
	if c.RabbitMQUri != "" {
		rabbitmqClient, err = rabbitmq.Dial(c.RabbitMQUri,
			rabbitmq.WithPaymentExchange(c.RabbitMQPaymentExchange),
			rabbitmq.WithLogger(logger),
		)
		if err != nil {
			logger.Fatal(err)
		}

		// close the connection gently at the end of the runtime
		defer rabbitmqClient.Close()
	}

	svc := &service.PaylinkService{
		Config:         c,
		DB:             dbConn,
		CashflowStore:  cashflowStore,
		GatewayClient:  gatewayClient,
		Logger:         logger,
		PaymentPubSub:  service.NewPubsub(),
		RabbitMQClient: rabbitmqClient,
	}

	//init echo server
	e := transport.InitEcho(c, logger)
	//if Datadog is configured, add datadog middleware
	if c.DatadogAgentUrl != "" {
		tracer.Start(tracer.WithAgentAddr(c.DatadogAgentUrl))
		defer tracer.Stop()
		e.Use(ddEcho.Middleware(ddEcho.WithServiceName("paylink")))
	}

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for requests that create checkout sessions
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)

	transport.RegisterEndpoints(svc, e, strictRateLimitMiddleware, logMw)

	//Swagger API spec
	docs.SwaggerInfo.Host = c.Host
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var backgroundWg sync.WaitGroup
	backGroundCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)

	// Forward applied payments to the back-office in the background
	backgroundWg.Add(1)
	go func() {
		svc.StartNotificationRoutine(backGroundCtx)
		svc.Logger.Info("Notification routine done")
		backgroundWg.Done()
	}()

	//Start Prometheus server if necessary
	if svc.Config.EnablePrometheus {
		go transport.StartPrometheusEcho(logger, svc, e)
	}

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	<-backGroundCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	//Wait for graceful shutdown of background routines
	backgroundWg.Wait()
	svc.Logger.Info("Paylink exiting gracefully. Goodbye.")
}
