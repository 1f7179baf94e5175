package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/uptrace/bun/migrate"
	ddEcho "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/rentstack/pmp/db"
	"github.com/rentstack/pmp/db/migrations"
	"github.com/rentstack/pmp/gateway"
	"github.com/rentstack/pmp/jobs"
	"github.com/rentstack/pmp/lib"
	"github.com/rentstack/pmp/lib/service"
	"github.com/rentstack/pmp/lib/tokens"
	"github.com/rentstack/pmp/lib/transport"
	"github.com/rentstack/pmp/mailer"
	"github.com/rentstack/pmp/rabbitmq"
	"github.com/rentstack/pmp/storage"
)

func main() {
	c := &service.Config{}

	// Load configuration from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configured log file
	logger := lib.Logger(c.LogFilePath)

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
	gwCfg, err := gateway.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading gateway config: %v", err)
	}
	gatewayClient := gateway.NewClient(gwCfg)

	// Init the SMTP mailer
	mailCfg, err := mailer.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading mail config: %v", err)
	}
	smtpMailer, err := mailer.NewSMTPMailer(mailCfg)
	if err != nil {
		logger.Fatalf("Error initializing mailer: %v", err)
	}

	// Init attachment storage (local disk or S3)
	storageCfg, err := storage.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading storage config: %v", err)
	}
	store, err := storage.NewStorage(startupCtx, storageCfg)
	if err != nil {
		logger.Fatalf("Error initializing storage: %v", err)
	}

	// If no RABBITMQ_URI was provided we will not attempt to create a client
	// No rabbitmq features will be available in this case.
	var rabbitmqClient rabbitmq.Client
	if c.RabbitMQUri != "" {
		amqpConn, err := rabbitmq.DialAMQP(c.RabbitMQUri)
		if err != nil {
			logger.Fatal(err)
		}
		defer amqpConn.Close()

		rabbitmqClient, err = rabbitmq.NewClient(amqpConn,
			rabbitmq.WithLogger(logger),
			rabbitmq.WithEventsExchange(c.RabbitMQEventsExchange),
		)
		if err != nil {
			logger.Fatal(err)
		}
		defer rabbitmqClient.Close()
	}

	redisOpts := asynq.RedisClientOpt{Addr: c.RedisAddr, Password: c.RedisPassword}
	jobsClient := jobs.NewClient(redisOpts)
	defer jobsClient.Close()

	svc := &service.PmpService{
		Config:         c,
		DB:             dbConn,
		Logger:         logger,
		Gateway:        gatewayClient,
		Mailer:         smtpMailer,
		JobsClient:     jobsClient,
		RabbitMQClient: rabbitmqClient,
	}

	// init echo server
	e := transport.InitEcho(c, logger)
	// if Datadog is configured, add datadog middleware
	if c.DatadogAgentUrl != "" {
		tracer.Start(tracer.WithAgentAddr(c.DatadogAgentUrl))
		defer tracer.Stop()
		e.Use(ddEcho.Middleware(ddEcho.WithServiceName("pmp")))
	}

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for payment initiation and account creation
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)

	secured := e.Group("", tokens.Middleware(c.JWTSecret), logMw)
	securedWithStrictRateLimit := e.Group("", tokens.Middleware(c.JWTSecret), strictRateLimitMiddleware, logMw)

	transport.RegisterEndpoints(svc, store, e, secured, securedWithStrictRateLimit, strictRateLimitMiddleware, tokens.AdminTokenMiddleware(c.AdminToken), logMw)

	// Locally stored uploads are served from the main listener
	if !storageCfg.UseS3 {
		e.Static(storageCfg.PublicPath, storageCfg.LocalDir)
	}

	var backgroundWg sync.WaitGroup
	backGroundCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)

	// Run the background worker: scheduled invoice rollover and payout
	// reconciliation plus queued mail delivery.
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: func(ctx context.Context, t *asynq.Task) error {
				var payload jobs.SendEmailPayload
				if err := json.Unmarshal(t.Payload(), &payload); err != nil {
					return err
				}
				return svc.Mailer.Send(ctx, payload.To, payload.Subject, payload.Body)
			}},
			{Type: jobs.TaskTypeInvoiceRollover, Handler: func(ctx context.Context, t *asynq.Task) error {
				_, err := svc.RunInvoiceRollover(ctx, time.Now())
				return err
			}},
			{Type: jobs.TaskTypePayoutReconcile, Handler: func(ctx context.Context, t *asynq.Task) error {
				_, err := svc.RunPayoutReconciliation(ctx, time.Now())
				return err
			}},
		},
		Cron: []jobs.CronRegistration{
			{Spec: c.RolloverCron, Task: jobs.NewInvoiceRolloverTask()},
			{Spec: c.PayoutCron, Task: jobs.NewPayoutReconcileTask()},
		},
	})
	if err != nil {
		logger.Fatalf("Error initializing background worker: %v", err)
	}
	backgroundWg.Add(1)
	go func() {
		if err := worker.Run(backGroundCtx); err != nil && err != context.Canceled {
			sentry.CaptureException(err)
			svc.Logger.Error(err)
		}
		svc.Logger.Info("Background worker done")
		backgroundWg.Done()
	}()

	// Start Prometheus server if necessary
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
	// Wait for graceful shutdown of background routines
	backgroundWg.Wait()
	svc.Logger.Info("PMP exiting gracefully. Goodbye.")
}
