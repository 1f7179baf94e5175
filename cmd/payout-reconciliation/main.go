package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/rentstack/pmp/db"
	"github.com/rentstack/pmp/gateway"
	"github.com/rentstack/pmp/lib"
	"github.com/rentstack/pmp/lib/service"
)

// One-shot payout reconciliation: runs a single pass and exits. Meant for
// operators re-driving payouts outside the scheduled cadence.
func main() {
	c := &service.Config{}

	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	logger := lib.Logger(c.LogFilePath)

	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{Dsn: c.SentryDSN}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	gwCfg, err := gateway.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading gateway config: %v", err)
	}

	svc := &service.PmpService{
		Config:  c,
		DB:      dbConn,
		Logger:  logger,
		Gateway: gateway.NewClient(gwCfg),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := svc.RunPayoutReconciliation(ctx, time.Now())
	if err != nil {
		sentry.CaptureException(err)
		logger.Fatalf("Payout reconciliation failed: %v", err)
	}
	logger.Infof("Payout reconciliation finished: scanned=%d succeeded=%d retried=%d exhausted=%d",
		result.Scanned, result.Succeeded, result.Retried, result.Exhausted)
}
