package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dan9191/credit-service/internal/app"
	"github.com/Dan9191/credit-service/internal/config"
	"github.com/Dan9191/credit-service/internal/console"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Logs go to stderr so the prompts on stdout stay readable
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.WarnLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize service: %v", err)
	}
	defer a.Close()

	shell := console.New(a.Service, os.Stdin, os.Stdout, logger)
	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Errorf("Session ended with error: %v", err)
	}
}
