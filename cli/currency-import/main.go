package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/malusev998/fixerio-import/cli/cmd"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn("cannot load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	err := cmd.Execute(&cmd.Config{
		Ctx:      ctx,
		Factory:  newDependencies,
		Registry: registry,
		Logger:   logger,
	}, os.Stdout, os.Stderr)

	if err != nil {
		logger.WithError(err).Error("currency import failed")
		stop()
		os.Exit(1)
	}
}
