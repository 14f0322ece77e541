// Command uploadeventlog prints every upload_url.issued event published by
// uploadurlapi, one line per event.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"upload-url-api/config"
	"upload-url-api/internal/application/ports"
	"upload-url-api/pkg/eventconsumer"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	mqCfg, err := config.LoadMQ()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	dsn, err := mqCfg.DSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}

	c := eventconsumer.New(mqCfg, logger, nil)
	defer c.Close()

	var consumer ports.RMQConsumer = c
	if err = consumer.Connect(dsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = consumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.DeliveryWorker(ctx)
}
