package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Demilade/Kudi/internal/config"
	"github.com/Demilade/Kudi/internal/database"
	"github.com/Demilade/Kudi/internal/kafka"
	"github.com/Demilade/Kudi/internal/logger"
	"github.com/Demilade/Kudi/internal/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.New(cfg.Observability)
	defer loggerService.Shutdown()
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	log.Info().Msg("Starting balance worker...")

	db, err := database.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	redisClient, err := redis.New(&log, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	consumer, err := kafka.NewConsumer(kafka.DefaultConfig(cfg.Kafka.Brokers), &log, kafka.GroupBalanceWorker, kafka.TopicBalanceUpdate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka consumer")
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Run(ctx, balanceHandler(db, redisClient, &log)); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("consumer stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down balance worker...")
	cancel()

	log.Info().Msg("Balance worker shutdown complete")
}
