package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Demilade/Kudi/internal/config"
	"github.com/Demilade/Kudi/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

func New(cfg *config.Config, log *zerolog.Logger, ls *logger.LoggerService) (*Database, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	poolCfg.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	// Query tracing in development only; the tracelog adapter is noisy
	if !cfg.Observability.IsProduction() {
		pgxLog := logger.NewPgxLogger(zerolog.DebugLevel)
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxZerologAdapter{log: pgxLog},
			LogLevel: tracelog.LogLevel(logger.GetPgxTraceLogLevel(zerolog.DebugLevel)),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Msg("Connected to Postgres successfully")

	return &Database{Pool: pool, log: log}, nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

func (d *Database) Close() {
	d.log.Info().Msg("Closing database connection pool")
	d.Pool.Close()
}

// pgxZerologAdapter satisfies tracelog.Logger using a zerolog logger.
type pgxZerologAdapter struct {
	log zerolog.Logger
}

func (a pgxZerologAdapter) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var event *zerolog.Event
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		event = a.log.Debug()
	case tracelog.LogLevelInfo:
		event = a.log.Info()
	case tracelog.LogLevelWarn:
		event = a.log.Warn()
	default:
		event = a.log.Error()
	}
	event.Fields(data).Msg(msg)
}
