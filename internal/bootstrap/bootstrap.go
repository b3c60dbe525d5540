// Package bootstrap provides dependency initialization for the UGC API.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/arnshyz/UGC/internal/config"
	"github.com/arnshyz/UGC/internal/dispatch"
	"github.com/arnshyz/UGC/internal/freepik"
	"github.com/arnshyz/UGC/internal/generator"
	"github.com/arnshyz/UGC/internal/poll"
	"github.com/arnshyz/UGC/internal/script"
	"github.com/arnshyz/UGC/internal/session"
	"github.com/arnshyz/UGC/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	SessionService *session.Service
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	// Relay candidates are tried before the direct API so a configured
	// proxy takes precedence but never becomes a single point of failure.
	candidates := []string{}
	if cfg.FreepikRelayBaseURL != "" {
		candidates = append(candidates, cfg.FreepikRelayBaseURL)
	}
	candidates = append(candidates, freepik.DirectBaseURL)

	client, err := freepik.NewClient(cfg.FreepikAPIKey,
		freepik.WithImageTarget(dispatch.NewTarget(candidates...)),
		freepik.WithVideoTarget(dispatch.NewTarget(candidates...)),
		freepik.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create Freepik client: %w", err)
	}

	poller := poll.New(
		poll.WithInterval(cfg.PollInterval),
		poll.WithMaxAttempts(cfg.PollMaxAttempts),
		poll.WithLogger(logger),
	)

	repo, err := initRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{}

	if cfg.ScriptsEnabled() {
		writer, err := script.NewGeminiWriter(ctx, cfg.GeminiAPIKey,
			script.WithModel(cfg.GeminiModel),
			script.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create script writer: %w", err)
		}
		opts = append(opts, session.WithScriptWriter(writer))
		logger.Info("scene scripts enabled",
			slog.String("model", cfg.GeminiModel),
		)
	}

	archive, err := initArchive(cfg, logger)
	if err != nil {
		return nil, err
	}
	opts = append(opts, session.WithArchive(archive))

	svc := session.NewService(repo, generator.NewFreepikAdapter(client), poller, logger, opts...)

	return &Dependencies{
		SessionService: svc,
	}, nil
}

// initRepository creates the session store based on configuration.
func initRepository(cfg *config.Config, logger *slog.Logger) (session.Repository, error) {
	if cfg.RedisEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		logger.Info("redis session store configured",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		return session.NewRedisRepository(client), nil
	}

	logger.Info("in-memory session store configured")
	return session.NewMemoryRepository(), nil
}

// initArchive creates the video archive backend based on configuration.
func initArchive(cfg *config.Config, logger *slog.Logger) (storage.Archive, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		archive, err := storage.NewS3Archive(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 archive: %w", err)
		}
		logger.Info("S3 video archive configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return archive, nil
	}

	archive, err := storage.NewLocalArchive(cfg.ArchiveDir)
	if err != nil {
		return nil, fmt.Errorf("create local archive: %w", err)
	}
	logger.Info("local video archive configured",
		slog.String("dir", cfg.ArchiveDir),
	)
	return archive, nil
}
