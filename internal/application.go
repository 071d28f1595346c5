package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/arcade-backend/internal/config"
	"github.com/rocketscienceinc/arcade-backend/internal/repository"
	"github.com/rocketscienceinc/arcade-backend/internal/repository/storage"
	"github.com/rocketscienceinc/arcade-backend/internal/usecase"
	"github.com/rocketscienceinc/arcade-backend/transport/rest"
	"github.com/rocketscienceinc/arcade-backend/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage driver")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	statisticsRepo, closer, err := openStatistics(ctx, conf.Storage)
	if err != nil {
		return err
	}

	defer func() {
		if err = closer.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	log.Info("Statistics storage ready", "driver", conf.Storage.Driver)

	statistics := usecase.NewStatistics(logger, statisticsRepo)
	manager := usecase.NewManager(usecase.Dependencies{
		Logger:  logger,
		Timing:  conf.Timing,
		Weights: conf.Weights,
		Stats:   statistics,
	})
	defer manager.Shutdown()

	wsServer := websocket.New(logger, manager)
	manager.SetNotifier(wsServer)

	restServer := rest.New(logger, rest.NewHandlers(logger, statistics))

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStatistics connects the configured statistics backend.
func openStatistics(ctx context.Context, conf config.Storage) (repository.StatisticsRepository, io.Closer, error) {
	switch conf.Driver {
	case config.StorageMemory, "":
		return repository.NewMemoryStatistics(), nopCloser{}, nil
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewRedisStatistics(redisStorage), redisStorage, nil
	case config.StorageSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return repository.NewSQLiteStatistics(sqliteStorage.Connection), sqliteStorage, nil
	}

	return nil, nil, fmt.Errorf("%w: %s", ErrUnknownStorage, conf.Driver)
}
