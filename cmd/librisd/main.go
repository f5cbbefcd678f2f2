// Command librisd runs the library loan tracking server.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/libris-project/libris/catalog"
	"github.com/libris-project/libris/config"
	"github.com/libris-project/libris/directory"
	"github.com/libris-project/libris/httpapi"
	"github.com/libris-project/libris/storage"
	"github.com/libris-project/libris/storage/mysqlengine"
	"github.com/libris-project/libris/storage/postgresengine"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		listenAddr string
		engine     string
	)

	rootCmd := &cobra.Command{
		Use:           "librisd",
		Short:         "librisd tracks a library's books, people and loans",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), listenAddr, engine)
		},
	}

	rootCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "address the HTTP server listens on")
	rootCmd.Flags().StringVar(&engine, "engine", "postgres", "storage engine: postgres or mysql")

	return rootCmd
}

func run(ctx context.Context, listenAddr, engine string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	books, people, closeGateway, err := buildGateways(ctx, engine, logger)
	if err != nil {
		logger.Error("failed to set up storage", "error", err.Error())
		return err
	}
	defer closeGateway()

	catalogService := catalog.NewService(books, people, catalog.WithLogger(slogAdapter{logger}))
	directoryService := directory.NewService(people, books)

	server := &http.Server{
		Addr:              listenAddr,
		Handler:           httpapi.NewServer(catalogService, directoryService, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		logger.Info("server listening", "addr", listenAddr, "engine", engine)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err

	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}

// buildGateways connects to the selected storage engine and returns the two
// gateway sides plus a close function for the underlying pool.
func buildGateways(ctx context.Context, engine string, logger *slog.Logger) (
	storage.BookGateway,
	storage.PersonGateway,
	func(),
	error,
) {

	switch engine {
	case "postgres":
		poolConfig, err := config.PostgresPoolConfig(config.PostgresDSN())
		if err != nil {
			return nil, nil, nil, err
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, nil, err
		}

		gateway, err := postgresengine.NewGatewayFromPGXPool(pool, postgresengine.WithLogger(slogAdapter{logger}))
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}

		return gateway.Books(), gateway.People(), pool.Close, nil

	case "mysql":
		db, err := sql.Open("mysql", config.MySQLDSN())
		if err != nil {
			return nil, nil, nil, err
		}

		config.TuneSQLDB(db)

		gateway, err := mysqlengine.NewGatewayFromSQLDB(db, mysqlengine.WithLogger(slogAdapter{logger}))
		if err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}

		return gateway.Books(), gateway.People(), func() { _ = db.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage engine %q", engine)
	}
}

// slogAdapter bridges *slog.Logger to the storage.Logger interface.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Debug(msg string, args ...any) { a.logger.Debug(msg, args...) }
func (a slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
