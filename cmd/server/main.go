package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/onbeventi/internal/auth"
	"github.com/mmynk/onbeventi/internal/backup"
	"github.com/mmynk/onbeventi/internal/clock"
	"github.com/mmynk/onbeventi/internal/config"
	"github.com/mmynk/onbeventi/internal/describe"
	"github.com/mmynk/onbeventi/internal/metrics"
	"github.com/mmynk/onbeventi/internal/middleware"
	"github.com/mmynk/onbeventi/internal/notify"
	"github.com/mmynk/onbeventi/internal/repository"
	"github.com/mmynk/onbeventi/internal/service"
	"github.com/mmynk/onbeventi/internal/settings"
	"github.com/mmynk/onbeventi/internal/storage"
	"github.com/mmynk/onbeventi/internal/storage/memory"
	"github.com/mmynk/onbeventi/internal/storage/postgres"
	"github.com/mmynk/onbeventi/internal/storage/sqlite"
	"github.com/mmynk/onbeventi/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	hashPassword := flag.Bool("hash-password", false, "read a password from stdin and print its bcrypt hash for ADMIN_PASSWORD_HASH")
	flag.Parse()

	if *hashPassword {
		if err := printPasswordHash(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info")
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func printPasswordHash() error {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read password: %w", err)
	}
	hash, err := auth.HashPassword(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func run(ctx context.Context, cfg *config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.NewSystem(loc)
	m := metrics.New()

	kv, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	publisher, closePublisher := openPublisher(cfg)
	defer closePublisher()

	repo := repository.New(storage.NewEventStore(kv), clk,
		repository.WithPublisher(publisher),
		repository.WithMetrics(m),
	)
	count := repo.Load(ctx)
	slog.Info("Events loaded", "count", count, "backend", cfg.DataBackend)

	keys := settings.New(kv, cfg.GeminiAPIKey)
	if _, source := keys.Resolve(ctx); source == settings.SourceNone {
		slog.Warn("No API key configured, description generation is disabled until one is set")
	}
	generator := describe.NewGenerator(keys, describe.GeminiFactory(cfg.GeminiModel),
		describe.WithTimeout(cfg.DescribeTimeout),
		describe.WithMetrics(m),
	)

	var jwtManager *auth.JWTManager
	var authenticator auth.Authenticator
	if cfg.AuthEnabled() {
		authenticator, err = auth.NewAdminAuthenticator(cfg.AdminPasswordHash)
		if err != nil {
			return err
		}
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
		slog.Info("Access protection enabled", "token_ttl", cfg.TokenTTL)
	}
	rpcOptions := connect.WithInterceptors(middleware.Interceptors(m, jwtManager, service.LoginProcedure)...)

	mux := http.NewServeMux()

	eventPath, eventHandler := service.NewEventService(repo, generator, clk).Handler(rpcOptions)
	mux.Handle(eventPath, eventHandler)

	settingsPath, settingsHandler := service.NewSettingsService(keys).Handler(rpcOptions)
	mux.Handle(settingsPath, settingsHandler)

	if authenticator != nil {
		authPath, authHandler := service.NewAuthService(authenticator, jwtManager, slog.Default()).Handler(rpcOptions)
		mux.Handle(authPath, authHandler)
	}

	mux.Handle(service.CalendarPath, service.CalendarHandler(repo, loc, clk, jwtManager))
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", healthHandler(kv))

	static, err := staticHandler(cfg.StaticPath)
	if err != nil {
		return err
	}
	mux.Handle("/", static)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Connect server starting", "address", server.Addr, "url", "http://localhost:"+cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.BackupCron != "" {
		snapshots := backup.NewSnapshotter(repo, cfg.BackupDir, cfg.BackupKeep, clk, m)
		scheduler, err := backup.Schedule(cfg.BackupCron, loc, snapshots)
		if err != nil {
			return err
		}
		g.Go(func() error { return scheduler.Run(ctx) })
	}

	return g.Wait()
}

// openStore opens the key-value backend named by the configuration.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		return memory.New(), nil
	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", "postgres")
		return store, nil
	default:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)
		return store, nil
	}
}

// openPublisher connects to the broker when one is configured. A broker that
// cannot be reached is logged and replaced by a no-op publisher.
func openPublisher(cfg *config.Config) (notify.Publisher, func()) {
	if cfg.AMQPURL == "" {
		return notify.Nop{}, func() {}
	}
	publisher, err := notify.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		slog.Error("Failed to connect to AMQP, change notifications disabled", "error", err)
		return notify.Nop{}, func() {}
	}
	slog.Info("Change notifications enabled", "exchange", cfg.AMQPExchange)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("Failed to close AMQP connection", "error", err)
		}
	}
}
