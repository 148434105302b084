package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pmlbot/internal/config"
	"pmlbot/internal/logging"
	"pmlbot/internal/publisher"
	"pmlbot/internal/roster"
	"pmlbot/internal/scheduler"
	"pmlbot/internal/service"
	"pmlbot/internal/source/reddit"
	"pmlbot/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootstrap.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(cfg.Logging, cfg.LogLevel, cfg.Scan.Verbose)
	if err != nil {
		bootstrap.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	// Player and team lists are required; bail before touching the store.
	ros, err := roster.Load(cfg.Files.Players, cfg.Files.Teams, cfg.Leaderboard.Posts)
	if err != nil {
		logger.Error("failed to load roster", "error", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Reddit client
	client := reddit.New(reddit.Config{
		BaseURL:        cfg.Reddit.BaseURL,
		UserAgent:      cfg.Reddit.UserAgent,
		Timeout:        cfg.Reddit.Timeout,
		MaxAttempts:    cfg.Reddit.Retry.MaxAttempts,
		InitialBackoff: cfg.Reddit.Retry.InitialBackoff,
		MaxBackoff:     cfg.Reddit.Retry.MaxBackoff,
	}, logger)

	if err := client.Login(ctx, cfg.Reddit.Username, cfg.Reddit.Password); err != nil {
		logger.Error("failed to log in", "error", err)
		os.Exit(1)
	}

	// Initialize optional RabbitMQ publisher
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	// Initialize stores
	scoreStore := postgres.NewScoreStore(db)
	txManager := postgres.NewTransactionManager(db)

	scanService := service.NewScanService(
		client,
		scoreStore,
		txManager,
		pub,
		ros,
		logger,
		cfg.Scan,
	)

	leaderboardService := service.NewLeaderboardService(
		client,
		scoreStore,
		ros,
		logger,
		clockwork.NewRealClock(),
		cfg.Leaderboard,
	)

	if cfg.Metrics.ListenAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics listening", "addr", cfg.Metrics.ListenAddr)
			if err := http.ListenAndServe(cfg.Metrics.ListenAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	sched := scheduler.NewScheduler(scanService, leaderboardService, cfg.Scan.Interval, logger)

	logger.Info("starting pml stats bot",
		"players", len(ros.Players),
		"teams", len(ros.Teams),
		"interval", cfg.Scan.Interval,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}
