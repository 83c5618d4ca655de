// Package main is the entry point for the RV Logbook Telegram bot.
// Its sole responsibility is wiring dependencies together and starting the
// update loop, the daily notifier, and the operational HTTP server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/jmhodges/clock"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/rv-logbook-bot/internal/bot"
	"github.com/pkordes/rv-logbook-bot/internal/config"
	"github.com/pkordes/rv-logbook-bot/internal/notifier"
	"github.com/pkordes/rv-logbook-bot/internal/ops"
	"github.com/pkordes/rv-logbook-bot/internal/repo"
	"github.com/pkordes/rv-logbook-bot/internal/service"
	"github.com/pkordes/rv-logbook-bot/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// goose needs a database/sql handle, not a pgx pool.
	if err := runMigrations(context.Background(), cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Repositories and services ----------------------------------------
	clk := clock.New()
	loc := cfg.Location()

	reminderRepo := repo.NewReminderRepo(pool)
	dailyRepo := repo.NewDailyRecordRepo(pool)
	odometerRepo := repo.NewOdometerRepo(pool)
	maintenanceRepo := repo.NewMaintenanceRepo(pool)
	fuelRepo := repo.NewFuelRepo(pool)

	oracle := service.NewOdometerOracle(odometerRepo)
	reminderSvc := service.NewReminderService(reminderRepo, oracle, clk, loc)
	logbookSvc := service.NewLogbookService(dailyRepo, odometerRepo, maintenanceRepo, fuelRepo, clk, loc)

	// --- Notifier and bot -------------------------------------------------
	// The bot is the notifier's sender and the notifier is the bot's chat
	// registrar, so the notifier is built with a nil sender first and the
	// bot is plugged in right after.
	ntf := notifier.New(logbookSvc, nil, clk, loc, cfg.ReminderTime, cfg.ChatID, logger)

	tgBot, err := bot.New(cfg.TelegramToken, reminderSvc, logbookSvc, ntf, clk, loc, logger)
	if err != nil {
		slog.Error("failed to start telegram bot", "error", err)
		os.Exit(1)
	}
	ntf.SetSender(tgBot)

	// --- Ops server -------------------------------------------------------
	opsSrv := ops.New(cfg.OpsPort, pool, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ops server error", "error", err)
			os.Exit(1)
		}
	}()
	go ntf.Run(ctx)

	go func() {
		slog.Info("bot starting")
		tgBot.Run(ctx)
	}()

	// Graceful shutdown: wait for OS signal, stop the update loop and the
	// notifier, then drain the ops server.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	slog.Info("shutting down")

	tgBot.Stop()
	ntf.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("stopped")
}

func runMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return err
	}
	return nil
}
