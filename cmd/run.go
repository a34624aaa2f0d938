package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"skullbot/application"
	"skullbot/bot"
	"skullbot/config"
	"skullbot/database"
	"skullbot/domain/interfaces"
	"skullbot/domain/services"
	"skullbot/i18n"
	"skullbot/infrastructure"
	"skullbot/observability"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting skullbot...")

	// Load configuration
	cfg := config.Get()

	// Initialize metrics
	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Initialize local snapshot storage
	snapshotStore, err := infrastructure.NewFileSnapshotStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	// Initialize the authoritative store when a database is configured
	var db *database.DB
	var authoritative interfaces.AuthoritativeStore
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to database...")
		db, err = database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		authoritative = infrastructure.NewPostgresSnapshotStore(db)
		log.Println("Database connection established successfully")
	} else {
		log.Println("No database configured, ledger runs on local snapshots only")
	}

	// Initialize the ledger and lottery services
	ledger := services.NewLedgerService(ctx, snapshotStore, authoritative, metrics, cfg.StartingBalance)
	registry := services.NewLotteryRegistry()
	selector := services.NewWinnerSelector()
	lotteryService := services.NewLotteryService(registry, ledger, selector, metrics, cfg.RefundOnLeave)

	printer := i18n.NewPrinter(cfg.Locale)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.GuildID,
		LotteryChannelID: cfg.LotteryChannelID,
	}
	discordBot, err := bot.New(botConfig, lotteryService, ledger, printer)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// The lottery feature renders countdowns and delivers notifications for
	// the scheduler, and the scheduler runs draws for the feature
	scheduler := application.NewDrawScheduler(lotteryService, discordBot.Lottery(), discordBot.Lottery())
	discordBot.Lottery().BindScheduler(scheduler)

	// Start the periodic ledger snapshot worker
	snapshotWorker := application.NewLedgerSnapshotWorker(ledger, snapshotStore, authoritative, cfg.SnapshotInterval)
	stopSnapshotWorker := snapshotWorker.Start(ctx)

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	stopSnapshotWorker()

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}
	if db != nil {
		log.Println("Closing database connection...")
		db.Close()
	}

	log.Println("Shutdown completed")
	return nil
}
