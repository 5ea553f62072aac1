package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/config"
	"github.com/niche/rfp-tracker/internal/core"
	"github.com/niche/rfp-tracker/internal/factory"
	"github.com/niche/rfp-tracker/internal/ingest"
	"github.com/niche/rfp-tracker/internal/logging"
)

var (
	// Mail source flags
	mailSource  = flag.String("mail-source", "cli", "Mail source (cli, imap)")
	mailCommand = flag.String("mail-command", "himalaya", "CLI mail client binary")
	accounts    = flag.String("accounts", "", "Comma-separated list of mail accounts to scan")
	pageSize    = flag.Int("page-size", 100, "Maximum envelopes to list per account")

	// Storage flags
	storageType = flag.String("storage", "sqlite", "Storage backend (memory, sqlite, mysql)")
	sqlitePath  = flag.String("sqlite-path", "./data/rfp_tracker.db", "Path to the SQLite database file")
	mysqlDSN    = flag.String("mysql-dsn", "", "MySQL DSN (used when storage is mysql)")

	// Logging flags
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")

	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.NewFromFile(*configFile)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	mail := cfg.GetMail()
	if len(mail.Accounts) == 0 {
		logger.Fatal("No mail accounts configured; set mail.accounts or pass -accounts")
	}

	// Assemble the store, service and mail source
	storeFactory := factory.NewStoreFactory(cfg, logger)
	repo, err := storeFactory.CreateRepository()
	if err != nil {
		logger.Fatal("Failed to create record store", zap.Error(err))
	}

	notifierFactory := factory.NewNotifierFactory(cfg, logger)
	notifier, err := notifierFactory.CreateNotifier()
	if err != nil {
		logger.Fatal("Failed to create notifier", zap.Error(err))
	}

	service := core.NewRFPService(repo, notifier, logger)

	mailFactory := factory.NewMailSourceFactory(cfg, logger)
	source, err := mailFactory.CreateMailSource()
	if err != nil {
		logger.Fatal("Failed to create mail source", zap.Error(err))
	}

	ingestor := ingest.NewIngestor(source, service, logger)

	fmt.Printf("=== RFP Finder ===\n")
	fmt.Printf("Mail source: %s\n", mail.Source)
	fmt.Printf("Accounts: %s\n", strings.Join(mail.Accounts, ", "))
	fmt.Printf("Page size: %d\n\n", mail.PageSize)

	startTime := time.Now()
	report := ingestor.Run(context.Background(), mail.Accounts, mail.PageSize)
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	for _, ar := range report.Accounts {
		fmt.Printf("%s: scanned %d emails, found %d RFPs\n", ar.Account, ar.Scanned, ar.Found)
	}
	fmt.Printf("Total RFPs found: %d\n", report.Total)
	fmt.Printf("Processing time: %v\n", duration)

	// Close any resources that need closing
	if closer, ok := source.(interface{ Close() }); ok {
		closer.Close()
	}
	if stopper, ok := repo.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("mail.source", *mailSource)
	v.Set("mail.command", *mailCommand)
	v.Set("mail.page_size", *pageSize)
	if *accounts != "" {
		names := strings.Split(*accounts, ",")
		for i, name := range names {
			names[i] = strings.TrimSpace(name)
		}
		v.Set("mail.accounts", names)
	}

	v.Set("storage.type", *storageType)
	v.Set("storage.sqlite_path", *sqlitePath)
	if *mysqlDSN != "" {
		v.Set("storage.mysql_dsn", *mysqlDSN)
	}

	// The finder always alerts via the log
	v.Set("alerts.type", "log")

	return config.NewFromViper(v)
}
