package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	ledgerapp "github.com/sarafi/backend/internal/application/ledger"
	reportapp "github.com/sarafi/backend/internal/application/report"
	transferapp "github.com/sarafi/backend/internal/application/transfer"
	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/infrastructure/config"
	"github.com/sarafi/backend/internal/infrastructure/event"
	"github.com/sarafi/backend/internal/infrastructure/logger"
	"github.com/sarafi/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

const reconcileInterval = time.Hour

// defaultCurrencies is the reference data seeded on first start
var defaultCurrencies = []struct {
	code      string
	name      string
	precision int32
}{
	{"USD", "US Dollar", 2},
	{"EUR", "Euro", 2},
	{"AFN", "Afghan Afghani", 2},
	{"PKR", "Pakistani Rupee", 0},
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting sarafi ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env))

	// Connect to the database with SQL logging routed through zap
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seedCurrencies(ctx, db, log); err != nil {
		log.Fatal("Failed to seed currencies", zap.Error(err))
	}

	// Event bus with a wildcard handler that logs every domain event
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = eventBus.Stop(context.Background())
	}()

	app := buildApp(db, eventBus, log)

	// Periodic reconciliation of completed transfers against their credits
	go runReconciliation(ctx, app.Reports, log)

	log.Info("Ledger core ready")
	<-ctx.Done()
	log.Info("Shutting down")

	_ = os.Stdout.Sync()
}

// App holds the wired application services. The ledger core is consumed
// in-process; there is no network listener.
type App struct {
	Accounts  *ledgerapp.AccountService
	Transfers *transferapp.TransferService
	Reports   *reportapp.ReportService
}

func buildApp(db *persistence.Database, eventBus *event.InMemoryEventBus, log *zap.Logger) *App {
	accounts := ledgerapp.NewAccountService(
		persistence.NewGormUnitOfWork(db.DB),
		persistence.NewGormAccountRepository(db.DB),
		persistence.NewGormAuditEntryRepository(db.DB),
		log,
	)
	accounts.SetEventPublisher(eventBus)

	// The sequence repository stays on the root handle so reference number
	// reservations commit independently of the transfer transaction.
	transfers := transferapp.NewTransferService(
		persistence.NewGormTransferUnitOfWork(db.DB),
		persistence.NewGormTransferRepository(db.DB),
		persistence.NewGormSequenceRepository(db.DB),
		log,
	)
	transfers.SetEventPublisher(eventBus)

	reports := reportapp.NewReportService(
		persistence.NewGormReportRepository(db.DB),
		log,
	)

	return &App{Accounts: accounts, Transfers: transfers, Reports: reports}
}

// seedCurrencies inserts the default currency reference data, skipping codes
// that already exist.
func seedCurrencies(ctx context.Context, db *persistence.Database, log *zap.Logger) error {
	repo := persistence.NewGormCurrencyRepository(db.DB)
	for _, c := range defaultCurrencies {
		if _, err := repo.FindByCode(ctx, c.code); err == nil {
			continue
		}
		currency, err := ledger.NewCurrency(c.code, c.name, c.precision)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, currency); err != nil {
			return err
		}
		log.Info("Seeded currency", zap.String("code", c.code))
	}
	return nil
}

func runReconciliation(ctx context.Context, reports *reportapp.ReportService, log *zap.Logger) {
	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rec, err := reports.ReconcileCompletedTransfers(ctx)
			if err != nil {
				log.Error("Reconciliation failed", zap.Error(err))
				continue
			}
			log.Info("Reconciliation run",
				zap.String("completed_amount", rec.CompletedAmount.String()),
				zap.String("credited_amount", rec.CreditedAmount.String()),
				zap.Bool("balanced", rec.Balanced()))
		}
	}
}
