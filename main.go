package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"bookie/config"
	"bookie/database"
	"bookie/domain/entities"
	"bookie/domain/interfaces"
	"bookie/domain/services"
	"bookie/infrastructure"
	"bookie/repository"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage())
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = handleServe()
	case "migrate":
		err = handleMigrationCommand()
	case "create-account":
		err = handleCreateAccount()
	case "add-balance":
		err = handleAddBalance()
	case "reconcile":
		err = handleReconcile()
	default:
		err = fmt.Errorf("unknown command %q\n%s", os.Args[1], usage())
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() string {
	return `usage: bookie <command>

commands:
  serve                               run the settlement consumer and event relay
  migrate up|down [steps]|status      manage database schema
  create-account <id> <role> [parent] provision an account
  add-balance <from> <to> <amount>    transfer balance down the hierarchy
  reconcile <account-id>              compare an account balance to its ledger sum`
}

// handleServe runs the long-lived process: domain events are flushed to
// JetStream after each commit and settlement requests from the judging
// process are consumed off the bus.
func handleServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()

	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return err
	}
	defer natsClient.Close()

	publisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureDomainEventStream(); err != nil {
		return err
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNATSTransactionalPublisher(publisher)
	})
	couponService := services.NewCouponService(uowFactory, services.CouponSettings{
		CommissionRate: cfg.CommissionRate,
		MinStake:       cfg.MinStake,
		MaxStake:       cfg.MaxStake,
	})

	consumer := infrastructure.NewSettlementConsumer(natsClient, couponService)
	return consumer.Start(ctx)
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: bookie migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

func handleCreateAccount() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: bookie create-account account-id role [parent-id]")
	}

	account := &entities.Account{
		ID:      os.Args[2],
		Role:    entities.Role(os.Args[3]),
		Balance: decimal.Zero,
		Credit:  decimal.Zero,
	}
	if len(os.Args) > 4 {
		parentID := os.Args[4]
		account.ParentID = &parentID
	}

	ctx := context.Background()
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.NewAccountRepository(db).Create(ctx, account); err != nil {
		return err
	}
	fmt.Printf("created %s account %s\n", account.Role, account.ID)
	return nil
}

func handleAddBalance() error {
	if len(os.Args) < 5 {
		return fmt.Errorf("usage: bookie add-balance from-id to-id amount")
	}
	amount, err := decimal.NewFromString(os.Args[4])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", os.Args[4], err)
	}

	ctx := context.Background()
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// Admin commands skip the event bus
	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNoopEventPublisher()
	})
	balanceService := services.NewBalanceService(uowFactory)

	account, err := balanceService.AddBalance(ctx, os.Args[2], os.Args[3], amount, "manual adjustment")
	if err != nil {
		return err
	}
	fmt.Printf("account %s balance is now %s\n", account.ID, account.Balance)
	return nil
}

func handleReconcile() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: bookie reconcile account-id")
	}

	ctx := context.Background()
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNoopEventPublisher()
	})
	ledgerService := services.NewLedgerService(uowFactory)

	report, err := ledgerService.Reconcile(ctx, os.Args[2])
	if err != nil {
		return err
	}
	if report.Consistent() {
		fmt.Printf("account %s is consistent: balance %s matches ledger sum\n", report.AccountID, report.Balance)
		return nil
	}
	return fmt.Errorf("account %s drifted: balance %s, ledger sum %s, drift %s",
		report.AccountID, report.Balance, report.LedgerSum, report.Drift)
}

func connect(ctx context.Context) (*database.DB, error) {
	cfg := config.Get()
	return database.NewConnection(ctx, cfg.GetDatabaseURL())
}
