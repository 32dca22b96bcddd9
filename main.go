package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"betshop/application"
	"betshop/cmd"
	"betshop/config"
	"betshop/database"
	"betshop/domain/interfaces"
	"betshop/infrastructure"
	"betshop/repository"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Check for session reconciliation subcommand
	if len(os.Args) > 1 && os.Args[1] == "reconcile" {
		if err := handleReconcile(); err != nil {
			log.Fatal("Reconcile error:", err)
		}
		return
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: betshop migrate [up|down|status] [args...]")
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

// handleReconcile recomputes one session's activity from the time-window
// association and prints the report. Read-only; safe to run against a live
// database.
func handleReconcile() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: betshop reconcile session-id")
	}
	sessionID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", os.Args[2], err)
	}

	ctx := context.Background()
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Admin commands buffer events into a publisher that never delivers
	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewTransactionalPublisher(infrastructure.NewNoopEventPublisher())
	})
	backOffice := application.NewBackOffice(uowFactory)

	report, err := backOffice.ReconcileSessionWindow(ctx, sessionID)
	if err != nil {
		return err
	}

	fmt.Printf("Session %d (worker %d)\n", report.SessionID, report.WorkerID)
	fmt.Printf("  Window:   %s .. %s\n", report.Start.Format("2006-01-02 15:04:05"), report.End.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Sales:    %d tickets, %d total\n", report.SalesCount, report.SalesTotal)
	fmt.Printf("  Payments: %d payouts, %d total\n", report.PaymentsCount, report.PaymentsTotal)
	fmt.Printf("  System float: %d\n", report.SystemFloat)
	return nil
}
