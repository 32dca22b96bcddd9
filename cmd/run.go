package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"betshop/application"
	"betshop/config"
	"betshop/database"
	"betshop/domain/events"
	"betshop/domain/interfaces"
	"betshop/infrastructure"
	"betshop/infrastructure/observability"
	"betshop/repository"
)

// Run initializes and starts the back-office service
func Run(ctx context.Context) error {
	log.Println("Starting betshop back office...")

	// Load configuration
	cfg := config.Get()

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize NATS
	log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	natsPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := natsPublisher.EnsureNotificationStream(); err != nil {
		return fmt.Errorf("failed to ensure notification stream: %w", err)
	}

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewTransactionalPublisher(natsPublisher)
	})
	log.Println("Unit of work factory initialized successfully")

	backOffice := application.NewBackOffice(uowFactory)

	// Local handlers give operators an in-process trace of notification
	// traffic. A close request additionally triggers the window
	// reconciliation so the approving admin sees the recomputed totals next
	// to the worker's declared float.
	natsPublisher.RegisterLocalHandler(events.EventTypeHighPayout, func(ctx context.Context, e events.Event) error {
		if hp, ok := e.(events.HighPayoutEvent); ok {
			log.Printf("High payout: ticket %d gross %d net %d (worker %d)", hp.TicketID, hp.GrossAmount, hp.NetAmount, hp.WorkerID)
		}
		return nil
	})
	natsPublisher.RegisterLocalHandler(events.EventTypeCashCloseRequested, func(ctx context.Context, e events.Event) error {
		cr, ok := e.(events.CashCloseRequestedEvent)
		if !ok {
			return nil
		}
		report, err := backOffice.ReconcileSessionWindow(ctx, cr.SessionID)
		if err != nil {
			return fmt.Errorf("failed to reconcile session %d: %w", cr.SessionID, err)
		}
		log.Printf("Close requested: session %d declared %d system %d (window sales %d payments %d)",
			cr.SessionID, cr.DeclaredFloat, cr.SystemFloat, report.SalesTotal, report.PaymentsTotal)
		return nil
	})

	// Wait for context cancellation
	log.Printf("Back office is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down back office...")

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
