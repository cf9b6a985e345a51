package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/flexcredit/loan-engine/internal/config"
	"github.com/flexcredit/loan-engine/internal/repository"
	"github.com/flexcredit/loan-engine/pkg/utils"
)

func main() {
	log.Println("Starting loan scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	loanRepo := repository.NewLoanRepository(db)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	setupCronJobs(c, cfg, loanRepo)

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, loanRepo repository.LoanRepository) {
	// Daily overdue installment report (runs at midnight)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		reportOverdueInstallments(loanRepo)
	})
	if err != nil {
		log.Printf("Error scheduling overdue installment report job: %v", err)
	}

	// Daily upcoming due date reminders (runs at 9 AM)
	_, err = c.AddFunc("0 0 9 * * *", func() {
		sendDueDateReminders(loanRepo, cfg.Scheduler.ReminderLookahead)
	})
	if err != nil {
		log.Printf("Error scheduling due date reminder job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func reportOverdueInstallments(loanRepo repository.LoanRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	installments, err := loanRepo.GetOverdueInstallments(ctx, time.Now())
	if err != nil {
		log.Printf("Overdue installment report failed: %v", err)
		return
	}

	log.Printf("Overdue installment report: %d unpaid installments past due", len(installments))
	for _, installment := range installments {
		log.Printf("  loan %s: %s %s due %s (status %s)",
			installment.LoanID,
			utils.DisplayAmount(installment.OutstandingAmount, installment.CurrencyCode),
			installment.CurrencyCode,
			installment.DueDate.Format("2006-01-02"),
			installment.Status,
		)
	}
}

func sendDueDateReminders(loanRepo repository.LoanRepository, lookaheadDays int) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()
	installments, err := loanRepo.GetInstallmentsDueBetween(ctx, now, now.AddDate(0, 0, lookaheadDays))
	if err != nil {
		log.Printf("Due date reminder job failed: %v", err)
		return
	}

	for _, installment := range installments {
		// TODO: deliver through the notification channel once one exists;
		// the log line stands in for it.
		log.Printf("Reminder: loan %s has %s %s due on %s",
			installment.LoanID,
			utils.DisplayAmount(installment.Amount, installment.CurrencyCode),
			installment.CurrencyCode,
			installment.DueDate.Format("2006-01-02"),
		)
	}
}
