package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-management-platform/internal/clock"
	"event-management-platform/internal/config"
	"event-management-platform/internal/database"
	"event-management-platform/internal/handlers"
	"event-management-platform/internal/middleware"
	"event-management-platform/internal/repositories"
	"event-management-platform/internal/scheduler"
	"event-management-platform/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	bookingRepo := repositories.NewBookingRepository(db.DB)
	resourceRepo := repositories.NewResourceRepository(db.DB)
	notificationRepo := repositories.NewNotificationRepository(db.DB)

	clk := clock.NewSystem()

	// Initialize services
	var emailSender services.EmailSender
	if cfg.Server.Env == "development" {
		emailSender = services.NewMockEmailService()
	} else {
		emailSender = services.NewSMTPEmailService(services.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUser,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromEmail:    cfg.Email.FromEmail,
			FromName:     cfg.Email.FromName,
		})
	}

	notificationService := services.NewNotificationService(notificationRepo, userRepo, emailSender, clk)
	ledger := services.NewTicketLedger(eventRepo)
	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo, bookingRepo, notificationService, clk)
	bookingService := services.NewBookingService(
		bookingRepo, eventRepo, userRepo, ledger, notificationService, clk,
		cfg.Booking.HoldDuration, cfg.Booking.DefaultMaxTicketsPerUser,
	)
	resourceService := services.NewResourceService(resourceRepo, eventRepo, notificationService, clk)

	// Start the background sweeps
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(
		bookingService, eventRepo, bookingRepo, notificationService, notificationService, clk,
		scheduler.Config{
			ExpiryInterval:   cfg.Scheduler.ExpiryInterval,
			ReminderInterval: cfg.Scheduler.ReminderInterval,
			ReminderLeadTime: cfg.Scheduler.ReminderLeadTime,
		},
	)
	go sched.Start(ctx)

	// Wire up HTTP
	router := handlers.NewRouter(handlers.Services{
		Events:        handlers.NewEventHandler(eventService),
		Bookings:      handlers.NewBookingHandler(bookingService),
		Resources:     handlers.NewResourceHandler(resourceService),
		Users:         handlers.NewUserHandler(userService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Auth:          middleware.NewAuthMiddleware(userService),
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
