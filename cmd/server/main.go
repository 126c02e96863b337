// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tasktrack/internal/config"
	"tasktrack/internal/database"
	"tasktrack/internal/handlers"
	"tasktrack/internal/jobs"
	"tasktrack/internal/middleware"
	"tasktrack/internal/repository"
	"tasktrack/internal/service"
	"tasktrack/pkg/auth"
	"tasktrack/pkg/email"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.Server.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("[INFO] Database migrations applied")
	}

	tokenManager := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)
	passwordManager := auth.NewPasswordManager()

	emailService := buildEmailService(cfg)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)

	queue := jobs.NewQueue(cfg.Jobs.Workers, cfg.Jobs.QueueSize)
	queue.Start()
	defer queue.Stop()

	dispatcher := service.NewDispatcher(queue, emailService)

	taskService := service.NewTaskService(taskRepo, categoryRepo, tagRepo, userRepo, dispatcher)
	categoryService := service.NewCategoryService(categoryRepo)
	userService := service.NewUserService(userRepo, passwordManager, tokenManager)
	exportService := service.NewExportService(userRepo, taskRepo, emailService)
	reminderService := service.NewReminderService(taskRepo, emailService)

	scheduler := jobs.NewScheduler(time.UTC)
	_, err = scheduler.ScheduleDaily(cfg.Jobs.ReminderTime, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		sent, err := reminderService.SendDueTomorrowReminders(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("[ERROR] Reminder sweep failed: %v", err)
			return
		}
		log.Printf("[INFO] Reminder sweep sent %d reminders", sent)
	})
	if err != nil {
		log.Fatalf("Failed to schedule reminder sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	authMW := middleware.NewAuthMiddleware(tokenManager)
	api := handlers.New(
		taskService,
		categoryService,
		userService,
		exportService,
		tagRepo,
		queue,
		cfg.Server.PageSize,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      api.Router(authMW),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[INFO] Server listening on port %s (environment: %s)", cfg.Server.HTTPPort, cfg.Server.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[INFO] Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Server shutdown: %v", err)
	}
	log.Println("[INFO] Server stopped")
}

// buildEmailService selects the real SMTP sender, or the in-memory mock
// when testing mode is on or no SMTP credentials are configured in
// development.
func buildEmailService(cfg *config.Config) email.EmailService {
	if cfg.Email.TestingMode || (cfg.IsDevelopment() && cfg.Email.SMTPUsername == "") {
		log.Println("[INFO] Using mock email service")
		return email.NewMockEmailService()
	}

	svc := email.NewSMTPEmailService(&email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		AppName:      cfg.Email.FromName,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.TestConnection(ctx); err != nil {
		log.Printf("[ERROR] SMTP connection test failed: %v", err)
	}
	return svc
}
