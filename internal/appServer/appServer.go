package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eventdesk/eventdesk/config"
	repository "github.com/eventdesk/eventdesk/internal/database/postgres"
	redisCache "github.com/eventdesk/eventdesk/internal/database/redis"
	"github.com/eventdesk/eventdesk/internal/service"
	"github.com/eventdesk/eventdesk/internal/transport"
	"github.com/eventdesk/eventdesk/internal/worker"
	"github.com/eventdesk/eventdesk/pkg/postgres"
	"github.com/eventdesk/eventdesk/pkg/rabbitmq"
	"github.com/eventdesk/eventdesk/pkg/redis"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize event cache
	var eventCache service.EventCache
	if cfg.Redis.Host != "" {
		redisClient, err := redis.NewRedisClient(context.Background(), &cfg.Redis)
		if err != nil {
			logrus.Errorf("Failed to connect to Redis: %v. Continuing without event cache...", err)
		} else {
			defer redisClient.Close()
			eventCache = redisCache.NewEventCache(redisClient, cfg.App.CacheTTL)
			logrus.Info("Event cache initialized")
		}
	} else {
		logrus.Warn("Redis host not provided, event cache disabled")
	}

	// Initialize notification dispatch queue
	var publisher service.Publisher
	if cfg.Rabbit.Enabled && cfg.Rabbit.URL != "" {
		rabbitPublisher, err := rabbitmq.NewPublisher(rabbitmq.Config{
			URL:       cfg.Rabbit.URL,
			QueueName: cfg.Rabbit.QueueName,
		})
		if err != nil {
			logrus.Errorf("Failed to initialize RabbitMQ publisher: %v. Continuing without dispatch queue...", err)
		} else {
			defer rabbitPublisher.Close()
			publisher = rabbitPublisher
			logrus.Info("Notification dispatch queue initialized")
		}
	} else {
		logrus.Warn("RabbitMQ disabled, notification dispatch queue off")
	}

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, publisher)
	registrationService := service.NewRegistrationService(registrationRepo, eventRepo, userRepo, notificationService, eventCache)
	eventService := service.NewEventService(eventRepo, registrationRepo, notificationService, eventCache)
	userService := service.NewUserService(userRepo)

	// Initialize and start reminder worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reminderWorker := worker.NewReminderWorker(
		eventRepo, registrationRepo, notificationRepo, notificationService,
		cfg.Worker.ReminderInterval, cfg.Worker.ReminderWindow,
	)
	go reminderWorker.Start(ctx)

	// Initialize handlers
	eventHandler := transport.NewEventHandler(eventService)
	registrationHandler := transport.NewRegistrationHandler(registrationService)
	userHandler := transport.NewUserHandler(userService)
	notificationHandler := transport.NewNotificationHandler(notificationService)

	// Setup HTTP server
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		router := transport.InitRoutes(eventHandler, registrationHandler, userHandler, notificationHandler, cfg.Server.Timeout)
		if err := srv.Run(cfg, router); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
