package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"jastip-express/internal/activity"
	activity_api "jastip-express/internal/activity/api"
	"jastip-express/internal/auth"
	"jastip-express/internal/config"
	"jastip-express/internal/database"
	"jastip-express/internal/event"
	event_db "jastip-express/internal/event/db"
	"jastip-express/internal/event/event_api"
	"jastip-express/internal/invoice"
	"jastip-express/internal/invoice/invoice_api"
	"jastip-express/internal/kafka"
	"jastip-express/internal/logger"
	"jastip-express/internal/order"
	order_db "jastip-express/internal/order/db"
	"jastip-express/internal/order/order_api"
	"jastip-express/internal/sse"
	"jastip-express/internal/user"
	"jastip-express/internal/user/user_api"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN)))

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		sqldb.Close()
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	logger.Info("DATABASE", "✅ PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting JasTip Express initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	if err := database.Bootstrap(ctx, bunDB); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to bootstrap schema: %v", err))
	}
	logger.Info("DATABASE", "Schema bootstrap complete")

	// Activity log pipeline: handlers publish to Kafka, the consumer
	// persists. Without Kafka the recorder writes straight to Postgres.
	activityStore := &activity.DB{Bun: bunDB}
	var activityPublisher activity.Publisher
	var kafkaProducer *kafka.Producer
	var kafkaConsumer *kafka.Consumer
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()

	if cfg.Kafka.Enabled {
		logger.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{cfg.Kafka.Topic}); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}

		kafkaProducer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		activityPublisher = kafkaProducer
		defer kafkaProducer.Close()
		logger.Info("KAFKA", "Kafka producer initialized successfully")

		kafkaConsumer = kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger)
		defer kafkaConsumer.Close()
	} else {
		logger.Warn("KAFKA", "Kafka disabled, activity entries will be written directly to the database")
	}

	recorder := activity.NewRecorder(activityPublisher, activityStore, logger)
	if kafkaConsumer != nil {
		go kafkaConsumer.Start(consumerCtx, recorder.Persist)
		logger.Info("KAFKA", "Activity consumer started")
	}

	// Services
	denylist := auth.NewDenylist(redisClient)
	emitter := sse.NewOrderEventEmitter()

	eventDB := &event_db.DB{Bun: bunDB}
	orderDB := &order_db.DB{Bun: bunDB}

	eventService := event.NewEventService(eventDB, recorder)
	orderService := order.NewOrderService(orderDB, eventDB, recorder, emitter)
	userService := user.NewUserService(&user.DB{Bun: bunDB}, recorder, denylist, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	invoiceService := invoice.NewInvoiceService(orderDB, eventDB)
	shareStore := invoice.NewShareStore(redisClient, cfg.Invoice.ShareBaseURL, cfg.Invoice.ShareTokenTTL)
	pdfGenerator := invoice.NewPDFGenerator(cfg.Invoice.FontPath)

	// Handlers
	eventHandler := event_api.NewHandler(eventService, logger)
	orderHandler := order_api.NewHandler(orderService, logger)
	sseHandler := order_api.NewSSEHandler(logger, emitter)
	userHandler := user_api.NewHandler(userService, logger)
	invoiceHandler := invoice_api.NewHandler(invoiceService, pdfGenerator, shareStore, eventDB, logger)
	activityHandler := activity_api.NewHandler(activityStore, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Post("/api/auth/signup", userHandler.Signup)
	r.Post("/api/auth/login", userHandler.Login)
	r.Get("/public/invoices/{token}", invoiceHandler.GetPublicInvoice)
	logger.Info("ROUTER", "Public auth and shared invoice endpoints registered")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret, denylist))
		logger.Info("AUTH", "JWT middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Post("/auth/logout", userHandler.Logout)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", userHandler.GetProfile)
				r.Put("/", userHandler.UpdateProfile)
			})
			logger.Info("ROUTER", "Profile routes registered under /api/profile")

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.ListEvents)
				r.Post("/", eventHandler.CreateEvent)
				r.Get("/{eventId}", eventHandler.GetEvent)
				r.Put("/{eventId}", eventHandler.UpdateEvent)
				r.Delete("/{eventId}", eventHandler.DeleteEvent)

				r.Route("/{eventId}/orders", func(r chi.Router) {
					r.Get("/", orderHandler.ListOrders)
					r.Post("/", orderHandler.PlaceOrder)
					r.Get("/grouped", orderHandler.ListGroupedOrders)
					r.Post("/import", orderHandler.ImportOrders)
					r.Get("/stream", sseHandler.HandleEventOrders)
				})
				r.Delete("/{eventId}/customers/{customerName}/orders", orderHandler.DeleteCustomerOrders)

				r.Route("/{eventId}/invoices/{customerName}", func(r chi.Router) {
					r.Get("/", invoiceHandler.GetInvoice)
					r.Get("/pdf", invoiceHandler.GetInvoicePDF)
					r.Post("/share", invoiceHandler.ShareInvoice)
				})
			})
			logger.Info("ROUTER", "Event, order and invoice routes registered under /api/events")

			r.Route("/orders", func(r chi.Router) {
				r.Get("/{orderId}", orderHandler.GetOrder)
				r.Put("/{orderId}", orderHandler.UpdateOrder)
				r.Delete("/{orderId}", orderHandler.DeleteOrder)
				r.Post("/{orderId}/pay", orderHandler.MarkPaid)
			})
			logger.Info("ROUTER", "Order routes registered under /api/orders")

			r.Get("/logs", activityHandler.ListLogs)
			logger.Info("ROUTER", "Activity log endpoint registered at /api/logs")
		})
	})

	// No WriteTimeout: the SSE stream endpoint holds its response open.
	server := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 JasTip Express running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	stopConsumer()
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ JasTip Express shutdown complete")
	}
}
