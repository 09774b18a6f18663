package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/adapter/postgres"
	"github.com/YelzhanWeb/restaurant/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/restaurant/internal/app/order"
	"github.com/YelzhanWeb/restaurant/internal/app/reports"
	"github.com/YelzhanWeb/restaurant/internal/app/restaurant"
	"github.com/YelzhanWeb/restaurant/internal/config"
	"github.com/YelzhanWeb/restaurant/internal/domain"

	amqpAdapter "github.com/YelzhanWeb/restaurant/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/restaurant/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: order-service, restaurant-service, reports-service, notification-subscriber")
	port := flag.Int("port", 3000, "HTTP port")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	lgr := logger.New(*mode)

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "order-service":
		runOrderService(db, mqConn, lgr, *port)

	case "restaurant-service":
		runRestaurantService(db, mqConn, lgr, *port)

	case "reports-service":
		runReportsService(db, lgr, *port)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runOrderService(db postgres.DB, mqConn rabbitmq.Connection, lgr logger.Logger, port int) {
	orderRepo := postgres.NewOrderRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	catalog := postgres.NewCatalogRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)

	orderService := order.NewService(orderRepo, customerRepo, catalog, publisher, lgr)

	orderHandler := httpAdapter.NewOrderHandler(orderService, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/customers/", orderHandler.HandleCustomers)

	serveHTTP(mux, lgr, "Order Service", port)
}

func runRestaurantService(db postgres.DB, mqConn rabbitmq.Connection, lgr logger.Logger, port int) {
	restaurantRepo := postgres.NewRestaurantOrderRepository(db)
	catalog := postgres.NewCatalogRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)

	restaurantService := restaurant.NewService(restaurantRepo, catalog, publisher, lgr)

	restaurantHandler := httpAdapter.NewRestaurantHandler(restaurantService, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/restaurant-orders", restaurantHandler.HandleOrders)
	mux.HandleFunc("/restaurant-orders/", restaurantHandler.HandleOrders)

	serveHTTP(mux, lgr, "Restaurant Service", port)
}

func runReportsService(db postgres.DB, lgr logger.Logger, port int) {
	orderRepo := postgres.NewOrderRepository(db)
	restaurantRepo := postgres.NewRestaurantOrderRepository(db)

	reportsService := reports.NewService(orderRepo, restaurantRepo, domain.DefaultAllocationTable(), lgr)

	reportsHandler := httpAdapter.NewReportsHandler(reportsService, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/reports/", reportsHandler.HandleReports)

	serveHTTP(mux, lgr, "Reports Service", port)
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn)

	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	go func() {
		if err := consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification); err != nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}

func serveHTTP(mux *http.ServeMux, lgr logger.Logger, name string, port int) {
	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("%s started on port %d", name, port), "startup", map[string]interface{}{
		"port": port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", fmt.Sprintf("Shutting down %s", name), "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}
