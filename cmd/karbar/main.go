package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/karbar-erp/karbar-erp/internal/app"
	"github.com/karbar-erp/karbar-erp/internal/expenses"
	"github.com/karbar-erp/karbar-erp/internal/masterdata/customers"
	"github.com/karbar-erp/karbar-erp/internal/masterdata/products"
	"github.com/karbar-erp/karbar-erp/internal/platform/db"
	"github.com/karbar-erp/karbar-erp/internal/productions"
	"github.com/karbar-erp/karbar-erp/internal/reports"
	"github.com/karbar-erp/karbar-erp/internal/sales/invoices"
	"github.com/karbar-erp/karbar-erp/internal/sales/orders"
	"github.com/karbar-erp/karbar-erp/internal/sales/payments"
	"github.com/karbar-erp/karbar-erp/internal/sales/returns"
	"github.com/karbar-erp/karbar-erp/internal/shared"
	"github.com/karbar-erp/karbar-erp/internal/users"
	"github.com/karbar-erp/karbar-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	idempotencyStore := shared.NewIdempotencyStore(pool)

	customerRepo := customers.NewRepository(pool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService)

	productRepo := products.NewRepository(pool)
	productService := products.NewService(productRepo)
	productHandler := products.NewHandler(logger, productService)

	orderRepo := orders.NewRepository(pool)
	orderService := orders.NewService(orderRepo, customerRepo, productRepo)
	orderHandler := orders.NewHandler(logger, orderService)

	invoiceRepo := invoices.NewRepository(pool)
	invoiceService := invoices.NewService(invoiceRepo, customerRepo, productRepo)
	invoiceHandler := invoices.NewHandler(logger, invoiceService)

	paymentRepo := payments.NewRepository(pool)
	paymentService := payments.NewService(paymentRepo, customerRepo)
	paymentHandler := payments.NewHandler(logger, paymentService)

	returnRepo := returns.NewRepository(pool)
	returnService := returns.NewService(returnRepo, customerRepo, productRepo, idempotencyStore)
	returnHandler := returns.NewHandler(logger, returnService)

	expenseRepo := expenses.NewRepository(pool)
	expenseService := expenses.NewService(expenseRepo)
	expenseHandler := expenses.NewHandler(logger, expenseService)

	productionRepo := productions.NewRepository(pool)
	productionService := productions.NewService(productionRepo, productRepo)
	productionHandler := productions.NewHandler(logger, productionService)

	userRepo := users.NewRepository(pool)
	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(logger, userService)

	reportRepo := reports.NewRepository(pool)
	reportService := reports.NewService(reportRepo)
	reportHandler := reports.NewHandler(logger, reportService)

	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		CustomersHandler:   customerHandler,
		ProductsHandler:    productHandler,
		OrdersHandler:      orderHandler,
		InvoicesHandler:    invoiceHandler,
		PaymentsHandler:    paymentHandler,
		ReturnsHandler:     returnHandler,
		ExpensesHandler:    expenseHandler,
		ProductionsHandler: productionHandler,
		UsersHandler:       userHandler,
		ReportsHandler:     reportHandler,
		JobsHandler:        jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
