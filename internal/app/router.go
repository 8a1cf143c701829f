package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/karbar-erp/karbar-erp/internal/expenses"
	"github.com/karbar-erp/karbar-erp/internal/masterdata/customers"
	"github.com/karbar-erp/karbar-erp/internal/masterdata/products"
	"github.com/karbar-erp/karbar-erp/internal/productions"
	"github.com/karbar-erp/karbar-erp/internal/reports"
	"github.com/karbar-erp/karbar-erp/internal/sales/invoices"
	"github.com/karbar-erp/karbar-erp/internal/sales/orders"
	"github.com/karbar-erp/karbar-erp/internal/sales/payments"
	"github.com/karbar-erp/karbar-erp/internal/sales/returns"
	"github.com/karbar-erp/karbar-erp/internal/users"
	"github.com/karbar-erp/karbar-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	CustomersHandler   *customers.Handler
	ProductsHandler    *products.Handler
	OrdersHandler      *orders.Handler
	InvoicesHandler    *invoices.Handler
	PaymentsHandler    *payments.Handler
	ReturnsHandler     *returns.Handler
	ExpensesHandler    *expenses.Handler
	ProductionsHandler *productions.Handler
	UsersHandler       *users.Handler
	ReportsHandler     *reports.Handler
	JobsHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router with Karbar defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/customers", params.CustomersHandler.MountRoutes)
	r.Route("/products", params.ProductsHandler.MountRoutes)
	r.Route("/orders", params.OrdersHandler.MountRoutes)
	r.Route("/sales", params.InvoicesHandler.MountRoutes)
	r.Route("/payments", params.PaymentsHandler.MountRoutes)
	r.Route("/sales-returns", params.ReturnsHandler.MountRoutes)
	r.Route("/expenses", params.ExpensesHandler.MountRoutes)
	r.Route("/productions", params.ProductionsHandler.MountRoutes)
	r.Route("/users", params.UsersHandler.MountRoutes)
	r.Route("/reports", params.ReportsHandler.MountRoutes)
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	return r
}
