// Package v1 assembles the HTTP API: middleware chain, route groups and
// role guards.
package v1

import (
	"github.com/gin-gonic/gin"

	appctx "stationops/internal/core/context"
	"stationops/internal/infrastructure/http/v1/handlers"
	"stationops/internal/infrastructure/http/v1/middleware"
	"stationops/pkg/logger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Readings *handlers.ReadingHandler
	FuelType *handlers.FuelTypeHandler
	Branch   *handlers.BranchHandler
	Finance  *handlers.FinanceHandler
	Reports  *handlers.ReportsHandler
}

// NewRouter builds the gin engine with the full middleware chain.
// Unlock, relock and price updates are admin-only; everything else under
// /api/v1 requires any authenticated actor.
func NewRouter(log *logger.Logger, validator middleware.TokenValidator, h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.Trace(),
		middleware.Logger(log),
		middleware.ErrorHandler(),
	)

	router.GET("/health", h.Health.Health)
	router.GET("/ready", h.Health.Ready)

	api := router.Group("/api/v1")
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.Auth(validator))
	adminOnly := middleware.RequireRole(appctx.RoleAdmin)

	authed.POST("/auth/register", adminOnly, h.Auth.Register)

	// Shift fuel readings
	authed.POST("/readings", h.Readings.Start)
	authed.GET("/readings", h.Readings.List)
	authed.GET("/readings/scope", h.Readings.GetByScope)
	authed.GET("/readings/:id", h.Readings.GetByID)
	authed.PUT("/readings/:id", h.Readings.Edit)
	authed.POST("/readings/:id/close", h.Readings.Close)
	authed.POST("/readings/:id/unlock", adminOnly, h.Readings.Unlock)
	authed.POST("/readings/:id/relock", adminOnly, h.Readings.Relock)

	// Catalogs
	authed.POST("/fuel-types", adminOnly, h.FuelType.Create)
	authed.GET("/fuel-types", h.FuelType.List)
	authed.GET("/fuel-types/:id", h.FuelType.GetByID)
	authed.PUT("/fuel-types/:id", adminOnly, h.FuelType.Update)
	authed.POST("/fuel-types/:id/price", adminOnly, h.FuelType.UpdatePrice)
	authed.GET("/fuel-types/:id/price-history", h.FuelType.PriceHistory)

	authed.POST("/branches", adminOnly, h.Branch.Create)
	authed.GET("/branches", h.Branch.List)
	authed.GET("/branches/:id", h.Branch.GetByID)
	authed.PUT("/branches/:id", adminOnly, h.Branch.Update)

	// Financial records
	authed.POST("/charge-invoices", h.Finance.CreateInvoice)
	authed.GET("/charge-invoices", h.Finance.ListInvoices)
	authed.GET("/charge-invoices/:id", h.Finance.GetInvoice)
	authed.POST("/charge-invoices/:id/pay", h.Finance.MarkInvoicePaid)

	authed.POST("/deposits", h.Finance.CreateDeposit)
	authed.GET("/deposits", h.Finance.ListDeposits)
	authed.POST("/checks", h.Finance.CreateCheck)
	authed.GET("/checks", h.Finance.ListChecks)
	authed.POST("/expenses", h.Finance.CreateExpense)
	authed.GET("/expenses", h.Finance.ListExpenses)
	authed.POST("/disbursements", h.Finance.CreateDisbursement)
	authed.GET("/disbursements", h.Finance.ListDisbursements)
	authed.POST("/product-sales", h.Finance.CreateProductSale)
	authed.GET("/product-sales", h.Finance.ListProductSales)

	// Reports
	authed.GET("/reports/accountability", h.Reports.Accountability)
	authed.GET("/reports/daily", h.Reports.Daily)

	return router
}
