package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/Gestao-api/internal/application/analytics"
	"github.com/jhoicas/Gestao-api/internal/application/auth"
	"github.com/jhoicas/Gestao-api/internal/application/finance"
	"github.com/jhoicas/Gestao-api/internal/application/inventory"
	"github.com/jhoicas/Gestao-api/internal/application/nfe"
	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/internal/application/sales"
	"github.com/jhoicas/Gestao-api/internal/application/usecase"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	CompanyUC   *usecase.CompanyUseCase
	ModuleSvc   *usecase.ModuleService
	SupplierUC  *usecase.SupplierUseCase
	ItemUC      *inventory.ItemUseCase
	MovementUC  *inventory.RegisterMovementUseCase
	AccountUC   *finance.AccountUseCase
	BillUC      *finance.BillUseCase
	SaleUC      *sales.SaleUseCase
	NFeUC       *nfe.NFeUseCase
	DashboardUC *appanalytics.DashboardUseCase

	Idempotency ports.IdempotencyStore
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, deps.ModuleSvc)

	// Público
	api.Post("/auth/login", authHandler.Login)
	api.Post("/companies/signup", authHandler.Signup)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(entity.RoleAdmin, entity.RoleFinanceiro, entity.RoleEstoquista, entity.RoleVendedor)
	adminOnly := RequireRole(entity.RoleAdmin)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleEstoquista)
	financeRoles := RequireRole(entity.RoleAdmin, entity.RoleFinanceiro)
	salesRoles := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	purchaseRoles := RequireRole(entity.RoleAdmin, entity.RoleEstoquista, entity.RoleFinanceiro)

	idem := Idempotency(deps.Idempotency, deps.Metrics, deps.Logger)
	validID := ValidIDParams("id")
	module := func(name string) fiber.Handler {
		return RequireModule(name, deps.ModuleSvc, deps.Logger)
	}

	protected.Get("/auth/me", anyRole, authHandler.Me)

	// Empresa y módulos
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies := protected.Group("/companies/me")
	companies.Get("", anyRole, companyHandler.Get)
	companies.Put("", adminOnly, companyHandler.Update)
	companies.Get("/modules", anyRole, companyHandler.ListModules)
	companies.Put("/modules/:name", adminOnly, companyHandler.UpdateModule)

	// Usuarios (admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", adminOnly)
	users.Get("", userHandler.List)
	users.Post("", userHandler.Create)
	users.Put("/:id", validID, userHandler.Update)
	users.Delete("/:id", validID, userHandler.Delete)

	// Proveedores
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers", purchaseRoles)
	suppliers.Get("", supplierHandler.List)
	suppliers.Post("", supplierHandler.Create)
	suppliers.Get("/:id", validID, supplierHandler.GetByID)
	suppliers.Put("/:id", validID, supplierHandler.Update)
	suppliers.Delete("/:id", validID, supplierHandler.Delete)

	// Inventario
	itemHandler := NewItemHandler(deps.ItemUC)
	items := protected.Group("/items", module(entity.ModuleInventory))
	items.Get("", anyRole, itemHandler.List)
	items.Post("", stockRoles, itemHandler.Create)
	items.Get("/:id", anyRole, validID, itemHandler.GetByID)
	items.Put("/:id", stockRoles, validID, itemHandler.Update)
	items.Delete("/:id", stockRoles, validID, itemHandler.Delete)
	items.Get("/:id/costs", stockRoles, validID, itemHandler.ListCosts)
	items.Post("/:id/costs", stockRoles, validID, itemHandler.AddCost)

	inventoryHandler := NewInventoryHandler(deps.MovementUC)
	movements := protected.Group("/inventory", module(entity.ModuleInventory), stockRoles)
	movements.Post("/movements", inventoryHandler.RegisterMovement)
	movements.Get("/movements", inventoryHandler.ListMovements)

	// Finanzas: cuentas y transacciones
	accountHandler := NewBankAccountHandler(deps.AccountUC)
	accounts := protected.Group("/bank-accounts", module(entity.ModuleFinance), financeRoles)
	accounts.Post("/transfer", idem, accountHandler.Transfer)
	accounts.Get("", accountHandler.List)
	accounts.Post("", accountHandler.Create)
	accounts.Get("/:id", validID, accountHandler.GetByID)
	accounts.Put("/:id", validID, accountHandler.Update)
	accounts.Delete("/:id", validID, accountHandler.Delete)
	accounts.Get("/:id/transactions", validID, accountHandler.ListTransactions)
	accounts.Post("/:id/transactions", validID, idem, accountHandler.PostTransaction)
	accounts.Post("/:id/reconcile", validID, accountHandler.Reconcile)
	protected.Delete("/bank-transactions/:id", module(entity.ModuleFinance), financeRoles, validID, accountHandler.DeleteTransaction)

	// Finanzas: cuentas por pagar y cuotas
	billHandler := NewBillHandler(deps.BillUC, deps.Metrics)
	bills := protected.Group("/bills", module(entity.ModuleFinance), financeRoles)
	bills.Get("", billHandler.List)
	bills.Post("", billHandler.Create)
	bills.Get("/:id", validID, billHandler.GetByID)
	bills.Put("/:id", validID, billHandler.Update)
	bills.Delete("/:id", validID, billHandler.Delete)

	installments := protected.Group("/installments", module(entity.ModuleFinance), financeRoles)
	installments.Get("", billHandler.ListInstallments)
	installments.Put("/:id", validID, billHandler.Reschedule)
	installments.Post("/:id/pay", validID, idem, billHandler.Pay)
	installments.Post("/:id/cancel-payment", validID, billHandler.CancelPayment)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Metrics)
	salesGroup := protected.Group("/sales", module(entity.ModuleSales))
	salesGroup.Get("", RequireRole(entity.RoleAdmin, entity.RoleVendedor, entity.RoleFinanceiro), saleHandler.List)
	salesGroup.Get("/:id", RequireRole(entity.RoleAdmin, entity.RoleVendedor, entity.RoleFinanceiro), validID, saleHandler.GetByID)
	salesGroup.Post("", salesRoles, idem, saleHandler.Create)
	salesGroup.Post("/:id/cancel", salesRoles, validID, saleHandler.Cancel)

	// NFe
	nfeHandler := NewNFeHandler(deps.NFeUC, deps.Metrics)
	nfes := protected.Group("/nfe", module(entity.ModuleNFe), purchaseRoles)
	nfes.Post("", nfeHandler.Import)
	nfes.Get("", nfeHandler.List)
	nfes.Get("/:id", validID, nfeHandler.GetByID)
	nfes.Delete("/:id", validID, nfeHandler.Delete)
	nfes.Put("/:id/items/:line/mapping", validID, nfeHandler.MapItem)
	nfes.Post("/:id/launch", validID, idem, nfeHandler.Launch)

	// Panel e informes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", anyRole, dashboardHandler.GetSummary)
	reports := protected.Group("/reports", module(entity.ModuleInventory), anyRole)
	reports.Get("/stock-valuation", dashboardHandler.StockValuation)
	reports.Get("/low-stock", dashboardHandler.LowStock)
}
