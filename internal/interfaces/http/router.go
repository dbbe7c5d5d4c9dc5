package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bimal-bp/DPR/internal/application/inventory"
	"github.com/bimal-bp/DPR/internal/application/usecase"
	"github.com/bimal-bp/DPR/pkg/jwt"
	"github.com/bimal-bp/DPR/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	Resolver  *inventory.Resolver
	SaveDay   *inventory.SaveDayUseCase
	DailyView *inventory.DailyViewUseCase
	History   *inventory.HistoryUseCase
	Report    *inventory.ReportUseCase
	JWTSecret string
	Logger    *logger.Logger
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Products (lectura, cualquier rol)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Ledger
	ledgerGroup := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Resolver, deps.SaveDay, deps.DailyView, deps.History, deps.Report, deps.Logger.Named("ledger"))
	ledgerGroup.Get("/opening", ledgerHandler.Opening)
	ledgerGroup.Get("/daily", ledgerHandler.Daily)
	ledgerGroup.Put("/daily/:date", RequireRole(jwt.RoleOperator, jwt.RoleAdmin), ledgerHandler.SaveDay)
	ledgerGroup.Get("/history", ledgerHandler.History)
	ledgerGroup.Get("/history/pivot", ledgerHandler.Pivot)
	ledgerGroup.Get("/history/pdf", ledgerHandler.HistoryPDF)
}
