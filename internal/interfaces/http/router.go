package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidora-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidora-api/internal/application/auth"
	"github.com/jhoicas/Distribuidora-api/internal/application/stock"
	"github.com/jhoicas/Distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidora-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	CustomerUC   *usecase.CustomerUseCase
	OrderUC      *usecase.OrderUseCase
	SettlementUC *usecase.SettlementUseCase
	Stock        *stock.Manager
	ExportUC     *analytics.ExportUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
// Las rutas estáticas de cada grupo se registran antes de "/:id".
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)

	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.Stock)
	products := protected.Group("/productos")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Post("/validar", productHandler.Validate)
	products.Post("/precios", adminOnly, productHandler.UpdatePrices)
	products.Get("/stock-bajo", stockHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/movimientos", stockHandler.Movements)

	stockGroup := protected.Group("/stock")
	stockGroup.Post("/disponibilidad", stockHandler.Availability)
	stockGroup.Post("/reservar", stockHandler.Reserve)
	stockGroup.Post("/liberar", stockHandler.Release)
	stockGroup.Post("/mermas", stockHandler.Shrinkage)

	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/clientes")
	customers.Get("/", customerHandler.List)
	customers.Get("/zonas", customerHandler.Zones)
	customers.Post("/", customerHandler.Create)
	customers.Post("/validar", customerHandler.Validate)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := protected.Group("/pedidos")
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/estadisticas", orderHandler.Stats)
	orders.Put("/orden-entrega", orderHandler.DeliveryOrder)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/historial", orderHandler.History)
	orders.Put("/:id/items", orderHandler.UpdateItems)
	orders.Patch("/:id/estado", orderHandler.ChangeStatus)
	orders.Patch("/:id/transportista", orderHandler.AssignCarrier)
	orders.Patch("/:id/pago", orderHandler.UpdatePayment)

	settlementHandler := NewSettlementHandler(deps.SettlementUC)
	protected.Get("/rendiciones", settlementHandler.ListSettlements)
	protected.Patch("/rendiciones/:id/revision", adminOnly, settlementHandler.Review)
	protected.Get("/salvedades", settlementHandler.ListExceptions)
	protected.Patch("/salvedades/:id/resolver", adminOnly, settlementHandler.Resolve)

	analyticsHandler := NewAnalyticsHandler(deps.ExportUC)
	protected.Get("/analytics/export", adminOnly, analyticsHandler.Export)
}
