package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/application/stock"
)

// StockHandler expone verificación, reserva, liberación y mermas de stock.
type StockHandler struct {
	mgr *stock.Manager
}

// NewStockHandler construye el handler.
func NewStockHandler(mgr *stock.Manager) *StockHandler {
	return &StockHandler{mgr: mgr}
}

// Availability godoc
// @Summary      Verificar disponibilidad
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockItemsRequest  true  "Ítems"
// @Success      200   {object}  dto.Availability
// @Router       /api/stock/disponibilidad [post]
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	var in dto.StockItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.mgr.CheckAvailability(c.UserContext(), in.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reserve godoc
// @Summary      Descontar stock
// @Description  validar=false omite la verificación previa.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "Ítems"
// @Success      200   {object}  dto.OperationResult
// @Failure      409   {object}  dto.OperationResult
// @Router       /api/stock/reservar [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	opts := stock.Validated()
	if in.Validate != nil {
		opts.Validate = *in.Validate
	}
	if err := h.mgr.Reserve(c.UserContext(), in.Items, opts); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OperationResult{Success: true})
}

// Release godoc
// @Summary      Restaurar stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockItemsRequest  true  "Ítems"
// @Success      200   {object}  dto.OperationResult
// @Router       /api/stock/liberar [post]
func (h *StockHandler) Release(c *fiber.Ctx) error {
	var in dto.StockItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.mgr.Release(c.UserContext(), in.Items); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OperationResult{Success: true})
}

// Shrinkage godoc
// @Summary      Registrar merma
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShrinkageRequest  true  "Merma"
// @Success      201   {object}  entity.Shrinkage
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/mermas [post]
func (h *StockHandler) Shrinkage(c *fiber.Ctx) error {
	var in dto.ShrinkageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.UserID = GetProfileID(c)
	out, err := h.mgr.RecordShrinkage(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        umbral  query  int  false  "Umbral fijo; sin umbral se usa stock_minimo"
// @Success      200     {array}   dto.LowStockItem
// @Router       /api/productos/stock-bajo [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.mgr.LowStock(c.UserContext(), c.QueryInt("umbral", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Resumen de salidas de un producto
// @Description  Sin rango se toman los últimos 30 días.
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        desde  query  string  false  "YYYY-MM-DD"
// @Param        hasta  query  string  false  "YYYY-MM-DD"
// @Success      200    {object}  dto.MovementsSummary
// @Router       /api/productos/{id}/movimientos [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	end := time.Now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}
	out, err := h.mgr.MovementsSummary(c.UserContext(), c.Params("id"), start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
