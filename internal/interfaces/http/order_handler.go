package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// OrderHandler maneja pedidos: alta, edición, ciclo de vida y hoja de ruta.
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// List godoc
// @Summary      Listar pedidos
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        estado            query  string  false  "Estado"
// @Param        cliente_id        query  string  false  "Cliente"
// @Param        transportista_id  query  string  false  "Transportista"
// @Param        desde             query  string  false  "YYYY-MM-DD"
// @Param        hasta             query  string  false  "YYYY-MM-DD"
// @Param        limit             query  int     false  "Límite"  default(20)
// @Param        offset            query  int     false  "Offset"  default(0)
// @Success      200               {object}  dto.OrderListResponse
// @Failure      400               {object}  dto.ErrorResponse
// @Router       /api/pedidos [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	status := entity.OrderStatus(c.Query("estado"))
	if status != "" && !status.Valid() {
		return writeError(c, fmt.Errorf("%q: %w", status, domain.ErrInvalidStatus))
	}
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	p := page(c)
	return c.JSON(h.uc.List(c.UserContext(), repository.OrderFilter{
		Status:     status,
		CustomerID: c.Query("cliente_id"),
		CarrierID:  c.Query("transportista_id"),
		From:       from,
		To:         to,
		Limit:      p.Limit,
		Offset:     p.Offset,
	}))
}

// Create godoc
// @Summary      Crear pedido
// @Description  Verifica stock y crea el pedido con su descuento de stock en una sola operación remota.
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.OperationResult
// @Router       /api/pedidos [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetProfileID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de pedidos
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  false  "YYYY-MM-DD"
// @Param        hasta  query  string  false  "YYYY-MM-DD"
// @Success      200    {object}  dto.OrderStats
// @Router       /api/pedidos/estadisticas [get]
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Stats(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido con ítems
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "pedido")
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de estados
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {array}  dto.HistoryResponse
// @Router       /api/pedidos/{id}/historial [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateItems godoc
// @Summary      Reemplazar ítems del pedido
// @Description  Solo en estados editables; el stock se reconcilia por diferencias.
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.UpdateItemsRequest  true  "Ítems"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id}/items [put]
func (h *OrderHandler) UpdateItems(c *fiber.Ctx) error {
	var in dto.UpdateItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateItems(c.UserContext(), c.Params("id"), in.Items, GetProfileID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del pedido
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.ChangeStatusRequest  true  "Estado destino"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id}/estado [patch]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), c.Params("id"), in.Status, GetProfileID(c), in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AssignCarrier godoc
// @Summary      Asignar transportista
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.AssignCarrierRequest  true  "Transportista"
// @Success      200   {object}  dto.OrderResponse
// @Router       /api/pedidos/{id}/transportista [patch]
func (h *OrderHandler) AssignCarrier(c *fiber.Ctx) error {
	var in dto.AssignCarrierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AssignCarrier(c.UserContext(), c.Params("id"), in.CarrierID, GetProfileID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePayment godoc
// @Summary      Actualizar estado de pago
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.PaymentStatusRequest  true  "pendiente, parcial o pagado"
// @Success      200   {object}  dto.OrderResponse
// @Router       /api/pedidos/{id}/pago [patch]
func (h *OrderHandler) UpdatePayment(c *fiber.Ctx) error {
	var in dto.PaymentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePaymentStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeliveryOrder godoc
// @Summary      Ordenar hoja de ruta
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeliveryOrderRequest  true  "pedido_id + orden"
// @Success      200   {object}  dto.DeliveryOrderResponse
// @Router       /api/pedidos/orden-entrega [put]
func (h *OrderHandler) DeliveryOrder(c *fiber.Ctx) error {
	var in dto.DeliveryOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateDeliveryOrder(c.UserContext(), in.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
