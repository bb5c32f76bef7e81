package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/application/usecase"
)

// SettlementHandler rendiciones de transportistas y salvedades de entrega.
type SettlementHandler struct {
	uc *usecase.SettlementUseCase
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(uc *usecase.SettlementUseCase) *SettlementHandler {
	return &SettlementHandler{uc: uc}
}

// ListSettlements godoc
// @Summary      Listar rendiciones
// @Tags         rendiciones
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "pendiente, aprobada, rechazada, observada"
// @Success      200     {array}   entity.Settlement
// @Router       /api/rendiciones [get]
func (h *SettlementHandler) ListSettlements(c *fiber.Ctx) error {
	p := page(c)
	return c.JSON(h.uc.ListSettlements(c.UserContext(), c.Query("estado"), p.Limit, p.Offset))
}

// Review godoc
// @Summary      Revisar rendición (admin)
// @Tags         rendiciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la rendición"
// @Param        body  body  dto.ReviewSettlementRequest  true  "Resultado"
// @Success      200   {object}  entity.Settlement
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/rendiciones/{id}/revision [patch]
func (h *SettlementHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewSettlementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Review(c.UserContext(), c.Params("id"), in.Status, in.Notes, GetProfileID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListExceptions godoc
// @Summary      Listar salvedades
// @Tags         salvedades
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "pendiente o resuelta"
// @Success      200     {array}   entity.DeliveryException
// @Router       /api/salvedades [get]
func (h *SettlementHandler) ListExceptions(c *fiber.Ctx) error {
	p := page(c)
	return c.JSON(h.uc.ListExceptions(c.UserContext(), c.Query("estado"), p.Limit, p.Offset))
}

// Resolve godoc
// @Summary      Resolver salvedad (admin)
// @Tags         salvedades
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la salvedad"
// @Param        body  body  dto.ResolveExceptionRequest  true  "Resolución"
// @Success      200   {object}  entity.DeliveryException
// @Router       /api/salvedades/{id}/resolver [patch]
func (h *SettlementHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveExceptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Resolve(c.UserContext(), c.Params("id"), in.Resolution, GetProfileID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
