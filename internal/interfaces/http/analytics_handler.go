package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidora-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/excel"
)

// AnalyticsHandler exportación analítica para herramientas de BI (solo admin).
type AnalyticsHandler struct {
	uc *analytics.ExportUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.ExportUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar datasets analíticos
// @Description  Workbook con Metadata, Ventas_Detalle, Clientes, Productos, Compras, Cobranzas y Canasta.
// @Description  Si algún dataset falla no se devuelve archivo parcial.
// @Tags         analytics
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        desde  query  string  true  "YYYY-MM-DD"
// @Param        hasta  query  string  true  "YYYY-MM-DD"
// @Success      200
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/analytics/export [get]
func (h *AnalyticsHandler) Export(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	// se arma en memoria: ante error no debe salir ningún byte del archivo
	var buf bytes.Buffer
	wb, err := h.uc.Export(c.UserContext(), req, &buf)
	if err != nil {
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, excel.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, wb.FileName))
	return c.Send(buf.Bytes())
}
