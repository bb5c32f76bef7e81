package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
)

const dateLayout = "2006-01-02"

// page lee limit/offset de la query con los límites de dto.PageRequest.
func page(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}

// queryDate lee una fecha YYYY-MM-DD opcional. nextDay la lleva a las 00:00 del día siguiente,
// cota exclusiva de un rango semiabierto que incluye el día completo.
func queryDate(c *fiber.Ctx, key string, nextDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%s debe tener formato YYYY-MM-DD: %w", key, domain.ErrInvalidInput)
	}
	if nextDay {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

// dateRange desde/hasta opcionales de la query; to es exclusivo.
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = queryDate(c, "desde", false); err != nil {
		return nil, nil, err
	}
	if to, err = queryDate(c, "hasta", true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
