package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribuidora-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidora-api/internal/application/stock"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("pedido: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrLocked, fiber.StatusLocked, "LOCKED"},
		{domain.ErrRPCUnavailable, fiber.StatusServiceUnavailable, "RPC_UNAVAILABLE"},
		{&domain.RPCError{Function: "crear_pedido", Message: "cliente inexistente"}, fiber.StatusUnprocessableEntity, "REMOTE_ERROR"},
		{&domain.ValidationError{Errors: []string{"nombre es obligatorio", "precio debe ser >= 0"}}, fiber.StatusBadRequest, "VALIDATION"},
		{errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return writeError(c, tc.err) })

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
		assert.Equal(t, tc.code, body["code"], tc.err.Error())
	}
}

func TestWriteError_ValidationJoinsMessages(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, &domain.ValidationError{Errors: []string{"a", "b"}})
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "a; b", body["message"])
}

type stubProducts map[string]*entity.Product

func (s stubProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return s[id], nil
}

func (s stubProducts) ListLowStock(context.Context, int) ([]*entity.Product, error) {
	return nil, nil
}

type stubGateway struct {
	decremented [][]entity.StockItem
}

func (g *stubGateway) Decrement(_ context.Context, items []entity.StockItem) error {
	g.decremented = append(g.decremented, items)
	return nil
}

func (g *stubGateway) Restore(context.Context, []entity.StockItem) error { return nil }

func stockApp(products stubProducts, gw *stubGateway) *fiber.App {
	mgr := stock.NewManager(products, gw, nil, nil, zerolog.Nop(), 0)
	h := NewStockHandler(mgr)
	app := fiber.New()
	app.Post("/reservar", h.Reserve)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestStockReserve_ShortfallReturnsOperationResult(t *testing.T) {
	gw := &stubGateway{}
	app := stockApp(stubProducts{"p1": {ID: "p1", Name: "Yerba", Stock: 2}}, gw)

	resp := postJSON(t, app, "/reservar", `{"items":[{"producto_id":"p1","cantidad":5}]}`)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	var body struct {
		Success    bool               `json:"success"`
		Error      string             `json:"error"`
		Shortfalls []entity.Shortfall `json:"faltantes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "Stock insuficiente")
	require.Len(t, body.Shortfalls, 1)
	assert.Equal(t, 2, body.Shortfalls[0].Available)
	assert.Empty(t, gw.decremented)
}

func TestStockReserve_WithoutValidationSkipsCheck(t *testing.T) {
	gw := &stubGateway{}
	app := stockApp(stubProducts{}, gw)

	resp := postJSON(t, app, "/reservar", `{"items":[{"producto_id":"p1","cantidad":5}],"validar":false}`)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, gw.decremented, 1)
	assert.Equal(t, 5, gw.decremented[0][0].Quantity)
}

func TestStockReserve_InvalidItems(t *testing.T) {
	app := stockApp(stubProducts{}, &stubGateway{})

	resp := postJSON(t, app, "/reservar", `{"items":[{"producto_id":"","cantidad":0}]}`)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAnalyticsExport_MissingRange(t *testing.T) {
	h := NewAnalyticsHandler(analytics.NewExportUseCase(nil, nil, nil, zerolog.Nop()))
	app := fiber.New()
	app.Get("/export", h.Export)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/export?hasta=2024-01-31", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.NotEqual(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
}

func TestQueryDate_RangoSemiabierto(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"desde": from.Format(time.DateTime), "hasta": to.Format(time.DateTime)})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?desde=2024-03-01&hasta=2024-03-02", nil), -1)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "2024-03-01 00:00:00", body["desde"])
	assert.Equal(t, "2024-03-03 00:00:00", body["hasta"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/?desde=01-03-2024", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
