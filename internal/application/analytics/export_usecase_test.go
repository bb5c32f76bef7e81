package analytics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	domain "github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)

type fakeAnalyticsRepo struct {
	sales       []repository.SalesLine
	headers     []repository.OrderHeader
	lastOrders  map[string]time.Time
	customers   []*entity.Customer
	products    []*entity.Product
	purchases   []repository.PurchaseLine
	collections []repository.CollectionRecord
	failOn      string
}

func (f *fakeAnalyticsRepo) fail(name string) error {
	if f.failOn == name {
		return errors.New("conexión perdida")
	}
	return nil
}

func (f *fakeAnalyticsRepo) ListSalesLines(_ context.Context, _, _ time.Time) ([]repository.SalesLine, error) {
	return f.sales, f.fail("sales")
}

func (f *fakeAnalyticsRepo) ListOrderHeaders(_ context.Context, _, _ time.Time) ([]repository.OrderHeader, error) {
	return f.headers, f.fail("headers")
}

func (f *fakeAnalyticsRepo) LastOrderDates(context.Context) (map[string]time.Time, error) {
	return f.lastOrders, f.fail("last")
}

func (f *fakeAnalyticsRepo) ListCustomers(context.Context) ([]*entity.Customer, error) {
	return f.customers, f.fail("customers")
}

func (f *fakeAnalyticsRepo) ListProducts(context.Context) ([]*entity.Product, error) {
	return f.products, f.fail("products")
}

func (f *fakeAnalyticsRepo) ListPurchaseLines(_ context.Context, _, _ time.Time) ([]repository.PurchaseLine, error) {
	return f.purchases, f.fail("purchases")
}

func (f *fakeAnalyticsRepo) ListCollections(_ context.Context, _, _ time.Time) ([]repository.CollectionRecord, error) {
	return f.collections, f.fail("collections")
}

type fakeNames struct {
	staff    map[string]string
	products map[string]string
}

func (f *fakeNames) StaffNames(_ context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if n, ok := f.staff[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (f *fakeNames) ProductNames(_ context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if n, ok := f.products[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type fakeWriter struct {
	calls int
	wb    *dto.Workbook
}

func (f *fakeWriter) Write(w io.Writer, wb *dto.Workbook) error {
	f.calls++
	f.wb = wb
	_, err := w.Write([]byte("xlsx"))
	return err
}

func strPtr(s string) *string { return &s }

func line(order, product string, qty int, price, cost string, day int) repository.SalesLine {
	p := decimal.RequireFromString(price)
	return repository.SalesLine{
		OrderID:       order,
		OrderDate:     time.Date(2026, 4, day, 10, 0, 0, 0, time.UTC),
		Status:        entity.OrderDelivered,
		PaymentStatus: entity.PaymentPaid,
		CustomerID:    "c1",
		CustomerName:  "Almacén Don Pepe",
		ProductID:     product,
		ProductName:   "prod " + product,
		Quantity:      qty,
		UnitPrice:     p,
		Subtotal:      p.Mul(decimal.NewFromInt(int64(qty))),
		UnitCost:      decimal.RequireFromString(cost),
		SalespersonID: strPtr("v1"),
	}
}

func newRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{
		sales: []repository.SalesLine{
			line("o1", "A", 2, "100", "60", 1),
			line("o1", "B", 1, "50", "30", 1),
			line("o2", "A", 1, "100", "60", 2),
			line("o2", "B", 3, "50", "30", 2),
			line("o3", "C", 5, "0", "10", 3),
		},
		headers: []repository.OrderHeader{
			{ID: "o1", CustomerID: "c1", Status: entity.OrderDelivered, Total: decimal.NewFromInt(250)},
			{ID: "o2", CustomerID: "c1", Status: entity.OrderDelivered, Total: decimal.NewFromInt(250)},
			{ID: "o9", CustomerID: "c1", Status: entity.OrderCancelled, Total: decimal.NewFromInt(999)},
		},
		lastOrders: map[string]time.Time{"c1": time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)},
		customers: []*entity.Customer{
			{ID: "c1", Name: "Almacén Don Pepe", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "c2", Name: "Kiosco Nuevo", CreatedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		},
		products: []*entity.Product{
			{ID: "A", Name: "Aceite", Stock: 30, MinStock: 5},
			{ID: "B", Name: "Bizcochos", Stock: 2, MinStock: 5},
			{ID: "D", Name: "Dulce de leche", Stock: 10, MinStock: 1},
		},
	}
}

func newExportUC(repo *fakeAnalyticsRepo, w SheetWriter) *ExportUseCase {
	uc := NewExportUseCase(repo, &fakeNames{
		staff:    map[string]string{"v1": "Vendedor Uno"},
		products: map[string]string{"A": "Aceite", "B": "Bizcochos"},
	}, w, zerolog.Nop())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func sheet(t *testing.T, wb *dto.Workbook, name string) dto.Sheet {
	t.Helper()
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("hoja %s no encontrada", name)
	return dto.Sheet{}
}

func TestParseRange(t *testing.T) {
	from, to, err := ParseRange("2026-04-01", "2026-04-30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), to)

	// Último instante del día incluido, primer instante del siguiente excluido.
	last := time.Date(2026, 4, 30, 23, 59, 59, 500_000_000, time.UTC)
	assert.True(t, !last.Before(from) && last.Before(to))
	assert.False(t, to.Before(to))

	_, to, err = ParseRange("2026-04-30", "2026-04-30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), to)

	for _, tc := range [][2]string{{"", "2026-04-30"}, {"2026-04-01", ""}, {"01/04/2026", "2026-04-30"}, {"2026-05-01", "2026-04-30"}} {
		_, _, err := ParseRange(tc[0], tc[1], time.UTC)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, tc)
	}
}

func TestExport_SheetsAndMetadata(t *testing.T) {
	w := &fakeWriter{}
	var buf bytes.Buffer
	wb, err := newExportUC(newRepo(), w).Export(context.Background(), dto.ExportRequest{From: "2026-04-01", To: "2026-04-30"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, w.calls)
	assert.Equal(t, "xlsx", buf.String())
	assert.Equal(t, "analytics_2026-04-01_2026-04-30.xlsx", wb.FileName)

	names := make([]string, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{SheetMetadata, SheetSales, SheetCustomers, SheetProducts, SheetPurchases, SheetCollections, SheetBasket}, names)

	meta := wb.Sheets[0]
	values := map[string]interface{}{}
	for _, r := range meta.Rows {
		values[r[0].(string)] = r[1]
	}
	assert.Equal(t, "2026-04-10 15:30:00", values["generado"])
	assert.Equal(t, "2026-04-01", values["desde"])
	assert.Equal(t, "2026-04-30", values["hasta"])
	assert.Equal(t, 5, values["filas_"+SheetSales])
	assert.Equal(t, 2, values["filas_"+SheetCustomers])
	assert.Equal(t, 3, values["filas_"+SheetProducts])
	assert.Equal(t, 0, values["filas_"+SheetPurchases])
	assert.Equal(t, 1, values["filas_"+SheetBasket])
	assert.Contains(t, values, "instrucciones")
}

func TestExport_SalesDetailMarginAndNames(t *testing.T) {
	wb, err := newExportUC(newRepo(), &fakeWriter{}).Build(context.Background(), dto.ExportRequest{From: "2026-04-01", To: "2026-04-30"})
	require.NoError(t, err)

	sales := sheet(t, wb, SheetSales)
	idx := func(col string) int {
		for i, h := range sales.Headers {
			if h == col {
				return i
			}
		}
		t.Fatalf("columna %s", col)
		return -1
	}
	first := sales.Rows[0]
	assert.Equal(t, 80.0, first[idx("margen")])
	assert.Equal(t, 40.0, first[idx("margen_pct")])
	assert.Equal(t, "Vendedor Uno", first[idx("vendedor")])
	assert.Equal(t, 2026, first[idx("anio")])
	assert.Equal(t, 4, first[idx("mes")])

	// subtotal 0 → margen_pct 0, sin división por cero
	last := sales.Rows[4]
	assert.Equal(t, 0.0, last[idx("margen_pct")])
	assert.Equal(t, -50.0, last[idx("margen")])
}

func TestExport_CustomerDimension(t *testing.T) {
	wb, err := newExportUC(newRepo(), &fakeWriter{}).Build(context.Background(), dto.ExportRequest{From: "2026-04-01", To: "2026-04-30"})
	require.NoError(t, err)

	rows := sheet(t, wb, SheetCustomers).Rows
	require.Len(t, rows, 2)
	// c1: 2 pedidos no cancelados por 500
	assert.Equal(t, "c1", rows[0][0])
	assert.Equal(t, 2, rows[0][7])
	assert.Equal(t, 500.0, rows[0][8])
	assert.Equal(t, 250.0, rows[0][9])
	assert.Equal(t, 8, rows[0][11])
	assert.Equal(t, "Bajo", rows[0][12])
	assert.Equal(t, "Activo", rows[0][13])

	// c2: nunca compró, alta reciente
	assert.Equal(t, "c2", rows[1][0])
	assert.Equal(t, "N/A", rows[1][11])
	assert.Equal(t, "Nuevo", rows[1][13])
}

func TestExport_ProductDimension(t *testing.T) {
	wb, err := newExportUC(newRepo(), &fakeWriter{}).Build(context.Background(), dto.ExportRequest{From: "2026-04-01", To: "2026-04-30"})
	require.NoError(t, err)

	byID := map[string][]interface{}{}
	for _, r := range sheet(t, wb, SheetProducts).Rows {
		byID[r[0].(string)] = r
	}
	// A: 3 unidades en 2 días → rotación 1.5, 30/1.5 = 20 días
	assert.Equal(t, 3, byID["A"][9])
	assert.Equal(t, 2, byID["A"][11])
	assert.Equal(t, 1.5, byID["A"][12])
	assert.Equal(t, 20.0, byID["A"][13])
	assert.Equal(t, "Lenta", byID["A"][14])
	assert.Equal(t, true, byID["B"][8])
	// D sin ventas
	assert.Equal(t, 0.0, byID["D"][12])
	assert.Equal(t, "N/A", byID["D"][13])
}

func TestExport_BasketResolvesNames(t *testing.T) {
	wb, err := newExportUC(newRepo(), &fakeWriter{}).Build(context.Background(), dto.ExportRequest{From: "2026-04-01", To: "2026-04-30"})
	require.NoError(t, err)

	rows := sheet(t, wb, SheetBasket).Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0][0])
	assert.Equal(t, "Aceite", rows[0][1])
	assert.Equal(t, "Bizcochos", rows[0][3])
	assert.Equal(t, 2, rows[0][4])
}

func TestExport_AnyFailureAborts(t *testing.T) {
	for _, failOn := range []string{"sales", "headers", "last", "customers", "products", "purchases", "collections"} {
		t.Run(failOn, func(t *testing.T) {
			repo := newRepo()
			repo.failOn = failOn
			w := &fakeWriter{}
			var buf bytes.Buffer
			wb, err := newExportUC(repo, w).Export(context.Background(), dto.ExportRequest{From: "2026-04-01", To: "2026-04-30"}, &buf)
			require.Error(t, err)
			assert.Nil(t, wb)
			assert.Zero(t, w.calls)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestExport_InvalidRange(t *testing.T) {
	w := &fakeWriter{}
	_, err := newExportUC(newRepo(), w).Export(context.Background(), dto.ExportRequest{From: "2026-04-01"}, io.Discard)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, w.calls)
}
