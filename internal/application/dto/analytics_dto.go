package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// ExportRequest parámetros de GET /api/analytics/export (YYYY-MM-DD, ambos obligatorios).
type ExportRequest struct {
	From string `query:"desde"`
	To   string `query:"hasta"`
}

// Sheet hoja plana: encabezados y filas con la misma cantidad de columnas.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Workbook conjunto de hojas listo para escribir. Metadata siempre es la primera.
type Workbook struct {
	FileName string
	Sheets   []Sheet
}

// SheetRow fila exportable (GetCellValues al estilo de los reportes Excel).
type SheetRow interface {
	Cells() []interface{}
}

// NewSheet arma una hoja a partir de filas tipadas.
func NewSheet[T SheetRow](name string, headers []string, rows []T) Sheet {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Cells())
	}
	return Sheet{Name: name, Headers: headers, Rows: out}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ── Ventas_Detalle ────────────────────────────────────────────────────────────

// SalesDetailHeaders columnas de Ventas_Detalle.
var SalesDetailHeaders = []string{
	"pedido_id", "fecha", "anio", "mes", "estado", "estado_pago",
	"cliente_id", "cliente", "zona", "cuit",
	"producto_id", "codigo", "producto", "categoria",
	"cantidad", "precio_unitario", "subtotal", "costo_unitario", "costo", "margen", "margen_pct",
	"vendedor", "transportista",
}

// SalesDetailRow una fila por línea de pedido.
type SalesDetailRow struct {
	OrderID       string
	Date          time.Time
	Status        string
	PaymentStatus string
	CustomerID    string
	CustomerName  string
	Zone          string
	TaxID         string
	ProductID     string
	ProductCode   string
	ProductName   string
	Category      string
	Quantity      int
	UnitPrice     decimal.Decimal
	Subtotal      decimal.Decimal
	UnitCost      decimal.Decimal
	Cost          decimal.Decimal
	Margin        decimal.Decimal
	MarginPct     decimal.Decimal
	Salesperson   string
	Carrier       string
}

func (r SalesDetailRow) Cells() []interface{} {
	return []interface{}{
		r.OrderID, r.Date.Format(dateTimeLayout), r.Date.Year(), int(r.Date.Month()), r.Status, r.PaymentStatus,
		r.CustomerID, r.CustomerName, r.Zone, r.TaxID,
		r.ProductID, r.ProductCode, r.ProductName, r.Category,
		r.Quantity, money(r.UnitPrice), money(r.Subtotal), money(r.UnitCost), money(r.Cost), money(r.Margin), money(r.MarginPct),
		r.Salesperson, r.Carrier,
	}
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// CustomerHeaders columnas de Clientes.
var CustomerHeaders = []string{
	"cliente_id", "nombre", "zona", "lista_precio", "cuit", "activo", "alta",
	"pedidos", "facturacion", "ticket_promedio", "ultimo_pedido", "dias_sin_comprar",
	"segmento", "actividad",
}

// CustomerRow dimensión cliente. DaysSinceLastOrder nil = nunca compró.
type CustomerRow struct {
	CustomerID         string
	Name               string
	Zone               string
	PriceList          string
	TaxID              string
	Active             bool
	CreatedAt          time.Time
	Orders             int
	Revenue            decimal.Decimal
	AverageTicket      decimal.Decimal
	LastOrder          *time.Time
	DaysSinceLastOrder *int
	Segment            string
	Activity           string
}

func (r CustomerRow) Cells() []interface{} {
	last, days := "", interface{}("N/A")
	if r.LastOrder != nil {
		last = r.LastOrder.Format(dateLayout)
	}
	if r.DaysSinceLastOrder != nil {
		days = *r.DaysSinceLastOrder
	}
	return []interface{}{
		r.CustomerID, r.Name, r.Zone, r.PriceList, r.TaxID, r.Active, r.CreatedAt.Format(dateLayout),
		r.Orders, money(r.Revenue), money(r.AverageTicket), last, days,
		r.Segment, r.Activity,
	}
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ProductHeaders columnas de Productos.
var ProductHeaders = []string{
	"producto_id", "codigo", "nombre", "categoria", "precio", "costo_sin_iva",
	"stock", "stock_minimo", "stock_bajo",
	"unidades_vendidas", "facturacion", "dias_con_venta", "rotacion_diaria", "dias_de_stock", "velocidad",
}

// ProductRow dimensión producto. DaysOfStock es float64 o "N/A".
type ProductRow struct {
	ProductID   string
	Code        string
	Name        string
	Category    string
	Price       decimal.Decimal
	CostNet     decimal.Decimal
	Stock       int
	MinStock    int
	LowStock    bool
	UnitsSold   int
	Revenue     decimal.Decimal
	SaleDays    int
	Rotation    float64
	DaysOfStock interface{}
	Velocity    string
}

func (r ProductRow) Cells() []interface{} {
	return []interface{}{
		r.ProductID, r.Code, r.Name, r.Category, money(r.Price), money(r.CostNet),
		r.Stock, r.MinStock, r.LowStock,
		r.UnitsSold, money(r.Revenue), r.SaleDays, r.Rotation, r.DaysOfStock, r.Velocity,
	}
}

// ── Compras ───────────────────────────────────────────────────────────────────

// PurchaseHeaders columnas de Compras.
var PurchaseHeaders = []string{
	"compra_id", "fecha", "estado", "proveedor_id", "proveedor", "proveedor_cuit",
	"producto_id", "codigo", "producto", "categoria", "cantidad", "costo_unitario", "subtotal",
}

// PurchaseRow una fila por línea de compra.
type PurchaseRow struct {
	PurchaseID    string
	Date          time.Time
	Status        string
	SupplierID    string
	SupplierName  string
	SupplierTaxID string
	ProductID     string
	ProductCode   string
	ProductName   string
	Category      string
	Quantity      int
	UnitCost      decimal.Decimal
	Subtotal      decimal.Decimal
}

func (r PurchaseRow) Cells() []interface{} {
	return []interface{}{
		r.PurchaseID, r.Date.Format(dateTimeLayout), r.Status, r.SupplierID, r.SupplierName, r.SupplierTaxID,
		r.ProductID, r.ProductCode, r.ProductName, r.Category, r.Quantity, money(r.UnitCost), money(r.Subtotal),
	}
}

// ── Cobranzas ─────────────────────────────────────────────────────────────────

// CollectionHeaders columnas de Cobranzas.
var CollectionHeaders = []string{
	"cobro_id", "fecha", "cliente_id", "cliente", "zona", "pedido_id", "transportista", "monto", "metodo",
}

// CollectionRow una fila por cobro.
type CollectionRow struct {
	ID           string
	Date         time.Time
	CustomerID   string
	CustomerName string
	Zone         string
	OrderID      *string
	Carrier      string
	Amount       decimal.Decimal
	Method       string
}

func (r CollectionRow) Cells() []interface{} {
	return []interface{}{
		r.ID, r.Date.Format(dateTimeLayout), r.CustomerID, r.CustomerName, r.Zone, optional(r.OrderID), r.Carrier, money(r.Amount), r.Method,
	}
}

// ── Canasta ───────────────────────────────────────────────────────────────────

// BasketHeaders columnas de Canasta.
var BasketHeaders = []string{
	"producto_a_id", "producto_a", "producto_b_id", "producto_b",
	"frecuencia", "soporte", "confianza_a_b", "confianza_b_a", "lift", "fuerza",
}

// BasketRow par de productos comprados juntos.
type BasketRow struct {
	ProductAID   string
	ProductA     string
	ProductBID   string
	ProductB     string
	Frequency    int
	Support      float64
	ConfidenceAB float64
	ConfidenceBA float64
	Lift         float64
	Strength     string
}

func (r BasketRow) Cells() []interface{} {
	return []interface{}{
		r.ProductAID, r.ProductA, r.ProductBID, r.ProductB,
		r.Frequency, r.Support, r.ConfidenceAB, r.ConfidenceBA, r.Lift, r.Strength,
	}
}
