// Package analytics arma la exportación analítica para BI: seis datasets desnormalizados
// más una hoja de metadatos, escritos como un único workbook.
package analytics

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	domain "github.com/jhoicas/Distribuidora-api/internal/domain"
	metrics "github.com/jhoicas/Distribuidora-api/internal/domain/analytics"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Nombres de hoja del workbook.
const (
	SheetMetadata    = "Metadata"
	SheetSales       = "Ventas_Detalle"
	SheetCustomers   = "Clientes"
	SheetProducts    = "Productos"
	SheetPurchases   = "Compras"
	SheetCollections = "Cobranzas"
	SheetBasket      = "Canasta"
)

const dateLayout = "2006-01-02"

var instructions = []string{
	"Cada hoja es una tabla plana; importar como tabla en Power BI, Looker Studio o Excel.",
	"Ventas_Detalle tiene una fila por línea de pedido; relacionar con Clientes por cliente_id y con Productos por producto_id.",
	"Los pedidos cancelados no se incluyen en ningún dataset.",
	"margen_pct es 0 cuando el subtotal es 0. dias_de_stock es N/A cuando no hubo ventas en el período.",
	"Canasta lista pares de productos comprados juntos al menos 2 veces; lift > 1 indica asociación positiva.",
}

// ExportUseCase orquesta la exportación analítica.
type ExportUseCase struct {
	repo   repository.AnalyticsRepository
	names  repository.NameLookup
	writer SheetWriter
	log    zerolog.Logger
	now    func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(repo repository.AnalyticsRepository, names repository.NameLookup, writer SheetWriter, log zerolog.Logger) *ExportUseCase {
	return &ExportUseCase{repo: repo, names: names, writer: writer, log: log, now: time.Now}
}

// ParseRange convierte desde/hasta (YYYY-MM-DD, obligatorios) en el rango semiabierto
// [desde 00:00, día siguiente a hasta 00:00).
func ParseRange(fromStr, toStr string, loc *time.Location) (from, to time.Time, err error) {
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("desde y hasta son obligatorios: %w", domain.ErrInvalidInput)
	}
	from, err = time.ParseInLocation(dateLayout, fromStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("desde inválido: %w", domain.ErrInvalidInput)
	}
	to, err = time.ParseInLocation(dateLayout, toStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("hasta inválido: %w", domain.ErrInvalidInput)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("desde no puede ser posterior a hasta: %w", domain.ErrInvalidInput)
	}
	return from, to.AddDate(0, 0, 1), nil
}

// Export arma el workbook y lo escribe en w. Si cualquier dataset falla no se escribe nada.
func (uc *ExportUseCase) Export(ctx context.Context, req dto.ExportRequest, w io.Writer) (*dto.Workbook, error) {
	wb, err := uc.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := uc.writer.Write(w, wb); err != nil {
		return nil, fmt.Errorf("analytics: escribir workbook: %w", err)
	}
	return wb, nil
}

// Build ejecuta los seis datasets en paralelo y arma las siete hojas (Metadata primero).
func (uc *ExportUseCase) Build(ctx context.Context, req dto.ExportRequest) (*dto.Workbook, error) {
	now := uc.now()
	from, to, err := ParseRange(req.From, req.To, now.Location())
	if err != nil {
		return nil, err
	}

	var (
		sales       []dto.SalesDetailRow
		customers   []dto.CustomerRow
		products    []dto.ProductRow
		purchases   []dto.PurchaseRow
		collections []dto.CollectionRow
		basket      []dto.BasketRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = uc.salesDetail(gctx, from, to)
		return wrap("ventas", err)
	})
	g.Go(func() (err error) {
		customers, err = uc.customerDimension(gctx, from, to, now)
		return wrap("clientes", err)
	})
	g.Go(func() (err error) {
		products, err = uc.productDimension(gctx, from, to)
		return wrap("productos", err)
	})
	g.Go(func() (err error) {
		purchases, err = uc.purchaseFacts(gctx, from, to)
		return wrap("compras", err)
	})
	g.Go(func() (err error) {
		collections, err = uc.collectionFacts(gctx, from, to)
		return wrap("cobranzas", err)
	})
	g.Go(func() (err error) {
		basket, err = uc.basketAnalysis(gctx, from, to)
		return wrap("canasta", err)
	})
	if err := g.Wait(); err != nil {
		uc.log.Error().Err(err).Str("desde", req.From).Str("hasta", req.To).Msg("exportación analítica abortada")
		return nil, err
	}

	data := []dto.Sheet{
		dto.NewSheet(SheetSales, dto.SalesDetailHeaders, sales),
		dto.NewSheet(SheetCustomers, dto.CustomerHeaders, customers),
		dto.NewSheet(SheetProducts, dto.ProductHeaders, products),
		dto.NewSheet(SheetPurchases, dto.PurchaseHeaders, purchases),
		dto.NewSheet(SheetCollections, dto.CollectionHeaders, collections),
		dto.NewSheet(SheetBasket, dto.BasketHeaders, basket),
	}
	sheets := append([]dto.Sheet{metadataSheet(now, from, to, data)}, data...)

	evt := uc.log.Info().Str("desde", req.From).Str("hasta", req.To)
	for _, s := range data {
		evt = evt.Int(s.Name, len(s.Rows))
	}
	evt.Msg("exportación analítica generada")

	return &dto.Workbook{
		FileName: fmt.Sprintf("analytics_%s_%s.xlsx", from.Format(dateLayout), lastDay(to)),
		Sheets:   sheets,
	}, nil
}

func wrap(dataset string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("analytics.%s: %w", dataset, err)
}

// lastDay último día incluido en un rango que termina (exclusivo) en to.
func lastDay(to time.Time) string { return to.AddDate(0, 0, -1).Format(dateLayout) }

func metadataSheet(now, from, to time.Time, data []dto.Sheet) dto.Sheet {
	rows := [][]interface{}{
		{"generado", now.Format("2006-01-02 15:04:05")},
		{"desde", from.Format(dateLayout)},
		{"hasta", lastDay(to)},
	}
	for _, s := range data {
		rows = append(rows, []interface{}{"filas_" + s.Name, len(s.Rows)})
	}
	for _, line := range instructions {
		rows = append(rows, []interface{}{"instrucciones", line})
	}
	return dto.Sheet{Name: SheetMetadata, Headers: []string{"campo", "valor"}, Rows: rows}
}

// activeLines descarta líneas de pedidos cancelados (el repositorio ya las excluye).
func activeLines(lines []repository.SalesLine) []repository.SalesLine {
	out := lines[:0:0]
	for _, l := range lines {
		if l.Status != entity.OrderCancelled {
			out = append(out, l)
		}
	}
	return out
}

// ── Ventas_Detalle ────────────────────────────────────────────────────────────

func (uc *ExportUseCase) salesDetail(ctx context.Context, from, to time.Time) ([]dto.SalesDetailRow, error) {
	lines, err := uc.repo.ListSalesLines(ctx, from, to)
	if err != nil {
		return nil, err
	}
	lines = activeLines(lines)

	// Un único lookup para todos los vendedores y transportistas referenciados.
	seen := make(map[string]struct{})
	var staffIDs []string
	for _, l := range lines {
		for _, id := range []*string{l.SalespersonID, l.CarrierID} {
			if id == nil || *id == "" {
				continue
			}
			if _, ok := seen[*id]; !ok {
				seen[*id] = struct{}{}
				staffIDs = append(staffIDs, *id)
			}
		}
	}
	names := map[string]string{}
	if len(staffIDs) > 0 {
		if names, err = uc.names.StaffNames(ctx, staffIDs); err != nil {
			return nil, err
		}
	}
	nameOf := func(id *string) string {
		if id == nil {
			return ""
		}
		return names[*id]
	}

	rows := make([]dto.SalesDetailRow, 0, len(lines))
	for _, l := range lines {
		cost := l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity)))
		margin := l.Subtotal.Sub(cost)
		rows = append(rows, dto.SalesDetailRow{
			OrderID:       l.OrderID,
			Date:          l.OrderDate,
			Status:        string(l.Status),
			PaymentStatus: string(l.PaymentStatus),
			CustomerID:    l.CustomerID,
			CustomerName:  l.CustomerName,
			Zone:          l.CustomerZone,
			TaxID:         l.CustomerTaxID,
			ProductID:     l.ProductID,
			ProductCode:   l.ProductCode,
			ProductName:   l.ProductName,
			Category:      l.Category,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Subtotal:      l.Subtotal,
			UnitCost:      l.UnitCost,
			Cost:          cost,
			Margin:        margin,
			MarginPct:     metrics.MarginPct(margin, l.Subtotal),
			Salesperson:   nameOf(l.SalespersonID),
			Carrier:       nameOf(l.CarrierID),
		})
	}
	return rows, nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

func (uc *ExportUseCase) customerDimension(ctx context.Context, from, to, now time.Time) ([]dto.CustomerRow, error) {
	customers, err := uc.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := uc.repo.ListOrderHeaders(ctx, from, to)
	if err != nil {
		return nil, err
	}
	lastOrders, err := uc.repo.LastOrderDates(ctx)
	if err != nil {
		return nil, err
	}

	type agg struct {
		orders  int
		revenue decimal.Decimal
	}
	byCustomer := make(map[string]*agg)
	for _, h := range headers {
		if h.Status == entity.OrderCancelled {
			continue
		}
		a, ok := byCustomer[h.CustomerID]
		if !ok {
			a = &agg{}
			byCustomer[h.CustomerID] = a
		}
		a.orders++
		a.revenue = a.revenue.Add(h.Total)
	}

	rows := make([]dto.CustomerRow, 0, len(customers))
	for _, c := range customers {
		a := byCustomer[c.ID]
		if a == nil {
			a = &agg{}
		}
		avg := decimal.Zero
		if a.orders > 0 {
			avg = a.revenue.Div(decimal.NewFromInt(int64(a.orders))).Round(2)
		}
		row := dto.CustomerRow{
			CustomerID:    c.ID,
			Name:          c.Name,
			Zone:          c.Zone,
			PriceList:     c.PriceList,
			TaxID:         c.TaxID,
			Active:        c.Active,
			CreatedAt:     c.CreatedAt,
			Orders:        a.orders,
			Revenue:       a.revenue,
			AverageTicket: avg,
			Segment:       metrics.Segment(a.revenue),
		}
		var last *time.Time
		if t, ok := lastOrders[c.ID]; ok {
			last = &t
			days := metrics.DaysBetween(t, now)
			row.LastOrder = last
			row.DaysSinceLastOrder = &days
		}
		row.Activity = metrics.Activity(c.CreatedAt, last, now)
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Revenue.Equal(rows[j].Revenue) {
			return rows[i].Revenue.GreaterThan(rows[j].Revenue)
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

func (uc *ExportUseCase) productDimension(ctx context.Context, from, to time.Time) ([]dto.ProductRow, error) {
	products, err := uc.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repo.ListSalesLines(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type agg struct {
		qty     int
		revenue decimal.Decimal
		days    map[string]struct{}
	}
	byProduct := make(map[string]*agg)
	for _, l := range activeLines(lines) {
		a, ok := byProduct[l.ProductID]
		if !ok {
			a = &agg{days: make(map[string]struct{})}
			byProduct[l.ProductID] = a
		}
		a.qty += l.Quantity
		a.revenue = a.revenue.Add(l.Subtotal)
		a.days[l.OrderDate.Format(dateLayout)] = struct{}{}
	}

	rows := make([]dto.ProductRow, 0, len(products))
	for _, p := range products {
		a := byProduct[p.ID]
		if a == nil {
			a = &agg{}
		}
		rotation := metrics.Rotation(a.qty, len(a.days))
		rows = append(rows, dto.ProductRow{
			ProductID:   p.ID,
			Code:        p.Code,
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			CostNet:     p.CostNet,
			Stock:       p.Stock,
			MinStock:    p.MinStock,
			LowStock:    p.BelowMinimum(),
			UnitsSold:   a.qty,
			Revenue:     a.revenue,
			SaleDays:    len(a.days),
			Rotation:    rotation,
			DaysOfStock: metrics.DaysOfStock(p.Stock, rotation),
			Velocity:    metrics.Velocity(rotation),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].UnitsSold != rows[j].UnitsSold {
			return rows[i].UnitsSold > rows[j].UnitsSold
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// ── Compras / Cobranzas ───────────────────────────────────────────────────────

func (uc *ExportUseCase) purchaseFacts(ctx context.Context, from, to time.Time) ([]dto.PurchaseRow, error) {
	lines, err := uc.repo.ListPurchaseLines(ctx, from, to)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.PurchaseRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, dto.PurchaseRow{
			PurchaseID:    l.PurchaseID,
			Date:          l.Date,
			Status:        l.Status,
			SupplierID:    l.SupplierID,
			SupplierName:  l.SupplierName,
			SupplierTaxID: l.SupplierTaxID,
			ProductID:     l.ProductID,
			ProductCode:   l.ProductCode,
			ProductName:   l.ProductName,
			Category:      l.Category,
			Quantity:      l.Quantity,
			UnitCost:      l.UnitCost,
			Subtotal:      l.Subtotal,
		})
	}
	return rows, nil
}

func (uc *ExportUseCase) collectionFacts(ctx context.Context, from, to time.Time) ([]dto.CollectionRow, error) {
	records, err := uc.repo.ListCollections(ctx, from, to)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.CollectionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, dto.CollectionRow{
			ID:           r.ID,
			Date:         r.Date,
			CustomerID:   r.CustomerID,
			CustomerName: r.CustomerName,
			Zone:         r.CustomerZone,
			OrderID:      r.OrderID,
			Carrier:      r.CarrierName,
			Amount:       r.Amount,
			Method:       r.Method,
		})
	}
	return rows, nil
}

// ── Canasta ───────────────────────────────────────────────────────────────────

func (uc *ExportUseCase) basketAnalysis(ctx context.Context, from, to time.Time) ([]dto.BasketRow, error) {
	lines, err := uc.repo.ListSalesLines(ctx, from, to)
	if err != nil {
		return nil, err
	}
	orders := make(map[string][]string)
	for _, l := range activeLines(lines) {
		orders[l.OrderID] = append(orders[l.OrderID], l.ProductID)
	}
	pairs := metrics.Basket(orders)
	if len(pairs) == 0 {
		return []dto.BasketRow{}, nil
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, p := range pairs {
		for _, id := range []string{p.ProductA, p.ProductB} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	names, err := uc.names.ProductNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.BasketRow, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, dto.BasketRow{
			ProductAID:   p.ProductA,
			ProductA:     names[p.ProductA],
			ProductBID:   p.ProductB,
			ProductB:     names[p.ProductB],
			Frequency:    p.Frequency,
			Support:      p.Support,
			ConfidenceAB: p.ConfidenceAB,
			ConfidenceBA: p.ConfidenceBA,
			Lift:         p.Lift,
			Strength:     p.Strength,
		})
	}
	return rows, nil
}
