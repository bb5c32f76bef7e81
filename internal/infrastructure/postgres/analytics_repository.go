package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para la exportación analítica.
type AnalyticsRepo struct {
	q         Querier
	customers *Table[entity.Customer]
	products  *Table[entity.Product]
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{
		q:         q,
		customers: NewTable[entity.Customer](q, "clientes", customerColumns, "nombre"),
		products:  NewTable[entity.Product](q, "productos", productColumns, "nombre"),
	}
}

func collect[T any](ctx context.Context, q Querier, name, query string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.%s: %w", name, err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, fmt.Errorf("analytics.%s scan: %w", name, err)
	}
	return list, nil
}

// ListSalesLines una fila por línea de pedido no cancelado, con cliente y producto unidos.
func (r *AnalyticsRepo) ListSalesLines(ctx context.Context, from, to time.Time) ([]repository.SalesLine, error) {
	const query = `
	SELECT
	    p.id                                  AS pedido_id,
	    p.created_at                          AS fecha,
	    p.estado                              AS estado,
	    COALESCE(p.estado_pago, 'pendiente')  AS estado_pago,
	    p.cliente_id                          AS cliente_id,
	    COALESCE(c.nombre, '')                AS cliente_nombre,
	    COALESCE(c.zona, '')                  AS cliente_zona,
	    COALESCE(c.cuit, '')                  AS cliente_cuit,
	    i.producto_id                         AS producto_id,
	    COALESCE(pr.codigo, '')               AS producto_codigo,
	    COALESCE(pr.nombre, '')               AS producto_nombre,
	    COALESCE(pr.categoria, '')            AS categoria,
	    i.cantidad                            AS cantidad,
	    i.precio_unitario                     AS precio_unitario,
	    i.subtotal                            AS subtotal,
	    COALESCE(pr.costo_sin_iva, 0)         AS costo_unitario,
	    p.vendedor_id                         AS vendedor_id,
	    p.transportista_id                    AS transportista_id
	FROM pedidos p
	JOIN pedido_items   i  ON i.pedido_id = p.id
	LEFT JOIN clientes  c  ON c.id        = p.cliente_id
	LEFT JOIN productos pr ON pr.id       = i.producto_id
	WHERE p.created_at >= $1 AND p.created_at < $2
	  AND p.estado <> 'cancelado'
	ORDER BY p.created_at, p.id, pr.nombre`
	return collect[repository.SalesLine](ctx, r.q, "ListSalesLines", query, from, to)
}

// ListOrderHeaders cabeceras de pedidos no cancelados del rango.
func (r *AnalyticsRepo) ListOrderHeaders(ctx context.Context, from, to time.Time) ([]repository.OrderHeader, error) {
	const query = `
	SELECT id, cliente_id, estado, total, created_at
	FROM pedidos
	WHERE created_at >= $1 AND created_at < $2
	  AND estado <> 'cancelado'`
	return collect[repository.OrderHeader](ctx, r.q, "ListOrderHeaders", query, from, to)
}

// LastOrderDates último pedido no cancelado por cliente, sobre todo el histórico.
func (r *AnalyticsRepo) LastOrderDates(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.q.Query(ctx, `
		SELECT cliente_id, MAX(created_at)
		FROM pedidos
		WHERE estado <> 'cancelado'
		GROUP BY cliente_id`)
	if err != nil {
		return nil, fmt.Errorf("analytics.LastOrderDates: %w", err)
	}
	defer rows.Close()
	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			id   string
			last time.Time
		)
		if err := rows.Scan(&id, &last); err != nil {
			return nil, fmt.Errorf("analytics.LastOrderDates scan: %w", err)
		}
		out[id] = last
	}
	return out, rows.Err()
}

// ListCustomers todos los clientes (dimensión completa).
func (r *AnalyticsRepo) ListCustomers(ctx context.Context) ([]*entity.Customer, error) {
	return r.customers.All(ctx, ListOptions{})
}

// ListProducts todos los productos (dimensión completa).
func (r *AnalyticsRepo) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	return r.products.All(ctx, ListOptions{})
}

// ListPurchaseLines una fila por línea de compra del rango, con proveedor y producto unidos.
func (r *AnalyticsRepo) ListPurchaseLines(ctx context.Context, from, to time.Time) ([]repository.PurchaseLine, error) {
	const query = `
	SELECT
	    co.id                        AS compra_id,
	    co.created_at                AS fecha,
	    COALESCE(co.estado, '')      AS estado,
	    co.proveedor_id              AS proveedor_id,
	    COALESCE(pv.nombre, '')      AS proveedor_nombre,
	    COALESCE(pv.cuit, '')        AS proveedor_cuit,
	    ci.producto_id               AS producto_id,
	    COALESCE(pr.codigo, '')      AS producto_codigo,
	    COALESCE(pr.nombre, '')      AS producto_nombre,
	    COALESCE(pr.categoria, '')   AS categoria,
	    ci.cantidad                  AS cantidad,
	    ci.costo_unitario            AS costo_unitario,
	    ci.subtotal                  AS subtotal
	FROM compras co
	JOIN compra_items     ci ON ci.compra_id = co.id
	LEFT JOIN proveedores pv ON pv.id        = co.proveedor_id
	LEFT JOIN productos   pr ON pr.id        = ci.producto_id
	WHERE co.created_at >= $1 AND co.created_at < $2
	ORDER BY co.created_at, co.id`
	return collect[repository.PurchaseLine](ctx, r.q, "ListPurchaseLines", query, from, to)
}

// ListCollections cobros del rango con cliente y transportista.
func (r *AnalyticsRepo) ListCollections(ctx context.Context, from, to time.Time) ([]repository.CollectionRecord, error) {
	const query = `
	SELECT
	    cb.id                       AS id,
	    cb.created_at               AS fecha,
	    cb.cliente_id               AS cliente_id,
	    COALESCE(c.nombre, '')      AS cliente_nombre,
	    COALESCE(c.zona, '')        AS cliente_zona,
	    cb.pedido_id                AS pedido_id,
	    COALESCE(t.nombre, '')      AS transportista_nombre,
	    cb.monto                    AS monto,
	    COALESCE(cb.metodo, '')     AS metodo
	FROM cobros cb
	LEFT JOIN clientes c ON c.id = cb.cliente_id
	LEFT JOIN perfiles t ON t.id = cb.transportista_id
	WHERE cb.created_at >= $1 AND cb.created_at < $2
	ORDER BY cb.created_at`
	return collect[repository.CollectionRecord](ctx, r.q, "ListCollections", query, from, to)
}
