package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// Procedimientos remotos.
const (
	fnDecrementStock   = "descontar_stock"
	fnRestoreStock     = "restaurar_stock"
	fnCreateOrder      = "crear_pedido"
	fnReplaceItems     = "actualizar_items_pedido"
	fnDeliveryOrder    = "actualizar_orden_entrega"
	fnBatchPriceUpdate = "actualizar_precios_masivo"
)

var (
	_ repository.StockGateway = (*StockGateway)(nil)
	_ repository.OrderGateway = (*OrderGateway)(nil)
	_ repository.PriceGateway = (*PriceGateway)(nil)
)

// StockGateway primitivas atómicas de stock.
type StockGateway struct {
	rpc *RPCClient
}

// NewStockGateway construye el gateway de stock.
func NewStockGateway(rpc *RPCClient) *StockGateway {
	return &StockGateway{rpc: rpc}
}

// Decrement descuenta todas las filas o ninguna.
func (g *StockGateway) Decrement(ctx context.Context, items []entity.StockItem) error {
	_, err := g.rpc.Call(ctx, fnDecrementStock, Param{"p_items", items})
	return err
}

// Restore devuelve las cantidades al stock.
func (g *StockGateway) Restore(ctx context.Context, items []entity.StockItem) error {
	_, err := g.rpc.Call(ctx, fnRestoreStock, Param{"p_items", items})
	return err
}

// OrderGateway alta y edición atómica de pedidos.
type OrderGateway struct {
	rpc *RPCClient
}

// NewOrderGateway construye el gateway de pedidos.
func NewOrderGateway(rpc *RPCClient) *OrderGateway {
	return &OrderGateway{rpc: rpc}
}

// CreateOrder inserta cabecera e ítems; el total lo calcula el procedimiento.
func (g *OrderGateway) CreateOrder(ctx context.Context, in repository.NewOrder) (string, error) {
	var salesperson *string
	if in.SalespersonID != "" {
		salesperson = &in.SalespersonID
	}
	raw, err := g.rpc.Call(ctx, fnCreateOrder,
		Param{"p_cliente_id", in.CustomerID},
		Param{"p_vendedor_id", salesperson},
		Param{"p_items", in.Items},
		Param{"p_notas", in.Notes},
	)
	if err != nil {
		return "", err
	}
	var out struct {
		OrderID string `json:"pedido_id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.OrderID == "" {
		return "", &domain.RPCError{Function: fnCreateOrder, Message: "respuesta sin pedido_id"}
	}
	return out.OrderID, nil
}

// ReplaceItems reemplaza los ítems del pedido y recalcula el total.
func (g *OrderGateway) ReplaceItems(ctx context.Context, orderID string, items []repository.NewOrderItem) error {
	_, err := g.rpc.Call(ctx, fnReplaceItems, Param{"p_pedido_id", orderID}, Param{"p_items", items})
	return err
}

// BatchDeliveryPositions actualiza el orden de entrega de varios pedidos en una sola transacción.
func (g *OrderGateway) BatchDeliveryPositions(ctx context.Context, positions []repository.DeliveryPosition) error {
	_, err := g.rpc.Call(ctx, fnDeliveryOrder, Param{"p_ordenes", positions})
	return err
}

// PriceGateway actualización masiva de precios.
type PriceGateway struct {
	rpc *RPCClient
}

// NewPriceGateway construye el gateway de precios.
func NewPriceGateway(rpc *RPCClient) *PriceGateway {
	return &PriceGateway{rpc: rpc}
}

// BatchUpdatePrices aplica todos los precios o ninguno.
func (g *PriceGateway) BatchUpdatePrices(ctx context.Context, updates []repository.PriceUpdate) error {
	if _, err := g.rpc.Call(ctx, fnBatchPriceUpdate, Param{"p_precios", updates}); err != nil {
		return fmt.Errorf("precios: %w", err)
	}
	return nil
}
