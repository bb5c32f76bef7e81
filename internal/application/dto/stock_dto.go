package dto

import (
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// StockItemsRequest body para POST /api/stock/disponibilidad y /liberar.
type StockItemsRequest struct {
	Items []entity.StockItem `json:"items"`
}

// ReserveRequest body para POST /api/stock/reservar. Validate nil = true.
type ReserveRequest struct {
	Items    []entity.StockItem `json:"items"`
	Validate *bool              `json:"validar,omitempty"`
}

// Availability resultado de verificar disponibilidad.
type Availability struct {
	OK         bool               `json:"ok"`
	Shortfalls []entity.Shortfall `json:"faltantes"`
}

// ShrinkageRequest alta de una merma.
type ShrinkageRequest struct {
	ProductID string `json:"producto_id" validate:"required"`
	Quantity  int    `json:"cantidad" validate:"gt=0"`
	Reason    string `json:"motivo" validate:"required"`
	Notes     string `json:"observaciones"`
	UserID    string `json:"-"`
}

// LowStockItem producto en o por debajo del umbral.
type LowStockItem struct {
	ProductID string `json:"producto_id"`
	Code      string `json:"codigo"`
	Name      string `json:"nombre"`
	Category  string `json:"categoria"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"stock_minimo"`
	Threshold int    `json:"umbral"`
	Deficit   int    `json:"deficit"`
}

// MovementsSummary salidas de un producto en un rango: ventas y mermas.
type MovementsSummary struct {
	ProductID      string             `json:"producto_id"`
	From           time.Time          `json:"desde"`
	To             time.Time          `json:"hasta"`
	UnitsSold      int                `json:"unidades_vendidas"`
	Orders         int                `json:"pedidos"`
	ShrinkageUnits int                `json:"unidades_merma"`
	ShrinkageCount int                `json:"mermas"`
	TotalOutflow   int                `json:"salida_total"`
	Shrinkage      []entity.Shrinkage `json:"detalle_mermas"`
}
