package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (tabla productos).
// Stock es un entero >= 0; solo lo modifican los procedimientos remotos descontar_stock/restaurar_stock.
type Product struct {
	ID        string          `db:"id"`
	Name      string          `db:"nombre"`
	Code      string          `db:"codigo"`
	Category  string          `db:"categoria"`
	Price     decimal.Decimal `db:"precio"`
	Stock     int             `db:"stock"`
	MinStock  int             `db:"stock_minimo"`
	CostNet   decimal.Decimal `db:"costo_sin_iva"` // costo sin IVA
	CostGross decimal.Decimal `db:"costo_con_iva"` // costo con IVA
	Active    bool            `db:"activo"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// BelowMinimum indica si el stock está en o por debajo del mínimo configurado.
func (p *Product) BelowMinimum() bool {
	return p.Stock <= p.MinStock
}
