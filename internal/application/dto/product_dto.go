package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name      string          `json:"nombre" validate:"required,max=200"`
	Code      string          `json:"codigo" validate:"required,max=50"`
	Category  string          `json:"categoria" validate:"omitempty,max=100"`
	Price     decimal.Decimal `json:"precio" validate:"gte=0"`
	Stock     int             `json:"stock" validate:"gte=0"`
	MinStock  int             `json:"stock_minimo" validate:"gte=0"`
	CostNet   decimal.Decimal `json:"costo_sin_iva" validate:"gte=0"`
	CostGross decimal.Decimal `json:"costo_con_iva" validate:"gte=0"`
	Active    *bool           `json:"activo,omitempty"`
}

// UpdateProductRequest actualización parcial. El stock no se edita aquí: solo vía reservas, liberaciones y mermas.
type UpdateProductRequest struct {
	Name      *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Code      *string          `json:"codigo" validate:"omitempty,min=1,max=50"`
	Category  *string          `json:"categoria" validate:"omitempty,max=100"`
	Price     *decimal.Decimal `json:"precio" validate:"omitempty,gte=0"`
	MinStock  *int             `json:"stock_minimo" validate:"omitempty,gte=0"`
	CostNet   *decimal.Decimal `json:"costo_sin_iva" validate:"omitempty,gte=0"`
	CostGross *decimal.Decimal `json:"costo_con_iva" validate:"omitempty,gte=0"`
	Active    *bool            `json:"activo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"nombre"`
	Code      string          `json:"codigo"`
	Category  string          `json:"categoria"`
	Price     decimal.Decimal `json:"precio"`
	Stock     int             `json:"stock"`
	MinStock  int             `json:"stock_minimo"`
	CostNet   decimal.Decimal `json:"costo_sin_iva"`
	CostGross decimal.Decimal `json:"costo_con_iva"`
	Active    bool            `json:"activo"`
	LowStock  bool            `json:"stock_bajo"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PriceItem nuevo precio para un producto.
type PriceItem struct {
	ProductID string          `json:"producto_id" validate:"required"`
	Price     decimal.Decimal `json:"precio" validate:"gte=0"`
}

// UpdatePricesRequest body para POST /api/productos/precios.
type UpdatePricesRequest struct {
	Items []PriceItem `json:"items" validate:"required,min=1,dive"`
}

// UpdatePricesResponse Fallback indica que se actualizó fila por fila porque el procedimiento masivo no existe.
type UpdatePricesResponse struct {
	Updated  int  `json:"actualizados"`
	Fallback bool `json:"fallback"`
}
