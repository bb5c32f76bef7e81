package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una rendición de caja del transportista.
const (
	SettlementPending   = "pendiente"
	SettlementPresented = "presentada"
	SettlementApproved  = "aprobada"
	SettlementRejected  = "rechazada"
	SettlementObserved  = "observada"
)

// Settlement rendición de caja de un transportista (tabla rendiciones).
type Settlement struct {
	ID          string          `db:"id" json:"id"`
	CarrierID   string          `db:"transportista_id" json:"transportista_id"`
	Date        time.Time       `db:"fecha" json:"fecha"`
	TotalAmount decimal.Decimal `db:"monto_total" json:"monto_total"`
	Status      string          `db:"estado" json:"estado"`
	Notes       string          `db:"observaciones" json:"observaciones"`
	ReviewedBy  *string         `db:"revisado_por" json:"revisado_por"`
	ReviewedAt  *time.Time      `db:"revisado_at" json:"revisado_at"`
}

// Estados de una salvedad de entrega.
const (
	ExceptionPending  = "pendiente"
	ExceptionResolved = "resuelta"
)

// DeliveryException salvedad registrada en una entrega (faltante, rechazo, producto dañado).
type DeliveryException struct {
	ID         string     `db:"id" json:"id"`
	OrderID    string     `db:"pedido_id" json:"pedido_id"`
	ProductID  *string    `db:"producto_id" json:"producto_id"`
	Quantity   int        `db:"cantidad" json:"cantidad"`
	Reason     string     `db:"motivo" json:"motivo"`
	Status     string     `db:"estado" json:"estado"`
	Resolution string     `db:"resolucion" json:"resolucion"`
	ResolvedBy *string    `db:"resuelto_por" json:"resuelto_por"`
	ResolvedAt *time.Time `db:"resuelto_at" json:"resuelto_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
