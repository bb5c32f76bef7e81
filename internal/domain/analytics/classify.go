// Package analytics reúne las clasificaciones de umbral fijo y el análisis de canasta
// usados por la exportación analítica. Funciones puras, sin I/O.
package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Segmentos de valor del cliente según facturación en el período.
const (
	SegmentHigh   = "Alto"
	SegmentMedium = "Medio"
	SegmentLow    = "Bajo"
)

// Estados de actividad del cliente según antigüedad y recencia.
const (
	ActivityNew      = "Nuevo"
	ActivityActive   = "Activo"
	ActivityAtRisk   = "En riesgo"
	ActivityInactive = "Inactivo"
)

// Velocidad de venta del producto según rotación diaria.
const (
	VelocityFast   = "Rapida"
	VelocityMedium = "Media"
	VelocitySlow   = "Lenta"
)

// NotAvailable centinela de días de stock cuando no hay rotación.
const NotAvailable = "N/A"

var (
	segmentHighThreshold   = decimal.NewFromInt(100000)
	segmentMediumThreshold = decimal.NewFromInt(50000)
	hundred                = decimal.NewFromInt(100)
)

const (
	newCustomerDays = 30
	activeDays      = 30
	atRiskDays      = 90

	fastRotation   = 10.0
	mediumRotation = 3.0
)

// Segment clasifica por facturación: > 100000 Alto, > 50000 Medio, resto Bajo.
func Segment(revenue decimal.Decimal) string {
	switch {
	case revenue.GreaterThan(segmentHighThreshold):
		return SegmentHigh
	case revenue.GreaterThan(segmentMediumThreshold):
		return SegmentMedium
	default:
		return SegmentLow
	}
}

// DaysBetween días completos transcurridos entre from y to (0 si to es anterior).
func DaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// Activity clasifica al cliente. Un alta de hace <= 30 días es Nuevo aunque ya tenga pedidos;
// sin pedidos y con más antigüedad es Inactivo.
func Activity(createdAt time.Time, lastOrder *time.Time, now time.Time) string {
	if !createdAt.IsZero() && DaysBetween(createdAt, now) <= newCustomerDays {
		return ActivityNew
	}
	if lastOrder == nil {
		return ActivityInactive
	}
	switch days := DaysBetween(*lastOrder, now); {
	case days <= activeDays:
		return ActivityActive
	case days <= atRiskDays:
		return ActivityAtRisk
	default:
		return ActivityInactive
	}
}

// Velocity clasifica por rotación diaria: > 10 Rapida, > 3 Media, resto Lenta.
func Velocity(rotation float64) string {
	switch {
	case rotation > fastRotation:
		return VelocityFast
	case rotation > mediumRotation:
		return VelocityMedium
	default:
		return VelocitySlow
	}
}

// Rotation unidades vendidas por día con venta; 0 si no hubo días con venta.
func Rotation(quantity, saleDays int) float64 {
	if saleDays <= 0 {
		return 0
	}
	return Round(float64(quantity)/float64(saleDays), 2)
}

// DaysOfStock stock / rotación redondeado a 1 decimal, o NotAvailable si la rotación es 0.
func DaysOfStock(stock int, rotation float64) any {
	if rotation <= 0 {
		return NotAvailable
	}
	return Round(float64(stock)/rotation, 1)
}

// MarginPct margen / subtotal * 100 con 2 decimales; exactamente 0 cuando el subtotal es 0.
func MarginPct(margin, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	return margin.Div(subtotal).Mul(hundred).Round(2)
}

// Round redondeo half-away-from-zero a n decimales.
func Round(v float64, n int) float64 {
	p := math.Pow(10, float64(n))
	return math.Round(v*p) / p
}
