package entity

// StockItem par producto/cantidad usado en reservas, liberaciones y verificaciones.
// No se persiste; viaja como JSON a los procedimientos de stock.
type StockItem struct {
	ProductID string `json:"producto_id"`
	Quantity  int    `json:"cantidad"`
}

// Motivos de faltante.
const (
	ShortfallNotFound     = "no encontrado"
	ShortfallInsufficient = "stock insuficiente"
)

// Shortfall faltante de stock para un producto solicitado.
// Un producto inexistente se reporta con disponible 0.
type Shortfall struct {
	ProductID   string `json:"producto_id"`
	ProductName string `json:"nombre,omitempty"`
	Available   int    `json:"disponible"`
	Requested   int    `json:"solicitado"`
	Reason      string `json:"motivo"`
}
