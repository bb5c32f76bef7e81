package entity

import "time"

// Shrinkage registro de merma (rotura, vencimiento, robo...). Solo se crea después de
// que el descuento de stock correspondiente fue exitoso.
type Shrinkage struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"producto_id" json:"producto_id"`
	Quantity  int       `db:"cantidad" json:"cantidad"`
	Reason    string    `db:"motivo" json:"motivo"`
	Notes     string    `db:"observaciones" json:"observaciones"`
	UserID    *string   `db:"usuario_id" json:"usuario_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
