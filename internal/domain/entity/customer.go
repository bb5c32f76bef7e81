package entity

import "time"

// Customer representa un cliente (tabla clientes).
type Customer struct {
	ID        string    `db:"id"`
	Name      string    `db:"nombre"`
	Address   string    `db:"direccion"`
	Phone     string    `db:"telefono"`
	Email     string    `db:"email"`
	TaxID     string    `db:"cuit"` // CUIT/CUIL o DNI
	Zone      string    `db:"zona"`
	PriceList string    `db:"lista_precio"`
	Active    bool      `db:"activo"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
