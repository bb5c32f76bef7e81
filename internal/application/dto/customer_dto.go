package dto

import "time"

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name      string `json:"nombre" validate:"required,max=200"`
	Address   string `json:"direccion" validate:"required,max=300"`
	Phone     string `json:"telefono" validate:"omitempty,telefono"`
	Email     string `json:"email" validate:"omitempty,email"`
	TaxID     string `json:"cuit" validate:"omitempty,max=20"`
	Zone      string `json:"zona" validate:"omitempty,max=100"`
	PriceList string `json:"lista_precio" validate:"omitempty,max=50"`
	Active    *bool  `json:"activo,omitempty"`
}

// UpdateCustomerRequest actualización parcial de un cliente.
type UpdateCustomerRequest struct {
	Name      *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	Address   *string `json:"direccion" validate:"omitempty,min=1,max=300"`
	Phone     *string `json:"telefono" validate:"omitempty,telefono"`
	Email     *string `json:"email" validate:"omitempty,email"`
	TaxID     *string `json:"cuit" validate:"omitempty,max=20"`
	Zone      *string `json:"zona" validate:"omitempty,max=100"`
	PriceList *string `json:"lista_precio" validate:"omitempty,max=50"`
	Active    *bool   `json:"activo"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Address   string    `json:"direccion"`
	Phone     string    `json:"telefono"`
	Email     string    `json:"email"`
	TaxID     string    `json:"cuit"`
	Zone      string    `json:"zona"`
	PriceList string    `json:"lista_precio"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
