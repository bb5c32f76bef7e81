package entity

// User credenciales de acceso vinculadas a un perfil del personal.
type User struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	ProfileID    string `db:"perfil_id"`
	Role         string `db:"rol"` // admin, vendedor, transportista
	Active       bool   `db:"activo"`
}

// StaffMember perfil del personal (vendedores, transportistas, administradores).
type StaffMember struct {
	ID   string `db:"id"`
	Name string `db:"nombre"`
	Role string `db:"rol"`
}
