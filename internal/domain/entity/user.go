package entity

import "time"

// Role es el rol de un usuario. Solo se valida en la capa HTTP.
type Role string

// Roles válidos para User.
const (
	RoleManager     Role = "manager"
	RoleStorekeeper Role = "storekeeper"
)

// ParseRole convierte un texto en Role; ok es false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleManager, RoleStorekeeper:
		return r, true
	}
	return "", false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         Role
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
