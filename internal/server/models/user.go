// Package models holds the persisted entities of the backend. Wire names are
// Spanish because existing clients of the Rueda Verde API speak them.
package models

import "time"

// Role classifies an account within the tire-recycling chain. The set is
// closed: anything else is rejected at registration.
type Role string

const (
	RoleGenerador     Role = "generador"
	RoleRecolector    Role = "recolector"
	RoleTransformador Role = "transformador"
	RoleAdmin         Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGenerador, RoleRecolector, RoleTransformador, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account. PasswordHash never crosses the API boundary:
// the json tag excludes it structurally instead of relying on every handler
// to strip it.
type User struct {
	ID           string    `json:"id"`
	Nombre       string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Rol          Role      `json:"rol"`
	Empresa      string    `json:"empresa"`
	Telefono     string    `json:"telefono"`
	Direccion    string    `json:"direccion"`
	Ciudad       string    `json:"ciudad"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the mutable profile fields. Email is absent on
// purpose: it is immutable after registration and any submitted value is
// dropped before the update is applied.
type ProfileUpdate struct {
	Nombre    *string `json:"nombre"`
	Empresa   *string `json:"empresa"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
	Ciudad    *string `json:"ciudad"`
}
