package model

import "time"

// Roles stored in users.role and carried in the JWT "role" claim.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an account that can browse the catalog, rate cars and place
// orders.  Administrators additionally moderate orders, galleries and
// reviews.  Only the bcrypt hash of the password is ever stored.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash
	Role         string    // users.role (USER | ADMIN)
	FullName     string    // users.full_name
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
}
