package models

import "time"

// RoleAdmin is the only role currently written to partitions.
const RoleAdmin = "admin"

// AdminAccount is an administrator record stored inside an organization's
// partition. Only the bcrypt hash of the password is persisted.
type AdminAccount struct {
	Email        string    `db:"email"         json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role"          json:"role"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}
