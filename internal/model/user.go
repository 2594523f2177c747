package model

import "time"

// Roles recognised by the application.  Interns book seats; admins manage
// the seat inventory.  Admins are only created by the seed command.
const (
	RoleIntern = "Intern"
	RoleAdmin  = "Admin"
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  PasswordHash is never serialised.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name used in notifications.
//  Email        – unique, domain-restricted email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – Intern or Admin.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `db:"id" json:"id"`                 // users.id
	Name         string    `db:"name" json:"name"`             // users.name
	Email        string    `db:"email" json:"email"`           // users.email
	PasswordHash string    `db:"password_hash" json:"-"`       // users.password_hash
	Role         string    `db:"role" json:"role"`             // users.role
	CreatedAt    time.Time `db:"created_at" json:"created_at"` // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     `db:"id"`         // refresh_tokens.id
	UserID    uint64     `db:"user_id"`    // refresh_tokens.user_id
	TokenHash string     `db:"token_hash"` // refresh_tokens.token_hash
	ExpiresAt time.Time  `db:"expires_at"` // refresh_tokens.expires_at
	RevokedAt *time.Time `db:"revoked_at"` // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  `db:"created_at"` // refresh_tokens.created_at
}
