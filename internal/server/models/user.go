package models

import "time"

// Role is a user's authorization level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is what request handlers see of an authenticated user. It is
// rebuilt from the user store on every request.
type Identity struct {
	ID           string `json:"id"`
	UserName     string `json:"username"`
	Role         Role   `json:"role"`
	SessionToken string `json:"-"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// AdminIdentity is an Identity whose role has been checked to be admin.
type AdminIdentity struct {
	Identity
}
