package model

type Role string

const (
	RoleUser   Role = "user"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

// Auth is the caller identity taken from the bearer token. It is passed into
// usecases explicitly instead of living in a global session.
type Auth struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

func (a *Auth) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
