package model

type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleMainAdmin Role = "main_admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleMainAdmin:
		return true
	}
	return false
}

// IsAdmin is true for admin and main_admin
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleMainAdmin
}

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
	CreatedAt    int64  `json:"createdAt"` // unix millis
}

// PublicUser is a User without its credential
type PublicUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt int64  `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Session points at the authenticated user. Older data stored the whole user
// object here; only its id is read back.
type Session struct {
	UserID     string `json:"id"`
	LoggedInAt int64  `json:"loggedInAt,omitempty"`
}
