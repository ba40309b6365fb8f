package models

import "time"

// UserRole represents the closed set of application roles.
type UserRole string

const (
	RoleFarmManager      UserRole = "farmManager"
	RoleVaccinationAgent UserRole = "vaccinationAgent"
	RoleFedeganManager   UserRole = "fedeganManager"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleFarmManager, RoleVaccinationAgent, RoleFedeganManager:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Phone        string     `db:"phone" json:"phone"`
	Birthdate    string     `db:"birthdate" json:"birthdate"`
	Role         UserRole   `db:"role" json:"role"`
	FarmID       *string    `db:"farm_id" json:"farm_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
