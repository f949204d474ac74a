package domain

import "time"

// UserRole is the back-office role of a user.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleStaff   UserRole = "staff"
)

// User is a back-office account allowed to call the API.
type User struct {
	ID        string
	Name      string
	Token     string
	Role      UserRole
	IsActive  bool
	CreatedAt time.Time
}

// CanManage reports whether the role may cancel or reassign tasks it did not create.
func (r UserRole) CanManage() bool {
	return r == UserRoleAdmin || r == UserRoleManager
}
