package model

// UserRole gates which parts of the tool a user may use.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleLocation UserRole = "LOCATION"
)

// User is an entry in the configured user list. Password is compared in
// plaintext; this is a gate, not a security boundary.
type User struct {
	ID       string   `yaml:"id" validate:"required"`
	Username string   `yaml:"username" validate:"required"`
	Password string   `yaml:"password"`
	Role     UserRole `yaml:"role" validate:"required,oneof=ADMIN LOCATION"`
	Location Location `yaml:"location,omitempty" validate:"required_if=Role LOCATION"`
}

// IsAdmin reports whether the user has full access.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
