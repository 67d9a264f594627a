// Package auth checks credentials against the configured user list and gates
// what each role may do. Passwords are compared in plaintext.
package auth

import (
	"errors"
	"fmt"

	"github.com/stockledger/stockledger/internal/model"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrForbidden is returned when a user's role does not allow a view.
	ErrForbidden = errors.New("forbidden")
)

// View names a part of the tool.
type View string

const (
	ViewDashboard      View = "dashboard"
	ViewAccounts       View = "accounts"
	ViewTransactions   View = "transactions"
	ViewInventory      View = "inventory"
	ViewReconciliation View = "reconciliation"
	ViewReports        View = "reports"
	ViewData           View = "data" // import and export
)

// Service authenticates against a fixed user list.
type Service struct {
	users []model.User
}

// NewService creates a Service over users.
func NewService(users []model.User) *Service {
	return &Service{users: users}
}

// Authenticate returns the user matching username and password.
func (s *Service) Authenticate(username, password string) (model.User, error) {
	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			return u, nil
		}
	}
	return model.User{}, ErrInvalidCredentials
}

// CanAccess reports whether user may use view. Location users only see
// inventory; admins see everything.
func CanAccess(user model.User, view View) bool {
	if user.IsAdmin() {
		return true
	}
	return user.Role == model.RoleLocation && view == ViewInventory
}

// Authorize returns ErrForbidden when user may not use view.
func Authorize(user model.User, view View) error {
	if !CanAccess(user, view) {
		return fmt.Errorf("%s cannot access %s: %w", user.Username, view, ErrForbidden)
	}
	return nil
}
