package domain

import "github.com/govalues/decimal"

type Role string

const (
	RoleMaster       Role = "MASTER"
	RoleIntermediary Role = "INTERMEDIARY"
	RoleAdmin        Role = "ADMIN"
)

type User struct {
	ID          uint64
	Phone       string
	Password    string
	FirstName   string
	LastName    string
	Role        Role
	Balance     decimal.Decimal
	Rating      decimal.Decimal
	RatingCount uint32
}

// Actor is the authenticated identity every operation receives explicitly.
// There is no ambient "current user" anywhere below the HTTP layer.
type Actor struct {
	UserID uint64
	Role   Role
}
