package data

import (
	"errors"
	"time"

	"github.com/emzola/athenaeum/internal/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
)

var Roles = []string{RoleAdmin, RoleLibrarian}

var AnonymousAdmin = &Admin{}

// IsAnonymous reports whether the admin is the anonymous placeholder used for
// unauthenticated requests.
func (a *Admin) IsAnonymous() bool {
	return a == AnonymousAdmin
}

// Admin defines a member of staff allowed to use the API.
type Admin struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  password  `json:"-"`
	Role      string    `json:"role"`
	Activated bool      `json:"activated"`
	Version   int32     `json:"-"`
}

// HasRole reports whether the admin holds one of roles. Admins hold every role.
func (a *Admin) HasRole(roles ...string) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return validator.In(a.Role, roles...)
}

// password defines the plaintext and hashed versions of an admin's password.
// The plaintext field is a pointer so that a missing password can be told
// apart from an empty one.
type password struct {
	Plaintext *string
	Hash      []byte
}

// Set calculates the bcrypt hash of a plaintext password.
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}
	p.Plaintext = &plaintextPassword
	p.Hash = hash
	return nil
}

// Matches checks whether the provided plaintext password matches the stored hash.
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

func ValidateAdmin(v *validator.Validator, admin *Admin) {
	v.Check(admin.Name != "", "name", "must be provided")
	v.Check(len(admin.Name) <= 500, "name", "must not be more than 500 bytes long")
	ValidateEmail(v, admin.Email)
	v.Check(validator.In(admin.Role, Roles...), "role", "must be admin or librarian")
	if admin.Password.Plaintext != nil {
		ValidatePasswordPlaintext(v, *admin.Password.Plaintext)
	}
	if admin.Password.Hash == nil {
		panic("missing password hash for admin")
	}
}
