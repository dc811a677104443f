package core

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/badoux/checkmail"
)

const MinPasswordLength = 8

// User owns credentials. HashedPassword never leaves the process.
type User struct {
	Base
	Email          string `json:"email"`
	Name           string `json:"name"`
	HashedPassword string `json:"-"`
}

type UserCreate struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (in *UserCreate) Normalize() {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
}

func (in UserCreate) Validate() error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validateName("name", in.Name, MaxNameLength); err != nil {
		return err
	}
	return validatePassword(in.Password)
}

// NewUser builds the entity to insert from an already hashed password.
func NewUser(in UserCreate, hashed string, now time.Time) User {
	return User{
		Base:           NewBase(now),
		Email:          in.Email,
		Name:           in.Name,
		HashedPassword: hashed,
	}
}

type UserUpdate struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (p *UserUpdate) Normalize() {
	if p.Email != nil {
		*p.Email = normalizeEmail(*p.Email)
	}
	trimPtr(p.Name)
}

func (p UserUpdate) Validate() error {
	if p.Email != nil {
		if err := validateEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Name != nil {
		if err := validateName("name", *p.Name, MaxNameLength); err != nil {
			return err
		}
	}
	if p.Password != nil {
		return validatePassword(*p.Password)
	}
	return nil
}

// Apply copies email and name. The password is hashed by the service.
func (p UserUpdate) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
}

func normalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func validateEmail(v string) error {
	if v == "" {
		return NewValidationError("email", "is required")
	}
	if err := checkmail.ValidateFormat(v); err != nil {
		return NewValidationError("email", "is not a valid email address")
	}
	return nil
}

func validatePassword(v string) error {
	if utf8.RuneCountInString(v) < MinPasswordLength {
		return NewValidationError("password", "must be at least 8 characters")
	}
	// bcrypt ignores input past 72 bytes
	if len(v) > 72 {
		return NewValidationError("password", "must be at most 72 bytes")
	}
	return nil
}
