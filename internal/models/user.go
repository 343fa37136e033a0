package models

import (
	"fmt"
	"time"

	apperrors "github.com/yukikurage/task-tracker/internal/errors"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
)

// Roles lists every role a user can hold
var Roles = []Role{RoleAdmin, RoleManager, RoleDeveloper}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDeveloper:
		return true
	}
	return false
}

// User is a validated user record. Fields are only reachable through
// accessors so a User can never hold an invalid value.
type User struct {
	id               uint64
	username         string
	email            string
	role             Role
	registrationDate time.Time
}

// NewUser validates the fields and stamps the registration time
func NewUser(username, email string, role Role) (*User, error) {
	user := &User{
		username:         username,
		email:            email,
		role:             role,
		registrationDate: time.Now(),
	}
	if err := user.validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// RestoreUser rebuilds a persisted user
func RestoreUser(id uint64, username, email string, role Role, registrationDate time.Time) (*User, error) {
	user := &User{
		id:               id,
		username:         username,
		email:            email,
		role:             role,
		registrationDate: registrationDate,
	}
	if err := user.validate(); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *User) validate() error {
	if err := validateUsername(u.username); err != nil {
		return err
	}
	if err := validateEmail(u.email); err != nil {
		return err
	}
	return validateRole(u.role)
}

func validateUsername(username string) error {
	return check(
		notBlank("username", username),
		rule{
			field:   "username",
			value:   username,
			tag:     "min=3",
			code:    apperrors.ErrCodeOutOfRange,
			message: "username must be at least 3 characters",
		},
		rule{
			field:   "username",
			value:   username,
			tag:     "max=50",
			code:    apperrors.ErrCodeOutOfRange,
			message: "username cannot exceed 50 characters",
		},
	)
}

func validateEmail(email string) error {
	return check(rule{
		field:   "email",
		value:   email,
		tag:     "taskemail",
		code:    apperrors.ErrCodeInvalidFormat,
		message: fmt.Sprintf("invalid email address %q", email),
	})
}

func validateRole(role Role) error {
	return check(rule{
		field:   "role",
		value:   string(role),
		tag:     "oneof=admin manager developer",
		code:    apperrors.ErrCodeInvalidInput,
		message: fmt.Sprintf("invalid role %q, expected one of %v", role, Roles),
	})
}

func (u *User) ID() uint64 { return u.id }
func (u *User) Username() string { return u.username }
func (u *User) Email() string { return u.email }
func (u *User) Role() Role { return u.role }
func (u *User) RegistrationDate() time.Time { return u.registrationDate }

// AssignID records the identifier handed out by the store
func (u *User) AssignID(id uint64) {
	u.id = id
}

func (u *User) IsAdmin() bool { return u.role == RoleAdmin }
func (u *User) IsManager() bool { return u.role == RoleManager }
func (u *User) IsDeveloper() bool { return u.role == RoleDeveloper }

// DaysSinceRegistration returns the number of whole days since registration
func (u *User) DaysSinceRegistration() int {
	return u.DaysSinceRegistrationAt(time.Now())
}

// DaysSinceRegistrationAt is DaysSinceRegistration evaluated at now
func (u *User) DaysSinceRegistrationAt(now time.Time) int {
	if now.Before(u.registrationDate) {
		return 0
	}
	return int(now.Sub(u.registrationDate).Hours() / 24)
}

// UserUpdate carries the user fields to change; nil fields are left alone
type UserUpdate struct {
	Username *string
	Email    *string
	Role     *Role
}

// IsEmpty reports whether no field is set
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Role == nil
}

// Validate checks the set fields in declaration order
func (u UserUpdate) Validate() error {
	if u.Username != nil {
		if err := validateUsername(*u.Username); err != nil {
			return err
		}
	}
	if u.Email != nil {
		if err := validateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Role != nil {
		if err := validateRole(*u.Role); err != nil {
			return err
		}
	}
	return nil
}

// Columns returns the column values to write for the set fields
func (u UserUpdate) Columns() map[string]interface{} {
	columns := make(map[string]interface{}, 3)
	if u.Username != nil {
		columns["username"] = *u.Username
	}
	if u.Email != nil {
		columns["email"] = *u.Email
	}
	if u.Role != nil {
		columns["role"] = string(*u.Role)
	}
	return columns
}

// UpdateInfo applies update after validating it and returns the names of the
// fields whose value actually changed. Nothing is applied on error.
func (u *User) UpdateInfo(update UserUpdate) ([]string, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	var changed []string
	if update.Username != nil && *update.Username != u.username {
		u.username = *update.Username
		changed = append(changed, "username")
	}
	if update.Email != nil && *update.Email != u.email {
		u.email = *update.Email
		changed = append(changed, "email")
	}
	if update.Role != nil && *update.Role != u.role {
		u.role = *update.Role
		changed = append(changed, "role")
	}
	return changed, nil
}

func (u *User) String() string {
	return fmt.Sprintf("User #%d: %s (%s) <%s>, registered %s",
		u.id, u.username, u.role, u.email, u.registrationDate.Format("2006-01-02"))
}
