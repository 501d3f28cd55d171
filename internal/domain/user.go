package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Role is the closed set of account roles. Authorization is a static
// per-operation role set, not a hierarchy between roles.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleCoordinator Role = "Coordinator"
	RoleProfessor   Role = "Professor"
	RoleStudent     Role = "Student"
)

// ParseRole validates a role name supplied by a client.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCoordinator, RoleProfessor, RoleStudent:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// User is an identity record. The password hash is opaque to everything
// except the credential verification path and is never serialized.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string // argon2id encoded, never logged or returned
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserSubject renders a user id as the "sub" claim value.
func UserSubject(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseUserSubject parses a "sub" claim back into a user id.
func ParseUserSubject(sub string) (int64, error) {
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subject %q", sub)
	}
	return id, nil
}
