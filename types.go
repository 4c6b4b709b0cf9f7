package nunu

import (
	"encoding/json"
	"fmt"
)

// Role is the account role assigned by the backend. The client never grants
// roles; it only echoes what the server returned at login.
type Role string

const (
	// RoleClient marks an account that books services.
	RoleClient Role = "CLIENT"
	// RoleProvider marks an account that offers services.
	RoleProvider Role = "PROVIDER"
	// RoleAdmin marks a backoffice account.
	RoleAdmin Role = "ADMIN"
)

// Known reports whether r is one of the roles the backend issues.
func (r Role) Known() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// User is the authenticated account record as returned by POST /auth/login
// and persisted (serialized) in the credential store between launches.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Complete reports whether the record satisfies the minimum the session
// layer requires: a non-empty ID and Role. Name and Email are display-only
// and may be empty.
func (u User) Complete() bool {
	return u.ID != "" && u.Role != ""
}

// State is the session snapshot broadcast to subscribers. User is nil while
// unauthenticated. Bootstrapping is true from construction until the initial
// storage read completes, and never becomes true again afterward.
type State struct {
	User          *User
	Bootstrapping bool
}

// Authenticated reports whether a user is present.
func (s State) Authenticated() bool {
	return s.User != nil
}

func encodeUser(u User) (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encoding user record: %w", err)
	}
	return string(data), nil
}

func decodeUser(raw string) (User, error) {
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, fmt.Errorf("decoding user record: %w", err)
	}
	if !u.Complete() {
		return User{}, fmt.Errorf("decoding user record: %w", ErrIncompleteUser)
	}
	return u, nil
}
