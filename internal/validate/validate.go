// Package validate holds the local input schema checks that run before any
// network call: email shape, password length, registration fields. A failed
// check is reported next to the offending field and never leaves the screen
// that produced it.
package validate

import (
	"regexp"
	"strings"
)

// MinPasswordLength matches the backend's account policy.
const MinPasswordLength = 6

// Messages are the product's fixed user-facing strings, shown inline next
// to the field.
const (
	MsgInvalidEmail  = "Digite um e-mail válido"
	MsgShortPassword = "A senha deve ter no mínimo 6 caracteres"
	MsgEmptyName     = "Digite seu nome"
	MsgInvalidRole   = "Escolha um perfil válido"
)

// Good enough for a client-side pre-check; the backend revalidates.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FieldError pins a failed check to its input field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors collects every failed check of one form submission.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// ByField returns the message for a field, or "".
func (e Errors) ByField(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string
	Password string
}

// Validate checks the login form. Returns nil or a non-empty [Errors].
func (in LoginInput) Validate() error {
	var errs Errors
	if !emailPattern.MatchString(in.Email) {
		errs = append(errs, FieldError{Field: "email", Message: MsgInvalidEmail})
	}
	if len(in.Password) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: MsgShortPassword})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RegisterInput is the registration wizard's accumulated state. Roles are
// limited to the two the wizard offers; ADMIN accounts are never
// self-registered.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Validate checks the full wizard state. Returns nil or a non-empty
// [Errors].
func (in RegisterInput) Validate() error {
	var errs Errors
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: MsgEmptyName})
	}
	if !emailPattern.MatchString(in.Email) {
		errs = append(errs, FieldError{Field: "email", Message: MsgInvalidEmail})
	}
	if len(in.Password) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: MsgShortPassword})
	}
	if in.Role != "CLIENT" && in.Role != "PROVIDER" {
		errs = append(errs, FieldError{Field: "role", Message: MsgInvalidRole})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
