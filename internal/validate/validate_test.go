package validate

import (
	"errors"
	"testing"
)

func TestLoginInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		input  LoginInput
		fields map[string]string
	}{
		{
			name:  "valid",
			input: LoginInput{Email: "ana@exemplo.com", Password: "secret1"},
		},
		{
			name:   "bad email",
			input:  LoginInput{Email: "ana@", Password: "secret1"},
			fields: map[string]string{"email": MsgInvalidEmail},
		},
		{
			name:   "short password",
			input:  LoginInput{Email: "ana@exemplo.com", Password: "12345"},
			fields: map[string]string{"password": MsgShortPassword},
		},
		{
			name:  "both invalid",
			input: LoginInput{Email: "nope", Password: ""},
			fields: map[string]string{
				"email":    MsgInvalidEmail,
				"password": MsgShortPassword,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			checkFieldErrors(t, err, tt.fields)
		})
	}
}

func TestRegisterInputValidate(t *testing.T) {
	valid := RegisterInput{Name: "Ana", Email: "ana@exemplo.com", Password: "secret1", Role: "CLIENT"}

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		fields map[string]string
	}{
		{
			name:   "valid client",
			mutate: func(in *RegisterInput) {},
		},
		{
			name:   "valid provider",
			mutate: func(in *RegisterInput) { in.Role = "PROVIDER" },
		},
		{
			name:   "blank name",
			mutate: func(in *RegisterInput) { in.Name = "   " },
			fields: map[string]string{"name": MsgEmptyName},
		},
		{
			name:   "bad email",
			mutate: func(in *RegisterInput) { in.Email = "ana exemplo.com" },
			fields: map[string]string{"email": MsgInvalidEmail},
		},
		{
			name:   "short password",
			mutate: func(in *RegisterInput) { in.Password = "123" },
			fields: map[string]string{"password": MsgShortPassword},
		},
		{
			name:   "admin role rejected",
			mutate: func(in *RegisterInput) { in.Role = "ADMIN" },
			fields: map[string]string{"role": MsgInvalidRole},
		},
		{
			name:   "empty role rejected",
			mutate: func(in *RegisterInput) { in.Role = "" },
			fields: map[string]string{"role": MsgInvalidRole},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			checkFieldErrors(t, input.Validate(), tt.fields)
		})
	}
}

func checkFieldErrors(t *testing.T, err error, want map[string]string) {
	t.Helper()
	if len(want) == 0 {
		if err != nil {
			t.Fatalf("expected valid input, got %v", err)
		}
		return
	}
	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected Errors, got %T: %v", err, err)
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d field errors, got %v", len(want), errs)
	}
	for field, msg := range want {
		if got := errs.ByField(field); got != msg {
			t.Errorf("ByField(%q) = %q, want %q", field, got, msg)
		}
	}
}
