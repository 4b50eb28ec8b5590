package dto

import (
	"strings"
	"time"
	"unicode/utf8"
)

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns field errors for missing credentials. Deliberately no
// format checks here: login input is matched against the store, not parsed.
func (r LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() []FieldError {
	var errs []FieldError
	email := strings.TrimSpace(r.Email)
	switch {
	case email == "":
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	case utf8.RuneCountInString(email) > 254:
		errs = append(errs, FieldError{Field: "email", Message: "email must be at most 254 characters"})
	case !strings.Contains(email, "@"):
		errs = append(errs, FieldError{Field: "email", Message: "email is not valid"})
	}
	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	case utf8.RuneCountInString(name) > 100:
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 100 characters"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}
	return errs
}

// AuthResponse is returned by successful login and registration.
type AuthResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}
