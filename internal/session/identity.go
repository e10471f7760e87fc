package session

import (
	"errors"
	"strings"
)

// ErrIncompleteIdentity is returned when any identity field is blank. Its
// message is shown to the respondent as-is.
var ErrIncompleteIdentity = errors.New("Please fill in all details before starting.")

// Identity describes the respondent.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Normalize trims surrounding whitespace from every field.
func (id Identity) Normalize() Identity {
	return Identity{
		Name:  strings.TrimSpace(id.Name),
		Email: strings.TrimSpace(id.Email),
		Role:  strings.TrimSpace(id.Role),
	}
}

// Validate requires name, email and role to be non-empty.
func (id Identity) Validate() error {
	n := id.Normalize()
	if n.Name == "" || n.Email == "" || n.Role == "" {
		return ErrIncompleteIdentity
	}
	return nil
}

// MissingFields lists the labels of blank fields in form order.
func (id Identity) MissingFields() []string {
	n := id.Normalize()
	var out []string
	if n.Name == "" {
		out = append(out, "name")
	}
	if n.Email == "" {
		out = append(out, "email")
	}
	if n.Role == "" {
		out = append(out, "role")
	}
	return out
}
