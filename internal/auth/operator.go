package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Operator is the single write-path principal, configured at startup. Only
// the bcrypt hash of its password is kept in memory.
type Operator struct {
	name string
	hash []byte
}

func NewOperator(name, password string) (*Operator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || password == "" {
		return nil, errors.New("operator name and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Operator{name: name, hash: hash}, nil
}

func (o *Operator) Verify(name, password string) error {
	name = strings.ToLower(strings.TrimSpace(name))

	if name != o.name {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(o.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
