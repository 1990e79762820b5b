// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any rejected email/password pair.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// DefaultRole is given to accounts configured without a role.
const DefaultRole = "admin"

// Identity is an authenticated user.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// IdentityProvider checks a credential pair.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}

// Account is one configured login. PasswordHash is a bcrypt hash.
type Account struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
}

// StaticProviderConfig lists the accounts a StaticProvider accepts.
type StaticProviderConfig struct {
	Accounts []Account
}

type account struct {
	email    string
	hash     []byte
	identity Identity
}

// StaticProvider accepts a fixed set of accounts whose passwords are
// stored as bcrypt hashes.
type StaticProvider struct {
	accounts []account
}

// NewStaticProvider validates every account and builds a provider. No
// accounts yields a provider that rejects every login.
func NewStaticProvider(cfg StaticProviderConfig) (*StaticProvider, error) {
	p := &StaticProvider{accounts: make([]account, 0, len(cfg.Accounts))}
	seen := make(map[string]bool, len(cfg.Accounts))

	for i, a := range cfg.Accounts {
		email := strings.ToLower(strings.TrimSpace(a.Email))
		if email == "" {
			return nil, fmt.Errorf("account %d: email is required", i)
		}
		if seen[email] {
			return nil, fmt.Errorf("account %s: duplicate email", email)
		}
		seen[email] = true

		if _, err := bcrypt.Cost([]byte(a.PasswordHash)); err != nil {
			return nil, fmt.Errorf("account %s: password hash is not a bcrypt hash: %w", email, err)
		}
		role := a.Role
		if role == "" {
			role = DefaultRole
		}
		p.accounts = append(p.accounts, account{
			email:    email,
			hash:     []byte(a.PasswordHash),
			identity: Identity{Email: strings.TrimSpace(a.Email), Name: a.Name, Role: role},
		})
	}
	return p, nil
}

// Authenticate implements IdentityProvider. The email match is case
// insensitive; the password is compared by bcrypt.
func (p *StaticProvider) Authenticate(_ context.Context, email, password string) (*Identity, error) {
	if len(p.accounts) == 0 {
		return nil, ErrInvalidCredentials
	}
	want := []byte(strings.ToLower(strings.TrimSpace(email)))

	// Every account is compared and bcrypt always runs once.
	match := -1
	for i := range p.accounts {
		if subtle.ConstantTimeCompare(want, []byte(p.accounts[i].email)) == 1 {
			match = i
		}
	}
	target := p.accounts[0]
	if match >= 0 {
		target = p.accounts[match]
	}
	pwErr := bcrypt.CompareHashAndPassword(target.hash, []byte(password))
	if match < 0 || pwErr != nil {
		return nil, ErrInvalidCredentials
	}
	id := target.identity
	return &id, nil
}
