// Package credentials keeps the local user list used by the local auth
// variant. The whole list lives under one key and every mutation rewrites
// it, so it is only safe with a single console instance.
package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/client/kv"
	"github.com/dmitrijs2005/waterbot/internal/common"
)

// User is one stored account. Passwords are kept as entered.
type User struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt string `json:"createdAt"`
}

// KV is the part of the key-value store the adapter needs.
type KV interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}

// Store reads and writes the user list.
type Store struct {
	kv  KV
	now func() time.Time
}

// NewStore constructs a Store over kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Normalize returns the lookup form of an email address.
func Normalize(email string) string {
	return common.NormalizeEmail(email)
}

func (s *Store) load(ctx context.Context) ([]User, error) {
	var users []User
	if _, err := s.kv.GetJSON(ctx, kv.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func (s *Store) save(ctx context.Context, users []User) error {
	if err := s.kv.SetJSON(ctx, kv.KeyUsers, users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func indexOf(users []User, email string) int {
	want := Normalize(email)
	for i := range users {
		if Normalize(users[i].Email) == want {
			return i
		}
	}
	return -1
}

// FindByEmail returns the user whose email matches case-insensitively, or
// nil when there is none.
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, email)
	if i < 0 {
		return nil, nil
	}
	u := users[i]
	return &u, nil
}

// Create appends a user. It does not check for duplicates; callers run
// FindByEmail first.
func (s *Store) Create(ctx context.Context, email, password string) (*User, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	u := User{
		Email:     Normalize(email),
		Password:  password,
		CreatedAt: s.now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.save(ctx, append(users, u)); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePassword replaces the password of an existing user. It reports
// false when no user matches.
func (s *Store) UpdatePassword(ctx context.Context, email, newPassword string) (bool, error) {
	users, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(users, email)
	if i < 0 {
		return false, nil
	}
	users[i].Password = newPassword
	if err := s.save(ctx, users); err != nil {
		return false, err
	}
	return true, nil
}
