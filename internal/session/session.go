// Package session holds the single-slot current-user record.
package session

import (
	"context"
	"encoding/json"

	"connectideas/api/internal/kv"
)

// User is the currently logged-in actor. There is at most one at a time;
// each login overwrites the slot.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Store reads and writes the current-user record through the kv store.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Current returns the logged-in user. Absent or malformed data means no
// one is logged in.
func (s *Store) Current(ctx context.Context) (User, bool, error) {
	raw, found, err := s.kv.Get(ctx, kv.KeyUser)
	if err != nil {
		return User{}, false, err
	}
	if !found {
		return User{}, false, nil
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, false, nil
	}
	return user, true, nil
}

// SetCurrent overwrites the slot unconditionally.
func (s *Store) SetCurrent(ctx context.Context, user User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kv.KeyUser, string(payload))
}
