// Package session provides the server-side session store backing cookie
// authentication. The client only ever holds an opaque identifier; the
// authenticated identity lives in the store.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Data is what a session records about the logged-in user.
type Data struct {
	UserID   uint   `json:"user_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

// Store persists sessions keyed by opaque identifier. Get returns (nil, nil)
// for a missing or expired session. Touch re-extends the absolute expiry,
// keeping an active session "permanent".
type Store interface {
	Create(ctx context.Context, data Data) (string, error)
	Get(ctx context.Context, id string) (*Data, error)
	Delete(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error
}

func newSessionID() string {
	return uuid.NewString()
}

func normalizeLifetime(lifetime time.Duration) time.Duration {
	if lifetime <= 0 {
		return 24 * time.Hour
	}
	return lifetime
}
