// Package identity persists the last known user identity across process
// restarts. It is a single durable slot: the session manager is its only
// writer, and an absent entry simply means no one was logged in.
package identity

import (
	"context"

	"cloudbox/internal/client/models"
)

type Repository interface {
	// Get returns the cached identity, or nil when the slot is empty.
	Get(ctx context.Context) (*models.UserIdentity, error)

	// Set overwrites the slot with the given identity.
	Set(ctx context.Context, user models.UserIdentity) error

	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
}
