// Package recoverytokens stores one-time password recovery codes.
package recoverytokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/server/models"
)

// Repository defines operations for issuing and redeeming recovery codes.
type Repository interface {
	// Create stores token for userID, valid for validity from now.
	Create(ctx context.Context, userID, token string, validity time.Duration) error
	// Find looks up a code. Returns common.ErrorNotFound when it is absent.
	Find(ctx context.Context, token string) (*models.RecoveryToken, error)
	// Delete removes a single code. Deleting a missing code is not an error.
	Delete(ctx context.Context, token string) error
	// DeleteByUser drops every outstanding token of userID.
	DeleteByUser(ctx context.Context, userID string) error
}
