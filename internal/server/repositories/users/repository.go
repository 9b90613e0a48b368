package users

import (
	"context"

	"github.com/dmitrijs2005/waterbot/internal/server/models"
)

// Repository stores user accounts. Lookups that miss return
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, hash, salt []byte) error
	MergeMetadata(ctx context.Context, id string, metadata map[string]string) error
}
