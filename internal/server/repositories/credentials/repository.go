package credentials

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Credential, error)
	Upsert(ctx context.Context, c *models.Credential) (created bool, err error)
	GetByID(ctx context.Context, id string) (*models.Credential, error)
	Delete(ctx context.Context, id string) error
}
