package users

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// Repository persists accounts. Lookups return common.ErrorNotFound for
// missing rows regardless of the active flag; callers decide what an
// inactive account means.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Deactivate(ctx context.Context, id string) error
}
