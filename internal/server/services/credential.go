package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	errCredentialNotFound = common.NewError(common.ErrorNotFound, "Password not found")
	errNotOwner           = common.NewError(common.ErrorUnauthorized, "User not authorized")
)

// CredentialService manages the saved logins of a single owner at a time.
// Every operation is scoped by the caller's user id.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCredentialService constructs a CredentialService.
func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager) *CredentialService {
	return &CredentialService{db: db, repomanager: m}
}

// List returns the owner's credentials, newest first.
func (s *CredentialService) List(ctx context.Context, ownerID string) ([]*models.Credential, error) {
	items, err := s.repomanager.Credentials(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, internalError("list credentials", err)
	}
	if items == nil {
		items = []*models.Credential{}
	}
	return items, nil
}

// Upsert saves password for (product, login). An existing record for the
// same pair gets the new password and a fresh timestamp; created reports
// whether a new record was made. Product and login are compared exactly.
func (s *CredentialService) Upsert(ctx context.Context, ownerID, product, login, password string) (*models.Credential, bool, error) {
	switch {
	case product == "":
		return nil, false, validationError("Product is required.")
	case login == "":
		return nil, false, validationError("Login is required.")
	case password == "":
		return nil, false, validationError("Password is required.")
	}

	c := &models.Credential{OwnerID: ownerID, Product: product, Login: login, Password: password}
	created, err := s.repomanager.Credentials(s.db).Upsert(ctx, c)
	if err != nil {
		return nil, false, internalError("upsert credential", err)
	}
	return c, created, nil
}

// Delete permanently removes a credential owned by ownerID. A missing or
// malformed id is reported before ownership is checked.
func (s *CredentialService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errCredentialNotFound
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Credentials(tx)

		c, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errCredentialNotFound
			}
			return internalError("get credential", err)
		}
		if c.OwnerID != ownerID {
			return errNotOwner
		}

		if err := repo.Delete(ctx, id); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errCredentialNotFound
			}
			return internalError("delete credential", err)
		}
		return nil
	})
	if err != nil && !isClassified(err) {
		return internalError("delete credential", err)
	}
	return err
}
