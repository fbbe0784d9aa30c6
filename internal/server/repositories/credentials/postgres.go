// Package credentials provides the PostgreSQL-backed store for saved
// product logins.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements credential storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByOwner returns the owner's credentials, newest first. The slice is
// empty, not nil, when there are none.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Credential, error) {
	query := `SELECT id, owner_id, product, login, password, created_at FROM credentials
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
		`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Credential, 0)
	for rows.Next() {
		var item models.Credential
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Product, &item.Login, &item.Password, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Upsert inserts c or, when (owner_id, product, login) already exists,
// replaces its password and resets created_at. c.ID and c.CreatedAt are
// filled from the stored row. created is false when an existing row was
// updated.
func (r *PostgresRepository) Upsert(ctx context.Context, c *models.Credential) (bool, error) {
	query := `
		INSERT INTO credentials (id, owner_id, product, login, password)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, product, login)
		DO UPDATE SET
			password = EXCLUDED.password,
			created_at = now()
		RETURNING id, created_at, (xmax = 0) AS inserted
	`
	var created bool
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), c.OwnerID, c.Product, c.Login, c.Password).
		Scan(&c.ID, &c.CreatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// GetByID locks and returns the credential with the given id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Credential, error) {
	query := `SELECT id, owner_id, product, login, password, created_at FROM credentials
		WHERE id = $1
		FOR UPDATE
		`
	var item models.Credential
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.OwnerID, &item.Product, &item.Login, &item.Password, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

// Delete removes the credential permanently.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
