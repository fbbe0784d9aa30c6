// Package metadata stores small key/value settings of the terminal client
// in the local SQLite database.
package metadata

import (
	"context"
)

// Repository is a string key/value table. Get reports common.ErrorNotFound
// for absent keys.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
