package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Storage keys. The layout matches the browser version's localStorage so exported
// values stay interchangeable.
const (
	TemplateKey = "shoppingList.v2.template"
	StateKey    = "shoppingList.v2.state"
	LegacyKey   = "shoppingList.v1"

	// MigratedKey records that LegacyKey was imported once.
	MigratedKey = "shoppingList.v1.migrated"
)

// KV is a profile-scoped string key-value store.
//
// Set fully replaces the previous value; there are no partial writes.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendFiles  = "files"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Open returns the KV backend rooted at dir.
func Open(ctx context.Context, dir, backend string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		kv, err := OpenSQLite(ctx, dir)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendFiles:
		kv, err := OpenFiles(dir)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q (want sqlite|files|memory)", ErrUnknownBackend, backend)
	}
}
