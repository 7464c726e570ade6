package port

import (
	"context"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

type SnapshotStore interface {
	// ReadSnapshot returns the persisted product list. ok is false when nothing
	// was persisted yet or the stored value is not a well-formed list.
	ReadSnapshot(ctx context.Context) (products []domain.Product, ok bool, err error)

	// WriteSnapshot replaces the persisted product list in a single write.
	WriteSnapshot(ctx context.Context, products []domain.Product) error
}

type CredentialStore interface {
	// LoadToken returns the persisted bearer token, or "" when none is stored.
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// LocalStore is the key/value persistence the storefront keeps on its own
// side of the network.
type LocalStore interface {
	SnapshotStore
	CredentialStore
	Close() error
}
