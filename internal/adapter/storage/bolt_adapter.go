package storage

import (
	"context"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

const boltBucket = "storefront"

// BoltAdapter keeps the snapshot and the admin token in a single-file
// embedded database.
type BoltAdapter struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database at path and makes sure the bucket
// exists.
func OpenBolt(path string) (*BoltAdapter, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltAdapter{db: db}, nil
}

func (b *BoltAdapter) Close() error {
	return b.db.Close()
}

func (b *BoltAdapter) ReadSnapshot(ctx context.Context) ([]domain.Product, bool, error) {
	raw, err := b.get(productsKey)
	if err != nil {
		return nil, false, err
	}
	products, ok := decodeSnapshot(raw)
	return products, ok, nil
}

func (b *BoltAdapter) WriteSnapshot(ctx context.Context, products []domain.Product) error {
	data, err := encodeSnapshot(products)
	if err != nil {
		return err
	}
	return b.put(productsKey, data)
}

func (b *BoltAdapter) LoadToken(ctx context.Context) (string, error) {
	raw, err := b.get(tokenKey)
	return string(raw), err
}

func (b *BoltAdapter) SaveToken(ctx context.Context, token string) error {
	return b.put(tokenKey, []byte(token))
}

func (b *BoltAdapter) ClearToken(ctx context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(tokenKey))
	})
}

// get copies the value out; bolt only guarantees it for the life of the
// transaction.
func (b *BoltAdapter) get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(boltBucket)).Get([]byte(key)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt get %s: %w", key, err)
	}
	return out, nil
}

func (b *BoltAdapter) put(key string, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("bolt put %s: %w", key, err)
	}
	return nil
}
