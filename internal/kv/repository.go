package kv

import "context"

// Repository is a string-keyed blob store.
// Get returns (nil, nil) when the key does not exist.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Transactor runs fn against a Repository whose writes are committed together
// or not at all.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
