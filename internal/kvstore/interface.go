// Package kvstore is the persistent key-value store the client keeps its
// durable state in (cart contents, local order cache, saved items). Values
// are opaque string blobs; callers own serialization.
package kvstore

import (
	"context"
)

type Store interface {
	// Get returns the blob stored under key. found is false on a miss; a
	// miss is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	CartKey       = "storefront:cart"
	OrdersKey     = "storefront:orders"
	SavedItemsKey = "storefront:saved-items"
)
