package kvstore

import (
	"context"

	"github.com/trovemarket/storefront-client/internal/metrics"
)

// instrumentedStore counts operations on the wrapped Store.
type instrumentedStore struct {
	inner Store
}

func NewInstrumentedStore(inner Store) Store {
	return &instrumentedStore{inner: inner}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}

func (s *instrumentedStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, found, err := s.inner.Get(ctx, key)
	metrics.ObserveStorageOp("get", outcome(err))

	return value, found, err
}

func (s *instrumentedStore) Set(ctx context.Context, key, value string) error {
	err := s.inner.Set(ctx, key, value)
	metrics.ObserveStorageOp("set", outcome(err))

	return err
}

func (s *instrumentedStore) Remove(ctx context.Context, key string) error {
	err := s.inner.Remove(ctx, key)
	metrics.ObserveStorageOp("remove", outcome(err))

	return err
}

func (s *instrumentedStore) Close() error {
	return s.inner.Close()
}
