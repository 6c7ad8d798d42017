package kvstore_test

import (
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trovemarket/storefront-client/internal/kvstore"
)

func setup(t *testing.T) (kvstore.Store, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()

	return kvstore.NewRedisStore(client), mock
}

func TestRedisGet(t *testing.T) {
	ctx := t.Context()
	testKey := "storefront:test"

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		mock.ExpectGet(testKey).SetVal(`{"field":"value"}`)

		// Act
		value, found, err := store.Get(ctx, testKey)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"field":"value"}`, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Key Missing", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		mock.ExpectGet(testKey).SetErr(redis.Nil)

		// Act
		value, found, err := store.Get(ctx, testKey)

		// Assert
		require.NoError(t, err, "a miss should not be an error")
		assert.False(t, found)
		assert.Empty(t, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		mock.ExpectGet(testKey).SetErr(errors.New("redis connection error"))

		// Act
		_, found, err := store.Get(ctx, testKey)

		// Assert
		assert.Error(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisSet(t *testing.T) {
	ctx := t.Context()
	testKey := "storefront:test"

	t.Run("Success", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		mock.ExpectSet(testKey, "blob", 0).SetVal("OK")

		// Act
		err := store.Set(ctx, testKey, "blob")

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		mock.ExpectSet(testKey, "blob", 0).SetErr(errors.New("write refused"))

		// Act
		err := store.Set(ctx, testKey, "blob")

		// Assert
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisRemove(t *testing.T) {
	ctx := t.Context()
	testKey := "storefront:test"

	t.Run("Success", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		mock.ExpectDel(testKey).SetVal(1)

		// Act
		err := store.Remove(ctx, testKey)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Key Already Absent", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		mock.ExpectDel(testKey).SetVal(0)

		// Act
		err := store.Remove(ctx, testKey)

		// Assert
		require.NoError(t, err, "removing an absent key is not an error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := t.Context()
	store := kvstore.NewMemoryStore()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "k", "v"))

	value, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)

	require.NoError(t, store.Remove(ctx, "k"))

	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
