package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpovs/filedepot/internal/common"
)

func TestDiskStore_SaveAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := NewKey()
	require.NoError(t, store.Save(ctx, key, []byte("Hello")))

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(data))
}

func TestDiskStore_OpenMissingKey(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), NewKey())
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDiskStore_OverwriteSameKey(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := NewKey()
	require.NoError(t, store.Save(ctx, key, []byte("one")))
	require.NoError(t, store.Save(ctx, key, []byte("two")))

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestNewKey_UniqueAndDatePrefixed(t *testing.T) {
	k1 := NewKey()
	k2 := NewKey()

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, 4, len(strings.Split(k1, "/")), "yyyy/mm/dd/uuid")
}

func TestMemoryStore_FailSave(t *testing.T) {
	store := NewMemoryStore()
	store.FailSave = true

	err := store.Save(context.Background(), NewKey(), []byte("x"))
	assert.True(t, errors.Is(err, common.ErrStorage))
	assert.Equal(t, 0, store.Len())
}
