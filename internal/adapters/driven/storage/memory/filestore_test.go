package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refstack-labs/refcheck/internal/adapters/driven/host"
	"github.com/refstack-labs/refcheck/internal/core/domain"
)

func testSubject(key string) *host.Entity {
	return &host.Entity{
		CollectionID: 1,
		Key:          key,
		EntityKind:   domain.KindAttachment,
		Present:      true,
	}
}

func TestFileStore_Empty(t *testing.T) {
	store := NewFileStore()
	subject := testSubject("ABCD1234")

	local, err := store.ExistsLocally(context.Background(), subject)
	require.NoError(t, err)
	assert.False(t, local)

	remote, err := store.ExistsRemotely(context.Background(), subject)
	require.NoError(t, err)
	assert.False(t, remote)

	_, err = store.TotalSize(context.Background(), subject)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Read(context.Background(), subject)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStore_PutLocal(t *testing.T) {
	store := NewFileStore()
	subject := testSubject("ABCD1234")
	content := []byte("%PDF-1.4 content")

	store.PutLocal(subject.ID(), content)

	local, err := store.ExistsLocally(context.Background(), subject)
	require.NoError(t, err)
	assert.True(t, local)

	size, err := store.TotalSize(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	data, err := store.Read(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestFileStore_PutRemote(t *testing.T) {
	store := NewFileStore()
	subject := testSubject("ABCD1234")

	store.PutRemote(subject.ID())

	remote, err := store.ExistsRemotely(context.Background(), subject)
	require.NoError(t, err)
	assert.True(t, remote)

	// A remote-only file has no readable local copy.
	local, err := store.ExistsLocally(context.Background(), subject)
	require.NoError(t, err)
	assert.False(t, local)
	_, err = store.Read(context.Background(), subject)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStore_LocalAndRemote(t *testing.T) {
	store := NewFileStore()
	subject := testSubject("ABCD1234")

	store.PutLocal(subject.ID(), []byte("data"))
	store.PutRemote(subject.ID())

	local, _ := store.ExistsLocally(context.Background(), subject)
	remote, _ := store.ExistsRemotely(context.Background(), subject)
	assert.True(t, local)
	assert.True(t, remote)
}

func TestFileStore_Remove(t *testing.T) {
	store := NewFileStore()
	subject := testSubject("ABCD1234")
	store.PutLocal(subject.ID(), []byte("data"))
	store.PutRemote(subject.ID())

	store.Remove(subject.ID())

	local, _ := store.ExistsLocally(context.Background(), subject)
	remote, _ := store.ExistsRemotely(context.Background(), subject)
	assert.False(t, local)
	assert.False(t, remote)
}
