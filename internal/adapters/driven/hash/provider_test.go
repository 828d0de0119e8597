package hash

import (
	"context"
	"fmt"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refstack-labs/refcheck/internal/adapters/driven/host"
	"github.com/refstack-labs/refcheck/internal/adapters/driven/storage/memory"
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

func TestProvider_LocalHash(t *testing.T) {
	files := memory.NewFileStore()
	provider := NewProvider(files, nil)
	subject := testSubject("ABCD1234")
	content := []byte("%PDF-1.4 content")
	files.PutLocal(subject.ID(), content)

	hash, err := provider.LocalHash(context.Background(), subject)

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64(content)), hash)
	assert.Len(t, hash, 16)
}

func TestProvider_LocalHashDeterministic(t *testing.T) {
	files := memory.NewFileStore()
	provider := NewProvider(files, nil)

	a := testSubject("AAAA0001")
	b := testSubject("BBBB0002")
	files.PutLocal(a.ID(), []byte("same bytes"))
	files.PutLocal(b.ID(), []byte("same bytes"))

	hashA, err := provider.LocalHash(context.Background(), a)
	require.NoError(t, err)
	hashB, err := provider.LocalHash(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB, "identical content must hash identically")
}

func TestProvider_LocalHashChangesWithContent(t *testing.T) {
	files := memory.NewFileStore()
	provider := NewProvider(files, nil)
	subject := testSubject("ABCD1234")

	files.PutLocal(subject.ID(), []byte("version one"))
	before, err := provider.LocalHash(context.Background(), subject)
	require.NoError(t, err)

	files.PutLocal(subject.ID(), []byte("version two"))
	after, err := provider.LocalHash(context.Background(), subject)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestProvider_LocalHashMissingFile(t *testing.T) {
	provider := NewProvider(memory.NewFileStore(), nil)

	_, err := provider.LocalHash(context.Background(), testSubject("ABCD1234"))

	assert.ErrorIs(t, err, domain.ErrHashUnavailable)
}

func TestProvider_SyncedHash(t *testing.T) {
	synced := memory.NewSyncedHashStore()
	provider := NewProvider(memory.NewFileStore(), synced)
	subject := testSubject("ABCD1234")

	_, err := provider.SyncedHash(context.Background(), subject)
	assert.ErrorIs(t, err, domain.ErrHashUnavailable)

	synced.Set(subject.ID(), "hash-synced")

	hash, err := provider.SyncedHash(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, "hash-synced", hash)
}

func TestProvider_SyncedHashWithoutStore(t *testing.T) {
	provider := NewProvider(memory.NewFileStore(), nil)

	_, err := provider.SyncedHash(context.Background(), testSubject("ABCD1234"))

	assert.ErrorIs(t, err, domain.ErrHashUnavailable)
}
