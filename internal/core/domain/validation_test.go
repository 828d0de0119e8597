package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationType_IsValid(t *testing.T) {
	for _, vtype := range []ValidationType{TypeLocalOnly, TypeBackend, TypeCached, TypeFrontend} {
		assert.True(t, vtype.IsValid(), "type %s should be valid", vtype)
	}
	assert.False(t, ValidationType("").IsValid())
	assert.False(t, ValidationType("remote").IsValid())
}

func TestKind_IsValid(t *testing.T) {
	for _, kind := range []Kind{KindItem, KindAttachment, KindAnnotation, KindNote} {
		assert.True(t, kind.IsValid(), "kind %s should be valid", kind)
	}
	assert.False(t, Kind("").IsValid())
	assert.False(t, Kind("collection").IsValid())
}

func TestNewCacheKey(t *testing.T) {
	id := SubjectID{CollectionID: 7, Key: "ABCD1234"}

	key := NewCacheKey(id, TypeBackend)

	assert.Equal(t, int64(7), key.CollectionID)
	assert.Equal(t, "ABCD1234", key.Key)
	assert.Equal(t, TypeBackend, key.Type)
}

func TestCacheKey_StringIsCollisionFree(t *testing.T) {
	// Keys containing the separator must not collide with a different
	// (collection, key) split.
	a := NewCacheKey(SubjectID{CollectionID: 1, Key: `2/"x`}, TypeBackend)
	b := NewCacheKey(SubjectID{CollectionID: 12, Key: `"x`}, TypeBackend)

	assert.NotEqual(t, a.String(), b.String())
}

func TestCacheKey_StringDistinguishesTypes(t *testing.T) {
	id := SubjectID{CollectionID: 1, Key: "ABCD1234"}

	assert.NotEqual(t,
		NewCacheKey(id, TypeLocalOnly).String(),
		NewCacheKey(id, TypeBackend).String(),
	)
}
