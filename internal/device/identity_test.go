package device

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	data map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{data: make(map[string]string)}
}

func (s *stubStore) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *stubStore) Set(key, value string) error {
	s.data[key] = value
	return nil
}

func (s *stubStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func newTestIdentity(store Storage, platformID func() (string, error)) *Identity {
	i := New(store)
	i.platformID = platformID
	return i
}

func TestResolve_UsesPersistedValue(t *testing.T) {
	store := newStubStore()
	store.data[idKey] = "saved-id"

	i := newTestIdentity(store, func() (string, error) {
		t.Fatal("platform id must not be queried when a value is persisted")
		return "", nil
	})

	assert.Equal(t, "saved-id", i.Resolve())
}

func TestResolve_UsesPlatformID(t *testing.T) {
	store := newStubStore()
	i := newTestIdentity(store, func() (string, error) { return "machine-42", nil })

	assert.Equal(t, "machine-42", i.Resolve())
	// persisted for the next process
	assert.Equal(t, "machine-42", store.data[idKey])
}

func TestResolve_FallbackOnPlatformFailure(t *testing.T) {
	store := newStubStore()
	i := newTestIdentity(store, func() (string, error) { return "", errors.New("no machine id") })

	id := i.Resolve()
	require.True(t, strings.HasPrefix(id, "web-"), "fallback id %q must carry the web- prefix", id)
	assert.Len(t, id, len("web-")+13)
	assert.Equal(t, id, store.data[idKey])
}

func TestResolve_MemoizedWithinProcess(t *testing.T) {
	store := newStubStore()
	calls := 0
	i := newTestIdentity(store, func() (string, error) {
		calls++
		return "machine-42", nil
	})

	first := i.Resolve()
	// even if persistence is wiped, the process keeps its id
	store.data = map[string]string{}
	second := i.Resolve()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestOverride_ReplacesResolvedID(t *testing.T) {
	store := newStubStore()
	i := newTestIdentity(store, func() (string, error) { return "machine-42", nil })

	i.Resolve()
	i.Override("custom-id")

	assert.Equal(t, "custom-id", i.Resolve())
	assert.Equal(t, "custom-id", store.data[idKey])
}

func TestRegisteredFlag(t *testing.T) {
	store := newStubStore()
	i := newTestIdentity(store, func() (string, error) { return "machine-42", nil })

	assert.False(t, i.IsRegistered())

	i.MarkRegistered()
	assert.True(t, i.IsRegistered())

	i.MarkUnregistered()
	assert.False(t, i.IsRegistered())
}

func TestRegisteredFlag_ScopedToID(t *testing.T) {
	store := newStubStore()
	i := newTestIdentity(store, func() (string, error) { return "machine-42", nil })
	i.MarkRegistered()

	// switching identity leaves the other id's flag behind
	i.Override("other-device")
	assert.False(t, i.IsRegistered())
}

func TestRandomFallbackID_Unique(t *testing.T) {
	a := randomFallbackID()
	b := randomFallbackID()
	assert.NotEqual(t, a, b)
}
