package device

import (
	"crypto/rand"
	"log"
	"math/big"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

const idKey = "device_id"

// Storage is the local key-value persistence the identity layer relies
// on. A miss is reported through ok=false, never as an error: identity
// resolution must not fail.
type Storage interface {
	Get(key string) (value string, ok bool)
	Set(key, value string) error
	Delete(key string) error
}

// Identity derives and persists the stable identifier of this
// installation. Resolution order: memoized value, persisted value,
// platform machine id, random fallback. Once resolved the value never
// changes within the process unless Override is called.
type Identity struct {
	mu         sync.Mutex
	store      Storage
	platformID func() (string, error)
	cached     string
}

func New(store Storage) *Identity {
	return &Identity{
		store:      store,
		platformID: machineid.ID,
	}
}

// Resolve returns the device id, deriving and persisting it on first
// use. It always returns a usable id.
func (i *Identity) Resolve() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cached != "" {
		return i.cached
	}

	if saved, ok := i.store.Get(idKey); ok && saved != "" {
		i.cached = saved
		return saved
	}

	id, err := i.platformID()
	if err != nil || id == "" {
		id = randomFallbackID()
		log.Printf("⚠️  No platform device id available, generated fallback: %s", id)
	}

	if err := i.store.Set(idKey, id); err != nil {
		log.Printf("⚠️  Failed to persist device id: %v", err)
	}
	i.cached = id
	return id
}

// Override replaces the resolved id. Used only by explicit user action
// (custom id at registration, device transfer in settings).
func (i *Identity) Override(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.store.Set(idKey, id); err != nil {
		log.Printf("⚠️  Failed to persist device id override: %v", err)
	}
	i.cached = id
}

// MarkRegistered sets the local logged-in flag for the current id.
func (i *Identity) MarkRegistered() {
	if err := i.store.Set(registeredKey(i.Resolve()), "true"); err != nil {
		log.Printf("⚠️  Failed to mark device registered: %v", err)
	}
}

// MarkUnregistered clears the local logged-in flag for the current id.
func (i *Identity) MarkUnregistered() {
	if err := i.store.Delete(registeredKey(i.Resolve())); err != nil {
		log.Printf("⚠️  Failed to mark device unregistered: %v", err)
	}
}

// IsRegistered reports the local logged-in flag, independent of the
// remote store.
func (i *Identity) IsRegistered() bool {
	v, ok := i.store.Get(registeredKey(i.Resolve()))
	return ok && v == "true"
}

func registeredKey(id string) string {
	return "device_" + id + "_registered"
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// randomFallbackID mirrors the historical web fallback format so ids
// generated before this rewrite stay recognizable.
func randomFallbackID() string {
	b := make([]byte, 13)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36))))
		if err != nil {
			// crypto/rand failing is effectively unrecoverable; fall
			// back to a fixed character rather than panic.
			b[i] = base36[0]
			continue
		}
		b[i] = base36[n.Int64()]
	}
	return "web-" + string(b)
}
