package verification

import (
	"sync"
	"time"

	"github.com/uslng/membergate/model"
)

// Store is the authoritative registry of pending verifications. All access
// goes through its methods; callers never read-modify-write a record
// themselves. A single store-wide mutex serializes everything, which is a
// deliberate simplification: the event rate is chat-scale, not
// request-scale, so per-key locking would buy nothing.
type Store struct {
	mu      sync.RWMutex
	pending map[model.VerificationKey]model.PendingVerification
}

func NewStore() *Store {
	return &Store{
		pending: make(map[model.VerificationKey]model.PendingVerification),
	}
}

// Create inserts the record, replacing any pending record for the same key.
func (s *Store) Create(p model.PendingVerification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[p.Key()] = p
}

func (s *Store) Get(key model.VerificationKey) (model.PendingVerification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[key]
	return p, ok
}

// Delete removes the record if present. Deleting an absent key is not an
// error.
func (s *Store) Delete(key model.VerificationKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, key)
}

// Take atomically removes and returns the record for key. Of several
// concurrent resolvers, exactly one gets ok=true.
func (s *Store) Take(key model.VerificationKey) (model.PendingVerification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[key]
	if ok {
		delete(s.pending, key)
	}
	return p, ok
}

// TakeMatching removes the record only if its challenge code still equals
// code. A record replaced by a re-join in the meantime is left alone.
func (s *Store) TakeMatching(key model.VerificationKey, code string) (model.PendingVerification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[key]
	if !ok || p.Code != code {
		return model.PendingVerification{}, false
	}
	delete(s.pending, key)
	return p, true
}

// ListExpired returns records older than ttl at the given instant.
func (s *Store) ListExpired(now time.Time, ttl time.Duration) []model.PendingVerification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var expired []model.PendingVerification
	for _, p := range s.pending {
		if p.Age(now) > ttl {
			expired = append(expired, p)
		}
	}
	return expired
}

func (s *Store) ListByGroup(groupID string) []model.PendingVerification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []model.PendingVerification
	for _, p := range s.pending {
		if p.GroupID == groupID {
			list = append(list, p)
		}
	}
	return list
}

func (s *Store) List() []model.PendingVerification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]model.PendingVerification, 0, len(s.pending))
	for _, p := range s.pending {
		list = append(list, p)
	}
	return list
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}
