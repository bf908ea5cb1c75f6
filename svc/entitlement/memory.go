package entitlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store with the same overwrite semantics as
// PGStore. It backs handler and reconciler tests and local runs without a
// database.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Entitlement
	now     func() time.Time
}

func NewMemoryStore(seed ...Entitlement) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]Entitlement, len(seed)),
		now:     time.Now,
	}
	for _, e := range seed {
		e.Email = NormalizeEmail(e.Email)
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		s.records[e.Email] = e
	}
	return s
}

func (s *MemoryStore) EnsureExists(ctx context.Context, email string) (Entitlement, error) {
	e := Free(email)
	if err := e.Validate(); err != nil {
		return Entitlement{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[e.Email]; ok {
		return existing, nil
	}
	now := s.now()
	e.ID = uuid.New()
	e.CreatedAt, e.UpdatedAt = now, now
	s.records[e.Email] = e
	return e, nil
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.records[NormalizeEmail(email)]
	if !ok {
		return Entitlement{}, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, e Entitlement) error {
	e.Email = NormalizeEmail(e.Email)
	if e.Name == "" {
		e.Name = NameFromEmail(e.Email)
	}
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	existing, ok := s.records[e.Email]
	if !ok {
		existing = Entitlement{ID: uuid.New(), Email: e.Email, Name: e.Name, CreatedAt: now}
	}
	existing.IsPaid = e.IsPaid
	existing.Tier = e.Tier
	existing.SubscriptionStart = e.SubscriptionStart
	existing.SubscriptionEnd = e.SubscriptionEnd
	if e.StripeCustomerID != "" {
		existing.StripeCustomerID = e.StripeCustomerID
	}
	existing.UpdatedAt = now
	s.records[e.Email] = existing
	return nil
}

func (s *MemoryStore) Revoke(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[email]
	if !ok {
		return ErrNotFound
	}
	e.IsPaid = false
	e.Tier = TierFree
	e.UpdatedAt = s.now()
	s.records[email] = e
	return nil
}
