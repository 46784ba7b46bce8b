package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"egehub/db"
)

// DenialReason explains why the quota gate refused a grading attempt.
type DenialReason string

const (
	DenialUnauthenticated DenialReason = "unauthenticated"
	DenialNotFound        DenialReason = "not_found"
	DenialExhausted       DenialReason = "exhausted"
)

// Decision is the outcome of an authorization check. Denials are
// decisions, not errors; the caller maps them straight to a user-facing
// message.
type Decision struct {
	Allowed bool
	Reason  DenialReason
}

// ErrNoQuotaRecord is returned by stores when an account has no quota
// record yet.
var ErrNoQuotaRecord = errors.New("no quota record")

// QuotaStore abstracts quota persistence so the durable Mongo store and
// the in-memory local-mode store are interchangeable at startup.
type QuotaStore interface {
	Remaining(ctx context.Context, accountID string) (int, error)
	Decrement(ctx context.Context, accountID string) error
	Seed(ctx context.Context, accountID string, freeChecks int) error
}

// MongoQuotaStore is the durable store backed by the quotas collection.
type MongoQuotaStore struct{}

func NewMongoQuotaStore() *MongoQuotaStore {
	return &MongoQuotaStore{}
}

func (s *MongoQuotaStore) Remaining(ctx context.Context, accountID string) (int, error) {
	remaining, err := db.ReadRemainingChecks(ctx, accountID)
	if errors.Is(err, db.ErrQuotaNotFound) {
		return 0, ErrNoQuotaRecord
	}
	return remaining, err
}

func (s *MongoQuotaStore) Decrement(ctx context.Context, accountID string) error {
	return db.DecrementRemainingChecks(ctx, accountID)
}

func (s *MongoQuotaStore) Seed(ctx context.Context, accountID string, freeChecks int) error {
	return db.SeedQuota(ctx, accountID, freeChecks)
}

// MemoryQuotaStore keeps quota state in process memory. Used in local
// mode when no database is configured, and in tests.
type MemoryQuotaStore struct {
	mu        sync.Mutex
	remaining map[string]int
}

func NewMemoryQuotaStore() *MemoryQuotaStore {
	return &MemoryQuotaStore{remaining: make(map[string]int)}
}

func (s *MemoryQuotaStore) Remaining(ctx context.Context, accountID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining, ok := s.remaining[accountID]
	if !ok {
		return 0, ErrNoQuotaRecord
	}
	return remaining, nil
}

func (s *MemoryQuotaStore) Decrement(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining, ok := s.remaining[accountID]
	if !ok || remaining <= 0 {
		return db.ErrQuotaExhausted
	}
	s.remaining[accountID] = remaining - 1
	return nil
}

func (s *MemoryQuotaStore) Seed(ctx context.Context, accountID string, freeChecks int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.remaining[accountID]; !ok {
		s.remaining[accountID] = freeChecks
	}
	return nil
}

// QuotaGate decides whether an account may spend a backend-billed check.
// Two concurrent requests may both pass Authorize before either Consumes;
// that occasional over-spend is accepted instead of serializing grading
// requests.
type QuotaGate struct {
	store      QuotaStore
	freeChecks int
}

// NewQuotaGate builds a gate over the given store. freeChecks is the
// allowance seeded for accounts seen for the first time; zero disables
// seeding.
func NewQuotaGate(store QuotaStore, freeChecks int) *QuotaGate {
	return &QuotaGate{store: store, freeChecks: freeChecks}
}

// Authorize checks that the account may start a grading or generation
// call. It never returns an error; store failures deny the request.
func (g *QuotaGate) Authorize(ctx context.Context, accountID string) Decision {
	if accountID == "" {
		return Decision{Reason: DenialUnauthenticated}
	}

	remaining, err := g.store.Remaining(ctx, accountID)
	if errors.Is(err, ErrNoQuotaRecord) {
		if g.freeChecks <= 0 {
			return Decision{Reason: DenialNotFound}
		}
		// First contact: seed the free-check allowance.
		if err := g.store.Seed(ctx, accountID, g.freeChecks); err != nil {
			log.Printf("Failed to seed quota for %s: %v", accountID, err)
			return Decision{Reason: DenialNotFound}
		}
		remaining = g.freeChecks
	} else if err != nil {
		log.Printf("Failed to read quota for %s: %v", accountID, err)
		return Decision{Reason: DenialNotFound}
	}

	if remaining <= 0 {
		return Decision{Reason: DenialExhausted}
	}
	return Decision{Allowed: true}
}

// Consume spends one check. Called only after the backend call already
// succeeded, so a failed generation never costs quota.
func (g *QuotaGate) Consume(ctx context.Context, accountID string) error {
	return g.store.Decrement(ctx, accountID)
}

// Remaining reports the current allowance, 0 for unknown accounts.
func (g *QuotaGate) Remaining(ctx context.Context, accountID string) (int, error) {
	remaining, err := g.store.Remaining(ctx, accountID)
	if errors.Is(err, ErrNoQuotaRecord) {
		return 0, nil
	}
	return remaining, err
}
