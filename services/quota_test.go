package services

import (
	"context"
	"testing"
)

func TestQuotaGateConsumeToExhaustion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryQuotaStore()
	if err := store.Seed(ctx, "user@example.com", 1); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	gate := NewQuotaGate(store, 0)

	decision := gate.Authorize(ctx, "user@example.com")
	if !decision.Allowed {
		t.Fatalf("expected authorization, got denial %s", decision.Reason)
	}

	if err := gate.Consume(ctx, "user@example.com"); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	remaining, err := gate.Remaining(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("remaining failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", remaining)
	}

	decision = gate.Authorize(ctx, "user@example.com")
	if decision.Allowed {
		t.Error("expected denial after exhaustion")
	}
	if decision.Reason != DenialExhausted {
		t.Errorf("expected reason %s, got %s", DenialExhausted, decision.Reason)
	}
}

func TestQuotaGateDeniesEmptyAccount(t *testing.T) {
	gate := NewQuotaGate(NewMemoryQuotaStore(), 3)
	decision := gate.Authorize(context.Background(), "")
	if decision.Allowed || decision.Reason != DenialUnauthenticated {
		t.Errorf("expected unauthenticated denial, got %+v", decision)
	}
}

func TestQuotaGateSeedsUnknownAccount(t *testing.T) {
	ctx := context.Background()
	gate := NewQuotaGate(NewMemoryQuotaStore(), 3)

	decision := gate.Authorize(ctx, "new@example.com")
	if !decision.Allowed {
		t.Fatalf("expected first authorization to seed and allow, got %s", decision.Reason)
	}
	remaining, err := gate.Remaining(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("remaining failed: %v", err)
	}
	if remaining != 3 {
		t.Errorf("expected 3 seeded checks, got %d", remaining)
	}
}

func TestQuotaGateNotFoundWhenSeedingDisabled(t *testing.T) {
	gate := NewQuotaGate(NewMemoryQuotaStore(), 0)
	decision := gate.Authorize(context.Background(), "unknown@example.com")
	if decision.Allowed || decision.Reason != DenialNotFound {
		t.Errorf("expected not_found denial, got %+v", decision)
	}
}

func TestMemoryStoreNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryQuotaStore()
	store.Seed(ctx, "a", 1)

	if err := store.Decrement(ctx, "a"); err != nil {
		t.Fatalf("first decrement failed: %v", err)
	}
	if err := store.Decrement(ctx, "a"); err == nil {
		t.Error("expected decrement at zero to fail")
	}
	remaining, _ := store.Remaining(ctx, "a")
	if remaining != 0 {
		t.Errorf("counter went negative: %d", remaining)
	}
}
