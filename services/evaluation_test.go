package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"egehub/config"
	"egehub/models"
)

// stubBackend counts calls and returns canned responses.
type stubBackend struct {
	gradeCalls   int
	composeCalls int
	gradeReply   string
	gradeErr     error
	composeReply *models.GeneratedEssay
	composeErr   error
}

func (s *stubBackend) GradeEssay(ctx context.Context, prompt string) (string, error) {
	s.gradeCalls++
	return s.gradeReply, s.gradeErr
}

func (s *stubBackend) ComposeEssay(ctx context.Context, prompt string) (*models.GeneratedEssay, error) {
	s.composeCalls++
	return s.composeReply, s.composeErr
}

func newTestService(t *testing.T, backend Backend, checks int) (*EvaluationService, *MemoryQuotaStore) {
	t.Helper()
	store := NewMemoryQuotaStore()
	if err := store.Seed(context.Background(), "user@example.com", checks); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	gate := NewQuotaGate(store, 0)
	return NewEvaluationService(&config.Config{}, backend, gate), store
}

func TestEvaluateEssayRejectsWhitespaceWithoutBackendCall(t *testing.T) {
	backend := &stubBackend{}
	service, store := newTestService(t, backend, 1)

	_, err := service.EvaluateEssay(context.Background(), "user@example.com", "   \n\t ", "")
	if KindOf(err) != KindInvalidInput {
		t.Errorf("expected invalid_input, got %v", err)
	}
	if backend.gradeCalls != 0 {
		t.Errorf("expected zero backend calls, got %d", backend.gradeCalls)
	}
	remaining, _ := store.Remaining(context.Background(), "user@example.com")
	if remaining != 1 {
		t.Errorf("invalid input must not cost quota, remaining %d", remaining)
	}
}

func TestEvaluateEssaySuccessConsumesOneCheck(t *testing.T) {
	backend := &stubBackend{gradeReply: validPayload(t, nil)}
	service, store := newTestService(t, backend, 2)

	result, err := service.EvaluateEssay(context.Background(), "user@example.com", "Текст сочинения.", "Исходный текст.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalScore != models.TotalMaxScore {
		t.Errorf("unexpected total %d", result.TotalScore)
	}
	if backend.gradeCalls != 1 {
		t.Errorf("expected exactly one backend call, got %d", backend.gradeCalls)
	}
	remaining, _ := store.Remaining(context.Background(), "user@example.com")
	if remaining != 1 {
		t.Errorf("expected exactly one check consumed, remaining %d", remaining)
	}
}

func TestEvaluateEssayBackendFailureDoesNotConsume(t *testing.T) {
	backend := &stubBackend{gradeErr: errors.New("connection reset")}
	service, store := newTestService(t, backend, 1)

	_, err := service.EvaluateEssay(context.Background(), "user@example.com", "Текст.", "")
	if KindOf(err) != KindBackendUnavailable {
		t.Errorf("expected backend_unavailable, got %v", err)
	}
	remaining, _ := store.Remaining(context.Background(), "user@example.com")
	if remaining != 1 {
		t.Errorf("failed call must not cost quota, remaining %d", remaining)
	}
}

func TestEvaluateEssayContractViolationDoesNotConsume(t *testing.T) {
	backend := &stubBackend{gradeReply: `{"scores": {}, "totalScore": 5, "overallFeedback": "x"}`}
	service, store := newTestService(t, backend, 1)

	_, err := service.EvaluateEssay(context.Background(), "user@example.com", "Текст.", "")
	if KindOf(err) != KindContractViolation {
		t.Errorf("expected contract_violation, got %v", err)
	}
	remaining, _ := store.Remaining(context.Background(), "user@example.com")
	if remaining != 1 {
		t.Errorf("rejected response must not cost quota, remaining %d", remaining)
	}
}

func TestEvaluateEssayQuotaDenials(t *testing.T) {
	backend := &stubBackend{gradeReply: validPayload(t, nil)}
	service, _ := newTestService(t, backend, 0)

	_, err := service.EvaluateEssay(context.Background(), "user@example.com", "Текст.", "")
	if KindOf(err) != KindQuotaExhausted {
		t.Errorf("expected quota_exhausted, got %v", err)
	}

	_, err = service.EvaluateEssay(context.Background(), "", "Текст.", "")
	if KindOf(err) != KindUnauthenticated {
		t.Errorf("expected unauthenticated, got %v", err)
	}
	if backend.gradeCalls != 0 {
		t.Errorf("denied requests must not reach the backend, got %d calls", backend.gradeCalls)
	}
}

func TestGenerateEssayReturnsTextAndSources(t *testing.T) {
	backend := &stubBackend{composeReply: &models.GeneratedEssay{
		Text:    "Сочинение.",
		Sources: []models.EssaySource{{Title: "Отцы и дети", URI: "https://example.com"}},
	}}
	service, store := newTestService(t, backend, 1)

	essay, err := service.GenerateEssay(context.Background(), "user@example.com", "Исходный текст.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if essay.Text == "" || len(essay.Sources) != 1 {
		t.Errorf("unexpected generation result %+v", essay)
	}
	remaining, _ := store.Remaining(context.Background(), "user@example.com")
	if remaining != 0 {
		t.Errorf("expected one check consumed, remaining %d", remaining)
	}
}

func TestGenerateEssayRejectsBlankSource(t *testing.T) {
	backend := &stubBackend{}
	service, _ := newTestService(t, backend, 1)

	_, err := service.GenerateEssay(context.Background(), "user@example.com", " ")
	if KindOf(err) != KindInvalidInput {
		t.Errorf("expected invalid_input, got %v", err)
	}
	if backend.composeCalls != 0 {
		t.Errorf("expected zero backend calls, got %d", backend.composeCalls)
	}
}

func TestBuildEvaluationPromptSpellsOutCriteria(t *testing.T) {
	prompt := buildEvaluationPrompt("Сочинение.", "")

	if !strings.Contains(prompt, noSourcePlaceholder) {
		t.Error("expected placeholder for missing source text")
	}
	for _, id := range models.CriterionOrder {
		def := models.Criteria[id]
		if !strings.Contains(prompt, string(id)) {
			t.Errorf("prompt missing criterion %s", id)
		}
		if !strings.Contains(prompt, strings.TrimSpace(def.Title)) {
			t.Errorf("prompt missing title for %s", id)
		}
	}
	if !strings.Contains(prompt, "Total 22 points") {
		t.Error("prompt missing total ceiling")
	}
}
