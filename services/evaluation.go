package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"egehub/config"
	"egehub/models"
)

const evaluationSystemInstruction = `You are a meticulous and fair examiner for the Russian Unified State Exam (ЕГЭ), specifically grading Task 27, the essay. Your task is to evaluate the user-provided essay based on a strict set of official criteria (К1 through К10). You must analyze the essay thoroughly for each criterion and provide a score and a concise justification for that score in Russian.

For criteria K4, K5, K6 and K7-K10 (facts, logic, ethics, literacy), if the score is less than the maximum, you MUST identify the specific text fragments from the essay that contain errors. Return these fragments in an "errors" array, where each object contains the exact "text" of the error.

Your final output MUST be a JSON object matching the provided schema.`

const noSourcePlaceholder = "No source text provided."

// Backend is the grading/generation boundary. The Gemini implementation
// lives in gemini.go; tests substitute call-counting stubs.
type Backend interface {
	GradeEssay(ctx context.Context, prompt string) (string, error)
	ComposeEssay(ctx context.Context, prompt string) (*models.GeneratedEssay, error)
}

// EvaluationService orchestrates one essay-grading round trip: quota
// authorization, the backend call, contract validation, quota consumption.
// Grading is never retried automatically because each attempt is billed.
type EvaluationService struct {
	cfg     *config.Config
	backend Backend
	gate    *QuotaGate
}

func NewEvaluationService(cfg *config.Config, backend Backend, gate *QuotaGate) *EvaluationService {
	return &EvaluationService{cfg: cfg, backend: backend, gate: gate}
}

// buildEvaluationPrompt combines source and essay text with the ten
// criteria and their point ceilings spelled out verbatim, so the model's
// scoring is anchored to the fixed maxima.
func buildEvaluationPrompt(essayText, sourceText string) string {
	source := strings.TrimSpace(sourceText)
	if source == "" {
		source = noSourcePlaceholder
	}

	var sb strings.Builder
	sb.WriteString("=== SOURCE TEXT (Исходный текст) ===\n")
	sb.WriteString(source)
	sb.WriteString("\n====================================\n\n")
	sb.WriteString("=== STUDENT'S ESSAY (Сочинение) ===\n")
	sb.WriteString(essayText)
	sb.WriteString("\n====================================\n\n")
	sb.WriteString(fmt.Sprintf("Evaluate strictly according to official ЕГЭ criteria K1-K10 (Total %d points).\n", models.TotalMaxScore))
	for _, id := range models.CriterionOrder {
		def := models.Criteria[id]
		sb.WriteString(fmt.Sprintf("%s (%s): Max %d\n", id, def.Title, def.MaxScore))
	}
	return sb.String()
}

func buildGenerationPrompt(sourceText string) string {
	return fmt.Sprintf(`Напиши идеальное сочинение ЕГЭ по русскому языку (задание 27) на основе приведенного текста.
Используй Google Search для проверки любых литературных аргументов или исторических фактов, которые ты приводишь в обосновании (K3).

Сочинение должно быть структурным, грамотным и глубоким.
Объем: 200-300 слов.

=== ИСХОДНЫЙ ТЕКСТ ===
%s
======================`, sourceText)
}

// denialError maps a quota gate denial to the typed error taxonomy.
func denialError(decision Decision) *Error {
	switch decision.Reason {
	case DenialUnauthenticated:
		return newError(KindUnauthenticated, "no valid account credential")
	case DenialNotFound:
		return newError(KindQuotaExhausted, "account has no quota record")
	default:
		return newError(KindQuotaExhausted, "no free checks remaining")
	}
}

// EvaluateEssay grades one essay against the ten criteria. Exactly one
// backend attempt is made; on success exactly one quota unit is consumed.
// Persistence of the returned result is the caller's responsibility.
func (s *EvaluationService) EvaluateEssay(ctx context.Context, accountID, essayText, sourceText string) (*models.EvaluationResult, error) {
	if strings.TrimSpace(essayText) == "" {
		return nil, newError(KindInvalidInput, "essay text is empty")
	}

	if decision := s.gate.Authorize(ctx, accountID); !decision.Allowed {
		return nil, denialError(decision)
	}

	raw, err := s.backend.GradeEssay(ctx, buildEvaluationPrompt(essayText, sourceText))
	if err != nil {
		return nil, wrapError(KindBackendUnavailable, "grading backend call failed", err)
	}

	result, err := ParseEvaluation(raw)
	if err != nil {
		return nil, err
	}

	// The attempt is billed only once the result is known to be valid.
	if err := s.gate.Consume(ctx, accountID); err != nil {
		log.Printf("Failed to consume quota for %s: %v", accountID, err)
	}
	return result, nil
}

// GenerateEssay writes a reference essay for the source text. Shares the
// quota and transport semantics of EvaluateEssay; the only structural
// requirement on the output is non-empty text.
func (s *EvaluationService) GenerateEssay(ctx context.Context, accountID, sourceText string) (*models.GeneratedEssay, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, newError(KindInvalidInput, "source text is empty")
	}

	if decision := s.gate.Authorize(ctx, accountID); !decision.Allowed {
		return nil, denialError(decision)
	}

	essay, err := s.backend.ComposeEssay(ctx, buildGenerationPrompt(sourceText))
	if err != nil {
		return nil, wrapError(KindBackendUnavailable, "generation backend call failed", err)
	}
	if strings.TrimSpace(essay.Text) == "" {
		return nil, newError(KindBackendUnavailable, "model returned empty text")
	}

	if err := s.gate.Consume(ctx, accountID); err != nil {
		log.Printf("Failed to consume quota for %s: %v", accountID, err)
	}
	return essay, nil
}
