package services

import (
	"encoding/json"
	"testing"

	"egehub/models"
)

// validPayload builds a grading response with full marks everywhere.
func validPayload(t *testing.T, mutate func(map[string]interface{})) string {
	t.Helper()

	scores := map[string]interface{}{}
	for _, id := range models.CriterionOrder {
		scores[string(id)] = map[string]interface{}{
			"score":   models.Criteria[id].MaxScore,
			"comment": "Без замечаний.",
		}
	}
	payload := map[string]interface{}{
		"scores":          scores,
		"totalScore":      models.TotalMaxScore,
		"overallFeedback": "Отличная работа.",
	}
	if mutate != nil {
		mutate(payload)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return string(data)
}

func TestParseEvaluationAcceptsValidPayload(t *testing.T) {
	result, err := ParseEvaluation(validPayload(t, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalScore != models.TotalMaxScore {
		t.Errorf("expected total %d, got %d", models.TotalMaxScore, result.TotalScore)
	}
	if len(result.Scores) != 10 {
		t.Errorf("expected 10 scores, got %d", len(result.Scores))
	}
	if len(result.Scores[models.K1].Errors) != 0 {
		t.Errorf("expected omitted errors to read as empty, got %v", result.Scores[models.K1].Errors)
	}
}

func TestParseEvaluationAcceptsFencedPayload(t *testing.T) {
	raw := validPayload(t, nil)
	fenced := "```json\n" + raw + "\n```"

	plain, err := ParseEvaluation(raw)
	if err != nil {
		t.Fatalf("unexpected error on plain payload: %v", err)
	}
	wrapped, err := ParseEvaluation(fenced)
	if err != nil {
		t.Fatalf("unexpected error on fenced payload: %v", err)
	}
	if plain.TotalScore != wrapped.TotalScore || plain.OverallFeedback != wrapped.OverallFeedback {
		t.Error("fenced payload parsed differently from plain payload")
	}
}

func TestParseEvaluationRejectsMissingCriterion(t *testing.T) {
	for _, id := range models.CriterionOrder {
		raw := validPayload(t, func(p map[string]interface{}) {
			delete(p["scores"].(map[string]interface{}), string(id))
		})
		_, err := ParseEvaluation(raw)
		if KindOf(err) != KindContractViolation {
			t.Errorf("missing %s: expected contract violation, got %v", id, err)
		}
	}
}

func TestParseEvaluationRejectsScoreOutOfRange(t *testing.T) {
	for _, bad := range []int{-1, models.Criteria[models.K2].MaxScore + 1} {
		raw := validPayload(t, func(p map[string]interface{}) {
			p["scores"].(map[string]interface{})["K2"] = map[string]interface{}{
				"score":   bad,
				"comment": "x",
			}
		})
		_, err := ParseEvaluation(raw)
		if KindOf(err) != KindContractViolation {
			t.Errorf("score %d: expected contract violation, got %v", bad, err)
		}
	}
}

func TestParseEvaluationRejectsTotalOutOfRange(t *testing.T) {
	for _, bad := range []int{-1, models.TotalMaxScore + 1} {
		raw := validPayload(t, func(p map[string]interface{}) {
			p["totalScore"] = bad
		})
		_, err := ParseEvaluation(raw)
		if KindOf(err) != KindContractViolation {
			t.Errorf("total %d: expected contract violation, got %v", bad, err)
		}
	}
}

func TestParseEvaluationRejectsUnknownCriterion(t *testing.T) {
	raw := validPayload(t, func(p map[string]interface{}) {
		p["scores"].(map[string]interface{})["K11"] = map[string]interface{}{
			"score":   0,
			"comment": "x",
		}
	})
	_, err := ParseEvaluation(raw)
	if KindOf(err) != KindContractViolation {
		t.Errorf("expected contract violation for extra key, got %v", err)
	}
}

func TestParseEvaluationRejectsNonJSON(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "```\n```"} {
		_, err := ParseEvaluation(raw)
		if KindOf(err) != KindContractViolation {
			t.Errorf("payload %q: expected contract violation, got %v", raw, err)
		}
	}
}

func TestParseEvaluationRejectsBlankFeedback(t *testing.T) {
	raw := validPayload(t, func(p map[string]interface{}) {
		p["overallFeedback"] = "   "
	})
	_, err := ParseEvaluation(raw)
	if KindOf(err) != KindContractViolation {
		t.Errorf("expected contract violation, got %v", err)
	}
}

func TestParseEvaluationKeepsErrorFragments(t *testing.T) {
	raw := validPayload(t, func(p map[string]interface{}) {
		p["scores"].(map[string]interface{})["K7"] = map[string]interface{}{
			"score":   2,
			"comment": "Одна орфографическая ошибка.",
			"errors":  []map[string]string{{"text": "превет"}},
		}
	})
	result, err := ParseEvaluation(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fragments := result.Scores[models.K7].Errors
	if len(fragments) != 1 || fragments[0].Text != "превет" {
		t.Errorf("expected cited fragment to survive parsing, got %v", fragments)
	}
}
