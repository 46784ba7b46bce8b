package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"egehub/models"
)

// cleanModelOutput strips markdown code fences the model sometimes wraps
// its JSON in.
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ParseEvaluation validates a raw grading response against the evaluation
// contract: all ten criterion keys present, every score within its
// criterion ceiling, totalScore within [0, 22], non-empty overall
// feedback. Violations are never patched or defaulted; the response is
// rejected so backend schema drift surfaces immediately.
func ParseEvaluation(raw string) (*models.EvaluationResult, error) {
	cleaned := cleanModelOutput(raw)
	if cleaned == "" {
		return nil, contractViolation("body", "empty response body")
	}

	var result models.EvaluationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &Error{
			Kind:    KindContractViolation,
			Message: fmt.Sprintf("response is not valid JSON: %v", err),
			Field:   "body",
			Err:     err,
		}
	}

	if result.Scores == nil {
		return nil, contractViolation("scores", "missing scores object")
	}
	for id := range result.Scores {
		if _, ok := models.Criteria[id]; !ok {
			return nil, contractViolation(string(id), "unknown criterion key")
		}
	}
	for _, id := range models.CriterionOrder {
		score, ok := result.Scores[id]
		if !ok {
			return nil, contractViolation(string(id), "missing criterion key")
		}
		def := models.Criteria[id]
		if score.Score < 0 || score.Score > def.MaxScore {
			return nil, contractViolation(string(id),
				fmt.Sprintf("score %d out of range [0, %d]", score.Score, def.MaxScore))
		}
	}

	if result.TotalScore < 0 || result.TotalScore > models.TotalMaxScore {
		return nil, contractViolation("totalScore",
			fmt.Sprintf("total score %d out of range [0, %d]", result.TotalScore, models.TotalMaxScore))
	}
	if strings.TrimSpace(result.OverallFeedback) == "" {
		return nil, contractViolation("overallFeedback", "missing overall feedback")
	}

	return &result, nil
}
