package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrorFragment is a literal substring of the essay cited by the grader as
// the location of a specific mistake.
type ErrorFragment struct {
	Text string `bson:"text" json:"text"`
}

// CriterionScore is the grader's verdict for a single criterion. Errors
// are only populated when the score is below the criterion ceiling, though
// the backend is not always consistent about that.
type CriterionScore struct {
	Score   int             `bson:"score" json:"score"`
	Comment string          `bson:"comment" json:"comment"`
	Errors  []ErrorFragment `bson:"errors,omitempty" json:"errors,omitempty"`
}

// EvaluationResult is the full per-criterion score report for one essay.
type EvaluationResult struct {
	Scores          map[CriterionID]CriterionScore `bson:"scores" json:"scores"`
	TotalScore      int                            `bson:"totalScore" json:"totalScore"`
	OverallFeedback string                         `bson:"overallFeedback" json:"overallFeedback"`
}

// StoredEvaluation is one persisted grading record. Records are immutable
// after insert and owned by exactly one account.
type StoredEvaluation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID string             `bson:"accountId" json:"accountId"`
	EssayText string             `bson:"essayText" json:"essayText"`
	Result    EvaluationResult   `bson:"resultData" json:"resultData"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// EssaySource is a best-effort citation attached to a generated essay.
type EssaySource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// GeneratedEssay is the result of the "write a model essay" operation.
type GeneratedEssay struct {
	Text    string        `json:"text"`
	Sources []EssaySource `json:"sources,omitempty"`
}
