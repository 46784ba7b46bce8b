package db

import (
	"context"
	"fmt"

	"egehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertEvaluation saves one grading record. Records are never updated
// afterwards.
func InsertEvaluation(ctx context.Context, evaluation models.StoredEvaluation) (string, error) {
	if EvaluationCollection == nil {
		return "", fmt.Errorf("database not initialized")
	}

	if evaluation.ID.IsZero() {
		evaluation.ID = primitive.NewObjectID()
	}

	result, err := EvaluationCollection.InsertOne(ctx, evaluation)
	if err != nil {
		return "", err
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("internal server error")
	}
	return id.Hex(), nil
}

// ListEvaluations returns all grading records for one account, newest
// first. Trend views re-sort ascending on the aggregation side.
func ListEvaluations(ctx context.Context, accountID string) ([]models.StoredEvaluation, error) {
	if EvaluationCollection == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	filter := bson.M{"accountId": accountID}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := EvaluationCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var evaluations []models.StoredEvaluation
	if err := cursor.All(ctx, &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}
