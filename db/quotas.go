package db

import (
	"context"
	"errors"
	"fmt"

	"egehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrQuotaNotFound indicates the account has no quota record.
var ErrQuotaNotFound = errors.New("quota record not found")

// ErrQuotaExhausted indicates the account has no remaining free checks.
var ErrQuotaExhausted = errors.New("no remaining free checks")

// ReadRemainingChecks returns the remaining free checks for an account.
func ReadRemainingChecks(ctx context.Context, accountID string) (int, error) {
	if QuotaCollection == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	var state models.QuotaState
	err := QuotaCollection.FindOne(ctx, bson.M{"accountId": accountID}).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrQuotaNotFound
		}
		return 0, err
	}
	return state.RemainingFreeChecks, nil
}

// DecrementRemainingChecks atomically decrements the counter, but only
// while it is still positive, so concurrent spends can never drive it
// below zero.
func DecrementRemainingChecks(ctx context.Context, accountID string) error {
	if QuotaCollection == nil {
		return fmt.Errorf("database not initialized")
	}

	filter := bson.M{"accountId": accountID, "remainingFreeChecks": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"remainingFreeChecks": -1}}

	err := QuotaCollection.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrQuotaExhausted
		}
		return err
	}
	return nil
}

// SeedQuota creates the quota record for a new account with the given
// allowance. Existing records are left untouched.
func SeedQuota(ctx context.Context, accountID string, freeChecks int) error {
	if QuotaCollection == nil {
		return fmt.Errorf("database not initialized")
	}

	filter := bson.M{"accountId": accountID}
	update := bson.M{"$setOnInsert": bson.M{
		"accountId":           accountID,
		"remainingFreeChecks": freeChecks,
	}}
	opts := options.Update().SetUpsert(true)

	_, err := QuotaCollection.UpdateOne(ctx, filter, update, opts)
	return err
}
