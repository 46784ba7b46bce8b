package db

import (
	"context"
	"fmt"
	"time"

	"egehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userUpdate builds the upsert document: mutable profile fields are
// always refreshed, createdAt only set on first insert.
func userUpdate(user models.User) bson.M {
	return bson.M{
		"$set": bson.M{
			"email":       user.Email,
			"displayName": user.DisplayName,
			"guest":       user.Guest,
		},
		"$setOnInsert": bson.M{
			"accountId": user.AccountID,
			"createdAt": time.Now(),
		},
	}
}

// UpsertUser records an account on first sight and refreshes its display
// name afterwards.
func UpsertUser(ctx context.Context, user models.User) error {
	if UserCollection == nil {
		return fmt.Errorf("database not initialized")
	}

	filter := bson.M{"accountId": user.AccountID}
	opts := options.Update().SetUpsert(true)

	_, err := UserCollection.UpdateOne(ctx, filter, userUpdate(user), opts)
	return err
}
