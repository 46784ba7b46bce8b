package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User defines a user entity
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID   string             `bson:"accountId" json:"accountId"`
	Email       string             `bson:"email" json:"email"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	Guest       bool               `bson:"guest,omitempty" json:"guest,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
