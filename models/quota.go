package models

// QuotaState tracks how many free backend-billed checks an account has
// left. Server-side only; never trust a client-supplied value.
type QuotaState struct {
	AccountID           string `bson:"accountId" json:"accountId"`
	RemainingFreeChecks int    `bson:"remainingFreeChecks" json:"remainingFreeChecks"`
}
