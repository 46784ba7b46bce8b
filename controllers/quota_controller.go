package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetQuota reports how many free checks the account has left. Unknown
// accounts read as zero until their first grading request seeds them.
func GetQuota(ctx *gin.Context) {
	accountID := ctx.GetString("accountId")

	remaining, err := quotaGate.Remaining(ctx, accountID)
	if err != nil {
		log.Println("Failed to read quota:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quota"})
		return
	}

	ctx.JSON(200, gin.H{"remainingFreeChecks": remaining})
}
