package controllers

import (
	"log"
	"net/http"

	"egehub/db"
	"egehub/stats"

	"github.com/gin-gonic/gin"
)

// GetHistory returns the account's grading records, newest first.
func GetHistory(ctx *gin.Context) {
	accountID := ctx.GetString("accountId")

	if !persistResults {
		ctx.JSON(200, gin.H{"evaluations": []gin.H{}})
		return
	}

	evaluations, err := db.ListEvaluations(ctx, accountID)
	if err != nil {
		log.Println("Failed to list evaluations:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	ctx.JSON(200, gin.H{"evaluations": evaluations})
}

// GetStats returns aggregate progress numbers and the score trend.
func GetStats(ctx *gin.Context) {
	accountID := ctx.GetString("accountId")

	if !persistResults {
		ctx.JSON(200, gin.H{
			"totalChecks":  0,
			"averageScore": "0",
			"bestScore":    0,
			"timeSeries":   []stats.Point{},
		})
		return
	}

	evaluations, err := db.ListEvaluations(ctx, accountID)
	if err != nil {
		log.Println("Failed to list evaluations:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	ctx.JSON(200, gin.H{
		"totalChecks":  len(evaluations),
		"averageScore": stats.Average(evaluations),
		"bestScore":    stats.Best(evaluations),
		"timeSeries":   stats.TimeSeries(evaluations),
	})
}
