package routes

import (
	"egehub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupEssayRoutes registers the grading endpoints on the authenticated
// group.
func SetupEssayRoutes(rg *gin.RouterGroup) {
	rg.POST("/essay/evaluate", controllers.EvaluateEssay)
	rg.POST("/essay/generate", controllers.GenerateEssay)
	rg.GET("/essay/history", controllers.GetHistory)
	rg.GET("/essay/stats", controllers.GetStats)
	rg.GET("/quota", controllers.GetQuota)
}
