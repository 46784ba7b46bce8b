package controllers

import (
	"log"
	"net/http"
	"time"

	"egehub/db"
	"egehub/highlight"
	"egehub/internal/throttle"
	"egehub/models"
	"egehub/services"
	"egehub/structs"

	"github.com/gin-gonic/gin"
)

var (
	evaluationService *services.EvaluationService
	quotaGate         *services.QuotaGate
	submissionLimiter *throttle.Limiter
	persistResults    bool

	// Swapped out in tests; the repository layer needs a live database.
	insertEvaluation = db.InsertEvaluation
)

// InitEssayController wires the grading service into the HTTP handlers.
// limiter may be nil when Redis throttling is not configured; persist is
// false in local mode, where results are returned but not saved.
func InitEssayController(service *services.EvaluationService, gate *services.QuotaGate, limiter *throttle.Limiter, persist bool) {
	evaluationService = service
	quotaGate = gate
	submissionLimiter = limiter
	persistResults = persist
}

// persistenceError tags a save failure with its place in the error
// taxonomy before it is logged.
func persistenceError(err error) error {
	return &services.Error{
		Kind:    services.KindPersistenceFailure,
		Message: "failed to save evaluation",
		Err:     err,
	}
}

// statusForKind maps the grading error taxonomy onto HTTP statuses.
func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindInvalidInput:
		return http.StatusBadRequest
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindQuotaExhausted:
		return http.StatusForbidden
	case services.KindBackendUnavailable, services.KindContractViolation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// EvaluateEssay grades one essay, highlights the cited error fragments
// and saves the record. A persistence failure is not fatal: the result
// still goes back to the user with saved=false.
func EvaluateEssay(ctx *gin.Context) {
	accountID := ctx.GetString("accountId")

	var request structs.EvaluateEssayRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(400, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	allowed, err := submissionLimiter.Allow(ctx, accountID)
	if err != nil {
		log.Println("Throttle check failed:", err)
	} else if !allowed {
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many submissions, try again later"})
		return
	}

	result, err := evaluationService.EvaluateEssay(ctx, accountID, request.EssayText, request.SourceText)
	if err != nil {
		ctx.JSON(statusForKind(services.KindOf(err)), gin.H{"error": err.Error()})
		return
	}

	segments := highlight.Reconcile(request.EssayText, result.Scores)

	// A failed save never discards the computed result; the user paid a
	// check for it.
	saved := false
	evaluationID := ""
	if persistResults {
		record := models.StoredEvaluation{
			AccountID: accountID,
			EssayText: request.EssayText,
			Result:    *result,
			CreatedAt: time.Now(),
		}
		id, err := insertEvaluation(ctx, record)
		if err != nil {
			log.Println(persistenceError(err))
		} else {
			saved = true
			evaluationID = id
		}
	}

	ctx.JSON(200, gin.H{
		"result":       result,
		"segments":     segments,
		"saved":        saved,
		"evaluationId": evaluationID,
	})
}

// GenerateEssay produces a reference essay for the given source text,
// with grounded citations when the model used search.
func GenerateEssay(ctx *gin.Context) {
	accountID := ctx.GetString("accountId")

	var request structs.GenerateEssayRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(400, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	essay, err := evaluationService.GenerateEssay(ctx, accountID, request.SourceText)
	if err != nil {
		ctx.JSON(statusForKind(services.KindOf(err)), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(200, gin.H{
		"essayText": essay.Text,
		"sources":   essay.Sources,
	})
}
