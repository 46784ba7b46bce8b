package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"egehub/config"
	"egehub/controllers"
	"egehub/db"
	"egehub/internal/throttle"
	"egehub/middlewares"
	"egehub/routes"
	"egehub/services"
	"egehub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./config/config.prod.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	utils.SetJWTSecret(cfg.JWT.Secret, cfg.JWT.Expiry)

	// An empty database URI selects local mode: grading works, results
	// and quotas live in process memory only.
	persist := cfg.Database.URI != ""
	var quotaStore services.QuotaStore
	if persist {
		if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		log.Println("Connected to MongoDB")
		quotaStore = services.NewMongoQuotaStore()
	} else {
		log.Println("No database configured, running in local mode")
		quotaStore = services.NewMemoryQuotaStore()
	}

	backend, err := services.NewGeminiBackend(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini backend: %v", err)
	}

	gate := services.NewQuotaGate(quotaStore, cfg.Quota.FreeChecks)
	service := services.NewEvaluationService(cfg, backend, gate)

	var limiter *throttle.Limiter
	if cfg.Redis.URL != "" {
		window := time.Duration(cfg.Redis.WindowSeconds) * time.Second
		limiter, err = throttle.New(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.MaxSubmissions, window)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis, submission throttling enabled")
	}

	controllers.InitAuthController(cfg)
	controllers.InitEssayController(service, gate, limiter, persist)

	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	// Public routes for authentication
	router.POST("/signup", routes.SignUpRouteHandler)
	router.POST("/verifyEmail", routes.VerifyEmailRouteHandler)
	router.POST("/login", routes.LoginRouteHandler)
	router.POST("/guestToken", routes.GuestTokenRouteHandler)
	router.POST("/forgotPassword", routes.ForgotPasswordRouteHandler)
	router.POST("/confirmForgotPassword", routes.VerifyForgotPasswordRouteHandler)
	router.POST("/verifyToken", routes.VerifyTokenRouteHandler)

	// Protected routes (JWT auth)
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		routes.SetupEssayRoutes(auth)
	}

	return router
}
