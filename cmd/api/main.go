package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           ADFD Withdrawal Request API
// @version         1.0
// @description     API for managing fund withdrawal requests through the ADFD approval workflow.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.SeedUsers(db, os.Getenv("SEED_PASSWORD")); err != nil {
		log.Println("WARNING: Failed to seed users:", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	timelineRepo := repository.NewTimelineRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	txManager := repository.NewTransactionManager(db)

	userService := service.NewUserService(userRepo, refreshTokenRepo)
	permissionService := service.NewPermissionService()
	requestService := service.NewRequestService(requestRepo, timelineRepo, txManager, service.NewReferenceGenerator(), wsHub)
	timelineService := service.NewTimelineService(timelineRepo, requestRepo)
	commentService := service.NewCommentService(commentRepo, timelineRepo, requestRepo, txManager)
	documentService := service.NewDocumentService(documentRepo, timelineRepo, requestRepo, txManager)
	statisticsService := service.NewStatisticsService(requestRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	requestHandler := handler.NewRequestHandler(requestService, timelineService, permissionService, userService)
	commentHandler := handler.NewCommentHandler(commentService, userService)
	documentHandler := handler.NewDocumentHandler(documentService, userService)
	permissionHandler := handler.NewPermissionHandler(permissionService, userService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	requestHandler.RegisterRoutes(router.Group(""))
	commentHandler.RegisterRoutes(router.Group(""))
	documentHandler.RegisterRoutes(router.Group(""))
	permissionHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
