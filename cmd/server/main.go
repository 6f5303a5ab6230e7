package main

import (
	"context"
	"devcommunity/internal/api"
	"devcommunity/internal/config"
	"devcommunity/internal/mailer"
	"devcommunity/internal/repository/mongo"
	"devcommunity/internal/service"
	"devcommunity/internal/storage"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting DevCommunity Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsurePostIndexes(ctx, appDB.Collection("posts"))
		mongo.EnsureCommentIndexes(ctx, appDB.Collection("post_comments"))
		mongo.EnsureQuestionIndexes(ctx, appDB.Collection("questions"))
		mongo.EnsureAnswerIndexes(ctx, appDB.Collection("question_answers"))
		mongo.EnsureJobIndexes(ctx, appDB.Collection("jobs"))
		mongo.EnsureProjectIndexes(ctx, appDB.Collection("projects"))
		mongo.EnsureProposalIndexes(ctx, appDB.Collection("proposals"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Mailer ---
	mail := mailer.NewSMTPMailer(cfg.SMTP)

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	postRepo := mongo.NewMongoPostRepository(appDB)
	commentRepo := mongo.NewMongoCommentRepository(appDB)
	questionRepo := mongo.NewMongoQuestionRepository(appDB)
	answerRepo := mongo.NewMongoAnswerRepository(appDB)
	jobRepo := mongo.NewMongoJobRepository(appDB)
	projectRepo := mongo.NewMongoProjectRepository(appDB)
	proposalRepo := mongo.NewMongoProposalRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, fileStorage, mail, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo, postRepo, questionRepo, jobRepo, projectRepo, proposalRepo, fileStorage)
	postService := service.NewPostService(postRepo, commentRepo, userRepo, fileStorage)
	questionService := service.NewQuestionService(questionRepo, answerRepo, userRepo)
	jobService := service.NewJobService(jobRepo, userRepo, fileStorage, mail)
	projectService := service.NewProjectService(projectRepo, proposalRepo, userRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg, authService, userService, postService, questionService, jobService, projectService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
