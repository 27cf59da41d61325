package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskoo-project/backend/config"
	"taskoo-project/backend/database"
	"taskoo-project/backend/handlers"
	"taskoo-project/backend/logging"
	"taskoo-project/backend/middleware"
	"taskoo-project/backend/services"
	"taskoo-project/backend/utils"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.InitLogger(logging.Options{SystemName: "taskoo-backend", File: cfg.LogFile, Level: cfg.LogLevel})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Taskoo backend...")

	if err := cfg.Validate(); err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
		}
	}()

	cols := database.NewCollections(client.Database(cfg.MongoDBName))
	if err := cols.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_COLLECTION_SET, Description: Using MongoDB database: %s", cfg.MongoDBName)

	files, err := services.NewGridFSStore(cols.DB, database.AttachmentsBucket)
	if err != nil {
		logging.Logger.Fatalf("Event ID: GRIDFS_FAILED, Description: %v", err)
	}

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	activities := services.NewActivityService(cols.Activities)
	projectService := services.NewProjectService(cols.Projects, cols.Tasks, cols.Accounts, cols.Buckets, files, activities)
	taskService := services.NewTaskService(cols.Tasks, cols.Projects, cols.Buckets, files, activities)
	accountService := services.NewAccountService(cols.Accounts, cols.Positions, tokens)
	coreService := services.NewCoreService(cols.Projects, cols.Tasks, cols.Buckets)

	projectHandler := handlers.NewProjectHandler(projectService, coreService, accountService, cfg.UploadMaxMemory)
	taskHandler := handlers.NewTaskHandler(taskService, cfg.UploadMaxMemory)
	accountHandler := handlers.NewAccountHandler(accountService)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	limiter.StartCleanup(10*time.Minute, ctx.Done())
	metrics := middleware.NewMetrics()

	r := mux.NewRouter()
	r.Use(metrics.Middleware)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := client.Ping(r.Context(), nil); err != nil {
			utils.WriteError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		utils.WriteJSON(w, http.StatusOK, "ok", nil)
	}).Methods(http.MethodGet)

	handlers.RegisterRoutes(r, projectHandler, taskHandler, accountHandler,
		[]mux.MiddlewareFunc{limiter.Middleware},
		[]mux.MiddlewareFunc{middleware.Session(tokens), limiter.Middleware},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           middleware.CORS(cfg.CORSOrigin)(middleware.RequestLogger(r)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: %v", err)
	}
}
