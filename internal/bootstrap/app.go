package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/creatorflow/apigateway/internal/config"
	"github.com/creatorflow/apigateway/internal/handler"
	"github.com/creatorflow/apigateway/internal/logger"
	"github.com/creatorflow/apigateway/internal/repository"
	"github.com/creatorflow/apigateway/internal/scheduler"
	"github.com/creatorflow/apigateway/internal/search"
	"github.com/creatorflow/apigateway/internal/service"
	"github.com/creatorflow/apigateway/internal/store"
)

type App struct {
	Echo      *echo.Echo
	Store     *store.Client
	Scheduler *scheduler.Scheduler
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	loc, err := time.LoadLocation(config.DefaultEnvConfig.APP_TIMEZONE)
	if err != nil {
		logger.WarnLog(ctx, "invalid APP_TIMEZONE %q, falling back to UTC", config.DefaultEnvConfig.APP_TIMEZONE)
		loc = time.UTC
	}

	// Initialize the document store client. It is the only persistence in
	// this gateway, so failing to connect fails the whole app.
	storeClient, err := store.NewClient(ctx, config.DefaultEnvConfig.GCP_PROJECT_ID)
	if err != nil {
		return fmt.Errorf("failed to initialize datastore client: %w", err)
	}
	a.Store = storeClient

	// Repositories
	taskRepo := repository.NewTaskRepository(storeClient)
	projectRepo := repository.NewProjectRepository(storeClient)
	eventRepo := repository.NewEventRepository(storeClient)
	spendingRepo := repository.NewSpendingRepository(storeClient)

	// Optional search index
	var taskIndex *search.TaskIndex
	if url := config.DefaultEnvConfig.ELASTIC_URL; url != "" {
		taskIndex, err = search.NewTaskIndex(url)
		if err != nil {
			// Search is a secondary read model; run without it.
			logger.WarnLog(ctx, "failed to initialize task search index: %v", err)
			taskIndex = nil
		}
	}

	// Services
	var indexer service.TaskIndexer
	if taskIndex != nil {
		indexer = taskIndex
	}
	taskSvc := service.NewTaskService(taskRepo, projectRepo, indexer, loc)
	reconcileSvc := service.NewReconcileService(taskRepo, loc)
	projectSvc := service.NewProjectService(projectRepo)
	eventSvc := service.NewEventService(eventRepo)
	spendingSvc := service.NewSpendingService(spendingRepo)

	// Handlers
	taskHandler := handler.NewTaskHandler(taskSvc, reconcileSvc, taskIndex)
	projectHandler := handler.NewProjectHandler(projectSvc, taskSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	spendingHandler := handler.NewSpendingHandler(spendingSvc, config.DefaultEnvConfig.SPENDING_REPORT_LAYOUT)

	// Periodic in-process reconciliation trigger
	interval := time.Duration(config.DefaultEnvConfig.RECONCILE_INTERVAL_HOURS) * time.Hour
	a.Scheduler = scheduler.New(interval, reconcileSvc.ReconcileAll)

	a.RegisterMiddlewares()
	a.RegisterRoutes(taskHandler, projectHandler, eventHandler, spendingHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(taskHandler *handler.TaskHandler, projectHandler *handler.ProjectHandler, eventHandler *handler.EventHandler, spendingHandler *handler.SpendingHandler) {
	a.Echo.POST("/tasks", taskHandler.CreateHandler)
	a.Echo.GET("/tasks", taskHandler.ListHandler)
	a.Echo.GET("/tasks/search", taskHandler.SearchHandler)
	a.Echo.POST("/tasks/reconcile", taskHandler.ReconcileHandler)
	a.Echo.POST("/tasks/:id/toggle", taskHandler.ToggleHandler)
	a.Echo.POST("/internal/reconcile", taskHandler.InternalReconcileHandler)

	a.Echo.POST("/projects", projectHandler.CreateHandler)
	a.Echo.GET("/projects", projectHandler.ListHandler)
	a.Echo.GET("/projects/:id", projectHandler.GetHandler)
	a.Echo.GET("/projects/:id/progress", projectHandler.ProgressHandler)

	a.Echo.POST("/events", eventHandler.CreateHandler)
	a.Echo.GET("/events", eventHandler.ListHandler)

	a.Echo.POST("/spending", spendingHandler.CreateHandler)
	a.Echo.GET("/spending", spendingHandler.ListHandler)
	a.Echo.GET("/spending/report", spendingHandler.ReportHandler)
}

func (a *App) Run() error {
	defer a.Store.Close()

	a.Scheduler.Start(context.Background())
	defer a.Scheduler.Stop()

	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
