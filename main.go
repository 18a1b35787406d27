package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covenant/config"
	"covenant/cron"
	"covenant/database"
	auditRepoPkg "covenant/database/repository/audit"
	profileRepoPkg "covenant/database/repository/profile"
	supportRepoPkg "covenant/database/repository/support"
	userRepoPkg "covenant/database/repository/user"
	"covenant/handlers"
	"covenant/middleware"
	"covenant/routes"
	"covenant/services/auth"
	"covenant/services/support"
	"covenant/services/upload"
	"covenant/services/verification"
	"covenant/services/wizard"
	"covenant/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	assetStorage, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage: %v", err)
	}

	// Verify the expected collections exist before taking traffic.
	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	missing, err := database.CheckSchema(schemaCtx)
	cancelSchema()
	if err != nil {
		logger.Sugar().Warnf("main: schema check failed: %v", err)
	}
	utils.SetMissingCollections(missing)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(routes.NewCORS())

	// Repositories.
	users := userRepoPkg.NewMongoUserRepo()
	profiles := profileRepoPkg.NewMongoProfileRepo()
	audits := auditRepoPkg.NewMongoAuditRepo()
	tickets := supportRepoPkg.NewMongoSupportRepo()

	// Face matching falls back to an always-approve stub when no Gemini key
	// is configured, which keeps local development usable.
	var matcher verification.FaceMatcher
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		matcher = verification.NewGeminiMatcher(key)
	} else {
		logger.Sugar().Warn("main: GEMINI_API_KEY not set, selfie verification will auto-approve")
		matcher = &verification.StaticMatcher{Outcome: true}
	}
	gate := verification.NewGate(assetStorage, audits, matcher)

	// Services.
	authService := &auth.DefaultAuthService{
		Repo:  users,
		Cache: utils.GetAuthCacheClient(),
	}
	wizardService := wizard.NewWizardService(profiles, gate)
	uploader := upload.NewCoordinator(assetStorage)
	supportService := &support.DefaultSupportService{
		Repo:  tickets,
		Queue: cron.NewQueueClient(),
	}

	handlerBundle := &handlers.HandlerBundle{
		AuthService:    authService,
		WizardService:  wizardService,
		Uploader:       uploader,
		SupportService: supportService,
	}

	routes.RegisterAuthRoutes(router, handlerBundle)
	routes.RegisterWizardRoutes(router, handlerBundle)
	routes.RegisterSupportRoutes(router, handlerBundle)
	routes.RegisterHealthRoute(router)

	cron.InitDispatchWorker(tickets)
	utils.StartHealthMonitor([]*redis.Client{utils.GetAuthCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
