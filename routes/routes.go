package routes

import (
	"net/http"
	"time"

	"covenant/handlers"
	"covenant/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the auth-modal endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)

		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/logout", hb.LogoutHandler)
	}
}

// RegisterWizardRoutes registers the profile wizard endpoints. All require
// authentication.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wizard")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("/start", hb.StartWizardHandler)
		api.GET("", hb.WizardStateHandler)
		api.GET("/options", hb.OptionsHandler)
		api.POST("/banner/dismiss", hb.DismissBannerHandler)
		api.POST("/advance", hb.AdvanceHandler)
		api.POST("/retreat", hb.RetreatHandler)
		api.PATCH("/field", hb.SetFieldHandler)
		api.POST("/tag", hb.ToggleTagHandler)
		api.POST("/location", hb.LocationHandler)
		api.POST("/photos", hb.UploadPhotoHandler)
		api.POST("/verify", hb.VerifyHandler)
		api.POST("/submit", hb.SubmitHandler)
		api.POST("/close", hb.CloseWizardHandler)
	}
}

// RegisterSupportRoutes registers the help form endpoint. Tickets may be
// submitted without an account.
func RegisterSupportRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/support")
	{
		api.POST("/tickets", hb.SupportTicketHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// NewCORS builds the CORS middleware shared by all routes.
func NewCORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
