package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"itinera/internal/api/controllers"
	"itinera/internal/config"
	"itinera/pkg/middleware"
	"itinera/pkg/utils"
)

// Auth endpoints allow a burst of 10 and then one request every 6s per IP.
const (
	authRateEvery = 6 * time.Second
	authRateBurst = 10
	authIdleTTL   = 10 * time.Minute
)

type RouterParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	Tokens *utils.TokenManager

	Accounts      *controllers.AccountController
	Itineraries   *controllers.ItineraryController
	Travelers     *controllers.TravelerController
	Notifications *controllers.NotificationController
	Analytics     *controllers.AnalyticsController
	Chat          *controllers.ChatController
}

func NewRouter(p RouterParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(p.Config.CORSOrigins))
	r.MaxMultipartMemory = 1 << 20

	RegisterRoutes(r, p)
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.TraceIDHeader},
		ExposeHeaders:    []string{middleware.TraceIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	r.GET("/health", controllers.Health)
	r.Static("/uploads", p.Config.UploadDir)

	limiter := middleware.NewIPRateLimiter(rate.Every(authRateEvery), authRateBurst, authIdleTTL)
	authGroup := r.Group("/auth", limiter.Middleware())
	authGroup.POST("/signup", p.Accounts.Signup)
	authGroup.POST("/login", p.Accounts.Login)
	authGroup.POST("/send-otp", p.Accounts.SendOtp)
	authGroup.POST("/verify-otp", p.Accounts.VerifyOtp)
	authGroup.POST("/reset-password", p.Accounts.ResetPassword)

	secured := r.Group("/", middleware.JWTAuthMiddleware(p.Tokens))

	itineraryGroup := secured.Group("/itineraries")
	itineraryGroup.POST("", p.Itineraries.Upload)
	itineraryGroup.POST("/manual", p.Itineraries.CreateManual)
	itineraryGroup.GET("", p.Itineraries.List)
	itineraryGroup.GET("/search", p.Itineraries.Search)
	itineraryGroup.GET("/:id", p.Itineraries.Get)
	itineraryGroup.PATCH("/:id/status", p.Itineraries.UpdateStatus)
	itineraryGroup.GET("/:id/export", p.Itineraries.Export)
	itineraryGroup.DELETE("/:id", p.Itineraries.Delete)

	itineraryGroup.POST("/:id/travelers", p.Travelers.Add)
	itineraryGroup.GET("/:id/travelers", p.Travelers.List)
	itineraryGroup.DELETE("/:id/travelers/:travelerId", p.Travelers.Remove)

	itineraryGroup.POST("/:id/notify", p.Notifications.NotifyTraveler)
	itineraryGroup.POST("/:id/notify-all", p.Notifications.NotifyAll)

	secured.GET("/analytics", p.Analytics.GetAnalytics)
	secured.POST("/chat/query", p.Chat.ChatQuery)
}
