package router

import (
	"database/sql"
	"net/http"

	"court_booking_backend/internal/config"
	"court_booking_backend/internal/handlers"
	"court_booking_backend/internal/metrics"
	"court_booking_backend/internal/middleware"
	"court_booking_backend/internal/models"
	"court_booking_backend/internal/notifications"
	"court_booking_backend/internal/repositories"
	"court_booking_backend/internal/services"
	"court_booking_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Dependencies are the process-wide resources the routes are built from.
// Redis may be nil (no rate limiting); Publisher may be notifications.Noop.
type Dependencies struct {
	Config    config.Config
	DB        *sql.DB
	Redis     *redis.Client
	Publisher notifications.Publisher
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	db := deps.DB
	tokens := utils.NewTokenManager(deps.Config.JWTSecret, deps.Config.JWTExpiration())
	publisher := deps.Publisher
	if publisher == nil {
		publisher = notifications.Noop{}
	}

	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	whitelistRepo := repositories.NewAddressWhitelistRepository(db)
	facilityRepo := repositories.NewFacilityRepository(db)

	// Initialize Services
	var authBackend services.AuthBackend
	if deps.Config.AuthBackend == config.AuthBackendMock {
		utils.LogWarn("Using mock auth backend; any credentials are accepted")
		authBackend = services.NewMockAuthBackend(tokens)
	} else {
		authBackend = services.NewDatabaseAuthBackend(authRepo, db, tokens)
	}
	bookingService := services.NewBookingService(bookingRepo, db)
	membershipService := services.NewMembershipService(membershipRepo, whitelistRepo, db)
	whitelistService := services.NewAddressWhitelistService(whitelistRepo, membershipRepo, db)
	facilityService := services.NewFacilityService(facilityRepo)

	// Initialize Handlers
	handlers.RegisterValidations()
	authHandler := handlers.NewAuthHandler(authBackend, membershipService, publisher)
	bookingHandler := handlers.NewBookingHandler(bookingService, publisher)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	whitelistHandler := handlers.NewAddressWhitelistHandler(whitelistService)
	facilityHandler := handlers.NewFacilityHandler(facilityService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	guards := routeGuards{
		authenticated: middleware.AuthMiddleware(tokens),
		admin:         middleware.RoleAuthMiddleware(models.RoleAdmin),
		facilityAdmin: middleware.FacilityAdminMiddleware(membershipService, "facilityId"),
		rateLimited:   middleware.RateLimit(deps.Config.RateLimit, deps.Redis),
	}

	apiV1 := engine.Group("/api/v1")
	SetupAuthRoutes(apiV1, authHandler, guards)
	SetupBookingRoutes(apiV1, bookingHandler, guards)
	SetupFacilityRoutes(apiV1, facilityHandler, membershipHandler, guards)
	SetupAddressWhitelistRoutes(apiV1, whitelistHandler, guards)
}
