// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"drivehire/internal/http/middleware"
	"drivehire/internal/maps"
	"drivehire/internal/modules/booking"
	"drivehire/internal/modules/driver"
	"drivehire/internal/modules/stats"
	"drivehire/internal/modules/user"
	"drivehire/internal/types"
)

type ServerDeps struct {
	Booking   *booking.Service
	Driver    *driver.Service
	User      *user.Service
	Stats     *stats.Service
	Routes    *maps.RouteService
	Places    *maps.PlacesService
	JWTSecret string
	Log       *zap.Logger
}

type Server struct {
	booking   *booking.Service
	driver    *driver.Service
	user      *user.Service
	stats     *stats.Service
	routes    *maps.RouteService
	places    *maps.PlacesService
	jwtSecret string
	log       *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		booking:   deps.Booking,
		driver:    deps.Driver,
		user:      deps.User,
		stats:     deps.Stats,
		routes:    deps.Routes,
		places:    deps.Places,
		jwtSecret: deps.JWTSecret,
		log:       deps.Log,
	}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(s.log), middleware.Recovery(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	api.POST("/users/register", s.HandleUserRegister)
	api.POST("/users/login", s.HandleUserLogin)
	api.POST("/drivers/register", s.HandleDriverRegister)
	api.POST("/drivers/login", s.HandleDriverLogin)

	authed := api.Group("", middleware.Auth(s.jwtSecret))

	authed.GET("/users/me", s.HandleUserProfile)
	authed.PUT("/users/me", s.HandleUserUpdateProfile)
	authed.GET("/users/dashboard", s.HandleUserDashboard)

	authed.GET("/drivers/me", s.HandleDriverProfile)
	authed.GET("/drivers/me/stats", s.HandleDriverStats)
	authed.GET("/drivers", s.HandleDriverSearch)

	authed.POST("/bookings", s.HandleCreateBooking)
	authed.GET("/bookings", s.HandleListBookings)
	authed.GET("/bookings/:bookingId", s.HandleGetBooking)
	authed.POST("/bookings/:bookingId/:action", s.HandleBookingAction)

	authed.GET("/trips/estimate", s.HandleTripEstimate)
	authed.GET("/trips/places", s.HandlePlaceSuggestions)

	admin := authed.Group("/admin", middleware.RequireRole(types.RoleAdmin))
	admin.GET("/stats", s.HandleAdminStats)
	admin.POST("/drivers/:driverId/approval", s.HandleDriverApproval)

	return r
}
