// README: Customer-facing HTTP handlers: register, login, profile, dashboard.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"drivehire/internal/http/middleware"
	"drivehire/internal/modules/user"
	"drivehire/internal/types"
)

type registerUserReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	District string `json:"district"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       types.ID `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	District string   `json:"district,omitempty"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		District: u.District,
	}
}

func (s *Server) HandleUserRegister(c *gin.Context) {
	var req registerUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, u, err := s.user.Register(c.Request.Context(), user.RegisterCommand{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		District: req.District,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": toUserResponse(u)})
}

func (s *Server) HandleUserLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, u, err := s.user.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": toUserResponse(u)})
}

func (s *Server) HandleUserProfile(c *gin.Context) {
	if middleware.ActorRole(c) != types.RoleUser {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	u, err := s.user.Get(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		respondAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

type updateProfileReq struct {
	Username string `json:"username" binding:"required"`
	Phone    string `json:"phone"`
	District string `json:"district"`
}

func (s *Server) HandleUserUpdateProfile(c *gin.Context) {
	if middleware.ActorRole(c) != types.RoleUser {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	u, err := s.user.UpdateProfile(c.Request.Context(), middleware.ActorID(c), req.Username, req.Phone, req.District)
	if err != nil {
		respondAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// HandleUserDashboard aggregates booking counts, recent trips, and driver
// recommendations for the customer home screen.
func (s *Server) HandleUserDashboard(c *gin.Context) {
	if middleware.ActorRole(c) != types.RoleUser {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	ctx := c.Request.Context()
	actorID := middleware.ActorID(c)

	dash, err := s.stats.UserDashboard(ctx, actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	recent, err := s.stats.RecentBookings(ctx, actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	recommended, err := s.stats.RecommendedDrivers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":            dash,
		"recentBookings":     recent,
		"recommendedDrivers": recommended,
	})
}

// HandleTripEstimate returns driving duration between two places. Returns 503
// when the deployment has no maps API key configured.
func (s *Server) HandleTripEstimate(c *gin.Context) {
	pickup := c.Query("pickup")
	drop := c.Query("drop")
	if pickup == "" || drop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pickup and drop are required"})
		return
	}
	if s.routes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trip estimates not configured"})
		return
	}

	dur, distance, err := s.routes.TravelEstimate(c.Request.Context(), pickup, drop)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "estimate unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"durationMinutes": int(dur / time.Minute),
		"distance":        distance,
	})
}

func (s *Server) HandlePlaceSuggestions(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if s.places == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "place suggestions not configured"})
		return
	}

	places, err := s.places.SuggestPickupPoints(c.Request.Context(), c.Query("area"), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "suggestions unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}
