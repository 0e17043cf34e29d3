// README: Driver-facing HTTP handlers: register, login, profile, stats, search.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"drivehire/internal/http/middleware"
	"drivehire/internal/modules/driver"
	"drivehire/internal/types"
)

type registerDriverReq struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Password      string `json:"password" binding:"required"`
	LicenseNumber string `json:"licenseNumber" binding:"required"`
	District      string `json:"district" binding:"required"`
	City          string `json:"city" binding:"required"`
	SalaryPerDay  int    `json:"salaryPerDay" binding:"required"`
}

type driverResponse struct {
	ID             types.ID `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	District       string   `json:"district"`
	City           string   `json:"city"`
	SalaryPerDay   int      `json:"salaryPerDay"`
	Rating         float64  `json:"rating"`
	Availability   string   `json:"availability"`
	ApprovalStatus string   `json:"approvalStatus"`
}

func toDriverResponse(d *driver.Driver) driverResponse {
	return driverResponse{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		District:       d.District,
		City:           d.City,
		SalaryPerDay:   d.SalaryPerDay,
		Rating:         d.Rating,
		Availability:   string(d.Availability),
		ApprovalStatus: string(d.ApprovalStatus),
	}
}

func (s *Server) HandleDriverRegister(c *gin.Context) {
	var req registerDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	d, err := s.driver.Register(c.Request.Context(), driver.RegisterCommand{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      req.Password,
		LicenseNumber: req.LicenseNumber,
		District:      req.District,
		City:          req.City,
		SalaryPerDay:  req.SalaryPerDay,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDriverResponse(d))
}

func (s *Server) HandleDriverLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, d, err := s.driver.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "driver": toDriverResponse(d)})
}

func (s *Server) HandleDriverProfile(c *gin.Context) {
	if middleware.ActorRole(c) != types.RoleDriver {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	d, err := s.driver.Get(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		respondAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(d))
}

func (s *Server) HandleDriverStats(c *gin.Context) {
	if middleware.ActorRole(c) != types.RoleDriver {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	st, err := s.stats.DriverStats(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// HandleDriverSearch lists bookable drivers, optionally narrowed by district.
func (s *Server) HandleDriverSearch(c *gin.Context) {
	list, err := s.driver.Search(c.Request.Context(), c.Query("district"))
	if err != nil {
		respondAccountError(c, err)
		return
	}
	out := make([]driverResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDriverResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"drivers": out})
}
