// README: Booking handlers: create, act on, fetch, and list bookings.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"drivehire/internal/http/middleware"
	"drivehire/internal/modules/booking"
	"drivehire/internal/types"
)

type createBookingReq struct {
	DriverID        int64      `json:"driverId" binding:"required"`
	PickupLocation  string     `json:"pickupLocation" binding:"required"`
	DropLocation    string     `json:"dropLocation" binding:"required"`
	TripStart       time.Time  `json:"tripStart" binding:"required"`
	TripEnd         *time.Time `json:"tripEnd"`
	Amount          float64    `json:"amount"`
	SpecialRequests string     `json:"specialRequests"`
}

type bookingResponse struct {
	ID              types.ID   `json:"id"`
	Reference       string     `json:"reference"`
	UserID          types.ID   `json:"userId"`
	DriverID        types.ID   `json:"driverId"`
	PickupLocation  string     `json:"pickupLocation"`
	DropLocation    string     `json:"dropLocation"`
	TripStart       time.Time  `json:"tripStart"`
	TripEnd         *time.Time `json:"tripEnd,omitempty"`
	Status          string     `json:"status"`
	Amount          float64    `json:"amount"`
	SpecialRequests string     `json:"specialRequests,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toBookingResponse(b *booking.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		UserID:          b.UserID,
		DriverID:        b.DriverID,
		PickupLocation:  b.PickupLocation,
		DropLocation:    b.DropLocation,
		TripStart:       b.TripStart,
		TripEnd:         b.TripEnd,
		Status:          string(b.Status),
		Amount:          b.Amount,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
	}
}

func (s *Server) HandleCreateBooking(c *gin.Context) {
	if middleware.ActorRole(c) != types.RoleUser {
		c.JSON(http.StatusForbidden, gin.H{"error": "only customers can book"})
		return
	}

	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	b, err := s.booking.Create(c.Request.Context(), booking.CreateCommand{
		UserID:          middleware.ActorID(c),
		DriverID:        types.ID(req.DriverID),
		PickupLocation:  req.PickupLocation,
		DropLocation:    req.DropLocation,
		TripStart:       req.TripStart,
		TripEnd:         req.TripEnd,
		Amount:          req.Amount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (s *Server) HandleBookingAction(c *gin.Context) {
	id, ok := pathID(c, "bookingId")
	if !ok {
		return
	}

	b, err := s.booking.Transition(c.Request.Context(), booking.TransitionCommand{
		BookingID: id,
		Action:    c.Param("action"),
		ActorID:   middleware.ActorID(c),
		ActorRole: middleware.ActorRole(c),
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (s *Server) HandleGetBooking(c *gin.Context) {
	id, ok := pathID(c, "bookingId")
	if !ok {
		return
	}

	b, err := s.booking.Get(c.Request.Context(), id)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	if !bookingVisible(b, middleware.ActorID(c), middleware.ActorRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

// HandleListBookings scopes the listing to the caller: customers see their
// own bookings, drivers their assigned ones, admins everything.
func (s *Server) HandleListBookings(c *gin.Context) {
	actorID := middleware.ActorID(c)
	f := booking.Filter{Limit: 50}
	switch middleware.ActorRole(c) {
	case types.RoleUser:
		f.UserID = &actorID
	case types.RoleDriver:
		f.DriverID = &actorID
	case types.RoleAdmin:
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	list, err := s.booking.List(c.Request.Context(), f)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

func bookingVisible(b *booking.Booking, actorID types.ID, role types.Role) bool {
	switch role {
	case types.RoleAdmin:
		return true
	case types.RoleUser:
		return b.UserID == actorID
	case types.RoleDriver:
		return b.DriverID == actorID
	}
	return false
}
