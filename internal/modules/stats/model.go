// README: Read-only projection shapes for dashboards and recommendations.
package stats

import (
	"time"

	"drivehire/internal/types"
)

type UserDashboard struct {
	TotalBookings  int       `json:"totalBookings"`
	Pending        int       `json:"pending"`
	Confirmed      int       `json:"confirmed"`
	Completed      int       `json:"completed"`
	Cancelled      int       `json:"cancelled"`
	Rejected       int       `json:"rejected"`
	TotalSpent     float64   `json:"totalSpent"`
	FrequentDriver *types.ID `json:"frequentDriverId,omitempty"`
}

type RecentBooking struct {
	ID             types.ID  `json:"id"`
	PickupLocation string    `json:"pickupLocation"`
	DropLocation   string    `json:"dropLocation"`
	TripStart      time.Time `json:"tripStart"`
	Status         string    `json:"status"`
	DriverID       types.ID  `json:"driverId"`
	DriverName     string    `json:"driverName"`
	DriverDistrict string    `json:"driverDistrict"`
	DriverRating   float64   `json:"driverRating"`
	SalaryPerDay   int       `json:"salaryPerDay"`
}

type RecommendedDriver struct {
	ID           types.ID `json:"id"`
	Name         string   `json:"name"`
	District     string   `json:"district"`
	City         string   `json:"city"`
	Rating       float64  `json:"rating"`
	SalaryPerDay int      `json:"salaryPerDay"`
}

type DriverStats struct {
	TotalTrips    int     `json:"totalTrips"`
	Pending       int     `json:"pending"`
	Confirmed     int     `json:"confirmed"`
	Cancelled     int     `json:"cancelled"`
	Rejected      int     `json:"rejected"`
	TotalEarnings float64 `json:"totalEarnings"`
	Rating        float64 `json:"rating"`
}

type AdminStats struct {
	TotalDrivers     int     `json:"totalDrivers"`
	TotalUsers       int     `json:"totalUsers"`
	TotalBookings    int     `json:"totalBookings"`
	TotalRevenue     float64 `json:"totalRevenue"`
	PendingApprovals int     `json:"pendingApprovals"`
	ActiveBookings   int     `json:"activeBookings"`
}
