// README: Customer identity record.
package user

import (
	"time"

	"drivehire/internal/types"
)

type User struct {
	ID           types.ID
	Username     string
	Email        string
	Phone        string
	District     string
	PasswordHash string
	Role         types.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
