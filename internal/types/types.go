// README: Shared identifier and actor-role types used across modules.
package types

// ID is an opaque row identifier (bigserial in Postgres).
type ID int64

// Role identifies the kind of actor behind a request.
type Role string

const (
	RoleUser   Role = "user"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDriver, RoleAdmin:
		return true
	}
	return false
}
