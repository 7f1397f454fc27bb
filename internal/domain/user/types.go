package user

import "time"

// User is the minimal author view this service needs. Account
// management lives in the identity service.
type User struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
