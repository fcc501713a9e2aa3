package admin

import (
	"time"

	"github.com/xyz-asif/sharebox/internal/features/auth"
)

type UserListQuery struct {
	UserType string `form:"userType"`
	Banned   string `form:"banned"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// UserRow is one line of the admin user table
type UserRow struct {
	auth.Profile
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"createdAt"`
}
