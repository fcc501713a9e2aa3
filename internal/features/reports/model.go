package reports

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
)

// Report statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusBanned   = "banned"
)

// UserReport is one user flagging another for moderation
type UserReport struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID primitive.ObjectID `bson:"reporterId" json:"reporterId"`
	ReportedID primitive.ObjectID `bson:"reportedUserId" json:"reportedUserId"`
	Reason     string             `bson:"reason" json:"reason"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ReportView adds both parties' profiles for the admin table
type ReportView struct {
	UserReport
	Reporter *auth.Profile `json:"reporter,omitempty"`
	Reported *auth.Profile `json:"reportedUser,omitempty"`
}

type CreateReportRequest struct {
	ReportedUserID string `json:"reportedUserId" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type ListQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// BanResult reports what a ban or unban changed
type BanResult struct {
	UserID          primitive.ObjectID `json:"userId"`
	Banned          bool               `json:"banned"`
	ReportsAffected int64              `json:"reportsAffected"`
}
