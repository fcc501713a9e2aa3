package auth

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types
const (
	UserTypeDonor    = "donor"
	UserTypeReceiver = "receiver"
	UserTypeAdmin    = "admin"
)

// User represents a registered user in the system
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Phone       string             `bson:"phone" json:"phone"`
	UserType    string             `bson:"userType" json:"userType"`
	AvatarURL   string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Banned      bool               `bson:"banned" json:"banned"`
	FirebaseUID string             `bson:"firebaseUid,omitempty" json:"-"`
	GoogleID    string             `bson:"googleId,omitempty" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Profile is the subset of a user shown next to donations, reports and messages
type Profile struct {
	ID        primitive.ObjectID `json:"id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	UserType  string             `json:"userType"`
	AvatarURL string             `json:"avatarUrl,omitempty"`
}

// ToProfile returns the public projection of the user
func (u *User) ToProfile() *Profile {
	if u == nil {
		return nil
	}
	return &Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		UserType:  u.UserType,
		AvatarURL: u.AvatarURL,
	}
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user moderates the platform
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// RegisterRequest represents the payload for email/password signup
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	UserType  string `json:"userType" binding:"required,oneof=donor receiver admin"`
	AdminCode string `json:"adminCode,omitempty"`
}

// LoginRequest represents the payload for email/password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// FederatedAuthRequest represents a Firebase or Google sign-in
type FederatedAuthRequest struct {
	IDToken  string `json:"idToken" binding:"required"`
	UserType string `json:"userType" binding:"omitempty,oneof=donor receiver"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}

// UpdateProfileRequest represents the payload for updating user profile
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=50"`
	Phone     *string `json:"phone" binding:"omitempty"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty"`
}

// UserFilter narrows the admin user listing
type UserFilter struct {
	UserType string
	Banned   *bool
}
