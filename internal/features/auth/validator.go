package auth

import (
	"strings"

	"github.com/xyz-asif/sharebox/internal/pkg/validator"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

// ValidateRegister checks the fields binding tags can't express and
// normalizes the request in place
func ValidateRegister(req *RegisterRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if !validator.IsValidEmail(req.Email) {
		return apperrors.Wrap(apperrors.ErrValidation, "invalid email address")
	}
	if len(req.Password) < 6 {
		return apperrors.Wrap(apperrors.ErrValidation, "password must be at least 6 characters")
	}
	if req.FirstName == "" || req.LastName == "" {
		return apperrors.Wrap(apperrors.ErrValidation, "first name and last name are required")
	}
	if !validator.IsValidPhone(req.Phone) {
		return apperrors.Wrap(apperrors.ErrValidation, "invalid phone number")
	}
	req.Phone = validator.NormalizePhone(req.Phone)

	switch req.UserType {
	case UserTypeDonor, UserTypeReceiver, UserTypeAdmin:
	default:
		return apperrors.Wrap(apperrors.ErrValidation, "user type must be donor, receiver or admin")
	}

	return nil
}

// ValidateProfileUpdate trims the optional fields and checks them
func ValidateProfileUpdate(req *UpdateProfileRequest) error {
	if req.FirstName != nil {
		v := strings.TrimSpace(*req.FirstName)
		if v == "" {
			return apperrors.Wrap(apperrors.ErrValidation, "first name cannot be empty")
		}
		req.FirstName = &v
	}
	if req.LastName != nil {
		v := strings.TrimSpace(*req.LastName)
		if v == "" {
			return apperrors.Wrap(apperrors.ErrValidation, "last name cannot be empty")
		}
		req.LastName = &v
	}
	if req.Phone != nil {
		if !validator.IsValidPhone(*req.Phone) {
			return apperrors.Wrap(apperrors.ErrValidation, "invalid phone number")
		}
		v := validator.NormalizePhone(*req.Phone)
		req.Phone = &v
	}
	if req.AvatarURL != nil && *req.AvatarURL != "" && !validator.IsValidURL(*req.AvatarURL) {
		return apperrors.Wrap(apperrors.ErrValidation, "invalid avatar url")
	}
	return nil
}
