package donations

import (
	"strings"
	"time"

	"github.com/xyz-asif/sharebox/internal/pkg/validator"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

const (
	maxItemNameLength    = 120
	maxDescriptionLength = 2000
	maxImages            = 5
)

// ValidateCreate trims the request in place and checks it against now
func ValidateCreate(req *CreateDonationRequest, now time.Time) error {
	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.Quantity = strings.TrimSpace(req.Quantity)
	req.Location = strings.TrimSpace(req.Location)

	if !validator.LengthBetween(req.ItemName, 1, maxItemNameLength) {
		return apperrors.Wrapf(apperrors.ErrValidation, "item name must be between 1 and %d characters", maxItemNameLength)
	}
	if !validator.LengthBetween(req.Description, 0, maxDescriptionLength) {
		return apperrors.Wrapf(apperrors.ErrValidation, "description cannot exceed %d characters", maxDescriptionLength)
	}
	if !IsValidCategory(req.Category) {
		return apperrors.Wrapf(apperrors.ErrValidation, "category must be one of: %s", strings.Join(Categories, ", "))
	}
	if req.Quantity == "" {
		return apperrors.Wrap(apperrors.ErrValidation, "quantity is required")
	}
	if req.Location == "" {
		return apperrors.Wrap(apperrors.ErrValidation, "location is required")
	}

	if req.ExpiryTime != nil {
		if req.Category != CategoryFood {
			return apperrors.Wrap(apperrors.ErrValidation, "expiry time is only allowed for food donations")
		}
		if !req.ExpiryTime.After(now) {
			return apperrors.Wrap(apperrors.ErrValidation, "expiry time must be in the future")
		}
	}
	if req.AcceptanceDeadline != nil && !req.AcceptanceDeadline.After(now) {
		return apperrors.Wrap(apperrors.ErrValidation, "acceptance deadline must be in the future")
	}

	if len(req.Images) > maxImages {
		return apperrors.Wrapf(apperrors.ErrValidation, "at most %d images are allowed", maxImages)
	}
	for _, img := range req.Images {
		if !validator.IsValidURL(img) {
			return apperrors.Wrapf(apperrors.ErrValidation, "invalid image url: %s", img)
		}
	}

	if len(req.ImagePublicIDs) > len(req.Images) {
		return apperrors.Wrap(apperrors.ErrValidation, "more image public ids than images")
	}
	// Public ids come from the upload response and must name one of the images
	for _, id := range req.ImagePublicIDs {
		if !imageHasPublicID(req.Images, id) {
			return apperrors.Wrapf(apperrors.ErrValidation, "image public id %q does not match any image", id)
		}
	}

	return nil
}

func imageHasPublicID(images []string, id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	for _, img := range images {
		if strings.Contains(img, "/"+id+".") || strings.HasSuffix(img, "/"+id) {
			return true
		}
	}
	return false
}

// ValidateBrowseQuery normalizes the status filter and checks the category
func ValidateBrowseQuery(q *BrowseQuery) error {
	switch strings.ToLower(strings.TrimSpace(q.Status)) {
	case "", "all":
		q.Status = StatusAll
	case StatusPending, StatusReceived, StatusRejected:
		q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	default:
		return apperrors.Wrap(apperrors.ErrValidation, "status must be All, pending, received or rejected")
	}

	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Category == "all" {
		q.Category = ""
	}
	if q.Category != "" && !IsValidCategory(q.Category) {
		return apperrors.Wrap(apperrors.ErrValidation, "unknown category")
	}
	return nil
}
