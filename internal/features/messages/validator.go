package messages

import (
	"strings"

	"github.com/xyz-asif/sharebox/internal/pkg/validator"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

const maxContentLength = 2000

func ValidateSendMessage(req *SendMessageRequest) error {
	req.Content = strings.TrimSpace(req.Content)
	req.RecipientID = strings.TrimSpace(req.RecipientID)
	req.DonationID = strings.TrimSpace(req.DonationID)

	if !validator.LengthBetween(req.Content, 1, maxContentLength) {
		return apperrors.Wrapf(apperrors.ErrValidation, "content must be between 1 and %d characters", maxContentLength)
	}
	if req.RecipientID == "" && req.DonationID == "" {
		return apperrors.Wrap(apperrors.ErrValidation, "recipientId or donationId is required")
	}
	return nil
}
