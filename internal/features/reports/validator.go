package reports

import (
	"strings"

	"github.com/xyz-asif/sharebox/internal/pkg/validator"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

const (
	minReasonLength = 10
	maxReasonLength = 1000
)

func ValidateCreateReport(req *CreateReportRequest) error {
	req.Reason = strings.TrimSpace(req.Reason)
	if !validator.LengthBetween(req.Reason, minReasonLength, maxReasonLength) {
		return apperrors.Wrapf(apperrors.ErrValidation, "reason must be between %d and %d characters", minReasonLength, maxReasonLength)
	}
	return nil
}

func ValidateListQuery(q *ListQuery) error {
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	switch q.Status {
	case "", "all":
		q.Status = ""
	case StatusPending, StatusApproved, StatusRejected, StatusBanned:
	default:
		return apperrors.Wrap(apperrors.ErrValidation, "unknown report status")
	}
	return nil
}
