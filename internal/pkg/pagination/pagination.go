package pagination

import "strconv"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PaginationRequest represents a pagination request from client
type PaginationRequest struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// FromRequest creates pagination from HTTP request parameters
func FromRequest(pageStr, limitStr string) *PaginationRequest {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)
	page, limit = clamp(page, limit)

	return &PaginationRequest{
		Page:  page,
		Limit: limit,
	}
}

// Skip returns the number of documents to skip for this request
func (r *PaginationRequest) Skip() int64 {
	return int64((r.Page - 1) * r.Limit)
}

func clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
