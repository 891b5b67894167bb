package helpers

import (
	"net/http"
	"strconv"
	"strings"

	"applicantdesk/internal/domain"
)

// Applicant list query limits.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ParseApplicantListParams reads q, page and page_size from the query string.
// Missing or malformed numbers fall back to page 1 and DefaultPageSize;
// page_size is capped at MaxPageSize.
func ParseApplicantListParams(r *http.Request) domain.ApplicantListParams {
	q := r.URL.Query()
	pageSize := min(positiveInt(q.Get("page_size"), DefaultPageSize), MaxPageSize)
	return domain.ApplicantListParams{
		Query: strings.TrimSpace(q.Get("q")),
		Pagination: domain.PaginationParams{
			Page:     positiveInt(q.Get("page"), 1),
			PageSize: pageSize,
		},
	}
}

func positiveInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// PaginationMeta describes the page window of a list response.
type PaginationMeta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// NewPaginationMeta builds the response window for p given total matching rows.
func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	meta := PaginationMeta{Page: p.Page, PageSize: p.PageSize, Total: total}
	if p.PageSize > 0 {
		meta.TotalPages = (total + p.PageSize - 1) / p.PageSize
	}
	meta.HasMore = p.Page < meta.TotalPages
	return meta
}
