package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination holds a bounded page window parsed from query parameters.
type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

// ParsePagination reads "page" and "limit" from the query string. Page
// defaults to 1, limit to the given per-resource default; non-positive or
// malformed values fall back to the defaults.
func ParsePagination(c *gin.Context, defaultLimit int) Pagination {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	return Pagination{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

// Pages returns the total page count, ceil(total/limit).
func (p Pagination) Pages(total int64) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}

// ListResponse builds the standard list envelope.
func ListResponse(p Pagination, count int, total int64, data interface{}) gin.H {
	return gin.H{
		"success": true,
		"count":   count,
		"total":   total,
		"pagination": gin.H{
			"page":  p.Page,
			"pages": p.Pages(total),
		},
		"data": data,
	}
}
