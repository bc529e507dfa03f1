package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/shared/constants"
)

// Pagination is the page window requested by a list endpoint.
type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and page_size from the query string.
// Missing or non-positive values fall back to the defaults; page_size is capped at MaxPageSize.
func ParsePagination(c *gin.Context) Pagination {
	p := Pagination{
		Page:     queryPositiveInt(c, "page", constants.DefaultPage),
		PageSize: queryPositiveInt(c, "page_size", constants.DefaultPageSize),
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}
	return p
}

func queryPositiveInt(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// TotalPages never reports fewer than one page, so empty lists still render page 1 of 1.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
