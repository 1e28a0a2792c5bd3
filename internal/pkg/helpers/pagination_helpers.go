package helpers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/stallhub/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

type pageQuery struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}

// ParsePaginationParams reads the 1-based page and size query parameters.
// Missing, malformed or out of range values fall back to the defaults.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return DefaultPage, DefaultPageSize
	}
	return normalizePage(q.Page, q.Size)
}

// CalculateOffsetLimit turns a 1-based page into a SQL offset and limit
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	page, limit = normalizePage(page, size)
	return uint64(page-1) * uint64(limit), limit
}

// NewPaginationInfo describes a page of totalItems. An empty result still has one page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	page, size = normalizePage(page, size)

	totalPages := 1
	if totalItems > 0 {
		totalPages = int((totalItems + int64(size) - 1) / int64(size))
	}

	return dto.PaginationInfo{
		CurrentPage: min(page, totalPages),
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}
