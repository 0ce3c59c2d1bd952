package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	} else if page == 1 {
		totalPages = 1
	}

	currentPage := page
	if totalPages > 0 && currentPage > totalPages {
		currentPage = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams extracts pagination parameters from the request.
// ok is false when the client asked for neither page nor size.
func ParsePaginationParams(c *gin.Context) (page, size int, ok bool) {
	pageStr, hasPage := c.GetQuery("page")
	sizeStr, hasSize := c.GetQuery("size")
	if !hasPage && !hasSize {
		return DefaultPage, DefaultPageSize, false
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(sizeStr)
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size, true
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	// pages past the end are empty; checked before multiplying so huge pages cannot overflow
	if page-1 >= (totalItems+size-1)/size {
		return totalItems, totalItems
	}

	start = (page - 1) * size
	end = start + size
	if end > totalItems {
		end = totalItems
	}

	return start, end
}
