package dto

import (
	"github.com/yigit/elearning/internal/app/models"
)

// CourseRequest creates or updates a course. An empty slug is derived from the title.
type CourseRequest struct {
	SubjectID int64  `json:"subjectId" form:"subjectId" binding:"required,min=1"`
	Title     string `json:"title" form:"title" binding:"required,max=200"`
	Slug      string `json:"slug" form:"slug" binding:"omitempty,max=200"`
	Overview  string `json:"overview" form:"overview"`
}

// CourseDetailResponse is the public course page
type CourseDetailResponse struct {
	Course        *models.Course `json:"course"`
	OwnerName     string         `json:"ownerName"`
	TotalModules  int64          `json:"totalModules"`
	TotalReviews  int64          `json:"totalReviews"`
	AverageRating *float64       `json:"averageRating"`
	Enrolled      bool           `json:"enrolled"`
	// CanEnroll is true for signed-in students not yet enrolled
	CanEnroll     bool             `json:"canEnroll"`
	LatestReviews []*models.Review `json:"latestReviews"`
	ReviewForm    ReviewFormInfo   `json:"reviewForm"`
}

// ReviewFormInfo describes the review form shown on the course page
type ReviewFormInfo struct {
	Action           string `json:"action"`
	MinRating        int    `json:"minRating"`
	MaxRating        int    `json:"maxRating"`
	MaxCommentLength int    `json:"maxCommentLength"`
}

// ModuleFormEntry is one row of the module formset; a nil ID creates a module
type ModuleFormEntry struct {
	ID          *int64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ModuleFormsetRequest replaces the module set of a course
type ModuleFormsetRequest struct {
	Modules []ModuleFormEntry `json:"modules" binding:"required"`
}

// ModuleFormsetResponse shows a course with its modules for editing
type ModuleFormsetResponse struct {
	Course  *models.Course   `json:"course"`
	Modules []*models.Module `json:"modules"`
}
