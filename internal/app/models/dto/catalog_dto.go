package dto

import "time"

// SubjectSummary is a subject with its course count
type SubjectSummary struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	TotalCourses int64  `json:"totalCourses"`
}

// CourseSummary is a catalog row with its aggregates
type CourseSummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Overview      string    `json:"overview"`
	SubjectID     int64     `json:"subjectId"`
	SubjectTitle  string    `json:"subjectTitle"`
	OwnerName     string    `json:"ownerName"`
	CreatedAt     time.Time `json:"createdAt"`
	TotalModules  int64     `json:"totalModules"`
	TotalReviews  int64     `json:"totalReviews"`
	AverageRating *float64  `json:"averageRating"` // null when there are no reviews
}

// CatalogResponse is the course listing page
type CatalogResponse struct {
	Subjects   []SubjectSummary `json:"subjects"`
	Subject    *SubjectSummary  `json:"subject,omitempty"`
	Courses    []CourseSummary  `json:"courses"`
	Pagination *PaginationInfo  `json:"pagination,omitempty"`
}
