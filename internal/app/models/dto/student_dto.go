package dto

import "github.com/yigit/elearning/internal/app/models"

// RecommendationResponse lists suggested courses and where they came from
type RecommendationResponse struct {
	// Source is "cluster" when based on similar users, "top_rated" otherwise
	Source  string          `json:"source"`
	Courses []CourseSummary `json:"courses"`
}

// StudentCourseResponse is the enrolled view of a course; Module is the selected one
type StudentCourseResponse struct {
	Course  *models.Course          `json:"course"`
	Modules []*models.Module        `json:"modules"`
	Module  *ModuleContentsResponse `json:"module,omitempty"`
}
