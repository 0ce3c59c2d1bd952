package dto

import (
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/pkg/youtube"
)

// VideoSearchResponse is the video list page
type VideoSearchResponse struct {
	Query      *string           `json:"q"`
	Results    *int              `json:"results"`
	MaxLengths []int             `json:"maxLengths"`
	Subjects   []*models.Subject `json:"subjects"`
	Videos     []youtube.Video   `json:"videos"`
}
