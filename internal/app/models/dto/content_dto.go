package dto

import "github.com/yigit/elearning/internal/app/models"

// ContentFormResponse is the create/edit form for one item
type ContentFormResponse struct {
	ModuleID    int64              `json:"moduleId"`
	ContentType models.ContentType `json:"contentType"`
	Fields      []string           `json:"fields"`
	Upload      bool               `json:"upload"`
	Item        models.Item        `json:"item,omitempty"`
}

// ModuleContentsResponse lists a module's ordered contents with their items
type ModuleContentsResponse struct {
	Course   *models.Course    `json:"course"`
	Module   *models.Module    `json:"module"`
	Contents []*models.Content `json:"contents"`

	// ContentTypes are the tags accepted by the content form routes
	ContentTypes []models.ContentType `json:"contentTypes"`
}
