package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
	"github.com/yigit/elearning/internal/pkg/helpers"
)

// CatalogController serves the public course listing
type CatalogController struct {
	catalog services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalog services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListCourses lists all courses, or those of the subject named in the path
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	page, size, paginate := helpers.ParsePaginationParams(ctx)

	resp, err := c.catalog.ListCourses(ctx.Request.Context(), services.CatalogQuery{
		SubjectSlug: ctx.Param("subject"),
		Paginate:    paginate,
		Page:        page,
		Size:        size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
