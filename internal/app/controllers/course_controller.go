package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
	"github.com/yigit/elearning/internal/pkg/helpers"
)

// ManageCoursesPath is where a teacher lands after deleting a course
const ManageCoursesPath = "/course/manage/"

// CourseController serves the course page and the teacher's course management
type CourseController struct {
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// Detail renders one course by slug for anyone; signed-in students get enrollment hints
func (c *CourseController) Detail(ctx *gin.Context) {
	var viewer services.Viewer
	if userID, ok := middleware.CurrentUserID(ctx); ok {
		viewer.UserID = userID
		viewer.Role, _ = middleware.CurrentRole(ctx)
	}

	resp, err := c.courseService.Detail(ctx.Request.Context(), ctx.Param("slug"), viewer)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListOwned lists the teacher's own courses
func (c *CourseController) ListOwned(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	courses, err := c.courseService.ListOwned(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// Create adds a course owned by the teacher
func (c *CourseController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CourseRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	course, err := c.courseService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// Update edits a course owned by the teacher
func (c *CourseController) Update(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CourseRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	course, err := c.courseService.Update(ctx.Request.Context(), courseID, userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// Delete removes a course owned by the teacher and redirects to the course list
func (c *CourseController) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx.Request.Context(), courseID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	helpers.RedirectWithNotice(ctx, ManageCoursesPath, helpers.NoticeSuccess, "Course deleted.")
}

// Modules shows the module formset of a course
func (c *CourseController) Modules(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.courseService.Modules(ctx.Request.Context(), courseID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateModules replaces the module set of a course
func (c *CourseController) UpdateModules(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ModuleFormsetRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	resp, err := c.courseService.UpdateModules(ctx.Request.Context(), courseID, userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("courseID", courseID).
		Int("modules", len(resp.Modules)).
		Msg("Course modules saved")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CoursePath is the public page of a course
func CoursePath(slug string) string {
	return fmt.Sprintf("/course/%s/", slug)
}
