package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
	"github.com/yigit/elearning/internal/pkg/helpers"
)

// StudentController handles enrollment and the enrolled course view
type StudentController struct {
	enrollmentService services.EnrollmentService
}

// NewStudentController creates a new StudentController
func NewStudentController(enrollmentService services.EnrollmentService) *StudentController {
	return &StudentController{enrollmentService: enrollmentService}
}

// StudentCoursePath is the enrolled view of a course
func StudentCoursePath(courseID int64) string {
	return fmt.Sprintf("/students/course/%d/", courseID)
}

// Enroll adds the student to a course and redirects to its content
func (c *StudentController) Enroll(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	course, err := c.enrollmentService.Enroll(ctx.Request.Context(), ctx.Param("slug"), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	helpers.RedirectWithNotice(ctx, StudentCoursePath(course.ID), helpers.NoticeSuccess, "Enrolled.")
}

// ListCourses lists the courses the student is enrolled in
func (c *StudentController) ListCourses(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	courses, err := c.enrollmentService.ListCourses(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// CourseView shows an enrolled course, optionally focused on one module
func (c *StudentController) CourseView(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	moduleID, ok := optionalPathID(ctx, "module_id")
	if !ok {
		return
	}

	resp, err := c.enrollmentService.CourseView(ctx.Request.Context(), courseID, userID, moduleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
