package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
)

// EnrollmentService handles the student side of a course
type EnrollmentService interface {
	Enroll(ctx context.Context, slug string, studentID int64) (*models.Course, error)
	ListCourses(ctx context.Context, studentID int64) ([]*models.Course, error)
	CourseView(ctx context.Context, courseID, studentID int64, moduleID *int64) (*dto.StudentCourseResponse, error)
}

type enrollmentServiceImpl struct {
	courses     CourseStore
	modules     ModuleStore
	contents    ContentStore
	enrollments EnrollmentStore
	hydrator    *contentHydrator
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	courses CourseStore,
	modules ModuleStore,
	contents ContentStore,
	items ItemStore,
	enrollments EnrollmentStore,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		courses:     courses,
		modules:     modules,
		contents:    contents,
		enrollments: enrollments,
		hydrator:    &contentHydrator{items: items, logger: logger},
		logger:      logger,
	}
}

// Enroll adds the student to the course; repeating it changes nothing
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, slug string, studentID int64) (*models.Course, error) {
	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	added, err := s.enrollments.Enroll(ctx, course.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("error enrolling: %w", err)
	}
	if added {
		s.logger.Info().Int64("courseID", course.ID).Int64("studentID", studentID).Msg("Student enrolled")
	}
	return course, nil
}

// ListCourses returns the courses the student is enrolled in
func (s *enrollmentServiceImpl) ListCourses(ctx context.Context, studentID int64) ([]*models.Course, error) {
	courses, err := s.courses.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled courses: %w", err)
	}
	return courses, nil
}

// CourseView shows an enrolled course with one module's contents; without a
// module id the first module is selected.
func (s *enrollmentServiceImpl) CourseView(ctx context.Context, courseID, studentID int64, moduleID *int64) (*dto.StudentCourseResponse, error) {
	enrolled, err := s.enrollments.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, fmt.Errorf("error checking enrollment: %w", err)
	}
	if !enrolled {
		return nil, apperrors.ErrNotEnrolled
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	modules, err := s.modules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing modules: %w", err)
	}

	resp := &dto.StudentCourseResponse{Course: course, Modules: modules}

	var selected *models.Module
	if moduleID != nil {
		selected, err = s.modules.GetInCourse(ctx, *moduleID, courseID)
		if err != nil {
			return nil, err
		}
	} else if len(modules) > 0 {
		selected = modules[0]
	}
	if selected == nil {
		return resp, nil
	}

	contents, err := s.contents.ListByModule(ctx, selected.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing contents: %w", err)
	}
	if err := s.hydrator.hydrate(ctx, contents); err != nil {
		return nil, err
	}
	resp.Module = &dto.ModuleContentsResponse{Module: selected, Contents: contents}
	return resp, nil
}
