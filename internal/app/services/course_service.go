package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/filestorage"
	"github.com/yigit/elearning/internal/pkg/helpers"
	"github.com/yigit/elearning/internal/pkg/validation"
)

// LatestReviewsLimit is how many reviews the course page shows
const LatestReviewsLimit = 9

// Viewer identifies who is looking at a public page; a zero UserID is anonymous
type Viewer struct {
	UserID int64
	Role   models.RoleType
}

// CourseService defines the course page and the teacher's course management
type CourseService interface {
	Detail(ctx context.Context, slug string, viewer Viewer) (*dto.CourseDetailResponse, error)
	ListOwned(ctx context.Context, ownerID int64) ([]*models.Course, error)
	Create(ctx context.Context, ownerID int64, req dto.CourseRequest) (*models.Course, error)
	Update(ctx context.Context, courseID, ownerID int64, req dto.CourseRequest) (*models.Course, error)
	Delete(ctx context.Context, courseID, ownerID int64) error
	Modules(ctx context.Context, courseID, ownerID int64) (*dto.ModuleFormsetResponse, error)
	UpdateModules(ctx context.Context, courseID, ownerID int64, req dto.ModuleFormsetRequest) (*dto.ModuleFormsetResponse, error)
}

type courseServiceImpl struct {
	subjects    SubjectStore
	courses     CourseStore
	modules     ModuleStore
	contents    ContentStore
	items       ItemStore
	reviews     ReviewStore
	enrollments EnrollmentStore
	storage     filestorage.FileStorage
	tx          Transactor
	logger      zerolog.Logger
}

// CourseServiceDeps groups the collaborators of the course service
type CourseServiceDeps struct {
	Subjects    SubjectStore
	Courses     CourseStore
	Modules     ModuleStore
	Contents    ContentStore
	Items       ItemStore
	Reviews     ReviewStore
	Enrollments EnrollmentStore
	Storage     filestorage.FileStorage
	Tx          Transactor
}

// NewCourseService creates a new CourseService
func NewCourseService(deps CourseServiceDeps, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		subjects:    deps.Subjects,
		courses:     deps.Courses,
		modules:     deps.Modules,
		contents:    deps.Contents,
		items:       deps.Items,
		reviews:     deps.Reviews,
		enrollments: deps.Enrollments,
		storage:     deps.Storage,
		tx:          deps.Tx,
		logger:      logger,
	}
}

// Detail builds the public course page with the course's latest reviews
func (s *courseServiceImpl) Detail(ctx context.Context, slug string, viewer Viewer) (*dto.CourseDetailResponse, error) {
	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	stats, err := s.courses.Stats(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading course stats: %w", err)
	}

	reviews, err := s.reviews.LatestForCourse(ctx, course.ID, LatestReviewsLimit)
	if err != nil {
		return nil, fmt.Errorf("error loading reviews: %w", err)
	}

	resp := &dto.CourseDetailResponse{
		Course:        course,
		TotalModules:  stats.TotalModules,
		TotalReviews:  stats.TotalReviews,
		AverageRating: stats.AverageRating,
		LatestReviews: reviews,
		ReviewForm: dto.ReviewFormInfo{
			Action:           "/course/" + course.Slug + "/review/",
			MinRating:        models.MinRating,
			MaxRating:        models.MaxRating,
			MaxCommentLength: models.MaxCommentLength,
		},
	}
	if course.Owner != nil {
		resp.OwnerName = course.Owner.FullName()
	}

	if viewer.UserID > 0 && viewer.Role == models.RoleStudent {
		enrolled, err := s.enrollments.IsEnrolled(ctx, course.ID, viewer.UserID)
		if err != nil {
			return nil, fmt.Errorf("error checking enrollment: %w", err)
		}
		resp.Enrolled = enrolled
		resp.CanEnroll = !enrolled
	}
	return resp, nil
}

// ListOwned returns the teacher's courses
func (s *courseServiceImpl) ListOwned(ctx context.Context, ownerID int64) ([]*models.Course, error) {
	courses, err := s.courses.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// prepare validates a course form and resolves its slug
// reservedSlugs are /course/ path segments already taken by static routes
var reservedSlugs = map[string]bool{
	"videos":          true,
	"recommendations": true,
	"manage":          true,
	"module":          true,
	"content":         true,
	"subject":         true,
}

func (s *courseServiceImpl) prepare(ctx context.Context, req dto.CourseRequest, excludeID int64) (string, error) {
	errs := validation.FieldErrors{}
	errs.Check(validation.NewStringValidation(req.Title).WithMaxLength(validation.TitleMaxLength).Validate(),
		"title", "title is required and must be at most 250 characters")

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = req.Title
	}
	slug = helpers.Slugify(slug)
	errs.Check(slug != "", "slug", "slug cannot be derived from the title")
	errs.Check(!reservedSlugs[slug], "slug", "slug is reserved, choose another title or slug")

	exists, err := s.subjects.Exists(ctx, req.SubjectID)
	if err != nil {
		return "", fmt.Errorf("error checking subject: %w", err)
	}
	errs.Check(exists, "subjectId", "unknown subject")

	if !errs.Valid() {
		return "", apperrors.NewValidationError(errs)
	}

	taken, err := s.courses.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", fmt.Errorf("error checking slug: %w", err)
	}
	if taken {
		return "", apperrors.ErrSlugAlreadyExists
	}
	return slug, nil
}

// Create adds a course owned by ownerID
func (s *courseServiceImpl) Create(ctx context.Context, ownerID int64, req dto.CourseRequest) (*models.Course, error) {
	slug, err := s.prepare(ctx, req, 0)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		OwnerID:   ownerID,
		SubjectID: req.SubjectID,
		Title:     strings.TrimSpace(req.Title),
		Slug:      slug,
		Overview:  req.Overview,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Int64("ownerID", ownerID).Str("slug", slug).Msg("Course created")
	return course, nil
}

// Update edits an owned course; foreign courses are reported as not found
func (s *courseServiceImpl) Update(ctx context.Context, courseID, ownerID int64, req dto.CourseRequest) (*models.Course, error) {
	course, err := s.courses.GetForOwner(ctx, courseID, ownerID)
	if err != nil {
		return nil, err
	}

	slug, err := s.prepare(ctx, req, courseID)
	if err != nil {
		return nil, err
	}

	course.SubjectID = req.SubjectID
	course.Title = strings.TrimSpace(req.Title)
	course.Slug = slug
	course.Overview = req.Overview
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// deleteItems removes the items and stored files behind wrappers already gone from the database
func (s *courseServiceImpl) deleteItems(ctx context.Context, contents []*models.Content) {
	for _, c := range contents {
		kind, ok := models.ResolveContentType(string(c.ContentType))
		if !ok {
			continue
		}
		payload, err := s.items.Delete(ctx, kind, c.ObjectID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrItemNotFound) {
				s.logger.Warn().Err(err).Int64("objectID", c.ObjectID).Str("type", string(kind.Type)).Msg("Failed to delete item of removed content")
			}
			continue
		}
		if kind.Upload && payload != "" {
			if err := s.storage.DeleteFile(ctx, payload); err != nil {
				s.logger.Warn().Err(err).Str("file", payload).Msg("Failed to remove stored file")
			}
		}
	}
}

// Delete removes an owned course. Modules and content wrappers cascade in
// the database; items and their files are removed afterwards, best-effort.
func (s *courseServiceImpl) Delete(ctx context.Context, courseID, ownerID int64) error {
	if _, err := s.courses.GetForOwner(ctx, courseID, ownerID); err != nil {
		return err
	}

	contents, err := s.contents.ListByCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("error listing course contents: %w", err)
	}

	if err := s.courses.Delete(ctx, courseID, ownerID); err != nil {
		return err
	}

	s.deleteItems(ctx, contents)

	s.logger.Info().Int64("courseID", courseID).Int("contents", len(contents)).Msg("Course deleted")
	return nil
}

// Modules returns an owned course with its modules for the formset
func (s *courseServiceImpl) Modules(ctx context.Context, courseID, ownerID int64) (*dto.ModuleFormsetResponse, error) {
	course, err := s.courses.GetForOwner(ctx, courseID, ownerID)
	if err != nil {
		return nil, err
	}
	modules, err := s.modules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing modules: %w", err)
	}
	return &dto.ModuleFormsetResponse{Course: course, Modules: modules}, nil
}

func validateModules(entries []dto.ModuleFormEntry) validation.FieldErrors {
	errs := validation.FieldErrors{}
	for i, e := range entries {
		errs.Check(validation.NewStringValidation(e.Title).WithMaxLength(validation.TitleMaxLength).Validate(),
			fmt.Sprintf("modules[%d].title", i), "title is required and must be at most 250 characters")
		if e.ID != nil {
			errs.Check(*e.ID > 0, fmt.Sprintf("modules[%d].id", i), "invalid module id")
		}
	}
	return errs
}

// UpdateModules replaces the course's module set with the submitted list in
// one transaction: listed ids are updated, new entries are appended and
// unlisted modules are deleted.
func (s *courseServiceImpl) UpdateModules(ctx context.Context, courseID, ownerID int64, req dto.ModuleFormsetRequest) (*dto.ModuleFormsetResponse, error) {
	if _, err := s.courses.GetForOwner(ctx, courseID, ownerID); err != nil {
		return nil, err
	}
	if errs := validateModules(req.Modules); !errs.Valid() {
		return nil, apperrors.NewValidationError(errs)
	}

	keep := make([]int64, 0, len(req.Modules))
	kept := make(map[int64]bool, len(req.Modules))
	for _, e := range req.Modules {
		if e.ID != nil {
			keep = append(keep, *e.ID)
			kept[*e.ID] = true
		}
	}

	contents, err := s.contents.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing course contents: %w", err)
	}
	var dropped []*models.Content
	for _, c := range contents {
		if !kept[c.ModuleID] {
			dropped = append(dropped, c)
		}
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		deleted, err := s.modules.DeleteExcept(ctx, tx, courseID, keep)
		if err != nil {
			return err
		}

		for _, e := range req.Modules {
			m := &models.Module{
				CourseID:    courseID,
				Title:       strings.TrimSpace(e.Title),
				Description: e.Description,
			}
			if e.ID != nil {
				m.ID = *e.ID
				if err := s.modules.Update(ctx, tx, m); err != nil {
					return err
				}
				continue
			}

			order, err := s.modules.NextOrder(ctx, tx, courseID)
			if err != nil {
				return err
			}
			m.Order = order
			if err := s.modules.Create(ctx, tx, m); err != nil {
				return err
			}
		}

		s.logger.Debug().Int64("courseID", courseID).Int64("deleted", deleted).Int("submitted", len(req.Modules)).Msg("Module formset applied")
		return nil
	})
	if err != nil {
		return nil, err
	}

	// wrappers of dropped modules cascaded with them
	s.deleteItems(ctx, dropped)

	return s.Modules(ctx, courseID, ownerID)
}
