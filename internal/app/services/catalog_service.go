package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/cache"
	"github.com/yigit/elearning/internal/pkg/helpers"
)

// Catalog cache keys. Entries are written without expiry and are never
// invalidated by course or review mutations.
const (
	CacheKeyAllSubjects = "all_subjects"
	CacheKeyAllCourses  = "all_courses"
)

// SubjectCoursesKey is the cache key of one subject's course listing
func SubjectCoursesKey(subjectID int64) string {
	return fmt.Sprintf("subject_%d_courses", subjectID)
}

// CatalogQuery selects a catalog page; an empty SubjectSlug lists every course
type CatalogQuery struct {
	SubjectSlug string
	// Paginate is false when the client asked for neither page nor size
	Paginate bool
	Page     int
	Size     int
}

// CatalogService defines the public course listing
type CatalogService interface {
	ListCourses(ctx context.Context, query CatalogQuery) (*dto.CatalogResponse, error)
}

type catalogServiceImpl struct {
	subjects SubjectStore
	courses  CourseStore
	cache    cache.Store
	logger   zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(subjects SubjectStore, courses CourseStore, store cache.Store, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		subjects: subjects,
		courses:  courses,
		cache:    store,
		logger:   logger,
	}
}

// ListCourses returns the subject list plus the courses of one subject or of all subjects
func (s *catalogServiceImpl) ListCourses(ctx context.Context, query CatalogQuery) (*dto.CatalogResponse, error) {
	var subjects []dto.SubjectSummary
	if err := s.cached(ctx, CacheKeyAllSubjects, &subjects, func() (interface{}, error) {
		return s.subjects.ListWithCourseCounts(ctx)
	}); err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}

	resp := &dto.CatalogResponse{Subjects: subjects}

	key := CacheKeyAllCourses
	var subjectID *int64
	if query.SubjectSlug != "" {
		subject, err := s.subjects.GetBySlug(ctx, query.SubjectSlug)
		if err != nil {
			return nil, err
		}
		subjectID = &subject.ID
		key = SubjectCoursesKey(subject.ID)

		summary := dto.SubjectSummary{ID: subject.ID, Title: subject.Title, Slug: subject.Slug}
		for _, sub := range subjects {
			if sub.ID == subject.ID {
				summary = sub
				break
			}
		}
		resp.Subject = &summary
	}

	var courses []dto.CourseSummary
	if err := s.cached(ctx, key, &courses, func() (interface{}, error) {
		return s.courses.ListSummaries(ctx, subjectID)
	}); err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	if query.Paginate {
		start, end := helpers.CalculateSliceIndices(query.Page, query.Size, len(courses))
		info := helpers.NewPaginationInfo(int64(len(courses)), query.Page, query.Size)
		resp.Pagination = &info
		courses = courses[start:end]
	}
	if courses == nil {
		courses = []dto.CourseSummary{}
	}
	resp.Courses = courses
	return resp, nil
}

// cached decodes key into dest, computing and storing the value on a miss.
// Cache failures degrade to computing the value; they never fail the request.
func (s *catalogServiceImpl) cached(ctx context.Context, key string, dest interface{}, compute func() (interface{}, error)) error {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}
	if hit {
		return nil
	}

	value, err := compute()
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}

	return assign(value, dest)
}

func assign(value, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
