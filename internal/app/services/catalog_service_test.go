package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/cache"
)

func TestCatalogSecondReadIsCacheHit(t *testing.T) {
	w := newWorld()
	math := w.addSubject("Mathematics", "mathematics")
	other := w.addSubject("Physics", "physics")
	course := w.addCourse(1, math.ID, "algebra")
	w.addCourse(1, other.ID, "mechanics")
	w.addModule(course.ID, 0)
	w.reviews = append(w.reviews, &models.Review{CourseID: course.ID, UserID: 9, Rating: 4})

	subjects := &fakeSubjects{w: w}
	courses := &fakeCourses{w: w}
	store := cache.NewMemoryStore()
	svc := NewCatalogService(subjects, courses, store, testLogger)

	first, err := svc.ListCourses(context.Background(), CatalogQuery{SubjectSlug: "mathematics"})
	require.NoError(t, err)
	second, err := svc.ListCourses(context.Background(), CatalogQuery{SubjectSlug: "mathematics"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, courses.summaryCalls)
	assert.Equal(t, 1, subjects.calls)

	require.Len(t, first.Courses, 1)
	assert.Equal(t, int64(1), first.Courses[0].TotalModules)
	assert.Equal(t, int64(1), first.Courses[0].TotalReviews)
	require.NotNil(t, first.Courses[0].AverageRating)
	assert.InDelta(t, 4.0, *first.Courses[0].AverageRating, 1e-9)
	require.NotNil(t, first.Subject)
	assert.Equal(t, int64(1), first.Subject.TotalCourses)

	var cached []interface{}
	hit, err := store.Get(context.Background(), SubjectCoursesKey(math.ID), &cached)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestCatalogIsNotInvalidatedByNewCourses(t *testing.T) {
	w := newWorld()
	s := w.addSubject("Mathematics", "mathematics")
	w.addCourse(1, s.ID, "algebra")
	svc := NewCatalogService(&fakeSubjects{w: w}, &fakeCourses{w: w}, cache.NewMemoryStore(), testLogger)

	first, err := svc.ListCourses(context.Background(), CatalogQuery{})
	require.NoError(t, err)
	w.addCourse(1, s.ID, "geometry")
	second, err := svc.ListCourses(context.Background(), CatalogQuery{})
	require.NoError(t, err)

	assert.Len(t, first.Courses, 1)
	assert.Len(t, second.Courses, 1)
}

func TestCatalogUnknownSubject(t *testing.T) {
	w := newWorld()
	svc := NewCatalogService(&fakeSubjects{w: w}, &fakeCourses{w: w}, cache.NewMemoryStore(), testLogger)

	_, err := svc.ListCourses(context.Background(), CatalogQuery{SubjectSlug: "nope"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCatalogPagination(t *testing.T) {
	w := newWorld()
	s := w.addSubject("Mathematics", "mathematics")
	for _, slug := range []string{"a", "b", "c"} {
		w.addCourse(1, s.ID, slug)
	}
	svc := NewCatalogService(&fakeSubjects{w: w}, &fakeCourses{w: w}, cache.NewMemoryStore(), testLogger)

	resp, err := svc.ListCourses(context.Background(), CatalogQuery{Paginate: true, Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, resp.Courses, 1)
	assert.Equal(t, "c", resp.Courses[0].Slug)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 2, resp.Pagination.TotalPages)

	all, err := svc.ListCourses(context.Background(), CatalogQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Courses, 3)
	assert.Nil(t, all.Pagination)
}

func TestCatalogPageBeyondRangeIsEmpty(t *testing.T) {
	w := newWorld()
	s := w.addSubject("Mathematics", "mathematics")
	w.addCourse(1, s.ID, "a")
	svc := NewCatalogService(&fakeSubjects{w: w}, &fakeCourses{w: w}, cache.NewMemoryStore(), testLogger)

	resp, err := svc.ListCourses(context.Background(), CatalogQuery{Paginate: true, Page: math.MaxInt, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Courses)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
}
