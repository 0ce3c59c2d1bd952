package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/pkg/apperrors"
)

func TestEnrollIsIdempotent(t *testing.T) {
	w := newWorld()
	s := w.addSubject("Math", "math")
	c := w.addCourse(1, s.ID, "algebra")
	svc := NewEnrollmentService(&fakeCourses{w: w}, &fakeModules{w: w}, &fakeContents{w: w}, &fakeItems{w: w}, &fakeEnrollments{w: w}, testLogger)

	for i := 0; i < 2; i++ {
		got, err := svc.Enroll(context.Background(), "algebra", 7)
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
	}
	assert.Len(t, w.enrollments, 1)

	courses, err := svc.ListCourses(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func TestCourseViewRequiresEnrollment(t *testing.T) {
	w := newWorld()
	s := w.addSubject("Math", "math")
	c := w.addCourse(1, s.ID, "algebra")
	svc := NewEnrollmentService(&fakeCourses{w: w}, &fakeModules{w: w}, &fakeContents{w: w}, &fakeItems{w: w}, &fakeEnrollments{w: w}, testLogger)

	_, err := svc.CourseView(context.Background(), c.ID, 7, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCourseViewSelectsFirstModule(t *testing.T) {
	w := newWorld()
	s := w.addSubject("Math", "math")
	c := w.addCourse(1, s.ID, "algebra")
	second := w.addModule(c.ID, 1)
	first := w.addModule(c.ID, 0)
	kind, _ := models.ResolveContentType("text")
	item := w.addItem(kind, 1, "hello")
	w.addContent(first.ID, kind, item.Base().ID, 0)
	w.enrollments[[2]int64{c.ID, 7}] = true
	svc := NewEnrollmentService(&fakeCourses{w: w}, &fakeModules{w: w}, &fakeContents{w: w}, &fakeItems{w: w}, &fakeEnrollments{w: w}, testLogger)

	resp, err := svc.CourseView(context.Background(), c.ID, 7, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.Module)
	assert.Equal(t, first.ID, resp.Module.Module.ID)
	require.Len(t, resp.Module.Contents, 1)
	assert.NotNil(t, resp.Module.Contents[0].Item)

	resp, err = svc.CourseView(context.Background(), c.ID, 7, &second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, resp.Module.Module.ID)
	assert.Empty(t, resp.Module.Contents)

	missing := int64(123456)
	_, err = svc.CourseView(context.Background(), c.ID, 7, &missing)
	assert.ErrorIs(t, err, apperrors.ErrModuleNotFound)
}
