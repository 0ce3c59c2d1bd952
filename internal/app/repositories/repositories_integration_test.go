//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/yigit/elearning/internal/app/migrations"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/db"
	"github.com/yigit/elearning/internal/pkg/apperrors"
)

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("elearning_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = migrations.NewMigrator(pool).MigrateFromDirectory(ctx, "../../../migrations")
	require.NoError(t, err)
	return pool
}

type fixture struct {
	repos   *Repositories
	teacher *models.User
	student *models.User
	course  *models.Course
	modules []*models.Module
}

func seedCourse(t *testing.T, ctx context.Context, pool *pgxpool.Pool) fixture {
	t.Helper()
	repos := NewRepositories(pool)

	_, err := repos.SubjectRepository.EnsureSubject(ctx, "Programming", "programming")
	require.NoError(t, err)
	subject, err := repos.SubjectRepository.GetBySlug(ctx, "programming")
	require.NoError(t, err)

	teacher := &models.User{Username: "teach", Email: "teach@example.com", Password: "x", RoleType: models.RoleTeacher}
	student := &models.User{Username: "stud", Email: "stud@example.com", Password: "x", RoleType: models.RoleStudent}
	require.NoError(t, repos.UserRepository.CreateUser(ctx, teacher))
	require.NoError(t, repos.UserRepository.CreateUser(ctx, student))

	course := &models.Course{OwnerID: teacher.ID, SubjectID: subject.ID, Title: "Python Basics", Slug: "python-basics"}
	require.NoError(t, repos.CourseRepository.Create(ctx, course))

	var modules []*models.Module
	for _, title := range []string{"Intro", "Loops", "Functions"} {
		order, err := repos.ModuleRepository.NextOrder(ctx, pool, course.ID)
		require.NoError(t, err)
		m := &models.Module{CourseID: course.ID, Title: title, Order: order}
		require.NoError(t, repos.ModuleRepository.Create(ctx, pool, m))
		modules = append(modules, m)
	}

	return fixture{repos: repos, teacher: teacher, student: student, course: course, modules: modules}
}

func TestCourseLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)
	f := seedCourse(t, ctx, pool)

	assert.Equal(t, []int{0, 1, 2}, []int{f.modules[0].Order, f.modules[1].Order, f.modules[2].Order})

	dup := &models.Course{OwnerID: f.teacher.ID, SubjectID: f.course.SubjectID, Title: "Again", Slug: "python-basics"}
	assert.ErrorIs(t, f.repos.CourseRepository.Create(ctx, dup), apperrors.ErrSlugAlreadyExists)

	_, err := f.repos.CourseRepository.GetForOwner(ctx, f.course.ID, f.student.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	summaries, err := f.repos.CourseRepository.ListSummaries(ctx, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].AverageRating)
}

func TestOrderingIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)
	f := seedCourse(t, ctx, pool)

	changed, err := f.repos.ModuleRepository.UpdateOrderForOwner(ctx, f.modules[0].ID, f.student.ID, 9)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = f.repos.ModuleRepository.UpdateOrderForOwner(ctx, f.modules[0].ID, f.teacher.ID, 9)
	require.NoError(t, err)
	assert.True(t, changed)

	modules, err := f.repos.ModuleRepository.ListByCourse(ctx, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, f.modules[0].ID, modules[len(modules)-1].ID)
}

func TestContentWrapperAndItem(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)
	f := seedCourse(t, ctx, pool)

	kind, ok := models.ResolveContentType("text")
	require.True(t, ok)

	item := kind.New()
	item.Base().OwnerID = f.teacher.ID
	item.Base().Title = "Welcome"
	item.SetPayload("# Hello")
	require.NoError(t, f.repos.ItemRepository.Create(ctx, kind, item))

	order, err := f.repos.ContentRepository.NextOrder(ctx, f.modules[0].ID)
	require.NoError(t, err)
	wrapper := &models.Content{ModuleID: f.modules[0].ID, ContentType: kind.Type, ObjectID: item.Base().ID, Order: order}
	require.NoError(t, f.repos.ContentRepository.Create(ctx, wrapper))

	_, err = f.repos.ItemRepository.GetForOwner(ctx, kind, item.Base().ID, f.student.ID)
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)

	_, err = f.repos.ContentRepository.GetForOwner(ctx, wrapper.ID, f.student.ID)
	assert.ErrorIs(t, err, apperrors.ErrContentNotFound)

	owner, err := f.repos.OwnershipRepository.ContentOwner(ctx, wrapper.ID)
	require.NoError(t, err)
	assert.Equal(t, f.teacher.ID, owner)

	_, err = f.repos.ItemRepository.Delete(ctx, kind, item.Base().ID)
	require.NoError(t, err)
	require.NoError(t, f.repos.ContentRepository.Delete(ctx, wrapper.ID))

	contents, err := f.repos.ContentRepository.ListByModule(ctx, f.modules[0].ID)
	require.NoError(t, err)
	assert.Empty(t, contents)
}

func TestReviewsEnrollmentsAndClusters(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)
	f := seedCourse(t, ctx, pool)

	added, err := f.repos.EnrollmentRepository.Enroll(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = f.repos.EnrollmentRepository.Enroll(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.False(t, added)

	for _, rating := range []int{5, 4} {
		require.NoError(t, f.repos.ReviewRepository.Create(ctx, &models.Review{
			CourseID: f.course.ID, UserID: f.student.ID, Rating: rating, Comment: "ok",
		}))
	}

	latest, err := f.repos.ReviewRepository.LatestForCourse(ctx, f.course.ID, 9)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, 4, latest[0].Rating)

	stats, err := f.repos.CourseRepository.Stats(ctx, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalModules)
	assert.Equal(t, int64(2), stats.TotalReviews)
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 4.5, *stats.AverageRating, 0.001)

	database := &db.PostgresDB{Pool: pool}
	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return f.repos.ClusterRepository.Replace(ctx, tx, [][]int64{{f.student.ID, f.teacher.ID}})
	})
	require.NoError(t, err)

	peers, clustered, err := f.repos.ClusterRepository.Peers(ctx, f.student.ID)
	require.NoError(t, err)
	assert.True(t, clustered)
	assert.Equal(t, []int64{f.teacher.ID}, peers)
}
