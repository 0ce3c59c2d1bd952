package services

import (
	"context"

	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/repositories"
	"github.com/yigit/elearning/internal/db"
	"github.com/yigit/elearning/internal/pkg/cluster"
)

// The interfaces below are the slices of the repositories each service
// depends on. The *Repository types in package repositories satisfy them.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateProfile(ctx context.Context, userID int64, firstName, lastName, email string) error
}

type SubjectStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Subject, error)
	Exists(ctx context.Context, id int64) (bool, error)
	GetAll(ctx context.Context) ([]*models.Subject, error)
	ListWithCourseCounts(ctx context.Context) ([]dto.SubjectSummary, error)
}

type CourseStore interface {
	ListSummaries(ctx context.Context, subjectID *int64) ([]dto.CourseSummary, error)
	RecommendFromPeers(ctx context.Context, userID int64, peerIDs []int64, minAvg float64, limit int) ([]dto.CourseSummary, error)
	TopRated(ctx context.Context, userID int64, limit int) ([]dto.CourseSummary, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetForOwner(ctx context.Context, id, ownerID int64) (*models.Course, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Course, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id, ownerID int64) error
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Stats(ctx context.Context, courseID int64) (*repositories.CourseStats, error)
}

type ModuleStore interface {
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Module, error)
	GetInCourse(ctx context.Context, moduleID, courseID int64) (*models.Module, error)
	GetForOwner(ctx context.Context, moduleID, ownerID int64) (*models.Module, error)
	NextOrder(ctx context.Context, q repositories.Querier, courseID int64) (int, error)
	Create(ctx context.Context, q repositories.Querier, m *models.Module) error
	Update(ctx context.Context, q repositories.Querier, m *models.Module) error
	DeleteExcept(ctx context.Context, q repositories.Querier, courseID int64, keep []int64) (int64, error)
	UpdateOrderForOwner(ctx context.Context, moduleID, ownerID int64, order int) (bool, error)
}

type ContentStore interface {
	ListByModule(ctx context.Context, moduleID int64) ([]*models.Content, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Content, error)
	GetForOwner(ctx context.Context, contentID, ownerID int64) (*models.Content, error)
	NextOrder(ctx context.Context, moduleID int64) (int, error)
	Create(ctx context.Context, c *models.Content) error
	Delete(ctx context.Context, contentID int64) error
	UpdateOrderForOwner(ctx context.Context, contentID, ownerID int64, order int) (bool, error)
}

type ItemStore interface {
	GetForOwner(ctx context.Context, kind models.ContentKind, id, ownerID int64) (models.Item, error)
	GetMany(ctx context.Context, kind models.ContentKind, ids []int64) (map[int64]models.Item, error)
	Create(ctx context.Context, kind models.ContentKind, item models.Item) error
	Update(ctx context.Context, kind models.ContentKind, item models.Item) error
	Delete(ctx context.Context, kind models.ContentKind, id int64) (string, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	LatestForCourse(ctx context.Context, courseID int64, limit int) ([]*models.Review, error)
	AllRatings(ctx context.Context) ([]cluster.Rating, error)
}

type EnrollmentStore interface {
	Enroll(ctx context.Context, courseID, studentID int64) (bool, error)
	IsEnrolled(ctx context.Context, courseID, studentID int64) (bool, error)
}

type ClusterStore interface {
	Replace(ctx context.Context, q repositories.Querier, groups [][]int64) error
	Peers(ctx context.Context, userID int64) ([]int64, bool, error)
}

// Transactor runs fn inside a database transaction; *db.PostgresDB implements it
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}
