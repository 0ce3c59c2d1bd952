package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so write methods
// can take part in a caller's transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// psql builds Postgres-flavoured statements
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var squirrelNow = squirrel.Expr("NOW()")

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	SubjectRepository    *SubjectRepository
	CourseRepository     *CourseRepository
	ModuleRepository     *ModuleRepository
	ContentRepository    *ContentRepository
	ItemRepository       *ItemRepository
	ReviewRepository     *ReviewRepository
	EnrollmentRepository *EnrollmentRepository
	ClusterRepository    *ClusterRepository
	OwnershipRepository  *OwnershipRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		SubjectRepository:    NewSubjectRepository(db),
		CourseRepository:     NewCourseRepository(db),
		ModuleRepository:     NewModuleRepository(db),
		ContentRepository:    NewContentRepository(db),
		ItemRepository:       NewItemRepository(db),
		ReviewRepository:     NewReviewRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		ClusterRepository:    NewClusterRepository(db),
		OwnershipRepository:  NewOwnershipRepository(db),
	}
}
