package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/auth"
	"github.com/yigit/elearning/internal/app/repositories"
	"github.com/yigit/elearning/internal/pkg/cache"
	"github.com/yigit/elearning/internal/pkg/filestorage"
)

// Dependencies are the infrastructure pieces shared by the services
type Dependencies struct {
	Repos      *repositories.Repositories
	Tx         Transactor
	Cache      cache.Store
	Storage    filestorage.FileStorage
	Tokens     TokenIssuer
	Videos     VideoSearcher
	Authz      *auth.AuthorizationService
	Clustering RecommendationConfig
	Logger     zerolog.Logger
}

// Services holds every service instance
type Services struct {
	Auth           *AuthService
	User           UserService
	Catalog        CatalogService
	Course         CourseService
	Content        ContentService
	Order          OrderService
	Review         ReviewService
	Recommendation RecommendationService
	Enrollment     EnrollmentService
	Video          VideoService
}

// NewServices wires all services from the repositories
func NewServices(deps Dependencies) *Services {
	r := deps.Repos
	log := deps.Logger

	recommendation := NewRecommendationService(
		r.ReviewRepository, r.ClusterRepository, r.CourseRepository, deps.Tx, deps.Clustering,
		log.With().Str("service", "recommendation").Logger(),
	)

	return &Services{
		Auth:    NewAuthService(r.UserRepository, deps.Tokens, log.With().Str("service", "auth").Logger()),
		User:    NewUserService(r.UserRepository, log.With().Str("service", "user").Logger()),
		Catalog: NewCatalogService(r.SubjectRepository, r.CourseRepository, deps.Cache, log.With().Str("service", "catalog").Logger()),
		Course: NewCourseService(CourseServiceDeps{
			Subjects:    r.SubjectRepository,
			Courses:     r.CourseRepository,
			Modules:     r.ModuleRepository,
			Contents:    r.ContentRepository,
			Items:       r.ItemRepository,
			Reviews:     r.ReviewRepository,
			Enrollments: r.EnrollmentRepository,
			Storage:     deps.Storage,
			Tx:          deps.Tx,
		}, log.With().Str("service", "course").Logger()),
		Content: NewContentService(
			r.CourseRepository, r.ModuleRepository, r.ContentRepository, r.ItemRepository, deps.Storage,
			log.With().Str("service", "content").Logger(),
		),
		Order:          NewOrderService(r.ModuleRepository, r.ContentRepository, deps.Authz, log.With().Str("service", "order").Logger()),
		Review:         NewReviewService(r.CourseRepository, r.ReviewRepository, recommendation, log.With().Str("service", "review").Logger()),
		Recommendation: recommendation,
		Enrollment: NewEnrollmentService(
			r.CourseRepository, r.ModuleRepository, r.ContentRepository, r.ItemRepository, r.EnrollmentRepository,
			log.With().Str("service", "enrollment").Logger(),
		),
		Video: NewVideoService(r.SubjectRepository, deps.Videos, log.With().Str("service", "video").Logger()),
	}
}
