package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/controllers"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/middleware"
)

// Controllers bundles every HTTP handler set
type Controllers struct {
	Auth           *controllers.AuthController
	User           *controllers.UserController
	Catalog        *controllers.CatalogController
	Course         *controllers.CourseController
	Review         *controllers.ReviewController
	Student        *controllers.StudentController
	Content        *controllers.ContentController
	Order          *controllers.OrderController
	Recommendation *controllers.RecommendationController
	Video          *controllers.VideoController
	Health         *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl *Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", ctrl.Health.Ping)
	router.GET("/health", ctrl.Health.Health)

	// --- Accounts ---
	accounts := router.Group("/accounts")
	{
		accounts.POST("/signup/", ctrl.Auth.Register)
		accounts.POST("/login/", ctrl.Auth.Login)

		profile := accounts.Group("/edit", authMiddleware.JWTAuth())
		profile.GET("/", ctrl.User.GetProfile)
		profile.PUT("/", ctrl.User.UpdateProfile)
	}

	course := router.Group("/course")

	// --- Public catalog ---
	course.GET("/", ctrl.Catalog.ListCourses)
	course.GET("/subject/:subject/", ctrl.Catalog.ListCourses)
	course.GET("/:slug/", authMiddleware.OptionalAuth(), ctrl.Course.Detail)

	// --- Signed-in users ---
	loggedIn := course.Group("", authMiddleware.JWTAuth())
	{
		loggedIn.POST("/:slug/review/", ctrl.Review.AddReview)
		loggedIn.GET("/videos/", ctrl.Video.Search)
		loggedIn.GET("/recommendations/", ctrl.Recommendation.Recommend)
		loggedIn.POST("/module/order/", ctrl.Order.OrderModules)
		loggedIn.POST("/content/order/", ctrl.Order.OrderContents)

		loggedIn.POST("/:slug/enroll/",
			authMiddleware.RoleRequired(models.RoleStudent),
			authMiddleware.PermissionRequired(models.PermEnrollCourse),
			ctrl.Student.Enroll)
	}

	// --- Teachers ---
	teacher := course.Group("", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleTeacher))
	{
		teacher.GET("/module/:module_id/", ctrl.Content.ModuleContents)

		contentForm := teacher.Group("/module/:module_id/content/:model")
		contentForm.GET("/", ctrl.Content.Form)
		contentForm.POST("/", authMiddleware.PermissionRequired(models.PermAddContent), ctrl.Content.Save)
		contentForm.GET("/:id/", ctrl.Content.Form)
		contentForm.POST("/:id/", authMiddleware.PermissionRequired(models.PermChangeContent), ctrl.Content.Save)

		teacher.POST("/content/:id/delete/", authMiddleware.PermissionRequired(models.PermDeleteContent), ctrl.Content.Delete)

		manage := teacher.Group("/manage")
		manage.GET("/", ctrl.Course.ListOwned)
		manage.POST("/create/", authMiddleware.PermissionRequired(models.PermAddCourse), ctrl.Course.Create)
		manage.PUT("/:id/edit/", authMiddleware.PermissionRequired(models.PermChangeCourse), ctrl.Course.Update)
		manage.POST("/:id/delete/", authMiddleware.PermissionRequired(models.PermDeleteCourse), ctrl.Course.Delete)
		manage.GET("/:id/modules/", ctrl.Course.Modules)
		manage.PUT("/:id/modules/", authMiddleware.PermissionRequired(models.PermChangeCourse), ctrl.Course.UpdateModules)
	}

	// --- Students ---
	students := router.Group("/students", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleStudent))
	{
		students.GET("/courses/", ctrl.Student.ListCourses)
		students.GET("/course/:id/", ctrl.Student.CourseView)
		students.GET("/course/:id/module/:module_id/", ctrl.Student.CourseView)
	}

	router.NoRoute(func(c *gin.Context) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
	})
}
