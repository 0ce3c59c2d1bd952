package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/elearning/internal/app/models/dto"
)

// BindRequest binds the JSON or form body into obj and runs its binding
// tags. On failure it answers 400 with per-field messages and returns false.
func BindRequest(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, e := range verrs {
				fields[e.Field()] = formatValidationError(e)
			}
			errorDetail = errorDetail.WithDetails(fields)
		} else {
			errorDetail = errorDetail.WithDetails(err.Error())
		}

		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
