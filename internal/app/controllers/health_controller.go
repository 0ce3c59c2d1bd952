package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models/dto"
)

// Pinger reports whether a backing service answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Ping answers without touching dependencies
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health checks the database connection
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeServiceUnavailable, "Database unavailable").WithDetails(err.Error())
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
}
