package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
	"github.com/yigit/elearning/internal/pkg/apperrors"
)

// OrderController handles drag-and-drop reordering of modules and contents
type OrderController struct {
	orderService services.OrderService
	logger       zerolog.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(orderService services.OrderService, logger zerolog.Logger) *OrderController {
	return &OrderController{
		orderService: orderService,
		logger:       logger,
	}
}

// OrderModules applies an {"<module id>": order} body
func (c *OrderController) OrderModules(ctx *gin.Context) {
	c.apply(ctx, c.orderService.OrderModules)
}

// OrderContents applies an {"<content id>": order} body
func (c *OrderController) OrderContents(ctx *gin.Context) {
	c.apply(ctx, c.orderService.OrderContents)
}

type orderFunc func(ctx context.Context, entries []dto.OrderEntry, userID int64) error

func (c *OrderController) apply(ctx *gin.Context, fn orderFunc) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	body, err := ctx.GetRawData()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("could not read request body"))
		return
	}

	var req dto.OrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.logger.Debug().Err(err).Msg("Rejected order body")
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(dto.ErrInvalidOrderBody.Error()))
		return
	}

	if err := fn(ctx.Request.Context(), req.Entries, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SavedResponse{Saved: "OK"})
}
