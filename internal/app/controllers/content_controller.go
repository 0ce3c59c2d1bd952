package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/helpers"
)

// ContentController handles a teacher's module contents
type ContentController struct {
	contentService services.ContentService
	logger         zerolog.Logger
}

// NewContentController creates a new ContentController
func NewContentController(contentService services.ContentService, logger zerolog.Logger) *ContentController {
	return &ContentController{
		contentService: contentService,
		logger:         logger,
	}
}

// ModulePath is the owner's content list of a module
func ModulePath(moduleID int64) string {
	return fmt.Sprintf("/course/module/%d/", moduleID)
}

// ModuleContents lists a module's contents with their items
func (c *ContentController) ModuleContents(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	moduleID, ok := pathID(ctx, "module_id")
	if !ok {
		return
	}

	resp, err := c.contentService.ModuleContents(ctx.Request.Context(), moduleID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Form returns the create form, or the edit form when an item id is given
func (c *ContentController) Form(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	moduleID, ok := pathID(ctx, "module_id")
	if !ok {
		return
	}
	itemID, ok := optionalPathID(ctx, "id")
	if !ok {
		return
	}

	form, err := c.contentService.Form(ctx.Request.Context(), moduleID, ctx.Param("model"), itemID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(form))
}

// Save creates or updates an item from a form or multipart body
func (c *ContentController) Save(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	moduleID, ok := pathID(ctx, "module_id")
	if !ok {
		return
	}
	itemID, ok := optionalPathID(ctx, "id")
	if !ok {
		return
	}

	tag := ctx.Param("model")
	input := services.SaveContentInput{
		ModuleID: moduleID,
		Tag:      tag,
		ItemID:   itemID,
		OwnerID:  userID,
		Title:    ctx.PostForm("title"),
	}

	// unknown tags fall through to the service, which reports not found
	if kind, known := models.ResolveContentType(tag); known {
		if kind.Upload {
			upload, err := ctx.FormFile(kind.PayloadField)
			if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
				c.logger.Warn().Err(err).Msg("Unreadable upload")
				middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("could not read the uploaded file"))
				return
			}
			input.Upload = upload
		} else {
			input.Payload = ctx.PostForm(kind.PayloadField)
		}
	}

	if _, err := c.contentService.Save(ctx.Request.Context(), input); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	helpers.RedirectWithNotice(ctx, ModulePath(moduleID), helpers.NoticeSuccess, "Content saved.")
}

// Delete removes a content wrapper with its item
func (c *ContentController) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	contentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	moduleID, err := c.contentService.Delete(ctx.Request.Context(), contentID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	helpers.RedirectWithNotice(ctx, ModulePath(moduleID), helpers.NoticeSuccess, "Content deleted.")
}
