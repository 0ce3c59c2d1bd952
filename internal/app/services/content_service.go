package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/filestorage"
	"github.com/yigit/elearning/internal/pkg/markdown"
	"github.com/yigit/elearning/internal/pkg/validation"
)

// SaveContentInput is a submitted item form. ItemID is nil when creating.
type SaveContentInput struct {
	ModuleID int64
	Tag      string
	ItemID   *int64
	OwnerID  int64
	Title    string
	// Payload carries text content or a video URL
	Payload string
	// Upload carries image and file payloads
	Upload *multipart.FileHeader
}

// ContentService defines the polymorphic content operations of a teacher
type ContentService interface {
	Form(ctx context.Context, moduleID int64, tag string, itemID *int64, ownerID int64) (*dto.ContentFormResponse, error)
	Save(ctx context.Context, input SaveContentInput) (models.Item, error)
	Delete(ctx context.Context, contentID, ownerID int64) (moduleID int64, err error)
	ModuleContents(ctx context.Context, moduleID, ownerID int64) (*dto.ModuleContentsResponse, error)
}

type contentServiceImpl struct {
	courses  CourseStore
	modules  ModuleStore
	contents ContentStore
	items    ItemStore
	storage  filestorage.FileStorage
	hydrator *contentHydrator
	logger   zerolog.Logger
}

// NewContentService creates a new ContentService
func NewContentService(
	courses CourseStore,
	modules ModuleStore,
	contents ContentStore,
	items ItemStore,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) ContentService {
	return &contentServiceImpl{
		courses:  courses,
		modules:  modules,
		contents: contents,
		items:    items,
		storage:  storage,
		hydrator: &contentHydrator{items: items, logger: logger},
		logger:   logger,
	}
}

func resolveKind(tag string) (models.ContentKind, error) {
	kind, ok := models.ResolveContentType(tag)
	if !ok {
		return models.ContentKind{}, apperrors.ErrUnknownContentType
	}
	return kind, nil
}

// Form returns the empty or pre-filled edit form for one item kind
func (s *contentServiceImpl) Form(ctx context.Context, moduleID int64, tag string, itemID *int64, ownerID int64) (*dto.ContentFormResponse, error) {
	kind, err := resolveKind(tag)
	if err != nil {
		return nil, err
	}
	if _, err := s.modules.GetForOwner(ctx, moduleID, ownerID); err != nil {
		return nil, err
	}

	form := &dto.ContentFormResponse{
		ModuleID:    moduleID,
		ContentType: kind.Type,
		Fields:      kind.EditableFields(),
		Upload:      kind.Upload,
	}
	if itemID != nil {
		item, err := s.items.GetForOwner(ctx, kind, *itemID, ownerID)
		if err != nil {
			return nil, err
		}
		form.Item = item
	}
	return form, nil
}

func validateItem(kind models.ContentKind, input SaveContentInput, creating bool) validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Check(validation.NewStringValidation(input.Title).WithMaxLength(validation.TitleMaxLength).Validate(),
		"title", "title is required and must be at most 250 characters")

	switch {
	case kind.Upload:
		errs.Check(!creating || input.Upload != nil, kind.PayloadField, "a file upload is required")
	case kind.Type == models.ContentVideo:
		errs.Check(validation.NewStringValidation(input.Payload).WithPattern(validation.CompiledPatterns.VideoURL).Validate(),
			kind.PayloadField, "enter a valid http(s) URL")
	default:
		errs.Check(validation.NewStringValidation(input.Payload).Validate(), kind.PayloadField, "this field is required")
	}
	return errs
}

// Save creates or updates an item owned by the requesting teacher. A new
// item is placed at the end of the module inside a fresh Content wrapper.
func (s *contentServiceImpl) Save(ctx context.Context, input SaveContentInput) (models.Item, error) {
	kind, err := resolveKind(input.Tag)
	if err != nil {
		return nil, err
	}
	if _, err := s.modules.GetForOwner(ctx, input.ModuleID, input.OwnerID); err != nil {
		return nil, err
	}

	var item models.Item
	if input.ItemID != nil {
		item, err = s.items.GetForOwner(ctx, kind, *input.ItemID, input.OwnerID)
		if err != nil {
			return nil, err
		}
	}

	if errs := validateItem(kind, input, item == nil); !errs.Valid() {
		return nil, apperrors.NewValidationError(errs)
	}

	var previousFile string
	if item == nil {
		item = kind.New()
		item.Base().OwnerID = input.OwnerID
	} else if kind.Upload && input.Upload != nil {
		previousFile = item.Payload()
	}
	item.Base().Title = strings.TrimSpace(input.Title)

	if kind.Upload {
		if input.Upload != nil {
			url, err := s.storage.SaveFileWithPath(ctx, input.Upload, kind.Table)
			if err != nil {
				return nil, fmt.Errorf("error storing upload: %w", err)
			}
			item.SetPayload(url)
		}
	} else {
		item.SetPayload(input.Payload)
	}

	if input.ItemID != nil {
		if err := s.items.Update(ctx, kind, item); err != nil {
			return nil, fmt.Errorf("error updating %s: %w", kind.Type, err)
		}
		s.removeFile(ctx, previousFile)
		return item, nil
	}

	if err := s.items.Create(ctx, kind, item); err != nil {
		return nil, fmt.Errorf("error creating %s: %w", kind.Type, err)
	}

	order, err := s.contents.NextOrder(ctx, input.ModuleID)
	if err != nil {
		return nil, fmt.Errorf("error computing content order: %w", err)
	}
	wrapper := &models.Content{
		ModuleID:    input.ModuleID,
		ContentType: kind.Type,
		ObjectID:    item.Base().ID,
		Order:       order,
	}
	if err := s.contents.Create(ctx, wrapper); err != nil {
		return nil, fmt.Errorf("error creating content: %w", err)
	}

	s.logger.Info().
		Int64("moduleID", input.ModuleID).
		Int64("contentID", wrapper.ID).
		Str("type", string(kind.Type)).
		Msg("Content created")
	return item, nil
}

// Delete removes the item and then its wrapper. The two steps are not
// atomic; a failure in between leaves a wrapper without an item.
func (s *contentServiceImpl) Delete(ctx context.Context, contentID, ownerID int64) (int64, error) {
	content, err := s.contents.GetForOwner(ctx, contentID, ownerID)
	if err != nil {
		return 0, err
	}

	kind, ok := models.ResolveContentType(string(content.ContentType))
	var storedFile string
	if ok {
		payload, err := s.items.Delete(ctx, kind, content.ObjectID)
		switch {
		case err == nil:
			if kind.Upload {
				storedFile = payload
			}
		case errors.Is(err, apperrors.ErrItemNotFound):
			s.logger.Warn().Int64("contentID", contentID).Msg("Content item already missing")
		default:
			return 0, fmt.Errorf("error deleting content item: %w", err)
		}
	}

	if err := s.contents.Delete(ctx, contentID); err != nil {
		s.logger.Error().Err(err).
			Int64("contentID", contentID).
			Int64("objectID", content.ObjectID).
			Msg("Content item deleted but wrapper remains")
		return 0, fmt.Errorf("error deleting content: %w", err)
	}

	s.removeFile(ctx, storedFile)
	return content.ModuleID, nil
}

// removeFile deletes a stored upload, logging failures
func (s *contentServiceImpl) removeFile(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.storage.DeleteFile(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("file", url).Msg("Failed to remove stored file")
	}
}

// ModuleContents lists an owned module with its hydrated contents
func (s *contentServiceImpl) ModuleContents(ctx context.Context, moduleID, ownerID int64) (*dto.ModuleContentsResponse, error) {
	module, err := s.modules.GetForOwner(ctx, moduleID, ownerID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetForOwner(ctx, module.CourseID, ownerID)
	if err != nil {
		return nil, err
	}
	contents, err := s.contents.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("error listing contents: %w", err)
	}
	if err := s.hydrator.hydrate(ctx, contents); err != nil {
		return nil, err
	}
	kinds := models.ContentKinds()
	types := make([]models.ContentType, 0, len(kinds))
	for _, k := range kinds {
		types = append(types, k.Type)
	}
	return &dto.ModuleContentsResponse{Course: course, Module: module, Contents: contents, ContentTypes: types}, nil
}

// contentHydrator attaches items to wrappers, one query per kind
type contentHydrator struct {
	items  ItemStore
	logger zerolog.Logger
}

func (h *contentHydrator) hydrate(ctx context.Context, contents []*models.Content) error {
	ids := make(map[models.ContentType][]int64)
	for _, c := range contents {
		ids[c.ContentType] = append(ids[c.ContentType], c.ObjectID)
	}

	for tag, objectIDs := range ids {
		kind, ok := models.ResolveContentType(string(tag))
		if !ok {
			continue
		}
		items, err := h.items.GetMany(ctx, kind, objectIDs)
		if err != nil {
			return fmt.Errorf("error loading %s items: %w", tag, err)
		}
		for _, c := range contents {
			if c.ContentType != tag {
				continue
			}
			item, found := items[c.ObjectID]
			if !found {
				h.logger.Warn().Int64("contentID", c.ID).Msg("Content wrapper points to a missing item")
				continue
			}
			if text, isText := item.(*models.Text); isText {
				html, err := markdown.Render(text.Content)
				if err != nil {
					h.logger.Warn().Err(err).Int64("textID", text.ID).Msg("Failed to render text")
				}
				text.HTML = html
			}
			c.Item = item
		}
	}
	return nil
}
