package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// Resource names the kind of row an ownership check is about
type Resource string

const (
	ResourceCourse  Resource = "course"
	ResourceModule  Resource = "module"
	ResourceContent Resource = "content"
)

// OwnerLookup resolves the owning teacher of a row by walking
// content -> module -> course -> owner. Missing rows yield an error
// matching apperrors.ErrResourceNotFound.
type OwnerLookup interface {
	CourseOwner(ctx context.Context, courseID int64) (int64, error)
	ModuleOwner(ctx context.Context, moduleID int64) (int64, error)
	ContentOwner(ctx context.Context, contentID int64) (int64, error)
}

// AuthorizationService answers ownership questions for mutating requests
type AuthorizationService struct {
	owners OwnerLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(owners OwnerLookup) *AuthorizationService {
	return &AuthorizationService{owners: owners}
}

// CanModify reports whether userID owns the resource. A missing row is
// reported as false with no error.
func (s *AuthorizationService) CanModify(ctx context.Context, resource Resource, id, userID int64) (bool, error) {
	var (
		owner int64
		err   error
	)
	switch resource {
	case ResourceCourse:
		owner, err = s.owners.CourseOwner(ctx, id)
	case ResourceModule:
		owner, err = s.owners.ModuleOwner(ctx, id)
	case ResourceContent:
		owner, err = s.owners.ContentOwner(ctx, id)
	default:
		return false, fmt.Errorf("unknown resource %q", resource)
	}

	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return false, nil
		}
		logger.Error().Err(err).Str("resource", string(resource)).Int64("id", id).Msg("Error resolving owner")
		return false, err
	}
	return owner == userID, nil
}
