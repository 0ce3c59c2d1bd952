package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/youtube"
)

// VideoSearcher finds videos by free-text query
type VideoSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]youtube.Video, error)
}

// VideoService backs the video list page
type VideoService interface {
	Search(ctx context.Context, query *string, results *int) (*dto.VideoSearchResponse, error)
}

type videoServiceImpl struct {
	subjects SubjectStore
	searcher VideoSearcher
	logger   zerolog.Logger
}

// NewVideoService creates a new VideoService; a nil searcher disables searching
func NewVideoService(subjects SubjectStore, searcher VideoSearcher, logger zerolog.Logger) VideoService {
	return &videoServiceImpl{subjects: subjects, searcher: searcher, logger: logger}
}

// Search lists subjects and allowed result counts, and runs a search only
// when both the query and the result count are given.
func (s *videoServiceImpl) Search(ctx context.Context, query *string, results *int) (*dto.VideoSearchResponse, error) {
	subjects, err := s.subjects.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}

	resp := &dto.VideoSearchResponse{
		Query:      query,
		Results:    results,
		MaxLengths: youtube.AllowedResults,
		Subjects:   subjects,
		Videos:     []youtube.Video{},
	}
	if query == nil || results == nil {
		return resp, nil
	}

	if !youtube.IsAllowedResults(*results) {
		return nil, apperrors.NewValidationError(map[string]string{
			"results": fmt.Sprintf("results must be one of %v", youtube.AllowedResults),
		})
	}
	q := strings.TrimSpace(*query)
	if q == "" {
		return nil, apperrors.NewValidationError(map[string]string{"q": "query is required"})
	}
	if s.searcher == nil {
		return nil, apperrors.ErrVideoSearchDisabled
	}

	videos, err := s.searcher.Search(ctx, q, *results)
	if err != nil {
		if errors.Is(err, youtube.ErrNotConfigured) {
			return nil, apperrors.ErrVideoSearchDisabled
		}
		s.logger.Error().Err(err).Str("query", q).Msg("Video search failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	resp.Videos = videos
	return resp, nil
}
