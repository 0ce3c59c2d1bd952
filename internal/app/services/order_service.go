package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/auth"
	"github.com/yigit/elearning/internal/app/models/dto"
)

// OrderService applies drag-and-drop positions to modules and contents
type OrderService interface {
	OrderModules(ctx context.Context, entries []dto.OrderEntry, userID int64) error
	OrderContents(ctx context.Context, entries []dto.OrderEntry, userID int64) error
}

type orderServiceImpl struct {
	modules  ModuleStore
	contents ContentStore
	authz    *auth.AuthorizationService
	logger   zerolog.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(modules ModuleStore, contents ContentStore, authz *auth.AuthorizationService, logger zerolog.Logger) OrderService {
	return &orderServiceImpl{
		modules:  modules,
		contents: contents,
		authz:    authz,
		logger:   logger,
	}
}

// OrderModules sets each owned module's position in request order.
// Entries the user does not own are skipped without error.
func (s *orderServiceImpl) OrderModules(ctx context.Context, entries []dto.OrderEntry, userID int64) error {
	return s.apply(ctx, entries, userID, auth.ResourceModule, s.modules.UpdateOrderForOwner)
}

// OrderContents sets each owned content's position in request order.
// Entries the user does not own are skipped without error.
func (s *orderServiceImpl) OrderContents(ctx context.Context, entries []dto.OrderEntry, userID int64) error {
	return s.apply(ctx, entries, userID, auth.ResourceContent, s.contents.UpdateOrderForOwner)
}

type orderUpdater func(ctx context.Context, id, ownerID int64, order int) (bool, error)

// apply runs one statement per entry with no surrounding transaction
func (s *orderServiceImpl) apply(ctx context.Context, entries []dto.OrderEntry, userID int64, resource auth.Resource, update orderUpdater) error {
	updated := 0
	for _, e := range entries {
		ok, err := s.authz.CanModify(ctx, resource, e.ID, userID)
		if err != nil {
			return fmt.Errorf("error checking %s ownership: %w", resource, err)
		}
		if !ok {
			s.logger.Debug().Str("resource", string(resource)).Int64("id", e.ID).Int64("userID", userID).Msg("Skipping order update for foreign or missing row")
			continue
		}

		changed, err := update(ctx, e.ID, userID, e.Order)
		if err != nil {
			return fmt.Errorf("error updating %s order: %w", resource, err)
		}
		if changed {
			updated++
		}
	}

	s.logger.Info().Str("resource", string(resource)).Int("requested", len(entries)).Int("updated", updated).Msg("Order saved")
	return nil
}
