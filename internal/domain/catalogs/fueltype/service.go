package fueltype

import (
	"context"
	"time"

	"stationops/internal/core/apperror"
	appctx "stationops/internal/core/context"
	"stationops/internal/core/id"
	"stationops/internal/core/tx"
	"stationops/internal/core/types"
	"stationops/internal/domain/audit"
)

// Service provides business logic for the fuel type catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new fuel type service.
func NewService(repo Repository, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		audit:     recorder,
	}
}

// Create adds a fuel type after uniqueness check on short code.
func (s *Service) Create(ctx context.Context, ft *FuelType) error {
	if err := ft.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByShortCode(ctx, ft.ShortCode)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return apperror.NewConflict("fuel type with this short code already exists").
				WithDetail("shortCode", ft.ShortCode)
		}
		return s.repo.Create(ctx, ft)
	})
	if err != nil {
		return err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:      audit.ActionCreate,
		EntityType:  "fuel_type",
		EntityID:    ft.ID,
		Description: "created fuel type " + ft.ShortCode,
		NewValues:   ft.snapshot(),
	})
	return nil
}

// Update modifies catalog fields. Price updates go through UpdatePrice
// so the history stays complete.
func (s *Service) Update(ctx context.Context, ft *FuelType) error {
	if err := ft.Validate(ctx); err != nil {
		return err
	}

	var old *FuelType
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		old, err = s.repo.GetByID(ctx, ft.ID)
		if err != nil {
			return err
		}
		if !old.CurrentPrice.Equal(ft.CurrentPrice) {
			return apperror.NewValidation("use the price update operation to change the price").
				WithDetail("field", "currentPrice")
		}
		return s.repo.Update(ctx, ft)
	})
	if err != nil {
		return err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:     audit.ActionUpdate,
		EntityType: "fuel_type",
		EntityID:   ft.ID,
		OldValues:  old.snapshot(),
		NewValues:  ft.snapshot(),
	})
	return nil
}

// UpdatePrice changes the current price and records a history row in the
// same transaction, so the history can never miss a change.
func (s *Service) UpdatePrice(ctx context.Context, ftID id.ID, newPrice types.Money) (*FuelType, error) {
	if newPrice.IsNegative() {
		return nil, apperror.NewValidation("price must not be negative").
			WithDetail("field", "newPrice").
			WithDetail("value", newPrice.String())
	}

	var ft *FuelType
	var oldPrice types.Money
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		ft, err = s.repo.GetByID(ctx, ftID)
		if err != nil {
			return err
		}

		oldPrice = ft.CurrentPrice
		if oldPrice.Equal(newPrice) {
			return nil
		}

		change := &PriceChange{
			ID:         id.New(),
			FuelTypeID: ft.ID,
			OldPrice:   oldPrice,
			NewPrice:   newPrice,
			ChangedBy:  appctx.GetActorName(ctx),
			ChangedAt:  time.Now().UTC(),
		}
		if err := s.repo.InsertPriceChange(ctx, change); err != nil {
			return err
		}

		ft.CurrentPrice = newPrice
		ft.Touch()
		return s.repo.Update(ctx, ft)
	})
	if err != nil {
		return nil, err
	}

	if !oldPrice.Equal(newPrice) {
		audit.BestEffort(ctx, s.audit, audit.Entry{
			Action:      audit.ActionPriceChange,
			EntityType:  "fuel_type",
			EntityID:    ft.ID,
			Description: "price " + oldPrice.String() + " -> " + newPrice.String(),
			OldValues:   map[string]any{"currentPrice": oldPrice.String()},
			NewValues:   map[string]any{"currentPrice": newPrice.String()},
		})
	}
	return ft, nil
}

// GetByID returns one fuel type.
func (s *Service) GetByID(ctx context.Context, ftID id.ID) (*FuelType, error) {
	return s.repo.GetByID(ctx, ftID)
}

// List returns all fuel types including inactive ones.
func (s *Service) List(ctx context.Context) ([]*FuelType, error) {
	return s.repo.List(ctx)
}

// ListActive returns fuel types available at the pumps. This is the read
// interface the shift reading engine consumes.
func (s *Service) ListActive(ctx context.Context) ([]*FuelType, error) {
	return s.repo.ListActive(ctx)
}

// PriceHistory returns the most recent price changes for one fuel type.
func (s *Service) PriceHistory(ctx context.Context, ftID id.ID, limit int) ([]*PriceChange, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListPriceHistory(ctx, ftID, limit)
}

func (f *FuelType) snapshot() map[string]any {
	return map[string]any{
		"shortCode":    f.ShortCode,
		"name":         f.Name,
		"currentPrice": f.CurrentPrice.String(),
		"isActive":     f.IsActive,
		"isDiscounted": f.IsDiscounted,
	}
}
