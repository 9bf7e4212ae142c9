package branch

import (
	"context"

	"stationops/internal/core/apperror"
	"stationops/internal/core/id"
	"stationops/internal/core/tx"
	"stationops/internal/domain/audit"
)

// Service provides business logic for the branch catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new branch service.
func NewService(repo Repository, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		audit:     recorder,
	}
}

// Create adds a branch after uniqueness check on code.
func (s *Service) Create(ctx context.Context, b *Branch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByCode(ctx, b.Code)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return apperror.NewConflict("branch with this code already exists").
				WithDetail("code", b.Code)
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:      audit.ActionCreate,
		EntityType:  "branch",
		EntityID:    b.ID,
		Description: "created branch " + b.Code,
	})
	return nil
}

// Update modifies a branch, including its shift plan.
func (s *Service) Update(ctx context.Context, b *Branch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:     audit.ActionUpdate,
		EntityType: "branch",
		EntityID:   b.ID,
	})
	return nil
}

// GetByID returns one branch.
func (s *Service) GetByID(ctx context.Context, branchID id.ID) (*Branch, error) {
	return s.repo.GetByID(ctx, branchID)
}

// List returns all branches.
func (s *Service) List(ctx context.Context) ([]*Branch, error) {
	return s.repo.List(ctx)
}

// ListActive returns branches currently in operation.
func (s *Service) ListActive(ctx context.Context) ([]*Branch, error) {
	return s.repo.ListActive(ctx)
}

// ShiftPlanFor resolves the effective shift plan for an optional branch.
// A nil branchID yields the default plan.
func (s *Service) ShiftPlanFor(ctx context.Context, branchID *id.ID) (ShiftPlan, error) {
	if branchID == nil {
		return DefaultShiftPlan(), nil
	}
	b, err := s.repo.GetByID(ctx, *branchID)
	if err != nil {
		return nil, err
	}
	return ShiftsFor(b), nil
}
