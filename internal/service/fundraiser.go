package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gosimple/slug"

	"crowdfund/internal/metrics"
	"crowdfund/internal/models"
	"crowdfund/internal/permission"
	"crowdfund/internal/repository"
	"crowdfund/pkg/logger"
)

// FundraiserInput is the creation payload. Any owner value a client sends is
// not part of it; the owner is always the caller.
type FundraiserInput struct {
	Title       *string `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"required,min=1"`
	Goal        *int    `json:"goal" validate:"required"`
	Image       *string `json:"image" validate:"required,url,max=200"`
	IsOpen      *bool   `json:"is_open" validate:"required"`
}

// FundraiserPatch is a partial update; nil fields are left unchanged.
type FundraiserPatch struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	Goal        *int    `json:"goal"`
	Image       *string `json:"image" validate:"omitnil,url,max=200"`
	IsOpen      *bool   `json:"is_open"`
}

type FundraiserService struct {
	fundraiserRepo repository.FundraiserRepository
}

func NewFundraiserService(fundraiserRepo repository.FundraiserRepository) *FundraiserService {
	return &FundraiserService{fundraiserRepo: fundraiserRepo}
}

func checkGoal(goal *int, errs *ValidationError) {
	if goal != nil && *goal <= 0 {
		errs.Add("goal", "Goal must be greater than zero.")
	}
}

func (s *FundraiserService) CreateFundraiser(ctx context.Context, ownerID uint, input FundraiserInput) (*models.Fundraiser, error) {
	if ownerID == 0 {
		return nil, ErrNotAuthenticated
	}

	errs := &ValidationError{}
	check(input, errs)
	checkGoal(input.Goal, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	fundraiser := &models.Fundraiser{
		Title:       *input.Title,
		Description: *input.Description,
		Goal:        *input.Goal,
		Image:       *input.Image,
		IsOpen:      *input.IsOpen,
		Slug:        slug.Make(*input.Title),
		OwnerID:     ownerID,
	}
	if err := s.fundraiserRepo.Create(ctx, fundraiser); err != nil {
		return nil, fmt.Errorf("create fundraiser: %w", err)
	}

	metrics.FundraisersCreated.Inc()
	logger.WithCtx(ctx).Info("fundraiser created", "fundraiser_id", fundraiser.ID, "owner_id", ownerID)
	return fundraiser, nil
}

// GetFundraiser returns the fundraiser with its pledges.
func (s *FundraiserService) GetFundraiser(ctx context.Context, id uint) (*models.Fundraiser, error) {
	fundraiser, err := s.fundraiserRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return fundraiser, err
}

func (s *FundraiserService) ListFundraisers(ctx context.Context) ([]models.Fundraiser, error) {
	return s.fundraiserRepo.FindAll(ctx)
}

func (s *FundraiserService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Fundraiser, error) {
	return s.fundraiserRepo.FindByOwner(ctx, ownerID)
}

// AuthorizeWrite reports whether requesterID may change fundraiser id.
// Handlers call it before decoding a request body so that a non-owner is
// refused regardless of what the body contains.
func (s *FundraiserService) AuthorizeWrite(ctx context.Context, requesterID, id uint, method string) error {
	fundraiser, err := s.GetFundraiser(ctx, id)
	if err != nil {
		return err
	}
	if !permission.OwnerOrReadOnly(method, requesterID, fundraiser.OwnerID) {
		return ErrForbidden
	}
	return nil
}

// UpdateFundraiser applies patch for the owner. Owner and creation time are
// never changed.
func (s *FundraiserService) UpdateFundraiser(ctx context.Context, requesterID, id uint, patch FundraiserPatch) (*models.Fundraiser, error) {
	fundraiser, err := s.GetFundraiser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.OwnerOrReadOnly(http.MethodPut, requesterID, fundraiser.OwnerID) {
		return nil, ErrForbidden
	}

	errs := &ValidationError{}
	check(patch, errs)
	checkGoal(patch.Goal, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		fundraiser.Title = *patch.Title
		fundraiser.Slug = slug.Make(*patch.Title)
	}
	if patch.Description != nil {
		fundraiser.Description = *patch.Description
	}
	if patch.Goal != nil {
		fundraiser.Goal = *patch.Goal
	}
	if patch.Image != nil {
		fundraiser.Image = *patch.Image
	}
	if patch.IsOpen != nil {
		fundraiser.IsOpen = *patch.IsOpen
	}

	if err := s.fundraiserRepo.Update(ctx, fundraiser); err != nil {
		return nil, fmt.Errorf("update fundraiser: %w", err)
	}
	return fundraiser, nil
}

func (s *FundraiserService) DeleteFundraiser(ctx context.Context, requesterID, id uint) error {
	fundraiser, err := s.GetFundraiser(ctx, id)
	if err != nil {
		return err
	}
	if !permission.OwnerOrReadOnly(http.MethodDelete, requesterID, fundraiser.OwnerID) {
		return ErrForbidden
	}

	if err := s.fundraiserRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete fundraiser: %w", err)
	}
	logger.WithCtx(ctx).Info("fundraiser deleted", "fundraiser_id", id)
	return nil
}
