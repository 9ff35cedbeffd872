package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"crowdfund/internal/metrics"
	"crowdfund/internal/models"
	"crowdfund/internal/permission"
	"crowdfund/internal/repository"
	"crowdfund/pkg/logger"
)

// PledgeInput is the creation payload. The supporter is always the caller.
type PledgeInput struct {
	Amount     *int   `json:"amount" validate:"required"`
	Comment    string `json:"comment" validate:"max=200"`
	Anonymous  bool   `json:"anonymous"`
	Fundraiser *uint  `json:"fundraiser" validate:"required"`
}

// PledgePatch carries the fields a supporter may edit. Amount, fundraiser
// and supporter are read-only after creation.
type PledgePatch struct {
	Comment   *string `json:"comment" validate:"omitnil,max=200"`
	Anonymous *bool   `json:"anonymous"`
}

// Publisher receives pledge events for live subscribers.
type Publisher interface {
	Publish(msg models.Message)
}

type PledgeService struct {
	pledgeRepo     repository.PledgeRepository
	fundraiserRepo repository.FundraiserRepository
	feed           Publisher
}

func NewPledgeService(pledgeRepo repository.PledgeRepository, fundraiserRepo repository.FundraiserRepository, feed Publisher) *PledgeService {
	return &PledgeService{
		pledgeRepo:     pledgeRepo,
		fundraiserRepo: fundraiserRepo,
		feed:           feed,
	}
}

// CreatePledge records a pledge by supporterID. The fundraiser must exist and
// still be open, and the amount must be positive.
func (s *PledgeService) CreatePledge(ctx context.Context, supporterID uint, input PledgeInput) (*models.Pledge, error) {
	if supporterID == 0 {
		return nil, ErrNotAuthenticated
	}

	errs := &ValidationError{}
	check(input, errs)
	if input.Amount != nil && *input.Amount <= 0 {
		errs.Add("amount", "Amount must be greater than zero.")
	}

	var fundraiser *models.Fundraiser
	if input.Fundraiser != nil {
		f, err := s.fundraiserRepo.FindByID(ctx, *input.Fundraiser)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			errs.Add("fundraiser", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *input.Fundraiser))
		case err != nil:
			return nil, fmt.Errorf("find fundraiser: %w", err)
		case !f.IsOpen:
			errs.Add("fundraiser", "This fundraiser is no longer accepting pledges.")
		default:
			fundraiser = f
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	pledge := &models.Pledge{
		Amount:       *input.Amount,
		Comment:      input.Comment,
		Anonymous:    input.Anonymous,
		FundraiserID: fundraiser.ID,
		SupporterID:  supporterID,
	}
	if err := s.pledgeRepo.Create(ctx, pledge); err != nil {
		return nil, fmt.Errorf("create pledge: %w", err)
	}
	pledge.Fundraiser = *fundraiser
	pledge.Fundraiser.Pledges = nil

	metrics.PledgesCreated.Inc()
	metrics.PledgedAmount.Add(float64(pledge.Amount))
	logger.WithCtx(ctx).Info("pledge created",
		"pledge_id", pledge.ID,
		"fundraiser_id", pledge.FundraiserID,
		"supporter_id", supporterID,
		"amount", pledge.Amount,
	)

	if s.feed != nil {
		s.feed.Publish(models.NewPledgeMessage(*pledge, fundraiser.OwnerID))
	}
	return pledge, nil
}

// GetPledge returns the pledge with its fundraiser loaded.
func (s *PledgeService) GetPledge(ctx context.Context, id uint) (*models.Pledge, error) {
	pledge, err := s.pledgeRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return pledge, err
}

func (s *PledgeService) ListPledges(ctx context.Context) ([]models.Pledge, error) {
	return s.pledgeRepo.FindAll(ctx)
}

func (s *PledgeService) ListBySupporter(ctx context.Context, supporterID uint) ([]models.Pledge, error) {
	return s.pledgeRepo.FindBySupporter(ctx, supporterID)
}

// writablePledge loads a pledge for a write by requesterID, enforcing the
// object gate shared by every pledge write: supporter or fundraiser owner.
func (s *PledgeService) writablePledge(ctx context.Context, requesterID, id uint, method string) (*models.Pledge, error) {
	pledge, err := s.GetPledge(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.SupporterOrFundraiserOwnerOrReadOnly(method, requesterID, pledge.SupporterID, pledge.Fundraiser.OwnerID) {
		return nil, ErrForbidden
	}
	return pledge, nil
}

// AuthorizeEdit reports whether requesterID may edit pledge id. Handlers call
// it before decoding a request body.
func (s *PledgeService) AuthorizeEdit(ctx context.Context, requesterID, id uint) error {
	_, err := s.editablePledge(ctx, requesterID, id)
	return err
}

func (s *PledgeService) editablePledge(ctx context.Context, requesterID, id uint) (*models.Pledge, error) {
	pledge, err := s.writablePledge(ctx, requesterID, id, http.MethodPut)
	if err != nil {
		return nil, err
	}
	if !permission.SupporterOrReadOnly(http.MethodPut, requesterID, pledge.SupporterID) {
		return nil, forbidden("Only the pledge supporter can edit this pledge.")
	}
	return pledge, nil
}

// UpdatePledge lets the supporter edit the comment and anonymity.
func (s *PledgeService) UpdatePledge(ctx context.Context, requesterID, id uint, patch PledgePatch) (*models.Pledge, error) {
	pledge, err := s.editablePledge(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	errs := &ValidationError{}
	check(patch, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if patch.Comment != nil {
		pledge.Comment = *patch.Comment
	}
	if patch.Anonymous != nil {
		pledge.Anonymous = *patch.Anonymous
	}
	if err := s.pledgeRepo.Update(ctx, pledge); err != nil {
		return nil, fmt.Errorf("update pledge: %w", err)
	}
	return pledge, nil
}

// ModerationInput is the body of a hide/unhide request. It is kept as raw
// JSON values so the flag can be checked after the permission gate.
type ModerationInput map[string]any

func parseHiddenFlag(input ModerationInput) (bool, error) {
	raw, ok := input["is_hidden_by_owner"]
	if !ok {
		return false, badRequest("Provide 'is_hidden_by_owner': true or false.")
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true", "True", "1":
			return true, nil
		case "false", "False", "0":
			return false, nil
		}
	case float64:
		switch v {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	}
	return false, badRequest("is_hidden_by_owner must be true or false.")
}

// SetHidden lets the fundraiser owner hide or reveal a pledge's comment.
func (s *PledgeService) SetHidden(ctx context.Context, requesterID, id uint, input ModerationInput) (*models.Pledge, error) {
	pledge, err := s.writablePledge(ctx, requesterID, id, http.MethodPatch)
	if err != nil {
		return nil, err
	}
	if !permission.OwnerOrReadOnly(http.MethodPatch, requesterID, pledge.Fundraiser.OwnerID) {
		return nil, forbidden("Only the fundraiser owner can hide or unhide comments.")
	}

	hidden, err := parseHiddenFlag(input)
	if err != nil {
		return nil, err
	}

	pledge.IsHiddenByOwner = hidden
	if err := s.pledgeRepo.Update(ctx, pledge); err != nil {
		return nil, fmt.Errorf("update pledge: %w", err)
	}
	return pledge, nil
}

// ClearComment lets the supporter withdraw their comment. The pledge itself
// is kept.
func (s *PledgeService) ClearComment(ctx context.Context, requesterID, id uint) error {
	pledge, err := s.writablePledge(ctx, requesterID, id, http.MethodDelete)
	if err != nil {
		return err
	}
	if !permission.SupporterOrReadOnly(http.MethodDelete, requesterID, pledge.SupporterID) {
		return forbidden("Only the pledge supporter can delete their comment.")
	}

	pledge.Comment = ""
	if err := s.pledgeRepo.Update(ctx, pledge); err != nil {
		return fmt.Errorf("update pledge: %w", err)
	}
	return nil
}
