package service

import (
	"context"
	"errors"

	availabilityerrors "unimeet/internal/availability/errors"
	"unimeet/internal/availability/repository"
	"unimeet/internal/availability/validator"
	"unimeet/pkg/config"
	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/logger"
	"unimeet/pkg/model"
	"unimeet/pkg/sanitizer"
)

type AvailabilityService interface {
	Create(ctx context.Context, rule *model.AvailabilityRule) (*model.AvailabilityRule, error)
	Get(ctx context.Context, id string) (*model.AvailabilityRule, error)
	Update(ctx context.Context, id string, rule *model.AvailabilityRule) (*model.AvailabilityRule, error)
	Delete(ctx context.Context, id string) error
	ListByRepresentative(ctx context.Context, representativeID string) ([]*model.AvailabilityRule, error)
	ListByInstitution(ctx context.Context, institutionID string) ([]*model.AvailabilityRule, error)
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	logger    *logger.Logger
}

func NewAvailabilityService(cfg *config.Config, repo repository.AvailabilityRepository) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator.NewAvailabilityValidator(cfg.Log),
		logger:    cfg.Log,
	}
}

func (s *availabilityService) Create(ctx context.Context, rule *model.AvailabilityRule) (*model.AvailabilityRule, error) {
	s.applyDefaults(rule)

	if err := s.validator.Validate(rule); err != nil {
		return nil, apperrors.Validation("Availability rule validation failed", map[string]any{"errors": err.Error()})
	}

	// One rule per (representative, weekday). A second rule for the same
	// weekday is a conflict, not a merge.
	existing, err := s.repo.FindByRepresentative(ctx, rule.RepresentativeID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing availability", err)
	}
	for _, e := range existing {
		if e.Weekday == rule.Weekday {
			return nil, apperrors.Conflict("An availability rule already exists for this weekday")
		}
	}

	rule.Active = true
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, apperrors.Internal("Failed to create availability rule", err)
	}

	s.logger.Info("Availability rule created",
		"rule_id", rule.ID,
		"representative_id", rule.RepresentativeID,
		"weekday", rule.Weekday,
	)
	return rule, nil
}

func (s *availabilityService) Get(ctx context.Context, id string) (*model.AvailabilityRule, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return rule, nil
}

// Update replaces a rule's schedule fields. Deactivating a rule deletes it;
// the slot generator never has to reason about inactive rules.
func (s *availabilityService) Update(ctx context.Context, id string, rule *model.AvailabilityRule) (*model.AvailabilityRule, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	rule.RepresentativeID = current.RepresentativeID
	rule.InstitutionID = current.InstitutionID
	s.applyDefaults(rule)

	if err := s.validator.Validate(rule); err != nil {
		return nil, apperrors.Validation("Availability rule validation failed", map[string]any{"errors": err.Error()})
	}

	if !rule.Active {
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, s.mapRepoError(err, id)
		}
		s.logger.Info("Availability rule deactivated and removed", "rule_id", id)
		rule.ID = id
		return rule, nil
	}

	if err := s.repo.Update(ctx, id, rule); err != nil {
		return nil, s.mapRepoError(err, id)
	}

	rule.ID = id
	s.logger.Info("Availability rule updated", "rule_id", id)
	return rule, nil
}

func (s *availabilityService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id)
	}
	s.logger.Info("Availability rule deleted", "rule_id", id)
	return nil
}

func (s *availabilityService) ListByRepresentative(ctx context.Context, representativeID string) ([]*model.AvailabilityRule, error) {
	rules, err := s.repo.FindByRepresentative(ctx, representativeID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list availability rules", err)
	}
	return rules, nil
}

func (s *availabilityService) ListByInstitution(ctx context.Context, institutionID string) ([]*model.AvailabilityRule, error) {
	rules, err := s.repo.FindByInstitution(ctx, institutionID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list availability rules", err)
	}
	return rules, nil
}

func (s *availabilityService) applyDefaults(rule *model.AvailabilityRule) {
	for i, level := range rule.DegreeLevels {
		rule.DegreeLevels[i] = sanitizer.SanitizeLabel(level)
	}
}

func (s *availabilityService) mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, availabilityerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Availability rule", id)
	case errors.Is(err, availabilityerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid availability rule ID format")
	default:
		return apperrors.Internal("Availability repository operation failed", err)
	}
}
