package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/logging"
	"storefront/internal/repository"
)

// Interest is a category the user subscribed to.
type Interest struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// InterestService manages the categories a user is interested in. Every
// operation acts on the user of the given session.
type InterestService interface {
	SaveInterests(ctx context.Context, session *auth.Session, categoryIDs []string) error
	GetUserInterests(ctx context.Context, session *auth.Session) ([]Interest, error)
}

type interestService struct {
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	interestRepo repository.InterestRepository
	log          logging.Logger
}

// NewInterestService creates a new interest service.
func NewInterestService(
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	interestRepo repository.InterestRepository,
	log logging.Logger,
) InterestService {
	return &interestService{
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		interestRepo: interestRepo,
		log:          log.With("component", "interests"),
	}
}

// SaveInterests replaces the user's interests with categoryIDs. If any id
// does not name a category nothing is written and every unknown id is
// reported.
func (s *interestService) SaveInterests(ctx context.Context, session *auth.Session, categoryIDs []string) error {
	if session == nil {
		return apperrors.ErrNotAuthenticated
	}

	ids, invalid := parseCategoryIDs(categoryIDs)
	if len(ids) > 0 {
		found, err := s.categoryRepo.FindByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("find categories: %w", err)
		}
		known := make(map[uuid.UUID]struct{}, len(found))
		for _, c := range found {
			known[c.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := known[id]; !ok {
				invalid = append(invalid, id.String())
			}
		}
	}
	if len(invalid) > 0 {
		return &apperrors.InvalidCategoriesError{IDs: invalid}
	}

	if err := s.ensureUser(ctx, session.UserID); err != nil {
		return err
	}
	if err := s.interestRepo.ReplaceForUser(ctx, session.UserID, ids); err != nil {
		return fmt.Errorf("replace interests: %w", err)
	}
	s.log.Info(ctx, "interests saved", "user_id", session.UserID, "count", len(ids))
	return nil
}

// GetUserInterests lists the user's interests ordered by category name.
func (s *interestService) GetUserInterests(ctx context.Context, session *auth.Session) ([]Interest, error) {
	if session == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	if err := s.ensureUser(ctx, session.UserID); err != nil {
		return nil, err
	}

	categories, err := s.interestRepo.ListForUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	interests := make([]Interest, 0, len(categories))
	for _, c := range categories {
		interests = append(interests, Interest{ID: c.ID, Name: c.Name})
	}
	return interests, nil
}

func (s *interestService) ensureUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return nil
}

// parseCategoryIDs splits raw ids into distinct parsed ids and the raw
// values that are not UUIDs, both in input order.
func parseCategoryIDs(raw []string) ([]uuid.UUID, []string) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]struct{}, len(raw))
	var invalid []string
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			invalid = append(invalid, r)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, invalid
}
