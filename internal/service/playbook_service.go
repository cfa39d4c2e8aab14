package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
	"tradejournal/internal/risk"
)

// PlaybookService manages strategy tags and their closed-trade stats
type PlaybookService struct {
	playbooks domain.PlaybookRepository
}

// NewPlaybookService creates a new PlaybookService
func NewPlaybookService(playbooks domain.PlaybookRepository) *PlaybookService {
	return &PlaybookService{playbooks: playbooks}
}

// Create adds a new playbook for the user
func (s *PlaybookService) Create(ctx context.Context, userID uuid.UUID, req dto.CreatePlaybookRequest) (*domain.Playbook, error) {
	now := time.Now()
	playbook := &domain.Playbook{
		ID:          newID(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.playbooks.Create(ctx, playbook); err != nil {
		return nil, err
	}
	return playbook, nil
}

// GetByID returns the user's playbook
func (s *PlaybookService) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Playbook, error) {
	playbook, err := s.playbooks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if playbook == nil {
		return nil, domain.NewNotFound("Playbook not found", domain.CodePlaybookNotFound)
	}
	return playbook, nil
}

// Update applies partial changes to the user's playbook
func (s *PlaybookService) Update(ctx context.Context, id, userID uuid.UUID, req dto.UpdatePlaybookRequest) (*domain.Playbook, error) {
	playbook, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		playbook.Name = *req.Name
	}
	if req.Description != nil {
		playbook.Description = req.Description
	}
	playbook.UpdatedAt = time.Now()

	if err := s.playbooks.Update(ctx, playbook); err != nil {
		return nil, err
	}
	return playbook, nil
}

// Delete removes the playbook; its trade links go with it, the trades stay
func (s *PlaybookService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	playbook, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.playbooks.Delete(ctx, playbook.ID)
}

// ListBasic returns every playbook of the user, unpaged, for pickers
func (s *PlaybookService) ListBasic(ctx context.Context, userID uuid.UUID) ([]domain.Playbook, error) {
	return s.playbooks.ListByUser(ctx, userID)
}

// ListDetailed returns a paged listing with closed-trade stats per playbook
func (s *PlaybookService) ListDetailed(ctx context.Context, userID uuid.UUID, query dto.PlaybookListQuery) (*domain.Pageable[domain.PlaybookDetail], error) {
	query.Normalize()

	total, err := s.playbooks.Count(ctx, userID, query.Search)
	if err != nil {
		return nil, err
	}

	offset := (query.Page - 1) * query.Size
	playbooks, err := s.playbooks.List(ctx, userID, query.Search, query.Size, offset)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(playbooks))
	for i, p := range playbooks {
		ids[i] = p.ID
	}

	outcomes := map[uuid.UUID][]domain.TradeOutcome{}
	if len(ids) > 0 {
		outcomes, err = s.playbooks.ClosedTradeOutcomes(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	details := make([]domain.PlaybookDetail, len(playbooks))
	for i, p := range playbooks {
		details[i] = domain.PlaybookDetail{
			Playbook: p,
			Stats:    risk.PlaybookStats(outcomes[p.ID]),
		}
	}

	return &domain.Pageable[domain.PlaybookDetail]{
		Data:   details,
		Paging: domain.NewPaging(query.Page, query.Size, total),
	}, nil
}
