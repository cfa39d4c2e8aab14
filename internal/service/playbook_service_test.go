package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
)

func TestPlaybookGetByID_NotFound(t *testing.T) {
	svc := NewPlaybookService(&fakePlaybookRepo{})

	_, err := svc.GetByID(context.Background(), uuid.New(), uuid.New())

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domain.CodePlaybookNotFound, appErr.Code)
}

func TestPlaybookUpdate_MergesPartialChanges(t *testing.T) {
	playbookID := uuid.New()
	userID := uuid.New()
	desc := "wait for the retest"

	playbooks := &fakePlaybookRepo{
		GetByIDFn: func(ctx context.Context, id, gotUser uuid.UUID) (*domain.Playbook, error) {
			return &domain.Playbook{ID: playbookID, UserID: userID, Name: "Breakout", Description: &desc}, nil
		},
	}
	svc := NewPlaybookService(playbooks)

	playbook, err := svc.Update(context.Background(), playbookID, userID, dto.UpdatePlaybookRequest{
		Name: ptr("Breakout v2"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Breakout v2", playbook.Name)
	require.NotNil(t, playbook.Description)
	assert.Equal(t, desc, *playbook.Description)
}

func TestPlaybookListDetailed_ComputesStats(t *testing.T) {
	userID := uuid.New()
	playbookID := uuid.New()

	playbooks := &fakePlaybookRepo{
		CountFn: func(ctx context.Context, gotUser uuid.UUID, search string) (int64, error) {
			return 1, nil
		},
		ListFn: func(ctx context.Context, gotUser uuid.UUID, search string, limit, offset int) ([]domain.Playbook, error) {
			return []domain.Playbook{{ID: playbookID, UserID: userID, Name: "Breakout"}}, nil
		},
		ClosedTradeOutcomesFn: func(ctx context.Context, playbookIDs []uuid.UUID) (map[uuid.UUID][]domain.TradeOutcome, error) {
			return map[uuid.UUID][]domain.TradeOutcome{
				playbookID: {
					{Result: domain.ResultWin, PNL: 100},
					{Result: domain.ResultWin, PNL: 40},
					{Result: domain.ResultLose, PNL: -70},
					{Result: domain.ResultBE, PNL: 0},
				},
			}, nil
		},
	}
	svc := NewPlaybookService(playbooks)

	page, err := svc.ListDetailed(context.Background(), userID, dto.PlaybookListQuery{View: "detailed"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	stats := page.Data[0].Stats
	assert.Equal(t, 4, stats.TotalTrades)
	assert.InDelta(t, 50.0, stats.Winrate, 1e-9)
	assert.InDelta(t, 2.0, stats.ProfitFactor, 1e-9)
}

func TestPlaybookListDetailed_NoClosedTrades(t *testing.T) {
	userID := uuid.New()
	playbookID := uuid.New()

	playbooks := &fakePlaybookRepo{
		CountFn: func(ctx context.Context, gotUser uuid.UUID, search string) (int64, error) {
			return 1, nil
		},
		ListFn: func(ctx context.Context, gotUser uuid.UUID, search string, limit, offset int) ([]domain.Playbook, error) {
			return []domain.Playbook{{ID: playbookID, UserID: userID, Name: "Untested"}}, nil
		},
	}
	svc := NewPlaybookService(playbooks)

	page, err := svc.ListDetailed(context.Background(), userID, dto.PlaybookListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	stats := page.Data[0].Stats
	assert.Equal(t, 0, stats.TotalTrades)
	assert.Zero(t, stats.Winrate)
	assert.Zero(t, stats.ProfitFactor)
}
