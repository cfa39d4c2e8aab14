package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
	"tradejournal/internal/risk"
)

// TradeService manages the trade lifecycle: execute, close, update,
// delete, list. Derived risk metrics are computed here, never accepted
// from the client.
type TradeService struct {
	trades    domain.TradeRepository
	accounts  domain.AccountRepository
	playbooks domain.PlaybookRepository
	tx        domain.TxManager
}

// NewTradeService creates a new TradeService
func NewTradeService(
	trades domain.TradeRepository,
	accounts domain.AccountRepository,
	playbooks domain.PlaybookRepository,
	tx domain.TxManager,
) *TradeService {
	return &TradeService{
		trades:    trades,
		accounts:  accounts,
		playbooks: playbooks,
		tx:        tx,
	}
}

// requireAccount loads the user's account or reports not-found
func (s *TradeService) requireAccount(ctx context.Context, accountID, userID uuid.UUID, includeArchived bool) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID, userID, includeArchived)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.NewNotFound("Account not found", domain.CodeAccountNotFound)
	}
	return account, nil
}

// requireOwnedPlaybooks verifies every id belongs to the user
func (s *TradeService) requireOwnedPlaybooks(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	owned, err := s.playbooks.CountOwned(ctx, userID, ids)
	if err != nil {
		return err
	}
	if owned != int64(len(ids)) {
		return domain.NewNotFound("One or more playbooks not found", domain.CodePlaybookNotFound)
	}
	return nil
}

// ExecuteTrade opens a Running trade against the user's account, with
// risk metrics derived from entry/stop/target and playbooks linked in
// the same transaction.
func (s *TradeService) ExecuteTrade(ctx context.Context, userID, accountID uuid.UUID, req dto.CreateTradeRequest) (*domain.Trade, error) {
	if _, err := s.requireAccount(ctx, accountID, userID, false); err != nil {
		return nil, err
	}
	if err := s.requireOwnedPlaybooks(ctx, userID, req.PlaybookIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	trade := &domain.Trade{
		ID:           newID(),
		AccountID:    accountID,
		Pair:         req.Pair,
		Position:     domain.PositionType(req.Position),
		EntryPrice:   req.EntryPrice,
		PositionSize: req.PositionSize,
		EntryTime:    req.EntryTime,
		TPPrice:      req.TPPrice,
		SLPrice:      req.SLPrice,
		RiskReward:   risk.RiskReward(req.EntryPrice, req.SLPrice, req.TPPrice),
		RiskAmount:   risk.RiskAmount(req.EntryPrice, req.SLPrice, req.PositionSize),
		Status:       domain.StatusRunning,
		Notes:        req.Notes,
		LinkImg:      req.LinkImg,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.trades.Create(ctx, trade); err != nil {
			return err
		}
		if len(req.PlaybookIDs) > 0 {
			return s.trades.ReplacePlaybooks(ctx, trade.ID, req.PlaybookIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("trade executed", "trade_id", trade.ID, "account_id", accountID, "pair", trade.Pair)

	return s.GetTradeByID(ctx, trade.ID, userID)
}

// GetTradeByID returns the user's trade with its playbook links
func (s *TradeService) GetTradeByID(ctx context.Context, id, userID uuid.UUID) (*domain.Trade, error) {
	trade, err := s.trades.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, domain.NewNotFound("Trade not found", domain.CodeTradeNotFound)
	}
	return trade, nil
}

// CloseTrade finalizes a Running trade: records exit data, derives
// duration, realized risk-reward, and the Win/Lose/BE result, and moves
// the trade to Closed. There is no reopen.
func (s *TradeService) CloseTrade(ctx context.Context, id, userID uuid.UUID, req dto.CloseTradeRequest) (*domain.Trade, error) {
	trade, err := s.GetTradeByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !trade.IsRunning() {
		return nil, domain.NewInvalidState("Trade is not running", domain.CodeTradeNotRunning)
	}
	if req.ExitTime.Before(trade.EntryTime) {
		return nil, domain.NewValidationError("Exit time cannot be before entry time")
	}

	exitPrice := req.ExitPrice
	exitTime := req.ExitTime
	pnl := req.PNL
	duration := risk.TradeDuration(trade.EntryTime, exitTime)
	rrActual := risk.RiskRewardActual(pnl, trade.RiskAmount)
	result := risk.ClassifyResult(pnl, rrActual)

	trade.ExitPrice = &exitPrice
	trade.ExitTime = &exitTime
	trade.PNL = &pnl
	trade.TradeDuration = &duration
	trade.RRActual = rrActual
	trade.Result = &result
	trade.Status = domain.StatusClosed
	if req.Notes != nil {
		trade.Notes = req.Notes
	}
	if req.LinkImg != nil {
		trade.LinkImg = req.LinkImg
	}
	trade.UpdatedAt = time.Now()

	if err := s.trades.Update(ctx, trade); err != nil {
		return nil, err
	}

	slog.Info("trade closed", "trade_id", trade.ID, "result", result, "pnl", pnl)
	return trade, nil
}

// marketFieldsTouched reports whether the update carries any field
// that only a Running trade may change
func marketFieldsTouched(req dto.UpdateTradeRequest) bool {
	return req.Pair != nil ||
		req.Position != nil ||
		req.EntryPrice != nil ||
		req.PositionSize != nil ||
		req.EntryTime != nil ||
		req.TPPrice != nil ||
		req.SLPrice != nil ||
		req.PlaybookIDs != nil
}

// UpdateTrade applies partial changes. Notes and image link are always
// editable; every market field and the playbook links require the trade
// to still be Running. Risk metrics are recomputed from the merged
// values when any price or size input changed.
func (s *TradeService) UpdateTrade(ctx context.Context, id, userID uuid.UUID, req dto.UpdateTradeRequest) (*domain.Trade, error) {
	empty := !marketFieldsTouched(req) && req.Notes == nil && req.LinkImg == nil
	if empty {
		return nil, domain.NewInvalidState("Nothing to update", domain.CodeNothingToUpdate)
	}

	trade, err := s.GetTradeByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !trade.IsRunning() && marketFieldsTouched(req) {
		return nil, domain.NewInvalidState("Trade is not running", domain.CodeTradeNotRunning)
	}

	if req.PlaybookIDs != nil {
		if err := s.requireOwnedPlaybooks(ctx, userID, *req.PlaybookIDs); err != nil {
			return nil, err
		}
	}

	recompute := false
	if req.Pair != nil {
		trade.Pair = *req.Pair
	}
	if req.Position != nil {
		trade.Position = domain.PositionType(*req.Position)
	}
	if req.EntryPrice != nil {
		trade.EntryPrice = *req.EntryPrice
		recompute = true
	}
	if req.PositionSize != nil {
		trade.PositionSize = *req.PositionSize
		recompute = true
	}
	if req.EntryTime != nil {
		trade.EntryTime = *req.EntryTime
	}
	if req.TPPrice != nil {
		trade.TPPrice = req.TPPrice
		recompute = true
	}
	if req.SLPrice != nil {
		trade.SLPrice = req.SLPrice
		recompute = true
	}
	if req.Notes != nil {
		trade.Notes = req.Notes
	}
	if req.LinkImg != nil {
		trade.LinkImg = req.LinkImg
	}

	if recompute {
		trade.RiskReward = risk.RiskReward(trade.EntryPrice, trade.SLPrice, trade.TPPrice)
		trade.RiskAmount = risk.RiskAmount(trade.EntryPrice, trade.SLPrice, trade.PositionSize)
	}
	trade.UpdatedAt = time.Now()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.trades.Update(ctx, trade); err != nil {
			return err
		}
		if req.PlaybookIDs != nil {
			return s.trades.ReplacePlaybooks(ctx, trade.ID, *req.PlaybookIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTradeByID(ctx, trade.ID, userID)
}

// DeleteTrade removes a Closed trade; a Running trade must be closed first
func (s *TradeService) DeleteTrade(ctx context.Context, id, userID uuid.UUID) error {
	trade, err := s.GetTradeByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if trade.IsRunning() {
		return domain.NewInvalidState("Trade is not closed", domain.CodeTradeNotClosed)
	}

	if err := s.trades.Delete(ctx, trade.ID); err != nil {
		return fmt.Errorf("failed to delete trade %s: %w", trade.ID, err)
	}
	return nil
}

// GetAllTrades returns a filtered page of the account's trades.
// Archived accounts remain readable here.
func (s *TradeService) GetAllTrades(ctx context.Context, userID, accountID uuid.UUID, query dto.TradeListQuery) (*domain.Pageable[domain.Trade], error) {
	if _, err := s.requireAccount(ctx, accountID, userID, true); err != nil {
		return nil, err
	}

	query.Normalize()

	filter := domain.TradeFilter{
		Search: query.Search,
		From:   query.From,
		To:     query.To,
		Page:   query.Page,
		Size:   query.Size,
	}
	if query.Status != "" {
		status := domain.TradeStatus(query.Status)
		filter.Status = &status
	}

	trades, total, err := s.trades.List(ctx, accountID, filter)
	if err != nil {
		return nil, err
	}

	return &domain.Pageable[domain.Trade]{
		Data:   trades,
		Paging: domain.NewPaging(query.Page, query.Size, total),
	}, nil
}
