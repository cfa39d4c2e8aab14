package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradejournal/internal/domain"
)

const tradeColumns = `t.id, t.account_id, t.pair, t.position, t.entry_price, t.position_size,
		       t.entry_time, t.tp_price, t.sl_price, t.exit_price, t.exit_time, t.pnl,
		       t.risk_reward, t.risk_amount, t.trade_duration, t.rr_actual, t.trade_result,
		       t.status, t.notes, t.link_img, t.created_at, t.updated_at`

// TradeRepositoryImpl implements the TradeRepository interface
type TradeRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *pgxpool.Pool) domain.TradeRepository {
	return &TradeRepositoryImpl{db: db}
}

// Create persists a new trade. Playbook links go through
// ReplacePlaybooks inside the same transaction.
func (r *TradeRepositoryImpl) Create(ctx context.Context, trade *domain.Trade) error {
	query := `
		INSERT INTO trades (
			id, account_id, pair, position, entry_price, position_size,
			entry_time, tp_price, sl_price, risk_reward, risk_amount,
			status, notes, link_img, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := querier(ctx, r.db).Exec(ctx, query,
		trade.ID,
		trade.AccountID,
		trade.Pair,
		trade.Position,
		trade.EntryPrice,
		trade.PositionSize,
		trade.EntryTime,
		trade.TPPrice,
		trade.SLPrice,
		trade.RiskReward,
		trade.RiskAmount,
		trade.Status,
		trade.Notes,
		trade.LinkImg,
		trade.CreatedAt,
		trade.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	trade := &domain.Trade{}
	err := row.Scan(
		&trade.ID,
		&trade.AccountID,
		&trade.Pair,
		&trade.Position,
		&trade.EntryPrice,
		&trade.PositionSize,
		&trade.EntryTime,
		&trade.TPPrice,
		&trade.SLPrice,
		&trade.ExitPrice,
		&trade.ExitTime,
		&trade.PNL,
		&trade.RiskReward,
		&trade.RiskAmount,
		&trade.TradeDuration,
		&trade.RRActual,
		&trade.Result,
		&trade.Status,
		&trade.Notes,
		&trade.LinkImg,
		&trade.CreatedAt,
		&trade.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan trade: %w", err)
	}
	return trade, nil
}

// GetByID retrieves a trade with ownership enforced through the
// trade's account, playbook refs included
func (r *TradeRepositoryImpl) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = $1 AND a.user_id = $2
	`

	trade, err := scanTrade(querier(ctx, r.db).QueryRow(ctx, query, id, userID))
	if err != nil || trade == nil {
		return trade, err
	}

	playbooks, err := r.playbookRefs(ctx, []uuid.UUID{trade.ID})
	if err != nil {
		return nil, err
	}
	trade.Playbooks = playbooks[trade.ID]

	return trade, nil
}

// Update replaces the trade's mutable and derived fields. The service
// layer decides which fields may change per status; the repository
// writes the merged row.
func (r *TradeRepositoryImpl) Update(ctx context.Context, trade *domain.Trade) error {
	query := `
		UPDATE trades
		SET pair = $1, position = $2, entry_price = $3, position_size = $4,
		    entry_time = $5, tp_price = $6, sl_price = $7, exit_price = $8,
		    exit_time = $9, pnl = $10, risk_reward = $11, risk_amount = $12,
		    trade_duration = $13, rr_actual = $14, trade_result = $15,
		    status = $16, notes = $17, link_img = $18, updated_at = NOW()
		WHERE id = $19
	`

	_, err := querier(ctx, r.db).Exec(ctx, query,
		trade.Pair,
		trade.Position,
		trade.EntryPrice,
		trade.PositionSize,
		trade.EntryTime,
		trade.TPPrice,
		trade.SLPrice,
		trade.ExitPrice,
		trade.ExitTime,
		trade.PNL,
		trade.RiskReward,
		trade.RiskAmount,
		trade.TradeDuration,
		trade.RRActual,
		trade.Result,
		trade.Status,
		trade.Notes,
		trade.LinkImg,
		trade.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	return nil
}

// Delete hard-deletes a trade; join rows cascade
func (r *TradeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM trades WHERE id = $1`

	_, err := querier(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	return nil
}

// ReplacePlaybooks swaps the trade's playbook links: delete all, then
// recreate from playbookIDs. Callers wrap this in a transaction with
// whatever made the links change.
func (r *TradeRepositoryImpl) ReplacePlaybooks(ctx context.Context, tradeID uuid.UUID, playbookIDs []uuid.UUID) error {
	q := querier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM trade_playbooks WHERE trade_id = $1`, tradeID); err != nil {
		return fmt.Errorf("failed to clear trade playbooks: %w", err)
	}

	for _, playbookID := range playbookIDs {
		_, err := q.Exec(ctx,
			`INSERT INTO trade_playbooks (trade_id, playbook_id) VALUES ($1, $2)`,
			tradeID, playbookID,
		)
		if err != nil {
			return fmt.Errorf("failed to link trade playbook: %w", err)
		}
	}

	return nil
}

// List returns one page of an account's trades plus the unpaged total.
// Ownership of the account itself is checked by the service.
func (r *TradeRepositoryImpl) List(ctx context.Context, accountID uuid.UUID, filter domain.TradeFilter) ([]domain.Trade, int64, error) {
	where := ` FROM trades t WHERE t.account_id = $1`
	args := []any{accountID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(` AND t.status = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(` AND (t.pair ILIKE $%d OR t.notes ILIKE $%d)`, len(args), len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(` AND t.entry_time >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(` AND t.entry_time <= $%d`, len(args))
	}

	var total int64
	if err := querier(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trades: %w", err)
	}

	args = append(args, filter.Size, filter.Offset())
	query := `SELECT ` + tradeColumns + where +
		fmt.Sprintf(` ORDER BY t.entry_time DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := querier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	var tradeIDs []uuid.UUID
	for rows.Next() {
		trade := domain.Trade{}
		err := rows.Scan(
			&trade.ID,
			&trade.AccountID,
			&trade.Pair,
			&trade.Position,
			&trade.EntryPrice,
			&trade.PositionSize,
			&trade.EntryTime,
			&trade.TPPrice,
			&trade.SLPrice,
			&trade.ExitPrice,
			&trade.ExitTime,
			&trade.PNL,
			&trade.RiskReward,
			&trade.RiskAmount,
			&trade.TradeDuration,
			&trade.RRActual,
			&trade.Result,
			&trade.Status,
			&trade.Notes,
			&trade.LinkImg,
			&trade.CreatedAt,
			&trade.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
		tradeIDs = append(tradeIDs, trade.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating trades: %w", err)
	}

	playbooks, err := r.playbookRefs(ctx, tradeIDs)
	if err != nil {
		return nil, 0, err
	}
	for i := range trades {
		trades[i].Playbooks = playbooks[trades[i].ID]
	}

	return trades, total, nil
}

// playbookRefs loads the playbook id/name pairs linked to each trade
func (r *TradeRepositoryImpl) playbookRefs(ctx context.Context, tradeIDs []uuid.UUID) (map[uuid.UUID][]domain.PlaybookRef, error) {
	if len(tradeIDs) == 0 {
		return map[uuid.UUID][]domain.PlaybookRef{}, nil
	}

	query := `
		SELECT tp.trade_id, p.id, p.name
		FROM trade_playbooks tp
		JOIN playbooks p ON p.id = tp.playbook_id
		WHERE tp.trade_id = ANY($1)
	`

	rows, err := querier(ctx, r.db).Query(ctx, query, tradeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade playbooks: %w", err)
	}
	defer rows.Close()

	refs := make(map[uuid.UUID][]domain.PlaybookRef)
	for rows.Next() {
		var tradeID uuid.UUID
		var ref domain.PlaybookRef
		if err := rows.Scan(&tradeID, &ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan trade playbook: %w", err)
		}
		refs[tradeID] = append(refs[tradeID], ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade playbooks: %w", err)
	}
	return refs, nil
}
