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

const accountColumns = `id, user_id, nickname, exchange, balance,
		       risk_per_trade, max_risk_daily, is_archived, created_at, updated_at`

// AccountRepositoryImpl implements the AccountRepository interface
type AccountRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create persists a new account
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (
			id, user_id, nickname, exchange, balance,
			risk_per_trade, max_risk_daily, is_archived, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := querier(ctx, r.db).Exec(ctx, query,
		account.ID,
		account.UserID,
		account.Nickname,
		account.Exchange,
		account.Balance,
		account.RiskPerTrade,
		account.MaxRiskDaily,
		account.IsArchived,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepositoryImpl) scanAccount(row pgx.Row) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Nickname,
		&account.Exchange,
		&account.Balance,
		&account.RiskPerTrade,
		&account.MaxRiskDaily,
		&account.IsArchived,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return account, nil
}

// GetByID retrieves the user's account. Archived accounts are filtered
// out unless includeArchived is passed; the delete path passes it so
// the archive-before-delete check can see the row.
func (r *AccountRepositoryImpl) GetByID(ctx context.Context, id, userID uuid.UUID, includeArchived bool) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`
	if !includeArchived {
		query += ` AND is_archived = FALSE`
	}
	return r.scanAccount(querier(ctx, r.db).QueryRow(ctx, query, id, userID))
}

// Update replaces the account's mutable fields
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET nickname = $1, exchange = $2, balance = $3,
		    risk_per_trade = $4, max_risk_daily = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := querier(ctx, r.db).Exec(ctx, query,
		account.Nickname,
		account.Exchange,
		account.Balance,
		account.RiskPerTrade,
		account.MaxRiskDaily,
		account.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// SetArchived toggles the archive flag
func (r *AccountRepositoryImpl) SetArchived(ctx context.Context, id, userID uuid.UUID, archived bool) error {
	query := `UPDATE accounts SET is_archived = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`

	_, err := querier(ctx, r.db).Exec(ctx, query, archived, id, userID)
	if err != nil {
		return fmt.Errorf("failed to set account archived: %w", err)
	}
	return nil
}

// Delete hard-deletes the account; callers must have verified it is archived
func (r *AccountRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM accounts WHERE id = $1`

	_, err := querier(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// CountByUser counts the user's non-archived accounts
func (r *AccountRepositoryImpl) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE user_id = $1 AND is_archived = FALSE`

	var count int64
	if err := querier(ctx, r.db).QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// ListDetailed returns non-archived accounts with per-account trade
// aggregates joined in
func (r *AccountRepositoryImpl) ListDetailed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.AccountDetail, error) {
	query := `
		SELECT a.id, a.user_id, a.nickname, a.exchange, a.balance,
		       a.risk_per_trade, a.max_risk_daily, a.is_archived, a.created_at, a.updated_at,
		       COUNT(t.id)::bigint AS total_trade,
		       COALESCE(SUM(CASE WHEN t.pnl > 0 THEN t.pnl ELSE 0 END), 0) AS total_profit,
		       COALESCE(SUM(CASE WHEN t.pnl < 0 THEN t.pnl ELSE 0 END), 0) AS total_lose
		FROM accounts a
		LEFT JOIN trades t ON t.account_id = a.id
		WHERE a.user_id = $1 AND a.is_archived = FALSE
		GROUP BY a.id
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := querier(ctx, r.db).Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query detailed accounts: %w", err)
	}
	defer rows.Close()

	var details []domain.AccountDetail
	for rows.Next() {
		var d domain.AccountDetail
		err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Nickname,
			&d.Exchange,
			&d.Balance,
			&d.RiskPerTrade,
			&d.MaxRiskDaily,
			&d.IsArchived,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.TotalTrades,
			&d.TotalProfit,
			&d.TotalLoss,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan detailed account: %w", err)
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detailed accounts: %w", err)
	}
	return details, nil
}
