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

const playbookColumns = `id, user_id, name, description, created_at, updated_at`

// PlaybookRepositoryImpl implements the PlaybookRepository interface
type PlaybookRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPlaybookRepository creates a new PlaybookRepository
func NewPlaybookRepository(db *pgxpool.Pool) domain.PlaybookRepository {
	return &PlaybookRepositoryImpl{db: db}
}

// Create persists a new playbook
func (r *PlaybookRepositoryImpl) Create(ctx context.Context, playbook *domain.Playbook) error {
	query := `
		INSERT INTO playbooks (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := querier(ctx, r.db).Exec(ctx, query,
		playbook.ID,
		playbook.UserID,
		playbook.Name,
		playbook.Description,
		playbook.CreatedAt,
		playbook.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create playbook: %w", err)
	}
	return nil
}

func (r *PlaybookRepositoryImpl) scanPlaybook(row pgx.Row) (*domain.Playbook, error) {
	playbook := &domain.Playbook{}
	err := row.Scan(
		&playbook.ID,
		&playbook.UserID,
		&playbook.Name,
		&playbook.Description,
		&playbook.CreatedAt,
		&playbook.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playbook: %w", err)
	}
	return playbook, nil
}

// GetByID retrieves the user's playbook
func (r *PlaybookRepositoryImpl) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Playbook, error) {
	query := `SELECT ` + playbookColumns + ` FROM playbooks WHERE id = $1 AND user_id = $2`
	return r.scanPlaybook(querier(ctx, r.db).QueryRow(ctx, query, id, userID))
}

// Update replaces name and description
func (r *PlaybookRepositoryImpl) Update(ctx context.Context, playbook *domain.Playbook) error {
	query := `UPDATE playbooks SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`

	_, err := querier(ctx, r.db).Exec(ctx, query, playbook.Name, playbook.Description, playbook.ID)
	if err != nil {
		return fmt.Errorf("failed to update playbook: %w", err)
	}
	return nil
}

// Delete removes the playbook; join rows cascade, trades stay
func (r *PlaybookRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM playbooks WHERE id = $1`

	_, err := querier(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete playbook: %w", err)
	}
	return nil
}

// CountOwned reports how many of ids belong to the user
func (r *PlaybookRepositoryImpl) CountOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM playbooks WHERE user_id = $1 AND id = ANY($2)`

	var count int64
	if err := querier(ctx, r.db).QueryRow(ctx, query, userID, ids).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count owned playbooks: %w", err)
	}
	return count, nil
}

// ListByUser returns all of the user's playbooks, newest first
func (r *PlaybookRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Playbook, error) {
	query := `SELECT ` + playbookColumns + ` FROM playbooks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := querier(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playbooks: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// List returns one page of the user's playbooks, optionally filtered by
// a case-insensitive name/description search
func (r *PlaybookRepositoryImpl) List(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]domain.Playbook, error) {
	query := `SELECT ` + playbookColumns + ` FROM playbooks WHERE user_id = $1`
	args := []any{userID}

	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := querier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playbooks: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// Count counts the user's playbooks under the same search filter as List
func (r *PlaybookRepositoryImpl) Count(ctx context.Context, userID uuid.UUID, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM playbooks WHERE user_id = $1`
	args := []any{userID}

	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}

	var count int64
	if err := querier(ctx, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count playbooks: %w", err)
	}
	return count, nil
}

func (r *PlaybookRepositoryImpl) collect(rows pgx.Rows) ([]domain.Playbook, error) {
	var playbooks []domain.Playbook
	for rows.Next() {
		var p domain.Playbook
		err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playbook: %w", err)
		}
		playbooks = append(playbooks, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playbooks: %w", err)
	}
	return playbooks, nil
}

// ClosedTradeOutcomes returns the closed-trade results attached to each
// playbook, for the detailed listing's stats
func (r *PlaybookRepositoryImpl) ClosedTradeOutcomes(ctx context.Context, playbookIDs []uuid.UUID) (map[uuid.UUID][]domain.TradeOutcome, error) {
	if len(playbookIDs) == 0 {
		return map[uuid.UUID][]domain.TradeOutcome{}, nil
	}

	query := `
		SELECT tp.playbook_id, t.trade_result, t.pnl
		FROM trade_playbooks tp
		JOIN trades t ON t.id = tp.trade_id
		WHERE tp.playbook_id = ANY($1) AND t.status = $2
	`

	rows, err := querier(ctx, r.db).Query(ctx, query, playbookIDs, domain.StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to query playbook trade outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := make(map[uuid.UUID][]domain.TradeOutcome)
	for rows.Next() {
		var playbookID uuid.UUID
		var result *domain.TradeResult
		var pnl *float64

		if err := rows.Scan(&playbookID, &result, &pnl); err != nil {
			return nil, fmt.Errorf("failed to scan trade outcome: %w", err)
		}

		outcome := domain.TradeOutcome{}
		if result != nil {
			outcome.Result = *result
		}
		if pnl != nil {
			outcome.PNL = *pnl
		}
		outcomes[playbookID] = append(outcomes[playbookID], outcome)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade outcomes: %w", err)
	}
	return outcomes, nil
}
