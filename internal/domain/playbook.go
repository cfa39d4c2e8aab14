package domain

import (
	"time"

	"github.com/google/uuid"
)

// Playbook is a named, reusable trading-strategy tag attachable to many trades.
type Playbook struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaybookStats aggregates closed-trade outcomes under one playbook.
type PlaybookStats struct {
	TotalTrades  int     `json:"total_trades"`
	Winrate      float64 `json:"winrate"`
	ProfitFactor float64 `json:"profit_factor"`
}

// PlaybookDetail is a playbook with its closed-trade statistics.
type PlaybookDetail struct {
	Playbook
	Stats PlaybookStats `json:"stats"`
}

// TradeOutcome is the slice of a closed trade a playbook aggregate needs.
type TradeOutcome struct {
	Result TradeResult
	PNL    float64
}
