package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a user-owned capital pool that trades are recorded against.
// Risk fractions are stored as decimals so the <=4-decimal-places rule
// survives the round trip to the database.
type Account struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Nickname     string          `json:"nickname"`
	Exchange     string          `json:"exchange"`
	Balance      decimal.Decimal `json:"balance"`
	RiskPerTrade decimal.Decimal `json:"risk_per_trade"`
	MaxRiskDaily decimal.Decimal `json:"max_risk_daily"`
	IsArchived   bool            `json:"is_archived"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AccountDetail is an account joined with its trade aggregates.
type AccountDetail struct {
	Account
	TotalTrades int64   `json:"total_trade"`
	TotalProfit float64 `json:"total_profit"`
	TotalLoss   float64 `json:"total_lose"`
}
