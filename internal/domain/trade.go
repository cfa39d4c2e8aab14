package domain

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus is the trade lifecycle state. Running closes into Closed;
// there is no reopen path.
type TradeStatus string

const (
	StatusRunning TradeStatus = "Running"
	StatusClosed  TradeStatus = "Closed"
)

// PositionType is the trade direction
type PositionType string

const (
	PositionLong  PositionType = "Long"
	PositionShort PositionType = "Short"
)

// TradeResult classifies a closed trade's outcome
type TradeResult string

const (
	ResultWin  TradeResult = "Win"
	ResultLose TradeResult = "Lose"
	ResultBE   TradeResult = "BE"
)

// Trade is a single recorded position with entry/exit and derived risk metrics.
// RiskReward and RiskAmount are recomputed whenever a price/size input changes
// while the trade is Running; TradeDuration, RRActual, and Result are set once,
// at close time.
type Trade struct {
	ID            uuid.UUID     `json:"id"`
	AccountID     uuid.UUID     `json:"account_id"`
	Pair          string        `json:"pair"`
	Position      PositionType  `json:"position"`
	EntryPrice    float64       `json:"entry_price"`
	PositionSize  float64       `json:"position_size"`
	EntryTime     time.Time     `json:"entry_time"`
	TPPrice       *float64      `json:"tp_price,omitempty"`
	SLPrice       *float64      `json:"sl_price,omitempty"`
	ExitPrice     *float64      `json:"exit_price,omitempty"`
	ExitTime      *time.Time    `json:"exit_time,omitempty"`
	PNL           *float64      `json:"pnl,omitempty"`
	RiskReward    *float64      `json:"risk_reward,omitempty"`
	RiskAmount    *float64      `json:"risk_amount,omitempty"`
	TradeDuration *int64        `json:"trade_duration,omitempty"`
	RRActual      *float64      `json:"rr_actual,omitempty"`
	Result        *TradeResult  `json:"trade_result,omitempty"`
	Status        TradeStatus   `json:"status"`
	Notes         *string       `json:"notes,omitempty"`
	LinkImg       *string       `json:"link_img,omitempty"`
	Playbooks     []PlaybookRef `json:"playbooks,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PlaybookRef is the playbook slice embedded in trade responses.
type PlaybookRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// IsRunning reports whether the trade still accepts market-field mutations.
func (t *Trade) IsRunning() bool {
	return t.Status == StatusRunning
}

// TradeFilter narrows an account's trade listing.
type TradeFilter struct {
	Status *TradeStatus
	Search string
	From   *time.Time
	To     *time.Time
	Page   int
	Size   int
}

// Offset returns the row offset for the filter's page.
func (f TradeFilter) Offset() int {
	return (f.Page - 1) * f.Size
}
