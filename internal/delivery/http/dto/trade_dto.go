package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTradeRequest represents the trade execution payload. The
// account id comes from the route, not the body.
type CreateTradeRequest struct {
	Pair         string      `json:"pair" validate:"required,min=3,max=50"`
	Position     string      `json:"position" validate:"required,oneof=Long Short"`
	EntryPrice   float64     `json:"entry_price" validate:"required,gt=0,lte=10000000000"`
	PositionSize float64     `json:"position_size" validate:"required,gt=0,lte=100000000"`
	EntryTime    time.Time   `json:"entry_time" validate:"required"`
	TPPrice      *float64    `json:"tp_price,omitempty" validate:"omitempty,gte=0,lte=10000000000"`
	SLPrice      *float64    `json:"sl_price,omitempty" validate:"omitempty,gte=0,lte=10000000000"`
	Notes        *string     `json:"notes,omitempty" validate:"omitempty,min=1,max=2000"`
	LinkImg      *string     `json:"link_img,omitempty" validate:"omitempty,url,max=500"`
	PlaybookIDs  []uuid.UUID `json:"playbook_ids"`
}

// CloseTradeRequest represents the close payload for a running trade
type CloseTradeRequest struct {
	ExitPrice float64   `json:"exit_price" validate:"required,gte=0,lte=10000000000"`
	ExitTime  time.Time `json:"exit_time" validate:"required"`
	PNL       float64   `json:"pnl" validate:"gte=-10000000000,lte=10000000000"`
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,min=1,max=2000"`
	LinkImg   *string   `json:"link_img,omitempty" validate:"omitempty,max=500"`
}

// UpdateTradeRequest carries partial trade changes; nil means leave the
// field untouched. A nil PlaybookIDs keeps existing links, an empty
// slice clears them.
type UpdateTradeRequest struct {
	Pair         *string      `json:"pair,omitempty" validate:"omitempty,min=3,max=50"`
	Position     *string      `json:"position,omitempty" validate:"omitempty,oneof=Long Short"`
	EntryPrice   *float64     `json:"entry_price,omitempty" validate:"omitempty,gt=0,lte=10000000000"`
	PositionSize *float64     `json:"position_size,omitempty" validate:"omitempty,gt=0,lte=100000000"`
	EntryTime    *time.Time   `json:"entry_time,omitempty"`
	TPPrice      *float64     `json:"tp_price,omitempty" validate:"omitempty,gte=0,lte=10000000000"`
	SLPrice      *float64     `json:"sl_price,omitempty" validate:"omitempty,gte=0,lte=10000000000"`
	Notes        *string      `json:"notes,omitempty" validate:"omitempty,min=1,max=2000"`
	LinkImg      *string      `json:"link_img,omitempty" validate:"omitempty,max=500"`
	PlaybookIDs  *[]uuid.UUID `json:"playbook_ids,omitempty"`
}

// TradeListQuery filters an account's trade listing
type TradeListQuery struct {
	Status string     `query:"status" validate:"omitempty,oneof=Running Closed"`
	Search string     `query:"search" validate:"omitempty,min=1"`
	From   *time.Time `query:"from"`
	To     *time.Time `query:"to"`
	Page   int        `query:"page" validate:"omitempty,min=1"`
	Size   int        `query:"size" validate:"omitempty,min=1,max=50"`
}

// Normalize applies listing defaults
func (q *TradeListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 10
	}
}
