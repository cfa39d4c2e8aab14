package dto

// CreateAccountRequest represents the capital-pool creation payload.
// Risk fractions use the riskfraction rule: 0 < r <= 1 with at most
// four decimal places.
type CreateAccountRequest struct {
	Nickname     string  `json:"nickname" validate:"required,min=3,max=100"`
	Exchange     string  `json:"exchange" validate:"required,min=1,max=50"`
	Balance      float64 `json:"balance" validate:"gte=0,lte=10000000000"`
	RiskPerTrade float64 `json:"risk_per_trade" validate:"required,riskfraction"`
	MaxRiskDaily float64 `json:"max_risk_daily" validate:"required,riskfraction"`
}

// UpdateAccountRequest carries partial account changes; nil means
// leave the field untouched
type UpdateAccountRequest struct {
	Nickname     *string  `json:"nickname,omitempty" validate:"omitempty,min=3,max=100"`
	Exchange     *string  `json:"exchange,omitempty" validate:"omitempty,min=1,max=50"`
	Balance      *float64 `json:"balance,omitempty" validate:"omitempty,gte=0,lte=10000000000"`
	RiskPerTrade *float64 `json:"risk_per_trade,omitempty" validate:"omitempty,riskfraction"`
	MaxRiskDaily *float64 `json:"max_risk_daily,omitempty" validate:"omitempty,riskfraction"`
}

// ListQuery is the shared pagination query for listings
type ListQuery struct {
	Page int `query:"page" validate:"omitempty,min=1"`
	Size int `query:"size" validate:"omitempty,min=1,max=50"`
}

// Normalize applies listing defaults
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 10
	}
}
