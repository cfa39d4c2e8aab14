package http

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradejournal/internal/delivery/http/dto"
)

func TestRiskFractionRule(t *testing.T) {
	v := NewRequestValidator()

	valid := []float64{0.0001, 0.01, 0.5, 1}
	for _, r := range valid {
		req := dto.CreateAccountRequest{
			Nickname:     "Main Futures",
			Exchange:     "Binance",
			Balance:      1000,
			RiskPerTrade: r,
			MaxRiskDaily: r,
		}
		assert.NoError(t, v.Validate(&req), "risk %v should pass", r)
	}

	invalid := []float64{0, -0.01, 1.0001, 0.00005, 0.12345}
	for _, r := range invalid {
		req := dto.CreateAccountRequest{
			Nickname:     "Main Futures",
			Exchange:     "Binance",
			Balance:      1000,
			RiskPerTrade: r,
			MaxRiskDaily: 0.01,
		}
		assert.Error(t, v.Validate(&req), "risk %v should fail", r)
	}
}

func TestValidator_RequiredFields(t *testing.T) {
	v := NewRequestValidator()

	err := v.Validate(&dto.RegisterRequest{})
	assert.Error(t, err)

	err = v.Validate(&dto.RegisterRequest{
		Username: "trader1",
		Email:    "trader1@example.com",
		Password: "supersecret",
	})
	assert.NoError(t, err)
}
