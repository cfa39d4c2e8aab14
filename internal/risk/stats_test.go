package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradejournal/internal/domain"
)

func TestPlaybookStatsEmpty(t *testing.T) {
	t.Parallel()

	stats := PlaybookStats(nil)
	assert.Equal(t, 0, stats.TotalTrades)
	assert.Zero(t, stats.Winrate)
	assert.Zero(t, stats.ProfitFactor)
}

func TestPlaybookStats(t *testing.T) {
	t.Parallel()

	outcomes := []domain.TradeOutcome{
		{Result: domain.ResultWin, PNL: 120},
		{Result: domain.ResultWin, PNL: 80},
		{Result: domain.ResultLose, PNL: -50},
		{Result: domain.ResultBE, PNL: 0},
	}

	stats := PlaybookStats(outcomes)
	assert.Equal(t, 4, stats.TotalTrades)
	assert.InDelta(t, 50.0, stats.Winrate, 1e-9)
	assert.InDelta(t, 4.0, stats.ProfitFactor, 1e-9)
}

func TestPlaybookStatsNoLosses(t *testing.T) {
	t.Parallel()

	outcomes := []domain.TradeOutcome{
		{Result: domain.ResultWin, PNL: 40},
	}

	stats := PlaybookStats(outcomes)
	assert.Equal(t, 1, stats.TotalTrades)
	assert.InDelta(t, 100.0, stats.Winrate, 1e-9)
	// no gross loss leaves the factor at zero rather than infinity
	assert.Zero(t, stats.ProfitFactor)
}
