package risk

import (
	"math"

	"tradejournal/internal/domain"
)

// PlaybookStats aggregates closed-trade outcomes: winrate as a
// percentage of total trades and profit factor as gross profit over
// gross loss (0 when there are no losses).
func PlaybookStats(outcomes []domain.TradeOutcome) domain.PlaybookStats {
	total := len(outcomes)

	var wins int
	var grossProfit, grossLoss float64

	for _, o := range outcomes {
		if o.Result == domain.ResultWin {
			wins++
		}
		if o.PNL > 0 {
			grossProfit += o.PNL
		}
		if o.PNL < 0 {
			grossLoss += math.Abs(o.PNL)
		}
	}

	stats := domain.PlaybookStats{TotalTrades: total}
	if total > 0 {
		stats.Winrate = float64(wins) / float64(total) * 100
	}
	if grossLoss > 0 {
		stats.ProfitFactor = grossProfit / grossLoss
	}

	return stats
}
