// Package risk holds the pure trade math: planned and realized
// risk-reward, risk amount, duration, and outcome classification.
// No I/O, no clock, fully deterministic.
package risk

import (
	"math"
	"time"

	"tradejournal/internal/domain"
)

// beEpsilon is the zero band for classifying raw pnl as break-even.
const beEpsilon = 1e-6

// resultThreshold is the rr_actual band inside which a closed trade
// counts as break-even.
const resultThreshold = 0.1

// RiskReward returns |entry-sl| / |tp-entry|, or nil when either the
// stop loss or take profit is absent. A take profit equal to entry
// leaves the ratio undefined, so that also yields nil.
func RiskReward(entryPrice float64, slPrice, tpPrice *float64) *float64 {
	if tpPrice == nil || slPrice == nil {
		return nil
	}

	reward := math.Abs(*tpPrice - entryPrice)
	if reward == 0 {
		return nil
	}

	rr := math.Abs(entryPrice-*slPrice) / reward
	return &rr
}

// RiskAmount returns |entry-sl| * size, or nil when the stop loss is
// absent or the unit risk is not positive.
func RiskAmount(entryPrice float64, slPrice *float64, positionSize float64) *float64 {
	if slPrice == nil {
		return nil
	}

	riskUnit := math.Abs(entryPrice - *slPrice)
	if riskUnit <= 0 {
		return nil
	}

	amount := riskUnit * positionSize
	return &amount
}

// RiskRewardActual returns pnl / riskAmount, or nil when the risk
// amount is absent or not positive.
func RiskRewardActual(pnl float64, riskAmount *float64) *float64 {
	if riskAmount == nil || *riskAmount <= 0 {
		return nil
	}

	rr := pnl / *riskAmount
	return &rr
}

// TradeDuration returns whole seconds between entry and exit. The
// lifecycle service guarantees exit >= entry before calling.
func TradeDuration(entryTime, exitTime time.Time) int64 {
	return int64(math.Floor(exitTime.Sub(entryTime).Seconds()))
}

// ClassifyResult buckets a closed trade into Win/Lose/BE. With a known
// rr_actual the 0.1 threshold band decides; without one the raw pnl
// sign decides, with a near-zero band counting as break-even.
func ClassifyResult(pnl float64, rrActual *float64) domain.TradeResult {
	if rrActual == nil {
		if math.Abs(pnl) < beEpsilon {
			return domain.ResultBE
		}
		if pnl > 0 {
			return domain.ResultWin
		}
		return domain.ResultLose
	}

	if *rrActual > resultThreshold {
		return domain.ResultWin
	}
	if *rrActual < -resultThreshold {
		return domain.ResultLose
	}
	return domain.ResultBE
}
