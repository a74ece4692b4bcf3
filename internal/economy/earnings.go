// Package economy implements the computing-power economy: the proportional
// A-coin payout calculator and the level progression rules. Everything here
// is a pure function of its inputs.
package economy

import (
	"errors"
	"math"
)

var (
	ErrZeroNetworkPower = errors.New("total network computing power must be positive")
	ErrNegativeInput    = errors.New("computing power and reward pool cannot be negative")
)

type Earnings struct {
	UserShare      float64 `json:"user_share"`
	DailyEarning   float64 `json:"daily_earning"`
	HourlyEarning  float64 `json:"hourly_earning"`
	MonthlyEarning float64 `json:"monthly_earning"`
}

// round2 rounds half-up to 2 decimal places.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// CalculateEarnings maps a user's share of the network computing power to
// the periodic A-coin payout from the daily reward pool.
func CalculateEarnings(userPower, totalNetworkPower, dailyRewardPool float64) (*Earnings, error) {
	if totalNetworkPower <= 0 {
		return nil, ErrZeroNetworkPower
	}
	if userPower < 0 || dailyRewardPool < 0 {
		return nil, ErrNegativeInput
	}

	share := userPower / totalNetworkPower
	daily := dailyRewardPool * share

	return &Earnings{
		UserShare:      share,
		DailyEarning:   round2(daily),
		HourlyEarning:  round2(daily / 24),
		MonthlyEarning: round2(daily * 30),
	}, nil
}
