package service

import "github.com/shopspring/decimal"

const (
	// Fallback chat illustrates one flex break at this month.
	FallbackWithdrawMonth = 6

	// Only the latest messages are sent to the model.
	MaxHistoryForLLM = 20

	// Messages kept per session; older ones are dropped on save.
	MaxSessionHistory = 200
)

var (
	// The fallback break is min(FallbackWithdrawCap, FallbackWithdrawShare * deposit).
	FallbackWithdrawCap   = decimal.NewFromInt(2000)
	FallbackWithdrawShare = decimal.RequireFromString("0.4")
)
