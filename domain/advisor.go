package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Goal string

const (
	GoalShortTerm             Goal = "short_term_goal"
	GoalLongTermGrowth        Goal = "long_term_growth"
	GoalPassiveIncome         Goal = "passive_income"
	GoalFlexibilityWithSafety Goal = "flexibility_with_safety"
	GoalMaximumReturns        Goal = "maximum_returns"
)

func (g Goal) Text() string {
	switch g {
	case GoalShortTerm:
		return "Short-term savings goal"
	case GoalLongTermGrowth:
		return "Long-term portfolio growth"
	case GoalPassiveIncome:
		return "Steady passive income"
	case GoalFlexibilityWithSafety:
		return "Flexibility with safety"
	case GoalMaximumReturns:
		return "Maximum returns"
	}
	return string(g)
}

// Answers collects what the onboarding questionnaire has learned so far.
type Answers struct {
	Goal           Goal                `json:"goal,omitempty"`
	Initial        decimal.Decimal     `json:"initial"`
	Frequency      string              `json:"frequency,omitempty"`
	Liquidity      bool                `json:"liquidity"`
	WithdrawAmount decimal.NullDecimal `json:"withdraw_amount"`
	WithdrawMonth  *int                `json:"withdraw_month,omitempty"`
	TermMonths     int                 `json:"term_months"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AdvisorSession struct {
	ID        string        `json:"id"`
	Step      int           `json:"step"`
	Answers   Answers       `json:"answers"`
	History   []ChatMessage `json:"history"`
	Complete  bool          `json:"complete"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type AdvisorRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type OnboardingReply struct {
	SessionID      string           `json:"session_id"`
	Reply          string           `json:"reply"`
	Step           int              `json:"step"`
	TotalSteps     int              `json:"total_steps"`
	Complete       bool             `json:"complete"`
	Recommendation Product          `json:"recommendation,omitempty"`
	Outcomes       *ProductOutcomes `json:"outcomes,omitempty"`
}

type ChatReply struct {
	SessionID string        `json:"session_id"`
	Reply     string        `json:"reply"`
	History   []ChatMessage `json:"history"`
}
