package service

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"smartsaver/domain"
	"smartsaver/validators"
)

var numberPattern = regexp.MustCompile(`\d[\d,\.]*`)

type questionKind int

const (
	askGoal questionKind = iota
	askInitial
	askFrequency
	askLiquidity
	askWithdraw
	askTerm
)

type question struct {
	kind   questionKind
	prompt string
}

var questions = []question{
	{askGoal, "What's your main goal for this vault? Are you saving for something specific like an apartment or wedding, " +
		"want to grow your portfolio, or just earn steady passive income?"},
	{askInitial, "Great! Do you already have an amount in mind that you'd like to invest straight away? (e.g., 1000, 5000)"},
	{askFrequency, "Do you plan to top up your savings regularly, or would this just be a one-time deposit? " +
		"If regularly, how often (monthly, quarterly, etc.) and roughly how much?"},
	{askLiquidity, "How important is flexibility to you? Do you want the option to take money out once during the term if needed? (yes/no)"},
	{askWithdraw, "If you think you might withdraw, do you know how much and around when? " +
		"(e.g., '2000 in month 6' or just type 'none' if not sure)"},
	{askTerm, "And finally, how long do you want to keep the money invested? You can choose anywhere between %d and %d months."},
}

const completedPrompt = "You're all set. Type 'restart' to try another scenario."

var errNotANumber = errors.New("not a number")

// ParseAmount reads a money amount such as "€5,000" or "2500.50".
func ParseAmount(text string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("€", "", ",", "", " ", "").Replace(strings.TrimSpace(text))
	clean = strings.TrimSuffix(clean, ".")
	if clean == "" {
		return decimal.Zero, errNotANumber
	}
	return decimal.NewFromString(clean)
}

// ParseTerm reads a whole number of months within the advertised term range.
func ParseTerm(text string, terms domain.TermLimits) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, errNotANumber
	}
	if err := validators.CheckFinite("term", f); err != nil {
		return 0, err
	}
	months := int(f)
	if f < 0 || f > math.MaxInt32 || !terms.Contains(months) {
		return 0, fmt.Errorf("term %q outside [%d; %d]", strings.TrimSpace(text), terms.MinMonths, terms.MaxMonths)
	}
	return months, nil
}

// ParseYesNo returns ok=false when the answer is neither yes nor no.
func ParseYesNo(text string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "true", "1":
		return true, true
	case "no", "n", "false", "0":
		return false, true
	}
	return false, false
}

// ParseWithdrawal reads answers like "2000 in month 6". The first number is
// the amount and the second, if any, the month. Declining answers yield nothing.
func ParseWithdrawal(text string) (decimal.NullDecimal, *int) {
	t := strings.ToLower(strings.TrimSpace(text))
	switch t {
	case "none", "no", "n", "0", "skip":
		return decimal.NullDecimal{}, nil
	}

	nums := numberPattern.FindAllString(t, -1)
	if len(nums) == 0 {
		return decimal.NullDecimal{}, nil
	}

	var amount decimal.NullDecimal
	if a, err := ParseAmount(nums[0]); err == nil {
		amount = decimal.NewNullDecimal(a)
	}
	if len(nums) < 2 {
		return amount, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.ReplaceAll(nums[1], ",", ""), "."), 64)
	if err != nil || f > math.MaxInt32 {
		return amount, nil
	}
	month := int(f)
	return amount, &month
}

var goalKeywords = []struct {
	goal     domain.Goal
	keywords []string
}{
	{domain.GoalShortTerm, []string{"apartment", "house", "wedding", "holiday", "car"}},
	{domain.GoalLongTermGrowth, []string{"grow", "portfolio", "long term", "retirement", "wealth"}},
	{domain.GoalPassiveIncome, []string{"passive", "income", "side hustle"}},
	{domain.GoalFlexibilityWithSafety, []string{"safe", "safety", "flexibility", "liquid", "access"}},
	{domain.GoalMaximumReturns, []string{"max", "maximum", "returns", "yield"}},
}

// ClassifyGoal maps a free-text goal onto a Goal, defaulting to flexibility with safety.
func ClassifyGoal(text string) domain.Goal {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, g := range goalKeywords {
		for _, k := range g.keywords {
			if strings.Contains(t, k) {
				return g.goal
			}
		}
	}
	return domain.GoalFlexibilityWithSafety
}

// RecommendProduct picks a product from the onboarding answers.
func RecommendProduct(a domain.Answers) domain.Product {
	if a.Liquidity || (a.WithdrawAmount.Valid && a.WithdrawAmount.Decimal.IsPositive()) {
		return domain.ProductFlex
	}
	switch a.Goal {
	case domain.GoalMaximumReturns, domain.GoalLongTermGrowth:
		return domain.ProductLocked
	case domain.GoalShortTerm, domain.GoalPassiveIncome, domain.GoalFlexibilityWithSafety:
		return domain.ProductFlex
	}
	return domain.ProductMain
}

// planInput turns the answers into a simulation request. The withdrawal is
// only included when both its amount and month are known.
func planInput(a domain.Answers) domain.FlexInput {
	input := domain.FlexInput{Initial: a.Initial, TermMonths: a.TermMonths}
	if a.WithdrawAmount.Valid && a.WithdrawMonth != nil {
		if w, err := domain.NewWithdrawal(*a.WithdrawMonth, a.WithdrawAmount.Decimal); err == nil {
			input.Withdrawals = []domain.Withdrawal{w}
		}
	}
	return input
}

var printer = message.NewPrinter(language.English)

func formatEUR(d decimal.Decimal) string {
	f, _ := d.Round(0).Float64()
	return printer.Sprintf("€%.0f", f)
}

func planSummary(a domain.Answers, outcomes domain.ProductOutcomes, rec domain.Product) string {
	withdrawText := "none"
	hasBreak := a.WithdrawAmount.Valid && a.WithdrawAmount.Decimal.IsPositive()
	if hasBreak {
		month := "an unknown month"
		if a.WithdrawMonth != nil {
			month = fmt.Sprintf("month %d", *a.WithdrawMonth)
		}
		withdrawText = fmt.Sprintf("%s at %s", formatEUR(a.WithdrawAmount.Decimal), month)
	}
	liquidity := "no"
	if a.Liquidity {
		liquidity = "yes"
	}
	breakNote := "(no break)"
	if hasBreak && a.WithdrawMonth != nil {
		breakNote = "(with one break)"
	}

	var b strings.Builder
	b.WriteString("Illustrative only.\n\n")
	b.WriteString("**Your plan summary**\n")
	fmt.Fprintf(&b, "- Initial: **%s**\n", formatEUR(a.Initial))
	fmt.Fprintf(&b, "- Term: **%d months**\n", a.TermMonths)
	fmt.Fprintf(&b, "- Frequency: **%s**\n", a.Frequency)
	fmt.Fprintf(&b, "- Liquidity option: **%s**\n", liquidity)
	fmt.Fprintf(&b, "- Withdrawal: **%s**\n", withdrawText)
	fmt.Fprintf(&b, "- Goal: **%s**\n\n", a.Goal.Text())
	b.WriteString("**Simulated outcomes**\n")
	fmt.Fprintf(&b, "- %s: interest ≈ **%s**\n", domain.ProductLocked.Label(), formatEUR(outcomes.Locked.InterestAccrued))
	fmt.Fprintf(&b, "- %s: interest ≈ **%s** %s\n", domain.ProductFlex.Label(), formatEUR(outcomes.Flex.InterestAccrued), breakNote)
	fmt.Fprintf(&b, "- %s: interest ≈ **%s**\n\n", domain.ProductMain.Label(), formatEUR(outcomes.Main.InterestAccrued))
	fmt.Fprintf(&b, "**Recommendation:** **%s** (based on your liquidity need and goal).", rec.Label())
	return b.String()
}
