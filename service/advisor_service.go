package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"smartsaver/domain"
	"smartsaver/metrics"
	"smartsaver/repository"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	simulateToolName = "simulate_returns"
)

const systemPrompt = `You are SmartSaver Advisor.
Use the TRUTH config below. Do NOT invent rates/terms.
Ask up to 5 onboarding questions (amount, frequency, liquidity, withdrawal estimate, goal),
then recommend Locked Vault / Flex Vault / Main Account, and simulate results (illustrative only).
TRUTH:
%s`

var simulateTool = Tool{
	Type: "function",
	Function: FunctionDef{
		Name:        simulateToolName,
		Description: "Simulate returns for flex, locked, or main",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"product": {"type": "string", "enum": ["flex", "locked", "main"]},
				"initial": {"type": "number"},
				"term_months": {"type": "integer"},
				"topups": {"type": "array", "items": {"type": "object", "properties": {"month": {"type": "integer"}, "amount": {"type": "number"}}}},
				"withdrawals": {"type": "array", "items": {"type": "object", "properties": {"month": {"type": "integer"}, "amount": {"type": "number"}}}}
			},
			"required": ["product", "initial", "term_months"]
		}`),
	},
}

type simulateArgs struct {
	Product     string              `json:"product"`
	Initial     decimal.Decimal     `json:"initial"`
	TermMonths  int                 `json:"term_months"`
	TopUps      []domain.TopUp      `json:"topups"`
	Withdrawals []domain.Withdrawal `json:"withdrawals"`
}

// AdvisorService drives the onboarding questionnaire and the free-form chat.
type AdvisorService struct {
	savings  *SavingsService
	ai       *AIService
	sessions repository.SessionRepository
	now      func() time.Time
}

func NewAdvisorService(savings *SavingsService, ai *AIService, sessions repository.SessionRepository) *AdvisorService {
	return &AdvisorService{
		savings:  savings,
		ai:       ai,
		sessions: sessions,
		now:      time.Now,
	}
}

func (s *AdvisorService) loadSession(ctx context.Context, id string) (domain.AdvisorSession, error) {
	if id != "" {
		session, found, err := s.sessions.Get(ctx, id)
		if err != nil {
			return domain.AdvisorSession{}, fmt.Errorf("load session: %w", err)
		}
		if found {
			return session, nil
		}
	}
	return s.newSession(), nil
}

func (s *AdvisorService) newSession() domain.AdvisorSession {
	return domain.AdvisorSession{ID: uuid.NewString(), UpdatedAt: s.now()}
}

func (s *AdvisorService) saveSession(ctx context.Context, session domain.AdvisorSession) error {
	session.UpdatedAt = s.now()
	if n := len(session.History); n > MaxSessionHistory {
		session.History = session.History[n-MaxSessionHistory:]
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *AdvisorService) prompt(step int) string {
	if step >= len(questions) {
		return completedPrompt
	}
	q := questions[step]
	if q.kind == askTerm {
		terms := s.savings.Rates().Terms
		return fmt.Sprintf(q.prompt, terms.MinMonths, terms.MaxMonths)
	}
	return q.prompt
}

// Onboard feeds one answer into the questionnaire. An empty message only
// returns the pending question; "restart" starts over.
func (s *AdvisorService) Onboard(ctx context.Context, sessionID, text string) (domain.OnboardingReply, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return domain.OnboardingReply{}, err
	}

	text = strings.TrimSpace(text)
	var reply string
	var outcomes *domain.ProductOutcomes
	var rec domain.Product

	switch {
	case strings.EqualFold(text, "restart"):
		id := session.ID
		session = s.newSession()
		session.ID = id
		reply = s.prompt(0)
	case text == "":
		reply = s.prompt(session.Step)
	case session.Complete:
		session.History = append(session.History, domain.ChatMessage{Role: roleUser, Content: text})
		reply = completedPrompt
	default:
		session.History = append(session.History, domain.ChatMessage{Role: roleUser, Content: text})
		if problem := s.answer(&session, text); problem != "" {
			reply = problem
			break
		}
		session.Step++
		if session.Step < len(questions) {
			reply = s.prompt(session.Step)
			break
		}

		all, err := s.savings.SimulateAll(ctx, planInput(session.Answers))
		if err != nil {
			slog.Warn("onboarding simulation failed", "session_id", session.ID, "error", err)
			metrics.AdvisorReplies.WithLabelValues("onboarding", "error").Inc()
			session.Step--
			reply = fmt.Sprintf("Could not run simulation: %v", err)
			break
		}
		rec = RecommendProduct(session.Answers)
		outcomes = &all
		session.Complete = true
		reply = planSummary(session.Answers, all, rec)
	}

	if text != "" && !strings.EqualFold(text, "restart") {
		session.History = append(session.History, domain.ChatMessage{Role: roleAssistant, Content: reply})
	}
	if err := s.saveSession(ctx, session); err != nil {
		return domain.OnboardingReply{}, err
	}
	metrics.AdvisorReplies.WithLabelValues("onboarding", "success").Inc()

	step := session.Step + 1
	if step > len(questions) {
		step = len(questions)
	}
	return domain.OnboardingReply{
		SessionID:      session.ID,
		Reply:          reply,
		Step:           step,
		TotalSteps:     len(questions),
		Complete:       session.Complete,
		Recommendation: rec,
		Outcomes:       outcomes,
	}, nil
}

// answer records text against the pending question and returns a
// correction message when it cannot be accepted.
func (s *AdvisorService) answer(session *domain.AdvisorSession, text string) string {
	a := &session.Answers
	switch questions[session.Step].kind {
	case askGoal:
		a.Goal = ClassifyGoal(text)
	case askInitial:
		v, err := ParseAmount(text)
		if err != nil || !v.IsPositive() {
			return "Please enter a positive number like 5000."
		}
		if err := s.savings.CheckInitial(v); err != nil {
			return fmt.Sprintf("Please enter an amount up to %s.", formatEUR(s.savings.MaxInitial()))
		}
		a.Initial = v
	case askFrequency:
		a.Frequency = text
	case askLiquidity:
		v, ok := ParseYesNo(text)
		if !ok {
			return "Please answer yes or no."
		}
		a.Liquidity = v
	case askWithdraw:
		a.WithdrawAmount, a.WithdrawMonth = ParseWithdrawal(text)
	case askTerm:
		terms := s.savings.Rates().Terms
		months, err := ParseTerm(text, terms)
		if err != nil {
			return fmt.Sprintf("Please enter an integer between %d and %d (e.g., %d).",
				terms.MinMonths, terms.MaxMonths, terms.MinMonths)
		}
		a.TermMonths = months
	}
	return ""
}

// Chat answers a free-form message. It uses the language model when one is
// configured and falls back to a scripted reply otherwise or on failure.
func (s *AdvisorService) Chat(ctx context.Context, sessionID, text string) (domain.ChatReply, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return domain.ChatReply{}, err
	}

	var reply string
	if s.ai.Enabled() {
		reply, err = s.llmReply(ctx, session.History, text)
		if err != nil {
			slog.Warn("AI chat failed, using scripted reply", "session_id", session.ID, "error", err)
			metrics.AdvisorReplies.WithLabelValues("llm", "error").Inc()
		} else {
			metrics.AdvisorReplies.WithLabelValues("llm", "success").Inc()
		}
	}
	if reply == "" {
		reply = s.fallbackReply(ctx, text)
		metrics.AdvisorReplies.WithLabelValues("fallback", "success").Inc()
	}

	session.History = append(session.History,
		domain.ChatMessage{Role: roleUser, Content: text},
		domain.ChatMessage{Role: roleAssistant, Content: reply},
	)
	if err := s.saveSession(ctx, session); err != nil {
		return domain.ChatReply{}, err
	}

	return domain.ChatReply{SessionID: session.ID, Reply: reply, History: session.History}, nil
}

func (s *AdvisorService) fallbackReply(ctx context.Context, text string) string {
	nums := numberPattern.FindAllString(strings.ReplaceAll(text, "€", ""), -1)
	if len(nums) == 0 {
		return "Let's set up your plan. How much would you like to invest initially? (e.g., 5000). Illustrative only."
	}
	initial, err := ParseAmount(nums[0])
	if err != nil {
		return "Let's set up your plan. How much would you like to invest initially? (e.g., 5000). Illustrative only."
	}

	term := s.savings.Rates().Terms.MinMonths
	amount := decimal.Min(FallbackWithdrawCap, decimal.Max(decimal.Zero, initial.Mul(FallbackWithdrawShare)))

	flexInput := domain.FlexInput{Initial: initial, TermMonths: term}
	if amount.IsPositive() {
		flexInput.Withdrawals = []domain.Withdrawal{{Month: FallbackWithdrawMonth, Amount: amount}}
	}

	flex, err := s.savings.SimulateFlex(ctx, flexInput)
	if err != nil {
		return fmt.Sprintf("I couldn't simulate that amount: %v", err)
	}
	locked, err := s.savings.SimulateLocked(ctx, domain.SimpleInput{Initial: initial, TermMonths: term})
	if err != nil {
		return fmt.Sprintf("I couldn't simulate that amount: %v", err)
	}

	return fmt.Sprintf("Illustrative only.\n\n"+
		"Flex (break once @ m%d): interest ≈ €%s\n"+
		"Locked (%dm): interest ≈ €%s\n\n"+
		"If you'd like, tell me a withdrawal amount and month, e.g. 'withdraw 1500 in month 8'.",
		FallbackWithdrawMonth, flex.InterestAccrued.StringFixed(2), term, locked.InterestAccrued.StringFixed(2))
}

func (s *AdvisorService) llmReply(ctx context.Context, history []domain.ChatMessage, text string) (string, error) {
	truth, err := json.MarshalIndent(s.savings.Rates(), "", "  ")
	if err != nil {
		return "", err
	}

	if len(history) > MaxHistoryForLLM {
		history = history[len(history)-MaxHistoryForLLM:]
	}
	msgs := make([]Message, 0, len(history)+4)
	msgs = append(msgs, Message{Role: "system", Content: fmt.Sprintf(systemPrompt, truth)})
	for _, h := range history {
		msgs = append(msgs, Message{Role: h.Role, Content: h.Content})
	}
	msgs = append(msgs, Message{Role: roleUser, Content: text})

	msg, err := s.ai.Complete(ctx, msgs, []Tool{simulateTool})
	if err != nil {
		return "", err
	}
	if len(msg.ToolCalls) == 0 || msg.ToolCalls[0].Function.Name != simulateToolName {
		return msg.Content, nil
	}

	call := msg.ToolCalls[0]
	msgs = append(msgs,
		Message{Role: roleAssistant, ToolCalls: msg.ToolCalls},
		Message{Role: "tool", ToolCallID: call.ID, Name: simulateToolName, Content: s.runTool(ctx, call.Function.Arguments)},
	)

	final, err := s.ai.Complete(ctx, msgs, nil)
	if err != nil {
		return "", err
	}
	return final.Content, nil
}

// runTool executes a simulate_returns call and encodes its result, or the
// error, as the tool message content.
func (s *AdvisorService) runTool(ctx context.Context, arguments string) string {
	encode := func(v any) string {
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf(`{"error": %q}`, err.Error())
		}
		return string(out)
	}

	var args simulateArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return encode(map[string]string{"error": "invalid arguments: " + err.Error()})
	}
	product, err := domain.ParseProduct(args.Product)
	if err != nil {
		return encode(map[string]string{"error": err.Error()})
	}

	input := domain.FlexInput{Initial: args.Initial, TermMonths: args.TermMonths}
	if product == domain.ProductFlex {
		input.TopUps, input.Withdrawals = args.TopUps, args.Withdrawals
	}
	result, err := s.savings.Simulate(ctx, product, input)
	if err != nil {
		return encode(map[string]string{"error": err.Error()})
	}
	return encode(result)
}
