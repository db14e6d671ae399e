package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"smartsaver/calculations"
	"smartsaver/config"
	"smartsaver/domain"
	"smartsaver/metrics"
	"smartsaver/validators"
)

var ErrValidation = errors.New("invalid parameters")

type SavingsService struct {
	cfg    *config.Config
	rates  domain.Rates
	tracer trace.Tracer
}

// NewSavingsService creates a SavingsService that reads APRs from rates.
func NewSavingsService(cfg *config.Config, rates domain.Rates, tracer trace.Tracer) *SavingsService {
	return &SavingsService{cfg: cfg, rates: rates, tracer: tracer}
}

// Rates returns the rates table the service simulates with.
func (s *SavingsService) Rates() domain.Rates {
	return s.rates
}

// CheckInitial reports whether initial is an acceptable opening deposit.
func (s *SavingsService) CheckInitial(initial decimal.Decimal) error {
	return validators.CheckInitial(s.cfg, initial)
}

// MaxInitial is the largest opening deposit the service accepts.
func (s *SavingsService) MaxInitial() decimal.Decimal {
	return s.cfg.MaxInitialAmount()
}

// SimulateFlex runs the flex vault with the configured flex APR.
func (s *SavingsService) SimulateFlex(ctx context.Context, input domain.FlexInput) (domain.SimulationResult, error) {
	return s.Simulate(ctx, domain.ProductFlex, input)
}

// SimulateLocked runs the locked vault with the configured locked APR.
func (s *SavingsService) SimulateLocked(ctx context.Context, input domain.SimpleInput) (domain.SimulationResult, error) {
	return s.Simulate(ctx, domain.ProductLocked, domain.FlexInput{Initial: input.Initial, TermMonths: input.TermMonths})
}

// SimulateMain runs the main account with the configured main APR.
func (s *SavingsService) SimulateMain(ctx context.Context, input domain.SimpleInput) (domain.SimulationResult, error) {
	return s.Simulate(ctx, domain.ProductMain, domain.FlexInput{Initial: input.Initial, TermMonths: input.TermMonths})
}

// Simulate validates input and runs the simulator for product. Top-ups and
// withdrawals are only accepted for the flex vault.
func (s *SavingsService) Simulate(ctx context.Context, product domain.Product, input domain.FlexInput) (domain.SimulationResult, error) {
	ctx, span := s.tracer.Start(ctx, "simulate_"+string(product))
	defer span.End()

	span.SetAttributes(
		attribute.String("product", string(product)),
		attribute.String("initial", input.Initial.String()),
		attribute.Int("term_months", input.TermMonths),
		attribute.Int("topups", len(input.TopUps)),
		attribute.Int("withdrawals", len(input.Withdrawals)),
	)

	start := time.Now()
	result, err := s.simulate(product, input)
	metrics.SimulationDuration.WithLabelValues(string(product)).Observe(time.Since(start).Seconds())

	if err != nil {
		status := "error"
		if errors.Is(err, ErrValidation) {
			status = "validation_error"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		metrics.SimulationCalls.WithLabelValues(string(product), status).Inc()
		return domain.SimulationResult{}, err
	}

	span.SetAttributes(
		attribute.String("final_balance", result.FinalBalance.String()),
		attribute.String("interest_accrued", result.InterestAccrued.String()),
	)
	metrics.SimulationCalls.WithLabelValues(string(product), "success").Inc()
	return result, nil
}

func (s *SavingsService) simulate(product domain.Product, input domain.FlexInput) (domain.SimulationResult, error) {
	apr, err := s.rates.APR(product)
	if err != nil {
		return domain.SimulationResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.validate(product, input, apr); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var result domain.SimulationResult
	switch product {
	case domain.ProductFlex:
		result, err = calculations.SimulateFlex(input.Initial, input.TermMonths, apr, input.TopUps, input.Withdrawals)
	case domain.ProductLocked:
		result, err = calculations.SimulateLocked(input.Initial, input.TermMonths, apr)
	default:
		result, err = calculations.SimulateMain(input.Initial, input.TermMonths, apr)
	}
	if err != nil {
		return domain.SimulationResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return result, nil
}

func (s *SavingsService) validate(product domain.Product, input domain.FlexInput, apr decimal.Decimal) error {
	if err := s.CheckInitial(input.Initial); err != nil {
		return err
	}
	if err := validators.CheckTermMonths(s.cfg, input.TermMonths); err != nil {
		return err
	}
	if err := validators.CheckRate(apr); err != nil {
		return err
	}
	if product != domain.ProductFlex {
		if len(input.TopUps) > 0 || len(input.Withdrawals) > 0 {
			return fmt.Errorf("%s does not accept top-ups or withdrawals", product.Label())
		}
		return nil
	}
	return validators.CheckEvents(s.cfg, input.TopUps, input.Withdrawals)
}

// SimulateAll runs the same plan against every product concurrently. Only
// the flex simulation sees the plan's top-ups and withdrawals.
func (s *SavingsService) SimulateAll(ctx context.Context, input domain.FlexInput) (domain.ProductOutcomes, error) {
	var outcomes domain.ProductOutcomes
	fixed := domain.SimpleInput{Initial: input.Initial, TermMonths: input.TermMonths}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		outcomes.Flex, err = s.SimulateFlex(gctx, input)
		return err
	})
	g.Go(func() error {
		var err error
		outcomes.Locked, err = s.SimulateLocked(gctx, fixed)
		return err
	})
	g.Go(func() error {
		var err error
		outcomes.Main, err = s.SimulateMain(gctx, fixed)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.ProductOutcomes{}, err
	}
	return outcomes, nil
}
