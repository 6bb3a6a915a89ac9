package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sampurna-d/budget-buddy/internal/finance"
	"github.com/sampurna-d/budget-buddy/internal/logging"
)

const instrumentationName = "github.com/sampurna-d/budget-buddy/internal/insight"

// Completion parameters per operation.
const (
	categorizeTemperature = 0.3
	categorizeMaxTokens   = 10
	analyzeTemperature    = 0.7
	analyzeMaxTokens      = 500
	generateMaxTokens     = 120
)

// Service is the categorization and insight engine. Operations never return
// errors: a failed remote call degrades to a deterministic local fallback.
type Service interface {
	// CategorizeTransaction assigns a budget category to a transaction.
	CategorizeTransaction(ctx context.Context, description string, amount decimal.Decimal) finance.Category

	// AnalyzeSpendingPatterns summarizes spending from the current snapshot.
	AnalyzeSpendingPatterns(ctx context.Context, transactions []finance.Transaction, budgets []finance.Budget) finance.SpendingPattern

	// GenerateNotificationContent drafts notification copy for the given kind.
	GenerateNotificationContent(ctx context.Context, pattern finance.SpendingPattern, budgets []finance.Budget, kind Kind) string
}

// service implements the Service interface.
type service struct {
	completer Completer
	logger    *logging.Logger

	// Telemetry
	tracer          trace.Tracer
	meter           metric.Meter
	fallbackCounter metric.Int64Counter
}

// NewService creates the insight engine.
func NewService(completer Completer, logger *logging.Logger) (Service, error) {
	if completer == nil {
		return nil, errors.New("completer is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &service{
		completer: completer,
		logger:    logger.Named("insight"),
		tracer:    otel.Tracer(instrumentationName),
		meter:     otel.Meter(instrumentationName),
	}
	s.initMetrics()

	return s, nil
}

// initMetrics initializes OpenTelemetry metrics.
func (s *service) initMetrics() {
	var err error
	s.fallbackCounter, err = s.meter.Int64Counter(
		"budgetd.insight.fallbacks_total",
		metric.WithDescription("Completion calls that degraded to the local fallback"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		s.logger.Underlying().Warn("failed to create fallback counter", zap.Error(err))
	}
}

// CategorizeTransaction assigns a budget category via the completion
// endpoint, or the keyword classifier when the call fails.
func (s *service) CategorizeTransaction(ctx context.Context, description string, amount decimal.Decimal) finance.Category {
	ctx, span := s.tracer.Start(ctx, "insight.categorize")
	defer span.End()

	text, err := s.completer.Complete(ctx, CompletionRequest{
		System:      fmt.Sprintf(categorizePrompt, categoryList()),
		User:        buildCategorizeUser(description, amount),
		Temperature: categorizeTemperature,
		MaxTokens:   categorizeMaxTokens,
	})
	if err != nil {
		s.recordFallback(ctx, span, "categorize", err)
		return ClassifyKeywords(description)
	}

	answer := strings.TrimSpace(text)
	if finance.ValidCategory(answer) {
		span.SetAttributes(attribute.String("category", answer))
		return finance.Category(answer)
	}
	return finance.CategoryOther
}

// AnalyzeSpendingPatterns asks the completion endpoint for a pattern
// summary; a malformed response takes the same fallback path as a network
// failure.
func (s *service) AnalyzeSpendingPatterns(ctx context.Context, transactions []finance.Transaction, budgets []finance.Budget) finance.SpendingPattern {
	ctx, span := s.tracer.Start(ctx, "insight.analyze")
	defer span.End()
	span.SetAttributes(
		attribute.Int("transaction_count", len(transactions)),
		attribute.Int("budget_count", len(budgets)),
	)

	text, err := s.completer.Complete(ctx, CompletionRequest{
		System:      fmt.Sprintf(analyzePrompt, categoryList()),
		User:        buildAnalyzeUser(transactions, budgets),
		Temperature: analyzeTemperature,
		MaxTokens:   analyzeMaxTokens,
	})
	if err == nil {
		var pattern finance.SpendingPattern
		if pattern, err = parsePattern(text); err == nil {
			return pattern
		}
	}

	s.recordFallback(ctx, span, "analyze", err)
	return fallbackPattern(transactions, budgets)
}

// GenerateNotificationContent drafts copy for a notification, falling back
// to a fixed string per kind.
func (s *service) GenerateNotificationContent(ctx context.Context, pattern finance.SpendingPattern, budgets []finance.Budget, kind Kind) string {
	ctx, span := s.tracer.Start(ctx, "insight.generate")
	defer span.End()
	span.SetAttributes(attribute.String("kind", string(kind)))

	text, err := s.completer.Complete(ctx, CompletionRequest{
		System:    generatePrompt,
		User:      buildGenerateUser(pattern, budgets, kind),
		MaxTokens: generateMaxTokens,
	})
	if err != nil {
		s.recordFallback(ctx, span, "generate", err)
		return FallbackCopy(kind)
	}

	if trimmed := strings.TrimSpace(text); trimmed != "" {
		return trimmed
	}
	return FallbackCopy(kind)
}

// recordFallback logs one sanitized warning line and bumps the fallback
// counter. Rate-limit errors get a dedicated message.
func (s *service) recordFallback(ctx context.Context, span trace.Span, operation string, err error) {
	span.SetAttributes(attribute.Bool("fallback", true))
	span.RecordError(err)

	if errors.Is(err, ErrRateLimited) {
		s.logger.Warn(ctx, "completion endpoint rate limited, using local fallback",
			zap.String("operation", operation))
	} else {
		s.logger.Warn(ctx, "completion call failed, using local fallback",
			zap.String("operation", operation),
			zap.String("error", logging.SanitizeError(err)))
	}

	if s.fallbackCounter != nil {
		s.fallbackCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
		))
	}
}
