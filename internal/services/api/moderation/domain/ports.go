package domain

import (
	"context"

	"trustrank/internal/core/fraud"
	"trustrank/internal/core/moderation"
	"trustrank/internal/core/sentiment"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Analyze(ctx context.Context, in AnalyzeInput) (sentiment.Result, error)
	Fraud(ctx context.Context, in FraudInput) (fraud.Signal, error)
	Moderate(ctx context.Context, in ModerateInput) (moderation.Decision, error)
}
