// Package http provides http transport for moderation
package http

import (
	stdhttp "net/http"

	"trustrank/internal/modkit/httpkit"
	"trustrank/internal/services/api/moderation/domain"
	svc "trustrank/internal/services/api/moderation/service"
)

// Register mounts moderation endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.AnalyzeInput](r, "/analyze", h.analyze)
	httpkit.PostJSON[domain.FraudInput](r, "/fraud", h.fraud)
	httpkit.PostJSON[domain.ModerateInput](r, "/moderate", h.moderate)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /moderation/analyze Moderation moderationAnalyze
// @Summary Classify sentiment and toxicity of text
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body domain.AnalyzeInput true "Text"
// @Success 200 {object} sentiment.Result "ok"
// @Router /moderation/analyze [post]
func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	return h.svc.Analyze(r.Context(), in)
}

// swagger:route POST /moderation/fraud Moderation moderationFraud
// @Summary Estimate fraud risk of a user action
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body domain.FraudInput true "Action"
// @Success 200 {object} fraud.Signal "ok"
// @Router /moderation/fraud [post]
func (h *handlers) fraud(r *stdhttp.Request, in domain.FraudInput) (any, error) {
	return h.svc.Fraud(r.Context(), in)
}

// swagger:route POST /moderation/moderate Moderation moderationModerate
// @Summary Moderate a post submission
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body domain.ModerateInput true "Submission"
// @Success 200 {object} moderation.Decision "ok"
// @Router /moderation/moderate [post]
func (h *handlers) moderate(r *stdhttp.Request, in domain.ModerateInput) (any, error) {
	return h.svc.Moderate(r.Context(), in)
}
