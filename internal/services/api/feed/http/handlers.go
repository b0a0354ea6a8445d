// Package http provides http transport for feed ranking
package http

import (
	stdhttp "net/http"

	"trustrank/internal/modkit/httpkit"
	"trustrank/internal/services/api/feed/domain"
	svc "trustrank/internal/services/api/feed/service"
)

// Register mounts feed endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.RankInput](r, "/rank", h.rank)
	httpkit.PostJSON[domain.ScoreInput](r, "/score", h.score)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /feed/rank Feed feedRank
// @Summary Rank candidate posts for a viewer
// @Tags Feed
// @Accept json
// @Produce json
// @Param payload body domain.RankInput true "Viewer and optional candidates"
// @Success 200 {object} domain.RankOutput "ok"
// @Router /feed/rank [post]
func (h *handlers) rank(r *stdhttp.Request, in domain.RankInput) (any, error) {
	return h.svc.Rank(r.Context(), in)
}

// swagger:route POST /feed/score Feed feedScore
// @Summary Score one post for a viewer
// @Tags Feed
// @Accept json
// @Produce json
// @Param payload body domain.ScoreInput true "Viewer and item"
// @Success 200 {object} recommend.Score "ok"
// @Router /feed/score [post]
func (h *handlers) score(r *stdhttp.Request, in domain.ScoreInput) (any, error) {
	return h.svc.Score(r.Context(), in)
}
