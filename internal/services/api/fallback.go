package api

import (
	"context"

	"trustrank/internal/core/recommend"
)

// emptyProfiles serves cold-start profiles when postgres is not configured
type emptyProfiles struct{}

func (emptyProfiles) Get(_ context.Context, userID string) (recommend.Profile, error) {
	return recommend.Profile{UserID: userID, Interests: recommend.NewInterests()}, nil
}
