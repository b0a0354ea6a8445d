// Package domain defines the moderation sweep over stored posts
package domain

import (
	"context"
	"time"

	actdom "trustrank/internal/services/activity/domain"
	contentdom "trustrank/internal/services/content/domain"
	verdom "trustrank/internal/services/verdicts/domain"
)

// Report summarizes one RunRange call
type Report struct {
	Pages     int `json:"pages"`
	Processed int `json:"processed"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Written   int `json:"written"`
}

// RunnerPort is the external port for the sweep job
type RunnerPort interface {
	RunRange(ctx context.Context, start, end time.Time) (Report, error)
}

// Ports are dependencies injected into the sweep module
type Ports struct {
	Pending  contentdom.PendingPort // required
	Verdicts verdom.WriterPort      // required unless dry-run
	History  actdom.ReaderPort      // optional, empty window when nil
}
