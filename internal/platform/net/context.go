// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"

	"trustrank/internal/platform/logger"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyClientID   ctxKey = "client_id"
	keyClientSlot ctxKey = "client_slot"
)

// WithRequest annotates context with the request id and the calling client id.
// Both are mirrored onto the logger context so logger.C picks them up
func WithRequest(ctx context.Context, reqID, clientID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if clientID != "" {
		ctx = context.WithValue(ctx, keyClientID, clientID)
		if slot, ok := ctx.Value(keyClientSlot).(*string); ok {
			*slot = clientID
		}
	}
	if reqID == "" && clientID == "" {
		return ctx
	}
	return logger.WithRequest(ctx, reqID, clientID)
}

// TrackClient lets outer middleware read a client id that WithRequest sets on a
// derived context further down the chain
func TrackClient(ctx context.Context) (context.Context, func() string) {
	slot := new(string)
	return context.WithValue(ctx, keyClientSlot, slot), func() string { return *slot }
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// ClientID returns the authenticated api client on the context if present
func ClientID(ctx context.Context) string {
	if v, ok := ctx.Value(keyClientID).(string); ok {
		return v
	}
	return ""
}
