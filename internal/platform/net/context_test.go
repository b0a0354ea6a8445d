package net_test

import (
	"context"
	"testing"

	pnet "trustrank/internal/platform/net"
)

func TestWithRequest_And_Getters(t *testing.T) {
	base := context.Background()

	cases := []struct {
		name       string
		req, cli   string
		wantReq    string
		wantClient string
	}{
		{"sets both ids", "req-123", "partner-a", "req-123", "partner-a"},
		{"sets only request id", "r-only", "", "r-only", ""},
		{"sets only client id", "", "c-only", "", "c-only"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := pnet.WithRequest(base, tc.req, tc.cli)
			if got := pnet.RequestID(ctx); got != tc.wantReq {
				t.Fatalf("RequestID got %q want %q", got, tc.wantReq)
			}
			if got := pnet.ClientID(ctx); got != tc.wantClient {
				t.Fatalf("ClientID got %q want %q", got, tc.wantClient)
			}
		})
	}

	t.Run("no ids returns same ctx and empty getters", func(t *testing.T) {
		ctx := pnet.WithRequest(base, "", "")

		// should be the same reference since nothing was set
		if ctx != base {
			t.Fatalf("expected ctx to be unchanged when both ids empty")
		}
		if got := pnet.RequestID(ctx); got != "" {
			t.Fatalf("RequestID got %q want empty", got)
		}
		if got := pnet.ClientID(ctx); got != "" {
			t.Fatalf("ClientID got %q want empty", got)
		}
	})
}

func TestTrackClient_SeesInnerClient(t *testing.T) {
	ctx, client := pnet.TrackClient(context.Background())
	if client() != "" {
		t.Fatalf("slot should start empty")
	}
	inner := pnet.WithRequest(pnet.WithRequest(ctx, "req-1", ""), "", "partner-b")
	if client() != "partner-b" || pnet.ClientID(ctx) != "" || pnet.ClientID(inner) != "partner-b" {
		t.Fatalf("client=%q outer=%q inner=%q", client(), pnet.ClientID(ctx), pnet.ClientID(inner))
	}
}
