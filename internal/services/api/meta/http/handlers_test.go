package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trustrank/internal/core/version"
	phttp "trustrank/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type probe func(context.Context) error

func (p probe) Ping(ctx context.Context) error { return p(ctx) }

var up = probe(func(context.Context) error { return nil })

func serve(t *testing.T, d Deps, path string, data any) {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, d)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("%s: status=%d body=%s", path, rec.Code, rec.Body.String())
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if err := json.Unmarshal(env.Data, data); err != nil {
		t.Fatalf("data: %v", err)
	}
}

func TestReady(t *testing.T) {
	down := probe(func(context.Context) error { return errors.New("connection refused") })
	cases := []struct {
		name   string
		checks map[string]Pinger
		status string
		states []string
	}{
		{"all wired", map[string]Pinger{"pg": up, "ch": up, "redis": up}, "ready", []string{"ok", "ok", "ok"}},
		{"nothing wired", nil, "partial", []string{"off", "off", "off"}},
		{"redis off", map[string]Pinger{"pg": up, "ch": up}, "partial", []string{"ok", "ok", "off"}},
		{"pg down wins over off", map[string]Pinger{"pg": down}, "down", []string{"down", "off", "off"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Readiness
			serve(t, Deps{ServiceName: "trustrank-api", StartedAt: time.Now().Add(-90 * time.Second), Checks: tc.checks}, "/ready", &got)
			if got.Status != tc.status || got.Service != "trustrank-api" || got.UptimeS < 89 {
				t.Fatalf("got=%+v", got)
			}
			for i, want := range tc.states {
				if got.Backends[i].Name != Backends[i] || got.Backends[i].State != want {
					t.Fatalf("backend %d=%+v want %s", i, got.Backends[i], want)
				}
			}
			if tc.status == "down" && got.Backends[0].Error != "connection refused" {
				t.Fatalf("error not reported: %+v", got.Backends[0])
			}
		})
	}
}

func TestReady_BoundsPings(t *testing.T) {
	var deadline time.Time
	slow := probe(func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		return nil
	})
	var got Readiness
	serve(t, Deps{Checks: map[string]Pinger{"ch": slow}}, "/ready", &got)
	if deadline.IsZero() || time.Until(deadline) > ReadyTimeout {
		t.Fatalf("ping ran without the ready timeout, deadline=%v", deadline)
	}
}

func TestVersionAndLexicon(t *testing.T) {
	var bi version.BuildInfo
	serve(t, Deps{ServiceName: "trustrank-sweep"}, "/version", &bi)
	if bi.Service != "trustrank-sweep" || bi.Engine != version.EngineVersion {
		t.Fatalf("build info=%+v", bi)
	}

	var lx LexiconInfo
	serve(t, Deps{}, "/lexicon", &lx)
	if lx.EngineVersion != version.EngineVersion || lx.Lexicon.Positive == 0 || lx.Lexicon.Toxic == 0 {
		t.Fatalf("lexicon=%+v", lx)
	}
}
