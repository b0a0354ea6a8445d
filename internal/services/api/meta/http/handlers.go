// Package http serves build, lexicon and readiness info under /meta
package http

import (
	"context"
	"net/http"
	"time"

	"trustrank/internal/core/lexicon"
	"trustrank/internal/core/version"
	"trustrank/internal/modkit/httpkit"
)

// Pinger is a backend readiness probe
type Pinger interface {
	Ping(context.Context) error
}

// Deps feed the meta handlers
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Lexicon     *lexicon.Lexicon  // the default lexicon when nil
	Checks      map[string]Pinger // keyed by backend name
}

// Backends every ready report lists, wired or not
var Backends = []string{"pg", "ch", "redis"}

// ReadyTimeout bounds all backend pings of one /ready call
const ReadyTimeout = 2 * time.Second

// Register mounts the meta routes on r
func Register(r httpkit.Router, d Deps) {
	if d.Lexicon == nil {
		d.Lexicon = lexicon.MustDefault()
	}
	m := meta{d: d, clock: time.Now}
	httpkit.Get(r, "/version", m.version)
	httpkit.Get(r, "/lexicon", m.lexicon)
	httpkit.Get(r, "/ready", m.ready)
}

type meta struct {
	d     Deps
	clock func() time.Time
}

// Backend is one line of a readiness report. State is ok, down or off
type Backend struct {
	Name  string `json:"name"  example:"pg"`
	State string `json:"state" example:"ok"`
	Error string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// Readiness is the /ready payload. Status is ready, partial (some backend
// off) or down (some backend failing its ping)
type Readiness struct {
	Service  string    `json:"service"  example:"trustrank-api"`
	Status   string    `json:"status"   example:"ready"`
	UptimeS  int64     `json:"uptime_s" example:"300"`
	Backends []Backend `json:"backends"`
}

// LexiconInfo reports the loaded word lists
type LexiconInfo struct {
	EngineVersion int           `json:"engine_version" example:"1"`
	Lexicon       lexicon.Stats `json:"lexicon"`
}

// @Summary Build and engine version
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (m meta) version(*http.Request) (any, error) {
	return version.Info(m.d.ServiceName), nil
}

// @Summary Lexicon list sizes
// @Tags Meta
// @Produce json
// @Success 200 {object} LexiconInfo
// @Router /meta/lexicon [get]
func (m meta) lexicon(*http.Request) (any, error) {
	return LexiconInfo{EngineVersion: version.EngineVersion, Lexicon: m.d.Lexicon.Stats()}, nil
}

// @Summary Readiness of the storage backends
// @Tags Meta
// @Produce json
// @Success 200 {object} Readiness
// @Router /meta/ready [get]
func (m meta) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), ReadyTimeout)
	defer cancel()

	out := Readiness{
		Service:  m.d.ServiceName,
		Status:   "ready",
		UptimeS:  int64(m.clock().Sub(m.d.StartedAt).Seconds()),
		Backends: make([]Backend, 0, len(Backends)),
	}
	for _, name := range Backends {
		b := Backend{Name: name, State: "off"}
		if p := m.d.Checks[name]; p != nil {
			b.State = "ok"
			if err := p.Ping(ctx); err != nil {
				b.State, b.Error = "down", err.Error()
			}
		}
		out.Backends = append(out.Backends, b)
	}
	out.Status = rollup(out.Backends)
	return out, nil
}

func rollup(bs []Backend) string {
	status := "ready"
	for _, b := range bs {
		switch b.State {
		case "down":
			return "down"
		case "off":
			status = "partial"
		}
	}
	return status
}
