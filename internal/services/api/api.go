// Package api provides the HTTP API for the application
package api

import (
	"trustrank/internal/platform/config"
	"trustrank/internal/platform/logger"
	"trustrank/internal/platform/metrics"
	"trustrank/internal/platform/net/middleware"
	phttp "trustrank/internal/platform/net/http"
	"trustrank/internal/platform/store"

	"trustrank/internal/modkit"
	"trustrank/internal/modkit/httpkit"
	"trustrank/internal/modkit/module"
	"trustrank/internal/modkit/swaggerkit"

	feedmod "trustrank/internal/services/api/feed/module"
	metamod "trustrank/internal/services/api/meta/module"
	moderationmod "trustrank/internal/services/api/moderation/module"
	"trustrank/internal/services/engine"

	// backing modules (ports only, no routes)
	activitymod "trustrank/internal/services/activity/module"
	contentmod "trustrank/internal/services/content/module"
	profilesmod "trustrank/internal/services/profiles/module"
	verdictsmod "trustrank/internal/services/verdicts/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Engine         *engine.Engine // built from config when nil
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	log := logger.Get()
	if opt.Logger != nil {
		log = opt.Logger
	}
	deps := modkit.FromStore(opt.Store, opt.Config, *log)

	eng := opt.Engine
	if eng == nil {
		eng = engine.MustNew(engine.FromConfig(opt.Config))
	}

	// backing modules first so their ports can be injected
	mods := []module.Module{}
	feedPorts := feedmod.Ports{Scorer: eng.Scorer}
	modPorts := moderationmod.Ports{Engine: eng}

	if deps.PG != nil {
		profiles := profilesmod.New(deps)
		content := contentmod.New(deps)
		verdicts := verdictsmod.New(deps)
		mods = append(mods, profiles, content, verdicts)

		feedPorts.Profiles = module.MustPortsOf[profilesmod.Ports](profiles).Reader
		feedPorts.Content = module.MustPortsOf[contentmod.Ports](content).Reader
		modPorts.Verdicts = module.MustPortsOf[verdictsmod.Ports](verdicts).Writer
	} else {
		log.Warn().Msg("postgres not configured, feed uses empty profiles and verdicts are not persisted")
		feedPorts.Profiles = emptyProfiles{}
	}

	activity := activitymod.New(deps)
	actPorts := module.MustPortsOf[activitymod.Ports](activity)
	modPorts.History = actPorts.Reader
	modPorts.Recorder = actPorts.Recorder
	log.Info().Str("backend", activity.Backend()).Msg("activity window")

	mods = append(mods,
		activity,
		metamod.New(deps),
		feedmod.New(deps, modkit.WithPorts(feedPorts)),
		moderationmod.New(deps, modkit.WithPorts(modPorts)),
	)

	// scoring endpoints require a bearer api key once CORE_API_KEYS lists any
	var guard middleware.AuthPort
	keys, err := httpkit.NewKeyPort(opt.Config.Prefix("CORE_API_").MayCSV("KEYS", nil))
	if err != nil {
		panic(err)
	}
	if keys != nil {
		guard = keys
	} else {
		log.Warn().Msg("CORE_API_KEYS empty, feed and moderation routes are open")
	}
	public := map[string]bool{"meta": true}

	r.Handle("/health", middleware.Health())
	if opt.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	stack := middleware.Stack(middleware.OptionsFrom(opt.Config.Prefix("CORE_API_")))
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			if public[m.Name()] {
				m.MountRoutes(api)
			}
		}
		httpkit.Protected(api, guard, func(pr httpkit.Router) {
			for _, m := range mods {
				if !public[m.Name()] {
					m.MountRoutes(pr)
				}
			}
		})
	})
}
