// Package module is the minimal module contract plus typed port lookups. It sits
// apart from modkit so port packages can import it without cycles
package module

import phttp "trustrank/internal/platform/net/http"

// Module mounts routes and exposes ports to other modules
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r phttp.Router)
}
