package swaggerkit

import (
	"net/http"
	"strings"
	"sync"

	perr "trustrank/internal/platform/errors"
)

var (
	secureMu    sync.Mutex
	securePaths = map[string]map[string]bool{} // path -> lower method set
)

// MarkSecurePath records that method on path requires an api key. Paths are
// relative to the /api/v1 server, chi params ({id}) match swagger syntax
func MarkSecurePath(path, method string) {
	if path == "" || method == "" {
		return
	}
	secureMu.Lock()
	defer secureMu.Unlock()
	m := securePaths[path]
	if m == nil {
		m = map[string]bool{}
		securePaths[path] = m
	}
	m[strings.ToLower(method)] = true
}

// applySecurity adds a bearer scheme and attaches it to every marked operation present in spec
func applySecurity(spec map[string]any) {
	secureMu.Lock()
	defer secureMu.Unlock()
	if len(securePaths) == 0 {
		return
	}

	child(child(spec, "components"), "securitySchemes")["apiKey"] = map[string]any{"type": "http", "scheme": "bearer"}

	paths, _ := spec["paths"].(map[string]any)
	for p, methods := range securePaths {
		item, _ := paths[p].(map[string]any)
		if item == nil {
			continue
		}
		for m := range methods {
			if op, ok := item[m].(map[string]any); ok {
				op["security"] = []any{map[string]any{"apiKey": []any{}}}
				child(op, "responses")["401"] = errorResponse(http.StatusUnauthorized, perr.ErrorCodeUnauthorized, "invalid bearer token")
			}
		}
	}
}

func resetSecurePaths() {
	secureMu.Lock()
	securePaths = map[string]map[string]bool{}
	secureMu.Unlock()
}

// IsSecure reports whether MarkSecurePath recorded method on path
func IsSecure(path, method string) bool {
	secureMu.Lock()
	defer secureMu.Unlock()
	return securePaths[path][strings.ToLower(method)]
}
