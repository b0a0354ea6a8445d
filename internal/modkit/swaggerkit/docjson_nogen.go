//go:build !swag

package swaggerkit

// docReader serves an empty document until swag has generated the docs package
var docReader = func() string {
	return `{"openapi":"3.0.3","info":{"title":"Trustrank API","version":"0.0.0"},"paths":{}}`
}
