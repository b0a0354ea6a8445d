package http

import (
	"net/http"

	"trustrank/internal/platform/net/http/bind"
)

// JSONHandler binds and validates T from the body, then wraps fn's result in an
// envelope. A Response result is written as is
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return NoBody(func(r *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}

// NoBody wraps a handler that reads nothing from the body
func NoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}
