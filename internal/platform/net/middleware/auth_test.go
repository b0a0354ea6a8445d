package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "trustrank/internal/platform/errors"
	pnet "trustrank/internal/platform/net"
	"trustrank/internal/platform/net/middleware"
)

type keyPort map[string]string

func (k keyPort) Parse(r *http.Request) (string, error) {
	if cid, ok := k[r.Header.Get("Authorization")]; ok {
		return cid, nil
	}
	if r.Header.Get("Authorization") == "" {
		return "", errors.New("no header")
	}
	return "", perr.Unauthorizedf("unknown api key")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestAuth(t *testing.T) {
	port := keyPort{"Bearer k-1": "partner-a"}
	cases := []struct {
		name    string
		port    middleware.AuthPort
		header  string
		code    int
		client  string
		errCode perr.ErrorCode
	}{
		{name: "nil port is open", port: nil, code: http.StatusOK},
		{name: "known key", port: port, header: "Bearer k-1", code: http.StatusOK, client: "partner-a"},
		{name: "unknown key", port: port, header: "Bearer nope", code: http.StatusUnauthorized, errCode: perr.ErrorCodeUnauthorized},
		{name: "foreign error is internal", port: port, code: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var reached bool
			var client, reqID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				client, reqID = pnet.ClientID(r.Context()), pnet.RequestID(r.Context())
			})

			req := httptest.NewRequest(http.MethodPost, "/feed/rank", nil)
			req = req.WithContext(pnet.WithRequest(req.Context(), "req-7", ""))
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			middleware.Auth(tc.port, writeJSON)(next).ServeHTTP(rec, req)

			if rec.Code != tc.code {
				t.Fatalf("code=%d want %d", rec.Code, tc.code)
			}
			if reached != (tc.code == http.StatusOK) {
				t.Fatalf("next reached=%v", reached)
			}
			if reached {
				if client != tc.client || reqID != "req-7" {
					t.Fatalf("client=%q request=%q", client, reqID)
				}
				return
			}
			var env pnet.Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("body: %v", err)
			}
			if env.RequestID != "req-7" || env.Code != tc.errCode {
				t.Fatalf("envelope=%+v", env)
			}
		})
	}
}
