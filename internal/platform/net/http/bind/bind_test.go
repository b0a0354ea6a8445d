package bind

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "trustrank/internal/platform/errors"
)

type rankReq struct {
	UserID string   `json:"user_id" validate:"required,userid,max=16"`
	Limit  int      `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
	Tags   []string `json:"tags,omitempty" validate:"omitempty,max=2,dive,max=8"`
}

func req(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/rank", strings.NewReader(body))
}

func TestParseJSON_OK(t *testing.T) {
	got, err := ParseJSON[rankReq](req(`{"user_id":"u-1","limit":20,"tags":["go"]}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got.UserID != "u-1" || got.Limit != 20 || len(got.Tags) != 1 {
		t.Fatalf("got=%+v", got)
	}
}

func TestParseJSON_Failures(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		code  perr.ErrorCode
		field string
		msg   string
	}{
		{"empty", ``, perr.ErrorCodeJSON, "", "empty body"},
		{"malformed", `{"user_id":`, perr.ErrorCodeJSON, "", "invalid JSON"},
		{"unknown field", `{"user_id":"u","extra":1}`, perr.ErrorCodeJSON, "", "unknown field"},
		{"trailing", `{"user_id":"u"} {}`, perr.ErrorCodeJSON, "", "trailing"},
		{"required", `{}`, perr.ErrorCodeValidation, "user_id", "required"},
		{"blank id", `{"user_id":"a b"}`, perr.ErrorCodeValidation, "user_id", "without spaces"},
		{"max", `{"user_id":"u","limit":51}`, perr.ErrorCodeValidation, "limit", "limit must be at most 50"},
		{"min", `{"user_id":"u","limit":-1}`, perr.ErrorCodeValidation, "limit", "limit must be at least 1"},
		{"dive", `{"user_id":"u","tags":["toolongtag"]}`, perr.ErrorCodeValidation, "tags[0]", "at most 8"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseJSON[rankReq](req(c.body))
			e, ok := perr.As(err)
			if !ok || e.Code() != c.code {
				t.Fatalf("err=%v", err)
			}
			if e.Field() != c.field || !strings.Contains(err.Error(), c.msg) {
				t.Fatalf("field=%q msg=%q", e.Field(), err.Error())
			}
		})
	}
}

func TestParseJSON_Options(t *testing.T) {
	type loose struct {
		A string `json:"a"`
	}
	if _, err := ParseJSON[loose](req(``), JSONOptions{AllowEmptyBody: true}); err != nil {
		t.Fatalf("empty allowed: %v", err)
	}
	if got, err := ParseJSON[loose](req(`{"a":"x","b":1}`), JSONOptions{}); err != nil || got.A != "x" {
		t.Fatalf("unknown allowed: %+v %v", got, err)
	}
	big := `{"a":"` + strings.Repeat("x", 64) + `"}`
	if _, err := ParseJSON[loose](req(big), JSONOptions{MaxBytes: 16}); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("expected truncated body error, got %v", err)
	}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error { c.closed = true; return nil }

func TestParseJSON_ClosesBody(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader(`{"user_id":"u"}`)}
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Body = body
	if _, err := ParseJSON[rankReq](r); err != nil || !body.closed {
		t.Fatalf("err=%v closed=%v", err, body.closed)
	}
}

func TestValidationFieldAndMessage_Foreign(t *testing.T) {
	if f, m := ValidationFieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil: %q %q", f, m)
	}
	if f, m := ValidationFieldAndMessage(io.EOF); f != "" || m != "EOF" {
		t.Fatalf("foreign: %q %q", f, m)
	}
}
